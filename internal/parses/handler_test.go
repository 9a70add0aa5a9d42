package parses_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"matchrate-backend/internal/bootstrap"
	"matchrate-backend/internal/shared/config"
)

const resumeText = "Jane Doe\nSUMMARY\nBackend engineer.\nPROFESSIONAL EXPERIENCE\nSenior Engineer | Acme Corp | 2020 - Present\n• Built things.\n"

func newRouter(t *testing.T) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)
	app, err := bootstrap.Build(config.Config{
		LocalStoreDir:   t.TempDir(),
		Env:             "dev",
		ObjectStoreType: "local",
	})
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}
	return app.Router
}

func postJSON(router http.Handler, path string, body any, guest string) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if guest != "" {
		req.Header.Set("X-Guest-Id", guest)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestPreviewNeedsNoIdentity(t *testing.T) {
	router := newRouter(t)

	resp := postJSON(router, "/api/v1/parse", map[string]string{"text": resumeText}, "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var payload struct {
		Record struct {
			Name        string `json:"name"`
			Experiences []struct {
				Title   string   `json:"title"`
				Company string   `json:"company"`
				Dates   string   `json:"dates"`
				Bullets []string `json:"bullets"`
			} `json:"experiences"`
			Recognition []string `json:"recognition"`
		} `json:"record"`
		Warnings   []map[string]any `json:"warnings"`
		Confidence float64          `json:"confidence"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Record.Name != "Jane Doe" {
		t.Fatalf("unexpected name %q", payload.Record.Name)
	}
	if len(payload.Record.Experiences) != 1 || payload.Record.Experiences[0].Company != "Acme Corp" {
		t.Fatalf("unexpected experiences %+v", payload.Record.Experiences)
	}
	if payload.Record.Recognition != nil {
		t.Fatalf("expected null recognition")
	}
}

func TestPreviewEmptyTextReturnsDefaults(t *testing.T) {
	router := newRouter(t)

	resp := postJSON(router, "/api/v1/parse", map[string]string{"text": ""}, "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
}

func TestCreateAndGetParse(t *testing.T) {
	router := newRouter(t)

	resp := postJSON(router, "/api/v1/parses", map[string]string{"text": resumeText}, "g1")
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var created struct {
		ParseID string `json:"parseId"`
		Source  string `json:"source"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.ParseID == "" || created.Source != "text" {
		t.Fatalf("unexpected create response %+v", created)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/parses/"+created.ParseID, nil)
	req.Header.Set("X-Guest-Id", "g1")
	getResp := httptest.NewRecorder()
	router.ServeHTTP(getResp, req)
	if getResp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", getResp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/parses/"+created.ParseID, nil)
	req.Header.Set("X-Guest-Id", "g2")
	otherResp := httptest.NewRecorder()
	router.ServeHTTP(otherResp, req)
	if otherResp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for other user, got %d", otherResp.Code)
	}
}

func TestCreateParseRejectsBlankText(t *testing.T) {
	router := newRouter(t)

	resp := postJSON(router, "/api/v1/parses", map[string]string{"text": "   "}, "g1")
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestParseUnknownDocument(t *testing.T) {
	router := newRouter(t)

	resp := postJSON(router, "/api/v1/documents/missing/parse", nil, "g1")
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}
