package respond

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestAttachmentHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	resp := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(resp)

	Attachment(c, "Jane \"JD\" Doe\r\n_resume.docx", "application/octet-stream")
	c.Status(http.StatusOK)

	if got := resp.Header().Get("Content-Disposition"); got != `attachment; filename="Jane 'JD' Doe_resume.docx"` {
		t.Fatalf("unexpected disposition %q", got)
	}
	if got := resp.Header().Get("Content-Type"); got != "application/octet-stream" {
		t.Fatalf("unexpected content type %q", got)
	}
}

func TestCreated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	resp := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(resp)

	Created(c, gin.H{"id": "p1"})

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}
	if resp.Body.String() != `{"id":"p1"}` {
		t.Fatalf("unexpected body %s", resp.Body.String())
	}
}
