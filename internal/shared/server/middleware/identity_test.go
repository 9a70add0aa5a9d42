package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestIdentityHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name    string
		headers map[string]string
		status  int
		userID  string
	}{
		{"user header", map[string]string{"X-User-Id": "u-1"}, http.StatusOK, "u-1"},
		{"guest header", map[string]string{"X-Guest-Id": "g-1"}, http.StatusOK, "guest:g-1"},
		{"user wins over guest", map[string]string{"X-User-Id": "u-1", "X-Guest-Id": "g-1"}, http.StatusOK, "u-1"},
		{"missing identity", nil, http.StatusUnauthorized, ""},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			router := gin.New()
			router.Use(Identity(), RequireIdentity())
			router.GET("/api/v1/parses", func(c *gin.Context) {
				seen = UserIDFromContext(c)
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/v1/parses", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)

			if resp.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, resp.Code)
			}
			if seen != tt.userID {
				t.Fatalf("expected user %q, got %q", tt.userID, seen)
			}
		})
	}
}

func TestRequireIdentityAllowsOptions(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Identity(), RequireIdentity())
	router.OPTIONS("/api/v1/parses", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/parses", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}
}
