package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"apptravel/internal/handler"
)

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(handler.RequestID())
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("request_id"))
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(handler.RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Body.String() != "abc-123" || w.Header().Get(handler.RequestIDHeader) != "abc-123" {
		t.Errorf("incoming request id not propagated: body %q header %q", w.Body.String(), w.Header().Get(handler.RequestIDHeader))
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if id := w.Header().Get(handler.RequestIDHeader); id == "" || id != w.Body.String() {
		t.Errorf("expected a generated request id, got header %q body %q", id, w.Body.String())
	}
}
