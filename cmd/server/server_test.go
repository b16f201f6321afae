package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestCorsMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(corsMiddleware([]string{"https://play.example.com"}))
	r.GET("/api/game/state", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	tests := []struct {
		name   string
		origin string
		status int
		allow  string
	}{
		{name: "listed origin", origin: "https://play.example.com", status: http.StatusOK, allow: "https://play.example.com"},
		{name: "other origin", origin: "https://evil.example.com", status: http.StatusForbidden},
		{name: "same origin", status: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/game/state", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.allow, w.Header().Get("Access-Control-Allow-Origin"))
			if tt.allow != "" {
				assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
			}
		})
	}
}
