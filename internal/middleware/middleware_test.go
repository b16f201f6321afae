package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thereayou/undercover/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestGuestIdentity(t *testing.T) {
	jwtManager := auth.NewJWTManager("secret", time.Hour)

	r := gin.New()
	r.Use(GuestIdentity(jwtManager))
	r.GET("/open", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"guest": GuestID(c), "room": GuestRoom(c)})
	})
	r.GET("/closed", RequireGuest(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	token, err := jwtManager.Generate("guest-1", "ABC123")
	require.NoError(t, err)

	tests := []struct {
		name   string
		path   string
		cookie string
		status int
		body   string
	}{
		{name: "anonymous open", path: "/open", status: http.StatusOK, body: `{"guest":"","room":""}`},
		{name: "guest open", path: "/open", cookie: token, status: http.StatusOK, body: `{"guest":"guest-1","room":"ABC123"}`},
		{name: "anonymous closed", path: "/closed", status: http.StatusUnauthorized, body: `{"error":"GUEST_REQUIRED"}`},
		{name: "forged closed", path: "/closed", cookie: token + "x", status: http.StatusUnauthorized, body: `{"error":"GUEST_REQUIRED"}`},
		{name: "guest closed", path: "/closed", cookie: token, status: http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: GuestCookie, Value: tt.cookie})
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.body != "" {
				assert.JSONEq(t, tt.body, w.Body.String())
			}
		})
	}
}

func TestRateLimit(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger())
	r.POST("/", RateLimit(NewIPRateLimiter(0.001, 2)), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	send := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send("10.0.0.1"))
	assert.Equal(t, http.StatusOK, send("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.1"))
	assert.Equal(t, http.StatusOK, send("10.0.0.2"))
}
