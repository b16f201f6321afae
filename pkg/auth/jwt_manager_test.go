package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateVerify(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)

	token, err := m.Generate("guest-1", "ABC123")
	require.NoError(t, err)

	claims, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "guest-1", claims.Subject)
	assert.Equal(t, "ABC123", claims.Room)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestVerifyRejects(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)

	tests := []struct {
		name  string
		token func(t *testing.T) string
	}{
		{
			name: "other secret",
			token: func(t *testing.T) string {
				token, err := NewJWTManager("other", time.Hour).Generate("guest-1", "")
				require.NoError(t, err)
				return token
			},
		},
		{
			name: "expired",
			token: func(t *testing.T) string {
				token, err := NewJWTManager("secret", -time.Minute).Generate("guest-1", "")
				require.NoError(t, err)
				return token
			},
		},
		{
			name: "empty subject",
			token: func(t *testing.T) string {
				token, err := m.Generate("", "ABC123")
				require.NoError(t, err)
				return token
			},
		},
		{
			name:  "garbage",
			token: func(*testing.T) string { return "not-a-token" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Verify(tt.token(t))
			assert.Error(t, err)
		})
	}
}

func TestExtractToken(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := ExtractToken(r, "uc_guest")
	assert.Error(t, err)

	r.Header.Set("Authorization", "Bearer header-token")
	token, err := ExtractToken(r, "uc_guest")
	require.NoError(t, err)
	assert.Equal(t, "header-token", token)

	r.AddCookie(&http.Cookie{Name: "uc_guest", Value: "cookie-token"})
	token, err = ExtractToken(r, "uc_guest")
	require.NoError(t, err)
	assert.Equal(t, "cookie-token", token)
}
