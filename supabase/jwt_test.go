package supabase

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "super-secret"

func TestUserIDVerified(t *testing.T) {
	token, err := GenerateTestJWT("user-1", testSecret, time.Hour)
	require.NoError(t, err)

	r := httptest.NewRequest("GET", "/api/tasks", nil)
	r.Header.Set("Authorization", "Bearer "+token)

	id, err := Authenticator{Secret: testSecret}.UserID(r)
	require.NoError(t, err)
	assert.Equal(t, "user-1", id)
}

func TestUserIDRejectsBadTokens(t *testing.T) {
	wrongKey, err := GenerateTestJWT("user-1", "other", time.Hour)
	require.NoError(t, err)
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	expiredToken, err := expired.SignedString([]byte(testSecret))
	require.NoError(t, err)
	noSub, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	auth := Authenticator{Secret: testSecret, Required: true}
	for name, header := range map[string]string{
		"missing":   "",
		"no bearer": "Token abc",
		"garbage":   "Bearer not-a-jwt",
		"wrong key": "Bearer " + wrongKey,
		"expired":   "Bearer " + expiredToken,
		"no sub":    "Bearer " + noSub,
	} {
		t.Run(name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			if header != "" {
				r.Header.Set("Authorization", header)
			}
			_, err := auth.UserID(r)
			assert.ErrorIs(t, err, ErrUnauthorized)
		})
	}
}

func TestUserIDUnverifiedWithoutSecret(t *testing.T) {
	token, err := GenerateTestJWT("user-2", "whatever", time.Hour)
	require.NoError(t, err)

	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Authorization", "Bearer "+token)

	id, err := Authenticator{}.UserID(r)
	require.NoError(t, err)
	assert.Equal(t, "user-2", id)
}

func TestUserIDDefaultUser(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)

	id, err := Authenticator{DefaultUser: "demo"}.UserID(r)
	require.NoError(t, err)
	assert.Equal(t, "demo", id)

	_, err = Authenticator{DefaultUser: "demo", Required: true}.UserID(r)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestNewClientRequiresCredentials(t *testing.T) {
	_, err := NewClient("", "key")
	assert.Error(t, err)
	_, err = NewClient("https://example.supabase.co", "")
	assert.Error(t, err)
}
