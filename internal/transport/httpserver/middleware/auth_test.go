package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expense-ledger-go/internal/config"
	"expense-ledger-go/pkg/logger"
)

const testSecret = "test-secret"

func protectedHandler(t *testing.T, auth *JWTAuth) http.Handler {
	t.Helper()
	return auth.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		require.True(t, ok)
		_, _ = w.Write([]byte(user.ID))
	}))
}

func serve(handler http.Handler, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/records", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuthAcceptsValidToken(t *testing.T) {
	auth := NewJWTAuth(config.AuthConfig{JWTSecret: testSecret, JWTIssuer: "ledger"}, logger.NewNop())
	token, err := SignToken(testSecret, "ledger", User{ID: "owner-1"}, time.Hour)
	require.NoError(t, err)

	rec := serve(protectedHandler(t, auth), "Bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "owner-1", rec.Body.String())
}

func TestJWTAuthRejectsBadTokens(t *testing.T) {
	auth := NewJWTAuth(config.AuthConfig{JWTSecret: testSecret, JWTIssuer: "ledger"}, logger.NewNop())

	wrongSecret, err := SignToken("other-secret", "ledger", User{ID: "owner-1"}, time.Hour)
	require.NoError(t, err)
	wrongIssuer, err := SignToken(testSecret, "someone-else", User{ID: "owner-1"}, time.Hour)
	require.NoError(t, err)
	noSubject, err := SignToken(testSecret, "ledger", User{}, time.Hour)
	require.NoError(t, err)

	expiredClaims := Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "owner-1",
		Issuer:    "ledger",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	}}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, expiredClaims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := map[string]string{
		"missing header": "",
		"not bearer":     "Basic abc",
		"garbage":        "Bearer not-a-token",
		"wrong secret":   "Bearer " + wrongSecret,
		"wrong issuer":   "Bearer " + wrongIssuer,
		"no subject":     "Bearer " + noSubject,
		"expired":        "Bearer " + expired,
	}

	for name, header := range tests {
		t.Run(name, func(t *testing.T) {
			rec := serve(protectedHandler(t, auth), header)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), "invalid_token")
		})
	}
}

func TestJWTAuthSkipUsesMockUser(t *testing.T) {
	auth := NewJWTAuth(config.AuthConfig{SkipAuth: true, MockUserID: "dev-user"}, logger.NewNop())

	rec := serve(protectedHandler(t, auth), "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "dev-user", rec.Body.String())
}

func TestCORS(t *testing.T) {
	handler := NewCORS([]string{"http://localhost:5173"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/records", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/records", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
