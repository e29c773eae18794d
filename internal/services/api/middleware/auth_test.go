package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/mavericklabs/sparks-files/env"
	"github.com/mavericklabs/sparks-files/internal/services/api/middleware"
)

func signToken(t *testing.T, secret, email string) string {
	t.Helper()

	claims := middleware.Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func newEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gate, err := middleware.NewGate()
	require.NoError(t, err)

	engine := gin.New()
	engine.GET("/ping", middleware.Auth(gate), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(middleware.CtxEmail))
	})
	return engine
}

func TestAuth(t *testing.T) {
	t.Setenv(env.JWTSecret, "test-secret")
	t.Setenv(env.AllowedEmails, "jo@maverick.dev, sam@maverick.dev")

	engine := newEngine(t)

	do := func(header string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		recorder := httptest.NewRecorder()
		engine.ServeHTTP(recorder, req)
		return recorder
	}

	resp := do("")
	require.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = do("token-without-bearer")
	require.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = do("Bearer not-a-token")
	require.Equal(t, http.StatusUnauthorized, resp.Code)

	// valid token, email outside the allow-list
	resp = do("Bearer " + signToken(t, "test-secret", "stranger@example.com"))
	require.Equal(t, http.StatusForbidden, resp.Code)

	// wrong signing secret
	resp = do("Bearer " + signToken(t, "other-secret", "jo@maverick.dev"))
	require.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = do("Bearer " + signToken(t, "test-secret", "jo@maverick.dev"))
	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, "jo@maverick.dev", resp.Body.String())
}

func TestAuthEmptyAllowListAdmitsAnyValidToken(t *testing.T) {
	t.Setenv(env.JWTSecret, "test-secret")
	t.Setenv(env.AllowedEmails, "")

	engine := newEngine(t)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "test-secret", "anyone@example.com"))
	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, req)
	require.Equal(t, http.StatusOK, recorder.Code)
}
