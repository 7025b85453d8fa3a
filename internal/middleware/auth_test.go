package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const authTestSecret = "secret"

func authRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Auth(authTestSecret))
	r.GET("/whoami", func(c *gin.Context) {
		id, ok := UserID(c)
		if !ok {
			c.String(http.StatusInternalServerError, "no user")
			return
		}
		c.String(http.StatusOK, id)
	})
	return r
}

func authRequest(r *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func signedToken(t *testing.T, secret string, claims jwt.Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func TestAuthAcceptsValidToken(t *testing.T) {
	r := authRouter()
	token := signedToken(t, authTestSecret, jwt.RegisteredClaims{
		Subject:   "u42",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})

	w := authRequest(r, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u42", w.Body.String())
}

func TestAuthRejectsBadHeaders(t *testing.T) {
	r := authRouter()

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic dXNlcjpwYXNz"},
		{"garbage token", "Bearer not.a.jwt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := authRequest(r, tt.header)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestAuthRejectsWrongSecret(t *testing.T) {
	r := authRouter()
	token := signedToken(t, "other-secret", jwt.RegisteredClaims{Subject: "u1"})
	w := authRequest(r, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRejectsExpiredToken(t *testing.T) {
	r := authRouter()
	token := signedToken(t, authTestSecret, jwt.RegisteredClaims{
		Subject:   "u1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	})
	w := authRequest(r, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRejectsMissingSubject(t *testing.T) {
	r := authRouter()
	token := signedToken(t, authTestSecret, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	w := authRequest(r, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUserIDWithoutAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	_, ok := UserID(c)
	assert.False(t, ok)
}
