package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAuthRouter(t *testing.T) (*gin.Engine, *Tokens, *bool) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens, err := NewTokens("test-secret", time.Hour)
	require.NoError(t, err)

	handlerCalled := false
	router := gin.New()
	router.GET("/protected", RequireAuth(tokens), func(c *gin.Context) {
		handlerCalled = true
		c.JSON(http.StatusOK, gin.H{"user": GetUserID(c)})
	})
	return router, tokens, &handlerCalled
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	router, _, handlerCalled := setupAuthRouter(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/protected", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "authorization required")
	assert.False(t, *handlerCalled, "handler must not run without a credential")
}

func TestRequireAuth_MalformedHeader(t *testing.T) {
	router, tokens, handlerCalled := setupAuthRouter(t)
	signed, err := tokens.Issue("user-1")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", signed) // no Bearer prefix
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, *handlerCalled)
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	router, _, handlerCalled := setupAuthRouter(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer bogus")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "invalid token")
	assert.False(t, *handlerCalled)
}

func TestRequireAuth_ValidToken(t *testing.T) {
	router, tokens, handlerCalled := setupAuthRouter(t)
	signed, err := tokens.Issue("user-1")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user-1")
	assert.True(t, *handlerCalled)
}
