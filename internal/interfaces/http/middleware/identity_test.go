package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func identityTestRouter() (*gin.Engine, *string) {
	gin.SetMode(gin.TestMode)
	var captured string
	r := gin.New()
	r.Use(Identity("dev_user"))
	r.GET("/whoami", func(c *gin.Context) {
		captured = CurrentUserID(c)
		c.Status(http.StatusOK)
	})
	return r, &captured
}

func doIdentityRequest(t *testing.T, r *gin.Engine, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIdentityUserIDHeaderWins(t *testing.T) {
	r, captured := identityTestRouter()

	w := doIdentityRequest(t, r, map[string]string{
		"X-User-ID":     "alice",
		"Authorization": "Bearer bob-token",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice", *captured)
}

func TestIdentityBearerTokenAsUserID(t *testing.T) {
	r, captured := identityTestRouter()

	w := doIdentityRequest(t, r, map[string]string{"Authorization": "Bearer tok-123"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "tok-123", *captured)

	// 前缀大小写不敏感
	w = doIdentityRequest(t, r, map[string]string{"Authorization": "bearer tok-456"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "tok-456", *captured)
}

func TestIdentityDefaultUser(t *testing.T) {
	r, captured := identityTestRouter()

	w := doIdentityRequest(t, r, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "dev_user", *captured)
}

func TestIdentityMalformedAuthorization(t *testing.T) {
	r, _ := identityTestRouter()

	w := doIdentityRequest(t, r, map[string]string{"Authorization": "Basic dXNlcjpwYXNz"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doIdentityRequest(t, r, map[string]string{"Authorization": "Bearer   "})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
