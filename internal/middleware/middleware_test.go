package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harentsoaR/medicare-api/internal/utils"
)

func newRouter(t *testing.T, tokens *utils.JWTManager) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	api := r.Group("/api", AuthMiddleware(tokens))
	api.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": c.GetString(UserIDKey), "role": c.GetString(UserRoleKey)})
	})
	api.GET("/admin", RequireRole("admin"), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return r
}

func get(r http.Handler, path, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	tokens, err := utils.NewJWTManager("secret", time.Hour)
	require.NoError(t, err)
	r := newRouter(t, tokens)

	token, err := tokens.Generate("507f1f77bcf86cd799439011", "patient")
	require.NoError(t, err)

	w := get(r, "/api/me", "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"507f1f77bcf86cd799439011","role":"patient"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	assert.Equal(t, http.StatusUnauthorized, get(r, "/api/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/api/me", token).Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/api/me", "Bearer garbage").Code)

	expiredTokens, err := utils.NewJWTManager("secret", -time.Minute)
	require.NoError(t, err)
	expired, err := expiredTokens.Generate("507f1f77bcf86cd799439011", "patient")
	require.NoError(t, err)
	w = get(r, "/api/me", "Bearer "+expired)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Token expired")
}

func TestRequireRole(t *testing.T) {
	tokens, err := utils.NewJWTManager("secret", time.Hour)
	require.NoError(t, err)
	r := newRouter(t, tokens)

	patient, _ := tokens.Generate("507f1f77bcf86cd799439011", "patient")
	admin, _ := tokens.Generate("507f1f77bcf86cd799439012", "admin")

	assert.Equal(t, http.StatusForbidden, get(r, "/api/admin", "Bearer "+patient).Code)
	assert.Equal(t, http.StatusNoContent, get(r, "/api/admin", "Bearer "+admin).Code)
}

func TestRequestIDIsEchoed(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("requestID")) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Body.String())
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}
