package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/D3stan/motorcycle-repair-shop-MS-sub001/internal/auth"
	"github.com/D3stan/motorcycle-repair-shop-MS-sub001/internal/models"
)

func protectedRouter(t *testing.T, tokens *auth.Manager, guards ...gin.HandlerFunc) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	group := r.Group("", authMiddleware(tokens))
	group.Use(guards...)
	group.GET("/protected", func(c *gin.Context) {
		c.JSON(http.StatusOK, Response{Success: true, Data: identityFrom(c).UserID})
	})
	return r
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	tokens := auth.NewManager("test-secret", time.Hour)
	r := protectedRouter(t, tokens)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_MalformedHeader(t *testing.T) {
	tokens := auth.NewManager("test-secret", time.Hour)
	r := protectedRouter(t, tokens)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Token abc")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	tokens := auth.NewManager("test-secret", time.Hour)
	token, err := tokens.GenerateToken(auth.Identity{UserID: 7, Role: models.RoleCustomer}, time.Now())
	require.NoError(t, err)

	r := protectedRouter(t, tokens)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireStaff_CustomerForbidden(t *testing.T) {
	tokens := auth.NewManager("test-secret", time.Hour)
	token, err := tokens.GenerateToken(auth.Identity{UserID: 7, Role: models.RoleCustomer}, time.Now())
	require.NoError(t, err)

	r := protectedRouter(t, tokens, requireStaff())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireStaff_MechanicAllowed(t *testing.T) {
	tokens := auth.NewManager("test-secret", time.Hour)
	token, err := tokens.GenerateToken(auth.Identity{UserID: 2, Role: models.RoleMechanic}, time.Now())
	require.NoError(t, err)

	r := protectedRouter(t, tokens, requireStaff())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAdmin_MechanicForbidden(t *testing.T) {
	tokens := auth.NewManager("test-secret", time.Hour)
	token, err := tokens.GenerateToken(auth.Identity{UserID: 2, Role: models.RoleMechanic}, time.Now())
	require.NoError(t, err)

	r := protectedRouter(t, tokens, requireAdmin())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(requestIDMiddleware())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w, req)

	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "fixed-id")
	r.ServeHTTP(w, req)

	assert.Equal(t, "fixed-id", w.Header().Get("X-Request-ID"))
}
