package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"invoicing/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleHasPermission(t *testing.T) {
	t.Run("admin holds everything", func(t *testing.T) {
		for _, perm := range []string{
			PermUsersWrite, PermUsersDelete, PermCompaniesWrite, PermClientsWrite,
			PermBankAccountsWrite, PermBankMappingsWrite, PermInvoicesWrite,
			PermInvoicesDelete, PermReportsRead,
		} {
			assert.True(t, RoleHasPermission(model.RoleAdmin, perm), perm)
		}
	})

	t.Run("invoice creator", func(t *testing.T) {
		assert.True(t, RoleHasPermission(model.RoleInvoiceCreator, PermInvoicesWrite))
		assert.True(t, RoleHasPermission(model.RoleInvoiceCreator, PermInvoicesDelete))
		assert.True(t, RoleHasPermission(model.RoleInvoiceCreator, PermClientsWrite))
		assert.True(t, RoleHasPermission(model.RoleInvoiceCreator, PermBankMappingsWrite))
		assert.True(t, RoleHasPermission(model.RoleInvoiceCreator, PermReportsRead))

		assert.False(t, RoleHasPermission(model.RoleInvoiceCreator, PermUsersWrite))
		assert.False(t, RoleHasPermission(model.RoleInvoiceCreator, PermCompaniesWrite))
		assert.False(t, RoleHasPermission(model.RoleInvoiceCreator, PermBankAccountsWrite))
	})

	t.Run("view only reads", func(t *testing.T) {
		assert.True(t, RoleHasPermission(model.RoleViewOnly, PermInvoicesRead))
		assert.True(t, RoleHasPermission(model.RoleViewOnly, PermReportsRead))

		assert.False(t, RoleHasPermission(model.RoleViewOnly, PermInvoicesWrite))
		assert.False(t, RoleHasPermission(model.RoleViewOnly, PermClientsWrite))
	})

	t.Run("unknown role has nothing", func(t *testing.T) {
		assert.False(t, RoleHasPermission("SuperUser", PermInvoicesRead))
		assert.False(t, RoleHasPermission("", PermInvoicesRead))
	})
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/read", RequirePermission(PermInvoicesRead), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.GetString(ContextUserID),
			"role":    c.GetString(ContextUserRole),
		})
	})
	router.GET("/write", RequirePermission(PermInvoicesWrite), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	router.GET("/any", RequireAuth(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func mintToken(t *testing.T, role string) (string, uuid.UUID) {
	t.Helper()

	userID := uuid.New()
	token, err := NewToken(&model.User{
		ID:       userID,
		Username: "tester",
		Email:    "tester@example.com",
		Role:     role,
	})
	require.NoError(t, err)
	return token, userID
}

func perform(router *gin.Engine, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRequirePermission(t *testing.T) {
	router := newTestRouter()

	t.Run("missing token is 401", func(t *testing.T) {
		rec := perform(router, "/read", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed header is 401", func(t *testing.T) {
		rec := perform(router, "/read", "Basic abc123")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage token is 401", func(t *testing.T) {
		rec := perform(router, "/read", "Bearer not.a.token")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("authenticated but unauthorized is 403", func(t *testing.T) {
		token, _ := mintToken(t, model.RoleViewOnly)
		rec := perform(router, "/write", "Bearer "+token)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("authorized caller passes with identity in context", func(t *testing.T) {
		token, userID := mintToken(t, model.RoleViewOnly)
		rec := perform(router, "/read", "Bearer "+token)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), userID.String())
		assert.Contains(t, rec.Body.String(), model.RoleViewOnly)
	})

	t.Run("RequireAuth admits any valid token", func(t *testing.T) {
		token, _ := mintToken(t, model.RoleViewOnly)
		rec := perform(router, "/any", "Bearer "+token)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestParseToken_RejectsTamperedToken(t *testing.T) {
	token, _ := mintToken(t, model.RoleAdmin)

	_, err := ParseToken(token)
	require.NoError(t, err)

	tampered := token[:len(token)-4] + "AAAA"
	_, err = ParseToken(tampered)
	assert.Error(t, err)
}
