package middleware

import (
	"net/http"
	"strings"

	"invoicing/pkg/response"

	"github.com/gin-gonic/gin"
)

// Context keys populated by the auth middleware.
const (
	ContextUserID   = "userID"
	ContextUsername = "username"
	ContextUserRole = "userRole"
)

// authenticate extracts and validates the bearer token, aborting with 401 on
// any failure. Returns the claims and whether the request may proceed.
func authenticate(c *gin.Context) (*AuthClaims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Authorization is missing"))
		return nil, false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid authorization format. Expected 'Bearer <token>'"))
		return nil, false
	}

	claims, err := ParseToken(parts[1])
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid token: "+err.Error()))
		return nil, false
	}

	c.Set(ContextUserID, claims.Subject)
	c.Set(ContextUsername, claims.Username)
	c.Set(ContextUserRole, claims.Role)
	return claims, true
}

// RequireAuth admits any request carrying a valid token.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := authenticate(c); !ok {
			return
		}
		c.Next()
	}
}

// RequirePermission validates the token, then checks the caller's role
// against the capability table. An authenticated caller lacking the
// permission is rejected with 403, distinct from the 401 of a missing or
// invalid token.
func RequirePermission(permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := authenticate(c)
		if !ok {
			return
		}

		if !RoleHasPermission(claims.Role, permission) {
			c.AbortWithStatusJSON(http.StatusForbidden, response.Error(http.StatusForbidden, "Access denied: missing permission '"+permission+"'"))
			return
		}

		c.Next()
	}
}
