package middleware

import (
	"context"

	"github.com/SscSPs/multicurrency_ledger/internal/core/domain"
	"github.com/gin-gonic/gin"
)

const (
	userIDKey = contextKey("userID")
	rolesKey  = contextKey("roles")
)

// GetUserIDFromContext retrieves the authenticated user ID from the request context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userID, ok := c.Request.Context().Value(userIDKey).(string)
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}

// GetRolesFromContext retrieves the caller's role claims.
func GetRolesFromContext(c *gin.Context) []domain.UserRole {
	roles, _ := c.Request.Context().Value(rolesKey).([]domain.UserRole)
	return roles
}

// WithIdentity returns a copy of ctx carrying the caller's id and roles.
func WithIdentity(ctx context.Context, userID string, roles []domain.UserRole) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, rolesKey, roles)
}
