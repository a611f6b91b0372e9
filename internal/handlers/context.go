package handlers

import (
	"context"

	"github.com/ecodrop/ecodrop-api/internal/models"
)

// Context keys
type contextKey string

const (
	// UserIDKey is the key for the user ID in the context
	UserIDKey contextKey = "userID"

	// RoleKey is the key for the user role in the context
	RoleKey contextKey = "role"
)

// NewContextWithUser adds a user ID and role to the context
func NewContextWithUser(ctx context.Context, userID string, role models.UserRole) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, userID)
	return context.WithValue(ctx, RoleKey, role)
}

// UserIDFromContext extracts the user ID from the context
func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok
}

// RoleFromContext extracts the user role from the context
func RoleFromContext(ctx context.Context) (models.UserRole, bool) {
	role, ok := ctx.Value(RoleKey).(models.UserRole)
	return role, ok
}
