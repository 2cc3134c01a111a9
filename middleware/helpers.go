package middleware

import (
	"context"
	"errors"

	"github.com/officegames/rating-system/models"
)

var ErrNoIdentity = errors.New("no authenticated identity on context")

func UserIDFromContext(ctx context.Context) (int, error) {
	userID, ok := ctx.Value(userIDContextKey).(int)
	if !ok || userID <= 0 {
		return 0, ErrNoIdentity
	}
	return userID, nil
}

func UserRoleFromContext(ctx context.Context) (models.UserRole, error) {
	role, ok := ctx.Value(roleContextKey).(models.UserRole)
	if !ok {
		return "", ErrNoIdentity
	}
	switch role {
	case models.RoleAdmin, models.RolePlayer:
		return role, nil
	default:
		return "", ErrNoIdentity
	}
}
