package utils

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	UserIDKey contextKey = "user_id"
	EmailKey  contextKey = "email"
)

// Identity is the authenticated caller attached by the auth middleware.
type Identity struct {
	UserID uuid.UUID
	Email  string
}

func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userIDVal := ctx.Value(UserIDKey)
	if userIDVal == nil {
		return uuid.Nil, false
	}

	userIDStr, ok := userIDVal.(string)
	if !ok {
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, false
	}

	return userID, true
}

func GetEmailFromContext(ctx context.Context) (string, bool) {
	emailVal := ctx.Value(EmailKey)
	if emailVal == nil {
		return "", false
	}

	email, ok := emailVal.(string)
	return email, ok
}

// GetIdentityFromContext returns the caller identity set by SetIdentityContext.
func GetIdentityFromContext(ctx context.Context) (Identity, bool) {
	userID, ok := GetUserIDFromContext(ctx)
	if !ok {
		return Identity{}, false
	}

	email, _ := GetEmailFromContext(ctx)
	return Identity{UserID: userID, Email: email}, true
}

func SetIdentityContext(ctx context.Context, identity Identity) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, identity.UserID.String())
	ctx = context.WithValue(ctx, EmailKey, identity.Email)
	return ctx
}
