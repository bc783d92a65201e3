package auth

import (
	"context"
	"errors"
)

type ctxKey int

const ctxUsername ctxKey = iota

func WithIdentity(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, ctxUsername, username)
}

func Username(ctx context.Context) (string, error) {
	v := ctx.Value(ctxUsername)
	if s, ok := v.(string); ok && s != "" {
		return s, nil
	}
	return "", errors.New("username not in context")
}
