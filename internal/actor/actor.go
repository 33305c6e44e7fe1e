// Package actor carries the authenticated user id through a context. Every
// write that records an owner reads it from here.
package actor

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey struct{}

func NewContext(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, ctxKey{}, userID)
}

// FromContext returns the acting user id, or false for anonymous contexts.
func FromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(ctxKey{}).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}
