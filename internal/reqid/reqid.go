// Package reqid attaches a per-request identifier to a context.Context,
// using an unexported key type so no other package can collide with or
// read the value directly, and github.com/google/uuid for a collision-safe
// identifier instead of a hand-rolled counter.
package reqid

import (
	"context"

	"github.com/google/uuid"
)

type contextKey struct{}

// NewContext returns a copy of ctx carrying a freshly generated request ID.
func NewContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, uuid.NewString())
}

// FromContext returns the request ID carried on ctx, or "" if none was set.
func FromContext(ctx context.Context) string {
	id, _ := ctx.Value(contextKey{}).(string)
	return id
}
