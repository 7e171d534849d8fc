// Package actor carries the identity making the current request through a
// context.Context. Every mutating operation reads it for audit attribution.
package actor

import "context"

type contextKey struct{}

// WithActor returns a child context bound to the given user id.
func WithActor(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext resolves the actor bound to ctx, if any.
func FromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(contextKey{}).(int64)
	return id, ok
}

// Ref returns a pointer to the actor bound to ctx, or nil when anonymous.
// Audit columns are nullable, so the pointer form is what gets persisted.
func Ref(ctx context.Context) *int64 {
	if id, ok := FromContext(ctx); ok {
		return &id
	}
	return nil
}
