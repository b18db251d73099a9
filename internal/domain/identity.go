package domain

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Identity is the authenticated caller, built from a verified token at the
// edge and passed down explicitly through the request context.
type Identity struct {
	UserID primitive.ObjectID
	Role   Role
	Email  string
}

type identityKey struct{}

// WithIdentity returns a child context carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the caller identity, and false when the
// context is anonymous.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}
