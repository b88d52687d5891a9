package auth

import (
	"context"
	"meeting-lab/domain"
)

type contextKey string

const identityKey contextKey = "identity"

func WithIdentity(ctx context.Context, identity domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// IdentityFrom returns the identity injected by the interceptors.
func IdentityFrom(ctx context.Context) (domain.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(domain.Identity)
	return identity, ok && identity.Login != ""
}
