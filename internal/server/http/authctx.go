package httpserver

import (
	"context"

	"github.com/cinelist/cinelist/internal/model"
)

type ctxKey string

const identityKey ctxKey = "cl.identity"

// WithIdentity stores the authenticated identity in the request context.
func WithIdentity(ctx context.Context, id model.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromCtx fetches the authenticated identity from the context.
func IdentityFromCtx(ctx context.Context) (model.Identity, bool) {
	v := ctx.Value(identityKey)
	if v == nil {
		return model.Identity{}, false
	}
	id, ok := v.(model.Identity)
	return id, ok
}
