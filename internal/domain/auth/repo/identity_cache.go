package repo

import (
	"context"

	"github.com/Miraines/storefront-auth/internal/domain/auth/model"
	"github.com/google/uuid"
)

// IdentityCache is a best-effort lookaside cache; failures are treated as misses.
type IdentityCache interface {
	Get(ctx context.Context, id uuid.UUID) (model.Identity, bool)
	Set(ctx context.Context, identity model.Identity)
}
