package repo

import (
	"context"

	"github.com/Miraines/storefront-auth/internal/domain/auth/model"
	"github.com/google/uuid"
)

// UserRepo is the credential store. Implementations must enforce email
// uniqueness themselves and report a violation as errors.ErrAlreadyExists;
// a missing record is errors.ErrNotFound.
type UserRepo interface {
	CreateUser(ctx context.Context, u model.User) (uuid.UUID, error)

	GetUserByEmail(ctx context.Context, email string) (model.User, error)

	GetUserByID(ctx context.Context, id uuid.UUID) (model.User, error)

	Ping(ctx context.Context) error
}
