package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/layer-3/porter/core"
)

// UserStore is the identity repository. Lookups return
// core.ErrUserNotFound when no record matches.
type UserStore interface {
	FindByAddress(ctx context.Context, address string) (*core.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*core.User, error)
	Create(ctx context.Context, user *core.User) error
	Update(ctx context.Context, user *core.User) error
}
