package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/layer-3/porter/core"
	"github.com/layer-3/porter/ports"
	"github.com/uptrace/bun"
)

// BunStore is a bun-backed implementation of the user store
type BunStore struct {
	db *bun.DB
}

// NewBunStore creates a new bun user store
func NewBunStore(db *bun.DB) *BunStore {
	return &BunStore{db: db}
}

var _ ports.UserStore = (*BunStore)(nil)

// Migrate creates the users table if it does not exist
func (s *BunStore) Migrate(ctx context.Context) error {
	_, err := s.db.NewCreateTable().
		Model((*core.User)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}
	return nil
}

// FindByAddress returns the user controlling the given address
func (s *BunStore) FindByAddress(ctx context.Context, address string) (*core.User, error) {
	user := new(core.User)
	err := s.db.NewSelect().
		Model(user).
		Where("public_address = ?", address).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: find by address: %v", core.ErrStoreUnavailable, err)
	}
	return user, nil
}

// FindByID returns the user with the given id
func (s *BunStore) FindByID(ctx context.Context, id uuid.UUID) (*core.User, error) {
	user := new(core.User)
	err := s.db.NewSelect().
		Model(user).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: find by id: %v", core.ErrStoreUnavailable, err)
	}
	return user, nil
}

// Create inserts a new user record
func (s *BunStore) Create(ctx context.Context, user *core.User) error {
	if _, err := s.db.NewInsert().Model(user).Exec(ctx); err != nil {
		return fmt.Errorf("%w: insert user: %v", core.ErrStoreUnavailable, err)
	}
	return nil
}

// Update persists mutations to an existing user record
func (s *BunStore) Update(ctx context.Context, user *core.User) error {
	res, err := s.db.NewUpdate().Model(user).WherePK().Exec(ctx)
	if err != nil {
		return fmt.Errorf("%w: update user: %v", core.ErrStoreUnavailable, err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return core.ErrUserNotFound
	}
	return nil
}
