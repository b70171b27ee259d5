package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/google/uuid"
	"github.com/layer-3/porter/core"
	"github.com/layer-3/porter/ports"
)

// UserService exposes the profile operations behind the access guard.
type UserService struct {
	users  ports.UserStore
	events ports.EventPublisher
	log    *slog.Logger
}

// NewUserService creates a new user service
func NewUserService(users ports.UserStore, events ports.EventPublisher, log *slog.Logger) *UserService {
	if log == nil {
		log = slog.Default()
	}
	return &UserService{users: users, events: events, log: log}
}

// UpdateProfileInput is the mutable part of the identity record
type UpdateProfileInput struct {
	Username string `json:"username"`
}

// Validate checks the username rules
func (in UpdateProfileInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Username, validation.Required, validation.Length(3, 64)),
	)
}

// Profile returns the current identity record
func (s *UserService) Profile(ctx context.Context, id uuid.UUID) (*core.User, error) {
	return s.users.FindByID(ctx, id)
}

// UpdateProfile updates the username and announces the change to the
// mirror worker
func (s *UserService) UpdateProfile(ctx context.Context, id uuid.UUID, in UpdateProfileInput) (*core.User, error) {
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrInvalidInput, err)
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.Username = in.Username
	user.UpdatedAt = time.Now()
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	if s.events != nil {
		if err := s.events.PublishUsernameChanged(ctx, user.PublicAddress, user.Username); err != nil {
			s.log.Warn("failed to publish username-changed event",
				"address", user.PublicAddress, "error", err)
		}
	}

	return user, nil
}
