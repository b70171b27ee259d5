package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/layer-3/porter/core"
	"github.com/layer-3/porter/ports"
)

// AuthService orchestrates the session lifecycle: nonce issuance, sign-in,
// refresh, sign-out and request authorization.
type AuthService struct {
	users     ports.UserStore
	sessions  ports.SessionStore
	tokenizer ports.Tokenizer
	verifier  ports.Verifier
	events    ports.EventPublisher
	log       *slog.Logger
}

// NewAuthService creates a new authentication service. events may be nil
// when no mirror/bus is configured.
func NewAuthService(
	users ports.UserStore,
	sessions ports.SessionStore,
	tokenizer ports.Tokenizer,
	verifier ports.Verifier,
	events ports.EventPublisher,
	log *slog.Logger,
) *AuthService {
	if log == nil {
		log = slog.Default()
	}
	return &AuthService{
		users:     users,
		sessions:  sessions,
		tokenizer: tokenizer,
		verifier:  verifier,
		events:    events,
		log:       log,
	}
}

// NonceResult is the response of a nonce request
type NonceResult struct {
	Nonce   string `json:"nonce"`
	Address string `json:"address"`
}

// SignInInput is the signed challenge presented at sign-in
type SignInInput struct {
	Message   string
	Signature string
	Nonce     string
}

// SignInResult carries the freshly issued token pair
type SignInResult struct {
	Address      string
	AccessToken  string
	RefreshToken string
}

// GetNonce returns a fresh challenge nonce for the address, creating the
// identity record on first contact. The nonce rotates on every call, even
// without a subsequent sign-in, so stale challenges can never be replayed.
func (s *AuthService) GetNonce(ctx context.Context, address string) (*NonceResult, error) {
	if !common.IsHexAddress(address) {
		return nil, fmt.Errorf("%w: %q", core.ErrInvalidAddress, address)
	}
	checksummed := common.HexToAddress(address).Hex()

	nonce, err := generateNonce()
	if err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	user, err := s.users.FindByAddress(ctx, checksummed)
	switch {
	case errors.Is(err, core.ErrUserNotFound):
		now := time.Now()
		user = &core.User{
			ID:            uuid.New(),
			PublicAddress: checksummed,
			Nonce:         nonce,
			Username:      defaultUsername(checksummed),
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := s.users.Create(ctx, user); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		user.Nonce = nonce
		user.UpdatedAt = time.Now()
		if err := s.users.Update(ctx, user); err != nil {
			return nil, err
		}
	}

	return &NonceResult{Nonce: nonce, Address: checksummed}, nil
}

// SignIn verifies a signed SIWE challenge and exchanges it for a token
// pair. The stored nonce is compared before signature verification and
// rotated after it, so a verified message can never be replayed.
func (s *AuthService) SignIn(ctx context.Context, in SignInInput) (*SignInResult, error) {
	challenge, err := s.verifier.Parse(in.Message)
	if err != nil {
		return nil, err
	}

	if !common.IsHexAddress(challenge.Address) {
		return nil, fmt.Errorf("%w: %q", core.ErrInvalidAddress, challenge.Address)
	}

	user, err := s.users.FindByAddress(ctx, challenge.Address)
	if err != nil {
		return nil, err
	}

	if in.Nonce == "" || in.Nonce != user.Nonce {
		return nil, core.ErrNonceMismatch
	}

	if err := s.verifier.Verify(challenge, in.Signature, user.Nonce); err != nil {
		return nil, err
	}

	// one-time use: the consumed nonce is rotated before tokens exist
	rotated, err := generateNonce()
	if err != nil {
		return nil, fmt.Errorf("failed to rotate nonce: %w", err)
	}
	user.Nonce = rotated
	user.UpdatedAt = time.Now()
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	payload := user.Snapshot()

	accessToken, err := s.tokenizer.Issue(payload, core.TokenTypeAccess)
	if err != nil {
		return nil, fmt.Errorf("failed to create access token: %w", err)
	}

	refreshToken, err := s.tokenizer.Issue(payload, core.TokenTypeRefresh)
	if err != nil {
		return nil, fmt.Errorf("failed to create refresh token: %w", err)
	}

	// both slots must be written before tokens are handed out; a token
	// missing from the store cannot be revoked and must not exist
	if err := s.storeToken(ctx, core.TokenTypeAccess, user.PublicAddress, accessToken); err != nil {
		return nil, err
	}
	if err := s.storeToken(ctx, core.TokenTypeRefresh, user.PublicAddress, refreshToken); err != nil {
		return nil, err
	}

	if s.events != nil {
		if err := s.events.PublishTokenMirror(ctx, user.PublicAddress, accessToken); err != nil {
			s.log.Warn("failed to publish token mirror event",
				"address", user.PublicAddress, "error", err)
		}
	}

	return &SignInResult{
		Address:      user.PublicAddress,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Refresh exchanges a live refresh token for a new access token. The
// refresh token itself is not rotated; it stays valid until sign-out or
// until a later sign-in overwrites its slot.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	payload, err := s.tokenizer.Verify(refreshToken, core.TokenTypeRefresh)
	if err != nil {
		return "", fmt.Errorf("%w: %v", core.ErrRefreshInvalid, err)
	}

	if payload.PublicAddress == "" {
		return "", core.ErrRefreshInvalid
	}

	stored, err := s.sessions.Get(ctx, core.SessionKey(core.TokenTypeRefresh, payload.PublicAddress))
	if err != nil {
		if errors.Is(err, core.ErrSessionNotFound) {
			return "", core.ErrRefreshInvalid
		}
		return "", err
	}
	if stored != refreshToken {
		// superseded by a later sign-in; the signature alone proves nothing
		return "", core.ErrRefreshInvalid
	}

	accessToken, err := s.tokenizer.Issue(payload, core.TokenTypeAccess)
	if err != nil {
		return "", fmt.Errorf("failed to create access token: %w", err)
	}

	if err := s.storeToken(ctx, core.TokenTypeAccess, payload.PublicAddress, accessToken); err != nil {
		return "", err
	}

	return accessToken, nil
}

// SignOut deletes both session slots for the address. Signing out an
// address with no live session is not an error.
func (s *AuthService) SignOut(ctx context.Context, address string) error {
	err := s.sessions.Delete(ctx,
		core.SessionKey(core.TokenTypeAccess, address),
		core.SessionKey(core.TokenTypeRefresh, address),
	)
	if err != nil {
		return err
	}

	if s.events != nil {
		if err := s.events.PublishSignOut(ctx, address); err != nil {
			s.log.Warn("failed to publish sign-out event", "address", address, "error", err)
		}
	}

	return nil
}

// SignOutToken resolves the address from an access token and signs it
// out. Unverifiable tokens are ignored: there is no session to revoke
// that the caller could prove ownership of.
func (s *AuthService) SignOutToken(ctx context.Context, accessToken string) error {
	payload, err := s.tokenizer.Verify(accessToken, core.TokenTypeAccess)
	if err != nil || payload.PublicAddress == "" {
		return nil
	}
	return s.SignOut(ctx, payload.PublicAddress)
}

// Authorize is the access guard: the token must verify cryptographically,
// match the stored session entry exactly, and resolve to a live identity
// record. The record is fetched by id so profile edits are reflected
// immediately, not at next sign-in.
func (s *AuthService) Authorize(ctx context.Context, accessToken string) (*core.User, error) {
	payload, err := s.tokenizer.Verify(accessToken, core.TokenTypeAccess)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrUnauthorized, err)
	}

	if payload.ID == "" || payload.PublicAddress == "" {
		return nil, core.ErrUnauthorized
	}

	stored, err := s.sessions.Get(ctx, core.SessionKey(core.TokenTypeAccess, payload.PublicAddress))
	if err != nil {
		if errors.Is(err, core.ErrSessionNotFound) {
			return nil, core.ErrUnauthorized
		}
		return nil, err
	}
	if stored != accessToken {
		return nil, core.ErrUnauthorized
	}

	id, err := uuid.Parse(payload.ID)
	if err != nil {
		return nil, core.ErrUnauthorized
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, core.ErrUserNotFound) {
			return nil, core.ErrUnauthorized
		}
		return nil, err
	}

	return user, nil
}

func (s *AuthService) storeToken(ctx context.Context, t core.TokenType, address, token string) error {
	return s.sessions.Set(ctx, core.SessionKey(t, address), token, s.tokenizer.Expiry(t))
}

// generateNonce returns a 32-character hex nonce
func generateNonce() (string, error) {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// defaultUsername derives a placeholder username from an address
func defaultUsername(address string) string {
	return "user-" + strings.ToLower(strings.TrimPrefix(address, "0x"))[:8]
}
