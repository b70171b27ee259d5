package tokenizer

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/layer-3/porter/core"
	"github.com/layer-3/porter/ports"
)

// Config holds the per-type signing secrets and expiration windows.
type Config struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// JWTTokenizer implements the Tokenizer interface using HS256 JWTs with a
// distinct secret per token type.
type JWTTokenizer struct {
	cfg Config
}

// NewJWTTokenizer creates a new JWT tokenizer
func NewJWTTokenizer(cfg Config) ports.Tokenizer {
	return &JWTTokenizer{cfg: cfg}
}

// Expiry returns the expiration window for a token type
func (j *JWTTokenizer) Expiry(t core.TokenType) time.Duration {
	if t == core.TokenTypeRefresh {
		return j.cfg.RefreshExpiry
	}
	return j.cfg.AccessExpiry
}

func (j *JWTTokenizer) secret(t core.TokenType) []byte {
	if t == core.TokenTypeRefresh {
		return j.cfg.RefreshSecret
	}
	return j.cfg.AccessSecret
}

// Issue signs a token of the given type embedding the identity snapshot
func (j *JWTTokenizer) Issue(payload *core.TokenPayload, t core.TokenType) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   payload.PublicAddress,
			ID:        uuid.New().String(),
			Audience:  jwt.ClaimStrings{t.Audience()},
			ExpiresAt: jwt.NewNumericDate(now.Add(j.Expiry(t))),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID:    payload.ID,
		Nonce:     payload.Nonce,
		Username:  payload.Username,
		CreatedAt: payload.CreatedAt,
		UpdatedAt: payload.UpdatedAt,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(j.secret(t))
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", t, err)
	}

	return signed, nil
}

// Verify checks the token signature and expiration against the type's
// secret and returns the embedded identity snapshot
func (j *JWTTokenizer) Verify(tokenStr string, t core.TokenType) (*core.TokenPayload, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.secret(t), nil
	}, jwt.WithAudience(t.Audience()), jwt.WithExpirationRequired())

	if err != nil {
		return nil, fmt.Errorf("failed to parse %s token: %w", t, err)
	}

	if !token.Valid {
		return nil, core.ErrUnauthorized
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok {
		return nil, fmt.Errorf("invalid claims type")
	}

	return &core.TokenPayload{
		ID:            claims.UserID,
		PublicAddress: claims.Subject,
		Nonce:         claims.Nonce,
		Username:      claims.Username,
		CreatedAt:     claims.CreatedAt,
		UpdatedAt:     claims.UpdatedAt,
	}, nil
}
