package core

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the identity record behind a wallet address. The nonce column
// holds the current single-use challenge and is rotated on every nonce
// request and again on every successful sign-in.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`

	ID            uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	PublicAddress string    `bun:"public_address,notnull,unique" json:"publicAddress"`
	Nonce         string    `bun:"nonce,notnull" json:"-"`
	Username      string    `bun:"username,notnull,unique" json:"username"`
	CreatedAt     time.Time `bun:"created_at,notnull" json:"createdAt"`
	UpdatedAt     time.Time `bun:"updated_at,notnull" json:"updatedAt"`
}

// Snapshot returns the identity fields embedded into issued tokens.
func (u *User) Snapshot() *TokenPayload {
	return &TokenPayload{
		ID:            u.ID.String(),
		PublicAddress: u.PublicAddress,
		Nonce:         u.Nonce,
		Username:      u.Username,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}
