package tokenizer

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims combines the standard claims with the identity snapshot
// taken at issuance time. The jti makes two tokens minted within the same
// clock-second distinguishable.
type SessionClaims struct {
	jwt.RegisteredClaims
	UserID    string    `json:"uid"`
	Nonce     string    `json:"nonce"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
