package core

import "time"

// TokenType selects the signing secret, the expiry window and the session
// store slot for a token.
type TokenType string

const (
	// TokenTypeAccess represents a short-lived access token
	TokenTypeAccess TokenType = "access"

	// TokenTypeRefresh represents a long-lived refresh token
	TokenTypeRefresh TokenType = "refresh"
)

// Audience returns the JWT audience claim for the token type.
func (t TokenType) Audience() string {
	return "session:" + string(t)
}

// SessionKey builds the session store slot for a token type and address.
// At most one live token per type per address exists under this key;
// writing a new token implicitly invalidates the previous one.
func SessionKey(t TokenType, address string) string {
	return string(t) + ":" + address
}

// TokenPayload is the identity snapshot embedded in every issued token.
// Validity is established by exact string equality against the session
// store entry, not by decoding alone.
type TokenPayload struct {
	ID            string
	PublicAddress string
	Nonce         string
	Username      string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Challenge is a parsed SIWE message awaiting signature verification.
type Challenge struct {
	// Address is the checksummed address embedded in the message
	Address string

	// Nonce is the challenge nonce embedded in the message
	Nonce string

	// Message is the raw message text the wallet signed
	Message string
}
