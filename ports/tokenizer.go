package ports

import (
	"time"

	"github.com/layer-3/porter/core"
)

// Tokenizer mints and verifies session tokens. Each token type is signed
// with its own secret and carries its own expiration.
type Tokenizer interface {
	// Issue signs a token of the given type embedding the identity
	// snapshot, with a fresh expiry and a unique token id
	Issue(payload *core.TokenPayload, t core.TokenType) (string, error)

	// Verify checks the token signature and expiration against the
	// type's secret and returns the embedded snapshot
	Verify(token string, t core.TokenType) (*core.TokenPayload, error)

	// Expiry returns the expiration window for a token type; session
	// store TTLs are derived from it so claim-based and storage-based
	// expiry stay numerically consistent
	Expiry(t core.TokenType) time.Duration
}
