package ports

import "github.com/layer-3/porter/core"

// Verifier parses and cryptographically verifies SIWE messages.
type Verifier interface {
	// Parse parses a raw message, returning core.ErrInvalidMessage when
	// it is not a well-formed SIWE message
	Parse(message string) (*core.Challenge, error)

	// Verify checks that signature is a valid signature over the
	// challenge message by the key controlling its address, and that
	// the embedded nonce equals nonce; failures return
	// core.ErrSignatureInvalid
	Verify(challenge *core.Challenge, signature, nonce string) error
}
