package siwe

import (
	"fmt"

	"github.com/layer-3/porter/core"
	"github.com/layer-3/porter/ports"
	siwe "github.com/spruceid/siwe-go"
)

// Verifier parses EIP-4361 messages and verifies their EIP-191 signatures.
type Verifier struct{}

// NewVerifier creates a new SIWE verifier
func NewVerifier() ports.Verifier {
	return &Verifier{}
}

// Parse parses a raw SIWE message into a challenge
func (v *Verifier) Parse(message string) (*core.Challenge, error) {
	msg, err := siwe.ParseMessage(message)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrInvalidMessage, err)
	}

	return &core.Challenge{
		Address: msg.GetAddress().Hex(),
		Nonce:   msg.GetNonce(),
		Message: message,
	}, nil
}

// Verify checks the signature over the challenge message and that the
// embedded nonce matches the expected one
func (v *Verifier) Verify(challenge *core.Challenge, signature, nonce string) error {
	msg, err := siwe.ParseMessage(challenge.Message)
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrInvalidMessage, err)
	}

	if _, err := msg.Verify(signature, nil, &nonce, nil); err != nil {
		return fmt.Errorf("%w: %v", core.ErrSignatureInvalid, err)
	}

	return nil
}
