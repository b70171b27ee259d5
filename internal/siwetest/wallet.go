// Package siwetest provides throwaway wallets that produce real SIWE
// messages and EIP-191 signatures for tests.
package siwetest

import (
	"crypto/ecdsa"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	siwe "github.com/spruceid/siwe-go"
)

// Wallet is an in-memory key pair
type Wallet struct {
	key *ecdsa.PrivateKey
}

// NewWallet generates a fresh key pair
func NewWallet() (*Wallet, error) {
	key, err := crypto.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}
	return &Wallet{key: key}, nil
}

// Address returns the checksummed address controlled by the wallet
func (w *Wallet) Address() string {
	return crypto.PubkeyToAddress(w.key.PublicKey).Hex()
}

// SiweMessage builds a SIWE message for this wallet's address
func (w *Wallet) SiweMessage(domain, uri, nonce string) (string, error) {
	msg, err := siwe.InitMessage(domain, w.Address(), uri, nonce, map[string]interface{}{
		"statement": "Sign in with Ethereum",
		"chainId":   1,
	})
	if err != nil {
		return "", fmt.Errorf("failed to init message: %w", err)
	}
	return msg.String(), nil
}

// Sign produces an EIP-191 personal signature over the message
func (w *Wallet) Sign(message string) (string, error) {
	digest := accounts.TextHash([]byte(message))
	sig, err := crypto.Sign(digest, w.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign: %w", err)
	}
	sig[64] += 27
	return hexutil.Encode(sig), nil
}
