// Package wallet holds the driver-side account model: named key pairs,
// short base58 addresses derived from public keys, and the transaction
// payload format handed to the ledger core.
package wallet

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/mr-tron/base58"

	"github.com/cairnlabs/cairn/internal/signing"
)

const addressBytes = 20

// Account owns one key pair under a fixed signature scheme. The ledger
// core never sees the private key; it only borrows the public key and
// signatures for verification.
type Account struct {
	Name   string
	scheme signing.Scheme
	signer signing.Signer
}

// NewAccount generates a fresh key pair for name under the named scheme.
func NewAccount(name, schemeName string) (*Account, error) {
	scheme, err := signing.Lookup(schemeName)
	if err != nil {
		return nil, err
	}
	signer, err := scheme.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to create account %s: %w", name, err)
	}
	return &Account{Name: name, scheme: scheme, signer: signer}, nil
}

// PublicKey returns the account's marshaled public key.
func (a *Account) PublicKey() []byte {
	return a.signer.Public()
}

// Address derives a short base58 address from the public key digest.
func (a *Account) Address() string {
	digest := sha256.Sum256(a.signer.Public())
	return base58.Encode(digest[:addressBytes])
}

// Sign authenticates message with the account's private key.
func (a *Account) Sign(message string) ([]byte, error) {
	return a.signer.Sign(message)
}

// Verify checks sig against message under the given public key, using the
// account's scheme.
func (a *Account) Verify(pub, sig []byte, message string) bool {
	return a.scheme.Verify(pub, sig, message)
}

// NewTransactionID returns a random 8-byte hex transaction identifier.
func NewTransactionID() (string, error) {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", fmt.Errorf("failed to generate transaction ID: %w", err)
	}
	return hex.EncodeToString(buf[:]), nil
}

// PaymentPayload renders the transaction text committed into a block.
func PaymentPayload(id string, payer, recipient *Account, amount uint64) string {
	return fmt.Sprintf("Transaction #%s - Payer: %s (%s), Recipient: %s (%s), Amount: %d CRN",
		id, payer.Name, payer.Address(), recipient.Name, recipient.Address(), amount)
}
