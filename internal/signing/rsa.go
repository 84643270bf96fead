package signing

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"fmt"
)

const rsaKeyBits = 2048

// RSAScheme signs SHA-256 digests with RSA PKCS #1 v1.5 using 2048-bit
// keys. Public keys travel as PKIX (DER) bytes.
type RSAScheme struct{}

func (RSAScheme) Name() string { return "rsa" }

func (RSAScheme) Generate() (Signer, error) {
	key, err := rsa.GenerateKey(rand.Reader, rsaKeyBits)
	if err != nil {
		return nil, fmt.Errorf("failed to generate RSA key: %w", err)
	}
	pub, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal RSA public key: %w", err)
	}
	return &rsaSigner{key: key, pub: pub}, nil
}

func (RSAScheme) Verify(pub, sig []byte, message string) bool {
	parsed, err := x509.ParsePKIXPublicKey(pub)
	if err != nil {
		return false
	}
	rsaPub, ok := parsed.(*rsa.PublicKey)
	if !ok {
		return false
	}
	digest := sha256.Sum256([]byte(message))
	return rsa.VerifyPKCS1v15(rsaPub, crypto.SHA256, digest[:], sig) == nil
}

type rsaSigner struct {
	key *rsa.PrivateKey
	pub []byte
}

func (s *rsaSigner) Public() []byte {
	return s.pub
}

func (s *rsaSigner) Sign(message string) ([]byte, error) {
	digest := sha256.Sum256([]byte(message))
	sig, err := rsa.SignPKCS1v15(rand.Reader, s.key, crypto.SHA256, digest[:])
	if err != nil {
		return nil, fmt.Errorf("failed to sign message: %w", err)
	}
	return sig, nil
}
