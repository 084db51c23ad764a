// Package encryption implements envelope encrypt/decrypt of message
// payloads, wrapping a fresh per-message DEK under the configured key
// provider's master key.
package encryption

import (
	"context"
	"fmt"

	"messagebridge/internal/bridgeerr"
	"messagebridge/internal/crypto"
	"messagebridge/internal/keyprovider"
)

// Record is the output of Encrypt and the input to Decrypt: the ciphertext
// plus everything needed to recover the plaintext.
type Record struct {
	Ciphertext []byte
	WrappedDEK []byte
	IV         []byte
	Algorithm  string
	KeyID      string
}

// Service is the envelope-encryption contract.
type Service struct {
	provider keyprovider.Provider
}

// New builds a Service around a key provider. Initialization only
// constructs the struct; callers should call Healthy to fail fast
// before serving traffic rather than silently falling back to plaintext.
func New(provider keyprovider.Provider) *Service {
	return &Service{provider: provider}
}

// Healthy checks the underlying key provider is reachable. Call once at
// startup; an error here must abort startup, never fall back silently.
func (s *Service) Healthy(ctx context.Context) error {
	if s.provider == nil {
		return fmt.Errorf("encryption: no key provider configured")
	}
	return s.provider.Health(ctx)
}

// Encrypt generates a fresh DEK and IV, seals plaintext under AES-256-GCM,
// and wraps the DEK via the key provider. Two calls on identical plaintext
// always yield different ciphertext and IV.
func (s *Service) Encrypt(ctx context.Context, plaintext []byte) (*Record, error) {
	dek, err := crypto.NewDEK()
	if err != nil {
		return nil, fmt.Errorf("encryption: generating dek: %w", err)
	}
	defer crypto.Zero(dek)

	iv, err := crypto.NewIV()
	if err != nil {
		return nil, fmt.Errorf("encryption: generating iv: %w", err)
	}

	ciphertext, err := crypto.Seal(dek, iv, plaintext, nil)
	if err != nil {
		return nil, fmt.Errorf("encryption: seal: %w", err)
	}

	wrapped, err := s.provider.Wrap(ctx, dek)
	if err != nil {
		return nil, &bridgeerr.KeyServiceError{Op: "wrap", Cause: err}
	}

	return &Record{
		Ciphertext: ciphertext,
		WrappedDEK: wrapped,
		IV:         iv,
		Algorithm:  crypto.Algorithm,
		KeyID:      s.provider.KeyID(),
	}, nil
}

// Decrypt unwraps rec.WrappedDEK via the key provider (recorded keyId is
// informational; the live provider is always used to unwrap) and opens the
// ciphertext. A tamper or wrong-key failure surfaces as AuthenticationError
// with no partial plaintext ever returned.
func (s *Service) Decrypt(ctx context.Context, rec *Record) ([]byte, error) {
	dek, err := s.provider.Unwrap(ctx, rec.WrappedDEK)
	if err != nil {
		return nil, &bridgeerr.KeyServiceError{Op: "unwrap", Cause: err}
	}
	defer crypto.Zero(dek)

	plaintext, err := crypto.Open(dek, rec.IV, rec.Ciphertext, nil)
	if err != nil {
		return nil, err
	}
	return plaintext, nil
}
