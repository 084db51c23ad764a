package keyprovider

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"math"

	wrapping "github.com/hashicorp/go-kms-wrapping/v2"
	"github.com/hashicorp/go-kms-wrapping/v2/aead"
)

// localProvider wraps DEKs with a 256-bit master key held in configuration,
// using the go-kms-wrapping AEAD wrapper for envelope wrap/unwrap.
// Intended for development and single-node deployments.
type localProvider struct {
	w     *aead.Wrapper
	keyID string
}

// NewLocal builds a Provider backed by a raw 32-byte master key.
func NewLocal(ctx context.Context, masterKey []byte) (Provider, error) {
	if err := validateKeyEntropy(masterKey); err != nil {
		return nil, fmt.Errorf("weak master key: %w", err)
	}
	w := aead.NewWrapper()
	cfg := map[string]string{
		"key":    base64.StdEncoding.EncodeToString(masterKey),
		"key_id": "local-key",
	}
	if _, err := w.SetConfig(ctx, wrapping.WithConfigMap(cfg)); err != nil {
		return nil, fmt.Errorf("aead wrapper setconfig: %w", err)
	}
	return &localProvider{w: w, keyID: "local-key"}, nil
}

// NewLocalFromHex decodes a hex-encoded master key before constructing the
// provider.
func NewLocalFromHex(ctx context.Context, hexKey string) (Provider, error) {
	if hexKey == "" {
		return nil, errors.New("local master key is empty")
	}
	b, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("invalid hex master key: %w", err)
	}
	return NewLocal(ctx, b)
}

func (l *localProvider) Wrap(ctx context.Context, dek []byte) ([]byte, error) {
	info, err := l.w.Encrypt(ctx, dek)
	if err != nil {
		return nil, err
	}
	return info.Ciphertext, nil
}

func (l *localProvider) Unwrap(ctx context.Context, wrapped []byte) ([]byte, error) {
	info := &wrapping.BlobInfo{Ciphertext: wrapped}
	return l.w.Decrypt(ctx, info)
}

func (l *localProvider) KeyID() string { return l.keyID }

func (l *localProvider) Health(context.Context) error { return nil }

func (l *localProvider) Close() error { return nil }

// validateKeyEntropy rejects zero, uniform, or sequential master keys
// before trusting operator-supplied key material.
func validateKeyEntropy(key []byte) error {
	if len(key) != 32 {
		return errors.New("key must be exactly 32 bytes")
	}
	freq := make(map[byte]int)
	for _, b := range key {
		freq[b]++
	}
	var entropy float64
	for _, count := range freq {
		if count > 0 {
			p := float64(count) / float64(len(key))
			entropy -= p * math.Log2(p)
		}
	}
	// 32 bytes carry at most log2(32) = 5 bits of per-byte Shannon entropy.
	if entropy < 4.0 {
		return fmt.Errorf("insufficient key entropy: %.2f < 4.0", entropy)
	}
	if isWeakPattern(key) {
		return errors.New("key contains weak or predictable patterns")
	}
	return nil
}

func isWeakPattern(key []byte) bool {
	allZero, allSame := true, true
	for _, b := range key {
		if b != 0 {
			allZero = false
		}
		if b != key[0] {
			allSame = false
		}
	}
	if allZero || allSame {
		return true
	}
	sequential, reverse := true, true
	for i := 1; i < len(key); i++ {
		if key[i] != key[i-1]+1 {
			sequential = false
		}
		if key[i] != key[i-1]-1 {
			reverse = false
		}
	}
	return sequential || reverse
}
