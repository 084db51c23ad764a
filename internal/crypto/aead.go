// Package crypto implements the bridge's sole supported cipher: AES-256-GCM
// with 256-bit keys, 96-bit IVs and a 128-bit authentication tag.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	crand "crypto/rand"
	"errors"
	"io"
	"runtime"

	"messagebridge/internal/bridgeerr"
)

// Algorithm is the constant recorded in every encrypted record.
const Algorithm = "AES-256-GCM"

const (
	keySize   = 32
	nonceSize = 12
)

// NewDEK draws a fresh 256-bit data encryption key from a CSPRNG.
func NewDEK() ([]byte, error) {
	dek := make([]byte, keySize)
	if _, err := io.ReadFull(crand.Reader, dek); err != nil {
		return nil, err
	}
	return dek, nil
}

// NewIV draws a fresh 96-bit initialization vector from a CSPRNG.
func NewIV() ([]byte, error) {
	iv := make([]byte, nonceSize)
	if _, err := io.ReadFull(crand.Reader, iv); err != nil {
		return nil, err
	}
	return iv, nil
}

// Seal encrypts plaintext under dek using the supplied iv, returning
// ciphertext with the GCM tag appended. aad is authenticated but not
// encrypted.
func Seal(dek, iv, plaintext, aad []byte) ([]byte, error) {
	gcm, err := newGCM(dek)
	if err != nil {
		return nil, err
	}
	if len(iv) != gcm.NonceSize() {
		return nil, errors.New("crypto: iv has wrong length")
	}
	return gcm.Seal(nil, iv, plaintext, aad), nil
}

// Open decrypts ciphertext (as produced by Seal) under dek and iv. A failed
// tag check is reported as bridgeerr.AuthenticationError; callers must not
// inspect the returned plaintext on error, which is always nil.
func Open(dek, iv, ciphertext, aad []byte) ([]byte, error) {
	gcm, err := newGCM(dek)
	if err != nil {
		return nil, err
	}
	if len(iv) != gcm.NonceSize() {
		return nil, &bridgeerr.AuthenticationError{Cause: errors.New("iv has wrong length")}
	}
	pt, err := gcm.Open(nil, iv, ciphertext, aad)
	if err != nil {
		return nil, &bridgeerr.AuthenticationError{Cause: err}
	}
	return pt, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != keySize {
		return nil, errors.New("crypto: key must be 32 bytes")
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// Zero overwrites b with zeroes in place. Best-effort: the Go runtime gives
// no hard guarantee the compiler won't have copied the backing array
// elsewhere.
func Zero(b []byte) {
	if b == nil {
		return
	}
	for i := range b {
		b[i] = 0
	}
	runtime.KeepAlive(b)
}
