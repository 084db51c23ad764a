// Package keyprovider implements a pluggable wrap/unwrap capability used
// by the encryption service to protect data encryption keys under a
// master key, either local (AEAD master key) or remote (Key-Vault-style
// transit service).
package keyprovider

import "context"

// Provider is the key-wrap capability set required by the encryption
// service.
type Provider interface {
	// Wrap encrypts dek under the provider's current key, returning an
	// opaque wrapped blob.
	Wrap(ctx context.Context, dek []byte) (wrapped []byte, err error)
	// Unwrap recovers dek from a wrapped blob produced by Wrap.
	Unwrap(ctx context.Context, wrapped []byte) (dek []byte, err error)
	// KeyID identifies the key currently used for wrapping.
	KeyID() string
	// Health reports whether the provider can currently serve requests.
	// Used at startup to fail fast rather than silently downgrade.
	Health(ctx context.Context) error
	// Close releases any resources (network clients, cached key material).
	Close() error
}
