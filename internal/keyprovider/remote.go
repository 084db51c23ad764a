package keyprovider

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	vaultapi "github.com/hashicorp/vault/api"
)

// remoteProvider wraps/unwraps DEKs via a Key-Vault-managed transit
// service, using the official HashiCorp Vault client. No DEK cache is
// kept: each wrap/unwrap is an independent, individually-timed network
// call with no long-lived plaintext-DEK cache.
type remoteProvider struct {
	client     *vaultapi.Client
	transitKey string
	timeout    time.Duration
}

// NewRemote builds a Provider against a Vault Transit endpoint. transitKey
// names an rsa-4096 transit key; Vault applies RSA-OAEP-SHA256 for that key
// type automatically on transit/encrypt and transit/decrypt.
func NewRemote(addr, token, transitKey string, timeout time.Duration) (Provider, error) {
	if transitKey == "" {
		return nil, fmt.Errorf("remote key provider: transit key name is required")
	}
	cfg := vaultapi.DefaultConfig()
	if addr != "" {
		cfg.Address = addr
	}
	client, err := vaultapi.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("remote key provider: creating vault client: %w", err)
	}
	if token != "" {
		client.SetToken(token)
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &remoteProvider{client: client, transitKey: transitKey, timeout: timeout}, nil
}

func (p *remoteProvider) Wrap(ctx context.Context, dek []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	path := fmt.Sprintf("transit/encrypt/%s", p.transitKey)
	secret, err := p.client.Logical().WriteWithContext(ctx, path, map[string]any{
		"plaintext": base64.StdEncoding.EncodeToString(dek),
	})
	if err != nil {
		return nil, fmt.Errorf("transit encrypt: %w", err)
	}
	ciphertext, ok := secret.Data["ciphertext"].(string)
	if !ok {
		return nil, fmt.Errorf("transit encrypt: missing ciphertext in response")
	}
	return []byte(ciphertext), nil
}

func (p *remoteProvider) Unwrap(ctx context.Context, wrapped []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	path := fmt.Sprintf("transit/decrypt/%s", p.transitKey)
	secret, err := p.client.Logical().WriteWithContext(ctx, path, map[string]any{
		"ciphertext": string(wrapped),
	})
	if err != nil {
		return nil, fmt.Errorf("transit decrypt: %w", err)
	}
	plaintextB64, ok := secret.Data["plaintext"].(string)
	if !ok {
		return nil, fmt.Errorf("transit decrypt: missing plaintext in response")
	}
	plain, err := base64.StdEncoding.DecodeString(plaintextB64)
	if err != nil {
		return nil, fmt.Errorf("transit decrypt: decoding plaintext: %w", err)
	}
	return plain, nil
}

func (p *remoteProvider) KeyID() string { return p.transitKey }

// Health performs a read of the transit key's metadata so startup fails
// fast when the key service is unreachable, rather than silently
// downgrading to an unprotected mode.
func (p *remoteProvider) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	path := fmt.Sprintf("transit/keys/%s", p.transitKey)
	_, err := p.client.Logical().ReadWithContext(ctx, path)
	if err != nil {
		return fmt.Errorf("key service health check failed: %w", err)
	}
	return nil
}

func (p *remoteProvider) Close() error { return nil }
