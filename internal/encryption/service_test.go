package encryption

import (
	"context"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"messagebridge/internal/keyprovider"
)

func newTestProvider(t *testing.T) keyprovider.Provider {
	t.Helper()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	provider, err := keyprovider.NewLocal(context.Background(), key)
	require.NoError(t, err)
	return provider
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	svc := New(newTestProvider(t))
	plaintext := []byte(`{"content":"hello bridge"}`)

	rec, err := svc.Encrypt(context.Background(), plaintext)
	require.NoError(t, err)
	require.NotEmpty(t, rec.Ciphertext)
	require.NotEmpty(t, rec.WrappedDEK)
	require.NotEmpty(t, rec.IV)

	recovered, err := svc.Decrypt(context.Background(), rec)
	require.NoError(t, err)
	require.Equal(t, plaintext, recovered)
}

func TestEncryptTwiceYieldsDifferentCiphertextAndIV(t *testing.T) {
	svc := New(newTestProvider(t))
	plaintext := []byte("identical content")

	rec1, err := svc.Encrypt(context.Background(), plaintext)
	require.NoError(t, err)
	rec2, err := svc.Encrypt(context.Background(), plaintext)
	require.NoError(t, err)

	require.NotEqual(t, rec1.Ciphertext, rec2.Ciphertext)
	require.NotEqual(t, rec1.IV, rec2.IV)
}

func TestDecryptFailsOnTamperedCiphertext(t *testing.T) {
	svc := New(newTestProvider(t))
	rec, err := svc.Encrypt(context.Background(), []byte("secret"))
	require.NoError(t, err)

	rec.Ciphertext[0] ^= 0xFF
	_, err = svc.Decrypt(context.Background(), rec)
	require.Error(t, err)
}

func TestHealthyFailsWithNoProvider(t *testing.T) {
	svc := New(nil)
	require.Error(t, svc.Healthy(context.Background()))
}

func TestHealthySucceedsWithLocalProvider(t *testing.T) {
	svc := New(newTestProvider(t))
	require.NoError(t, svc.Healthy(context.Background()))
}
