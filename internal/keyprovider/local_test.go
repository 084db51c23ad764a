package keyprovider

import (
	"context"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func randomKey(t *testing.T) []byte {
	t.Helper()
	b := make([]byte, 32)
	_, err := rand.Read(b)
	require.NoError(t, err)
	return b
}

func TestNewLocalRejectsWeakKeys(t *testing.T) {
	cases := map[string][]byte{
		"all zero":   make([]byte, 32),
		"all same":   bytesOf(32, 0x42),
		"sequential": sequentialBytes(32, 1),
		"reverse":    sequentialBytes(32, -1),
		"wrong size": {0x01, 0x02, 0x03},
	}
	for name, key := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewLocal(context.Background(), key)
			require.Error(t, err)
		})
	}
}

func TestNewLocalAcceptsHighEntropyKey(t *testing.T) {
	provider, err := NewLocal(context.Background(), randomKey(t))
	require.NoError(t, err)
	require.Equal(t, "local-key", provider.KeyID())
}

func TestLocalWrapUnwrapRoundTrip(t *testing.T) {
	provider, err := NewLocal(context.Background(), randomKey(t))
	require.NoError(t, err)

	dek := randomKey(t)
	wrapped, err := provider.Wrap(context.Background(), dek)
	require.NoError(t, err)
	require.NotEqual(t, dek, wrapped)

	unwrapped, err := provider.Unwrap(context.Background(), wrapped)
	require.NoError(t, err)
	require.Equal(t, dek, unwrapped)
}

func TestNewLocalFromHexRejectsEmpty(t *testing.T) {
	_, err := NewLocalFromHex(context.Background(), "")
	require.Error(t, err)
}

func TestNewLocalFromHexRejectsInvalidHex(t *testing.T) {
	_, err := NewLocalFromHex(context.Background(), "not-hex")
	require.Error(t, err)
}

func bytesOf(n int, v byte) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = v
	}
	return b
}

func sequentialBytes(n int, step int) []byte {
	b := make([]byte, n)
	v := 10
	for i := range b {
		b[i] = byte(v)
		v += step
	}
	return b
}
