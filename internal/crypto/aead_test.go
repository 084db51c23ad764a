package crypto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSealOpenRoundTrip(t *testing.T) {
	dek, err := NewDEK()
	require.NoError(t, err)
	iv, err := NewIV()
	require.NoError(t, err)

	plaintext := []byte("hello bridge")
	ciphertext, err := Seal(dek, iv, plaintext, nil)
	require.NoError(t, err)
	require.NotEqual(t, plaintext, ciphertext)

	recovered, err := Open(dek, iv, ciphertext, nil)
	require.NoError(t, err)
	require.Equal(t, plaintext, recovered)
}

func TestSealIsNonDeterministic(t *testing.T) {
	dek, _ := NewDEK()
	iv1, _ := NewIV()
	iv2, _ := NewIV()
	plaintext := []byte("same content")

	c1, err := Seal(dek, iv1, plaintext, nil)
	require.NoError(t, err)
	c2, err := Seal(dek, iv2, plaintext, nil)
	require.NoError(t, err)

	require.NotEqual(t, c1, c2)
	require.NotEqual(t, iv1, iv2)
}

func TestOpenRejectsTamperedCiphertext(t *testing.T) {
	dek, _ := NewDEK()
	iv, _ := NewIV()
	ciphertext, err := Seal(dek, iv, []byte("authentic"), nil)
	require.NoError(t, err)

	tampered := append([]byte(nil), ciphertext...)
	tampered[0] ^= 0xFF

	_, err = Open(dek, iv, tampered, nil)
	require.Error(t, err)
}

func TestZeroOverwritesBuffer(t *testing.T) {
	b := []byte{1, 2, 3, 4}
	Zero(b)
	require.Equal(t, []byte{0, 0, 0, 0}, b)

	require.NotPanics(t, func() { Zero(nil) })
}

func TestOpenRejectsWrongKey(t *testing.T) {
	dek1, _ := NewDEK()
	dek2, _ := NewDEK()
	iv, _ := NewIV()
	ciphertext, err := Seal(dek1, iv, []byte("secret"), nil)
	require.NoError(t, err)

	_, err = Open(dek2, iv, ciphertext, nil)
	require.Error(t, err)
}
