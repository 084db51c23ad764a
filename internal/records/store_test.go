package records

import (
	"context"
	"crypto/rand"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"messagebridge/internal/encryption"
	"messagebridge/internal/keyprovider"
	"messagebridge/internal/objectstore"
)

func newTestGateway(t *testing.T) *objectstore.Gateway {
	t.Helper()
	gw, err := objectstore.Open(filepath.Join(t.TempDir(), "store"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = gw.Close() })
	return gw
}

func newTestEncryptionService(t *testing.T) *encryption.Service {
	t.Helper()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	provider, err := keyprovider.NewLocal(context.Background(), key)
	require.NoError(t, err)
	return encryption.New(provider)
}

func TestSaveAndGetMessagePlaintext(t *testing.T) {
	store := New(nil, newTestGateway(t), "messages", false)
	ctx := context.Background()

	rec, err := store.SaveMessage(ctx, "m-1", "dest", "corr-1", StatusSent, "hello world")
	require.NoError(t, err)
	require.False(t, rec.Encrypted)

	got, content, err := store.GetMessage(ctx, "m-1")
	require.NoError(t, err)
	require.Equal(t, "hello world", content)
	require.Equal(t, StatusSent, got.OriginalStatus)
}

func TestSaveAndGetMessageEncrypted(t *testing.T) {
	store := New(newTestEncryptionService(t), newTestGateway(t), "messages", true)
	ctx := context.Background()

	rec, err := store.SaveMessage(ctx, "m-2", "dest", "corr-2", StatusSent, "secret content")
	require.NoError(t, err)
	require.True(t, rec.Encrypted)
	require.NotEmpty(t, rec.Ciphertext)
	require.Empty(t, rec.Plaintext)

	_, content, err := store.GetMessage(ctx, "m-2")
	require.NoError(t, err)
	require.Equal(t, "secret content", content)
}

func TestGetMessageNotFound(t *testing.T) {
	store := New(nil, newTestGateway(t), "messages", false)
	_, _, err := store.GetMessage(context.Background(), "missing")
	require.Error(t, err)
}

func TestListMessagesOrderedByTimestampDescending(t *testing.T) {
	store := New(nil, newTestGateway(t), "messages", false)
	ctx := context.Background()

	_, err := store.SaveMessage(ctx, "m-old", "d", "c", StatusSent, "old")
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	_, err = store.SaveMessage(ctx, "m-new", "d", "c", StatusSent, "new")
	require.NoError(t, err)

	recs, err := store.ListMessages(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	require.Equal(t, "m-new", recs[0].MessageID)
	require.Equal(t, "m-old", recs[1].MessageID)
}

func TestListMessagesRespectsLimit(t *testing.T) {
	store := New(nil, newTestGateway(t), "messages", false)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_, err := store.SaveMessage(ctx, "m-"+string(rune('a'+i)), "d", "c", StatusSent, "x")
		require.NoError(t, err)
	}

	recs, err := store.ListMessages(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recs, 2)
}

func TestDeleteMessage(t *testing.T) {
	store := New(nil, newTestGateway(t), "messages", false)
	ctx := context.Background()
	_, err := store.SaveMessage(ctx, "m-del", "d", "c", StatusSent, "x")
	require.NoError(t, err)

	require.NoError(t, store.DeleteMessage(ctx, "m-del"))
	_, _, err = store.GetMessage(ctx, "m-del")
	require.Error(t, err)
}

func TestSaveAndGetTransformationEncrypted(t *testing.T) {
	store := New(newTestEncryptionService(t), newTestGateway(t), "transforms", true)
	ctx := context.Background()

	rec := &TransformationRecord{
		TransformationID:   "t-1",
		TransformationType: MT103ToMT202,
		Status:             TransformSuccess,
	}
	require.NoError(t, store.SaveTransformation(ctx, rec, "input content", "output content"))
	require.True(t, rec.Encrypted)
	require.NotEmpty(t, rec.InputCiphertext)
	require.NotEmpty(t, rec.OutputCiphertext)

	got, err := store.GetTransformation(ctx, "t-1")
	require.NoError(t, err)
	require.Equal(t, TransformSuccess, got.Status)
}

func TestBlobNameSchemes(t *testing.T) {
	msg := &StoredMessageRecord{MessageID: "abc"}
	require.Equal(t, "message-abc.json", msg.BlobName())

	tr := &TransformationRecord{TransformationID: "xyz"}
	require.Equal(t, "transformation-xyz.json", tr.BlobName())
}
