// Package objectstore provides an opaque object-store gateway over an
// embedded pebble KV engine, repurposed here for blob semantics keyed by
// container and blob name rather than thread and sequence.
package objectstore

import (
	"bytes"
	"context"
	"fmt"

	"github.com/cockroachdb/pebble"

	"messagebridge/internal/bridgeerr"
)

// Gateway is an opaque object-store client: put/get/list/delete blobs
// under a container+blobName naming scheme.
type Gateway struct {
	db   *pebble.DB
	path string
}

// Open opens (or creates) the pebble database backing the gateway.
func Open(path string) (*Gateway, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("objectstore: opening pebble db at %s: %w", path, err)
	}
	return &Gateway{db: db, path: path}, nil
}

func (g *Gateway) Close() error {
	if g.db == nil {
		return nil
	}
	return g.db.Close()
}

// blobKey composes the pebble key for a (container, blobName) pair. The
// NUL separator cannot appear in either component, so prefix scans under
// List never cross a container boundary.
func blobKey(container, blobName string) []byte {
	return []byte(container + "\x00" + blobName)
}

func containerPrefix(container string) []byte {
	return []byte(container + "\x00")
}

// Put stores bytes under container/blobName, overwriting any existing blob.
func (g *Gateway) Put(ctx context.Context, container, blobName string, data []byte) error {
	if err := g.db.Set(blobKey(container, blobName), data, pebble.Sync); err != nil {
		return &bridgeerr.StoreError{Op: "put", Cause: err}
	}
	return nil
}

// Get retrieves the bytes stored under container/blobName.
func (g *Gateway) Get(ctx context.Context, container, blobName string) ([]byte, error) {
	v, closer, err := g.db.Get(blobKey(container, blobName))
	if err != nil {
		if err == pebble.ErrNotFound {
			return nil, &bridgeerr.NotFoundError{Kind: "blob", ID: blobName}
		}
		return nil, &bridgeerr.StoreError{Op: "get", Cause: err}
	}
	defer closer.Close()
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

// List returns blob names in container whose name has the given prefix
// (empty prefix matches all), capped at limit (0 means unlimited).
func (g *Gateway) List(ctx context.Context, container, prefix string, limit int) ([]string, error) {
	base := containerPrefix(container)
	scanFrom := append(append([]byte(nil), base...), []byte(prefix)...)

	iter, err := g.db.NewIter(&pebble.IterOptions{})
	if err != nil {
		return nil, &bridgeerr.StoreError{Op: "list", Cause: err}
	}
	defer iter.Close()

	var names []string
	for iter.SeekGE(scanFrom); iter.Valid(); iter.Next() {
		if !bytes.HasPrefix(iter.Key(), base) {
			break
		}
		if prefix != "" && !bytes.HasPrefix(iter.Key()[len(base):], []byte(prefix)) {
			break
		}
		name := string(iter.Key()[len(base):])
		names = append(names, name)
		if limit > 0 && len(names) >= limit {
			break
		}
	}
	if err := iter.Error(); err != nil {
		return nil, &bridgeerr.StoreError{Op: "list", Cause: err}
	}
	return names, nil
}

// Delete removes the blob at container/blobName. Deleting an absent blob
// is not an error (pebble.Delete is idempotent).
func (g *Gateway) Delete(ctx context.Context, container, blobName string) error {
	if err := g.db.Delete(blobKey(container, blobName), pebble.Sync); err != nil {
		return &bridgeerr.StoreError{Op: "delete", Cause: err}
	}
	return nil
}

// EnsureContainer is a no-op for the embedded engine: containers are just a
// key prefix and need no separate creation. Kept so callers can create
// containers on startup unconditionally.
func (g *Gateway) EnsureContainer(ctx context.Context, container string) error {
	return nil
}
