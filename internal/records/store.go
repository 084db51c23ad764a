package records

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"messagebridge/internal/encryption"
	"messagebridge/internal/objectstore"
)

// Store is the record store: it encrypts payloads via the encryption
// service (when enabled) and delegates blob persistence to the
// object-store gateway.
type Store struct {
	enc       *encryption.Service
	gateway   *objectstore.Gateway
	container string
	encrypt   bool
}

// New builds a Store. encrypt controls whether saved records are sealed;
// when false, records carry plaintext content.
func New(enc *encryption.Service, gateway *objectstore.Gateway, container string, encrypt bool) *Store {
	return &Store{enc: enc, gateway: gateway, container: container, encrypt: encrypt}
}

// SaveMessage builds and persists a StoredMessageRecord for content under
// the given messageId/destination/correlationId/status.
func (s *Store) SaveMessage(ctx context.Context, messageID, destination, correlationID string, status OriginalStatus, content string) (*StoredMessageRecord, error) {
	rec := &StoredMessageRecord{
		MessageID:      messageID,
		Destination:    destination,
		CorrelationID:  correlationID,
		Timestamp:      time.Now().UTC(),
		OriginalStatus: status,
	}

	if s.encrypt {
		encRec, err := s.enc.Encrypt(ctx, []byte(content))
		if err != nil {
			return nil, err
		}
		rec.Encrypted = true
		rec.Ciphertext = encRec.Ciphertext
		rec.WrappedDEK = encRec.WrappedDEK
		rec.IV = encRec.IV
		rec.Algorithm = encRec.Algorithm
		rec.KeyID = encRec.KeyID
	} else {
		rec.Encrypted = false
		rec.Plaintext = &content
	}

	if err := s.putJSON(ctx, rec.BlobName(), rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// GetMessage retrieves a StoredMessageRecord by id and decrypts its content
// when encrypted. The returned string is always the plaintext content.
func (s *Store) GetMessage(ctx context.Context, messageID string) (*StoredMessageRecord, string, error) {
	var rec StoredMessageRecord
	blobName := "message-" + messageID + ".json"
	if err := s.getJSON(ctx, blobName, &rec); err != nil {
		return nil, "", err
	}
	if !rec.Encrypted {
		var content string
		if rec.Plaintext != nil {
			content = *rec.Plaintext
		}
		return &rec, content, nil
	}
	plaintext, err := s.enc.Decrypt(ctx, &encryption.Record{
		Ciphertext: rec.Ciphertext,
		WrappedDEK: rec.WrappedDEK,
		IV:         rec.IV,
		Algorithm:  rec.Algorithm,
		KeyID:      rec.KeyID,
	})
	if err != nil {
		return nil, "", err
	}
	return &rec, string(plaintext), nil
}

// ListMessages returns up to limit message records, newest Timestamp first.
// Every message record in the container is read and sorted before the
// limit is applied.
func (s *Store) ListMessages(ctx context.Context, limit int) ([]*StoredMessageRecord, error) {
	names, err := s.gateway.List(ctx, s.container, "message-", 0)
	if err != nil {
		return nil, err
	}
	out := make([]*StoredMessageRecord, 0, len(names))
	for _, name := range names {
		var rec StoredMessageRecord
		if err := s.getJSON(ctx, name, &rec); err != nil {
			continue
		}
		out = append(out, &rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// DeleteMessage removes the stored record for messageID.
func (s *Store) DeleteMessage(ctx context.Context, messageID string) error {
	return s.gateway.Delete(ctx, s.container, "message-"+messageID+".json")
}

// SaveTransformation persists a TransformationRecord, sealing input/output
// payloads under independent DEKs when encryption is enabled.
func (s *Store) SaveTransformation(ctx context.Context, rec *TransformationRecord, inputContent, outputContent string) error {
	if s.encrypt {
		inEnc, err := s.enc.Encrypt(ctx, []byte(inputContent))
		if err != nil {
			return err
		}
		rec.Encrypted = true
		rec.InputCiphertext = inEnc.Ciphertext
		rec.InputWrappedDEK = inEnc.WrappedDEK
		rec.InputIV = inEnc.IV
		rec.Algorithm = inEnc.Algorithm
		rec.KeyID = inEnc.KeyID

		if outputContent != "" {
			outEnc, err := s.enc.Encrypt(ctx, []byte(outputContent))
			if err != nil {
				return err
			}
			rec.OutputCiphertext = outEnc.Ciphertext
			rec.OutputWrappedDEK = outEnc.WrappedDEK
			rec.OutputIV = outEnc.IV
		}
	}
	return s.putJSON(ctx, rec.BlobName(), rec)
}

// GetTransformation retrieves a TransformationRecord by id.
func (s *Store) GetTransformation(ctx context.Context, transformationID string) (*TransformationRecord, error) {
	var rec TransformationRecord
	if err := s.getJSON(ctx, "transformation-"+transformationID+".json", &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *Store) putJSON(ctx context.Context, blobName string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("records: marshaling %s: %w", blobName, err)
	}
	return s.gateway.Put(ctx, s.container, blobName, b)
}

func (s *Store) getJSON(ctx context.Context, blobName string, v any) error {
	b, err := s.gateway.Get(ctx, s.container, blobName)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}
