// Package records implements the stored-message and transformation
// record models plus a RecordStore that encrypts payloads (via
// internal/encryption) and delegates persistence to the object-store
// gateway (internal/objectstore).
package records

import "time"

// OriginalStatus enumerates the status a stored message record carries.
type OriginalStatus string

const (
	StatusSent        OriginalStatus = "SENT"
	StatusFailed      OriginalStatus = "FAILED"
	StatusExcluded    OriginalStatus = "EXCLUDED"
	StatusRepublished OriginalStatus = "REPUBLISHED"
)

// StoredMessageRecord is the tagged record persisted for every message
// accepted by the send pipeline. Exactly one of Plaintext or the
// five crypto fields is populated, gated by Encrypted.
type StoredMessageRecord struct {
	MessageID      string         `json:"messageId"`
	Destination    string         `json:"destination"`
	CorrelationID  string         `json:"correlationId"`
	Timestamp      time.Time      `json:"timestamp"`
	OriginalStatus OriginalStatus `json:"originalStatus"`
	Encrypted      bool           `json:"encrypted"`

	Plaintext *string `json:"content"`

	Ciphertext []byte `json:"encryptedContent,omitempty"`
	WrappedDEK []byte `json:"encryptedDataKey,omitempty"`
	IV         []byte `json:"encryptionIv,omitempty"`
	Algorithm  string `json:"encryptionAlgorithm,omitempty"`
	KeyID      string `json:"keyVaultKeyId,omitempty"`
}

// BlobName is the object-store naming scheme for stored message records.
func (r *StoredMessageRecord) BlobName() string {
	return "message-" + r.MessageID + ".json"
}

// TransformationStatus enumerates the terminal and transient states of a
// transformation attempt.
type TransformationStatus string

const (
	TransformSuccess        TransformationStatus = "SUCCESS"
	TransformPartialSuccess TransformationStatus = "PARTIAL_SUCCESS"
	TransformFailed         TransformationStatus = "FAILED"
	TransformParseError     TransformationStatus = "PARSE_ERROR"
	TransformValidationErr  TransformationStatus = "VALIDATION_ERROR"
	TransformTimeout        TransformationStatus = "TIMEOUT"
	TransformRetry          TransformationStatus = "RETRY"
	TransformDeadLetter     TransformationStatus = "DEAD_LETTER"
)

// TransformationType is the closed enum of supported SWIFT/ISO conversions.
type TransformationType string

const (
	MT103ToMT202    TransformationType = "MT103_TO_MT202"
	MT202ToMT103    TransformationType = "MT202_TO_MT103"
	MT940ToMT950    TransformationType = "MT940_TO_MT950"
	MT103ToPain001  TransformationType = "MT103_TO_PAIN001"
	MT202ToPacs008  TransformationType = "MT202_TO_PACS008"
	MT940ToCamt053  TransformationType = "MT940_TO_CAMT053"
	EnrichFields    TransformationType = "ENRICH_FIELDS"
	NormalizeFormat TransformationType = "NORMALIZE_FORMAT"
	CustomTransform TransformationType = "CUSTOM"
)

// TransformationRecord is persisted once per transformation attempt,
// including attempts that end in RETRY. Input and output ciphertexts
// are sealed under independent DEKs so a single key compromise only leaks
// one side of the conversion.
type TransformationRecord struct {
	TransformationID   string               `json:"transformationId"`
	InputMessageID     string               `json:"inputMessageId"`
	OutputMessageID    string               `json:"outputMessageId,omitempty"`
	InputMessageType   string               `json:"inputMessageType"`
	OutputMessageType  string               `json:"outputMessageType,omitempty"`
	TransformationType TransformationType   `json:"transformationType"`
	Status             TransformationStatus `json:"status"`
	InputQueue         string               `json:"inputQueue"`
	OutputQueue        string               `json:"outputQueue,omitempty"`
	CorrelationID      string               `json:"correlationId"`
	Timestamp          time.Time            `json:"timestamp"`
	ProcessingTimeMs   int64                `json:"processingTimeMs"`
	AttemptCount       int                  `json:"attemptCount"`
	ErrorMessage       string               `json:"errorMessage,omitempty"`
	Warnings           []string             `json:"warnings,omitempty"`
	ConfidenceScore    *float64             `json:"confidenceScore,omitempty"`

	Encrypted bool `json:"encrypted"`

	InputCiphertext []byte `json:"inputCiphertext,omitempty"`
	InputWrappedDEK []byte `json:"inputWrappedDek,omitempty"`
	InputIV         []byte `json:"inputIv,omitempty"`

	OutputCiphertext []byte `json:"outputCiphertext,omitempty"`
	OutputWrappedDEK []byte `json:"outputWrappedDek,omitempty"`
	OutputIV         []byte `json:"outputIv,omitempty"`

	Algorithm string `json:"algorithm"`
	KeyID     string `json:"keyId"`
}

// BlobName is the object-store naming scheme for transformation records.
func (r *TransformationRecord) BlobName() string {
	return "transformation-" + r.TransformationID + ".json"
}
