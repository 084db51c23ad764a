// Package bridgeerr defines the bridge's error taxonomy. Errors are
// concrete types so callers can distinguish producer-path failures
// (which shape the HTTP response) from store-path failures (which never do).
package bridgeerr

import "fmt"

// ValidationError means the caller's request was malformed. Surfaced as 400.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Reason)
}

// PublishError means the broker refused or timed out a publish. Non-fatal
// to the send pipeline: logged, response status degrades to FAILED.
type PublishError struct {
	Destination string
	Cause       error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("publish to %q failed: %v", e.Destination, e.Cause)
}

func (e *PublishError) Unwrap() error { return e.Cause }

// StoreError means the object-store put/get/list/delete failed. Observable
// only in logs/metrics on the producer path; propagates as 500 on retrieval.
type StoreError struct {
	Op    string
	Cause error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s failed: %v", e.Op, e.Cause)
}

func (e *StoreError) Unwrap() error { return e.Cause }

// AuthenticationError means AEAD tag verification failed on decrypt. Never
// carries details about the plaintext or key material to the caller.
type AuthenticationError struct {
	Cause error
}

func (e *AuthenticationError) Error() string { return "authentication failed: tamper detected" }

func (e *AuthenticationError) Unwrap() error { return e.Cause }

// KeyServiceError means wrap/unwrap against the key provider failed.
type KeyServiceError struct {
	Op    string
	Cause error
}

func (e *KeyServiceError) Error() string {
	return fmt.Sprintf("key service %s failed: %v", e.Op, e.Cause)
}

func (e *KeyServiceError) Unwrap() error { return e.Cause }

// ParseError means the transformer could not parse the inbound payload.
// Terminal: no retry.
type ParseError struct {
	Cause error
}

func (e *ParseError) Error() string { return fmt.Sprintf("parse error: %v", e.Cause) }

func (e *ParseError) Unwrap() error { return e.Cause }

// NotFoundError means a lookup by id found nothing. Surfaced as 404.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("%s not found: %s", e.Kind, e.ID) }
