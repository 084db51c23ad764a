// Package transform implements the transformation pipeline state machine:
// a consumer loop (subscribe, process, ack-or-retry) that parses, converts,
// and republishes SWIFT/ISO messages, dead-lettering attempts that
// exhaust their retry budget.
package transform

import (
	"context"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"

	"messagebridge/internal/broker"
	"messagebridge/internal/logger"
	"messagebridge/internal/metrics"
	"messagebridge/internal/records"
	"messagebridge/internal/swift"
)

// Config carries the pipeline's tunables: queue names, dead-letter
// destination, and retry backoff parameters.
type Config struct {
	InputQueue       string
	OutputQueue      string
	DeadLetterDest   string
	DefaultType      string
	RetryBaseDelay   time.Duration
	RetryFactor      float64
	RetryCap         time.Duration
	RetryMaxAttempts int
}

// DefaultConfig returns conservative retry defaults: 1s base delay,
// factor 2, 60s cap, 3 attempts.
func DefaultConfig() Config {
	return Config{
		RetryBaseDelay:   time.Second,
		RetryFactor:      2,
		RetryCap:         60 * time.Second,
		RetryMaxAttempts: 3,
	}
}

// Pipeline drives the PARSE -> TRANSFORM -> PUBLISH state machine for
// every message it receives on InputQueue.
type Pipeline struct {
	cfg     Config
	gateway broker.Gateway
	store   *records.Store
}

// New builds a Pipeline.
func New(cfg Config, gateway broker.Gateway, store *records.Store) *Pipeline {
	return &Pipeline{cfg: cfg, gateway: gateway, store: store}
}

// Run subscribes to cfg.InputQueue and blocks until ctx is cancelled,
// processing each delivery through Process.
func (p *Pipeline) Run(ctx context.Context) error {
	return p.gateway.Subscribe(ctx, p.cfg.InputQueue, func(_ context.Context, d broker.Delivery) error {
		// Run's ctx, not the delivery's, so pending retries stop with Run.
		p.Process(ctx, d)
		return nil // broker delivery is always acknowledged; retries are owned internally
	})
}

// Process runs one delivery through the full state machine, attempt 1.
// Internal retries (attempts 2..max) are scheduled via scheduleRetry and do
// not re-enter Process from the broker.
func (p *Pipeline) Process(ctx context.Context, d broker.Delivery) {
	transformationType := d.Properties["transformationType"]
	if transformationType == "" {
		transformationType = p.cfg.DefaultType
	}
	p.attempt(ctx, d, transformationType, 1)
}

func (p *Pipeline) attempt(ctx context.Context, d broker.Delivery, transformationType string, attemptNum int) {
	start := time.Now()
	transformationID := uuid.NewString()
	content := string(d.Payload)

	result := swift.Transform(content, transformationType)

	rec := &records.TransformationRecord{
		TransformationID:   transformationID,
		InputMessageID:     d.MessageID,
		InputMessageType:   d.Properties["inputMessageType"],
		TransformationType: records.TransformationType(transformationType),
		InputQueue:         p.cfg.InputQueue,
		OutputQueue:        p.cfg.OutputQueue,
		CorrelationID:      d.CorrelationID,
		Timestamp:          time.Now().UTC(),
		AttemptCount:       attemptNum,
		ProcessingTimeMs:   time.Since(start).Milliseconds(),
	}

	switch result.Status {
	case swift.StatusParseError, swift.StatusValidationErr:
		rec.Status = records.TransformationStatus(result.Status)
		rec.ErrorMessage = result.ErrorMessage
		p.persist(ctx, rec, content, "")
		return

	case swift.StatusSuccess, swift.StatusPartialSuccess:
		rec.OutputMessageType = result.OutputMessageType
		rec.Warnings = result.Warnings
		outputMessageID := uuid.NewString()
		rec.OutputMessageID = outputMessageID

		props := map[string]string{
			"transformationType": transformationType,
			"transformationId":   transformationID,
			"inputMessageId":     d.MessageID,
			"inputMessageType":   rec.InputMessageType,
			"outputMessageType":  result.OutputMessageType,
			"correlationId":      d.CorrelationID,
			"messageId":          outputMessageID,
		}
		if err := p.gateway.Publish(ctx, p.cfg.OutputQueue, []byte(result.OutputMessage), props); err != nil {
			logger.Error("transform pipeline: publish failed", "transformationId", transformationID, "error", err)
			rec.Status = records.TransformPartialSuccess
		} else {
			rec.Status = records.TransformSuccess
		}
		p.persist(ctx, rec, content, result.OutputMessage)
		return

	default: // FAILED, TIMEOUT
		rec.ErrorMessage = result.ErrorMessage
		if attemptNum < p.cfg.RetryMaxAttempts {
			rec.Status = records.TransformRetry
			p.persist(ctx, rec, content, "")
			p.scheduleRetry(ctx, d, transformationType, attemptNum)
			return
		}
		rec.Status = records.TransformDeadLetter
		p.persist(ctx, rec, content, "")
		p.deadLetter(ctx, d, transformationType, transformationID, attemptNum, result.ErrorMessage)
	}
}

func (p *Pipeline) persist(ctx context.Context, rec *records.TransformationRecord, input, output string) {
	metrics.TransformationAttempts.WithLabelValues(string(rec.TransformationType), string(rec.Status)).Inc()
	if err := p.store.SaveTransformation(ctx, rec, input, output); err != nil {
		logger.Error("transform pipeline: store failed", "transformationId", rec.TransformationID, "error", err)
	}
}

// scheduleRetry runs the backoff-governed retry in its own goroutine so it
// does not block the broker's delivery goroutine; an in-process retry does
// not survive a restart.
func (p *Pipeline) scheduleRetry(ctx context.Context, d broker.Delivery, transformationType string, lastAttempt int) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.cfg.RetryBaseDelay
	b.Multiplier = p.cfg.RetryFactor
	b.MaxInterval = p.cfg.RetryCap
	b.MaxElapsedTime = 0 // bounded by RetryMaxAttempts, not wall-clock
	b.RandomizationFactor = 0.25
	b.Reset() // start from RetryBaseDelay, not the library's default interval

	// Step to this attempt's interval: base * factor^(lastAttempt-1), capped.
	delay := b.NextBackOff()
	for i := 1; i < lastAttempt; i++ {
		delay = b.NextBackOff()
	}
	go func() {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return
		}
		p.attempt(ctx, d, transformationType, lastAttempt+1)
	}()
}

func (p *Pipeline) deadLetter(ctx context.Context, d broker.Delivery, transformationType, transformationID string, attempts int, reason string) {
	props := map[string]string{
		"failureReason":      reason,
		"retryAttempts":      strconv.Itoa(attempts),
		"transformationType": transformationType,
		"transformationId":   transformationID,
	}
	if p.cfg.DeadLetterDest == "" {
		logger.Warn("transform pipeline: no dead-letter destination configured, dropping", "transformationId", transformationID)
		return
	}
	metrics.DeadLetterCount.Inc()
	if err := p.gateway.Publish(ctx, p.cfg.DeadLetterDest, d.Payload, props); err != nil {
		logger.Error("transform pipeline: dead-letter publish failed", "transformationId", transformationID, "error", err)
	}
}

