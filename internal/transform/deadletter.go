package transform

import (
	"context"
	"sync"
	"time"

	"messagebridge/internal/broker"
	"messagebridge/internal/logger"
	"messagebridge/internal/records"
)

// DeadLetterListener subscribes to a DLQ destination, stores each payload
// as a normal audit record with originalStatus=FAILED, and tracks a
// 1-hour rolling count to emit warn/error thresholds.
type DeadLetterListener struct {
	destination     string
	gateway         broker.Gateway
	store           *records.Store
	warnThreshold   int
	errorThreshold  int

	mu        sync.Mutex
	timestamps []time.Time
}

// NewDeadLetterListener builds a listener for destination.
func NewDeadLetterListener(destination string, gateway broker.Gateway, store *records.Store, warnThreshold, errorThreshold int) *DeadLetterListener {
	return &DeadLetterListener{
		destination:    destination,
		gateway:        gateway,
		store:          store,
		warnThreshold:  warnThreshold,
		errorThreshold: errorThreshold,
	}
}

// Run subscribes and blocks until ctx is cancelled.
func (l *DeadLetterListener) Run(ctx context.Context) error {
	if l.destination == "" {
		<-ctx.Done()
		return ctx.Err()
	}
	return l.gateway.Subscribe(ctx, l.destination, func(ctx context.Context, d broker.Delivery) error {
		l.handle(ctx, d)
		return nil
	})
}

func (l *DeadLetterListener) handle(ctx context.Context, d broker.Delivery) {
	messageID := d.MessageID
	if messageID == "" {
		messageID = d.Properties["transformationId"]
	}
	if _, err := l.store.SaveMessage(ctx, messageID, l.destination, d.CorrelationID, records.StatusFailed, string(d.Payload)); err != nil {
		logger.Error("dead-letter listener: store failed", "messageId", messageID, "error", err)
	}

	count := l.recordAndCount()
	switch {
	case count > l.errorThreshold && l.errorThreshold > 0:
		logger.Error("dead-letter listener: hourly DLQ count exceeds critical threshold", "count", count, "threshold", l.errorThreshold)
	case count > l.warnThreshold && l.warnThreshold > 0:
		logger.Warn("dead-letter listener: hourly DLQ count exceeds warning threshold", "count", count, "threshold", l.warnThreshold)
	}
}

// recordAndCount appends now and returns the count of entries within the
// trailing hour, pruning older ones.
func (l *DeadLetterListener) recordAndCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := time.Now()
	l.timestamps = append(l.timestamps, now)
	cutoff := now.Add(-time.Hour)
	i := 0
	for i < len(l.timestamps) && l.timestamps[i].Before(cutoff) {
		i++
	}
	l.timestamps = l.timestamps[i:]
	return len(l.timestamps)
}
