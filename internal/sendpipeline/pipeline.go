// Package sendpipeline orchestrates the exclusion check, broker publish,
// and asynchronous encrypted store for inbound messages, plus the
// republish operation.
package sendpipeline

import (
	"context"
	"time"

	"github.com/google/uuid"

	"messagebridge/internal/broker"
	"messagebridge/internal/exclusion"
	"messagebridge/internal/logger"
	"messagebridge/internal/metrics"
	"messagebridge/internal/records"
	"messagebridge/internal/workerpool"
)

func nowMillis() int64 { return time.Now().UTC().UnixMilli() }

// Request is the inbound message envelope.
type Request struct {
	Content       string
	Destination   string
	CorrelationID string
	MessageType   string
}

// Response is the shape returned to the HTTP caller.
type Response struct {
	MessageID   string                 `json:"messageId"`
	Status      records.OriginalStatus `json:"status"`
	Destination string                 `json:"destination"`
	Timestamp   int64                  `json:"timestamp"`
}

// Pipeline wires exclusion, broker publish, and the async store together
// in order: check exclusion, publish, schedule the store.
type Pipeline struct {
	exclusion *exclusion.Engine
	gateway   broker.Gateway
	pool      *workerpool.Pool
	records   *records.Store
}

// New builds a Pipeline from its collaborators.
func New(excl *exclusion.Engine, gateway broker.Gateway, pool *workerpool.Pool, store *records.Store) *Pipeline {
	return &Pipeline{exclusion: excl, gateway: gateway, pool: pool, records: store}
}

// Send runs the full dual-path pipeline for req, allocating messageID
// itself. It returns immediately after the synchronous publish step; the
// store is scheduled on the async worker pool and never blocks the caller
// or mutates the already-returned response.
func (p *Pipeline) Send(ctx context.Context, req Request) Response {
	messageID := uuid.NewString()
	return p.send(ctx, messageID, req)
}

func (p *Pipeline) send(ctx context.Context, messageID string, req Request) Response {
	if p.exclusion.ShouldExclude(req.Content, req.MessageType) {
		return p.respond(messageID, records.StatusExcluded, req.Destination)
	}

	status := records.StatusSent
	properties := map[string]string{
		"correlationId": req.CorrelationID,
		"messageId":     messageID,
	}
	if err := p.gateway.Publish(ctx, req.Destination, []byte(req.Content), properties); err != nil {
		logger.Error("send pipeline: publish failed", "destination", req.Destination, "messageId", messageID, "error", err)
		status = records.StatusFailed
	}

	p.scheduleStore(messageID, req.Destination, req.CorrelationID, status, req.Content)

	return p.respond(messageID, status, req.Destination)
}

func (p *Pipeline) scheduleStore(messageID, destination, correlationID string, status records.OriginalStatus, content string) {
	p.pool.Submit([]byte(content), func(ctx context.Context, payload []byte) {
		if _, err := p.records.SaveMessage(ctx, messageID, destination, correlationID, status, string(payload)); err != nil {
			logger.Error("send pipeline: async store failed", "messageId", messageID, "error", err)
		}
	})
}

func (p *Pipeline) respond(messageID string, status records.OriginalStatus, destination string) Response {
	metrics.MessagesSent.WithLabelValues(string(status)).Inc()
	return Response{
		MessageID:   messageID,
		Status:      status,
		Destination: destination,
		Timestamp:   nowMillis(),
	}
}

// Republish retrieves a stored record by id, constructs a new request from
// it, allocates a fresh messageId, and drives the same pipeline. The
// stored record for the republished message always carries
// originalStatus=REPUBLISHED regardless of publish outcome.
func (p *Pipeline) Republish(ctx context.Context, originalMessageID string) (Response, error) {
	rec, content, err := p.records.GetMessage(ctx, originalMessageID)
	if err != nil {
		return Response{}, err
	}

	newMessageID := uuid.NewString()
	destination := rec.Destination
	correlationID := rec.CorrelationID

	if p.exclusion.ShouldExclude(content, "") {
		p.scheduleStoreStatus(newMessageID, destination, correlationID, records.StatusRepublished, content)
		return p.respond(newMessageID, records.StatusExcluded, destination), nil
	}

	properties := map[string]string{"correlationId": correlationID, "messageId": newMessageID}
	publishStatus := records.StatusRepublished
	if err := p.gateway.Publish(ctx, destination, []byte(content), properties); err != nil {
		logger.Error("send pipeline: republish publish failed", "destination", destination, "messageId", newMessageID, "error", err)
	}

	p.scheduleStoreStatus(newMessageID, destination, correlationID, publishStatus, content)

	return p.respond(newMessageID, records.StatusRepublished, destination), nil
}

func (p *Pipeline) scheduleStoreStatus(messageID, destination, correlationID string, status records.OriginalStatus, content string) {
	p.pool.Submit([]byte(content), func(ctx context.Context, payload []byte) {
		if _, err := p.records.SaveMessage(ctx, messageID, destination, correlationID, status, string(payload)); err != nil {
			logger.Error("send pipeline: async republish store failed", "messageId", messageID, "error", err)
		}
	})
}
