// Package events handles audit event emission for ingestion outcomes
package events

import (
	"context"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/fern/pkg/kafka"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

// Emitter publishes ingestion batch outcomes to the audit topic. A nil
// emitter or nil producer disables emission, so callers never need to branch
// on whether auditing is configured.
type Emitter struct {
	producer *kafka.Producer
	logger   ectologger.Logger
}

// NewEmitter creates a new audit event emitter
func NewEmitter(producer *kafka.Producer, logger ectologger.Logger) *Emitter {
	return &Emitter{
		producer: producer,
		logger:   logger,
	}
}

// EmitBatchApplied emits an audit event for a successfully applied batch.
// applied may be lower than received when edge records were skipped.
func (e *Emitter) EmitBatchApplied(ctx context.Context, messageType string, received int, applied int64) {
	if e == nil || e.producer == nil {
		return
	}

	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitBatchApplied")
	defer span.End()

	event := &kafka.IngestAuditEvent{
		EventType:       "batch.applied",
		MessageType:     messageType,
		RecordsReceived: received,
		RecordsApplied:  applied,
	}

	if err := e.producer.PublishIngestAudit(ctx, event); err != nil {
		e.logger.WithContext(ctx).WithError(err).Error("Failed to emit batch.applied event")
	}
}

// EmitBatchFailed emits an audit event for a batch that could not be applied
func (e *Emitter) EmitBatchFailed(ctx context.Context, messageType string, received int, reason string) {
	if e == nil || e.producer == nil {
		return
	}

	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitBatchFailed")
	defer span.End()

	event := &kafka.IngestAuditEvent{
		EventType:       "batch.failed",
		MessageType:     messageType,
		RecordsReceived: received,
		Reason:          reason,
	}

	if err := e.producer.PublishIngestAudit(ctx, event); err != nil {
		e.logger.WithContext(ctx).WithError(err).Error("Failed to emit batch.failed event")
	}
}

// EmitBatchDropped emits an audit event for a message dropped before
// dispatch, such as an unrecognized type.
func (e *Emitter) EmitBatchDropped(ctx context.Context, messageType string, reason string) {
	if e == nil || e.producer == nil {
		return
	}

	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitBatchDropped")
	defer span.End()

	event := &kafka.IngestAuditEvent{
		EventType:   "batch.dropped",
		MessageType: messageType,
		Reason:      reason,
	}

	if err := e.producer.PublishIngestAudit(ctx, event); err != nil {
		e.logger.WithContext(ctx).WithError(err).Error("Failed to emit batch.dropped event")
	}
}
