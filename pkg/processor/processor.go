// Package processor dispatches ingestion envelopes to the graph writers.
// This is the ingestion layer: it decodes typed batches and applies them
// through the storage services, one message at a time.
package processor

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/fern/pkg/events"
	"github.com/Ramsey-B/fern/pkg/metrics"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

// CompanyWriter creates company nodes
type CompanyWriter interface {
	BulkCreate(ctx context.Context, records []models.CompanyRecord) error
}

// PersonWriter creates person nodes
type PersonWriter interface {
	BulkCreate(ctx context.Context, records []models.EmploymentRecord) (int, error)
}

// EmploymentWriter creates and edits employment edges
type EmploymentWriter interface {
	BulkCreate(ctx context.Context, records []models.EmploymentRecord) (int64, error)
	Edit(ctx context.Context, record models.EmploymentEditRecord) (int64, error)
}

// AcquisitionWriter creates acquisition edges
type AcquisitionWriter interface {
	BulkCreate(ctx context.Context, records []models.AcquisitionRecord) (int64, error)
}

// Processor routes ingestion envelopes to the graph writers
type Processor struct {
	logger       ectologger.Logger
	companies    CompanyWriter
	persons      PersonWriter
	employments  EmploymentWriter
	acquisitions AcquisitionWriter
	emitter      *events.Emitter
}

// NewProcessor creates a new ingestion dispatcher
func NewProcessor(
	logger ectologger.Logger,
	companies CompanyWriter,
	persons PersonWriter,
	employments EmploymentWriter,
	acquisitions AcquisitionWriter,
	emitter *events.Emitter,
) *Processor {
	return &Processor{
		logger:       logger,
		companies:    companies,
		persons:      persons,
		employments:  employments,
		acquisitions: acquisitions,
		emitter:      emitter,
	}
}

// Handle applies one ingestion envelope. It never returns an error: a batch
// that cannot be applied is logged, counted, and dropped so the consuming
// loop keeps going. Unrecognized types are dropped the same way.
func (p *Processor) Handle(ctx context.Context, envelope *models.IngestEnvelope) error {
	ctx, span := tracing.StartSpan(ctx, "processor.Processor.Handle")
	defer span.End()

	log := p.logger.WithContext(ctx).WithFields(map[string]any{
		"message_type": envelope.Type,
	})

	switch envelope.Type {
	case models.TypeCompanies:
		p.handleCompanies(ctx, log, envelope.Data)
	case models.TypePersonEmployments:
		p.handlePersonEmployments(ctx, log, envelope.Data)
	case models.TypeEmploymentEdit:
		p.handleEmploymentEdit(ctx, log, envelope.Data)
	case models.TypeCompanyAcquisitions:
		p.handleAcquisitions(ctx, log, envelope.Data)
	default:
		log.Warn("Dropping message with unrecognized type")
		metrics.IngestUnknownTypesTotal.Inc()
		p.emitter.EmitBatchDropped(ctx, envelope.Type, "unrecognized type")
	}
	return nil
}

func (p *Processor) handleCompanies(ctx context.Context, log ectologger.Logger, data json.RawMessage) {
	var records []models.CompanyRecord
	if err := json.Unmarshal(data, &records); err != nil {
		p.fail(ctx, log, models.TypeCompanies, 0, fmt.Errorf("failed to decode company batch: %w", err))
		return
	}

	if err := p.companies.BulkCreate(ctx, records); err != nil {
		p.fail(ctx, log, models.TypeCompanies, len(records), err)
		return
	}

	metrics.IngestMessagesTotal.WithLabelValues(models.TypeCompanies, "applied").Inc()
	metrics.IngestRecordsTotal.WithLabelValues("company").Add(float64(len(records)))
	p.emitter.EmitBatchApplied(ctx, models.TypeCompanies, len(records), int64(len(records)))
	log.WithFields(map[string]any{"batch_size": len(records)}).Info("Company batch applied")
}

// handlePersonEmployments creates person nodes before employment edges.
// The ordering is load-bearing: an employment edge can only attach to a
// person node that already exists.
func (p *Processor) handlePersonEmployments(ctx context.Context, log ectologger.Logger, data json.RawMessage) {
	var records []models.EmploymentRecord
	if err := json.Unmarshal(data, &records); err != nil {
		p.fail(ctx, log, models.TypePersonEmployments, 0, fmt.Errorf("failed to decode employment batch: %w", err))
		return
	}

	created, err := p.persons.BulkCreate(ctx, records)
	if err != nil {
		p.fail(ctx, log, models.TypePersonEmployments, len(records), err)
		return
	}

	merged, err := p.employments.BulkCreate(ctx, records)
	if err != nil {
		p.fail(ctx, log, models.TypePersonEmployments, len(records), err)
		return
	}

	metrics.IngestMessagesTotal.WithLabelValues(models.TypePersonEmployments, "applied").Inc()
	metrics.IngestRecordsTotal.WithLabelValues("person").Add(float64(created))
	metrics.IngestRecordsTotal.WithLabelValues("employment").Add(float64(merged))
	if skipped := int64(len(records)) - merged; skipped > 0 {
		metrics.IngestSkippedRecordsTotal.WithLabelValues("employment").Add(float64(skipped))
	}
	p.emitter.EmitBatchApplied(ctx, models.TypePersonEmployments, len(records), merged)
	log.WithFields(map[string]any{
		"batch_size":      len(records),
		"persons_created": created,
		"edges_merged":    merged,
	}).Info("Employment batch applied")
}

func (p *Processor) handleEmploymentEdit(ctx context.Context, log ectologger.Logger, data json.RawMessage) {
	var record models.EmploymentEditRecord
	if err := json.Unmarshal(data, &record); err != nil {
		p.fail(ctx, log, models.TypeEmploymentEdit, 0, fmt.Errorf("failed to decode employment edit: %w", err))
		return
	}

	updated, err := p.employments.Edit(ctx, record)
	if err != nil {
		p.fail(ctx, log, models.TypeEmploymentEdit, 1, err)
		return
	}

	metrics.IngestMessagesTotal.WithLabelValues(models.TypeEmploymentEdit, "applied").Inc()
	if updated == 0 {
		metrics.IngestEditNoopsTotal.Inc()
	}
	p.emitter.EmitBatchApplied(ctx, models.TypeEmploymentEdit, 1, updated)
	log.WithFields(map[string]any{"updated": updated}).Info("Employment edit applied")
}

func (p *Processor) handleAcquisitions(ctx context.Context, log ectologger.Logger, data json.RawMessage) {
	var records []models.AcquisitionRecord
	if err := json.Unmarshal(data, &records); err != nil {
		p.fail(ctx, log, models.TypeCompanyAcquisitions, 0, fmt.Errorf("failed to decode acquisition batch: %w", err))
		return
	}

	merged, err := p.acquisitions.BulkCreate(ctx, records)
	if err != nil {
		p.fail(ctx, log, models.TypeCompanyAcquisitions, len(records), err)
		return
	}

	metrics.IngestMessagesTotal.WithLabelValues(models.TypeCompanyAcquisitions, "applied").Inc()
	metrics.IngestRecordsTotal.WithLabelValues("acquisition").Add(float64(merged))
	if skipped := int64(len(records)) - merged; skipped > 0 {
		metrics.IngestSkippedRecordsTotal.WithLabelValues("acquisition").Add(float64(skipped))
	}
	p.emitter.EmitBatchApplied(ctx, models.TypeCompanyAcquisitions, len(records), merged)
	log.WithFields(map[string]any{
		"batch_size":   len(records),
		"edges_merged": merged,
	}).Info("Acquisition batch applied")
}

func (p *Processor) fail(ctx context.Context, log ectologger.Logger, messageType string, received int, err error) {
	log.WithError(err).Error("Failed to apply ingestion batch")
	metrics.IngestMessagesTotal.WithLabelValues(messageType, "failed").Inc()
	p.emitter.EmitBatchFailed(ctx, messageType, received, err.Error())
}
