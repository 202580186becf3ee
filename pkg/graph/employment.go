package graph

import (
	"context"
	"fmt"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/fern/pkg/tracing"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/Ramsey-B/fern/pkg/models"
)

// EmploymentService handles EMPLOYED_AT edges. The natural key of an edge is
// (person_id, company_id, start_date): start_date participates in the merge
// key so a re-hire creates a second edge instead of overwriting the first.
type EmploymentService struct {
	client *Client
	logger ectologger.Logger
}

// NewEmploymentService creates a new employment service
func NewEmploymentService(client *Client, logger ectologger.Logger) *EmploymentService {
	return &EmploymentService{
		client: client,
		logger: logger,
	}
}

// BulkCreate merges one EMPLOYED_AT edge per record in a single UNWIND
// statement. Referenced Person and Company nodes must already exist: a record
// pointing at a missing node matches no rows and is skipped without error.
// The returned count is the number of edges actually merged, so callers can
// observe the gap.
func (s *EmploymentService) BulkCreate(ctx context.Context, records []models.EmploymentRecord) (int64, error) {
	ctx, span := tracing.StartSpan(ctx, "graph.EmploymentService.BulkCreate")
	defer span.End()

	if len(records) == 0 {
		return 0, nil
	}

	if err := models.ValidateBatch(records); err != nil {
		return 0, err
	}

	batch, err := employmentBatch(records)
	if err != nil {
		return 0, err
	}

	log := s.logger.WithContext(ctx).WithFields(map[string]any{
		"batch_size": len(records),
	})

	cypher := `
		UNWIND $batch AS data
		MATCH (p:Person {person_id: data.person_id})
		MATCH (c:Company {company_id: data.company_id})
		MERGE (p)-[e:EMPLOYED_AT {start_date: data.start_date}]->(c)
		SET e.employment_title = data.employment_title, e.end_date = data.end_date
		RETURN count(e) AS merged
	`

	result, err := s.client.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, cypher, map[string]any{"batch": batch})
		if err != nil {
			return nil, err
		}
		if !result.Next(ctx) {
			return int64(0), nil
		}
		merged, _ := result.Record().Get("merged")
		return merged.(int64), nil
	})

	if err != nil {
		log.WithError(err).Error("Failed to bulk create employments")
		return 0, fmt.Errorf("failed to bulk create employments: %w", err)
	}

	merged := result.(int64)
	if merged < int64(len(records)) {
		log.WithFields(map[string]any{
			"merged":  merged,
			"skipped": int64(len(records)) - merged,
		}).Warn("Employment records skipped: referenced person or company does not exist")
	} else {
		log.Info("Employments merged")
	}
	return merged, nil
}

// Edit locates the unique employment edge matching the record's
// (person_id, company_id, start_date) key and applies the fields present in
// the record; omitted fields are left unchanged. An edit matching no edge is
// a silent no-op (returns 0, nil) — never an error.
func (s *EmploymentService) Edit(ctx context.Context, record models.EmploymentEditRecord) (int64, error) {
	ctx, span := tracing.StartSpan(ctx, "graph.EmploymentService.Edit")
	defer span.End()

	if err := models.Validate(record); err != nil {
		return 0, err
	}

	startDate, err := models.ToTimestamp(record.StartDate)
	if err != nil {
		return 0, err
	}

	params := map[string]any{
		"person_id":        record.PersonID,
		"company_id":       record.CompanyID,
		"start_date":       startDate,
		"employment_title": nil,
		"end_date":         nil,
	}
	if record.EmploymentTitle != nil {
		params["employment_title"] = *record.EmploymentTitle
	}
	if record.EndDate != nil {
		endDate, err := models.ToTimestamp(*record.EndDate)
		if err != nil {
			return 0, err
		}
		params["end_date"] = endDate
	}

	log := s.logger.WithContext(ctx).WithFields(map[string]any{
		"person_id":  record.PersonID,
		"company_id": record.CompanyID,
		"start_date": startDate,
	})

	cypher := `
		MATCH (p:Person)-[e:EMPLOYED_AT]->(c:Company)
		WHERE p.person_id = $person_id AND c.company_id = $company_id AND e.start_date = $start_date
		SET e.employment_title = coalesce($employment_title, e.employment_title),
		    e.end_date = coalesce($end_date, e.end_date)
		RETURN count(e) AS updated
	`

	result, err := s.client.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, cypher, params)
		if err != nil {
			return nil, err
		}
		if !result.Next(ctx) {
			return int64(0), nil
		}
		updated, _ := result.Record().Get("updated")
		return updated.(int64), nil
	})

	if err != nil {
		log.WithError(err).Error("Failed to edit employment")
		return 0, fmt.Errorf("failed to edit employment: %w", err)
	}

	updated := result.(int64)
	if updated == 0 {
		log.Warn("Employment edit matched no edge")
	} else {
		log.Debug("Employment updated")
	}
	return updated, nil
}

// employmentBatch builds the UNWIND parameter list, converting boundary date
// strings to canonical timestamps. A nil end_date stays null on the edge.
func employmentBatch(records []models.EmploymentRecord) ([]map[string]any, error) {
	batch := make([]map[string]any, len(records))
	for i, r := range records {
		startDate, err := models.ToTimestamp(r.StartDate)
		if err != nil {
			return nil, &models.ValidationError{Index: i, Reason: err.Error()}
		}

		entry := map[string]any{
			"person_id":        r.PersonID,
			"company_id":       r.CompanyID,
			"employment_title": r.EmploymentTitle,
			"start_date":       startDate,
			"end_date":         nil,
		}
		if r.EndDate != nil {
			endDate, err := models.ToTimestamp(*r.EndDate)
			if err != nil {
				return nil, &models.ValidationError{Index: i, Reason: err.Error()}
			}
			entry["end_date"] = endDate
		}
		batch[i] = entry
	}
	return batch, nil
}
