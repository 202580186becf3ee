package graph

import (
	"context"
	"fmt"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/fern/pkg/tracing"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/Ramsey-B/fern/pkg/models"
)

// AcquisitionService handles ACQUIRED edges between companies.
type AcquisitionService struct {
	client *Client
	logger ectologger.Logger
}

// NewAcquisitionService creates a new acquisition service
func NewAcquisitionService(client *Client, logger ectologger.Logger) *AcquisitionService {
	return &AcquisitionService{
		client: client,
		logger: logger,
	}
}

// BulkCreate merges one ACQUIRED edge per record. The edge is keyed by the
// (parent, acquired) company pair, so repeating a record updates
// merged_into_parent_company in place rather than adding a parallel edge.
// Records referencing a missing company match nothing and are skipped; the
// returned count is the number of edges actually merged.
func (s *AcquisitionService) BulkCreate(ctx context.Context, records []models.AcquisitionRecord) (int64, error) {
	ctx, span := tracing.StartSpan(ctx, "graph.AcquisitionService.BulkCreate")
	defer span.End()

	if len(records) == 0 {
		return 0, nil
	}

	if err := models.ValidateBatch(records); err != nil {
		return 0, err
	}

	log := s.logger.WithContext(ctx).WithFields(map[string]any{
		"batch_size": len(records),
	})

	cypher := `
		UNWIND $batch AS data
		MATCH (parent:Company {company_id: data.parent_company_id})
		MATCH (acquired:Company {company_id: data.acquired_company_id})
		MERGE (parent)-[a:ACQUIRED]->(acquired)
		SET a.merged_into_parent_company = data.merged_into_parent_company
		RETURN count(a) AS merged
	`

	result, err := s.client.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, cypher, map[string]any{"batch": acquisitionBatch(records)})
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
		log.WithError(err).Error("Failed to bulk create acquisitions")
		return 0, fmt.Errorf("failed to bulk create acquisitions: %w", err)
	}

	merged := result.(int64)
	if merged < int64(len(records)) {
		log.WithFields(map[string]any{
			"merged":  merged,
			"skipped": int64(len(records)) - merged,
		}).Warn("Acquisition records skipped: referenced company does not exist")
	} else {
		log.Info("Acquisitions merged")
	}
	return merged, nil
}

func acquisitionBatch(records []models.AcquisitionRecord) []map[string]any {
	batch := make([]map[string]any, len(records))
	for i, r := range records {
		batch[i] = map[string]any{
			"parent_company_id":          r.ParentCompanyID,
			"acquired_company_id":        r.AcquiredCompanyID,
			"merged_into_parent_company": r.MergedIntoParentCompany,
		}
	}
	return batch
}
