package graph

import (
	"context"
	"fmt"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/fern/pkg/tracing"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/Ramsey-B/fern/pkg/models"
)

// CompanyService handles company nodes and the acquisition traversals rooted
// at them.
type CompanyService struct {
	client *Client
	logger ectologger.Logger
}

// NewCompanyService creates a new company service
func NewCompanyService(client *Client, logger ectologger.Logger) *CompanyService {
	return &CompanyService{
		client: client,
		logger: logger,
	}
}

// BulkCreate unconditionally creates one Company node per record in a single
// UNWIND statement. It is deliberately NOT idempotent: the uniqueness
// constraints make a repeated batch fail with a uniqueness conflict, which
// catches accidental duplicate ingestion. The statement is atomic; on
// conflict nothing in the batch commits.
func (s *CompanyService) BulkCreate(ctx context.Context, records []models.CompanyRecord) error {
	ctx, span := tracing.StartSpan(ctx, "graph.CompanyService.BulkCreate")
	defer span.End()

	if len(records) == 0 {
		return nil
	}

	if err := models.ValidateBatch(records); err != nil {
		return err
	}

	log := s.logger.WithContext(ctx).WithFields(map[string]any{
		"batch_size": len(records),
	})

	cypher := `
		UNWIND $batch AS data
		CREATE (c:Company {company_id: data.company_id, company_name: data.company_name, headcount: data.headcount})
	`

	_, err := s.client.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, cypher, map[string]any{"batch": companyBatch(records)})
		if err != nil {
			return nil, err
		}
		return result.Consume(ctx)
	})

	if err != nil {
		err = classifyWriteError(err)
		if IsUniquenessConflict(err) {
			log.WithError(err).Warn("Company batch rejected on uniqueness conflict")
			return err
		}
		log.WithError(err).Error("Failed to bulk create companies")
		return fmt.Errorf("failed to bulk create companies: %w", err)
	}

	log.Info("Companies created")
	return nil
}

// GetByID returns a single company or ErrNotFound.
func (s *CompanyService) GetByID(ctx context.Context, companyID int64) (*models.Company, error) {
	ctx, span := tracing.StartSpan(ctx, "graph.CompanyService.GetByID")
	defer span.End()

	cypher := `
		MATCH (c:Company {company_id: $company_id})
		RETURN c
		LIMIT 1
	`

	result, err := s.client.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, cypher, map[string]any{"company_id": companyID})
		if err != nil {
			return nil, err
		}
		if !result.Next(ctx) {
			return nil, nil
		}
		node, _ := result.Record().Get("c")
		company := companyFromProps(node.(neo4j.Node).Props)
		return &company, nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	if result == nil {
		return nil, ErrNotFound
	}
	return result.(*models.Company), nil
}

// List returns every company.
func (s *CompanyService) List(ctx context.Context) ([]models.Company, error) {
	ctx, span := tracing.StartSpan(ctx, "graph.CompanyService.List")
	defer span.End()

	cypher := `
		MATCH (c:Company)
		RETURN c
	`

	return s.collectCompanies(ctx, cypher, nil, "c")
}

// Count returns the number of company nodes.
func (s *CompanyService) Count(ctx context.Context) (int64, error) {
	ctx, span := tracing.StartSpan(ctx, "graph.CompanyService.Count")
	defer span.End()

	cypher := `
		MATCH (c:Company)
		RETURN count(c) AS total
	`

	result, err := s.client.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, cypher, nil)
		if err != nil {
			return nil, err
		}
		if !result.Next(ctx) {
			return int64(0), nil
		}
		total, _ := result.Record().Get("total")
		return total.(int64), nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count companies: %w", err)
	}
	return result.(int64), nil
}

// GetEmployees returns one row per incoming EMPLOYED_AT edge. Multiplicity is
// preserved: a person holding two employments at the company appears twice,
// once per edge.
func (s *CompanyService) GetEmployees(ctx context.Context, companyID int64) ([]models.EmploymentRow, error) {
	ctx, span := tracing.StartSpan(ctx, "graph.CompanyService.GetEmployees")
	defer span.End()

	cypher := `
		MATCH (company:Company {company_id: $company_id})
		MATCH (company)<-[e:EMPLOYED_AT]-(person:Person)
		RETURN person.person_id AS person_id, e.employment_title AS employment_title
	`

	result, err := s.client.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, cypher, map[string]any{"company_id": companyID})
		if err != nil {
			return nil, err
		}

		rows := make([]models.EmploymentRow, 0)
		for result.Next(ctx) {
			record := result.Record()
			personID, _ := record.Get("person_id")
			title, _ := record.Get("employment_title")

			row := models.EmploymentRow{PersonID: personID.(int64)}
			if t, ok := title.(string); ok {
				row.EmploymentTitle = t
			}
			rows = append(rows, row)
		}
		return rows, nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to get employees: %w", err)
	}
	return result.([]models.EmploymentRow), nil
}

// GetAcquiredCompanies returns the direct (one hop) acquisitions of a company.
func (s *CompanyService) GetAcquiredCompanies(ctx context.Context, companyID int64) ([]models.Company, error) {
	ctx, span := tracing.StartSpan(ctx, "graph.CompanyService.GetAcquiredCompanies")
	defer span.End()

	cypher := `
		MATCH (parent:Company {company_id: $company_id})
		MATCH (parent)-[:ACQUIRED]->(acquired:Company)
		RETURN acquired
	`

	return s.collectCompanies(ctx, cypher, map[string]any{"company_id": companyID}, "acquired")
}

// GetAllDescendantCompanies returns the transitive closure over outgoing
// ACQUIRED edges, one or more hops, de-duplicated. DISTINCT keeps the result
// finite even if the acquisition graph ever contains a cycle.
func (s *CompanyService) GetAllDescendantCompanies(ctx context.Context, companyID int64) ([]models.Company, error) {
	ctx, span := tracing.StartSpan(ctx, "graph.CompanyService.GetAllDescendantCompanies")
	defer span.End()

	cypher := `
		MATCH (parent:Company {company_id: $company_id})
		MATCH (parent)-[:ACQUIRED*1..]->(acquired:Company)
		RETURN DISTINCT acquired
	`

	return s.collectCompanies(ctx, cypher, map[string]any{"company_id": companyID}, "acquired")
}

// GetParentCompany returns the direct predecessor over ACQUIRED edges, or nil
// when the company has no parent. A tree shape is assumed but not enforced:
// with multiple incoming edges the first row wins, arbitrarily.
func (s *CompanyService) GetParentCompany(ctx context.Context, companyID int64) (*models.Company, error) {
	ctx, span := tracing.StartSpan(ctx, "graph.CompanyService.GetParentCompany")
	defer span.End()

	cypher := `
		MATCH (child:Company {company_id: $company_id})
		MATCH (child)<-[:ACQUIRED]-(parent:Company)
		RETURN parent
		LIMIT 1
	`

	result, err := s.client.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, cypher, map[string]any{"company_id": companyID})
		if err != nil {
			return nil, err
		}
		if !result.Next(ctx) {
			return nil, nil
		}
		node, _ := result.Record().Get("parent")
		company := companyFromProps(node.(neo4j.Node).Props)
		return &company, nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to get parent company: %w", err)
	}
	if result == nil {
		return nil, nil
	}
	return result.(*models.Company), nil
}

// GetAllAncestorCompanies returns the transitive closure over incoming
// ACQUIRED edges, one or more hops, de-duplicated.
func (s *CompanyService) GetAllAncestorCompanies(ctx context.Context, companyID int64) ([]models.Company, error) {
	ctx, span := tracing.StartSpan(ctx, "graph.CompanyService.GetAllAncestorCompanies")
	defer span.End()

	cypher := `
		MATCH (child:Company {company_id: $company_id})
		MATCH (child)<-[:ACQUIRED*1..]-(ancestor:Company)
		RETURN DISTINCT ancestor
	`

	return s.collectCompanies(ctx, cypher, map[string]any{"company_id": companyID}, "ancestor")
}

func (s *CompanyService) collectCompanies(ctx context.Context, cypher string, params map[string]any, key string) ([]models.Company, error) {
	result, err := s.client.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, cypher, params)
		if err != nil {
			return nil, err
		}

		companies := make([]models.Company, 0)
		for result.Next(ctx) {
			node, _ := result.Record().Get(key)
			companies = append(companies, companyFromProps(node.(neo4j.Node).Props))
		}
		return companies, nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to query companies: %w", err)
	}
	return result.([]models.Company), nil
}

// companyBatch builds the UNWIND parameter list for a company batch.
func companyBatch(records []models.CompanyRecord) []map[string]any {
	batch := make([]map[string]any, len(records))
	for i, r := range records {
		batch[i] = map[string]any{
			"company_id":   r.CompanyID,
			"company_name": r.CompanyName,
			"headcount":    r.Headcount,
		}
	}
	return batch
}

// companyFromProps maps node properties onto a Company.
func companyFromProps(props map[string]any) models.Company {
	company := models.Company{}
	if v, ok := props["company_id"].(int64); ok {
		company.CompanyID = v
	}
	if v, ok := props["company_name"].(string); ok {
		company.CompanyName = v
	}
	if v, ok := props["headcount"].(int64); ok {
		company.Headcount = v
	}
	return company
}
