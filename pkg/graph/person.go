package graph

import (
	"context"
	"fmt"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/fern/pkg/tracing"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/Ramsey-B/fern/pkg/models"
)

// PersonService handles person nodes and the employment queries keyed by
// company sets.
type PersonService struct {
	client *Client
	logger ectologger.Logger
}

// NewPersonService creates a new person service
func NewPersonService(client *Client, logger ectologger.Logger) *PersonService {
	return &PersonService{
		client: client,
		logger: logger,
	}
}

// BulkCreate creates one Person node per distinct person_id in the batch.
// The input is employment-shaped (one record per employment fact); the batch
// is reduced to the distinct id set first. person_id carries no storage
// uniqueness constraint, so a person repeated across batches gets duplicate
// nodes; the returned distinct count makes that visible to callers.
func (s *PersonService) BulkCreate(ctx context.Context, records []models.EmploymentRecord) (int, error) {
	ctx, span := tracing.StartSpan(ctx, "graph.PersonService.BulkCreate")
	defer span.End()

	if len(records) == 0 {
		return 0, nil
	}

	if err := models.ValidateBatch(records); err != nil {
		return 0, err
	}

	ids := models.DistinctPersonIDs(records)

	log := s.logger.WithContext(ctx).WithFields(map[string]any{
		"batch_size":      len(records),
		"distinct_people": len(ids),
	})

	cypher := `
		UNWIND $batch AS person_id
		CREATE (p:Person {person_id: person_id})
	`

	_, err := s.client.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, cypher, map[string]any{"batch": ids})
		if err != nil {
			return nil, err
		}
		return result.Consume(ctx)
	})

	if err != nil {
		log.WithError(err).Error("Failed to bulk create people")
		return 0, fmt.Errorf("failed to bulk create people: %w", err)
	}

	log.Info("People created")
	return len(ids), nil
}

// List returns every person node.
func (s *PersonService) List(ctx context.Context) ([]models.Person, error) {
	ctx, span := tracing.StartSpan(ctx, "graph.PersonService.List")
	defer span.End()

	cypher := `
		MATCH (p:Person)
		RETURN p.person_id AS person_id
	`

	result, err := s.client.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, cypher, nil)
		if err != nil {
			return nil, err
		}

		people := make([]models.Person, 0)
		for result.Next(ctx) {
			id, _ := result.Record().Get("person_id")
			people = append(people, models.Person{PersonID: id.(int64)})
		}
		return people, nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to list people: %w", err)
	}
	return result.([]models.Person), nil
}

// The three employee queries below are three distinct predicates over
// end_date nullity, not compositions of one another: "all" is the unfiltered
// union, "current" matches null end_date, "past" matches non-null.

// GetEmployeesInCompanies returns every employment fact at the given
// companies, current and past.
func (s *PersonService) GetEmployeesInCompanies(ctx context.Context, companyIDs []int64) ([]models.EmploymentRow, error) {
	ctx, span := tracing.StartSpan(ctx, "graph.PersonService.GetEmployeesInCompanies")
	defer span.End()

	cypher := `
		MATCH (p:Person)-[e:EMPLOYED_AT]->(c:Company)
		WHERE c.company_id IN $company_ids
		RETURN p.person_id AS person_id, c.company_name AS company_name,
		       e.employment_title AS employment_title, e.start_date AS start_date, e.end_date AS end_date
	`

	return s.collectEmployments(ctx, cypher, companyIDs)
}

// GetCurrentEmployeesInCompanies returns employment facts with no end date.
func (s *PersonService) GetCurrentEmployeesInCompanies(ctx context.Context, companyIDs []int64) ([]models.EmploymentRow, error) {
	ctx, span := tracing.StartSpan(ctx, "graph.PersonService.GetCurrentEmployeesInCompanies")
	defer span.End()

	cypher := `
		MATCH (p:Person)-[e:EMPLOYED_AT]->(c:Company)
		WHERE c.company_id IN $company_ids AND e.end_date IS NULL
		RETURN p.person_id AS person_id, c.company_name AS company_name,
		       e.employment_title AS employment_title, e.start_date AS start_date, e.end_date AS end_date
	`

	return s.collectEmployments(ctx, cypher, companyIDs)
}

// GetPastEmployeesInCompanies returns employment facts with an end date.
func (s *PersonService) GetPastEmployeesInCompanies(ctx context.Context, companyIDs []int64) ([]models.EmploymentRow, error) {
	ctx, span := tracing.StartSpan(ctx, "graph.PersonService.GetPastEmployeesInCompanies")
	defer span.End()

	cypher := `
		MATCH (p:Person)-[e:EMPLOYED_AT]->(c:Company)
		WHERE c.company_id IN $company_ids AND e.end_date IS NOT NULL
		RETURN p.person_id AS person_id, c.company_name AS company_name,
		       e.employment_title AS employment_title, e.start_date AS start_date, e.end_date AS end_date
	`

	return s.collectEmployments(ctx, cypher, companyIDs)
}

func (s *PersonService) collectEmployments(ctx context.Context, cypher string, companyIDs []int64) ([]models.EmploymentRow, error) {
	result, err := s.client.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, cypher, map[string]any{"company_ids": companyIDs})
		if err != nil {
			return nil, err
		}

		rows := make([]models.EmploymentRow, 0)
		for result.Next(ctx) {
			rows = append(rows, employmentRowFromRecord(result.Record()))
		}
		return rows, nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to query employments: %w", err)
	}
	return result.([]models.EmploymentRow), nil
}

// employmentRowFromRecord maps a query record onto an EmploymentRow. end_date
// stays nil when the edge has no end date (current employment).
func employmentRowFromRecord(record *neo4j.Record) models.EmploymentRow {
	row := models.EmploymentRow{}
	if v, ok := record.Get("person_id"); ok {
		if id, ok := v.(int64); ok {
			row.PersonID = id
		}
	}
	if v, ok := record.Get("company_name"); ok {
		if name, ok := v.(string); ok {
			row.CompanyName = name
		}
	}
	if v, ok := record.Get("employment_title"); ok {
		if title, ok := v.(string); ok {
			row.EmploymentTitle = title
		}
	}
	if v, ok := record.Get("start_date"); ok {
		if ts, ok := v.(int64); ok {
			row.StartDate = ts
		}
	}
	if v, ok := record.Get("end_date"); ok {
		if ts, ok := v.(int64); ok {
			end := ts
			row.EndDate = &end
		}
	}
	return row
}
