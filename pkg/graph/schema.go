package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Uniqueness of company_id and company_name is a business invariant enforced
// by the store at write time, not just an index.
var constraintStatements = []string{
	`CREATE CONSTRAINT company_id_unique IF NOT EXISTS FOR (c:Company) REQUIRE c.company_id IS UNIQUE`,
	`CREATE CONSTRAINT company_name_unique IF NOT EXISTS FOR (c:Company) REQUIRE c.company_name IS UNIQUE`,
}

// EnsureConstraints creates the uniqueness constraints the write path relies
// on. Idempotent; run at startup. Schema statements must run in auto-commit
// transactions, so this bypasses the managed transaction helpers.
func (c *Client) EnsureConstraints(ctx context.Context) error {
	session := c.Session(ctx, neo4j.AccessModeWrite)
	defer func() { _ = session.Close(ctx) }()

	for _, stmt := range constraintStatements {
		result, err := session.Run(ctx, stmt, nil)
		if err != nil {
			return fmt.Errorf("failed to ensure graph constraints: %w", err)
		}
		if _, err := result.Consume(ctx); err != nil {
			return fmt.Errorf("failed to ensure graph constraints: %w", err)
		}
	}

	c.logger.WithContext(ctx).Debug("Graph constraints ensured")
	return nil
}
