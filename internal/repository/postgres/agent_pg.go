// internal/repository/postgres/agent_pg.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"realty-sales/internal/domain"
	"realty-sales/internal/repository"
	"realty-sales/internal/util"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// AgentRepository implements repository.AgentRepository for PostgreSQL.
type AgentRepository struct {
	// No longer holds *sqlx.DB as methods receive DBExecutor directly
}

// NewAgentRepository creates a new AgentRepository.
func NewAgentRepository(db *sqlx.DB) repository.AgentRepository {
	return &AgentRepository{}
}

// GetAgentByID retrieves a single agent snapshot using the provided DBExecutor.
func (r *AgentRepository) GetAgentByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Agent, error) {
	var agent domain.Agent
	query := `SELECT agent_id, first_name, last_name, middle_name FROM agents WHERE agent_id = $1`
	err := q.GetContext(ctx, &agent, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrAgentNotFound
		}
		return nil, fmt.Errorf("failed to get agent by ID %d: %w", id, err)
	}
	return &agent, nil
}

// GetAgentsByIDs retrieves the requested agents in one batch lookup, keyed by
// agent ID. IDs without a record are absent from the result.
func (r *AgentRepository) GetAgentsByIDs(ctx context.Context, q repository.DBExecutor, ids []int64) (map[int64]domain.Agent, error) {
	result := make(map[int64]domain.Agent, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	agents := []domain.Agent{}
	query := `SELECT agent_id, first_name, last_name, middle_name FROM agents WHERE agent_id = ANY($1)`
	if err := q.SelectContext(ctx, &agents, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("failed to batch-get agents: %w", err)
	}

	for _, agent := range agents {
		result[agent.ID] = agent
	}
	return result, nil
}
