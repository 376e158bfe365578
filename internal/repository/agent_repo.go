// internal/repository/agent_repo.go
package repository

import (
	"context"

	"realty-sales/internal/domain"
)

// AgentRepository defines the read-only interface over the agent directory.
type AgentRepository interface {
	// GetAgentByID retrieves a single agent snapshot by ID.
	GetAgentByID(ctx context.Context, q DBExecutor, id int64) (*domain.Agent, error)
	// GetAgentsByIDs retrieves the requested agents in one batch lookup,
	// keyed by agent ID. IDs without a record are simply absent from the map.
	GetAgentsByIDs(ctx context.Context, q DBExecutor, ids []int64) (map[int64]domain.Agent, error)
}
