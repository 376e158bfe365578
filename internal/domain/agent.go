// internal/domain/agent.go
package domain

import "strings"

// Agent is a read-only snapshot of an agent record, owned by the agent
// directory. The workflow reads it to stamp detail rows and never mutates it.
type Agent struct {
	ID         int64  `db:"agent_id" json:"agent_id"`
	FirstName  string `db:"first_name" json:"first_name"`
	LastName   string `db:"last_name" json:"last_name"`
	MiddleName string `db:"middle_name" json:"middle_name"`
}

// DisplayName formats the agent name the way it is stamped onto detail rows:
// "{LastName}, {FirstName} {MiddleName}", trimmed.
func (a Agent) DisplayName() string {
	return strings.TrimSpace(a.LastName + ", " + strings.TrimSpace(a.FirstName+" "+a.MiddleName))
}
