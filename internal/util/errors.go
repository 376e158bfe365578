// internal/util/errors.go
package util

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Common application-specific errors.
var (
	ErrNotFound            = errors.New("resource not found")
	ErrInvalidInput        = errors.New("invalid input provided")
	ErrPendingSaleNotFound = errors.New("pending sale not found")
	ErrAgentNotFound       = errors.New("agent not found")
	ErrEmptyBatch          = errors.New("no slot assignments supplied")
	ErrInvalidTransition   = errors.New("approval transition not allowed from current status")
	ErrCodeExhausted       = errors.New("transaction code generation exceeded retry budget")
)

// AgentsNotFoundError reports the full set of agent IDs referenced by an
// assignment batch that do not resolve to agent records. It unwraps to
// ErrAgentNotFound so callers can match it with errors.Is.
type AgentsNotFoundError struct {
	IDs []int64
}

func (e *AgentsNotFoundError) Error() string {
	ids := make([]string, len(e.IDs))
	for i, id := range e.IDs {
		ids[i] = fmt.Sprintf("%d", id)
	}
	return "agents not found: " + strings.Join(ids, ", ")
}

func (e *AgentsNotFoundError) Unwrap() error {
	return ErrAgentNotFound
}

// NewAgentsNotFoundError builds an AgentsNotFoundError with a stable id order.
func NewAgentsNotFoundError(ids []int64) *AgentsNotFoundError {
	sorted := make([]int64, len(ids))
	copy(sorted, ids)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	return &AgentsNotFoundError{IDs: sorted}
}

// IsError reports whether err matches the target sentinel error.
func IsError(err, target error) bool {
	return errors.Is(err, target)
}
