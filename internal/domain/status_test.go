// internal/domain/status_test.go
package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Every reachable status must map to its one canonical label; the label is
// derived, never stored independently.
func TestStatusLabels(t *testing.T) {
	assert.Equal(t, "REJECTED", StatusRejected.Label())
	assert.Equal(t, "PENDING APPROVAL - UNIT MANAGER", StatusPendingUnitManager.Label())
	assert.Equal(t, "PENDING APPROVAL - SALES DIRECTOR", StatusPendingSalesDirector.Label())
	assert.Equal(t, "APPROVED", StatusApproved.Label())
}

func TestStatusTerminal(t *testing.T) {
	assert.True(t, StatusRejected.IsTerminal())
	assert.True(t, StatusApproved.IsTerminal())
	assert.False(t, StatusPendingUnitManager.IsTerminal())
	assert.False(t, StatusPendingSalesDirector.IsTerminal())
}

func TestNextStatus(t *testing.T) {
	next, ok := NextStatus(StatusPendingUnitManager, RoleUnitManager)
	assert.True(t, ok)
	assert.Equal(t, StatusPendingSalesDirector, next)

	next, ok = NextStatus(StatusPendingSalesDirector, RoleSalesDirector)
	assert.True(t, ok)
	assert.Equal(t, StatusApproved, next)

	// A role cannot act on a sale waiting on a different role.
	_, ok = NextStatus(StatusPendingUnitManager, RoleSalesDirector)
	assert.False(t, ok)
	_, ok = NextStatus(StatusPendingSalesDirector, RoleUnitManager)
	assert.False(t, ok)

	// Terminal statuses have no outgoing edges.
	_, ok = NextStatus(StatusRejected, RoleUnitManager)
	assert.False(t, ok)
	_, ok = NextStatus(StatusApproved, RoleSalesDirector)
	assert.False(t, ok)
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(StatusPendingUnitManager, StatusPendingSalesDirector, RoleUnitManager))
	assert.True(t, CanTransition(StatusPendingSalesDirector, StatusApproved, RoleSalesDirector))

	// Skipping a stage is never legal.
	assert.False(t, CanTransition(StatusPendingUnitManager, StatusApproved, RoleUnitManager))
	assert.False(t, CanTransition(StatusPendingUnitManager, StatusApproved, RoleSalesDirector))

	// Rejection edges.
	assert.True(t, CanTransition(StatusPendingUnitManager, StatusRejected, RoleUnitManager))
	assert.True(t, CanTransition(StatusPendingSalesDirector, StatusRejected, RoleSalesDirector))
	assert.False(t, CanTransition(StatusPendingUnitManager, StatusRejected, RoleSalesDirector))
	assert.False(t, CanTransition(StatusApproved, StatusRejected, RoleSalesDirector))
	assert.False(t, CanTransition(StatusRejected, StatusRejected, RoleUnitManager))
}

func TestCanReject(t *testing.T) {
	assert.True(t, CanReject(StatusPendingUnitManager, RoleUnitManager))
	assert.True(t, CanReject(StatusPendingSalesDirector, RoleSalesDirector))
	assert.False(t, CanReject(StatusPendingSalesDirector, RoleUnitManager))
	assert.False(t, CanReject(StatusApproved, RoleSalesDirector))
	assert.False(t, CanReject(StatusRejected, RoleUnitManager))
}
