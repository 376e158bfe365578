// internal/domain/status.go
package domain

// ApprovalStatus is the numeric state code driving the pending-sale approval
// state machine. The human-readable sales status label is derived from it and
// is never stored independently, so the code/label pair cannot diverge.
type ApprovalStatus int

const (
	StatusRejected             ApprovalStatus = 0
	StatusPendingUnitManager   ApprovalStatus = 1
	StatusPendingSalesDirector ApprovalStatus = 2
	StatusApproved             ApprovalStatus = 3
)

// SalesStatusArchived marks pending sales that were archived out of the
// active queue without going through rejection. Archived rows keep their
// last approval status; listings exclude them by label.
const SalesStatusArchived = "ARCHIVED"

var statusLabels = map[ApprovalStatus]string{
	StatusRejected:             "REJECTED",
	StatusPendingUnitManager:   "PENDING APPROVAL - UNIT MANAGER",
	StatusPendingSalesDirector: "PENDING APPROVAL - SALES DIRECTOR",
	StatusApproved:             "APPROVED",
}

// Label returns the sales status label mirroring the approval status.
func (s ApprovalStatus) Label() string {
	return statusLabels[s]
}

// IsTerminal reports whether the status is a terminal state from which no
// further transitions are allowed.
func (s ApprovalStatus) IsTerminal() bool {
	return s == StatusRejected || s == StatusApproved
}

// ActorRole identifies the approver role attempting a workflow transition.
// Roles are passed explicitly into every workflow call; the engine validates
// (role, current-status) pairs rather than trusting ambient request context.
type ActorRole string

const (
	RoleUnitManager   ActorRole = "UNIT_MANAGER"
	RoleSalesDirector ActorRole = "SALES_DIRECTOR"
)

// allowedTransitions maps the current status to the single legal next edge
// per actor role. Terminal statuses have no entries.
var allowedTransitions = map[ApprovalStatus]map[ActorRole]ApprovalStatus{
	StatusPendingUnitManager: {
		RoleUnitManager: StatusPendingSalesDirector,
	},
	StatusPendingSalesDirector: {
		RoleSalesDirector: StatusApproved,
	},
}

// NextStatus returns the status a role's approval advances the sale to from
// the given status, or false when no legal edge exists.
func NextStatus(from ApprovalStatus, role ActorRole) (ApprovalStatus, bool) {
	next, ok := allowedTransitions[from][role]
	return next, ok
}

// CanTransition reports whether the given role may move a sale from one
// status to another.
func CanTransition(from, to ApprovalStatus, role ActorRole) bool {
	if to == StatusRejected {
		return CanReject(from, role)
	}
	next, ok := allowedTransitions[from][role]
	return ok && next == to
}

// CanReject reports whether the given role may reject a sale in the given
// status. Rejection is allowed to whichever role the sale is currently
// waiting on; terminal statuses cannot be rejected again.
func CanReject(from ApprovalStatus, role ActorRole) bool {
	switch from {
	case StatusPendingUnitManager:
		return role == RoleUnitManager
	case StatusPendingSalesDirector:
		return role == RoleSalesDirector
	default:
		return false
	}
}
