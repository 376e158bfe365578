// internal/repository/pendingsale_repo.go
package repository

import (
	"context"
	"time"

	"realty-sales/internal/domain"
)

// PendingSaleRepository defines the interface for pending-sale data operations.
// Mutating methods accept a DBExecutor so the service can span header and
// detail writes with a single transaction.
type PendingSaleRepository interface {
	// CreatePendingSale inserts a pending-sale header and sets its ID.
	CreatePendingSale(ctx context.Context, q DBExecutor, sale *domain.PendingSale) error
	// CreateDetails inserts the commission slot rows for a pending sale.
	CreateDetails(ctx context.Context, q DBExecutor, details []domain.PendingSaleDetail) error
	// TransactionCodeExists reports whether a transaction code is already taken.
	TransactionCodeExists(ctx context.Context, q DBExecutor, code string) (bool, error)
	// GetPendingSaleByID retrieves a pending-sale header by its ID.
	GetPendingSaleByID(ctx context.Context, q DBExecutor, id int64) (*domain.PendingSale, error)
	// GetDetailsByTransactionCode retrieves a sale's detail rows in catalog slot order.
	GetDetailsByTransactionCode(ctx context.Context, q DBExecutor, code string) ([]domain.PendingSaleDetail, error)
	// UpdateDetailAssignment overwrites a detail row's agent and rate fields.
	UpdateDetailAssignment(ctx context.Context, q DBExecutor, detail *domain.PendingSaleDetail) error
	// AdvanceStatus moves a header from the expected status to the next one,
	// stamping the actor and time. The update is conditioned on the expected
	// status; a stale expectation returns util.ErrInvalidTransition. The sales
	// status label is derived from the target status, never passed in.
	AdvanceStatus(ctx context.Context, q DBExecutor, id int64, expected, next domain.ApprovalStatus, actorID int64, remarks string, now time.Time) error
	// ListByDivision retrieves a filtered, paginated page of in-flight pending
	// sales for a division, excluding rejected, approved, and archived rows.
	ListByDivision(ctx context.Context, q DBExecutor, divisionID int64, filter domain.PendingSaleFilter, limit, offset int) ([]domain.PendingSale, int64, error)
}
