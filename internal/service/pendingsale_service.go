// internal/service/pendingsale_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"realty-sales/internal/cache"
	"realty-sales/internal/domain"
	"realty-sales/internal/repository"
	"realty-sales/internal/util"
	"realty-sales/pkg/db"

	"github.com/shopspring/decimal"
)

// PendingSaleService defines the interface for the pending-sale approval
// workflow.
type PendingSaleService interface {
	// Create files a reservation: header in the initial status plus one zeroed
	// detail row per catalog slot, all in one transaction.
	Create(ctx context.Context, actorID int64, in domain.SaleInput) (*domain.PendingSaleWithDetails, error)
	// SubmitUnitManagerAssignments applies the unit manager's slot assignments
	// and advances the sale to the sales-director stage. All-or-nothing.
	SubmitUnitManagerAssignments(ctx context.Context, actorID, pendingSaleID int64, assignments []domain.SlotAssignment) ([]domain.PendingSaleDetail, error)
	// SubmitSalesDirectorApproval applies the sales director's adjustments (the
	// batch may be empty to approve the split as-is) and finalizes the sale.
	SubmitSalesDirectorApproval(ctx context.Context, actorID, pendingSaleID int64, assignments []domain.SlotAssignment) ([]domain.PendingSaleDetail, error)
	// Reject moves an in-flight sale to the rejected status with remarks.
	Reject(ctx context.Context, actorID int64, role domain.ActorRole, pendingSaleID int64, remarks string) error
	// GetByID returns a header joined with its detail rows in slot order.
	GetByID(ctx context.Context, pendingSaleID int64) (*domain.PendingSaleWithDetails, error)
	// ListByDivision returns a page of in-flight pending sales for a division.
	ListByDivision(ctx context.Context, divisionID int64, filter domain.PendingSaleFilter, limit, offset int) ([]domain.PendingSale, int64, error)
	// GetAgent returns an agent snapshot from the directory.
	GetAgent(ctx context.Context, agentID int64) (*domain.Agent, error)
}

// pendingSaleService implements the PendingSaleService interface.
type pendingSaleService struct {
	dbBeginner      db.DBTxBeginner       // For starting transactions (e.g., *sqlx.DB)
	dbExecutor      repository.DBExecutor // For non-transactional reads (e.g., *sqlx.DB)
	pendingSaleRepo repository.PendingSaleRepository
	agentRepo       repository.AgentRepository
	saleCache       *cache.PendingSaleCache // nil disables caching
	beginTx         db.BeginTxFunc
	commitTx        db.CommitTxFunc
	rollbackTx      db.RollbackTxFunc
}

// NewPendingSaleService creates a new instance of PendingSaleService.
func NewPendingSaleService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	pendingSaleRepo repository.PendingSaleRepository,
	agentRepo repository.AgentRepository,
	saleCache *cache.PendingSaleCache,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
) PendingSaleService {
	return &pendingSaleService{
		dbBeginner:      dbBeginner,
		dbExecutor:      dbExecutor,
		pendingSaleRepo: pendingSaleRepo,
		agentRepo:       agentRepo,
		saleCache:       saleCache,
		beginTx:         beginTx,
		commitTx:        commitTx,
		rollbackTx:      rollbackTx,
	}
}

func validateSaleInput(in domain.SaleInput) error {
	if in.DivisionID <= 0 {
		return util.ErrInvalidInput
	}
	if in.ReservationDate.IsZero() {
		return util.ErrInvalidInput
	}
	if in.BuyerName == "" || in.Project == "" {
		return util.ErrInvalidInput
	}
	if in.NetTotalContractPrice.LessThanOrEqual(decimal.Zero) {
		return util.ErrInvalidInput
	}
	return nil
}

// Create files a reservation wholly within one transaction: a free
// transaction code is allocated, the header is inserted in the initial
// status, and the zeroed detail rows follow. Any failure rolls everything
// back so a header never exists without its full slot set.
func (s *pendingSaleService) Create(ctx context.Context, actorID int64, in domain.SaleInput) (*domain.PendingSaleWithDetails, error) {
	if err := validateSaleInput(in); err != nil {
		return nil, err
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("create pending sale: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("create pending sale: transaction controller does not implement DBExecutor")
	}

	codeGen := NewTransactionCodeGenerator(func(ctx context.Context, code string) (bool, error) {
		return s.pendingSaleRepo.TransactionCodeExists(ctx, txExecutor, code)
	})
	code, err := codeGen.Generate(ctx)
	if err != nil {
		return nil, fmt.Errorf("create pending sale: failed to allocate transaction code: %w", err)
	}

	sale := domain.NewPendingSale(code, actorID, in)
	if err := s.pendingSaleRepo.CreatePendingSale(ctx, txExecutor, sale); err != nil {
		return nil, fmt.Errorf("create pending sale: failed to insert header: %w", err)
	}

	details := domain.NewPendingSaleDetails(code)
	if err := s.pendingSaleRepo.CreateDetails(ctx, txExecutor, details); err != nil {
		return nil, fmt.Errorf("create pending sale: failed to insert detail rows: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("create pending sale: failed to commit transaction: %w", err)
	}

	return &domain.PendingSaleWithDetails{PendingSale: *sale, Details: details}, nil
}

// SubmitUnitManagerAssignments applies the unit manager's slot assignments.
// The batch must be non-empty; every referenced agent must resolve.
func (s *pendingSaleService) SubmitUnitManagerAssignments(ctx context.Context, actorID, pendingSaleID int64, assignments []domain.SlotAssignment) ([]domain.PendingSaleDetail, error) {
	if len(assignments) == 0 {
		return nil, util.ErrEmptyBatch
	}
	return s.applyAssignments(ctx, actorID, domain.RoleUnitManager, pendingSaleID, assignments)
}

// SubmitSalesDirectorApproval applies the sales director's adjustments. An
// empty batch approves the commission split as the unit manager left it.
func (s *pendingSaleService) SubmitSalesDirectorApproval(ctx context.Context, actorID, pendingSaleID int64, assignments []domain.SlotAssignment) ([]domain.PendingSaleDetail, error) {
	return s.applyAssignments(ctx, actorID, domain.RoleSalesDirector, pendingSaleID, assignments)
}

// applyAssignments is the shared shape of every approval step: resolve the
// referenced agents, overwrite the referenced detail rows, and advance the
// header status, all in one transaction. Any failure leaves nothing applied.
func (s *pendingSaleService) applyAssignments(ctx context.Context, actorID int64, role domain.ActorRole, pendingSaleID int64, assignments []domain.SlotAssignment) ([]domain.PendingSaleDetail, error) {
	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("apply assignments: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("apply assignments: transaction controller does not implement DBExecutor")
	}

	sale, err := s.pendingSaleRepo.GetPendingSaleByID(ctx, txExecutor, pendingSaleID)
	if err != nil {
		return nil, fmt.Errorf("apply assignments: failed to get pending sale %d: %w", pendingSaleID, err)
	}

	next, ok := domain.NextStatus(sale.ApprovalStatus, role)
	if !ok {
		return nil, util.ErrInvalidTransition
	}

	if len(assignments) > 0 {
		agents, err := s.resolveAgents(ctx, txExecutor, assignments)
		if err != nil {
			return nil, err
		}

		details, err := s.pendingSaleRepo.GetDetailsByTransactionCode(ctx, txExecutor, sale.TransactionCode)
		if err != nil {
			return nil, fmt.Errorf("apply assignments: failed to get details for %s: %w", sale.TransactionCode, err)
		}
		byID := make(map[int64]domain.PendingSaleDetail, len(details))
		for _, d := range details {
			byID[d.ID] = d
		}

		for _, a := range assignments {
			detail, ok := byID[a.DetailID]
			if !ok {
				return nil, util.ErrInvalidInput
			}
			agent := agents[a.AgentID]

			detail.AgentID = agent.ID
			detail.AgentName = agent.DisplayName()
			detail.CommissionRate = a.CommissionRate
			detail.WTaxRate = a.WTaxRate
			detail.VATRate = a.VATRate
			detail.Commission = sale.NetTotalContractPrice.Mul(a.CommissionRate)

			if err := s.pendingSaleRepo.UpdateDetailAssignment(ctx, txExecutor, &detail); err != nil {
				return nil, fmt.Errorf("apply assignments: failed to update detail %d: %w", detail.ID, err)
			}
		}
	}

	// Status-conditioned update: a concurrent approver who advanced the sale
	// first makes this a stale transition, surfaced as ErrInvalidTransition.
	if err := s.pendingSaleRepo.AdvanceStatus(ctx, txExecutor, sale.ID, sale.ApprovalStatus, next, actorID, "", time.Now().UTC()); err != nil {
		return nil, err
	}

	updated, err := s.pendingSaleRepo.GetDetailsByTransactionCode(ctx, txExecutor, sale.TransactionCode)
	if err != nil {
		return nil, fmt.Errorf("apply assignments: failed to re-fetch details for %s: %w", sale.TransactionCode, err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("apply assignments: failed to commit transaction: %w", err)
	}

	s.saleCache.Invalidate(ctx, sale.ID)
	return updated, nil
}

// resolveAgents batch-resolves every agent referenced by the assignments and
// fails with the complete set of missing IDs when any are unknown.
func (s *pendingSaleService) resolveAgents(ctx context.Context, q repository.DBExecutor, assignments []domain.SlotAssignment) (map[int64]domain.Agent, error) {
	seen := make(map[int64]struct{}, len(assignments))
	ids := make([]int64, 0, len(assignments))
	for _, a := range assignments {
		if _, dup := seen[a.AgentID]; dup {
			continue
		}
		seen[a.AgentID] = struct{}{}
		ids = append(ids, a.AgentID)
	}

	agents, err := s.agentRepo.GetAgentsByIDs(ctx, q, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve agents: %w", err)
	}

	missing := make([]int64, 0)
	for _, id := range ids {
		if _, ok := agents[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return nil, util.NewAgentsNotFoundError(missing)
	}
	return agents, nil
}

// Reject moves an in-flight sale to the rejected status with remarks.
// Rejection makes no detail writes.
func (s *pendingSaleService) Reject(ctx context.Context, actorID int64, role domain.ActorRole, pendingSaleID int64, remarks string) error {
	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return fmt.Errorf("reject: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return fmt.Errorf("reject: transaction controller does not implement DBExecutor")
	}

	sale, err := s.pendingSaleRepo.GetPendingSaleByID(ctx, txExecutor, pendingSaleID)
	if err != nil {
		return fmt.Errorf("reject: failed to get pending sale %d: %w", pendingSaleID, err)
	}

	if !domain.CanReject(sale.ApprovalStatus, role) {
		return util.ErrInvalidTransition
	}

	if err := s.pendingSaleRepo.AdvanceStatus(ctx, txExecutor, sale.ID, sale.ApprovalStatus, domain.StatusRejected, actorID, remarks, time.Now().UTC()); err != nil {
		return err
	}

	if err := s.commitTx(txController); err != nil {
		return fmt.Errorf("reject: failed to commit transaction: %w", err)
	}

	s.saleCache.Invalidate(ctx, sale.ID)
	return nil
}

// GetByID returns a header joined with its detail rows in slot order,
// serving from the cache when it can.
func (s *pendingSaleService) GetByID(ctx context.Context, pendingSaleID int64) (*domain.PendingSaleWithDetails, error) {
	if cached, hit := s.saleCache.Get(ctx, pendingSaleID); hit {
		return cached, nil
	}

	sale, err := s.pendingSaleRepo.GetPendingSaleByID(ctx, s.dbExecutor, pendingSaleID)
	if err != nil {
		return nil, fmt.Errorf("get pending sale: failed to get %d: %w", pendingSaleID, err)
	}

	details, err := s.pendingSaleRepo.GetDetailsByTransactionCode(ctx, s.dbExecutor, sale.TransactionCode)
	if err != nil {
		return nil, fmt.Errorf("get pending sale: failed to get details for %s: %w", sale.TransactionCode, err)
	}

	result := &domain.PendingSaleWithDetails{PendingSale: *sale, Details: details}
	s.saleCache.Set(ctx, result)
	return result, nil
}

// ListByDivision returns a page of in-flight pending sales for a division.
func (s *pendingSaleService) ListByDivision(ctx context.Context, divisionID int64, filter domain.PendingSaleFilter, limit, offset int) ([]domain.PendingSale, int64, error) {
	if divisionID <= 0 {
		return nil, 0, util.ErrInvalidInput
	}

	sales, totalCount, err := s.pendingSaleRepo.ListByDivision(ctx, s.dbExecutor, divisionID, filter, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list pending sales: %w", err)
	}
	return sales, totalCount, nil
}

// GetAgent returns an agent snapshot from the directory.
func (s *pendingSaleService) GetAgent(ctx context.Context, agentID int64) (*domain.Agent, error) {
	agent, err := s.agentRepo.GetAgentByID(ctx, s.dbExecutor, agentID)
	if err != nil {
		return nil, fmt.Errorf("get agent: failed to get %d: %w", agentID, err)
	}
	return agent, nil
}
