// internal/repository/postgres/pendingsale_pg.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"realty-sales/internal/domain"
	"realty-sales/internal/repository"
	"realty-sales/internal/util"

	"github.com/jmoiron/sqlx"
)

// PendingSaleRepository implements repository.PendingSaleRepository for PostgreSQL.
type PendingSaleRepository struct {
	// No longer holds *sqlx.DB as methods receive DBExecutor directly
}

// NewPendingSaleRepository creates a new PendingSaleRepository.
func NewPendingSaleRepository(db *sqlx.DB) repository.PendingSaleRepository {
	return &PendingSaleRepository{}
}

const pendingSaleColumns = `pending_sale_id, transaction_code, reservation_date, division_id, branch_id, sector_id,
	buyer_name, buyer_address, buyer_phone, buyer_occupation,
	project, block_floor, lot_unit, phase, lot_area, floor_area, developer, developer_comm_basis,
	net_total_contract_price, misc_fee, financing_scheme,
	downpayment_amount, downpayment_terms, monthly_payment, downpayment_start_date, seller_name,
	approval_status, sales_status, remarks, created_by, last_updated_by, last_update`

// CreatePendingSale inserts a new pending-sale header using the provided DBExecutor.
func (r *PendingSaleRepository) CreatePendingSale(ctx context.Context, q repository.DBExecutor, sale *domain.PendingSale) error {
	query := `INSERT INTO pending_sales (transaction_code, reservation_date, division_id, branch_id, sector_id,
				buyer_name, buyer_address, buyer_phone, buyer_occupation,
				project, block_floor, lot_unit, phase, lot_area, floor_area, developer, developer_comm_basis,
				net_total_contract_price, misc_fee, financing_scheme,
				downpayment_amount, downpayment_terms, monthly_payment, downpayment_start_date, seller_name,
				approval_status, sales_status, remarks, created_by, last_updated_by, last_update)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20,
				$21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31)
              RETURNING pending_sale_id`

	err := q.QueryRowContext(ctx, query,
		sale.TransactionCode,
		sale.ReservationDate,
		sale.DivisionID,
		sale.BranchID,
		sale.SectorID,
		sale.BuyerName,
		sale.BuyerAddress,
		sale.BuyerPhone,
		sale.BuyerOccupation,
		sale.Project,
		sale.BlockFloor,
		sale.LotUnit,
		sale.Phase,
		sale.LotArea,
		sale.FloorArea,
		sale.Developer,
		sale.DeveloperCommBasis,
		sale.NetTotalContractPrice,
		sale.MiscFee,
		sale.FinancingScheme,
		sale.DownpaymentAmount,
		sale.DownpaymentTerms,
		sale.MonthlyPayment,
		sale.DownpaymentStartDate,
		sale.SellerName,
		sale.ApprovalStatus,
		sale.SalesStatus,
		sale.Remarks,
		sale.CreatedBy,
		sale.LastUpdatedBy,
		sale.LastUpdate,
	).Scan(&sale.ID)

	if err != nil {
		return fmt.Errorf("failed to create pending sale: %w", err)
	}
	return nil
}

// CreateDetails inserts the commission slot rows for a pending sale using the provided DBExecutor.
func (r *PendingSaleRepository) CreateDetails(ctx context.Context, q repository.DBExecutor, details []domain.PendingSaleDetail) error {
	query := `INSERT INTO pending_sale_details (transaction_code, position_id, position_name, agent_id, agent_name,
				commission_rate, wtax_rate, vat_rate, commission)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING detail_id`

	for i := range details {
		d := &details[i]
		err := q.QueryRowContext(ctx, query,
			d.TransactionCode,
			d.PositionID,
			d.PositionName,
			d.AgentID,
			d.AgentName,
			d.CommissionRate,
			d.WTaxRate,
			d.VATRate,
			d.Commission,
		).Scan(&d.ID)
		if err != nil {
			return fmt.Errorf("failed to create detail row %q for %s: %w", d.PositionName, d.TransactionCode, err)
		}
	}
	return nil
}

// TransactionCodeExists reports whether a transaction code is already taken.
func (r *PendingSaleRepository) TransactionCodeExists(ctx context.Context, q repository.DBExecutor, code string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM pending_sales WHERE transaction_code = $1)`
	if err := q.GetContext(ctx, &exists, query, code); err != nil {
		return false, fmt.Errorf("failed to check transaction code %s: %w", code, err)
	}
	return exists, nil
}

// GetPendingSaleByID retrieves a pending-sale header by its ID using the provided DBExecutor.
func (r *PendingSaleRepository) GetPendingSaleByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.PendingSale, error) {
	var sale domain.PendingSale
	query := `SELECT ` + pendingSaleColumns + ` FROM pending_sales WHERE pending_sale_id = $1`
	err := q.GetContext(ctx, &sale, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrPendingSaleNotFound
		}
		return nil, fmt.Errorf("failed to get pending sale by ID %d: %w", id, err)
	}
	return &sale, nil
}

// GetDetailsByTransactionCode retrieves a sale's detail rows in catalog slot order.
func (r *PendingSaleRepository) GetDetailsByTransactionCode(ctx context.Context, q repository.DBExecutor, code string) ([]domain.PendingSaleDetail, error) {
	details := []domain.PendingSaleDetail{}
	query := `SELECT detail_id, transaction_code, position_id, position_name, agent_id, agent_name,
				commission_rate, wtax_rate, vat_rate, commission
              FROM pending_sale_details
              WHERE transaction_code = $1
              ORDER BY position_id ASC`
	if err := q.SelectContext(ctx, &details, query, code); err != nil {
		return nil, fmt.Errorf("failed to get details for %s: %w", code, err)
	}
	return details, nil
}

// UpdateDetailAssignment overwrites a detail row's agent and rate fields using the provided DBExecutor.
func (r *PendingSaleRepository) UpdateDetailAssignment(ctx context.Context, q repository.DBExecutor, detail *domain.PendingSaleDetail) error {
	query := `UPDATE pending_sale_details
              SET agent_id = $1, agent_name = $2, commission_rate = $3, wtax_rate = $4, vat_rate = $5, commission = $6
              WHERE detail_id = $7`
	result, err := q.ExecContext(ctx, query,
		detail.AgentID,
		detail.AgentName,
		detail.CommissionRate,
		detail.WTaxRate,
		detail.VATRate,
		detail.Commission,
		detail.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update detail %d: %w", detail.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected after updating detail %d: %w", detail.ID, err)
	}
	if rowsAffected == 0 {
		return util.ErrNotFound
	}
	return nil
}

// AdvanceStatus moves a header from the expected status to the next one.
// The update is conditioned on the expected status so a stale transition
// attempt (another approver got there first) fails instead of overwriting
// newer work. The sales status label is always derived from the target
// status, never written independently.
func (r *PendingSaleRepository) AdvanceStatus(ctx context.Context, q repository.DBExecutor, id int64, expected, next domain.ApprovalStatus, actorID int64, remarks string, now time.Time) error {
	query := `UPDATE pending_sales
              SET approval_status = $1, sales_status = $2, remarks = $3, last_updated_by = $4, last_update = $5
              WHERE pending_sale_id = $6 AND approval_status = $7`
	result, err := q.ExecContext(ctx, query, next, next.Label(), remarks, actorID, now, id, expected)
	if err != nil {
		return fmt.Errorf("failed to advance status for pending sale %d: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected advancing pending sale %d: %w", id, err)
	}
	if rowsAffected == 0 {
		return util.ErrInvalidTransition
	}
	return nil
}

// ListByDivision retrieves a filtered, paginated page of in-flight pending
// sales for a division. Rejected, approved, and archived rows never appear.
func (r *PendingSaleRepository) ListByDivision(ctx context.Context, q repository.DBExecutor, divisionID int64, filter domain.PendingSaleFilter, limit, offset int) ([]domain.PendingSale, int64, error) {
	where := ` FROM pending_sales
              WHERE division_id = $1
                AND approval_status NOT IN ($2, $3)
                AND sales_status <> $4`
	args := []interface{}{divisionID, domain.StatusRejected, domain.StatusApproved, domain.SalesStatusArchived}

	if filter.CreatedBy != nil {
		args = append(args, *filter.CreatedBy)
		where += fmt.Sprintf(" AND created_by = $%d", len(args))
	}
	if filter.Month != 0 && filter.Year != 0 {
		start := time.Date(filter.Year, time.Month(filter.Month), 1, 0, 0, 0, 0, time.UTC)
		end := start.AddDate(0, 1, 0)
		args = append(args, start)
		where += fmt.Sprintf(" AND reservation_date >= $%d", len(args))
		args = append(args, end)
		where += fmt.Sprintf(" AND reservation_date < $%d", len(args))
	}

	sales := []domain.PendingSale{}
	listArgs := append(append([]interface{}{}, args...), limit, offset)
	query := `SELECT ` + pendingSaleColumns + where +
		fmt.Sprintf(" ORDER BY last_update DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	if err := q.SelectContext(ctx, &sales, query, listArgs...); err != nil {
		return nil, 0, fmt.Errorf("failed to list pending sales for division %d: %w", divisionID, err)
	}

	var totalCount int64
	countQuery := `SELECT COUNT(*)` + where
	if err := q.GetContext(ctx, &totalCount, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count pending sales for division %d: %w", divisionID, err)
	}

	return sales, totalCount, nil
}
