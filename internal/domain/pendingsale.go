// internal/domain/pendingsale.go
package domain

import (
	"time"

	"github.com/shopspring/decimal" // For precise monetary calculations
)

// PendingSale is the header of one in-flight sale transaction awaiting
// multi-role approval. The transaction code is unique and immutable once
// assigned; the approval status only moves through workflow transitions.
type PendingSale struct {
	ID              int64     `db:"pending_sale_id" json:"pending_sale_id"`
	TransactionCode string    `db:"transaction_code" json:"transaction_code"`
	ReservationDate time.Time `db:"reservation_date" json:"reservation_date"`
	DivisionID      int64     `db:"division_id" json:"division_id"`
	BranchID        int64     `db:"branch_id" json:"branch_id"`
	SectorID        int64     `db:"sector_id" json:"sector_id"`

	// Buyer
	BuyerName       string `db:"buyer_name" json:"buyer_name"`
	BuyerAddress    string `db:"buyer_address" json:"buyer_address"`
	BuyerPhone      string `db:"buyer_phone" json:"buyer_phone"`
	BuyerOccupation string `db:"buyer_occupation" json:"buyer_occupation"`

	// Property
	Project               string          `db:"project" json:"project"`
	BlockFloor            string          `db:"block_floor" json:"block_floor"`
	LotUnit               string          `db:"lot_unit" json:"lot_unit"`
	Phase                 string          `db:"phase" json:"phase"`
	LotArea               decimal.Decimal `db:"lot_area" json:"lot_area"`
	FloorArea             decimal.Decimal `db:"floor_area" json:"floor_area"`
	Developer             string          `db:"developer" json:"developer"`
	DeveloperCommBasis    decimal.Decimal `db:"developer_comm_basis" json:"developer_comm_basis"`
	NetTotalContractPrice decimal.Decimal `db:"net_total_contract_price" json:"net_total_contract_price"`
	MiscFee               decimal.Decimal `db:"misc_fee" json:"misc_fee"`
	FinancingScheme       string          `db:"financing_scheme" json:"financing_scheme"`

	// Payment
	DownpaymentAmount    decimal.Decimal `db:"downpayment_amount" json:"downpayment_amount"`
	DownpaymentTerms     int             `db:"downpayment_terms" json:"downpayment_terms"`
	MonthlyPayment       decimal.Decimal `db:"monthly_payment" json:"monthly_payment"`
	DownpaymentStartDate time.Time       `db:"downpayment_start_date" json:"downpayment_start_date"`
	SellerName           string          `db:"seller_name" json:"seller_name"`

	// Workflow
	ApprovalStatus ApprovalStatus `db:"approval_status" json:"approval_status"`
	SalesStatus    string         `db:"sales_status" json:"sales_status"`
	Remarks        string         `db:"remarks" json:"remarks"`
	CreatedBy      int64          `db:"created_by" json:"created_by"`
	LastUpdatedBy  int64          `db:"last_updated_by" json:"last_updated_by"`
	LastUpdate     time.Time      `db:"last_update" json:"last_update"`
}

// PendingSaleDetail is one commission slot row attached to a pending sale.
// All slots are born zeroed at header-creation time and mutated in place as
// approvers assign agents and rates. AgentID and AgentName are always written
// together.
type PendingSaleDetail struct {
	ID              int64           `db:"detail_id" json:"detail_id"`
	TransactionCode string          `db:"transaction_code" json:"transaction_code"`
	PositionID      int             `db:"position_id" json:"position_id"`
	PositionName    string          `db:"position_name" json:"position_name"`
	AgentID         int64           `db:"agent_id" json:"agent_id"`
	AgentName       string          `db:"agent_name" json:"agent_name"`
	CommissionRate  decimal.Decimal `db:"commission_rate" json:"commission_rate"`
	WTaxRate        decimal.Decimal `db:"wtax_rate" json:"wtax_rate"`
	VATRate         decimal.Decimal `db:"vat_rate" json:"vat_rate"`
	Commission      decimal.Decimal `db:"commission" json:"commission"`
}

// PendingSaleWithDetails joins a header with its detail rows in catalog slot
// order.
type PendingSaleWithDetails struct {
	PendingSale
	Details []PendingSaleDetail `json:"details"`
}

// SaleInput carries the business attributes supplied when filing a
// reservation. Workflow attributes (code, status, audit stamps) are assigned
// by the system.
type SaleInput struct {
	ReservationDate time.Time
	DivisionID      int64
	BranchID        int64
	SectorID        int64

	BuyerName       string
	BuyerAddress    string
	BuyerPhone      string
	BuyerOccupation string

	Project               string
	BlockFloor            string
	LotUnit               string
	Phase                 string
	LotArea               decimal.Decimal
	FloorArea             decimal.Decimal
	Developer             string
	DeveloperCommBasis    decimal.Decimal
	NetTotalContractPrice decimal.Decimal
	MiscFee               decimal.Decimal
	FinancingScheme       string

	DownpaymentAmount    decimal.Decimal
	DownpaymentTerms     int
	MonthlyPayment       decimal.Decimal
	DownpaymentStartDate time.Time
	SellerName           string
}

// SlotAssignment is one approver-supplied slot fill: which detail row, which
// agent, and the commission split rates for that slot.
type SlotAssignment struct {
	DetailID       int64           `json:"detail_id"`
	AgentID        int64           `json:"agent_id"`
	CommissionRate decimal.Decimal `json:"commission_rate"`
	WTaxRate       decimal.Decimal `json:"wtax_rate"`
	VATRate        decimal.Decimal `json:"vat_rate"`
}

// PendingSaleFilter narrows division listings. Month and Year of zero mean no
// date filtering; CreatedBy of nil means any filer.
type PendingSaleFilter struct {
	CreatedBy *int64
	Month     int
	Year      int
}

// NewPendingSale creates a pending-sale header in its initial workflow state.
func NewPendingSale(code string, filedBy int64, in SaleInput) *PendingSale {
	now := time.Now().UTC()
	return &PendingSale{
		TransactionCode: code,
		ReservationDate: in.ReservationDate,
		DivisionID:      in.DivisionID,
		BranchID:        in.BranchID,
		SectorID:        in.SectorID,

		BuyerName:       in.BuyerName,
		BuyerAddress:    in.BuyerAddress,
		BuyerPhone:      in.BuyerPhone,
		BuyerOccupation: in.BuyerOccupation,

		Project:               in.Project,
		BlockFloor:            in.BlockFloor,
		LotUnit:               in.LotUnit,
		Phase:                 in.Phase,
		LotArea:               in.LotArea,
		FloorArea:             in.FloorArea,
		Developer:             in.Developer,
		DeveloperCommBasis:    in.DeveloperCommBasis,
		NetTotalContractPrice: in.NetTotalContractPrice,
		MiscFee:               in.MiscFee,
		FinancingScheme:       in.FinancingScheme,

		DownpaymentAmount:    in.DownpaymentAmount,
		DownpaymentTerms:     in.DownpaymentTerms,
		MonthlyPayment:       in.MonthlyPayment,
		DownpaymentStartDate: in.DownpaymentStartDate,
		SellerName:           in.SellerName,

		ApprovalStatus: StatusPendingUnitManager,
		SalesStatus:    StatusPendingUnitManager.Label(),
		CreatedBy:      filedBy,
		LastUpdatedBy:  filedBy,
		LastUpdate:     now,
	}
}

// NewPendingSaleDetails creates the zeroed detail rows for a freshly filed
// pending sale, one per catalog slot in catalog order.
func NewPendingSaleDetails(code string) []PendingSaleDetail {
	details := make([]PendingSaleDetail, 0, len(SlotCatalog))
	for _, slot := range SlotCatalog {
		details = append(details, PendingSaleDetail{
			TransactionCode: code,
			PositionID:      slot.PositionID(),
			PositionName:    slot.PositionName(),
			AgentID:         0,
			AgentName:       "",
			CommissionRate:  decimal.Zero,
			WTaxRate:        decimal.Zero,
			VATRate:         decimal.Zero,
			Commission:      decimal.Zero,
		})
	}
	return details
}
