// internal/api/handler/pendingsale.go
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"realty-sales/internal/api/middleware"
	"realty-sales/internal/api/types"
	"realty-sales/internal/domain"
	"realty-sales/internal/service"
	"realty-sales/internal/util" // For custom errors
)

// DefaultTimeout is the request timeout applied by the router.
const DefaultTimeout = 60 * time.Second

const dateLayout = "2006-01-02"

// PendingSaleHandler handles HTTP requests for the pending-sale workflow.
type PendingSaleHandler struct {
	service service.PendingSaleService
	logger  *slog.Logger
}

// NewPendingSaleHandler creates a new PendingSaleHandler.
func NewPendingSaleHandler(svc service.PendingSaleService, logger *slog.Logger) *PendingSaleHandler {
	return &PendingSaleHandler{
		service: svc,
		logger:  logger,
	}
}

// Helper function to send JSON responses.
func (h *PendingSaleHandler) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// Helper function to send error responses with a stable error code.
func (h *PendingSaleHandler) respondWithError(w http.ResponseWriter, err error) {
	statusCode := http.StatusInternalServerError
	payload := map[string]interface{}{
		"error_code": "STORE_ERROR",
		"error":      "Internal server error",
	}

	var agentsErr *util.AgentsNotFoundError
	switch {
	case errors.As(err, &agentsErr):
		statusCode = http.StatusUnprocessableEntity
		payload["error_code"] = "AGENTS_NOT_FOUND"
		payload["error"] = agentsErr.Error()
		payload["agent_ids"] = agentsErr.IDs
	case util.IsError(err, util.ErrEmptyBatch):
		statusCode = http.StatusBadRequest
		payload["error_code"] = "EMPTY_BATCH"
		payload["error"] = err.Error()
	case util.IsError(err, util.ErrInvalidInput):
		statusCode = http.StatusBadRequest
		payload["error_code"] = "VALIDATION_ERROR"
		payload["error"] = err.Error()
	case util.IsError(err, util.ErrInvalidTransition):
		statusCode = http.StatusConflict
		payload["error_code"] = "INVALID_TRANSITION"
		payload["error"] = "Approval transition not allowed from current status"
	case util.IsError(err, util.ErrNotFound), util.IsError(err, util.ErrPendingSaleNotFound), util.IsError(err, util.ErrAgentNotFound):
		statusCode = http.StatusNotFound
		payload["error_code"] = "NOT_FOUND"
		payload["error"] = "Resource not found"
	default:
		h.logger.Error("Unhandled service error", "error", err)
	}

	h.respondWithJSON(w, statusCode, payload)
}

func (h *PendingSaleHandler) actorFromRequest(w http.ResponseWriter, r *http.Request) (int64, bool) {
	actorID, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		h.respondWithJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing authenticated actor"})
		return 0, false
	}
	return actorID, true
}

// CreatePendingSaleRequest represents the request body for filing a reservation.
type CreatePendingSaleRequest struct {
	ReservationDate string `json:"reservation_date"`
	DivisionID      int64  `json:"division_id"`
	BranchID        int64  `json:"branch_id"`
	SectorID        int64  `json:"sector_id"`

	BuyerName       string `json:"buyer_name"`
	BuyerAddress    string `json:"buyer_address"`
	BuyerPhone      string `json:"buyer_phone"`
	BuyerOccupation string `json:"buyer_occupation"`

	Project               string          `json:"project"`
	BlockFloor            string          `json:"block_floor"`
	LotUnit               string          `json:"lot_unit"`
	Phase                 string          `json:"phase"`
	LotArea               decimal.Decimal `json:"lot_area"`
	FloorArea             decimal.Decimal `json:"floor_area"`
	Developer             string          `json:"developer"`
	DeveloperCommBasis    decimal.Decimal `json:"developer_comm_basis"`
	NetTotalContractPrice decimal.Decimal `json:"net_total_contract_price"`
	MiscFee               decimal.Decimal `json:"misc_fee"`
	FinancingScheme       string          `json:"financing_scheme"`

	DownpaymentAmount    decimal.Decimal `json:"downpayment_amount"`
	DownpaymentTerms     int             `json:"downpayment_terms"`
	MonthlyPayment       decimal.Decimal `json:"monthly_payment"`
	DownpaymentStartDate string          `json:"downpayment_start_date"`
	SellerName           string          `json:"seller_name"`
}

func (req *CreatePendingSaleRequest) toSaleInput() (domain.SaleInput, error) {
	reservationDate, err := time.Parse(dateLayout, req.ReservationDate)
	if err != nil {
		return domain.SaleInput{}, util.ErrInvalidInput
	}

	var dpStart time.Time
	if req.DownpaymentStartDate != "" {
		dpStart, err = time.Parse(dateLayout, req.DownpaymentStartDate)
		if err != nil {
			return domain.SaleInput{}, util.ErrInvalidInput
		}
	}

	return domain.SaleInput{
		ReservationDate: reservationDate,
		DivisionID:      req.DivisionID,
		BranchID:        req.BranchID,
		SectorID:        req.SectorID,

		BuyerName:       req.BuyerName,
		BuyerAddress:    req.BuyerAddress,
		BuyerPhone:      req.BuyerPhone,
		BuyerOccupation: req.BuyerOccupation,

		Project:               req.Project,
		BlockFloor:            req.BlockFloor,
		LotUnit:               req.LotUnit,
		Phase:                 req.Phase,
		LotArea:               req.LotArea,
		FloorArea:             req.FloorArea,
		Developer:             req.Developer,
		DeveloperCommBasis:    req.DeveloperCommBasis,
		NetTotalContractPrice: req.NetTotalContractPrice,
		MiscFee:               req.MiscFee,
		FinancingScheme:       req.FinancingScheme,

		DownpaymentAmount:    req.DownpaymentAmount,
		DownpaymentTerms:     req.DownpaymentTerms,
		MonthlyPayment:       req.MonthlyPayment,
		DownpaymentStartDate: dpStart,
		SellerName:           req.SellerName,
	}, nil
}

// Create handles filing a new reservation.
// POST /pending-sales
func (h *PendingSaleHandler) Create(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.actorFromRequest(w, r)
	if !ok {
		return
	}

	var req CreatePendingSaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}

	input, err := req.toSaleInput()
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	sale, err := h.service.Create(r.Context(), actorID, input)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"pending_sale_id":  sale.ID,
		"transaction_code": sale.TransactionCode,
		"approval_status":  sale.ApprovalStatus,
		"sales_status":     sale.SalesStatus,
		"details":          sale.Details,
	})
}

// AssignmentBatchRequest represents a batch of slot assignments.
type AssignmentBatchRequest struct {
	Assignments []domain.SlotAssignment `json:"assignments"`
}

// SubmitUnitManagerAssignments handles the unit manager approval step.
// POST /pending-sales/{pendingSaleID}/unit-manager-assignments
func (h *PendingSaleHandler) SubmitUnitManagerAssignments(w http.ResponseWriter, r *http.Request) {
	h.submitAssignments(w, r, h.service.SubmitUnitManagerAssignments)
}

// SubmitSalesDirectorApproval handles the sales director approval step.
// POST /pending-sales/{pendingSaleID}/sales-director-approval
func (h *PendingSaleHandler) SubmitSalesDirectorApproval(w http.ResponseWriter, r *http.Request) {
	h.submitAssignments(w, r, h.service.SubmitSalesDirectorApproval)
}

func (h *PendingSaleHandler) submitAssignments(
	w http.ResponseWriter,
	r *http.Request,
	submit func(ctx context.Context, actorID, pendingSaleID int64, assignments []domain.SlotAssignment) ([]domain.PendingSaleDetail, error),
) {
	actorID, ok := h.actorFromRequest(w, r)
	if !ok {
		return
	}

	pendingSaleID, err := parseIDParam(r, "pendingSaleID")
	if err != nil {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}

	var req AssignmentBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}

	details, err := submit(r.Context(), actorID, pendingSaleID, req.Assignments)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"pending_sale_id": pendingSaleID,
		"details":         details,
	})
}

// RejectRequest represents the request body for rejecting a pending sale.
type RejectRequest struct {
	Role    string `json:"role"`
	Remarks string `json:"remarks"`
}

// Reject handles rejecting a pending sale.
// POST /pending-sales/{pendingSaleID}/rejection
func (h *PendingSaleHandler) Reject(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.actorFromRequest(w, r)
	if !ok {
		return
	}

	pendingSaleID, err := parseIDParam(r, "pendingSaleID")
	if err != nil {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}

	var req RejectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}

	role := domain.ActorRole(req.Role)
	if role != domain.RoleUnitManager && role != domain.RoleSalesDirector {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}

	if err := h.service.Reject(r.Context(), actorID, role, pendingSaleID, req.Remarks); err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"pending_sale_id": pendingSaleID,
		"approval_status": domain.StatusRejected,
		"sales_status":    domain.StatusRejected.Label(),
	})
}

// GetByID handles fetching one pending sale with its details.
// GET /pending-sales/{pendingSaleID}
func (h *PendingSaleHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	pendingSaleID, err := parseIDParam(r, "pendingSaleID")
	if err != nil {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}

	sale, err := h.service.GetByID(r.Context(), pendingSaleID)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, sale)
}

// ListByDivision handles the division pending-sale listing.
// GET /divisions/{divisionID}/pending-sales
func (h *PendingSaleHandler) ListByDivision(w http.ResponseWriter, r *http.Request) {
	divisionID, err := parseIDParam(r, "divisionID")
	if err != nil {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}

	query := r.URL.Query()
	page, err := strconv.Atoi(query.Get("page"))
	if err != nil || page <= 0 {
		page = 1
	}
	pageSize, err := strconv.Atoi(query.Get("page_size"))
	if err != nil || pageSize <= 0 {
		pageSize = 10
	}

	filter := domain.PendingSaleFilter{}
	if v := query.Get("agent_id"); v != "" {
		agentID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			h.respondWithError(w, util.ErrInvalidInput)
			return
		}
		filter.CreatedBy = &agentID
	}
	if v := query.Get("month"); v != "" {
		if filter.Month, err = strconv.Atoi(v); err != nil || filter.Month < 1 || filter.Month > 12 {
			h.respondWithError(w, util.ErrInvalidInput)
			return
		}
	}
	if v := query.Get("year"); v != "" {
		if filter.Year, err = strconv.Atoi(v); err != nil {
			h.respondWithError(w, util.ErrInvalidInput)
			return
		}
	}

	sales, totalCount, err := h.service.ListByDivision(r.Context(), divisionID, filter, pageSize, (page-1)*pageSize)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	totalPages := totalCount / int64(pageSize)
	if totalCount%int64(pageSize) != 0 {
		totalPages++
	}

	h.respondWithJSON(w, http.StatusOK, types.PaginatedResponse[domain.PendingSale]{
		Results:    sales,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: totalCount,
		TotalPages: totalPages,
	})
}

// GetAgent handles the agent directory snapshot lookup.
// GET /agents/{agentID}
func (h *PendingSaleHandler) GetAgent(w http.ResponseWriter, r *http.Request) {
	agentID, err := parseIDParam(r, "agentID")
	if err != nil {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}

	agent, err := h.service.GetAgent(r.Context(), agentID)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"agent_id":     agent.ID,
		"first_name":   agent.FirstName,
		"last_name":    agent.LastName,
		"middle_name":  agent.MiddleName,
		"display_name": agent.DisplayName(),
	})
}

func parseIDParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, util.ErrInvalidInput
	}
	return id, nil
}
