// internal/api/handler/pendingsale_test.go
package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"realty-sales/internal/api/middleware"
	"realty-sales/internal/domain"
	"realty-sales/internal/util"
)

// MockPendingSaleService is a mock implementation of service.PendingSaleService.
type MockPendingSaleService struct {
	mock.Mock
}

func (m *MockPendingSaleService) Create(ctx context.Context, actorID int64, in domain.SaleInput) (*domain.PendingSaleWithDetails, error) {
	args := m.Called(ctx, actorID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PendingSaleWithDetails), args.Error(1)
}

func (m *MockPendingSaleService) SubmitUnitManagerAssignments(ctx context.Context, actorID, pendingSaleID int64, assignments []domain.SlotAssignment) ([]domain.PendingSaleDetail, error) {
	args := m.Called(ctx, actorID, pendingSaleID, assignments)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PendingSaleDetail), args.Error(1)
}

func (m *MockPendingSaleService) SubmitSalesDirectorApproval(ctx context.Context, actorID, pendingSaleID int64, assignments []domain.SlotAssignment) ([]domain.PendingSaleDetail, error) {
	args := m.Called(ctx, actorID, pendingSaleID, assignments)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PendingSaleDetail), args.Error(1)
}

func (m *MockPendingSaleService) Reject(ctx context.Context, actorID int64, role domain.ActorRole, pendingSaleID int64, remarks string) error {
	args := m.Called(ctx, actorID, role, pendingSaleID, remarks)
	return args.Error(0)
}

func (m *MockPendingSaleService) GetByID(ctx context.Context, pendingSaleID int64) (*domain.PendingSaleWithDetails, error) {
	args := m.Called(ctx, pendingSaleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PendingSaleWithDetails), args.Error(1)
}

func (m *MockPendingSaleService) ListByDivision(ctx context.Context, divisionID int64, filter domain.PendingSaleFilter, limit, offset int) ([]domain.PendingSale, int64, error) {
	args := m.Called(ctx, divisionID, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]domain.PendingSale), args.Get(1).(int64), args.Error(2)
}

func (m *MockPendingSaleService) GetAgent(ctx context.Context, agentID int64) (*domain.Agent, error) {
	args := m.Called(ctx, agentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Agent), args.Error(1)
}

// newTestRouter mounts the handler behind a test middleware that injects the
// actor directly, bypassing token parsing.
func newTestRouter(svc *MockPendingSaleService, actorID int64) http.Handler {
	h := NewPendingSaleHandler(svc, util.GetLogger())

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(middleware.WithActor(req.Context(), actorID)))
		})
	})
	r.Route("/pending-sales", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/{pendingSaleID}", h.GetByID)
		r.Post("/{pendingSaleID}/unit-manager-assignments", h.SubmitUnitManagerAssignments)
		r.Post("/{pendingSaleID}/sales-director-approval", h.SubmitSalesDirectorApproval)
		r.Post("/{pendingSaleID}/rejection", h.Reject)
	})
	r.Get("/divisions/{divisionID}/pending-sales", h.ListByDivision)
	r.Get("/agents/{agentID}", h.GetAgent)
	return r
}

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreateHandler(t *testing.T) {
	svc := new(MockPendingSaleService)
	router := newTestRouter(svc, 7)

	sale := &domain.PendingSaleWithDetails{
		PendingSale: domain.PendingSale{
			ID:              10,
			TransactionCode: "S-20240110123456-001",
			ApprovalStatus:  domain.StatusPendingUnitManager,
			SalesStatus:     domain.StatusPendingUnitManager.Label(),
		},
		Details: domain.NewPendingSaleDetails("S-20240110123456-001"),
	}
	svc.On("Create", mock.Anything, int64(7), mock.AnythingOfType("domain.SaleInput")).Return(sale, nil)

	rec := doJSON(t, router, http.MethodPost, "/pending-sales", map[string]interface{}{
		"reservation_date":         "2024-01-10",
		"division_id":              1,
		"buyer_name":               "Maria Santos",
		"project":                  "Vista Heights",
		"net_total_contract_price": "1000000",
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "S-20240110123456-001", resp["transaction_code"])
	assert.Equal(t, float64(10), resp["pending_sale_id"])
	assert.Len(t, resp["details"], 7)
}

func TestCreateHandlerBadDate(t *testing.T) {
	router := newTestRouter(new(MockPendingSaleService), 7)

	rec := doJSON(t, router, http.MethodPost, "/pending-sales", map[string]interface{}{
		"reservation_date": "10-01-2024",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR")
}

func TestSubmitAssignmentsHandler(t *testing.T) {
	svc := new(MockPendingSaleService)
	router := newTestRouter(svc, 99)

	details := domain.NewPendingSaleDetails("S-20240110123456-001")
	svc.On("SubmitUnitManagerAssignments", mock.Anything, int64(99), int64(10), mock.AnythingOfType("[]domain.SlotAssignment")).
		Return(details, nil)

	rec := doJSON(t, router, http.MethodPost, "/pending-sales/10/unit-manager-assignments", map[string]interface{}{
		"assignments": []map[string]interface{}{
			{"detail_id": 4, "agent_id": 42, "commission_rate": "0.03"},
		},
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSubmitAssignmentsHandlerAgentsNotFound(t *testing.T) {
	svc := new(MockPendingSaleService)
	router := newTestRouter(svc, 99)

	svc.On("SubmitUnitManagerAssignments", mock.Anything, int64(99), int64(10), mock.Anything).
		Return(nil, util.NewAgentsNotFoundError([]int64{42, 17}))

	rec := doJSON(t, router, http.MethodPost, "/pending-sales/10/unit-manager-assignments", map[string]interface{}{
		"assignments": []map[string]interface{}{
			{"detail_id": 4, "agent_id": 42, "commission_rate": "0.03"},
		},
	})

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "AGENTS_NOT_FOUND", resp["error_code"])
	assert.Equal(t, []interface{}{float64(17), float64(42)}, resp["agent_ids"])
}

func TestSubmitAssignmentsHandlerInvalidTransition(t *testing.T) {
	svc := new(MockPendingSaleService)
	router := newTestRouter(svc, 99)

	svc.On("SubmitUnitManagerAssignments", mock.Anything, int64(99), int64(10), mock.Anything).
		Return(nil, util.ErrInvalidTransition)

	rec := doJSON(t, router, http.MethodPost, "/pending-sales/10/unit-manager-assignments", map[string]interface{}{
		"assignments": []map[string]interface{}{{"detail_id": 4, "agent_id": 42}},
	})

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_TRANSITION")
}

func TestSubmitAssignmentsHandlerEmptyBatch(t *testing.T) {
	svc := new(MockPendingSaleService)
	router := newTestRouter(svc, 99)

	svc.On("SubmitUnitManagerAssignments", mock.Anything, int64(99), int64(10), mock.Anything).
		Return(nil, util.ErrEmptyBatch)

	rec := doJSON(t, router, http.MethodPost, "/pending-sales/10/unit-manager-assignments", map[string]interface{}{
		"assignments": []map[string]interface{}{},
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "EMPTY_BATCH")
}

func TestRejectHandler(t *testing.T) {
	svc := new(MockPendingSaleService)
	router := newTestRouter(svc, 99)

	svc.On("Reject", mock.Anything, int64(99), domain.RoleUnitManager, int64(10), "buyer backed out").Return(nil)

	rec := doJSON(t, router, http.MethodPost, "/pending-sales/10/rejection", map[string]interface{}{
		"role":    "UNIT_MANAGER",
		"remarks": "buyer backed out",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "REJECTED")
}

func TestRejectHandlerUnknownRole(t *testing.T) {
	router := newTestRouter(new(MockPendingSaleService), 99)

	rec := doJSON(t, router, http.MethodPost, "/pending-sales/10/rejection", map[string]interface{}{
		"role": "ACCOUNTANT",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetByIDHandlerNotFound(t *testing.T) {
	svc := new(MockPendingSaleService)
	router := newTestRouter(svc, 99)

	svc.On("GetByID", mock.Anything, int64(404)).Return(nil, util.ErrNotFound)

	rec := doJSON(t, router, http.MethodGet, "/pending-sales/404", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "NOT_FOUND")
}

func TestListByDivisionHandler(t *testing.T) {
	svc := new(MockPendingSaleService)
	router := newTestRouter(svc, 99)

	sales := []domain.PendingSale{{ID: 1}, {ID: 2}}
	svc.On("ListByDivision", mock.Anything, int64(1), domain.PendingSaleFilter{Month: 1, Year: 2024}, 10, 0).
		Return(sales, int64(25), nil)

	rec := doJSON(t, router, http.MethodGet, "/divisions/1/pending-sales?month=1&year=2024", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Results    []domain.PendingSale `json:"results"`
		TotalCount int64                `json:"total_count"`
		TotalPages int64                `json:"total_pages"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Results, 2)
	assert.Equal(t, int64(25), resp.TotalCount)
	assert.Equal(t, int64(3), resp.TotalPages)
}

func TestGetAgentHandler(t *testing.T) {
	svc := new(MockPendingSaleService)
	router := newTestRouter(svc, 99)

	svc.On("GetAgent", mock.Anything, int64(42)).
		Return(&domain.Agent{ID: 42, FirstName: "Juan", LastName: "Dela Cruz", MiddleName: "S."}, nil)

	rec := doJSON(t, router, http.MethodGet, "/agents/42", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Dela Cruz, Juan S.")
}
