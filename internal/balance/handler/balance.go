package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/spitex-domus/domus-backend/internal/balance/repository"
	"github.com/spitex-domus/domus-backend/internal/balance/service"
	"github.com/spitex-domus/domus-backend/pkg/errors"
	"github.com/spitex-domus/domus-backend/pkg/httputil"
	"github.com/spitex-domus/domus-backend/pkg/logger"
)

// BalanceHandler handles monthly balance and vacation endpoints
type BalanceHandler struct {
	service *service.BalanceService
	logger  *logger.Logger
}

// NewBalanceHandler creates a new balance handler
func NewBalanceHandler(svc *service.BalanceService, log *logger.Logger) *BalanceHandler {
	return &BalanceHandler{
		service: svc,
		logger:  log,
	}
}

// RecomputeRequest selects the month to recompute
type RecomputeRequest struct {
	Year  int `json:"year" validate:"required,gte=2000,lte=2200"`
	Month int `json:"month" validate:"required,gte=1,lte=12"`
}

// VacationRequest sets an employee's vacation account for a year
type VacationRequest struct {
	Year      int     `json:"year" validate:"required,gte=2000,lte=2200"`
	TotalDays float64 `json:"total_days" validate:"gte=0"`
	StartDate string  `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
}

// ListYear returns the twelve monthly balances of a year
// GET /balances?year=2024
func (h *BalanceHandler) ListYear(w http.ResponseWriter, r *http.Request) {
	employeeID, err := effectiveEmployeeID(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	year, err := yearParam(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	balances, err := h.service.GetYear(r.Context(), employeeID, year)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, balances)
}

// Recompute rebuilds one monthly balance from bookings
// POST /balances/recompute
func (h *BalanceHandler) Recompute(w http.ResponseWriter, r *http.Request) {
	var req RecomputeRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	employeeID, err := effectiveEmployeeID(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	balance, err := h.service.Recompute(r.Context(), employeeID, req.Year, time.Month(req.Month))
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, balance)
}

// GetVacation returns the vacation account for a year
// GET /vacation?year=2024
func (h *BalanceHandler) GetVacation(w http.ResponseWriter, r *http.Request) {
	employeeID, err := effectiveEmployeeID(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	year, err := yearParam(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	balance, err := h.service.GetVacation(r.Context(), employeeID, year)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]interface{}{
		"balance":        balance,
		"remaining_days": balance.RemainingDays(),
	})
}

// SetVacation sets the vacation entitlement (admin only)
// PUT /vacation
func (h *BalanceHandler) SetVacation(w http.ResponseWriter, r *http.Request) {
	var req VacationRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	employeeID := r.URL.Query().Get("employee_id")
	if employeeID == "" {
		httputil.Error(w, errors.BadRequest("employee_id is required"))
		return
	}

	startDate := time.Date(req.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
	if req.StartDate != "" {
		startDate, _ = time.Parse("2006-01-02", req.StartDate)
	}

	balance := &repository.VacationBalance{
		EmployeeID: employeeID,
		Year:       req.Year,
		TotalDays:  req.TotalDays,
		StartDate:  startDate,
	}
	if err := h.service.SetVacation(r.Context(), balance); err != nil {
		httputil.Error(w, err)
		return
	}

	// Usage is derived from the roster, not from the request.
	if err := h.service.RecomputeVacation(r.Context(), employeeID, req.Year); err != nil {
		httputil.Error(w, err)
		return
	}

	updated, err := h.service.GetVacation(r.Context(), employeeID, req.Year)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, updated)
}

func effectiveEmployeeID(r *http.Request) (string, error) {
	own := httputil.GetEmployeeID(r.Context())
	requested := r.URL.Query().Get("employee_id")

	if requested == "" || requested == own {
		if own == "" {
			return "", errors.Unauthorized("not authenticated")
		}
		return own, nil
	}
	if !httputil.IsAdmin(r.Context()) {
		return "", errors.Forbidden("cannot access another employee's balances")
	}
	return requested, nil
}

func yearParam(r *http.Request) (int, error) {
	v := r.URL.Query().Get("year")
	if v == "" {
		return time.Now().Year(), nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 2000 || n > 2200 {
		return 0, errors.BadRequest("invalid year parameter")
	}
	return n, nil
}
