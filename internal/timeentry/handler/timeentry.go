package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/spitex-domus/domus-backend/internal/timeentry/repository"
	"github.com/spitex-domus/domus-backend/internal/timeentry/service"
	"github.com/spitex-domus/domus-backend/pkg/errors"
	"github.com/spitex-domus/domus-backend/pkg/httputil"
	"github.com/spitex-domus/domus-backend/pkg/logger"
)

// TimeEntryHandler handles time entry endpoints
type TimeEntryHandler struct {
	service *service.TimeEntryService
	logger  *logger.Logger
}

// NewTimeEntryHandler creates a new time entry handler
func NewTimeEntryHandler(svc *service.TimeEntryService, log *logger.Logger) *TimeEntryHandler {
	return &TimeEntryHandler{
		service: svc,
		logger:  log,
	}
}

// CreateTimeEntryRequest is the payload for booking a time entry
type CreateTimeEntryRequest struct {
	EmployeeID               string     `json:"employee_id"`
	EntryDate                string     `json:"entry_date" validate:"required,datetime=2006-01-02"`
	StartTime                time.Time  `json:"start_time" validate:"required"`
	EndTime                  *time.Time `json:"end_time"`
	BreakMinutes             int        `json:"break_minutes" validate:"gte=0"`
	EntryType                string     `json:"entry_type" validate:"required,oneof=WORK SLEEP SLEEP_INTERRUPTION"`
	SleepInterruptionMinutes int        `json:"sleep_interruption_minutes" validate:"gte=0"`
}

// StopTimeEntryRequest closes the caller's running entry
type StopTimeEntryRequest struct {
	EndTime time.Time `json:"end_time" validate:"required"`
}

// List returns the caller's entries for a month
// GET /time-entries?year=2024&month=3
func (h *TimeEntryHandler) List(w http.ResponseWriter, r *http.Request) {
	employeeID, err := effectiveEmployeeID(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	year, month, err := yearMonthParams(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	entries, err := h.service.ListMonth(r.Context(), employeeID, year, month)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, entries)
}

// GetOpen returns the caller's running entry, if any
// GET /time-entries/open
func (h *TimeEntryHandler) GetOpen(w http.ResponseWriter, r *http.Request) {
	employeeID, err := effectiveEmployeeID(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	entry, err := h.service.GetOpen(r.Context(), employeeID)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, entry)
}

// Create books a new time entry
// POST /time-entries
func (h *TimeEntryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateTimeEntryRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	employeeID, err := resolveTargetEmployee(r, req.EmployeeID)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	entryDate, _ := time.Parse("2006-01-02", req.EntryDate)
	entry := &repository.TimeEntry{
		ID:                       uuid.New().String(),
		EmployeeID:               employeeID,
		EntryDate:                entryDate,
		StartTime:                req.StartTime,
		EndTime:                  req.EndTime,
		BreakMinutes:             req.BreakMinutes,
		EntryType:                req.EntryType,
		SleepInterruptionMinutes: req.SleepInterruptionMinutes,
	}

	created, err := h.service.Create(r.Context(), entry, httputil.IsAdmin(r.Context()))
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, created)
}

// Stop closes the caller's running entry
// POST /time-entries/stop
func (h *TimeEntryHandler) Stop(w http.ResponseWriter, r *http.Request) {
	var req StopTimeEntryRequest
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

	entry, err := h.service.Stop(r.Context(), employeeID, req.EndTime)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, entry)
}

// Update changes an existing time entry
// PUT /time-entries/{id}
func (h *TimeEntryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	existing, err := h.service.Get(r.Context(), id)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	if err := requireOwnershipOrAdmin(r, existing.EmployeeID); err != nil {
		httputil.Error(w, err)
		return
	}

	var req CreateTimeEntryRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	entryDate, _ := time.Parse("2006-01-02", req.EntryDate)
	entry := &repository.TimeEntry{
		ID:                       id,
		EmployeeID:               existing.EmployeeID,
		EntryDate:                entryDate,
		StartTime:                req.StartTime,
		EndTime:                  req.EndTime,
		BreakMinutes:             req.BreakMinutes,
		EntryType:                req.EntryType,
		SleepInterruptionMinutes: req.SleepInterruptionMinutes,
	}

	updated, err := h.service.Update(r.Context(), entry, httputil.IsAdmin(r.Context()))
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, updated)
}

// Delete removes a time entry, cascading over night shift components
// DELETE /time-entries/{id}
func (h *TimeEntryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	existing, err := h.service.Get(r.Context(), id)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	if err := requireOwnershipOrAdmin(r, existing.EmployeeID); err != nil {
		httputil.Error(w, err)
		return
	}

	deletedIDs, err := h.service.Delete(r.Context(), id, httputil.IsAdmin(r.Context()))
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]interface{}{
		"deleted_ids": deletedIDs,
	})
}

// ====== Shared helpers ======

// effectiveEmployeeID resolves which employee's data the request acts
// on. Admins may select any employee via the employee_id query
// parameter; everyone else works on their own bookings.
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
		return "", errors.Forbidden("cannot access another employee's bookings")
	}
	return requested, nil
}

// resolveTargetEmployee applies the same rule to a body field
func resolveTargetEmployee(r *http.Request, requested string) (string, error) {
	own := httputil.GetEmployeeID(r.Context())
	if requested == "" || requested == own {
		if own == "" {
			return "", errors.Unauthorized("not authenticated")
		}
		return own, nil
	}
	if !httputil.IsAdmin(r.Context()) {
		return "", errors.Forbidden("cannot book for another employee")
	}
	return requested, nil
}

// requireOwnershipOrAdmin rejects access to another employee's record
func requireOwnershipOrAdmin(r *http.Request, ownerID string) error {
	if httputil.IsAdmin(r.Context()) || httputil.GetEmployeeID(r.Context()) == ownerID {
		return nil
	}
	return errors.Forbidden("cannot access another employee's bookings")
}

// yearMonthParams parses the year and month query parameters, falling
// back to the current month.
func yearMonthParams(r *http.Request) (int, time.Month, error) {
	now := time.Now()
	year, month := now.Year(), now.Month()

	if v := r.URL.Query().Get("year"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 2000 || n > 2200 {
			return 0, 0, errors.BadRequest("invalid year parameter")
		}
		year = n
	}
	if v := r.URL.Query().Get("month"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 12 {
			return 0, 0, errors.BadRequest("invalid month parameter")
		}
		month = time.Month(n)
	}
	return year, month, nil
}
