package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/spitex-domus/domus-backend/internal/schedule/repository"
	"github.com/spitex-domus/domus-backend/internal/schedule/service"
	"github.com/spitex-domus/domus-backend/pkg/errors"
	"github.com/spitex-domus/domus-backend/pkg/httputil"
	"github.com/spitex-domus/domus-backend/pkg/logger"
)

// ScheduleHandler handles schedule and service catalogue endpoints
type ScheduleHandler struct {
	service *service.ScheduleService
	logger  *logger.Logger
}

// NewScheduleHandler creates a new schedule handler
func NewScheduleHandler(svc *service.ScheduleService, log *logger.Logger) *ScheduleHandler {
	return &ScheduleHandler{
		service: svc,
		logger:  log,
	}
}

// ScheduleEntryRequest is the payload for creating or updating a shift
type ScheduleEntryRequest struct {
	EmployeeID string    `json:"employee_id" validate:"required"`
	ServiceID  string    `json:"service_id" validate:"required"`
	EntryDate  string    `json:"entry_date" validate:"required,datetime=2006-01-02"`
	StartTime  time.Time `json:"start_time" validate:"required"`
	EndTime    time.Time `json:"end_time" validate:"required"`
}

// ServiceRequest is the payload for the service catalogue
type ServiceRequest struct {
	Name            string `json:"name" validate:"required"`
	DurationMinutes int    `json:"duration_minutes" validate:"required,gt=0"`
	Color           string `json:"color" validate:"required"`
}

// ====== Schedule entries ======

// List returns planned shifts for a month
// GET /schedule?year=2024&month=3&employee_id=...
func (h *ScheduleHandler) List(w http.ResponseWriter, r *http.Request) {
	employeeID := r.URL.Query().Get("employee_id")
	if employeeID == "" {
		employeeID = httputil.GetEmployeeID(r.Context())
	}
	// The duty roster is visible to the whole team, so reading another
	// employee's plan is allowed for everyone.
	if employeeID == "" {
		httputil.Error(w, errors.BadRequest("employee_id is required"))
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

// Create plans a new shift (admin only, enforced by the router)
// POST /schedule
func (h *ScheduleHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, entry, err := h.decodeEntry(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	entry.ID = uuid.New().String()
	entry.EmployeeID = req.EmployeeID

	created, err := h.service.Create(r.Context(), entry)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, created)
}

// Update changes a planned shift (admin only)
// PUT /schedule/{id}
func (h *ScheduleHandler) Update(w http.ResponseWriter, r *http.Request) {
	req, entry, err := h.decodeEntry(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	entry.ID = chi.URLParam(r, "id")
	entry.EmployeeID = req.EmployeeID

	updated, err := h.service.Update(r.Context(), entry)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, updated)
}

// Delete removes a planned shift (admin only)
// DELETE /schedule/{id}
func (h *ScheduleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.NoContent(w)
}

func (h *ScheduleHandler) decodeEntry(r *http.Request) (*ScheduleEntryRequest, *repository.ScheduleEntry, error) {
	var req ScheduleEntryRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		return nil, nil, err
	}
	if err := httputil.Validate(&req); err != nil {
		return nil, nil, err
	}

	entryDate, _ := time.Parse("2006-01-02", req.EntryDate)
	return &req, &repository.ScheduleEntry{
		ServiceID: req.ServiceID,
		EntryDate: entryDate,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	}, nil
}

// ====== Service catalogue ======

// ListServices returns the service catalogue
// GET /services
func (h *ScheduleHandler) ListServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.service.ListServices(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, services)
}

// CreateService adds a service to the catalogue (admin only)
// POST /services
func (h *ScheduleHandler) CreateService(w http.ResponseWriter, r *http.Request) {
	var req ServiceRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	svc := &repository.Service{
		ID:              uuid.New().String(),
		Name:            req.Name,
		DurationMinutes: req.DurationMinutes,
		Color:           req.Color,
	}

	created, err := h.service.CreateService(r.Context(), svc)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, created)
}

// UpdateService changes a catalogue service (admin only)
// PUT /services/{id}
func (h *ScheduleHandler) UpdateService(w http.ResponseWriter, r *http.Request) {
	var req ServiceRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	svc := &repository.Service{
		ID:              chi.URLParam(r, "id"),
		Name:            req.Name,
		DurationMinutes: req.DurationMinutes,
		Color:           req.Color,
	}

	updated, err := h.service.UpdateService(r.Context(), svc)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, updated)
}

// DeleteService removes a catalogue service (admin only)
// DELETE /services/{id}
func (h *ScheduleHandler) DeleteService(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteService(r.Context(), chi.URLParam(r, "id")); err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.NoContent(w)
}

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
