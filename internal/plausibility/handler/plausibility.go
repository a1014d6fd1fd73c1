package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/spitex-domus/domus-backend/internal/plausibility/service"
	"github.com/spitex-domus/domus-backend/pkg/errors"
	"github.com/spitex-domus/domus-backend/pkg/httputil"
	"github.com/spitex-domus/domus-backend/pkg/logger"
)

// PlausibilityHandler handles plausibility scan endpoints
type PlausibilityHandler struct {
	scanner *service.Scanner
	logger  *logger.Logger
}

// NewPlausibilityHandler creates a new plausibility handler
func NewPlausibilityHandler(scanner *service.Scanner, log *logger.Logger) *PlausibilityHandler {
	return &PlausibilityHandler{
		scanner: scanner,
		logger:  log,
	}
}

// Scan runs the plausibility checks over a booked year
// GET /plausibility?year=2024&employee_id=...
func (h *PlausibilityHandler) Scan(w http.ResponseWriter, r *http.Request) {
	own := httputil.GetEmployeeID(r.Context())
	employeeID := r.URL.Query().Get("employee_id")
	if employeeID == "" {
		employeeID = own
	}
	if employeeID == "" {
		httputil.Error(w, errors.Unauthorized("not authenticated"))
		return
	}
	if employeeID != own && !httputil.IsAdmin(r.Context()) {
		httputil.Error(w, errors.Forbidden("cannot scan another employee's bookings"))
		return
	}

	year := time.Now().Year()
	if v := r.URL.Query().Get("year"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 2000 || n > 2200 {
			httputil.Error(w, errors.BadRequest("invalid year parameter"))
			return
		}
		year = n
	}

	issues, err := h.scanner.ScanYear(r.Context(), employeeID, year)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]interface{}{
		"year":   year,
		"issues": issues,
	})
}
