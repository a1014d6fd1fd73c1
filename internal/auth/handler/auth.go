package handler

import (
	"net/http"

	"github.com/spitex-domus/domus-backend/internal/auth/service"
	"github.com/spitex-domus/domus-backend/pkg/errors"
	"github.com/spitex-domus/domus-backend/pkg/httputil"
	"github.com/spitex-domus/domus-backend/pkg/logger"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	service *service.AuthService
	logger  *logger.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(svc *service.AuthService, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		service: svc,
		logger:  log,
	}
}

// Login handles employee login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}

	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	response, err := h.service.Login(r.Context(), &req)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, response)
}

// Me returns the current employee's profile
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	employeeID := httputil.GetEmployeeID(r.Context())
	if employeeID == "" {
		httputil.Error(w, errors.Unauthorized("not authenticated"))
		return
	}

	emp, err := h.service.GetCurrentEmployee(r.Context(), employeeID)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, emp)
}
