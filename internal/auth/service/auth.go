package service

import (
	"context"
	"fmt"

	"github.com/spitex-domus/domus-backend/internal/auth/jwt"
	"github.com/spitex-domus/domus-backend/internal/employee/repository"
	"github.com/spitex-domus/domus-backend/pkg/errors"
	"github.com/spitex-domus/domus-backend/pkg/logger"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles employee authentication
type AuthService struct {
	employees *repository.EmployeeRepository
	tokens    *jwt.Manager
	logger    *logger.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(employees *repository.EmployeeRepository, tokens *jwt.Manager, log *logger.Logger) *AuthService {
	return &AuthService{
		employees: employees,
		tokens:    tokens,
		logger:    log,
	}
}

// LoginRequest is the login payload
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the issued token and the employee profile
type LoginResponse struct {
	Token    *jwt.Token           `json:"token"`
	Employee *repository.Employee `json:"employee"`
}

// Login verifies the credentials and issues an access token
func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	emp, err := s.employees.GetByEmail(ctx, req.Email)
	if err != nil {
		// An unknown email must not read differently than a wrong password.
		if errors.Is(err, errors.ErrNotFound) {
			return nil, errors.InvalidCredentials()
		}
		return nil, err
	}
	if !emp.Active {
		return nil, errors.InvalidCredentials()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(emp.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn().Str("email", req.Email).Msg("Failed login attempt")
		return nil, errors.InvalidCredentials()
	}

	token, err := s.tokens.Generate(&jwt.EmployeeInfo{
		ID:    emp.ID,
		Email: emp.Email,
		Name:  fmt.Sprintf("%s %s", emp.FirstName, emp.LastName),
		Role:  emp.Role,
	})
	if err != nil {
		return nil, errors.Internal("failed to issue token")
	}

	s.logger.Info().Str("employee_id", emp.ID).Msg("Employee logged in")

	return &LoginResponse{Token: token, Employee: emp}, nil
}

// GetCurrentEmployee returns the authenticated employee's profile
func (s *AuthService) GetCurrentEmployee(ctx context.Context, employeeID string) (*repository.Employee, error) {
	return s.employees.GetByID(ctx, employeeID)
}
