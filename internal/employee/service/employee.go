package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/spitex-domus/domus-backend/internal/employee/repository"
	"github.com/spitex-domus/domus-backend/pkg/errors"
	"github.com/spitex-domus/domus-backend/pkg/logger"
	"golang.org/x/crypto/bcrypt"
)

// EmployeeService handles employee administration
type EmployeeService struct {
	repo   *repository.EmployeeRepository
	logger *logger.Logger
}

// NewEmployeeService creates a new employee service
func NewEmployeeService(repo *repository.EmployeeRepository, log *logger.Logger) *EmployeeService {
	return &EmployeeService{repo: repo, logger: log}
}

// CreateEmployeeRequest is the payload for creating an employee
type CreateEmployeeRequest struct {
	FirstName      string  `json:"first_name" validate:"required"`
	LastName       string  `json:"last_name" validate:"required"`
	Email          string  `json:"email" validate:"required,email"`
	Password       string  `json:"password" validate:"required,min=8"`
	Role           string  `json:"role" validate:"required,oneof=ADMIN EMPLOYEE"`
	EmploymentType string  `json:"employment_type" validate:"required,oneof=MONTHLY_SALARY HOURLY_WAGE"`
	Pensum         float64 `json:"pensum" validate:"required,gt=0,lte=100"`
	WeeklyHours    float64 `json:"weekly_hours" validate:"required,gt=0"`
}

// UpdateEmployeeRequest is the payload for updating an employee
type UpdateEmployeeRequest struct {
	FirstName      string  `json:"first_name" validate:"required"`
	LastName       string  `json:"last_name" validate:"required"`
	Email          string  `json:"email" validate:"required,email"`
	Role           string  `json:"role" validate:"required,oneof=ADMIN EMPLOYEE"`
	EmploymentType string  `json:"employment_type" validate:"required,oneof=MONTHLY_SALARY HOURLY_WAGE"`
	Pensum         float64 `json:"pensum" validate:"required,gt=0,lte=100"`
	WeeklyHours    float64 `json:"weekly_hours" validate:"required,gt=0"`
	Active         bool    `json:"active"`
}

// Create stores a new employee with a hashed password
func (s *EmployeeService) Create(ctx context.Context, req *CreateEmployeeRequest) (*repository.Employee, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Internal("failed to hash password")
	}

	emp := &repository.Employee{
		ID:             uuid.New().String(),
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		PasswordHash:   string(hash),
		Role:           req.Role,
		EmploymentType: req.EmploymentType,
		Pensum:         req.Pensum,
		WeeklyHours:    req.WeeklyHours,
		Active:         true,
	}

	if err := s.repo.Create(ctx, emp); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("employee_id", emp.ID).
		Str("email", emp.Email).
		Msg("Employee created")

	return emp, nil
}

// Get returns an employee by ID
func (s *EmployeeService) Get(ctx context.Context, id string) (*repository.Employee, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns all employees, optionally only active ones
func (s *EmployeeService) List(ctx context.Context, activeOnly bool) ([]*repository.Employee, error) {
	return s.repo.List(ctx, activeOnly)
}

// Update changes an employee's master data
func (s *EmployeeService) Update(ctx context.Context, id string, req *UpdateEmployeeRequest) (*repository.Employee, error) {
	emp, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	emp.FirstName = req.FirstName
	emp.LastName = req.LastName
	emp.Email = req.Email
	emp.Role = req.Role
	emp.EmploymentType = req.EmploymentType
	emp.Pensum = req.Pensum
	emp.WeeklyHours = req.WeeklyHours
	emp.Active = req.Active

	if err := s.repo.Update(ctx, emp); err != nil {
		return nil, err
	}

	s.logger.Info().Str("employee_id", emp.ID).Msg("Employee updated")
	return emp, nil
}

// ChangePassword replaces an employee's password
func (s *EmployeeService) ChangePassword(ctx context.Context, id, password string) error {
	if len(password) < 8 {
		return errors.BadRequest("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return errors.Internal("failed to hash password")
	}

	return s.repo.UpdatePassword(ctx, id, string(hash))
}

// Deactivate marks an employee inactive. Bookings are kept for payroll
// history, so employees are never hard deleted through the API.
func (s *EmployeeService) Deactivate(ctx context.Context, id string) error {
	emp, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	emp.Active = false
	if err := s.repo.Update(ctx, emp); err != nil {
		return err
	}

	s.logger.Info().Str("employee_id", id).Msg("Employee deactivated")
	return nil
}
