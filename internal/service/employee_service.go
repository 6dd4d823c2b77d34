package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/employee-service/internal/domain"
	"github.com/spec-kit/employee-service/internal/events"
	"github.com/spec-kit/employee-service/internal/repository"
	apperrors "github.com/spec-kit/employee-service/pkg/util"
)

// EmployeeListQuery captures list endpoint parameters.
type EmployeeListQuery struct {
	Department *string
	Role       *string
	Page       int
}

// EmployeeListResult is a single page of employees plus pagination metadata.
type EmployeeListResult struct {
	Employees  []domain.Employee
	Count      int64
	Page       int
	PageSize   int
	TotalPages int
}

// DeletedEmployee is the snapshot returned to the caller after a delete.
type DeletedEmployee struct {
	ID    int64
	Name  string
	Email string
}

// EmployeeService orchestrates validation and persistence for employee
// records.
type EmployeeService struct {
	repo       repository.EmployeeRepository
	dispatcher events.Dispatcher
	pageSize   int
}

// NewEmployeeService builds the service.
func NewEmployeeService(repo repository.EmployeeRepository, dispatcher events.Dispatcher, pageSize int) *EmployeeService {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &EmployeeService{repo: repo, dispatcher: dispatcher, pageSize: pageSize}
}

// PageSize reports the fixed page size in effect.
func (s *EmployeeService) PageSize() int {
	return s.pageSize
}

// List returns one page of employees ordered by date_joined descending,
// optionally filtered case-insensitively on department and role.
func (s *EmployeeService) List(ctx context.Context, query EmployeeListQuery) (*EmployeeListResult, error) {
	page := query.Page
	if page < 1 {
		page = 1
	}

	filter := repository.EmployeeFilter{
		Department: query.Department,
		Role:       query.Role,
		Limit:      s.pageSize,
		Offset:     (page - 1) * s.pageSize,
	}

	count, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, apperrors.NewDatabase(err)
	}

	employees, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, apperrors.NewDatabase(err)
	}
	if employees == nil {
		employees = []domain.Employee{}
	}

	totalPages := int((count + int64(s.pageSize) - 1) / int64(s.pageSize))

	return &EmployeeListResult{
		Employees:  employees,
		Count:      count,
		Page:       page,
		PageSize:   s.pageSize,
		TotalPages: totalPages,
	}, nil
}

// Create validates the full input and persists a new record. A uniqueness
// race at the storage layer surfaces as an integrity error.
func (s *EmployeeService) Create(ctx context.Context, actor events.Actor, input EmployeeInput) (*domain.Employee, error) {
	fieldErrs := validateEmployeeFields(input, ModeFull)
	if err := s.checkEmailUnique(ctx, input, 0, fieldErrs); err != nil {
		return nil, err
	}
	if len(fieldErrs) > 0 {
		return nil, apperrors.NewValidation(fieldErrs)
	}

	employee := &domain.Employee{
		Name:       strings.TrimSpace(*input.Name),
		Email:      strings.TrimSpace(*input.Email),
		Department: normalizeOptional(input.Department),
		Role:       normalizeOptional(input.Role),
	}

	if err := s.repo.Create(ctx, employee); err != nil {
		if apperrors.IsUniqueViolation(err) {
			return nil, apperrors.NewIntegrity("Integrity error", map[string][]string{
				"email": {msgDuplicate},
			})
		}
		return nil, apperrors.NewDatabase(err)
	}

	s.publish(ctx, events.EventEmployeeCreated, employee.ID, actor, events.EmployeeCreatedPayload{
		Name:  employee.Name,
		Email: employee.Email,
	})
	return employee, nil
}

// Get fetches one record by id; not-found is a first-class outcome.
func (s *EmployeeService) Get(ctx context.Context, id int64) (*domain.Employee, error) {
	employee, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("Employee")
		}
		return nil, apperrors.NewDatabase(err)
	}
	return employee, nil
}

// Update applies the supplied fields to an existing record after partial
// validation. ID and date_joined never change.
func (s *EmployeeService) Update(ctx context.Context, actor events.Actor, id int64, input EmployeeInput) (*domain.Employee, error) {
	employee, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	fieldErrs := validateEmployeeFields(input, ModePartial)
	if err := s.checkEmailUnique(ctx, input, id, fieldErrs); err != nil {
		return nil, err
	}
	if len(fieldErrs) > 0 {
		return nil, apperrors.NewValidation(fieldErrs)
	}

	changed := []string{}
	if input.Name != nil {
		employee.Name = strings.TrimSpace(*input.Name)
		changed = append(changed, "name")
	}
	if input.Email != nil {
		employee.Email = strings.TrimSpace(*input.Email)
		changed = append(changed, "email")
	}
	if input.Department != nil {
		employee.Department = normalizeOptional(input.Department)
		changed = append(changed, "department")
	}
	if input.Role != nil {
		employee.Role = normalizeOptional(input.Role)
		changed = append(changed, "role")
	}

	if err := s.repo.Update(ctx, employee); err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return nil, apperrors.NewNotFound("Employee")
		case apperrors.IsUniqueViolation(err):
			return nil, apperrors.NewIntegrity("Integrity error", map[string][]string{
				"email": {msgDuplicate},
			})
		default:
			return nil, apperrors.NewDatabase(err)
		}
	}

	s.publish(ctx, events.EventEmployeeUpdated, employee.ID, actor, events.EmployeeUpdatedPayload{
		ChangedFields: changed,
	})
	return employee, nil
}

// Delete removes the record and returns the pre-delete snapshot. Deletion is
// terminal; there is no soft-delete.
func (s *EmployeeService) Delete(ctx context.Context, actor events.Actor, id int64) (*DeletedEmployee, error) {
	employee, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	snapshot := &DeletedEmployee{ID: employee.ID, Name: employee.Name, Email: employee.Email}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("Employee")
		}
		return nil, apperrors.NewDatabase(err)
	}

	s.publish(ctx, events.EventEmployeeDeleted, id, actor, events.EmployeeDeletedPayload{
		Name:  snapshot.Name,
		Email: snapshot.Email,
	})
	return snapshot, nil
}

// Departments returns distinct non-empty department values currently present.
func (s *EmployeeService) Departments(ctx context.Context) ([]string, error) {
	values, err := s.repo.DistinctDepartments(ctx)
	if err != nil {
		return nil, apperrors.NewDatabase(err)
	}
	return values, nil
}

// Roles returns distinct non-empty role values currently present.
func (s *EmployeeService) Roles(ctx context.Context) ([]string, error) {
	values, err := s.repo.DistinctRoles(ctx)
	if err != nil {
		return nil, apperrors.NewDatabase(err)
	}
	return values, nil
}

// checkEmailUnique appends a duplicate-email violation when a syntactically
// valid supplied email already belongs to another record.
func (s *EmployeeService) checkEmailUnique(ctx context.Context, input EmployeeInput, excludeID int64, fieldErrs map[string][]string) error {
	if input.Email == nil || len(fieldErrs["email"]) > 0 {
		return nil
	}
	exists, err := s.repo.EmailExists(ctx, strings.TrimSpace(*input.Email), excludeID)
	if err != nil {
		return apperrors.NewDatabase(err)
	}
	if exists {
		fieldErrs["email"] = append(fieldErrs["email"], msgDuplicate)
	}
	return nil
}

func (s *EmployeeService) publish(ctx context.Context, eventType events.EventType, employeeID int64, actor events.Actor, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		EmployeeID: employeeID,
		Actor:      actor,
		Timestamp:  time.Now(),
		Payload:    payload,
	})
}

func normalizeOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
