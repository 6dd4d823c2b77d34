package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/employee-service/internal/api/dto"
	"github.com/spec-kit/employee-service/internal/auth"
	"github.com/spec-kit/employee-service/internal/events"
	"github.com/spec-kit/employee-service/internal/service"
	apperrors "github.com/spec-kit/employee-service/pkg/util"
)

// EmployeesHandler manages employee CRUD endpoints.
type EmployeesHandler struct {
	service *service.EmployeeService
}

// NewEmployeesHandler constructs handler.
func NewEmployeesHandler(employeeService *service.EmployeeService) *EmployeesHandler {
	return &EmployeesHandler{service: employeeService}
}

// List handles GET /api/employees/.
func (h *EmployeesHandler) List(c *fiber.Ctx) error {
	query := service.EmployeeListQuery{Page: parsePage(c.Query("page"))}
	if department := c.Query("department"); department != "" {
		query.Department = &department
	}
	if role := c.Query("role"); role != "" {
		query.Role = &role
	}

	result, err := h.service.List(c.UserContext(), query)
	if err != nil {
		return err
	}

	results := make([]dto.EmployeeResponse, 0, len(result.Employees))
	for i := range result.Employees {
		results = append(results, dto.NewEmployeeResponse(&result.Employees[i]))
	}

	return respond(c, http.StatusOK, "Employees retrieved successfully", dto.EmployeeListResponse{
		Count:      result.Count,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
		Results:    results,
	})
}

// Create handles POST /api/employees/create/.
func (h *EmployeesHandler) Create(c *fiber.Ctx) error {
	var req dto.EmployeeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewAppError(apperrors.TypeValidation, "Invalid request payload", http.StatusBadRequest, nil)
	}

	employee, err := h.service.Create(c.UserContext(), actorFromContext(c), service.EmployeeInput{
		Name:       req.Name,
		Email:      req.Email,
		Department: req.Department,
		Role:       req.Role,
	})
	if err != nil {
		return err
	}

	return respond(c, http.StatusCreated, "Employee created successfully", dto.NewEmployeeResponse(employee))
}

// Detail handles GET /api/employees/:id/.
func (h *EmployeesHandler) Detail(c *fiber.Ctx) error {
	id, err := parseEmployeeID(c)
	if err != nil {
		return err
	}

	employee, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, "Employee retrieved successfully", dto.NewEmployeeResponse(employee))
}

// Update handles PUT/PATCH /api/employees/:id/update/.
func (h *EmployeesHandler) Update(c *fiber.Ctx) error {
	id, err := parseEmployeeID(c)
	if err != nil {
		return err
	}

	var req dto.EmployeeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewAppError(apperrors.TypeValidation, "Invalid request payload", http.StatusBadRequest, nil)
	}

	employee, err := h.service.Update(c.UserContext(), actorFromContext(c), id, service.EmployeeInput{
		Name:       req.Name,
		Email:      req.Email,
		Department: req.Department,
		Role:       req.Role,
	})
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, "Employee updated successfully", dto.NewEmployeeResponse(employee))
}

// Delete handles DELETE /api/employees/:id/delete/.
func (h *EmployeesHandler) Delete(c *fiber.Ctx) error {
	id, err := parseEmployeeID(c)
	if err != nil {
		return err
	}

	snapshot, err := h.service.Delete(c.UserContext(), actorFromContext(c), id)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, "Employee deleted successfully", dto.DeletedEmployeeResponse{
		ID:    snapshot.ID,
		Name:  snapshot.Name,
		Email: snapshot.Email,
	})
}

// parseEmployeeID treats a non-integer id as a nonexistent record.
func parseEmployeeID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewNotFound("Employee")
	}
	return id, nil
}

func parsePage(val string) int {
	if val == "" {
		return 1
	}
	page, err := strconv.Atoi(val)
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func actorFromContext(c *fiber.Ctx) events.Actor {
	if principal, ok := auth.PrincipalFromContext(c); ok {
		return events.Actor{UserID: principal.UserID, Username: principal.Username}
	}
	return events.Actor{}
}
