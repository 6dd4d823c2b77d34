package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/employee-service/internal/service"
)

// MetaHandler exposes distinct department and role listings.
type MetaHandler struct {
	service *service.EmployeeService
}

// NewMetaHandler constructs handler.
func NewMetaHandler(employeeService *service.EmployeeService) *MetaHandler {
	return &MetaHandler{service: employeeService}
}

// Departments handles GET /api/departments/.
func (h *MetaHandler) Departments(c *fiber.Ctx) error {
	values, err := h.service.Departments(c.UserContext())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Departments retrieved successfully", values)
}

// Roles handles GET /api/roles/.
func (h *MetaHandler) Roles(c *fiber.Ctx) error {
	values, err := h.service.Roles(c.UserContext())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Roles retrieved successfully", values)
}
