package dto

import "github.com/spec-kit/employee-service/internal/domain"

// EmployeeRequest payload for create and update. Pointers distinguish absent
// fields, which partial updates rely on.
type EmployeeRequest struct {
	Name       *string `json:"name"`
	Email      *string `json:"email"`
	Department *string `json:"department"`
	Role       *string `json:"role"`
}

// EmployeeResponse wire shape of an employee record.
type EmployeeResponse struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Department *string `json:"department"`
	Role       *string `json:"role"`
	DateJoined string  `json:"date_joined"`
}

// EmployeeListResponse is one page of employees plus pagination metadata.
type EmployeeListResponse struct {
	Count      int64              `json:"count"`
	Page       int                `json:"page"`
	PageSize   int                `json:"page_size"`
	TotalPages int                `json:"total_pages"`
	Results    []EmployeeResponse `json:"results"`
}

// DeletedEmployeeResponse is the snapshot returned after a delete.
type DeletedEmployeeResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// NewEmployeeResponse maps a domain record to its wire shape.
func NewEmployeeResponse(employee *domain.Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:         employee.ID,
		Name:       employee.Name,
		Email:      employee.Email,
		Department: employee.Department,
		Role:       employee.Role,
		DateJoined: employee.DateJoined.Format(domain.DateLayout),
	}
}
