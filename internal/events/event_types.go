package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventEmployeeCreated EventType = "employee_created"
	EventEmployeeUpdated EventType = "employee_updated"
	EventEmployeeDeleted EventType = "employee_deleted"
)

// Actor records which principal performed the mutation.
type Actor struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	EmployeeID int64       `json:"employee_id"`
	Actor      Actor       `json:"actor"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload"`
}

// EmployeeCreatedPayload payload.
type EmployeeCreatedPayload struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// EmployeeUpdatedPayload payload.
type EmployeeUpdatedPayload struct {
	ChangedFields []string `json:"changed_fields"`
}

// EmployeeDeletedPayload carries the pre-delete snapshot.
type EmployeeDeletedPayload struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}
