package domain

import "time"

// Employee is the aggregate managed by this service. ID and DateJoined are
// system-assigned at creation and never change afterwards.
type Employee struct {
	ID         int64
	Name       string
	Email      string
	Department *string
	Role       *string
	DateJoined time.Time
}

// DateLayout is the wire format for DateJoined.
const DateLayout = "2006-01-02"
