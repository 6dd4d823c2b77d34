package service

import (
	"fmt"
	"net/mail"
	"strings"
)

// ValidationMode selects which rules apply.
type ValidationMode int

const (
	// ModeFull requires name and email to be present (create).
	ModeFull ValidationMode = iota
	// ModePartial validates only the fields supplied (update).
	ModePartial
)

const (
	maxNameLength  = 100
	maxEmailLength = 254
	maxValueLength = 50

	msgRequired    = "This field is required."
	msgBlank       = "This field may not be blank."
	msgInvalidMail = "Enter a valid email address."
	msgDuplicate   = "employee with this email already exists."
)

// EmployeeInput carries incoming field data. Nil pointers mean the field was
// not supplied, which matters for partial updates.
type EmployeeInput struct {
	Name       *string
	Email      *string
	Department *string
	Role       *string
}

// validateEmployeeFields runs the type/constraint rules, accumulating one
// entry per violated field instead of failing on the first. Uniqueness is
// checked separately because it needs the record store.
func validateEmployeeFields(input EmployeeInput, mode ValidationMode) map[string][]string {
	fieldErrs := map[string][]string{}

	switch {
	case input.Name == nil:
		if mode == ModeFull {
			fieldErrs["name"] = append(fieldErrs["name"], msgRequired)
		}
	case strings.TrimSpace(*input.Name) == "":
		fieldErrs["name"] = append(fieldErrs["name"], msgBlank)
	case len(*input.Name) > maxNameLength:
		fieldErrs["name"] = append(fieldErrs["name"], lengthMessage(maxNameLength))
	}

	switch {
	case input.Email == nil:
		if mode == ModeFull {
			fieldErrs["email"] = append(fieldErrs["email"], msgRequired)
		}
	case strings.TrimSpace(*input.Email) == "":
		fieldErrs["email"] = append(fieldErrs["email"], msgBlank)
	default:
		email := strings.TrimSpace(*input.Email)
		if !isValidEmail(email) {
			fieldErrs["email"] = append(fieldErrs["email"], msgInvalidMail)
		}
		if len(email) > maxEmailLength {
			fieldErrs["email"] = append(fieldErrs["email"], lengthMessage(maxEmailLength))
		}
	}

	if input.Department != nil && len(strings.TrimSpace(*input.Department)) > maxValueLength {
		fieldErrs["department"] = append(fieldErrs["department"], lengthMessage(maxValueLength))
	}
	if input.Role != nil && len(strings.TrimSpace(*input.Role)) > maxValueLength {
		fieldErrs["role"] = append(fieldErrs["role"], lengthMessage(maxValueLength))
	}

	return fieldErrs
}

// isValidEmail accepts a bare well-formed address. The address must stand
// alone (no display name) and carry a dotted domain.
func isValidEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return false
	}
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return false
	}
	return strings.Contains(email[at+1:], ".")
}

func lengthMessage(max int) string {
	return fmt.Sprintf("Ensure this field has no more than %d characters.", max)
}
