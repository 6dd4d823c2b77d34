package util

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Error type identifiers surfaced to clients as error_type.
const (
	TypeMissingFields  = "MissingFieldsError"
	TypeAuthentication = "AuthenticationError"
	TypeToken          = "TokenError"
	TypeValidation     = "ValidationError"
	TypeNotFound       = "NotFoundError"
	TypeIntegrity      = "IntegrityError"
	TypeDatabase       = "DatabaseError"
	TypeServer         = "ServerError"
)

const uniqueViolationCode = "23505"

// AppError standardizes application errors.
type AppError struct {
	Type       string
	Message    string
	HTTPStatus int
	Fields     map[string][]string
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError constructs an AppError.
func NewAppError(errType, message string, status int, fields map[string][]string) *AppError {
	return &AppError{Type: errType, Message: message, HTTPStatus: status, Fields: fields}
}

func NewMissingFields(message string) error {
	return NewAppError(TypeMissingFields, message, http.StatusBadRequest, nil)
}

func NewAuthentication(message string) error {
	return NewAppError(TypeAuthentication, message, http.StatusUnauthorized, nil)
}

func NewTokenError(message string) error {
	return NewAppError(TypeToken, message, http.StatusBadRequest, nil)
}

func NewValidation(fields map[string][]string) error {
	return NewAppError(TypeValidation, "Validation error", http.StatusBadRequest, fields)
}

func NewNotFound(resource string) error {
	return NewAppError(TypeNotFound, fmt.Sprintf("%s not found", resource), http.StatusNotFound, nil)
}

func NewIntegrity(message string, fields map[string][]string) error {
	return NewAppError(TypeIntegrity, message, http.StatusBadRequest, fields)
}

func NewDatabase(err error) error {
	return &AppError{
		Type:       TypeDatabase,
		Message:    "database error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func NewServer(err error) error {
	return &AppError{
		Type:       TypeServer,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToAppError converts generic errors to AppError. pgx sentinel and constraint
// errors are mapped so expected storage outcomes never surface as a 500.
func ToAppError(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return NewNotFound("Resource").(*AppError)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == uniqueViolationCode {
			return NewIntegrity("Integrity error", map[string][]string{
				"email": {"employee with this email already exists."},
			}).(*AppError)
		}
		return NewDatabase(err).(*AppError)
	}
	return NewServer(err).(*AppError)
}

// IsUniqueViolation reports whether err is a storage-level unique constraint
// failure, used to detect create/update races on email.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
