package services

import (
	"errors"
	"fmt"

	"github.com/SAP-F-2025/internship-tracker/internal/repositories"
	"github.com/SAP-F-2025/internship-tracker/internal/validator"
)

var (
	ErrValidationFailed   = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")

	// Storage sentinels are shared so callers only import services
	ErrNotFound   = repositories.ErrNotFound
	ErrConnection = repositories.ErrConnection
	ErrQuery      = repositories.ErrQuery
)

// validationFailed matches both ErrValidationFailed and validator.ValidationErrors.
func validationFailed(verrs validator.ValidationErrors) error {
	return fmt.Errorf("%w: %w", ErrValidationFailed, verrs)
}

// FieldErrors extracts per-field messages from a validation failure.
func FieldErrors(err error) map[string]string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return verrs.ByField()
	}
	return nil
}
