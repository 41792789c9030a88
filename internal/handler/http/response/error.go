package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/office-attendance/internal/domain/auth"
	"github.com/cmlabs-hris/office-attendance/internal/domain/compliance"
	"github.com/cmlabs-hris/office-attendance/internal/domain/employee"
	"github.com/cmlabs-hris/office-attendance/internal/domain/punch"
	"github.com/cmlabs-hris/office-attendance/internal/domain/report"
	"github.com/cmlabs-hris/office-attendance/internal/pkg/storage"
	"github.com/cmlabs-hris/office-attendance/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrAdminPrivilegeRequired):
		Forbidden(w, "Admin privilege required")

	// Compliance domain errors
	case errors.Is(err, compliance.ErrInvalidPeriod),
		errors.Is(err, punch.ErrInvalidRange):
		BadRequest(w, err.Error(), nil)

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrInvalidID):
		BadRequest(w, err.Error(), nil)

	// Report domain errors
	case errors.Is(err, report.ErrInvalidMonth),
		errors.Is(err, report.ErrInvalidYear),
		errors.Is(err, report.ErrInvalidMonthsBack):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, storage.ErrFileNotFound):
		NotFound(w, "File not found")
	case errors.Is(err, storage.ErrInvalidPath):
		BadRequest(w, err.Error(), nil)

	// Default
	default:
		slog.Error("Unhandled request error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
