package handler

import (
	"errors"
	"net/http"

	apperrors "memowindow/pkg/errors"

	"github.com/labstack/echo/v4"
)

// MapToPublicError maps internal errors to public-facing HTTP status codes and messages
// This prevents information disclosure by providing consistent, generic error messages
func MapToPublicError(err error) (int, string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, "resource not found"
	case errors.Is(err, apperrors.ErrNoBackupFound):
		return http.StatusNotFound, "no backup found"
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized, "authentication required"
	case errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden, "access denied"
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict, "resource conflict"
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest, publicValidationMessage(err)
	case errors.Is(err, apperrors.ErrExpired):
		return http.StatusGone, "resource expired"
	default:
		// Never expose internal errors to clients
		return http.StatusInternalServerError, "internal server error"
	}
}

// publicValidationMessage surfaces the typed validation reason itself; these
// are written for end users, unlike internal error text.
func publicValidationMessage(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return "invalid input"
}

// RespondWithMappedError responds with a mapped error, preventing information disclosure
func RespondWithMappedError(c echo.Context, err error) error {
	status, msg := MapToPublicError(err)
	return respondError(c, status, msg)
}

// SafeErrorResponse returns the same "not found" answer for both missing
// resources and authorization failures, so callers cannot probe for
// existence. The real error is logged.
func SafeErrorResponse(c echo.Context, err error) error {
	c.Logger().Errorf("error (masked as 404): %v", err)
	return respondError(c, http.StatusNotFound, msgNotFound)
}
