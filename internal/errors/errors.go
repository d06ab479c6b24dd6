package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrDonationNotFound is returned when a donation is not found.
	ErrDonationNotFound = errors.New("donation not found")
	// ErrAppointmentNotFound is returned when an appointment is not found.
	ErrAppointmentNotFound = errors.New("appointment not found")
	// ErrDonationUnavailable is returned when a donation cannot be claimed.
	ErrDonationUnavailable = errors.New("donation is not available")
	// ErrDonationNotCompleted is returned when reviewing a donation that is not completed.
	ErrDonationNotCompleted = errors.New("donation is not completed")
	// ErrAlreadyReviewed is returned when a donation was already reviewed.
	ErrAlreadyReviewed = errors.New("donation already reviewed")
	// ErrAppointmentExists is returned when a donation already has an appointment.
	ErrAppointmentExists = errors.New("donation already has an appointment")
	// ErrInvalidStatusTransition is returned on an illegal status change.
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	// ErrForbidden is returned when a user acts outside their role or ownership.
	ErrForbidden = errors.New("operation not allowed for this user")
	// ErrInvalidQuantity is returned when a donation quantity is not positive.
	ErrInvalidQuantity = errors.New("quantity must be positive")
	// ErrInvalidScore is returned when a review score is out of range.
	ErrInvalidScore = errors.New("score must be between 1 and 5")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch err {
	case ErrUserNotFound:
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case ErrDonationNotFound:
		return NewHTTPError(http.StatusNotFound, err.Error(), "DONATION_NOT_FOUND")
	case ErrAppointmentNotFound:
		return NewHTTPError(http.StatusNotFound, err.Error(), "APPOINTMENT_NOT_FOUND")
	case ErrDonationUnavailable:
		return NewHTTPError(http.StatusConflict, err.Error(), "DONATION_UNAVAILABLE")
	case ErrAppointmentExists:
		return NewHTTPError(http.StatusConflict, err.Error(), "APPOINTMENT_EXISTS")
	case ErrAlreadyReviewed:
		return NewHTTPError(http.StatusConflict, err.Error(), "ALREADY_REVIEWED")
	case ErrForbidden:
		return NewHTTPError(http.StatusForbidden, err.Error(), "FORBIDDEN")
	case ErrInvalidStatusTransition:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_STATUS_TRANSITION")
	case ErrDonationNotCompleted:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "DONATION_NOT_COMPLETED")
	case ErrInvalidQuantity:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_QUANTITY")
	case ErrInvalidScore:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_SCORE")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
