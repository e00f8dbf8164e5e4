package common

import (
	"errors"
	"net/http"
)

var (
	ErrInvalidInterval    = errors.New("start time must be before end time")
	ErrPastSchedule       = errors.New("meeting cannot be scheduled in the past")
	ErrSchedulingConflict = errors.New("scheduling conflict detected")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrRequestNotEligible = errors.New("request is not eligible for a meeting")
	ErrForbidden          = errors.New("forbidden")
	ErrAlreadyMember      = errors.New("already a participant in this conversation")
	ErrInvalidMessage     = errors.New("invalid message")
	ErrNotFound           = errors.New("not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthenticated    = errors.New("unauthenticated")
)

// HTTPStatus maps the error taxonomy onto REST status codes.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrSchedulingConflict), errors.Is(err, ErrAlreadyMember):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidInterval),
		errors.Is(err, ErrPastSchedule),
		errors.Is(err, ErrInvalidTransition),
		errors.Is(err, ErrRequestNotEligible),
		errors.Is(err, ErrInvalidMessage),
		errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// ErrorCode is the short machine-readable name used by the realtime error event.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrInvalidInterval):
		return "invalid_interval"
	case errors.Is(err, ErrPastSchedule):
		return "past_schedule"
	case errors.Is(err, ErrSchedulingConflict):
		return "scheduling_conflict"
	case errors.Is(err, ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, ErrRequestNotEligible):
		return "request_not_eligible"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrAlreadyMember):
		return "already_member"
	case errors.Is(err, ErrInvalidMessage):
		return "invalid_message"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidInput):
		return "bad_request"
	case errors.Is(err, ErrUnauthenticated):
		return "unauthenticated"
	default:
		return "internal_error"
	}
}
