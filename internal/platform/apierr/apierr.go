package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// FromError maps any error onto an *Error. Errors that already carry a status
// keep it; the rest are classified by message the same way the dashboard
// always did: "Invalid"/"required" -> 400, "not found" -> 404,
// "AI service"/"OpenRouter" -> 503, everything else -> 500.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) && ae.Status != 0 {
		return ae
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "Invalid"), strings.Contains(msg, "required"):
		return New(http.StatusBadRequest, "invalid_request", err)
	case strings.Contains(msg, "not found"):
		return New(http.StatusNotFound, "not_found", err)
	case strings.Contains(msg, "AI service"), strings.Contains(msg, "OpenRouter"):
		return New(http.StatusServiceUnavailable, "ai_unavailable", err)
	default:
		return New(http.StatusInternalServerError, "internal", err)
	}
}
