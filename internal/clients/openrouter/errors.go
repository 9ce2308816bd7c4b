package openrouter

import (
	"errors"
	"fmt"
)

var ErrNotConfigured = errors.New("AI service requires OPENROUTER_API_KEY and OPENROUTER_MODEL environment variables")

type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e == nil {
		return "openrouter http error"
	}
	if e.Body == "" {
		return fmt.Sprintf("openrouter http error: status=%d", e.StatusCode)
	}
	return fmt.Sprintf("openrouter http error: status=%d body=%s", e.StatusCode, e.Body)
}

func (e *HTTPError) HTTPStatusCode() int {
	if e == nil {
		return 0
	}
	return e.StatusCode
}
