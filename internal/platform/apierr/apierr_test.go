package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestFromError(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{errors.New("Invalid chat_id"), http.StatusBadRequest},
		{errors.New("date is required"), http.StatusBadRequest},
		{errors.New("chat not found"), http.StatusNotFound},
		{errors.New("AI service requires OPENROUTER_API_KEY"), http.StatusServiceUnavailable},
		{fmt.Errorf("call: %w", errors.New("OpenRouter returned 502")), http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
		{New(http.StatusBadGateway, "upstream", errors.New("Invalid but upstream")), http.StatusBadGateway},
	}
	for _, tc := range cases {
		got := FromError(tc.err)
		if got.Status != tc.status {
			t.Fatalf("FromError(%q).Status = %d, want %d", tc.err, got.Status, tc.status)
		}
		if got.Error() != tc.err.Error() {
			t.Fatalf("message changed: %q", got.Error())
		}
	}
	if FromError(nil) != nil {
		t.Fatalf("nil error should map to nil")
	}
}

func TestErrorMessageFallbacks(t *testing.T) {
	if got := (&Error{Code: "internal"}).Error(); got != "internal" {
		t.Fatalf("code fallback = %q", got)
	}
	if got := (&Error{Status: 502}).Error(); got != "api error (502)" {
		t.Fatalf("status fallback = %q", got)
	}
	var e *Error
	if e.Error() != "" {
		t.Fatalf("nil receiver should be empty")
	}
}
