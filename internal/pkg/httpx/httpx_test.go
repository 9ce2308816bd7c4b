package httpx

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

type statusErr int

func (e statusErr) Error() string       { return fmt.Sprintf("status %d", int(e)) }
func (e statusErr) HTTPStatusCode() int { return int(e) }

func TestIsRetryableError(t *testing.T) {
	for code, want := range map[int]bool{400: false, 401: false, 408: true, 429: true, 500: true, 503: true} {
		if got := IsRetryableError(fmt.Errorf("wrapped: %w", statusErr(code))); got != want {
			t.Fatalf("IsRetryableError(%d) = %v", code, got)
		}
	}
	if IsRetryableError(context.DeadlineExceeded) {
		t.Fatalf("timeouts are not retried")
	}
	if !IsTimeout(fmt.Errorf("x: %w", context.DeadlineExceeded)) || IsTimeout(errors.New("x")) {
		t.Fatalf("IsTimeout misclassified")
	}
}

func TestRetryAfter(t *testing.T) {
	if got := RetryAfter(0, time.Second, time.Minute); got != time.Second {
		t.Fatalf("fallback = %v", got)
	}
	if got := RetryAfter(5, time.Second, time.Minute); got != 5*time.Second {
		t.Fatalf("server delay = %v", got)
	}
	if got := RetryAfter(600, time.Second, 30*time.Second); got != 30*time.Second {
		t.Fatalf("clamped = %v", got)
	}
}

func TestJitterSleepBounds(t *testing.T) {
	for i := 0; i < 50; i++ {
		d := JitterSleep(time.Second)
		if d < 800*time.Millisecond || d > 1200*time.Millisecond {
			t.Fatalf("jitter out of range: %v", d)
		}
	}
	if JitterSleep(0) != 0 {
		t.Fatalf("zero base should not sleep")
	}
}

func TestSleepHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := Sleep(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Fatalf("Sleep err = %v", err)
	}
}
