package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/yungbote/tgdash-backend/internal/platform/logger"
)

type roundTripperFunc func(req *http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) { return f(req) }

func jsonResponse(status int, v any) *http.Response {
	b, _ := json.Marshal(v)
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(bytes.NewReader(b)),
	}
}

func testClient(t *testing.T, maxRetries int, rt roundTripperFunc) *Client {
	t.Helper()
	c, err := NewWithHTTPClient(logger.Nop(), Config{
		Token:      "123:abc",
		ChatID:     "-1001",
		BaseURL:    "http://tg/",
		MaxRetries: maxRetries,
	}, &http.Client{Transport: rt})
	if err != nil {
		t.Fatalf("NewWithHTTPClient: %v", err)
	}
	c.backoff = time.Millisecond
	c.pause = 0
	return c
}

func TestNewRequiresToken(t *testing.T) {
	if _, err := New(logger.Nop(), Config{ChatID: "1"}); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("err = %v, want ErrNotConfigured", err)
	}
}

func TestSendReportPostsPartsInOrder(t *testing.T) {
	var got []sendMessage
	c := testClient(t, 0, func(req *http.Request) (*http.Response, error) {
		if req.URL.String() != "http://tg/bot123:abc/sendMessage" {
			t.Fatalf("url = %s", req.URL)
		}
		var m sendMessage
		if err := json.NewDecoder(req.Body).Decode(&m); err != nil {
			t.Fatalf("decode: %v", err)
		}
		got = append(got, m)
		return jsonResponse(200, map[string]any{"ok": true}), nil
	})

	if err := c.SendReport(context.Background(), "", "42", []string{"one", "two"}); err != nil {
		t.Fatalf("SendReport: %v", err)
	}
	if len(got) != 2 || got[0].Text != "one" || got[1].Text != "two" {
		t.Fatalf("messages = %+v", got)
	}
	if got[0].ChatID != "-1001" || got[0].ParseMode != "HTML" || got[0].MessageThreadID == nil || *got[0].MessageThreadID != 42 {
		t.Fatalf("payload = %+v", got[0])
	}
}

func TestSendReportOmitsThreadWhenEmpty(t *testing.T) {
	c := testClient(t, 0, func(req *http.Request) (*http.Response, error) {
		raw, _ := io.ReadAll(req.Body)
		if strings.Contains(string(raw), "message_thread_id") {
			t.Fatalf("thread id should be omitted: %s", raw)
		}
		if !strings.Contains(string(raw), `"chat_id":"-55"`) {
			t.Fatalf("explicit chat id not used: %s", raw)
		}
		return jsonResponse(200, map[string]any{"ok": true}), nil
	})
	if err := c.SendReport(context.Background(), "-55", "", []string{"x"}); err != nil {
		t.Fatalf("SendReport: %v", err)
	}
}

func TestSendReportMapsAPIErrors(t *testing.T) {
	cases := []struct {
		code int
		desc string
		want string
	}{
		{400, "Bad Request: chat not found", "Неверный chat_id или формат сообщения"},
		{401, "Unauthorized", "Неверный токен бота"},
		{403, "Forbidden", "Бот не добавлен в чат или не имеет прав на отправку сообщений"},
		{409, "Conflict: something", "Conflict: something"},
		{409, "", "Ошибка Telegram API"},
	}
	for _, tc := range cases {
		c := testClient(t, 0, func(*http.Request) (*http.Response, error) {
			return jsonResponse(tc.code, map[string]any{"ok": false, "error_code": tc.code, "description": tc.desc}), nil
		})
		err := c.SendReport(context.Background(), "", "", []string{"x"})
		var de *DeliveryError
		if !errors.As(err, &de) || de.Reason != tc.want || de.Status != tc.code || de.Part != 1 {
			t.Fatalf("code %d: err = %#v", tc.code, err)
		}
	}
}

func TestSendReportStopsAtFirstFailure(t *testing.T) {
	var calls int32
	c := testClient(t, 0, func(*http.Request) (*http.Response, error) {
		if atomic.AddInt32(&calls, 1) == 2 {
			return jsonResponse(400, map[string]any{"ok": false, "error_code": 400}), nil
		}
		return jsonResponse(200, map[string]any{"ok": true}), nil
	})
	err := c.SendReport(context.Background(), "", "", []string{"a", "b", "c"})
	var de *DeliveryError
	if !errors.As(err, &de) || de.Part != 2 || atomic.LoadInt32(&calls) != 2 {
		t.Fatalf("err = %v, calls = %d", err, calls)
	}
}

func TestSendRetriesRateLimit(t *testing.T) {
	var calls int32
	c := testClient(t, 2, func(*http.Request) (*http.Response, error) {
		if atomic.AddInt32(&calls, 1) < 3 {
			return jsonResponse(429, map[string]any{"ok": false, "error_code": 429, "description": "Too Many Requests"}), nil
		}
		return jsonResponse(200, map[string]any{"ok": true}), nil
	})
	if err := c.SendReport(context.Background(), "", "", []string{"x"}); err != nil {
		t.Fatalf("SendReport: %v", err)
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
}

func TestSendGivesUpAfterMaxRetries(t *testing.T) {
	var calls int32
	c := testClient(t, 1, func(*http.Request) (*http.Response, error) {
		atomic.AddInt32(&calls, 1)
		return jsonResponse(502, map[string]any{"ok": false, "error_code": 502, "description": "Bad Gateway"}), nil
	})
	err := c.SendReport(context.Background(), "", "", []string{"x"})
	var de *DeliveryError
	if !errors.As(err, &de) || de.Status != 502 || calls != 2 {
		t.Fatalf("err = %v, calls = %d", err, calls)
	}
}

func TestSendReadsRetryAfter(t *testing.T) {
	c := testClient(t, 0, func(*http.Request) (*http.Response, error) {
		return jsonResponse(429, map[string]any{
			"ok": false, "error_code": 429, "description": "Too Many Requests: retry after 7",
			"parameters": map[string]any{"retry_after": 7},
		}), nil
	})
	err := c.SendReport(context.Background(), "", "", []string{"x"})
	var de *DeliveryError
	if !errors.As(err, &de) || de.RetryAfter != 7 {
		t.Fatalf("err = %#v", err)
	}
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestSendTransportFailures(t *testing.T) {
	c := testClient(t, 0, func(*http.Request) (*http.Response, error) { return nil, timeoutErr{} })
	err := c.SendReport(context.Background(), "", "", []string{"x"})
	var de *DeliveryError
	if !errors.As(err, &de) || de.Reason != "Превышено время ожидания ответа от Telegram" {
		t.Fatalf("timeout: err = %v", err)
	}

	c = testClient(t, 0, func(*http.Request) (*http.Response, error) { return nil, errors.New("connection refused") })
	err = c.SendReport(context.Background(), "", "", []string{"x"})
	if !errors.As(err, &de) || de.Reason != "Ошибка сети: connection refused" {
		t.Fatalf("network: err = %v", err)
	}
	if strings.Contains(err.Error(), "123:abc") {
		t.Fatalf("reason leaks the token: %v", err)
	}
}

func TestSendReportRequiresChat(t *testing.T) {
	c, err := New(logger.Nop(), Config{Token: "t"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := c.SendReport(context.Background(), "", "", []string{"x"}); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("err = %v, want ErrNotConfigured", err)
	}
}
