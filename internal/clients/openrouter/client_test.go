package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
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

func testConfig() Config {
	return Config{APIKey: "sk-test", Model: "test/model", BaseURL: "http://router/api/v1", Timeout: time.Second}
}

func TestNewRequiresKeyAndModel(t *testing.T) {
	_, err := New(logger.Nop(), Config{APIKey: "k"})
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("err = %v, want ErrNotConfigured", err)
	}
	_, err = New(logger.Nop(), Config{Model: "m"})
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("err = %v, want ErrNotConfigured", err)
	}
}

func TestCompleteSendsSchemaRequest(t *testing.T) {
	client := &http.Client{Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		if req.URL.String() != "http://router/api/v1/chat/completions" {
			t.Fatalf("url = %s", req.URL)
		}
		if got := req.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Fatalf("authorization = %q", got)
		}
		if got := req.Header.Get("HTTP-Referer"); got != "https://telegram-dashboard.local" {
			t.Fatalf("referer = %q", got)
		}
		if got := req.Header.Get("X-Title"); got != "Telegram Dashboard" {
			t.Fatalf("title = %q", got)
		}
		var in map[string]any
		if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if in["model"] != "test/model" || in["temperature"] != 0.6 || in["max_tokens"] != 1600.0 {
			t.Fatalf("body = %v", in)
		}
		rf := in["response_format"].(map[string]any)
		js := rf["json_schema"].(map[string]any)
		if rf["type"] != "json_schema" || js["name"] != "telegram_report" {
			t.Fatalf("response_format = %v", rf)
		}
		msgs := in["messages"].([]any)
		if len(msgs) != 2 || msgs[0].(map[string]any)["role"] != "system" {
			t.Fatalf("messages = %v", msgs)
		}
		return jsonResponse(http.StatusOK, map[string]any{
			"choices": []any{map[string]any{"message": map[string]any{"content": "```json\n{\"a\":1}\n```"}}},
		}), nil
	})}

	c, err := NewWithHTTPClient(logger.Nop(), testConfig(), client)
	if err != nil {
		t.Fatalf("NewWithHTTPClient: %v", err)
	}
	text, ok, err := c.Complete(context.Background(), Request{
		System:      "sys",
		User:        "user",
		SchemaName:  "telegram_report",
		Schema:      map[string]any{"type": "object"},
		Temperature: 0.6,
		MaxTokens:   1600,
	})
	if err != nil || !ok {
		t.Fatalf("Complete = %q %v %v", text, ok, err)
	}
	if text != `{"a":1}` {
		t.Fatalf("text = %q", text)
	}
}

func TestCompleteSoftFailures(t *testing.T) {
	cases := []struct {
		name string
		rt   roundTripperFunc
	}{
		{"non-2xx", func(*http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusBadGateway, map[string]any{"error": "upstream"}), nil
		}},
		{"empty choices", func(*http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusOK, map[string]any{"choices": []any{}}), nil
		}},
		{"garbage body", func(*http.Request) (*http.Response, error) {
			return &http.Response{StatusCode: 200, Body: io.NopCloser(bytes.NewReader([]byte("<html>")))}, nil
		}},
		{"timeout", func(req *http.Request) (*http.Response, error) {
			<-req.Context().Done()
			return nil, req.Context().Err()
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.Timeout = 20 * time.Millisecond
			c, err := NewWithHTTPClient(logger.Nop(), cfg, &http.Client{Transport: tc.rt})
			if err != nil {
				t.Fatalf("NewWithHTTPClient: %v", err)
			}
			text, ok, err := c.Complete(context.Background(), Request{System: "s", User: "u"})
			if err != nil || ok || text != "" {
				t.Fatalf("Complete = %q %v %v, want soft failure", text, ok, err)
			}
		})
	}
}

func TestCompleteTransportErrorSurfaces(t *testing.T) {
	boom := errors.New("connection refused")
	c, err := NewWithHTTPClient(logger.Nop(), testConfig(), &http.Client{Transport: roundTripperFunc(func(*http.Request) (*http.Response, error) {
		return nil, boom
	})})
	if err != nil {
		t.Fatalf("NewWithHTTPClient: %v", err)
	}
	_, ok, err := c.Complete(context.Background(), Request{System: "s", User: "u"})
	if ok || !errors.Is(err, boom) {
		t.Fatalf("Complete ok=%v err=%v, want transport error", ok, err)
	}
}
