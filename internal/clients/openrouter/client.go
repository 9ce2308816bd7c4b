package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/yungbote/tgdash-backend/internal/pkg/httpx"
	"github.com/yungbote/tgdash-backend/internal/platform/envutil"
	"github.com/yungbote/tgdash-backend/internal/platform/logger"
)

const (
	defaultBaseURL = "https://openrouter.ai/api/v1"
	defaultTimeout = 20 * time.Second
	referer        = "https://telegram-dashboard.local"
	title          = "Telegram Dashboard"
)

type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

func ConfigFromEnv(log *logger.Logger) Config {
	return Config{
		APIKey:  envutil.String("OPENROUTER_API_KEY", "", nil),
		Model:   envutil.String("OPENROUTER_MODEL", "", log),
		BaseURL: envutil.String("OPENROUTER_BASE_URL", defaultBaseURL, log),
		Timeout: envutil.Millis("OPENROUTER_TIMEOUT_MS", defaultTimeout, log),
	}
}

// Configured reports whether both credentials needed for a call are present.
func (c Config) Configured() bool {
	return strings.TrimSpace(c.APIKey) != "" && strings.TrimSpace(c.Model) != ""
}

// Request is one structured completion: a system and user message plus the
// JSON-Schema the answer must follow.
type Request struct {
	System      string
	User        string
	SchemaName  string
	Schema      map[string]any
	Temperature float64
	MaxTokens   int
}

type Client struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	model      string
	timeout    time.Duration
	httpClient *http.Client
}

func New(log *logger.Logger, cfg Config) (*Client, error) {
	if !cfg.Configured() {
		return nil, ErrNotConfigured
	}
	if log == nil {
		log = logger.Nop()
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:   true,
		MaxIdleConns:        20,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	return &Client{
		log:        log.With("client", "OpenRouterClient"),
		baseURL:    baseURL,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		model:      strings.TrimSpace(cfg.Model),
		timeout:    timeout,
		httpClient: &http.Client{Transport: tr},
	}, nil
}

// NewWithHTTPClient is intended for tests; it avoids network access by using a custom RoundTripper.
func NewWithHTTPClient(log *logger.Logger, cfg Config, httpClient *http.Client) (*Client, error) {
	c, err := New(log, cfg)
	if err != nil {
		return nil, err
	}
	if httpClient != nil {
		c.httpClient = httpClient
	}
	return c, nil
}

func (c *Client) Model() string { return c.model }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type jsonSchemaFormat struct {
	Name   string         `json:"name"`
	Schema map[string]any `json:"schema"`
}

type responseFormat struct {
	Type       string           `json:"type"`
	JSONSchema jsonSchemaFormat `json:"json_schema"`
}

type chatCompletionRequest struct {
	Model          string          `json:"model"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
	Messages       []chatMessage   `json:"messages"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content,omitempty"`
		} `json:"message,omitempty"`
	} `json:"choices"`
}

// Complete sends one chat completion and returns the raw text of the first
// choice. Timeouts, non-2xx answers and empty choices are soft failures:
// ok is false and err is nil. err is only set when the request could not be
// made at all or the caller's context ended.
func (c *Client) Complete(ctx context.Context, r Request) (string, bool, error) {
	body := chatCompletionRequest{
		Model:       c.model,
		Temperature: r.Temperature,
		Messages: []chatMessage{
			{Role: "system", Content: r.System},
			{Role: "user", Content: r.User},
		},
		MaxTokens: r.MaxTokens,
	}
	if r.Schema != nil {
		body.ResponseFormat = &responseFormat{
			Type:       "json_schema",
			JSONSchema: jsonSchemaFormat{Name: r.SchemaName, Schema: r.Schema},
		}
	}

	c.log.Info("OpenRouter request",
		"model", c.model,
		"schema", r.SchemaName,
		"temperature", r.Temperature,
		"max_tokens", r.MaxTokens,
		"timeout_ms", c.timeout.Milliseconds(),
		"system_len", len(r.System),
		"user_len", len(r.User),
	)
	if logger.Verbose() {
		c.log.Debug("OpenRouter request messages", "system_prompt", r.System, "user_prompt", r.User)
	}

	start := time.Now()
	var resp chatCompletionResponse
	err := c.doJSON(ctx, http.MethodPost, "/chat/completions", body, &resp)
	dur := time.Since(start)
	if err != nil {
		var he *HTTPError
		switch {
		case errors.As(err, &he):
			c.log.Warn("OpenRouter non-2xx response",
				"status", he.StatusCode,
				"retryable", httpx.IsRetryableHTTPStatus(he.StatusCode),
				"body", he.Body,
				"duration_ms", dur.Milliseconds(),
			)
			return "", false, nil
		case ctx.Err() != nil:
			return "", false, ctx.Err()
		case httpx.IsTimeout(err):
			c.log.Warn("OpenRouter request timed out", "duration_ms", dur.Milliseconds())
			return "", false, nil
		case isDecodeError(err):
			c.log.Warn("OpenRouter response body undecodable", "error", err)
			return "", false, nil
		default:
			c.log.Error("OpenRouter request failed", "error", err, "duration_ms", dur.Milliseconds())
			return "", false, err
		}
	}

	text := extractChatText(resp)
	c.log.Info("OpenRouter response", "duration_ms", dur.Milliseconds(), "choices", len(resp.Choices), "content_len", len(text))
	if strings.TrimSpace(text) == "" {
		return "", false, nil
	}
	c.log.Debug("OpenRouter raw content", "raw", text)
	return sanitizeJSONText(text), true, nil
}

func extractChatText(resp chatCompletionResponse) string {
	for _, ch := range resp.Choices {
		if strings.TrimSpace(ch.Message.Content) != "" {
			return ch.Message.Content
		}
	}
	return ""
}

// sanitizeJSONText strips a ```json fence some models wrap around their answer.
func sanitizeJSONText(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	firstNL := strings.IndexByte(s, '\n')
	if firstNL == -1 {
		return strings.TrimSpace(strings.Trim(s, "`"))
	}
	s = s[firstNL+1:]
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}

type decodeError struct{ err error }

func (e *decodeError) Error() string { return "decode response: " + e.err.Error() }
func (e *decodeError) Unwrap() error { return e.err }

func isDecodeError(err error) bool {
	var de *decodeError
	return errors.As(err, &de)
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("HTTP-Referer", referer)
	req.Header.Set("X-Title", title)
}

func (c *Client) doJSON(ctx context.Context, method, path string, body any, out any) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return err
	}

	ctx2, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx2, method, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return &HTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if httpx.IsTimeout(err) {
			return err
		}
		return &decodeError{err: err}
	}
	return nil
}
