package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/yungbote/tgdash-backend/internal/observability"
	"github.com/yungbote/tgdash-backend/internal/pkg/httpx"
	"github.com/yungbote/tgdash-backend/internal/platform/envutil"
	"github.com/yungbote/tgdash-backend/internal/platform/logger"
)

const (
	defaultBaseURL    = "https://api.telegram.org"
	defaultTimeout    = 10 * time.Second
	defaultMaxRetries = 2
	partPause         = 100 * time.Millisecond
	maxBackoff        = 30 * time.Second
)

type Config struct {
	Token      string
	ChatID     string
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
}

func ConfigFromEnv(log *logger.Logger) Config {
	return Config{
		Token:      envutil.String("TELEGRAM_BOT_TOKEN", "", nil),
		ChatID:     envutil.String("TELEGRAM_CHAT_ID", "", log),
		BaseURL:    envutil.String("TELEGRAM_API_URL", defaultBaseURL, log),
		Timeout:    defaultTimeout,
		MaxRetries: envutil.Int("TELEGRAM_MAX_RETRIES", defaultMaxRetries, log),
	}
}

type Client struct {
	log        *logger.Logger
	cfg        Config
	httpClient *http.Client
	backoff    time.Duration
	pause      time.Duration
}

func New(log *logger.Logger, cfg Config) (*Client, error) {
	cfg.Token = strings.TrimSpace(cfg.Token)
	cfg.ChatID = strings.TrimSpace(cfg.ChatID)
	if cfg.Token == "" {
		return nil, ErrNotConfigured
	}
	if log == nil {
		log = logger.Nop()
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	return &Client{
		log:        log.With("client", "TelegramClient"),
		cfg:        cfg,
		httpClient: &http.Client{},
		backoff:    time.Second,
		pause:      partPause,
	}, nil
}

// NewWithHTTPClient swaps the transport, mostly for tests.
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

// DefaultChatID is the configured delivery target.
func (c *Client) DefaultChatID() string { return c.cfg.ChatID }

type sendMessage struct {
	ChatID          string `json:"chat_id"`
	Text            string `json:"text"`
	ParseMode       string `json:"parse_mode"`
	MessageThreadID *int64 `json:"message_thread_id,omitempty"`
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	ErrorCode   int    `json:"error_code"`
	Description string `json:"description"`
	Parameters  struct {
		RetryAfter int `json:"retry_after"`
	} `json:"parameters"`
}

// SendReport delivers parts in order as HTML messages. An empty chatID means
// the configured chat; threadID, when set, targets a forum topic. The first
// failing part aborts the rest.
func (c *Client) SendReport(ctx context.Context, chatID, threadID string, parts []string) error {
	chatID = strings.TrimSpace(chatID)
	if chatID == "" {
		chatID = c.cfg.ChatID
	}
	if chatID == "" {
		return ErrNotConfigured
	}
	var thread *int64
	if t := strings.TrimSpace(threadID); t != "" {
		id, err := strconv.ParseInt(t, 10, 64)
		if err != nil {
			return fmt.Errorf("Invalid thread_id %q", threadID)
		}
		thread = &id
	}

	metrics := observability.Current()
	for i, text := range parts {
		err := c.send(ctx, sendMessage{ChatID: chatID, Text: text, ParseMode: "HTML", MessageThreadID: thread})
		if err != nil {
			var de *DeliveryError
			if errors.As(err, &de) {
				de.Part = i + 1
			}
			metrics.IncDelivery("error")
			c.log.Warn("Telegram delivery failed", "chat_id", chatID, "part", i+1, "parts", len(parts), "error", err)
			return err
		}
		metrics.IncDelivery("ok")
		if i < len(parts)-1 {
			if err := httpx.Sleep(ctx, c.pause); err != nil {
				return err
			}
		}
	}
	c.log.Info("Telegram delivery complete", "chat_id", chatID, "parts", len(parts))
	return nil
}

// send retries 429 and 5xx answers, honoring retry_after when Telegram sets it.
func (c *Client) send(ctx context.Context, msg sendMessage) error {
	backoff := c.backoff
	for attempt := 0; ; attempt++ {
		err := c.sendOnce(ctx, msg)
		if err == nil {
			return nil
		}
		if !httpx.IsRetryableError(err) || attempt >= c.cfg.MaxRetries {
			return err
		}

		sleepFor := httpx.JitterSleep(backoff)
		var de *DeliveryError
		if errors.As(err, &de) && de.RetryAfter > 0 {
			sleepFor = httpx.RetryAfter(de.RetryAfter, backoff, maxBackoff)
		}
		c.log.Warn("Telegram request retrying",
			"attempt", attempt+1,
			"max_retries", c.cfg.MaxRetries,
			"sleep", sleepFor.String(),
			"error", err,
		)
		if err := httpx.Sleep(ctx, sleepFor); err != nil {
			return err
		}
		backoff *= 2
	}
}

func (c *Client) sendOnce(ctx context.Context, msg sendMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	reqCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	endpoint := c.cfg.BaseURL + "/bot" + c.cfg.Token + "/sendMessage"
	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if httpx.IsTimeout(err) {
			return &DeliveryError{Reason: reasonTimeout, Err: err}
		}
		return &DeliveryError{Reason: reasonNetwork + transportMessage(err), Err: err}
	}
	raw, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return &DeliveryError{Reason: reasonNetwork + err.Error(), Err: err}
	}

	var out apiResponse
	decodeErr := json.Unmarshal(raw, &out)
	if decodeErr == nil && out.OK && resp.StatusCode < 300 {
		return nil
	}
	code := out.ErrorCode
	if code == 0 {
		code = resp.StatusCode
	}
	return &DeliveryError{
		Status:     code,
		Reason:     reasonFor(code, strings.TrimSpace(out.Description)),
		RetryAfter: out.Parameters.RetryAfter,
	}
}

// transportMessage drops the "Post <url>:" prefix net/http adds, which would
// otherwise leak the bot token into the reason.
func transportMessage(err error) string {
	var ue interface{ Unwrap() error }
	if errors.As(err, &ue) {
		if inner := ue.Unwrap(); inner != nil {
			return inner.Error()
		}
	}
	return err.Error()
}
