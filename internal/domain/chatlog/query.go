package chatlog

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidChatID   = errors.New("Invalid chat_id")
	ErrInvalidThreadID = errors.New("Invalid thread_id")
)

// Filter narrows queries to one chat and optionally one forum thread.
type Filter struct {
	ChatID   *int64
	ThreadID *int64
}

// ParseFilter parses the optional numeric chat and thread ids received as
// query strings. Blank values mean "no filter".
func ParseFilter(chatID, threadID string) (Filter, error) {
	var f Filter
	if s := strings.TrimSpace(chatID); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return Filter{}, ErrInvalidChatID
		}
		f.ChatID = &id
	}
	if s := strings.TrimSpace(threadID); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return Filter{}, ErrInvalidThreadID
		}
		f.ThreadID = &id
	}
	return f, nil
}

// Window is the half-open interval [From, To).
type Window struct {
	From time.Time
	To   time.Time
}

type Bucket string

const (
	BucketHour Bucket = "hour"
	BucketDay  Bucket = "day"
)

// Bucket picks the series granularity: days for windows longer than two days.
func (w Window) Bucket() Bucket {
	if w.To.Sub(w.From) > 48*time.Hour {
		return BucketDay
	}
	return BucketHour
}

type Query struct {
	Filter
	Window
}

var (
	linkRe        = regexp.MustCompile(`https?://\S+`)
	trailingPunct = ".,;:!?)]}»\"'"
)

// ExtractLinks returns every http(s) URL in text with trailing punctuation
// removed.
func ExtractLinks(text string) []string {
	raw := linkRe.FindAllString(text, -1)
	out := make([]string, 0, len(raw))
	for _, l := range raw {
		l = strings.TrimRight(l, trailingPunct)
		if l != "" {
			out = append(out, l)
		}
	}
	return out
}
