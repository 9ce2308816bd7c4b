package report

import (
	"errors"
	"strings"
	"time"

	"github.com/yungbote/tgdash-backend/internal/domain/chatlog"
)

var ErrInvalidDate = errors.New("Invalid date format. Expected YYYY-MM-DD.")

// ResolveWindow picks the report window. days wins over date; an explicit
// date is that UTC calendar day; otherwise the last 24 hours ending at now.
func ResolveWindow(date string, days int, now time.Time) (chatlog.Window, error) {
	if days > 0 {
		return chatlog.Window{From: now.Add(-time.Duration(days) * 24 * time.Hour), To: now}, nil
	}
	if d := strings.TrimSpace(date); d != "" {
		from, err := time.ParseInLocation("2006-01-02", d, time.UTC)
		if err != nil {
			return chatlog.Window{}, ErrInvalidDate
		}
		return chatlog.Window{From: from, To: from.Add(24 * time.Hour)}, nil
	}
	return chatlog.Window{From: now.Add(-24 * time.Hour), To: now}, nil
}
