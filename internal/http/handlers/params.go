package handlers

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/tgdash-backend/internal/domain/chatlog"
	"github.com/yungbote/tgdash-backend/internal/modules/report"
)

// windowDays accepts 1 or 7; anything else is 1.
func windowDays(raw string) int {
	if strings.TrimSpace(raw) == "7" {
		return 7
	}
	return 1
}

func lastDays(now time.Time, days int) chatlog.Window {
	return chatlog.Window{From: now.Add(-time.Duration(days) * 24 * time.Hour), To: now}
}

// reportParams reads the shared report query string. days is only set when
// the parameter is present so an explicit date keeps selecting a calendar day.
func reportParams(c *gin.Context) report.Params {
	p := report.Params{
		Date:     strings.TrimSpace(c.Query("date")),
		ChatID:   strings.TrimSpace(c.Query("chat_id")),
		ThreadID: strings.TrimSpace(c.Query("thread_id")),
		Persona:  strings.TrimSpace(c.Query("persona")),
	}
	if raw, ok := c.GetQuery("days"); ok {
		p.Days = windowDays(raw)
	}
	return p
}
