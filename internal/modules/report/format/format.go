// Package format turns finished reports into the dashboard payload and into
// Telegram HTML messages.
package format

import (
	"encoding/json"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/yungbote/tgdash-backend/internal/modules/report"
	"github.com/yungbote/tgdash-backend/internal/modules/report/personas"
)

// TelegramLimit keeps each part safely under Telegram's 4096 character cap.
const TelegramLimit = 4000

const (
	digestTitle = "AI Дайджест"
	dailyTitle  = "AI Дневной Отчет"
)

// Rich is the UI payload. It has exactly the JSON shape of the result.
func Rich(res *report.Result) map[string]any {
	if res == nil {
		return nil
	}
	b, err := json.Marshal(res)
	if err != nil {
		return nil
	}
	var out map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil
	}
	return out
}

// Telegram renders res as a Telegram HTML message. now stamps the footer.
func Telegram(res *report.Result, now time.Time) string {
	if res == nil {
		return "🤖 <b>" + digestTitle + "</b>\n\n❌ Отчет недоступен"
	}
	d := &doc{}

	switch {
	case res.Persona != "" && res.Data != nil:
		render, ok := renderers[res.Persona]
		if !ok {
			return unknownFormat()
		}
		title := digestTitle
		if res.Persona == personas.DailySummary {
			title = dailyTitle
		}
		d.header(title, res.Date, "Эксперт: "+res.Persona.Label())
		if !render(d, res.Data) {
			return unknownFormat()
		}
	case res.FlatReport != nil:
		d.header(digestTitle, res.Date, "")
		renderFlat(d, res.FlatReport)
	default:
		return unknownFormat()
	}

	d.footer(now)
	return d.String()
}

func unknownFormat() string {
	return "🤖 <b>" + digestTitle + "</b>\n\n❓ Неизвестный формат отчета"
}

// Split breaks text into parts of at most limit characters, cutting on line
// boundaries. A single line longer than limit is truncated with "...". Blank
// text yields no parts.
func Split(text string, limit int) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if limit <= 3 || utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}

	var (
		parts  []string
		cur    strings.Builder
		curLen int
	)
	flush := func() {
		if p := strings.TrimSpace(cur.String()); p != "" {
			parts = append(parts, p)
		}
		cur.Reset()
		curLen = 0
	}

	for _, line := range strings.Split(text, "\n") {
		n := utf8.RuneCountInString(line)
		if curLen+n+1 > limit {
			flush()
			if n > limit {
				parts = append(parts, string([]rune(line)[:limit-3])+"...")
				continue
			}
		}
		cur.WriteString(line)
		cur.WriteByte('\n')
		curLen += n + 1
	}
	flush()
	return parts
}
