package format

import (
	"fmt"
	"strings"
	"time"
)

const (
	rule    = "━━━━━━━━━━━━━━━━━━━━━"
	dotLine = "• • • • • • • • • • • • • • • •"
)

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// escape makes model text safe for Telegram's HTML parse mode.
func escape(s string) string { return htmlEscaper.Replace(s) }

// doc accumulates message lines. Every section builder is a no-op on empty
// input so renderers can call them unconditionally.
type doc struct {
	lines []string
}

func (d *doc) add(lines ...string) { d.lines = append(d.lines, lines...) }

func (d *doc) String() string { return strings.Join(d.lines, "\n") }

func (d *doc) header(title, date, subtitle string) {
	d.add("🤖 <b>"+title+"</b>", "📅 <i>"+displayDate(date)+"</i>")
	if subtitle != "" {
		d.add("🔮 <b>" + subtitle + "</b>")
	}
	d.add("", rule, "")
}

func (d *doc) divider() { d.add(dotLine, "") }

func (d *doc) footer(now time.Time) {
	d.add("", rule, "🔮 <i>Создано AI-аналитиком</i>", "⚡️ <i>"+now.Format("15:04")+"</i>")
}

func (d *doc) text(emoji, title, body string) {
	body = strings.TrimSpace(body)
	if body == "" {
		return
	}
	d.add(emoji+" <b>"+title+"</b>", "", escape(body), "")
	d.divider()
}

func (d *doc) numbered(emoji, title string, items []string) {
	if len(items) == 0 {
		return
	}
	d.add(emoji+" <b>"+title+"</b>", "")
	for i, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			d.add(keycap(i+1) + " " + escape(item))
		}
	}
	d.add("")
	d.divider()
}

func (d *doc) bulleted(emoji, title string, items []string) {
	if len(items) == 0 {
		return
	}
	d.add(emoji+" <b>"+title+"</b>", "")
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			d.add("▶️ "+escape(item), "")
		}
	}
	d.divider()
}

func keycap(n int) string { return fmt.Sprintf("%d️⃣", n) }

var genitiveMonths = [...]string{
	"января", "февраля", "марта", "апреля", "мая", "июня",
	"июля", "августа", "сентября", "октября", "ноября", "декабря",
}

// displayDate renders YYYY-MM-DD as "2 мая 2024 г.". Anything else is shown as is.
func displayDate(date string) string {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(date))
	if err != nil {
		return escape(date)
	}
	return fmt.Sprintf("%d %s %d г.", t.Day(), genitiveMonths[t.Month()-1], t.Year())
}
