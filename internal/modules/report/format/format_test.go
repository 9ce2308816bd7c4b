package format

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/yungbote/tgdash-backend/internal/modules/report"
	"github.com/yungbote/tgdash-backend/internal/modules/report/personas"
)

var footerTime = time.Date(2024, 5, 2, 15, 30, 0, 0, time.UTC)

func TestTelegramFlat(t *testing.T) {
	res := &report.Result{
		Date: "2024-05-02",
		FlatReport: &personas.FlatReport{
			Summary:  "A <b> & c",
			Themes:   []string{"t1", "  "},
			Insights: []string{"i1"},
		},
	}
	out := Telegram(res, footerTime)

	for _, want := range []string{
		"🤖 <b>AI Дайджест</b>",
		"📅 <i>2 мая 2024 г.</i>",
		"📊 <b>Краткая сводка</b>",
		"A &lt;b&gt; &amp; c",
		"1️⃣ t1",
		"▶️ i1",
		"🔮 <i>Создано AI-аналитиком</i>",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "2️⃣") || strings.Contains(out, "Эксперт") {
		t.Fatalf("unexpected content:\n%s", out)
	}
	if !strings.HasSuffix(out, "⚡️ <i>15:30</i>") {
		t.Fatalf("footer time missing:\n%s", out)
	}
}

func TestTelegramBusinessUsesPersonaLabel(t *testing.T) {
	res := &report.Result{
		Date:    "2024-05-02",
		Persona: personas.Business,
		Data: &personas.BusinessReport{
			MonetizationIdeas: []string{"m1", "m2", "m3"},
			RevenueStrategies: []string{"r1", "r2", "r3"},
			ROIInsights:       []string{"x1", "x2", "x3"},
		},
	}
	out := Telegram(res, footerTime)
	for _, want := range []string{"🔮 <b>Эксперт: 💼 Бизнес-консультант</b>", "💰 <b>Идеи монетизации</b>", "3️⃣ r3", "▶️ x2"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestTelegramDailySummary(t *testing.T) {
	res := &report.Result{
		Date:    "2024-05-02",
		Persona: personas.DailySummary,
		Data: &personas.DailySummaryReport{
			DayOverview: "Спокойный день",
			KeyEvents: []personas.KeyEvent{
				{Time: "09:00", Event: "low one", Importance: "low"},
				{Time: "10:00", Event: "high one", Importance: "high"},
				{Time: "11:00", Event: "mid one", Importance: "medium"},
			},
			LinkSummary: personas.LinkSummary{
				TotalLinks: 9,
				TopSharers: []personas.NamedCount{{Name: "a", Count: 4}, {Name: "b", Count: 3}, {Name: "c", Count: 1}, {Name: "d", Count: 1}},
			},
			DailyMetrics: personas.DailyMetrics{ActivityLevel: "высокий"},
		},
	}
	out := Telegram(res, footerTime)

	if !strings.HasPrefix(out, "🤖 <b>AI Дневной Отчет</b>") {
		t.Fatalf("title:\n%s", out)
	}
	hi, mid, lo := strings.Index(out, "🔥 <b>10:00</b>"), strings.Index(out, "🔶 <b>11:00</b>"), strings.Index(out, "🟡 <b>09:00</b>")
	if hi < 0 || mid < 0 || lo < 0 || !(hi < mid && mid < lo) {
		t.Fatalf("events out of order (%d %d %d):\n%s", hi, mid, lo, out)
	}
	if !strings.Contains(out, "<i>(9)</i>") || !strings.Contains(out, "   • c (1)") || strings.Contains(out, "   • d (1)") {
		t.Fatalf("link digest:\n%s", out)
	}
	if !strings.Contains(out, "🟢 <i>Активность:</i> высокий") {
		t.Fatalf("metrics block:\n%s", out)
	}
	if res.Data.(*personas.DailySummaryReport).KeyEvents[0].Importance != "low" {
		t.Fatalf("renderer must not reorder the report")
	}
}

func TestTelegramAIPsychologist(t *testing.T) {
	res := &report.Result{
		Persona: personas.AIPsychologist,
		Data: &personas.AIPsychologistReport{
			Personalities: []personas.AIModelPersonality{{Name: "@anna", AIModel: "Claude Sonnet 4.5", Confidence: "high", Reasoning: "пишет <длинно>"}},
			Distribution: personas.AIModelDistribution{
				DominantModel: "GPT-5",
				ModelCounts:   map[string]float64{"GPT-5": 3, "Claude Sonnet 4.5": 1},
			},
		},
	}
	out := Telegram(res, footerTime)
	for _, want := range []string{
		"1️⃣ <b>@anna</b>",
		"   <code>Claude Sonnet 4.5</code> 🎯",
		"   <i>пишет &lt;длинно&gt;</i>",
		"   • GPT-5 (3)\n   • Claude Sonnet 4.5 (1)",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestTelegramFallbacks(t *testing.T) {
	if got := Telegram(nil, footerTime); !strings.Contains(got, "Отчет недоступен") {
		t.Fatalf("nil report: %q", got)
	}
	mismatched := &report.Result{Persona: personas.Business, Data: &personas.CreativeReport{}}
	if got := Telegram(mismatched, footerTime); !strings.Contains(got, "Неизвестный формат отчета") {
		t.Fatalf("mismatched data: %q", got)
	}
	if got := Telegram(&report.Result{}, footerTime); !strings.Contains(got, "Неизвестный формат отчета") {
		t.Fatalf("empty report: %q", got)
	}
}

func TestDisplayDate(t *testing.T) {
	cases := map[string]string{
		"2024-01-31": "31 января 2024 г.",
		"2024-12-01": "1 декабря 2024 г.",
		"вчера":      "вчера",
	}
	for in, want := range cases {
		if got := displayDate(in); got != want {
			t.Fatalf("displayDate(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSplit(t *testing.T) {
	if got := Split("short", 10); len(got) != 1 || got[0] != "short" {
		t.Fatalf("short text: %q", got)
	}

	line := strings.Repeat("я", 30)
	got := Split(line+"\n"+line+"\n"+line, 70)
	if len(got) != 2 || got[0] != line+"\n"+line || got[1] != line {
		t.Fatalf("line split: %q", got)
	}

	long := strings.Repeat("ж", 100)
	got = Split("head\n"+long+"\ntail", 50)
	want := []string{"head", strings.Repeat("ж", 47) + "...", "tail"}
	if len(got) != len(want) {
		t.Fatalf("parts = %q", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("part %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSplitDropsBlankText(t *testing.T) {
	for _, text := range []string{"", "   ", strings.Repeat(" \n", 100)} {
		if got := Split(text, 50); len(got) != 0 {
			t.Fatalf("Split(%q) = %q, want no parts", text, got)
		}
	}
}

func TestSplitRespectsLimitOnRenderedReport(t *testing.T) {
	items := make([]string, 0, 300)
	for i := 0; i < 300; i++ {
		items = append(items, strings.Repeat("инсайт ", 10))
	}
	res := &report.Result{Date: "2024-05-02", FlatReport: &personas.FlatReport{Summary: "s", Insights: items}}
	parts := Split(Telegram(res, footerTime), TelegramLimit)
	if len(parts) < 2 {
		t.Fatalf("expected several parts, got %d", len(parts))
	}
	for i, p := range parts {
		if n := utf8.RuneCountInString(p); n > TelegramLimit || n == 0 {
			t.Fatalf("part %d has %d runes", i, n)
		}
	}
}

func TestRich(t *testing.T) {
	flat := Rich(&report.Result{Date: "2024-05-02", FlatReport: &personas.FlatReport{Summary: "s", Themes: []string{}, Insights: []string{}}})
	if flat["summary"] != "s" || flat["date"] != "2024-05-02" {
		t.Fatalf("flat payload = %v", flat)
	}
	if _, ok := flat["persona"]; ok {
		t.Fatalf("flat payload has persona: %v", flat)
	}

	p := Rich(&report.Result{Persona: personas.Creative, Data: &personas.CreativeReport{CreativeTemperature: "x"}})
	data, ok := p["data"].(map[string]any)
	if p["persona"] != "creative" || !ok || data["creative_temperature"] != "x" {
		t.Fatalf("persona payload = %v", p)
	}
	if _, ok := p["summary"]; ok {
		t.Fatalf("persona payload leaked flat fields: %v", p)
	}
	if Rich(nil) != nil {
		t.Fatalf("nil result should give nil payload")
	}
}
