package prompts

import (
	"strings"
	"testing"
	"time"

	"github.com/yungbote/tgdash-backend/internal/domain/chatlog"
	"github.com/yungbote/tgdash-backend/internal/modules/report/personas"
)

func TestCatalogCoversEveryPersona(t *testing.T) {
	for _, k := range personas.All() {
		if strings.TrimSpace(System(k)) == "" {
			t.Fatalf("empty system prompt for %s", k)
		}
	}
	if System(personas.Key("nobody")) != FlatSystem(FlatMetrics) {
		t.Fatalf("unknown persona should fall back to the metrics prompt")
	}
	if FlatSystem(FlatText) == FlatSystem(FlatMetrics) {
		t.Fatalf("flat prompts should differ")
	}
}

func TestPsychologistPromptMatchesShape(t *testing.T) {
	p := System(personas.Psychologist)
	for _, field := range []string{"group_atmosphere", "psychological_archetypes", "emotional_patterns", "group_dynamics"} {
		if !strings.Contains(p, field) {
			t.Fatalf("psychologist prompt does not mention %s", field)
		}
	}
}

func TestTranscriptPrompt(t *testing.T) {
	got := Transcript(Input{
		Date:       "2024-05-01",
		Metrics:    chatlog.ActivityMetrics{TotalMessages: 12, UniqueUsers: 3, LinkMessages: 1},
		Transcript: "[10:00] Аня: привет",
	})
	want := strings.Join([]string{
		"Дата: 2024-05-01",
		"Чат: (не указан)",
		"Всего сообщений: 12; Уникальные: 3; Со ссылками: 1",
		"Ниже сообщения за последние сутки (усечённо). Формат: [HH:MM] Автор: Текст",
		"[10:00] Аня: привет",
	}, "\n")
	if got != want {
		t.Fatalf("transcript prompt mismatch:\n%s\nwant:\n%s", got, want)
	}
}

func TestMetricsPromptConcentration(t *testing.T) {
	in := Input{
		Date:   "2024-05-01",
		ChatID: "-100",
		Metrics: chatlog.ActivityMetrics{
			TotalMessages: 100,
			UniqueUsers:   4,
			LinkMessages:  10,
			TopUsers: []chatlog.TopUser{
				{DisplayName: "A", MessageCount: 40},
				{DisplayName: "B", MessageCount: 20},
				{DisplayName: "C", MessageCount: 10},
				{DisplayName: "D", MessageCount: 30},
			},
		},
	}
	got := Metrics(in)
	for _, want := range []string{
		"Чат ID: -100",
		"1. A — 40 сообщений (40.0% от общего объёма)",
		"• Средняя активность на участника: 25.0 сообщений",
		"• Сообщений со ссылками: 10 (10.0%)",
		"высокая концентрация активности",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("metrics prompt missing %q:\n%s", want, got)
		}
	}

	in.Metrics.TopUsers[0].MessageCount = 10
	if strings.Contains(Metrics(in), "высокая концентрация") {
		t.Fatalf("40%% share should not be flagged")
	}
}

func TestMetricsPromptPeaks(t *testing.T) {
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	var series []chatlog.SeriesPoint
	for i := 0; i < 8; i++ {
		series = append(series, chatlog.SeriesPoint{Timestamp: base.Add(time.Duration(i) * time.Hour), MessageCount: int64(i)})
	}
	got := Metrics(Input{Metrics: chatlog.ActivityMetrics{TotalMessages: 28, UniqueUsers: 2, Series: series}})
	if !strings.Contains(got, "Динамика по времени (показаны ключевые точки):") {
		t.Fatalf("expected peak summary:\n%s", got)
	}
	if !strings.Contains(got, "(Всего замеров: 8)") {
		t.Fatalf("expected total sample count")
	}
	if !strings.Contains(got, "2024-05-01T07:00:00Z: 7 сообщений") {
		t.Fatalf("busiest bucket missing:\n%s", got)
	}
	if strings.Contains(got, "2024-05-01T00:00:00Z") {
		t.Fatalf("quiet bucket should be dropped")
	}
}

func TestMetricsPromptZeroTotals(t *testing.T) {
	got := Metrics(Input{})
	if !strings.Contains(got, "0 (0.0%)") {
		t.Fatalf("zero totals should render 0.0%%:\n%s", got)
	}
}

func TestLinksPrompt(t *testing.T) {
	at := time.Date(2024, 5, 1, 9, 5, 0, 0, time.UTC)
	got := Links(Input{
		Date:    "2024-05-01",
		Metrics: chatlog.ActivityMetrics{TotalMessages: 5, UniqueUsers: 2, LinkMessages: 2},
		Links: []chatlog.LinkMessage{
			{Timestamp: at, Label: "Аня", Text: "смотри", Links: []string{"https://www.youtube.com/watch?v=1", "https://github.com/x"}},
			{Timestamp: at.Add(time.Hour), Label: "Борис", Text: "и это", Links: []string{"https://github.com/y"}},
		},
	})
	for _, want := range []string{
		"Общее количество ссылок: 3",
		"Уникальных доменов: 2",
		"Топ домены: github.com, youtube.com",
		"Топ шерщики ссылок: Аня: 2, Борис: 1",
		"[09:05] Аня:\nсмотри\nСсылки:\n  - https://www.youtube.com/watch?v=1\n  - https://github.com/x\n\n[10:05] Борис:",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("links prompt missing %q:\n%s", want, got)
		}
	}
}

func TestDomain(t *testing.T) {
	cases := map[string]string{
		"https://www.example.com/a": "example.com",
		"http://sub.www.io/":        "sub.www.io",
		"ftp//host.name/x":          "host.name",
		"nonsense":                  "nonsense",
	}
	for in, want := range cases {
		if got := Domain(in); got != want {
			t.Fatalf("Domain(%q) = %q, want %q", in, got, want)
		}
	}
}
