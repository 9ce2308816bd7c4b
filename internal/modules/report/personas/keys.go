package personas

import "strings"

// Key names a report voice. The set is closed.
type Key string

const (
	Curator        Key = "curator"
	Business       Key = "business"
	Psychologist   Key = "psychologist"
	AIPsychologist Key = "ai-psychologist"
	Creative       Key = "creative"
	Twitter        Key = "twitter"
	Reddit         Key = "reddit"
	DailySummary   Key = "daily-summary"
)

var ordered = []Key{Curator, Business, Psychologist, AIPsychologist, Creative, Twitter, Reddit, DailySummary}

var labels = map[Key]string{
	Curator:        "🎯 Куратор-реалист",
	Business:       "💼 Бизнес-консультант",
	Psychologist:   "🧠 Психолог сообществ",
	AIPsychologist: "🤖 AI-психолог",
	Creative:       "🚀 Креативный маркетолог",
	Twitter:        "🐦 Twitter-скептик",
	Reddit:         "👽 Reddit-модератор",
	DailySummary:   "📊 Дневной суммаризатор",
}

// All returns every persona in display order.
func All() []Key {
	out := make([]Key, len(ordered))
	copy(out, ordered)
	return out
}

// Parse normalizes raw and reports whether it names a known persona.
func Parse(raw string) (Key, bool) {
	k := Key(strings.ToLower(strings.TrimSpace(raw)))
	_, ok := labels[k]
	if !ok {
		return "", false
	}
	return k, true
}

func (k Key) Valid() bool {
	_, ok := labels[k]
	return ok
}

// Label is the human title used in chat messages and the UI.
func (k Key) Label() string {
	if l, ok := labels[k]; ok {
		return l
	}
	return "🔮 Аналитик"
}

func (k Key) String() string { return string(k) }
