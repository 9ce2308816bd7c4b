package chatlog

import (
	"strings"
	"time"
)

type TopUser struct {
	UserID       string `json:"userId"`
	DisplayName  string `json:"displayName"`
	MessageCount int64  `json:"messageCount"`
}

type SeriesPoint struct {
	Timestamp    time.Time `json:"timestamp"`
	MessageCount int64     `json:"messageCount"`
}

// ActivityMetrics aggregates one chat window. Built once per report request.
type ActivityMetrics struct {
	TotalMessages int64         `json:"totalMessages"`
	UniqueUsers   int64         `json:"uniqueUsers"`
	LinkMessages  int64         `json:"linkMessages"`
	TopUsers      []TopUser     `json:"topUsers"`
	Series        []SeriesPoint `json:"series"`
}

// TranscriptEntry is one author-labelled line of evidence for the model.
type TranscriptEntry struct {
	Timestamp time.Time
	Label     string
	Text      string
}

// Line renders the entry as "[HH:MM] label: text" in UTC.
func (e TranscriptEntry) Line() string {
	return "[" + e.Timestamp.UTC().Format("15:04") + "] " + e.Label + ": " + e.Text
}

// LinkMessage is a transcript entry together with the URLs found in its text.
type LinkMessage struct {
	Timestamp time.Time
	Label     string
	Text      string
	Links     []string
}

type ForumTopicStat struct {
	ThreadID      string    `json:"threadId"`
	TopicName     string    `json:"topicName"`
	MessageCount  int64     `json:"messageCount"`
	LastMessageAt time.Time `json:"lastMessageAt"`
}

const unknownAuthor = "Неизвестный"

func fullName(first, last string) string {
	parts := make([]string, 0, 2)
	for _, p := range []string{first, last} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// Label prefers the human name and falls back to @username.
func Label(first, last, username string) string {
	if name := fullName(first, last); name != "" {
		return name
	}
	if u := strings.TrimSpace(username); u != "" {
		return "@" + u
	}
	return unknownAuthor
}

// MentionLabel prefers @username so the model can refer to people the way
// Telegram mentions them.
func MentionLabel(first, last, username string) string {
	if u := strings.TrimSpace(username); u != "" {
		return "@" + u
	}
	if name := fullName(first, last); name != "" {
		return name
	}
	return unknownAuthor
}
