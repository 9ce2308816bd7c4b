package prompts

import "github.com/yungbote/tgdash-backend/internal/domain/chatlog"

// Input carries everything a user prompt may need. Builders read only the
// fields they use.
type Input struct {
	Date       string
	ChatID     string
	Metrics    chatlog.ActivityMetrics
	Transcript string
	Links      []chatlog.LinkMessage
}

func (in Input) chat() string {
	if in.ChatID == "" {
		return "(не указан)"
	}
	return in.ChatID
}
