package domain

import "github.com/yungbote/tgdash-backend/internal/domain/chatlog"

// Models lists every table the service reads, in migration order.
func Models() []any {
	return []any{&chatlog.User{}, &chatlog.Message{}, &chatlog.ForumTopic{}}
}
