package chatlog

import "time"

// Message is a row written by the collector bot. This service only reads it.
type Message struct {
	ID              int64     `gorm:"primaryKey;autoIncrement:false" json:"id"`
	ChatID          int64     `gorm:"column:chat_id;not null;index:idx_messages_chat_sent,priority:1" json:"chat_id"`
	MessageThreadID *int64    `gorm:"column:message_thread_id;index" json:"message_thread_id,omitempty"`
	UserID          *int64    `gorm:"column:user_id;index" json:"user_id,omitempty"`
	Text            string    `gorm:"column:text" json:"text"`
	SentAt          time.Time `gorm:"column:sent_at;not null;index:idx_messages_chat_sent,priority:2" json:"sent_at"`
}

func (Message) TableName() string { return "messages" }

type User struct {
	ID        int64   `gorm:"primaryKey;autoIncrement:false" json:"id"`
	FirstName *string `gorm:"column:first_name" json:"first_name,omitempty"`
	LastName  *string `gorm:"column:last_name" json:"last_name,omitempty"`
	Username  *string `gorm:"column:username" json:"username,omitempty"`
}

func (User) TableName() string { return "users" }

// ForumTopic names a thread inside a forum-enabled supergroup.
type ForumTopic struct {
	ChatID   int64  `gorm:"column:chat_id;primaryKey;autoIncrement:false" json:"chat_id"`
	ThreadID int64  `gorm:"column:thread_id;primaryKey;autoIncrement:false" json:"thread_id"`
	Name     string `gorm:"column:name;not null" json:"name"`
}

func (ForumTopic) TableName() string { return "forum_topics" }
