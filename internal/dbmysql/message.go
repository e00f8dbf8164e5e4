package dbmysql

import (
	"time"
)

type Message struct {
	ID             uint64     `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	ConversationID uint64     `gorm:"column:conversation_id;not null;index:idx_messages_conversation_created,priority:1" json:"conversation_id"`
	SenderID       uint64     `gorm:"column:sender_id;not null;index" json:"sender_id"`
	Body           string     `gorm:"column:body;type:text;not null" json:"body"`
	Attachments    []string   `gorm:"column:attachments;type:json;serializer:json" json:"attachments"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime;index:idx_messages_conversation_created,priority:2" json:"created_at"`
	ReadAt         *time.Time `gorm:"column:read_at" json:"read_at,omitempty"`
}

func (Message) TableName() string {
	return "messages"
}

func (m *Message) IsRead() bool {
	return m.ReadAt != nil
}
