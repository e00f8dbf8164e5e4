package dbmysql

import (
	"time"

	"gocoach/internal/common"
)

type Conversation struct {
	ID              uint64                  `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Kind            common.ConversationKind `gorm:"column:kind;size:20;not null" json:"kind"`
	Title           string                  `gorm:"column:title;size:255" json:"title,omitempty"`
	OriginRequestID *uint64                 `gorm:"column:origin_request_id;index" json:"origin_request_id,omitempty"`
	CreatedBy       uint64                  `gorm:"column:created_by;not null" json:"created_by"`
	CreatedAt       time.Time               `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	LastMessageAt   *time.Time              `gorm:"column:last_message_at;index" json:"last_message_at,omitempty"`

	Participants []Participant `gorm:"foreignKey:ConversationID" json:"participants,omitempty"`
}

func (Conversation) TableName() string {
	return "conversations"
}

// Participant is the membership edge between a conversation and a user.
type Participant struct {
	ConversationID uint64                 `gorm:"primaryKey;autoIncrement:false;column:conversation_id" json:"conversation_id"`
	UserID         uint64                 `gorm:"primaryKey;autoIncrement:false;column:user_id;index" json:"user_id"`
	Role           common.ParticipantRole `gorm:"column:role_in_conversation;size:20;not null;default:'member'" json:"role_in_conversation"`
	JoinedAt       time.Time              `gorm:"column:joined_at;autoCreateTime" json:"joined_at"`
}

func (Participant) TableName() string {
	return "conversation_participants"
}
