package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"gocoach/internal/dbmysql"
)

//go:generate mockgen -destination=../service/mocks/mock_repository.go -package=mocks gocoach/internal/chat/repository ChatRepository,ConversationRepository

type ChatRepository interface {
	// Save appends the message and bumps the conversation's last_message_at.
	Save(ctx context.Context, msg *dbmysql.Message) error
	// FetchHistory returns up to limit messages newest first, skipping offset.
	FetchHistory(ctx context.Context, conversationID uint64, offset, limit int) ([]*dbmysql.Message, error)
	// MarkRead stamps read_at on every unread message in the conversation not sent by readerID.
	MarkRead(ctx context.Context, conversationID, readerID uint64, at time.Time) (int64, error)
	// UnreadCount counts unread messages addressed to userID across all of its conversations.
	UnreadCount(ctx context.Context, userID uint64) (int64, error)
}

type chatRepo struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepo{db: db}
}

func (r *chatRepo) Save(ctx context.Context, msg *dbmysql.Message) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		return tx.Model(&dbmysql.Conversation{}).
			Where("id = ?", msg.ConversationID).
			Update("last_message_at", msg.CreatedAt).Error
	})
}

func (r *chatRepo) FetchHistory(ctx context.Context, conversationID uint64, offset, limit int) ([]*dbmysql.Message, error) {
	var messages []*dbmysql.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at DESC").
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *chatRepo) MarkRead(ctx context.Context, conversationID, readerID uint64, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&dbmysql.Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND read_at IS NULL", conversationID, readerID).
		Update("read_at", at)
	return res.RowsAffected, res.Error
}

func (r *chatRepo) UnreadCount(ctx context.Context, userID uint64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&dbmysql.Message{}).
		Joins("JOIN conversation_participants cp ON cp.conversation_id = messages.conversation_id AND cp.user_id = ?", userID).
		Where("messages.sender_id <> ? AND messages.read_at IS NULL", userID).
		Count(&n).Error
	return n, err
}
