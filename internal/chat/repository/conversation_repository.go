package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"gocoach/internal/common"
	"gocoach/internal/dbmysql"
)

type ConversationRepository interface {
	// Create stores the conversation and its participants in one transaction.
	Create(ctx context.Context, conv *dbmysql.Conversation) error
	ByID(ctx context.Context, id uint64) (*dbmysql.Conversation, error)
	ListForUser(ctx context.Context, userID uint64, page, limit int) ([]*dbmysql.Conversation, int64, error)
	IsParticipant(ctx context.Context, conversationID, userID uint64) (bool, error)
	ParticipantIDs(ctx context.Context, conversationID uint64) ([]uint64, error)
	AddParticipant(ctx context.Context, p *dbmysql.Participant) error
}

type conversationRepo struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) ConversationRepository {
	return &conversationRepo{db: db}
}

func (r *conversationRepo) Create(ctx context.Context, conv *dbmysql.Conversation) error {
	participants := conv.Participants
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Participants").Create(conv).Error; err != nil {
			return err
		}
		for i := range participants {
			participants[i].ConversationID = conv.ID
		}
		if len(participants) > 0 {
			if err := tx.Create(&participants).Error; err != nil {
				return err
			}
		}
		conv.Participants = participants
		return nil
	})
}

func (r *conversationRepo) ByID(ctx context.Context, id uint64) (*dbmysql.Conversation, error) {
	var conv dbmysql.Conversation
	err := r.db.WithContext(ctx).Preload("Participants").Where("id = ?", id).First(&conv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: conversation %d", common.ErrNotFound, id)
		}
		return nil, err
	}
	return &conv, nil
}

// ListForUser orders by latest activity; conversations without messages fall back to creation time.
func (r *conversationRepo) ListForUser(ctx context.Context, userID uint64, page, limit int) ([]*dbmysql.Conversation, int64, error) {
	q := r.db.WithContext(ctx).
		Model(&dbmysql.Conversation{}).
		Joins("JOIN conversation_participants cp ON cp.conversation_id = conversations.id AND cp.user_id = ?", userID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var convs []*dbmysql.Conversation
	err := q.Preload("Participants").
		Order("COALESCE(conversations.last_message_at, conversations.created_at) DESC").
		Order("conversations.id DESC").
		Offset(common.Offset(page, limit)).
		Limit(limit).
		Find(&convs).Error
	if err != nil {
		return nil, 0, err
	}
	return convs, total, nil
}

func (r *conversationRepo) IsParticipant(ctx context.Context, conversationID, userID uint64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&dbmysql.Participant{}).
		Where("conversation_id = ? AND user_id = ?", conversationID, userID).
		Count(&n).Error
	return n > 0, err
}

func (r *conversationRepo) ParticipantIDs(ctx context.Context, conversationID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.db.WithContext(ctx).
		Model(&dbmysql.Participant{}).
		Where("conversation_id = ?", conversationID).
		Order("user_id").
		Pluck("user_id", &ids).Error
	return ids, err
}

func (r *conversationRepo) AddParticipant(ctx context.Context, p *dbmysql.Participant) error {
	if p.JoinedAt.IsZero() {
		p.JoinedAt = time.Now().UTC()
	}
	err := r.db.WithContext(ctx).Create(p).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: user %d in conversation %d", common.ErrAlreadyMember, p.UserID, p.ConversationID)
	}
	return err
}
