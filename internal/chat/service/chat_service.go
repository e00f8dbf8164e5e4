package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/samber/lo"

	"gocoach/internal/chat/repository"
	"gocoach/internal/common"
	"gocoach/internal/dbmysql"
)

const MaxMessageLength = 2000

type MessagePage struct {
	Messages []*dbmysql.Message `json:"messages"`
	HasMore  bool               `json:"has_more"`
}

//go:generate mockgen -destination=../handler/mocks/mock_service.go -package=mocks gocoach/internal/chat/service ChatService,ConversationRegistry

// ChatService is the message log: appending, paging and read markers.
type ChatService interface {
	SendMessage(ctx context.Context, actor common.Principal, conversationID uint64, body string, attachments []string) (*dbmysql.Message, error)
	GetMessageHistory(ctx context.Context, actor common.Principal, conversationID uint64, page, limit int) (*MessagePage, error)
	MarkRead(ctx context.Context, actor common.Principal, conversationID uint64) (int64, error)
	UnreadCount(ctx context.Context, userID uint64) (int64, error)
}

type chatService struct {
	repo     repository.ChatRepository
	registry ConversationRegistry
	notifier Notifier
	now      func() time.Time
	log      *slog.Logger
}

func NewChatService(r repository.ChatRepository, registry ConversationRegistry, notifier Notifier, log *slog.Logger) ChatService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &chatService{
		repo:     r,
		registry: registry,
		notifier: notifier,
		now:      func() time.Time { return time.Now().UTC() },
		log:      log.With("component", "messages"),
	}
}

// ValidateBody trims the body and enforces 1..MaxMessageLength characters.
func ValidateBody(body string) (string, error) {
	trimmed := strings.TrimSpace(body)
	n := utf8.RuneCountInString(trimmed)
	if n == 0 {
		return "", fmt.Errorf("%w: message body cannot be empty", common.ErrInvalidMessage)
	}
	if n > MaxMessageLength {
		return "", fmt.Errorf("%w: message body exceeds %d characters", common.ErrInvalidMessage, MaxMessageLength)
	}
	return trimmed, nil
}

func (s *chatService) SendMessage(ctx context.Context, actor common.Principal, conversationID uint64, body string, attachments []string) (*dbmysql.Message, error) {
	if conversationID == 0 {
		return nil, fmt.Errorf("%w: conversation id is required", common.ErrInvalidInput)
	}
	if err := s.registry.CanAccess(ctx, actor, conversationID); err != nil {
		return nil, err
	}
	text, err := ValidateBody(body)
	if err != nil {
		return nil, err
	}

	msg := &dbmysql.Message{
		ConversationID: conversationID,
		SenderID:       actor.UserID,
		Body:           text,
		Attachments:    lo.Compact(attachments),
		CreatedAt:      s.now(),
	}
	if msg.Attachments == nil {
		msg.Attachments = []string{}
	}
	if err := s.repo.Save(ctx, msg); err != nil {
		return nil, err
	}

	participants, err := s.registry.ParticipantIDs(ctx, conversationID)
	if err != nil {
		s.log.WarnContext(ctx, "message stored but participants unavailable", "message_id", msg.ID, "error", err)
		return msg, nil
	}
	s.notifier.MessageCreated(ctx, msg, participants)
	return msg, nil
}

// GetMessageHistory pages newest first and returns the page in chronological order.
func (s *chatService) GetMessageHistory(ctx context.Context, actor common.Principal, conversationID uint64, page, limit int) (*MessagePage, error) {
	if limit < 1 {
		return nil, fmt.Errorf("%w: limit must be positive", common.ErrInvalidInput)
	}
	if err := s.registry.CanAccess(ctx, actor, conversationID); err != nil {
		return nil, err
	}

	messages, err := s.repo.FetchHistory(ctx, conversationID, common.Offset(page, limit), limit+1)
	if err != nil {
		return nil, err
	}
	hasMore := len(messages) > limit
	if hasMore {
		messages = messages[:limit]
	}
	if messages == nil {
		messages = []*dbmysql.Message{}
	}
	return &MessagePage{Messages: lo.Reverse(messages), HasMore: hasMore}, nil
}

func (s *chatService) MarkRead(ctx context.Context, actor common.Principal, conversationID uint64) (int64, error) {
	if err := s.registry.CanAccess(ctx, actor, conversationID); err != nil {
		return 0, err
	}
	n, err := s.repo.MarkRead(ctx, conversationID, actor.UserID, s.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.notifier.MessagesRead(ctx, conversationID, actor.UserID)
	}
	return n, nil
}

func (s *chatService) UnreadCount(ctx context.Context, userID uint64) (int64, error) {
	return s.repo.UnreadCount(ctx, userID)
}
