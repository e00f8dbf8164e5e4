package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/samber/lo"

	"gocoach/internal/chat/repository"
	"gocoach/internal/common"
	"gocoach/internal/dbmysql"
)

// UserLookup resolves which of the given ids are active accounts.
type UserLookup interface {
	ActiveUsers(ctx context.Context, ids []uint64) ([]*dbmysql.User, error)
}

type CreateConversationInput struct {
	Kind           common.ConversationKind `json:"kind" validate:"required,oneof=deal general support"`
	ParticipantIDs []uint64                `json:"participant_ids" validate:"required,min=1,dive,gt=0"`
	RequestID      *uint64                 `json:"request_id"`
	Title          string                  `json:"title" validate:"max=255"`
}

// ConversationRegistry owns conversations and their membership. Administrators are
// implicitly authorized on every conversation.
type ConversationRegistry interface {
	Create(ctx context.Context, actor common.Principal, in CreateConversationInput) (*dbmysql.Conversation, error)
	Get(ctx context.Context, actor common.Principal, id uint64) (*dbmysql.Conversation, error)
	ListMine(ctx context.Context, actor common.Principal, page, limit int) ([]*dbmysql.Conversation, int64, error)
	IsParticipant(ctx context.Context, conversationID, userID uint64) (bool, error)
	// CanAccess returns nil when actor may read and write the conversation.
	CanAccess(ctx context.Context, actor common.Principal, conversationID uint64) error
	AddParticipant(ctx context.Context, conversationID, userID uint64, role common.ParticipantRole) error
	// Join adds an administrator to a conversation for moderation.
	Join(ctx context.Context, actor common.Principal, conversationID uint64) error
	ParticipantIDs(ctx context.Context, conversationID uint64) ([]uint64, error)
}

type conversationRegistry struct {
	repo     repository.ConversationRepository
	users    UserLookup
	notifier Notifier
	log      *slog.Logger
}

func NewConversationRegistry(repo repository.ConversationRepository, users UserLookup, notifier Notifier, log *slog.Logger) ConversationRegistry {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &conversationRegistry{repo: repo, users: users, notifier: notifier, log: log.With("component", "conversations")}
}

func (s *conversationRegistry) Create(ctx context.Context, actor common.Principal, in CreateConversationInput) (*dbmysql.Conversation, error) {
	if !in.Kind.IsValid() {
		return nil, fmt.Errorf("%w: unknown conversation kind %q", common.ErrInvalidInput, in.Kind)
	}
	if in.Kind == common.ConversationSupport && !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: only administrators open support conversations", common.ErrForbidden)
	}

	others := lo.Without(lo.Uniq(in.ParticipantIDs), actor.UserID, 0)
	if len(others) == 0 {
		return nil, fmt.Errorf("%w: at least one other participant is required", common.ErrInvalidInput)
	}
	members := append([]uint64{actor.UserID}, others...)

	found, err := s.users.ActiveUsers(ctx, members)
	if err != nil {
		return nil, err
	}
	if len(found) != len(members) {
		active := lo.Map(found, func(u *dbmysql.User, _ int) uint64 { return u.ID })
		missing, _ := lo.Difference(members, active)
		return nil, fmt.Errorf("%w: users %v", common.ErrNotFound, missing)
	}

	creatorRole := common.ParticipantMember
	if in.Kind == common.ConversationSupport {
		creatorRole = common.ParticipantAdmin
	}
	participants := make([]dbmysql.Participant, 0, len(members))
	participants = append(participants, dbmysql.Participant{UserID: actor.UserID, Role: creatorRole})
	for _, id := range others {
		participants = append(participants, dbmysql.Participant{UserID: id, Role: common.ParticipantMember})
	}

	conv := &dbmysql.Conversation{
		Kind:            in.Kind,
		Title:           strings.TrimSpace(in.Title),
		OriginRequestID: in.RequestID,
		CreatedBy:       actor.UserID,
		Participants:    participants,
	}
	if err := s.repo.Create(ctx, conv); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "conversation created",
		"conversation_id", conv.ID, "kind", conv.Kind, "participants", len(participants))
	return conv, nil
}

func (s *conversationRegistry) Get(ctx context.Context, actor common.Principal, id uint64) (*dbmysql.Conversation, error) {
	conv, err := s.repo.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.IsAdmin() {
		return conv, nil
	}
	isMember := lo.ContainsBy(conv.Participants, func(p dbmysql.Participant) bool { return p.UserID == actor.UserID })
	if !isMember {
		return nil, common.ErrForbidden
	}
	return conv, nil
}

func (s *conversationRegistry) ListMine(ctx context.Context, actor common.Principal, page, limit int) ([]*dbmysql.Conversation, int64, error) {
	return s.repo.ListForUser(ctx, actor.UserID, page, limit)
}

func (s *conversationRegistry) IsParticipant(ctx context.Context, conversationID, userID uint64) (bool, error) {
	return s.repo.IsParticipant(ctx, conversationID, userID)
}

func (s *conversationRegistry) CanAccess(ctx context.Context, actor common.Principal, conversationID uint64) error {
	if actor.IsAdmin() {
		if _, err := s.repo.ByID(ctx, conversationID); err != nil {
			return err
		}
		return nil
	}
	ok, err := s.repo.IsParticipant(ctx, conversationID, actor.UserID)
	if err != nil {
		return err
	}
	if !ok {
		return common.ErrForbidden
	}
	return nil
}

func (s *conversationRegistry) AddParticipant(ctx context.Context, conversationID, userID uint64, role common.ParticipantRole) error {
	if role != common.ParticipantMember && role != common.ParticipantAdmin {
		return fmt.Errorf("%w: unknown participant role %q", common.ErrInvalidInput, role)
	}
	if _, err := s.repo.ByID(ctx, conversationID); err != nil {
		return err
	}
	ok, err := s.repo.IsParticipant(ctx, conversationID, userID)
	if err != nil {
		return err
	}
	if ok {
		return fmt.Errorf("%w: user %d in conversation %d", common.ErrAlreadyMember, userID, conversationID)
	}
	return s.repo.AddParticipant(ctx, &dbmysql.Participant{
		ConversationID: conversationID,
		UserID:         userID,
		Role:           role,
	})
}

func (s *conversationRegistry) Join(ctx context.Context, actor common.Principal, conversationID uint64) error {
	if !actor.IsAdmin() {
		return common.ErrForbidden
	}
	if err := s.AddParticipant(ctx, conversationID, actor.UserID, common.ParticipantAdmin); err != nil {
		return err
	}

	participants, err := s.repo.ParticipantIDs(ctx, conversationID)
	if err != nil {
		s.log.WarnContext(ctx, "cannot load participants for join notice", "conversation_id", conversationID, "error", err)
		return nil
	}
	s.log.InfoContext(ctx, "administrator joined conversation", "conversation_id", conversationID, "user_id", actor.UserID)
	s.notifier.ParticipantJoined(ctx, conversationID, actor.UserID, participants)
	return nil
}

func (s *conversationRegistry) ParticipantIDs(ctx context.Context, conversationID uint64) ([]uint64, error) {
	return s.repo.ParticipantIDs(ctx, conversationID)
}
