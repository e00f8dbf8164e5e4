// Package realtime keeps track of connected users and the conversations they
// follow, and pushes chat and meeting events to them.
package realtime

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/samber/lo"

	"gocoach/internal/common"
	"gocoach/internal/dbmysql"
)

// Inbox is the outbound side of one live user session.
type Inbox interface {
	ID() string
	UserID() uint64
	Send(payload []byte) error
	Close(code int, reason string)
}

// Membership answers conversation membership questions at join time.
type Membership interface {
	IsParticipant(ctx context.Context, conversationID, userID uint64) (bool, error)
	ParticipantIDs(ctx context.Context, conversationID uint64) ([]uint64, error)
}

type UnreadCounter interface {
	UnreadCount(ctx context.Context, userID uint64) (int64, error)
}

type idSet map[uint64]struct{}

// Hub owns the inbox and subscription maps. Targets are resolved under the lock
// and payloads are sent after it is released; delivery is best effort.
type Hub struct {
	mu            sync.RWMutex
	inboxes       map[uint64]Inbox // userID -> live inbox
	subscribers   map[uint64]idSet // conversationID -> subscribed users
	subscriptions map[uint64]idSet // userID -> joined conversations

	members Membership
	unread  UnreadCounter
	log     *slog.Logger
}

func NewHub(members Membership, unread UnreadCounter, log *slog.Logger) *Hub {
	return &Hub{
		inboxes:       make(map[uint64]Inbox),
		subscribers:   make(map[uint64]idSet),
		subscriptions: make(map[uint64]idSet),
		members:       members,
		unread:        unread,
		log:           log.With("component", "realtime_hub"),
	}
}

// Attach registers the inbox as the user's live session. A previous session for
// the same user is dropped from every conversation and closed.
func (h *Hub) Attach(inbox Inbox) {
	h.mu.Lock()
	previous := h.inboxes[inbox.UserID()]
	var left []uint64
	if previous != nil {
		left = h.detachLocked(previous.UserID())
	}
	h.inboxes[inbox.UserID()] = inbox
	h.mu.Unlock()

	if previous != nil {
		h.announceLeft(inbox.UserID(), left)
		previous.Close(CloseSessionReplaced, "session replaced")
	}
	h.log.Debug("inbox attached", "user_id", inbox.UserID(), "session_id", inbox.ID())
}

// Detach removes the inbox if it is still the user's live session and tells the
// rooms it was in that the user left.
func (h *Hub) Detach(inbox Inbox) {
	h.mu.Lock()
	current, ok := h.inboxes[inbox.UserID()]
	if !ok || current.ID() != inbox.ID() {
		h.mu.Unlock()
		return
	}
	left := h.detachLocked(inbox.UserID())
	h.mu.Unlock()

	h.announceLeft(inbox.UserID(), left)
	h.log.Debug("inbox detached", "user_id", inbox.UserID(), "session_id", inbox.ID())
}

// Join subscribes the user to a conversation. Non-admins must be participants.
func (h *Hub) Join(ctx context.Context, actor common.Principal, conversationID uint64) error {
	if !actor.IsAdmin() {
		ok, err := h.members.IsParticipant(ctx, conversationID, actor.UserID)
		if err != nil {
			return fmt.Errorf("check membership: %w", err)
		}
		if !ok {
			return fmt.Errorf("%w: not a participant of conversation %d", common.ErrForbidden, conversationID)
		}
	}

	h.mu.Lock()
	if _, online := h.inboxes[actor.UserID]; !online {
		h.mu.Unlock()
		return fmt.Errorf("%w: user %d has no live session", common.ErrNotFound, actor.UserID)
	}
	_, already := h.subscribers[conversationID][actor.UserID]
	h.subscribeLocked(actor.UserID, conversationID)
	targets := h.roomInboxesLocked(conversationID, actor.UserID)
	h.mu.Unlock()

	if !already {
		h.broadcast(targets, EventUserJoined, MembershipData{ConversationID: conversationID, UserID: actor.UserID})
	}
	return nil
}

func (h *Hub) Leave(userID, conversationID uint64) {
	h.mu.Lock()
	_, subscribed := h.subscribers[conversationID][userID]
	h.unsubscribeLocked(userID, conversationID)
	h.mu.Unlock()

	if subscribed {
		h.announceLeft(userID, []uint64{conversationID})
	}
}

func (h *Hub) Subscribed(userID, conversationID uint64) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.subscribers[conversationID][userID]
	return ok
}

// Typing relays a typing indicator to the other subscribers. It is never stored.
func (h *Hub) Typing(userID, conversationID uint64, typing bool) error {
	h.mu.RLock()
	if _, ok := h.subscribers[conversationID][userID]; !ok {
		h.mu.RUnlock()
		return fmt.Errorf("%w: join conversation %d first", common.ErrForbidden, conversationID)
	}
	targets := h.roomInboxesLocked(conversationID, userID)
	h.mu.RUnlock()

	h.broadcast(targets, EventUserTyping, TypingData{ConversationID: conversationID, UserID: userID, Typing: typing})
	return nil
}

// OnlineParticipants lists the conversation's participants that have a live session.
func (h *Hub) OnlineParticipants(ctx context.Context, actor common.Principal, conversationID uint64) ([]uint64, error) {
	ids, err := h.members.ParticipantIDs(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	if !actor.IsAdmin() && !lo.Contains(ids, actor.UserID) {
		return nil, fmt.Errorf("%w: not a participant of conversation %d", common.ErrForbidden, conversationID)
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	return lo.Filter(ids, func(id uint64, _ int) bool {
		_, ok := h.inboxes[id]
		return ok
	}), nil
}

// OnlineUsers returns every user with a live session.
func (h *Hub) OnlineUsers() []uint64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return lo.Keys(h.inboxes)
}

// SendTo delivers a frame to one user's live session, if any.
func (h *Hub) SendTo(userID uint64, event string, data any) bool {
	h.mu.RLock()
	inbox, ok := h.inboxes[userID]
	h.mu.RUnlock()
	if !ok {
		return false
	}
	return h.broadcast([]Inbox{inbox}, event, data) == 1
}

// MessageCreated pushes the full message to subscribers and a lighter notification
// with the unread total to participants who are online elsewhere.
func (h *Hub) MessageCreated(ctx context.Context, msg *dbmysql.Message, participantIDs []uint64) {
	h.mu.RLock()
	subscribers := h.roomInboxesLocked(msg.ConversationID, 0)
	var elsewhere []Inbox
	for _, id := range participantIDs {
		if id == msg.SenderID {
			continue
		}
		if _, subscribed := h.subscribers[msg.ConversationID][id]; subscribed {
			continue
		}
		if inbox, online := h.inboxes[id]; online {
			elsewhere = append(elsewhere, inbox)
		}
	}
	h.mu.RUnlock()

	h.broadcast(subscribers, EventNewMessage, MessageData{ConversationID: msg.ConversationID, Message: msg})

	for _, inbox := range elsewhere {
		count, err := h.unread.UnreadCount(ctx, inbox.UserID())
		if err != nil {
			h.log.WarnContext(ctx, "unread count failed", "user_id", inbox.UserID(), "error", err)
		}
		h.broadcast([]Inbox{inbox}, EventNewMessageNotification, MessageNotificationData{
			ConversationID: msg.ConversationID,
			Message:        msg,
			UnreadCount:    count,
		})
	}
}

func (h *Hub) MessagesRead(_ context.Context, conversationID, readerID uint64) {
	h.mu.RLock()
	targets := h.roomInboxesLocked(conversationID, readerID)
	h.mu.RUnlock()

	h.broadcast(targets, EventMessagesRead, ReadReceiptData{ConversationID: conversationID, ReadBy: readerID})
}

// ParticipantJoined tells subscribers and online participants that a user was added.
func (h *Hub) ParticipantJoined(_ context.Context, conversationID, userID uint64, participantIDs []uint64) {
	h.mu.RLock()
	targets := h.roomInboxesLocked(conversationID, userID)
	for _, id := range participantIDs {
		if id == userID {
			continue
		}
		if _, subscribed := h.subscribers[conversationID][id]; subscribed {
			continue
		}
		if inbox, online := h.inboxes[id]; online {
			targets = append(targets, inbox)
		}
	}
	h.mu.RUnlock()

	h.broadcast(targets, EventUserJoined, MembershipData{ConversationID: conversationID, UserID: userID})
}

// PublishMeeting delivers a meeting lifecycle event to both parties.
func (h *Hub) PublishMeeting(ctx context.Context, event common.MeetingEvent) {
	data := MeetingData{Meeting: event.Meeting, ActorID: event.ActorID, OccurredAt: event.OccurredAt}
	for _, userID := range lo.Uniq(event.Recipients()) {
		if !h.SendTo(userID, string(event.Type), data) {
			h.log.DebugContext(ctx, "meeting event not delivered", "user_id", userID, "meeting_id", event.Meeting.ID, "event", event.Type)
		}
	}
}

// Close drops every session.
func (h *Hub) Close() {
	h.mu.Lock()
	inboxes := lo.Values(h.inboxes)
	h.inboxes = make(map[uint64]Inbox)
	h.subscribers = make(map[uint64]idSet)
	h.subscriptions = make(map[uint64]idSet)
	h.mu.Unlock()

	for _, inbox := range inboxes {
		inbox.Close(websocket.CloseGoingAway, "server shutdown")
	}
}

func (h *Hub) broadcast(targets []Inbox, event string, data any) int {
	if len(targets) == 0 {
		return 0
	}
	payload, err := encode(event, data)
	if err != nil {
		h.log.Error("encode realtime frame", "event", event, "error", err)
		return 0
	}
	delivered := 0
	for _, inbox := range targets {
		if err := inbox.Send(payload); err != nil {
			h.log.Debug("realtime delivery dropped", "event", event, "user_id", inbox.UserID(), "error", err)
			continue
		}
		delivered++
	}
	return delivered
}

func (h *Hub) announceLeft(userID uint64, conversationIDs []uint64) {
	for _, conversationID := range conversationIDs {
		h.mu.RLock()
		targets := h.roomInboxesLocked(conversationID, userID)
		h.mu.RUnlock()
		h.broadcast(targets, EventUserLeft, MembershipData{ConversationID: conversationID, UserID: userID})
	}
}

// roomInboxesLocked returns the live inboxes subscribed to the conversation,
// skipping exclude. Callers hold h.mu.
func (h *Hub) roomInboxesLocked(conversationID, exclude uint64) []Inbox {
	room := h.subscribers[conversationID]
	out := make([]Inbox, 0, len(room))
	for id := range room {
		if id == exclude {
			continue
		}
		if inbox, ok := h.inboxes[id]; ok {
			out = append(out, inbox)
		}
	}
	return out
}

func (h *Hub) subscribeLocked(userID, conversationID uint64) {
	room := h.subscribers[conversationID]
	if room == nil {
		room = make(idSet)
		h.subscribers[conversationID] = room
	}
	room[userID] = struct{}{}

	joined := h.subscriptions[userID]
	if joined == nil {
		joined = make(idSet)
		h.subscriptions[userID] = joined
	}
	joined[conversationID] = struct{}{}
}

func (h *Hub) unsubscribeLocked(userID, conversationID uint64) {
	if room := h.subscribers[conversationID]; room != nil {
		delete(room, userID)
		if len(room) == 0 {
			delete(h.subscribers, conversationID)
		}
	}
	if joined := h.subscriptions[userID]; joined != nil {
		delete(joined, conversationID)
		if len(joined) == 0 {
			delete(h.subscriptions, userID)
		}
	}
}

// detachLocked forgets the user's inbox and subscriptions and returns the
// conversations the user was subscribed to.
func (h *Hub) detachLocked(userID uint64) []uint64 {
	delete(h.inboxes, userID)
	left := lo.Keys(h.subscriptions[userID])
	for _, conversationID := range left {
		h.unsubscribeLocked(userID, conversationID)
	}
	return left
}
