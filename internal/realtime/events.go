package realtime

import (
	"encoding/json"
	"net/http"
	"time"

	"gocoach/internal/common"
	"gocoach/internal/dbmysql"
)

// Client -> server events.
const (
	EventJoinConversation  = "join_conversation"
	EventLeaveConversation = "leave_conversation"
	EventSendMessage       = "send_message"
	EventMarkRead          = "mark_read"
	EventTypingStart       = "typing_start"
	EventTypingStop        = "typing_stop"
	EventGetOnlineUsers    = "get_online_users"
)

// Server -> client events. Meeting events reuse common.MeetingEventType names.
const (
	EventConnected              = "connected"
	EventJoinedConversation     = "joined_conversation"
	EventLeftConversation       = "left_conversation"
	EventNewMessage             = "new_message"
	EventNewMessageNotification = "new_message_notification"
	EventMessagesRead           = "messages_read"
	EventMarkedRead             = "marked_read"
	EventUserTyping             = "user_typing"
	EventUserJoined             = "user_joined_conversation"
	EventUserLeft               = "user_left_conversation"
	EventOnlineUsers            = "online_users"
	EventError                  = "error"
)

// ClientFrame is the envelope of every inbound socket message.
type ClientFrame struct {
	Event          string   `json:"event" validate:"required"`
	ConversationID uint64   `json:"conversation_id" validate:"required,gt=0"`
	Body           string   `json:"body,omitempty"`
	Attachments    []string `json:"attachments,omitempty" validate:"max=10,dive,max=512"`
}

type Frame struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ConnectedData struct {
	UserID    uint64 `json:"user_id"`
	SessionID string `json:"session_id"`
}

type ConversationAck struct {
	ConversationID uint64 `json:"conversation_id"`
}

type MarkedReadData struct {
	ConversationID uint64 `json:"conversation_id"`
	Marked         int64  `json:"marked"`
}

type MessageData struct {
	ConversationID uint64           `json:"conversation_id"`
	Message        *dbmysql.Message `json:"message"`
}

type MessageNotificationData struct {
	ConversationID uint64           `json:"conversation_id"`
	Message        *dbmysql.Message `json:"message"`
	UnreadCount    int64            `json:"unread_count"`
}

type ReadReceiptData struct {
	ConversationID uint64 `json:"conversation_id"`
	ReadBy         uint64 `json:"read_by"`
}

type TypingData struct {
	ConversationID uint64 `json:"conversation_id"`
	UserID         uint64 `json:"user_id"`
	Typing         bool   `json:"typing"`
}

type MembershipData struct {
	ConversationID uint64 `json:"conversation_id"`
	UserID         uint64 `json:"user_id"`
}

type OnlineUsersData struct {
	ConversationID uint64   `json:"conversation_id"`
	OnlineUsers    []uint64 `json:"online_users"`
}

type MeetingData struct {
	Meeting    common.MeetingSnapshot `json:"meeting"`
	ActorID    uint64                 `json:"actor_id"`
	OccurredAt time.Time              `json:"occurred_at"`
}

func encode(event string, data any) ([]byte, error) {
	return json.Marshal(Frame{Event: event, Data: data})
}

// errorFrame renders err the way REST would, hiding internal failures.
func errorFrame(err error) []byte {
	msg := err.Error()
	if common.HTTPStatus(err) == http.StatusInternalServerError {
		msg = "internal server error"
	}
	payload, encErr := encode(EventError, ErrorData{Code: common.ErrorCode(err), Message: msg})
	if encErr != nil {
		return []byte(`{"event":"error","data":{"code":"internal_error","message":"internal server error"}}`)
	}
	return payload
}
