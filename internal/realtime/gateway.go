package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"gocoach/internal/common"
	"gocoach/internal/config"
	"gocoach/internal/dbmysql"
)

const frameTimeout = 5 * time.Second

// MessageService is the part of the chat service reachable from a socket.
type MessageService interface {
	SendMessage(ctx context.Context, actor common.Principal, conversationID uint64, body string, attachments []string) (*dbmysql.Message, error)
	MarkRead(ctx context.Context, actor common.Principal, conversationID uint64) (int64, error)
}

// Gateway upgrades authenticated HTTP requests to websockets and dispatches
// client frames.
type Gateway struct {
	hub      *Hub
	chat     MessageService
	verifier *common.TokenVerifier
	upgrader websocket.Upgrader
	cfg      config.RealtimeConfig
	log      *slog.Logger
}

func NewGateway(hub *Hub, chat MessageService, verifier *common.TokenVerifier, cfg config.RealtimeConfig, log *slog.Logger) *Gateway {
	return &Gateway{
		hub:      hub,
		chat:     chat,
		verifier: verifier,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		cfg: cfg,
		log: log.With("component", "realtime_gateway"),
	}
}

func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token := common.BearerToken(r)
	if token == "" {
		common.WriteError(w, common.ErrUnauthenticated)
		return
	}
	actor, err := g.verifier.Principal(token)
	if err != nil {
		common.WriteError(w, err)
		return
	}

	ws, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the response.
		g.log.Debug("websocket upgrade failed", "user_id", actor.UserID, "error", err)
		return
	}

	conn := NewConnection(actor.UserID, ws, g.cfg.SendBuffer, g.cfg.PingPeriod)
	conn.Start()
	g.hub.Attach(conn)
	defer func() {
		g.hub.Detach(conn)
		conn.Close(websocket.CloseNormalClosure, "session closed")
	}()

	ws.SetReadLimit(g.cfg.ReadLimit)
	_ = ws.SetReadDeadline(time.Now().Add(g.cfg.PongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(g.cfg.PongWait))
	})

	g.reply(conn, EventConnected, ConnectedData{UserID: actor.UserID, SessionID: conn.ID()})

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) &&
				!errors.Is(err, websocket.ErrCloseSent) {
				g.log.Debug("websocket read ended", "user_id", actor.UserID, "error", err)
			}
			return
		}

		var frame ClientFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			_ = conn.Send(errorFrame(fmt.Errorf("%w: malformed frame", common.ErrInvalidInput)))
			continue
		}

		ctx, cancel := context.WithTimeout(r.Context(), frameTimeout)
		g.HandleFrame(ctx, actor, conn, frame)
		cancel()
	}
}

// HandleFrame executes one client frame on behalf of actor. Failures are
// reported to the sender as error events.
func (g *Gateway) HandleFrame(ctx context.Context, actor common.Principal, inbox Inbox, frame ClientFrame) {
	if err := g.handle(ctx, actor, inbox, frame); err != nil {
		if common.HTTPStatus(err) == http.StatusInternalServerError {
			g.log.ErrorContext(ctx, "realtime frame failed", "event", frame.Event, "user_id", actor.UserID, "error", err)
		}
		_ = inbox.Send(errorFrame(err))
	}
}

func (g *Gateway) handle(ctx context.Context, actor common.Principal, inbox Inbox, frame ClientFrame) error {
	if err := common.Validate(frame); err != nil {
		return err
	}
	conversationID := frame.ConversationID

	switch frame.Event {
	case EventJoinConversation:
		if err := g.hub.Join(ctx, actor, conversationID); err != nil {
			return err
		}
		g.reply(inbox, EventJoinedConversation, ConversationAck{ConversationID: conversationID})

	case EventLeaveConversation:
		g.hub.Leave(actor.UserID, conversationID)
		g.reply(inbox, EventLeftConversation, ConversationAck{ConversationID: conversationID})

	case EventSendMessage:
		msg, err := g.chat.SendMessage(ctx, actor, conversationID, frame.Body, frame.Attachments)
		if err != nil {
			return err
		}
		// Subscribers already got it through the hub.
		if !g.hub.Subscribed(actor.UserID, conversationID) {
			g.reply(inbox, EventNewMessage, MessageData{ConversationID: conversationID, Message: msg})
		}

	case EventMarkRead:
		n, err := g.chat.MarkRead(ctx, actor, conversationID)
		if err != nil {
			return err
		}
		g.reply(inbox, EventMarkedRead, MarkedReadData{ConversationID: conversationID, Marked: n})

	case EventTypingStart, EventTypingStop:
		return g.hub.Typing(actor.UserID, conversationID, frame.Event == EventTypingStart)

	case EventGetOnlineUsers:
		online, err := g.hub.OnlineParticipants(ctx, actor, conversationID)
		if err != nil {
			return err
		}
		g.reply(inbox, EventOnlineUsers, OnlineUsersData{ConversationID: conversationID, OnlineUsers: online})

	default:
		return fmt.Errorf("%w: unknown event %q", common.ErrInvalidInput, frame.Event)
	}
	return nil
}

func (g *Gateway) reply(inbox Inbox, event string, data any) {
	payload, err := encode(event, data)
	if err != nil {
		g.log.Error("encode realtime frame", "event", event, "error", err)
		return
	}
	if err := inbox.Send(payload); err != nil {
		g.log.Debug("realtime reply dropped", "event", event, "user_id", inbox.UserID(), "error", err)
	}
}
