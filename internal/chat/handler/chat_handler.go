// Package handler exposes conversations and messages over REST.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"gocoach/internal/chat/service"
	"gocoach/internal/common"
	"gocoach/internal/dbmysql"
)

type SendMessageRequest struct {
	Body        string   `json:"body"`
	Attachments []string `json:"attachments" validate:"max=10,dive,max=512"`
}

type ConversationListResponse struct {
	Conversations []*dbmysql.Conversation `json:"conversations"`
	Pagination    common.Pagination       `json:"pagination"`
}

type ReadResponse struct {
	Marked int64 `json:"marked"`
}

type UnreadResponse struct {
	UnreadCount int64 `json:"unread_count"`
}

type ChatHandler struct {
	chatService  service.ChatService
	registry     service.ConversationRegistry
	defaultLimit int
	maxLimit     int
	log          *slog.Logger
}

func NewChatHandler(chatService service.ChatService, registry service.ConversationRegistry, defaultLimit, maxLimit int, log *slog.Logger) *ChatHandler {
	return &ChatHandler{
		chatService:  chatService,
		registry:     registry,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
		log:          log,
	}
}

func (h *ChatHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/conversations", h.ListConversations).Methods(http.MethodGet)
	r.HandleFunc("/conversations", h.CreateConversation).Methods(http.MethodPost)
	r.HandleFunc("/conversations/{id:[0-9]+}", h.GetConversation).Methods(http.MethodGet)
	r.HandleFunc("/conversations/{id:[0-9]+}/messages", h.GetChatHistory).Methods(http.MethodGet)
	r.HandleFunc("/conversations/{id:[0-9]+}/messages", h.SendMessage).Methods(http.MethodPost)
	r.HandleFunc("/conversations/{id:[0-9]+}/join", h.Join).Methods(http.MethodPost)
	r.HandleFunc("/conversations/{id:[0-9]+}/read", h.MarkRead).Methods(http.MethodPost)
	r.HandleFunc("/unread-count", h.UnreadCount).Methods(http.MethodGet)
}

func (h *ChatHandler) ListConversations(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.principal(w, r)
	if !ok {
		return
	}
	page, limit, err := common.PageParams(r, h.defaultLimit, h.maxLimit)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	convs, total, err := h.registry.ListMine(r.Context(), actor, page, limit)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if convs == nil {
		convs = []*dbmysql.Conversation{}
	}
	common.WriteJSON(w, http.StatusOK, ConversationListResponse{
		Conversations: convs,
		Pagination:    common.NewPagination(page, limit, total),
	})
}

func (h *ChatHandler) CreateConversation(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.principal(w, r)
	if !ok {
		return
	}
	var in service.CreateConversationInput
	if err := common.DecodeJSON(r, &in); err != nil {
		common.WriteError(w, err)
		return
	}
	conv, err := h.registry.Create(r.Context(), actor, in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusCreated, conv)
}

func (h *ChatHandler) GetConversation(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := h.target(w, r)
	if !ok {
		return
	}
	conv, err := h.registry.Get(r.Context(), actor, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, conv)
}

// GetChatHistory returns a page of messages and marks the conversation read for the caller.
func (h *ChatHandler) GetChatHistory(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := h.target(w, r)
	if !ok {
		return
	}
	page, limit, err := common.PageParams(r, h.defaultLimit, h.maxLimit)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	history, err := h.chatService.GetMessageHistory(r.Context(), actor, id, page, limit)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if _, err := h.chatService.MarkRead(r.Context(), actor, id); err != nil {
		h.log.WarnContext(r.Context(), "mark read after history failed", "conversation_id", id, "error", err)
	}
	common.WriteJSON(w, http.StatusOK, history)
}

func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := h.target(w, r)
	if !ok {
		return
	}
	var req SendMessageRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}
	msg, err := h.chatService.SendMessage(r.Context(), actor, id, req.Body, req.Attachments)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusCreated, msg)
}

func (h *ChatHandler) Join(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := h.target(w, r)
	if !ok {
		return
	}
	if err := h.registry.Join(r.Context(), actor, id); err != nil {
		h.fail(w, r, err)
		return
	}
	conv, err := h.registry.Get(r.Context(), actor, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, conv)
}

func (h *ChatHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := h.target(w, r)
	if !ok {
		return
	}
	n, err := h.chatService.MarkRead(r.Context(), actor, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, ReadResponse{Marked: n})
}

func (h *ChatHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.principal(w, r)
	if !ok {
		return
	}
	n, err := h.chatService.UnreadCount(r.Context(), actor.UserID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, UnreadResponse{UnreadCount: n})
}

func (h *ChatHandler) principal(w http.ResponseWriter, r *http.Request) (common.Principal, bool) {
	actor, ok := common.PrincipalFrom(r.Context())
	if !ok {
		common.WriteError(w, common.ErrUnauthenticated)
	}
	return actor, ok
}

func (h *ChatHandler) target(w http.ResponseWriter, r *http.Request) (common.Principal, uint64, bool) {
	actor, ok := h.principal(w, r)
	if !ok {
		return common.Principal{}, 0, false
	}
	id, err := common.PathID(r, "id")
	if err != nil {
		common.WriteError(w, err)
		return common.Principal{}, 0, false
	}
	return actor, id, true
}

func (h *ChatHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if common.HTTPStatus(err) == http.StatusInternalServerError {
		h.log.ErrorContext(r.Context(), "chat request failed", "path", r.URL.Path, "error", err)
	}
	common.WriteError(w, err)
}
