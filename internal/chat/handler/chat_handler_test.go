package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gocoach/internal/chat/handler/mocks"
	"gocoach/internal/chat/service"
	"gocoach/internal/common"
	"gocoach/internal/dbmysql"
)

var (
	coach = common.Principal{UserID: 3, Role: common.RoleCoach}
	admin = common.Principal{UserID: 1, Role: common.RoleAdmin}
)

func newRouter(t *testing.T, actor *common.Principal) (*mux.Router, *mocks.MockChatService, *mocks.MockConversationRegistry) {
	ctrl := gomock.NewController(t)
	chatService := mocks.NewMockChatService(ctrl)
	registry := mocks.NewMockConversationRegistry(ctrl)

	router := mux.NewRouter()
	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if actor != nil {
				r = r.WithContext(common.WithPrincipal(r.Context(), *actor))
			}
			next.ServeHTTP(w, r)
		})
	})
	NewChatHandler(chatService, registry, 50, 100, slog.New(slog.NewTextHandler(io.Discard, nil))).RegisterRoutes(api)
	return router, chatService, registry
}

func serve(router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, "/api/v1"+path, reader)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestChatHandler_SendMessage(t *testing.T) {
	tests := []struct {
		name       string
		body       interface{}
		mockSetup  func(chat *mocks.MockChatService)
		wantStatus int
		wantCode   string
	}{
		{
			name: "successful_message_send",
			body: SendMessageRequest{Body: "Hello World!", Attachments: []string{"media/1"}},
			mockSetup: func(chat *mocks.MockChatService) {
				chat.EXPECT().
					SendMessage(gomock.Any(), coach, uint64(7), "Hello World!", []string{"media/1"}).
					Return(&dbmysql.Message{ID: 1, ConversationID: 7, SenderID: 3, Body: "Hello World!", CreatedAt: time.Now().UTC()}, nil).
					Times(1)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "non_member",
			body: SendMessageRequest{Body: "Hello"},
			mockSetup: func(chat *mocks.MockChatService) {
				chat.EXPECT().SendMessage(gomock.Any(), coach, uint64(7), "Hello", gomock.Any()).Return(nil, common.ErrForbidden)
			},
			wantStatus: http.StatusForbidden,
			wantCode:   "forbidden",
		},
		{
			name: "invalid_message",
			body: SendMessageRequest{Body: ""},
			mockSetup: func(chat *mocks.MockChatService) {
				chat.EXPECT().SendMessage(gomock.Any(), coach, uint64(7), "", gomock.Any()).
					Return(nil, fmt.Errorf("%w: message body cannot be empty", common.ErrInvalidMessage))
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   "invalid_message",
		},
		{
			name:       "malformed_body",
			body:       map[string]interface{}{"text": "wrong field"},
			mockSetup:  func(chat *mocks.MockChatService) {},
			wantStatus: http.StatusBadRequest,
			wantCode:   "bad_request",
		},
		{
			name: "service_error_handling",
			body: SendMessageRequest{Body: "Hello"},
			mockSetup: func(chat *mocks.MockChatService) {
				chat.EXPECT().SendMessage(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, errors.New("database error"))
			},
			wantStatus: http.StatusInternalServerError,
			wantCode:   "internal_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, chat, _ := newRouter(t, &coach)
			tt.mockSetup(chat)

			rec := serve(router, http.MethodPost, "/conversations/7/messages", tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantCode != "" {
				var resp common.ErrorResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.Equal(t, tt.wantCode, resp.Code)
				assert.NotContains(t, resp.Error, "database error")
			}
		})
	}
}

func TestChatHandler_GetChatHistory_MarksRead(t *testing.T) {
	router, chat, _ := newRouter(t, &coach)

	gomock.InOrder(
		chat.EXPECT().GetMessageHistory(gomock.Any(), coach, uint64(7), 2, 20).Return(&service.MessagePage{
			Messages: []*dbmysql.Message{{ID: 1, Body: "first"}, {ID: 2, Body: "second"}},
			HasMore:  true,
		}, nil),
		chat.EXPECT().MarkRead(gomock.Any(), coach, uint64(7)).Return(int64(2), nil),
	)

	rec := serve(router, http.MethodGet, "/conversations/7/messages?page=2&limit=20", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var page service.MessagePage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.True(t, page.HasMore)
	assert.Len(t, page.Messages, 2)
}

func TestChatHandler_GetChatHistory_BadLimit(t *testing.T) {
	router, _, _ := newRouter(t, &coach)
	rec := serve(router, http.MethodGet, "/conversations/7/messages?limit=1000", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChatHandler_Conversations(t *testing.T) {
	t.Run("create", func(t *testing.T) {
		router, _, registry := newRouter(t, &coach)
		registry.EXPECT().Create(gomock.Any(), coach, service.CreateConversationInput{
			Kind:           common.ConversationDeal,
			ParticipantIDs: []uint64{2},
		}).Return(&dbmysql.Conversation{ID: 7, Kind: common.ConversationDeal}, nil)

		rec := serve(router, http.MethodPost, "/conversations", map[string]interface{}{
			"kind":            "deal",
			"participant_ids": []uint64{2},
		})
		assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	})

	t.Run("create rejects an empty participant list", func(t *testing.T) {
		router, _, _ := newRouter(t, &coach)
		rec := serve(router, http.MethodPost, "/conversations", map[string]interface{}{
			"kind":            "deal",
			"participant_ids": []uint64{},
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("support by non admin", func(t *testing.T) {
		router, _, registry := newRouter(t, &coach)
		registry.EXPECT().Create(gomock.Any(), coach, gomock.Any()).Return(nil, common.ErrForbidden)

		rec := serve(router, http.MethodPost, "/conversations", map[string]interface{}{
			"kind":            "support",
			"participant_ids": []uint64{2},
		})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("list", func(t *testing.T) {
		router, _, registry := newRouter(t, &coach)
		registry.EXPECT().ListMine(gomock.Any(), coach, 1, 50).
			Return([]*dbmysql.Conversation{{ID: 9}, {ID: 7}}, int64(2), nil)

		rec := serve(router, http.MethodGet, "/conversations", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var resp ConversationListResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Len(t, resp.Conversations, 2)
		assert.Equal(t, 1, resp.Pagination.Pages)
	})
}

func TestChatHandler_Join(t *testing.T) {
	t.Run("administrator", func(t *testing.T) {
		router, _, registry := newRouter(t, &admin)
		registry.EXPECT().Join(gomock.Any(), admin, uint64(7)).Return(nil)
		registry.EXPECT().Get(gomock.Any(), admin, uint64(7)).Return(&dbmysql.Conversation{ID: 7}, nil)

		rec := serve(router, http.MethodPost, "/conversations/7/join", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("already member", func(t *testing.T) {
		router, _, registry := newRouter(t, &admin)
		registry.EXPECT().Join(gomock.Any(), admin, uint64(7)).Return(common.ErrAlreadyMember)

		rec := serve(router, http.MethodPost, "/conversations/7/join", nil)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestChatHandler_ReadAndUnread(t *testing.T) {
	router, chat, _ := newRouter(t, &coach)
	chat.EXPECT().MarkRead(gomock.Any(), coach, uint64(7)).Return(int64(3), nil)
	chat.EXPECT().UnreadCount(gomock.Any(), uint64(3)).Return(int64(4), nil)

	rec := serve(router, http.MethodPost, "/conversations/7/read", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var read ReadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &read))
	assert.Equal(t, int64(3), read.Marked)

	rec = serve(router, http.MethodGet, "/unread-count", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var unread UnreadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &unread))
	assert.Equal(t, int64(4), unread.UnreadCount)
}

func TestChatHandler_Unauthenticated(t *testing.T) {
	router, _, _ := newRouter(t, nil)
	rec := serve(router, http.MethodGet, "/unread-count", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
