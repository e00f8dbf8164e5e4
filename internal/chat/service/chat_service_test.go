package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gocoach/internal/chat/service/mocks"
	"gocoach/internal/common"
	"gocoach/internal/dbmysql"
)

var (
	coach    = common.Principal{UserID: 3, Role: common.RoleCoach}
	outsider = common.Principal{UserID: 8, Role: common.RolePlayer}
	admin    = common.Principal{UserID: 1, Role: common.RoleAdmin}
)

type chatFixture struct {
	svc      ChatService
	chat     *mocks.MockChatRepository
	convs    *mocks.MockConversationRepository
	notifier *notifierMock
}

func newChatFixture(t *testing.T) *chatFixture {
	ctrl := gomock.NewController(t)
	chatRepo := mocks.NewMockChatRepository(ctrl)
	convRepo := mocks.NewMockConversationRepository(ctrl)
	notifier := &notifierMock{}

	registry := NewConversationRegistry(convRepo, staticUsers{}, notifier, discardLogger())
	return &chatFixture{
		svc:      NewChatService(chatRepo, registry, notifier, discardLogger()),
		chat:     chatRepo,
		convs:    convRepo,
		notifier: notifier,
	}
}

func TestChatService_SendMessage(t *testing.T) {
	tests := []struct {
		name        string
		actor       common.Principal
		body        string
		mockSetup   func(f *chatFixture)
		expectError error
		wantBody    string
	}{
		{
			name:  "successful message send",
			actor: coach,
			body:  "  See you at the court  ",
			mockSetup: func(f *chatFixture) {
				f.convs.EXPECT().IsParticipant(gomock.Any(), uint64(7), uint64(3)).Return(true, nil)
				f.chat.EXPECT().Save(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, msg *dbmysql.Message) error {
						msg.ID = 41
						assert.WithinDuration(t, time.Now(), msg.CreatedAt, time.Second)
						return nil
					})
				f.convs.EXPECT().ParticipantIDs(gomock.Any(), uint64(7)).Return([]uint64{2, 3}, nil)
				f.notifier.On("MessageCreated", mock.Anything, mock.AnythingOfType("*dbmysql.Message"), []uint64{2, 3}).Return().Once()
			},
			wantBody: "See you at the court",
		},
		{
			name:  "administrator without membership",
			actor: admin,
			body:  "Moderator here",
			mockSetup: func(f *chatFixture) {
				f.convs.EXPECT().ByID(gomock.Any(), uint64(7)).Return(&dbmysql.Conversation{ID: 7}, nil)
				f.chat.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
				f.convs.EXPECT().ParticipantIDs(gomock.Any(), uint64(7)).Return([]uint64{2, 3}, nil)
				f.notifier.On("MessageCreated", mock.Anything, mock.Anything, mock.Anything).Return().Once()
			},
			wantBody: "Moderator here",
		},
		{
			name:  "non participant is forbidden",
			actor: outsider,
			body:  "let me in",
			mockSetup: func(f *chatFixture) {
				f.convs.EXPECT().IsParticipant(gomock.Any(), uint64(7), uint64(8)).Return(false, nil)
			},
			expectError: common.ErrForbidden,
		},
		{
			name:  "blank body",
			actor: coach,
			body:  " \n\t ",
			mockSetup: func(f *chatFixture) {
				f.convs.EXPECT().IsParticipant(gomock.Any(), uint64(7), uint64(3)).Return(true, nil)
			},
			expectError: common.ErrInvalidMessage,
		},
		{
			name:  "too long",
			actor: coach,
			body:  strings.Repeat("a", MaxMessageLength+1),
			mockSetup: func(f *chatFixture) {
				f.convs.EXPECT().IsParticipant(gomock.Any(), uint64(7), uint64(3)).Return(true, nil)
			},
			expectError: common.ErrInvalidMessage,
		},
		{
			name:  "repository save error",
			actor: coach,
			body:  "hello",
			mockSetup: func(f *chatFixture) {
				f.convs.EXPECT().IsParticipant(gomock.Any(), uint64(7), uint64(3)).Return(true, nil)
				f.chat.EXPECT().Save(gomock.Any(), gomock.Any()).Return(errors.New("database connection failed"))
			},
			expectError: errors.New("database connection failed"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newChatFixture(t)
			tt.mockSetup(f)

			msg, err := f.svc.SendMessage(context.Background(), tt.actor, 7, tt.body, []string{"media/1", ""})

			if tt.expectError != nil {
				assert.Error(t, err)
				if errors.Is(tt.expectError, common.ErrForbidden) || errors.Is(tt.expectError, common.ErrInvalidMessage) {
					assert.ErrorIs(t, err, tt.expectError)
				} else {
					assert.Contains(t, err.Error(), tt.expectError.Error())
				}
				assert.Nil(t, msg)
				f.notifier.AssertNotCalled(t, "MessageCreated", mock.Anything, mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantBody, msg.Body)
			assert.Equal(t, tt.actor.UserID, msg.SenderID)
			assert.Equal(t, []string{"media/1"}, msg.Attachments)
			f.notifier.AssertExpectations(t)
		})
	}
}

func TestValidateBody(t *testing.T) {
	body, err := ValidateBody(strings.Repeat("é", MaxMessageLength))
	require.NoError(t, err, "length counts characters, not bytes")
	assert.Len(t, []rune(body), MaxMessageLength)

	_, err = ValidateBody("")
	assert.ErrorIs(t, err, common.ErrInvalidMessage)
}

func TestChatService_GetMessageHistory(t *testing.T) {
	f := newChatFixture(t)
	base := time.Now().UTC().Add(-time.Hour)

	f.convs.EXPECT().IsParticipant(gomock.Any(), uint64(7), uint64(3)).Return(true, nil).Times(2)
	f.chat.EXPECT().FetchHistory(gomock.Any(), uint64(7), 0, 3).Return([]*dbmysql.Message{
		{ID: 3, Body: "third", CreatedAt: base.Add(2 * time.Minute)},
		{ID: 2, Body: "second", CreatedAt: base.Add(time.Minute)},
		{ID: 1, Body: "first", CreatedAt: base},
	}, nil)
	f.chat.EXPECT().FetchHistory(gomock.Any(), uint64(7), 2, 3).Return([]*dbmysql.Message{
		{ID: 1, Body: "first", CreatedAt: base},
	}, nil)

	page, err := f.svc.GetMessageHistory(context.Background(), coach, 7, 1, 2)
	require.NoError(t, err)
	assert.True(t, page.HasMore)
	require.Len(t, page.Messages, 2)
	assert.Equal(t, "second", page.Messages[0].Body)
	assert.Equal(t, "third", page.Messages[1].Body)

	page, err = f.svc.GetMessageHistory(context.Background(), coach, 7, 2, 2)
	require.NoError(t, err)
	assert.False(t, page.HasMore)
	assert.Len(t, page.Messages, 1)
}

func TestChatService_GetMessageHistory_Forbidden(t *testing.T) {
	f := newChatFixture(t)
	f.convs.EXPECT().IsParticipant(gomock.Any(), uint64(7), uint64(8)).Return(false, nil)

	page, err := f.svc.GetMessageHistory(context.Background(), outsider, 7, 1, 50)
	assert.ErrorIs(t, err, common.ErrForbidden)
	assert.Nil(t, page)
}

func TestChatService_MarkRead_Idempotent(t *testing.T) {
	f := newChatFixture(t)

	f.convs.EXPECT().IsParticipant(gomock.Any(), uint64(7), uint64(3)).Return(true, nil).Times(2)
	gomock.InOrder(
		f.chat.EXPECT().MarkRead(gomock.Any(), uint64(7), uint64(3), gomock.Any()).Return(int64(4), nil),
		f.chat.EXPECT().MarkRead(gomock.Any(), uint64(7), uint64(3), gomock.Any()).Return(int64(0), nil),
	)
	f.notifier.On("MessagesRead", mock.Anything, uint64(7), uint64(3)).Return().Once()

	n, err := f.svc.MarkRead(context.Background(), coach, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)

	n, err = f.svc.MarkRead(context.Background(), coach, 7)
	require.NoError(t, err)
	assert.Zero(t, n)

	f.notifier.AssertExpectations(t)
	f.notifier.AssertNumberOfCalls(t, "MessagesRead", 1)
}

func TestChatService_UnreadCount(t *testing.T) {
	f := newChatFixture(t)
	f.chat.EXPECT().UnreadCount(gomock.Any(), uint64(3)).Return(int64(9), nil)

	n, err := f.svc.UnreadCount(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, int64(9), n)
}
