package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gocoach/internal/chat/service/mocks"
	"gocoach/internal/common"
	"gocoach/internal/dbmysql"
)

func newRegistry(t *testing.T, users staticUsers) (ConversationRegistry, *mocks.MockConversationRepository, *notifierMock) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockConversationRepository(ctrl)
	notifier := &notifierMock{}
	return NewConversationRegistry(repo, users, notifier, discardLogger()), repo, notifier
}

func TestConversationRegistry_Create(t *testing.T) {
	active := staticUsers{1: true, 2: true, 3: true, 4: true}

	t.Run("deduplicates and adds the creator", func(t *testing.T) {
		registry, repo, _ := newRegistry(t, active)
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, conv *dbmysql.Conversation) error {
			conv.ID = 7
			return nil
		})

		requestID := uint64(10)
		conv, err := registry.Create(context.Background(), coach, CreateConversationInput{
			Kind:           common.ConversationDeal,
			ParticipantIDs: []uint64{2, 2, 3},
			RequestID:      &requestID,
		})
		require.NoError(t, err)
		assert.Equal(t, uint64(7), conv.ID)
		require.Len(t, conv.Participants, 2)
		assert.Equal(t, uint64(3), conv.Participants[0].UserID)
		assert.Equal(t, common.ParticipantMember, conv.Participants[0].Role)
		assert.Equal(t, uint64(2), conv.Participants[1].UserID)
		assert.Equal(t, &requestID, conv.OriginRequestID)
	})

	t.Run("support creator moderates", func(t *testing.T) {
		registry, repo, _ := newRegistry(t, active)
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

		conv, err := registry.Create(context.Background(), admin, CreateConversationInput{
			Kind:           common.ConversationSupport,
			ParticipantIDs: []uint64{4},
		})
		require.NoError(t, err)
		assert.Equal(t, common.ParticipantAdmin, conv.Participants[0].Role)
		assert.Equal(t, common.ParticipantMember, conv.Participants[1].Role)
	})

	tests := []struct {
		name    string
		actor   common.Principal
		in      CreateConversationInput
		wantErr error
	}{
		{
			name:    "support by non admin",
			actor:   coach,
			in:      CreateConversationInput{Kind: common.ConversationSupport, ParticipantIDs: []uint64{2}},
			wantErr: common.ErrForbidden,
		},
		{
			name:    "only the creator",
			actor:   coach,
			in:      CreateConversationInput{Kind: common.ConversationGeneral, ParticipantIDs: []uint64{3}},
			wantErr: common.ErrInvalidInput,
		},
		{
			name:    "unknown kind",
			actor:   coach,
			in:      CreateConversationInput{Kind: "group", ParticipantIDs: []uint64{2}},
			wantErr: common.ErrInvalidInput,
		},
		{
			name:    "inactive participant",
			actor:   coach,
			in:      CreateConversationInput{Kind: common.ConversationGeneral, ParticipantIDs: []uint64{2, 9}},
			wantErr: common.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry, _, _ := newRegistry(t, active)
			conv, err := registry.Create(context.Background(), tt.actor, tt.in)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, conv)
		})
	}
}

func TestConversationRegistry_Join(t *testing.T) {
	t.Run("administrator joins and participants are told", func(t *testing.T) {
		registry, repo, notifier := newRegistry(t, nil)
		repo.EXPECT().ByID(gomock.Any(), uint64(7)).Return(&dbmysql.Conversation{ID: 7}, nil)
		repo.EXPECT().IsParticipant(gomock.Any(), uint64(7), uint64(1)).Return(false, nil)
		repo.EXPECT().AddParticipant(gomock.Any(), &dbmysql.Participant{
			ConversationID: 7,
			UserID:         1,
			Role:           common.ParticipantAdmin,
		}).Return(nil)
		repo.EXPECT().ParticipantIDs(gomock.Any(), uint64(7)).Return([]uint64{1, 2, 3}, nil)
		notifier.On("ParticipantJoined", mock.Anything, uint64(7), uint64(1), []uint64{1, 2, 3}).Return().Once()

		require.NoError(t, registry.Join(context.Background(), admin, 7))
		notifier.AssertExpectations(t)
	})

	t.Run("already a member", func(t *testing.T) {
		registry, repo, notifier := newRegistry(t, nil)
		repo.EXPECT().ByID(gomock.Any(), uint64(7)).Return(&dbmysql.Conversation{ID: 7}, nil)
		repo.EXPECT().IsParticipant(gomock.Any(), uint64(7), uint64(1)).Return(true, nil)

		err := registry.Join(context.Background(), admin, 7)
		assert.ErrorIs(t, err, common.ErrAlreadyMember)
		notifier.AssertNotCalled(t, "ParticipantJoined", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing conversation", func(t *testing.T) {
		registry, repo, _ := newRegistry(t, nil)
		repo.EXPECT().ByID(gomock.Any(), uint64(404)).Return(nil, fmt.Errorf("%w: conversation 404", common.ErrNotFound))

		assert.ErrorIs(t, registry.Join(context.Background(), admin, 404), common.ErrNotFound)
	})

	t.Run("non administrator", func(t *testing.T) {
		registry, _, _ := newRegistry(t, nil)
		assert.ErrorIs(t, registry.Join(context.Background(), coach, 7), common.ErrForbidden)
	})
}

func TestConversationRegistry_Get(t *testing.T) {
	conv := &dbmysql.Conversation{
		ID:   7,
		Kind: common.ConversationDeal,
		Participants: []dbmysql.Participant{
			{ConversationID: 7, UserID: 2},
			{ConversationID: 7, UserID: 3},
		},
	}

	registry, repo, _ := newRegistry(t, nil)
	repo.EXPECT().ByID(gomock.Any(), uint64(7)).Return(conv, nil).Times(3)

	got, err := registry.Get(context.Background(), coach, 7)
	require.NoError(t, err)
	assert.Equal(t, conv, got)

	_, err = registry.Get(context.Background(), outsider, 7)
	assert.ErrorIs(t, err, common.ErrForbidden)

	_, err = registry.Get(context.Background(), admin, 7)
	assert.NoError(t, err, "administrators read every conversation")
}
