package service

import (
	"context"
	"io"
	"log/slog"

	"github.com/stretchr/testify/mock"

	"gocoach/internal/dbmysql"
)

type notifierMock struct {
	mock.Mock
}

func (n *notifierMock) MessageCreated(ctx context.Context, msg *dbmysql.Message, participantIDs []uint64) {
	n.Called(ctx, msg, participantIDs)
}

func (n *notifierMock) MessagesRead(ctx context.Context, conversationID, readerID uint64) {
	n.Called(ctx, conversationID, readerID)
}

func (n *notifierMock) ParticipantJoined(ctx context.Context, conversationID, userID uint64, participantIDs []uint64) {
	n.Called(ctx, conversationID, userID, participantIDs)
}

type staticUsers map[uint64]bool

func (s staticUsers) ActiveUsers(_ context.Context, ids []uint64) ([]*dbmysql.User, error) {
	var out []*dbmysql.User
	for _, id := range ids {
		if s[id] {
			out = append(out, &dbmysql.User{ID: id, IsActive: true})
		}
	}
	return out, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
