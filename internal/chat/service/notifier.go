package service

import (
	"context"

	"gocoach/internal/dbmysql"
)

// Notifier receives committed chat changes for realtime delivery. Implementations
// must not block and must swallow delivery failures.
type Notifier interface {
	MessageCreated(ctx context.Context, msg *dbmysql.Message, participantIDs []uint64)
	MessagesRead(ctx context.Context, conversationID, readerID uint64)
	ParticipantJoined(ctx context.Context, conversationID, userID uint64, participantIDs []uint64)
}

type nopNotifier struct{}

func (nopNotifier) MessageCreated(context.Context, *dbmysql.Message, []uint64) {}
func (nopNotifier) MessagesRead(context.Context, uint64, uint64) {}
func (nopNotifier) ParticipantJoined(context.Context, uint64, uint64, []uint64) {}
