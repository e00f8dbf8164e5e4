package notif

import (
	"context"
	"log/slog"

	"gocoach/internal/common"
)

// MeetingDelivery pushes a meeting event to connected users.
type MeetingDelivery interface {
	PublishMeeting(ctx context.Context, event common.MeetingEvent)
}

type RealtimeObserver struct {
	delivery MeetingDelivery
}

func NewRealtimeObserver(delivery MeetingDelivery) *RealtimeObserver {
	return &RealtimeObserver{delivery: delivery}
}

func (r *RealtimeObserver) Name() string {
	return "realtime_observer"
}

func (r *RealtimeObserver) Update(ctx context.Context, event common.MeetingEvent) error {
	r.delivery.PublishMeeting(ctx, event)
	return nil
}

// LogObserver writes an audit line per meeting event.
type LogObserver struct {
	log *slog.Logger
}

func NewLogObserver(log *slog.Logger) *LogObserver {
	return &LogObserver{log: log.With("component", "meeting_audit")}
}

func (l *LogObserver) Name() string {
	return "log_observer"
}

func (l *LogObserver) Update(ctx context.Context, event common.MeetingEvent) error {
	l.log.InfoContext(ctx, string(event.Type),
		"meeting_id", event.Meeting.ID,
		"status", event.Meeting.Status,
		"coach_id", event.Meeting.CoachUserID,
		"player_id", event.Meeting.PlayerUserID,
		"actor_id", event.ActorID,
		"occurred_at", event.OccurredAt,
	)
	return nil
}
