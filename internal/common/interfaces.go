package common

import (
	"context"
)

type Observer interface {
	Update(ctx context.Context, event MeetingEvent) error
	Name() string
}

type Subject interface {
	Subscribe(observer Observer)
	Unsubscribe(observer Observer)
	Notify(ctx context.Context, event MeetingEvent)
}

// EventPublisher is what the booking coordinator depends on to announce committed changes.
type EventPublisher interface {
	Publish(ctx context.Context, event MeetingEvent)
}
