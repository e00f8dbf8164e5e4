// Package notif fans meeting lifecycle events out to observers.
package notif

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"gocoach/internal/common"
)

// NotificationManager keeps the observer set and delivers events to it. Queued
// events are handled by a single dispatcher so observers see them in publish order.
type NotificationManager struct {
	observers    map[string]common.Observer
	eventChannel chan queuedEvent
	mu           sync.RWMutex
	closed       bool
	wg           sync.WaitGroup
	log          *slog.Logger
}

var _ common.Subject = (*NotificationManager)(nil)

type queuedEvent struct {
	ctx   context.Context
	event common.MeetingEvent
}

func NewNotificationManager(bufferSize int, log *slog.Logger) *NotificationManager {
	if bufferSize < 1 {
		bufferSize = 1
	}
	nm := &NotificationManager{
		observers:    make(map[string]common.Observer),
		eventChannel: make(chan queuedEvent, bufferSize),
		log:          log.With("component", "notifications"),
	}

	nm.wg.Add(1)
	go nm.processEvents()

	return nm
}

func (nm *NotificationManager) Subscribe(observer common.Observer) {
	nm.mu.Lock()
	defer nm.mu.Unlock()
	nm.observers[observer.Name()] = observer
	nm.log.Info("observer subscribed", "observer", observer.Name())
}

func (nm *NotificationManager) Unsubscribe(observer common.Observer) {
	nm.mu.Lock()
	defer nm.mu.Unlock()
	delete(nm.observers, observer.Name())
	nm.log.Info("observer unsubscribed", "observer", observer.Name())
}

// Notify delivers the event to every observer on the caller's goroutine.
func (nm *NotificationManager) Notify(ctx context.Context, event common.MeetingEvent) {
	nm.mu.RLock()
	observers := make([]common.Observer, 0, len(nm.observers))
	for _, obs := range nm.observers {
		observers = append(observers, obs)
	}
	nm.mu.RUnlock()

	for _, observer := range observers {
		if err := observer.Update(ctx, event); err != nil {
			nm.log.WarnContext(ctx, "observer update failed",
				"observer", observer.Name(), "event", event.Type, "meeting_id", event.Meeting.ID, "error", err)
		}
	}
}

// NotifyAsync queues the event without blocking. It reports false when the queue
// is full or the manager is shut down; the event is then dropped.
func (nm *NotificationManager) NotifyAsync(ctx context.Context, event common.MeetingEvent) bool {
	nm.mu.RLock()
	defer nm.mu.RUnlock()
	if nm.closed {
		return false
	}
	select {
	case nm.eventChannel <- queuedEvent{ctx: context.WithoutCancel(ctx), event: event}:
		return true
	default:
		nm.log.WarnContext(ctx, "notification queue full, dropping event",
			"event", event.Type, "meeting_id", event.Meeting.ID)
		return false
	}
}

func (nm *NotificationManager) processEvents() {
	defer nm.wg.Done()
	for q := range nm.eventChannel {
		nm.Notify(q.ctx, q.event)
	}
}

// Shutdown stops accepting events and waits for the queued ones to be delivered.
func (nm *NotificationManager) Shutdown() {
	nm.mu.Lock()
	if nm.closed {
		nm.mu.Unlock()
		return
	}
	nm.closed = true
	close(nm.eventChannel)
	nm.mu.Unlock()

	nm.wg.Wait()
	nm.log.Info("notification manager shutdown complete")
}

// NotificationService is the publisher the booking coordinator talks to.
type NotificationService struct {
	manager *NotificationManager
	log     *slog.Logger
}

func NewNotificationService(manager *NotificationManager, log *slog.Logger, observers ...common.Observer) *NotificationService {
	for _, obs := range observers {
		manager.Subscribe(obs)
	}
	return &NotificationService{manager: manager, log: log}
}

// Publish validates and queues a committed meeting change. Delivery is best effort.
func (s *NotificationService) Publish(ctx context.Context, event common.MeetingEvent) {
	if err := ValidateEvent(event); err != nil {
		s.log.ErrorContext(ctx, "refusing to publish malformed meeting event", "error", err)
		return
	}
	s.manager.NotifyAsync(ctx, event)
}

func (s *NotificationService) Shutdown() {
	s.manager.Shutdown()
}

func ValidateEvent(event common.MeetingEvent) error {
	switch event.Type {
	case common.MeetingScheduledEvent, common.MeetingUpdatedEvent,
		common.MeetingCancelledEvent, common.MeetingCompletedEvent:
	default:
		return fmt.Errorf("%w: unknown event type %q", common.ErrInvalidInput, event.Type)
	}
	if event.Meeting.ID == 0 {
		return fmt.Errorf("%w: meeting id is required", common.ErrInvalidInput)
	}
	if event.Meeting.CoachUserID == 0 || event.Meeting.PlayerUserID == 0 {
		return fmt.Errorf("%w: meeting parties are required", common.ErrInvalidInput)
	}
	return nil
}
