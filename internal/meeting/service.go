// Package meeting coordinates booking: no party may ever hold two active
// meetings whose time ranges overlap.
package meeting

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gocoach/internal/common"
	"gocoach/internal/dbmysql"
	"gocoach/internal/schedule"
)

type CreateMeetingInput struct {
	RequestID    uint64    `json:"request_id" validate:"required"`
	CoachUserID  uint64    `json:"coach_user_id" validate:"required"`
	PlayerUserID uint64    `json:"player_user_id" validate:"required,nefield=CoachUserID"`
	StartAt      time.Time `json:"start_at" validate:"required"`
	EndAt        time.Time `json:"end_at" validate:"required"`
	LocationURI  string    `json:"location_uri" validate:"omitempty,max=512"`
	Notes        string    `json:"notes"`
}

// MeetingPatch carries the fields an update may change. Nil means untouched.
type MeetingPatch struct {
	StartAt     *time.Time            `json:"start_at"`
	EndAt       *time.Time            `json:"end_at"`
	LocationURI *string               `json:"location_uri" validate:"omitempty,max=512"`
	Notes       *string               `json:"notes"`
	Status      *common.MeetingStatus `json:"status"`
}

func (p MeetingPatch) Empty() bool {
	return p.StartAt == nil && p.EndAt == nil && p.LocationURI == nil && p.Notes == nil && p.Status == nil
}

type BookingService interface {
	Create(ctx context.Context, actor common.Principal, in CreateMeetingInput) (*dbmysql.Meeting, error)
	Update(ctx context.Context, actor common.Principal, id uint64, patch MeetingPatch) (*dbmysql.Meeting, error)
	Cancel(ctx context.Context, actor common.Principal, id uint64) (*dbmysql.Meeting, error)
	Complete(ctx context.Context, actor common.Principal, id uint64, notes *string) (*dbmysql.Meeting, error)
	Delete(ctx context.Context, actor common.Principal, id uint64) error
	Get(ctx context.Context, actor common.Principal, id uint64) (*dbmysql.Meeting, error)
	List(ctx context.Context, actor common.Principal, filter ListFilter) ([]*dbmysql.Meeting, int64, error)
	ListMine(ctx context.Context, actor common.Principal, status common.MeetingStatus, upcoming bool, page, limit int) ([]*dbmysql.Meeting, int64, error)
}

type Options struct {
	// OneMeetingPerRequest rejects a booking when the request already has a non-cancelled meeting.
	OneMeetingPerRequest bool
	Now                  func() time.Time
}

type bookingService struct {
	repo      MeetingRepository
	requests  RequestDirectory
	users     UserDirectory
	locker    *PartyLocker
	publisher common.EventPublisher
	opts      Options
	log       *slog.Logger
}

func NewBookingService(
	repo MeetingRepository,
	requests RequestDirectory,
	users UserDirectory,
	locker *PartyLocker,
	publisher common.EventPublisher,
	opts Options,
	log *slog.Logger,
) BookingService {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if locker == nil {
		locker = NewPartyLocker()
	}
	return &bookingService{
		repo:      repo,
		requests:  requests,
		users:     users,
		locker:    locker,
		publisher: publisher,
		opts:      opts,
		log:       log.With("component", "booking"),
	}
}

func (s *bookingService) now() time.Time {
	return s.opts.Now().UTC()
}

func (s *bookingService) Create(ctx context.Context, actor common.Principal, in CreateMeetingInput) (*dbmysql.Meeting, error) {
	if !actor.IsAdmin() {
		return nil, common.ErrForbidden
	}
	window, err := schedule.NewTimeRange(in.StartAt, in.EndAt)
	if err != nil {
		return nil, err
	}
	if window.StartsBefore(s.now()) {
		return nil, common.ErrPastSchedule
	}
	if in.CoachUserID == in.PlayerUserID {
		return nil, fmt.Errorf("%w: coach and player must differ", common.ErrInvalidInput)
	}

	req, err := s.requests.Request(ctx, in.RequestID)
	if err != nil {
		return nil, err
	}
	if !req.Accepted() {
		return nil, fmt.Errorf("%w: request %d is %s", common.ErrRequestNotEligible, req.ID, req.Status)
	}
	if _, err := activeWithRole(ctx, s.users, in.CoachUserID, "coach", common.RoleCoach, common.RoleAdmin); err != nil {
		return nil, err
	}
	if _, err := activeWithRole(ctx, s.users, in.PlayerUserID, "player", common.RolePlayer, common.RoleCustomer); err != nil {
		return nil, err
	}

	m := &dbmysql.Meeting{
		RequestID:    in.RequestID,
		CoachUserID:  in.CoachUserID,
		PlayerUserID: in.PlayerUserID,
		StartAt:      window.Start,
		EndAt:        window.End,
		Status:       common.MeetingScheduled,
		LocationURI:  strings.TrimSpace(in.LocationURI),
		Notes:        in.Notes,
		CreatedBy:    actor.UserID,
	}

	if err := s.book(ctx, in, window, m); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "meeting scheduled",
		"meeting_id", m.ID, "coach_id", m.CoachUserID, "player_id", m.PlayerUserID, "window", window.String())
	s.publish(ctx, common.MeetingScheduledEvent, m, actor)
	return m, nil
}

// book inserts m while holding both parties, in process and in the database.
func (s *bookingService) book(ctx context.Context, in CreateMeetingInput, window schedule.TimeRange, m *dbmysql.Meeting) error {
	unlock := s.locker.Lock(in.CoachUserID, in.PlayerUserID)
	defer unlock()

	return s.repo.Transaction(ctx, func(tx MeetingRepository) error {
		if err := tx.LockParties(ctx, in.CoachUserID, in.PlayerUserID); err != nil {
			return err
		}
		if s.opts.OneMeetingPerRequest {
			n, err := tx.CountLiveForRequest(ctx, in.RequestID)
			if err != nil {
				return err
			}
			if n > 0 {
				return fmt.Errorf("%w: request %d already has a meeting", common.ErrRequestNotEligible, in.RequestID)
			}
		}
		if err := s.ensureFree(ctx, tx, window, 0, in.CoachUserID, in.PlayerUserID); err != nil {
			return err
		}
		return tx.Create(ctx, m)
	})
}

func (s *bookingService) Update(ctx context.Context, actor common.Principal, id uint64, patch MeetingPatch) (*dbmysql.Meeting, error) {
	if !actor.IsAdmin() {
		return nil, common.ErrForbidden
	}
	if patch.Empty() {
		return nil, fmt.Errorf("%w: nothing to update", common.ErrInvalidInput)
	}
	if patch.Status != nil && !patch.Status.IsValid() {
		return nil, fmt.Errorf("%w: unknown status %q", common.ErrInvalidInput, *patch.Status)
	}

	m, err := s.mutate(ctx, id, func(tx MeetingRepository, m *dbmysql.Meeting) error {
		current := schedule.TimeRange{Start: m.StartAt, End: m.EndAt}
		next := current
		if patch.StartAt != nil {
			next.Start = patch.StartAt.UTC()
		}
		if patch.EndAt != nil {
			next.End = patch.EndAt.UTC()
		}
		if err := next.Validate(); err != nil {
			return err
		}

		timeChanged := !next.Equal(current)
		var location string
		locationChanged := false
		if patch.LocationURI != nil {
			location = strings.TrimSpace(*patch.LocationURI)
			locationChanged = location != m.LocationURI
		}

		target, err := ResolveStatus(m.Status, patch.Status, timeChanged || locationChanged)
		if err != nil {
			return err
		}
		if timeChanged && !target.IsTerminal() && next.StartsBefore(s.now()) {
			return common.ErrPastSchedule
		}
		if timeChanged && target.IsActive() {
			if err := s.ensureFree(ctx, tx, next, m.ID, m.CoachUserID, m.PlayerUserID); err != nil {
				return err
			}
		}

		m.StartAt, m.EndAt = next.Start, next.End
		if locationChanged {
			m.LocationURI = location
		}
		if patch.Notes != nil {
			m.Notes = *patch.Notes
		}
		m.Status = target
		return tx.Save(ctx, m)
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "meeting updated", "meeting_id", m.ID, "status", m.Status)
	s.publish(ctx, common.MeetingUpdatedEvent, m, actor)
	return m, nil
}

func (s *bookingService) Cancel(ctx context.Context, actor common.Principal, id uint64) (*dbmysql.Meeting, error) {
	if !actor.IsAdmin() {
		return nil, common.ErrForbidden
	}
	m, err := s.mutate(ctx, id, func(tx MeetingRepository, m *dbmysql.Meeting) error {
		if m.Status == common.MeetingCancelled {
			return fmt.Errorf("%w: meeting is already cancelled", common.ErrInvalidTransition)
		}
		if err := Transition(m.Status, common.MeetingCancelled); err != nil {
			return err
		}
		m.Status = common.MeetingCancelled
		return tx.Save(ctx, m)
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "meeting cancelled", "meeting_id", m.ID)
	s.publish(ctx, common.MeetingCancelledEvent, m, actor)
	return m, nil
}

func (s *bookingService) Complete(ctx context.Context, actor common.Principal, id uint64, notes *string) (*dbmysql.Meeting, error) {
	if !actor.IsAdmin() {
		return nil, common.ErrForbidden
	}
	m, err := s.mutate(ctx, id, func(tx MeetingRepository, m *dbmysql.Meeting) error {
		path, err := CompletionPath(m.Status)
		if err != nil {
			return err
		}
		for _, next := range path {
			if err := Transition(m.Status, next); err != nil {
				return err
			}
			m.Status = next
		}
		if notes != nil {
			m.Notes = *notes
		}
		return tx.Save(ctx, m)
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "meeting completed", "meeting_id", m.ID)
	s.publish(ctx, common.MeetingCompletedEvent, m, actor)
	return m, nil
}

// Delete removes the row outright. It skips the state machine and emits no event.
func (s *bookingService) Delete(ctx context.Context, actor common.Principal, id uint64) error {
	if !actor.IsAdmin() {
		return common.ErrForbidden
	}
	existing, err := s.repo.ByID(ctx, id)
	if err != nil {
		return err
	}
	unlock := s.locker.Lock(existing.CoachUserID, existing.PlayerUserID)
	defer unlock()

	if err := s.repo.Transaction(ctx, func(tx MeetingRepository) error {
		return tx.Delete(ctx, id)
	}); err != nil {
		return err
	}
	s.log.InfoContext(ctx, "meeting deleted", "meeting_id", id, "actor_id", actor.UserID)
	return nil
}

func (s *bookingService) Get(ctx context.Context, actor common.Principal, id uint64) (*dbmysql.Meeting, error) {
	m, err := s.repo.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && !m.HasParty(actor.UserID) {
		return nil, common.ErrForbidden
	}
	return m, nil
}

func (s *bookingService) List(ctx context.Context, actor common.Principal, filter ListFilter) ([]*dbmysql.Meeting, int64, error) {
	if !actor.IsAdmin() {
		return nil, 0, common.ErrForbidden
	}
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, 0, fmt.Errorf("%w: unknown status %q", common.ErrInvalidInput, filter.Status)
	}
	return s.repo.List(ctx, filter)
}

func (s *bookingService) ListMine(ctx context.Context, actor common.Principal, status common.MeetingStatus, upcoming bool, page, limit int) ([]*dbmysql.Meeting, int64, error) {
	if status != "" && !status.IsValid() {
		return nil, 0, fmt.Errorf("%w: unknown status %q", common.ErrInvalidInput, status)
	}
	filter := ListFilter{PartyID: actor.UserID, Status: status, Page: page, Limit: limit}
	if upcoming {
		now := s.now()
		filter.StartFrom = &now
	}
	return s.repo.List(ctx, filter)
}

// mutate loads the meeting to learn its parties, serializes on them, then re-reads
// it under a row lock and applies fn inside one transaction.
func (s *bookingService) mutate(ctx context.Context, id uint64, fn func(tx MeetingRepository, m *dbmysql.Meeting) error) (*dbmysql.Meeting, error) {
	existing, err := s.repo.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	unlock := s.locker.Lock(existing.CoachUserID, existing.PlayerUserID)
	defer unlock()

	var out *dbmysql.Meeting
	err = s.repo.Transaction(ctx, func(tx MeetingRepository) error {
		if err := tx.LockParties(ctx, existing.CoachUserID, existing.PlayerUserID); err != nil {
			return err
		}
		m, err := tx.ByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := fn(tx, m); err != nil {
			return err
		}
		out = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *bookingService) ensureFree(ctx context.Context, tx MeetingRepository, window schedule.TimeRange, excludeID uint64, parties ...uint64) error {
	checker := NewConflictChecker(tx)
	for _, party := range parties {
		busy, err := checker.HasConflict(ctx, party, window, excludeID)
		if err != nil {
			return err
		}
		if busy {
			return fmt.Errorf("%w: user %d is busy during %s", common.ErrSchedulingConflict, party, window)
		}
	}
	return nil
}

func (s *bookingService) publish(ctx context.Context, kind common.MeetingEventType, m *dbmysql.Meeting, actor common.Principal) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(ctx, common.MeetingEvent{
		Type:       kind,
		Meeting:    m.Snapshot(),
		ActorID:    actor.UserID,
		OccurredAt: s.now(),
	})
}
