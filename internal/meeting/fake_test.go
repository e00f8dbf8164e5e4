package meeting

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"

	"github.com/stretchr/testify/mock"

	"gocoach/internal/common"
	"gocoach/internal/dbmysql"
	"gocoach/internal/schedule"
)

// memRepo is an in-memory MeetingRepository. Every call locks independently, so the
// store alone does not make check-then-insert atomic; the party locker has to.
type memRepo struct {
	mu       sync.Mutex
	nextID   uint64
	meetings map[uint64]dbmysql.Meeting
	// crash makes the next Create panic, as a driver fault surfacing through gorm would.
	crash bool
}

func newMemRepo() *memRepo {
	return &memRepo{meetings: make(map[uint64]dbmysql.Meeting)}
}

func (r *memRepo) Transaction(ctx context.Context, fn func(tx MeetingRepository) error) error {
	return fn(r)
}

func (r *memRepo) LockParties(ctx context.Context, partyIDs ...uint64) error {
	return nil
}

func (r *memRepo) Create(ctx context.Context, m *dbmysql.Meeting) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.crash {
		r.crash = false
		panic("meetings insert: driver fault")
	}
	r.nextID++
	m.ID = r.nextID
	r.meetings[m.ID] = *m
	return nil
}

func (r *memRepo) ByID(ctx context.Context, id uint64) (*dbmysql.Meeting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.meetings[id]
	if !ok {
		return nil, fmt.Errorf("%w: meeting %d", common.ErrNotFound, id)
	}
	return &m, nil
}

func (r *memRepo) ByIDForUpdate(ctx context.Context, id uint64) (*dbmysql.Meeting, error) {
	return r.ByID(ctx, id)
}

func (r *memRepo) Save(ctx context.Context, m *dbmysql.Meeting) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.meetings[m.ID] = *m
	return nil
}

func (r *memRepo) Delete(ctx context.Context, id uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.meetings[id]; !ok {
		return fmt.Errorf("%w: meeting %d", common.ErrNotFound, id)
	}
	delete(r.meetings, id)
	return nil
}

func (r *memRepo) ActiveOverlapping(ctx context.Context, partyID uint64, window schedule.TimeRange, excludeID uint64) ([]*dbmysql.Meeting, error) {
	r.mu.Lock()
	var out []*dbmysql.Meeting
	for _, m := range r.meetings {
		m := m
		if !m.HasParty(partyID) || !m.Status.IsActive() || m.ID == excludeID {
			continue
		}
		if m.StartAt.Before(window.End) && m.EndAt.After(window.Start) {
			out = append(out, &m)
		}
	}
	r.mu.Unlock()
	runtime.Gosched()
	return out, nil
}

func (r *memRepo) CountLiveForRequest(ctx context.Context, requestID uint64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, m := range r.meetings {
		if m.RequestID == requestID && m.Status != common.MeetingCancelled {
			n++
		}
	}
	return n, nil
}

func (r *memRepo) List(ctx context.Context, f ListFilter) ([]*dbmysql.Meeting, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*dbmysql.Meeting
	for _, m := range r.meetings {
		m := m
		if f.Status != "" && m.Status != f.Status {
			continue
		}
		if f.PartyID != 0 && !m.HasParty(f.PartyID) {
			continue
		}
		if f.CoachID != 0 && m.CoachUserID != f.CoachID {
			continue
		}
		if f.PlayerID != 0 && m.PlayerUserID != f.PlayerID {
			continue
		}
		if f.StartFrom != nil && !m.StartAt.After(*f.StartFrom) {
			continue
		}
		out = append(out, &m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartAt.Before(out[j].StartAt) })
	return out, int64(len(out)), nil
}

func (r *memRepo) put(m dbmysql.Meeting) *dbmysql.Meeting {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	m.ID = r.nextID
	r.meetings[m.ID] = m
	return &m
}

type publisherMock struct {
	mock.Mock
}

func (p *publisherMock) Publish(ctx context.Context, event common.MeetingEvent) {
	p.Called(ctx, event)
}

func eventOfType(kind common.MeetingEventType) interface{} {
	return mock.MatchedBy(func(e common.MeetingEvent) bool { return e.Type == kind })
}
