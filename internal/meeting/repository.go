package meeting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gocoach/internal/common"
	"gocoach/internal/dbmysql"
	"gocoach/internal/schedule"
)

// ListFilter narrows meeting listings. Zero values mean "no constraint".
type ListFilter struct {
	Status    common.MeetingStatus
	CoachID   uint64
	PlayerID  uint64
	PartyID   uint64
	StartFrom *time.Time
	Page      int
	Limit     int
}

type MeetingRepository interface {
	// Transaction runs fn against a repository bound to a single database transaction.
	Transaction(ctx context.Context, fn func(tx MeetingRepository) error) error
	// LockParties takes row locks on the party accounts until the transaction ends.
	LockParties(ctx context.Context, partyIDs ...uint64) error
	Create(ctx context.Context, m *dbmysql.Meeting) error
	ByID(ctx context.Context, id uint64) (*dbmysql.Meeting, error)
	ByIDForUpdate(ctx context.Context, id uint64) (*dbmysql.Meeting, error)
	Save(ctx context.Context, m *dbmysql.Meeting) error
	Delete(ctx context.Context, id uint64) error
	ActiveOverlapping(ctx context.Context, partyID uint64, window schedule.TimeRange, excludeID uint64) ([]*dbmysql.Meeting, error)
	CountLiveForRequest(ctx context.Context, requestID uint64) (int64, error)
	List(ctx context.Context, filter ListFilter) ([]*dbmysql.Meeting, int64, error)
}

type meetingRepo struct {
	db *gorm.DB
}

func NewMeetingRepository(db *gorm.DB) MeetingRepository {
	return &meetingRepo{db: db}
}

func (r *meetingRepo) Transaction(ctx context.Context, fn func(tx MeetingRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&meetingRepo{db: tx})
	})
}

func (r *meetingRepo) LockParties(ctx context.Context, partyIDs ...uint64) error {
	if len(partyIDs) == 0 {
		return nil
	}
	var ids []uint64
	err := r.db.WithContext(ctx).
		Model(&dbmysql.User{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", partyIDs).
		Order("id").
		Pluck("id", &ids).Error
	if err != nil {
		return fmt.Errorf("lock parties: %w", err)
	}
	return nil
}

func (r *meetingRepo) Create(ctx context.Context, m *dbmysql.Meeting) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *meetingRepo) ByID(ctx context.Context, id uint64) (*dbmysql.Meeting, error) {
	return r.first(r.db.WithContext(ctx), id)
}

func (r *meetingRepo) ByIDForUpdate(ctx context.Context, id uint64) (*dbmysql.Meeting, error) {
	return r.first(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *meetingRepo) first(q *gorm.DB, id uint64) (*dbmysql.Meeting, error) {
	var m dbmysql.Meeting
	if err := q.Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: meeting %d", common.ErrNotFound, id)
		}
		return nil, err
	}
	return &m, nil
}

func (r *meetingRepo) Save(ctx context.Context, m *dbmysql.Meeting) error {
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *meetingRepo) Delete(ctx context.Context, id uint64) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&dbmysql.Meeting{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: meeting %d", common.ErrNotFound, id)
	}
	return nil
}

// ActiveOverlapping returns the party's active meetings intersecting window.
// The predicate is the half-open overlap test start_at < window.End AND end_at > window.Start.
func (r *meetingRepo) ActiveOverlapping(ctx context.Context, partyID uint64, window schedule.TimeRange, excludeID uint64) ([]*dbmysql.Meeting, error) {
	q := r.db.WithContext(ctx).
		Where("(coach_user_id = ? OR player_user_id = ?)", partyID, partyID).
		Where("status IN ?", common.ActiveMeetingStatuses).
		Where("start_at < ? AND end_at > ?", window.End, window.Start)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var meetings []*dbmysql.Meeting
	if err := q.Find(&meetings).Error; err != nil {
		return nil, err
	}
	return meetings, nil
}

func (r *meetingRepo) CountLiveForRequest(ctx context.Context, requestID uint64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&dbmysql.Meeting{}).
		Where("request_id = ? AND status <> ?", requestID, common.MeetingCancelled).
		Count(&n).Error
	return n, err
}

func (r *meetingRepo) List(ctx context.Context, f ListFilter) ([]*dbmysql.Meeting, int64, error) {
	q := r.db.WithContext(ctx).Model(&dbmysql.Meeting{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.CoachID != 0 {
		q = q.Where("coach_user_id = ?", f.CoachID)
	}
	if f.PlayerID != 0 {
		q = q.Where("player_user_id = ?", f.PlayerID)
	}
	if f.PartyID != 0 {
		q = q.Where("(coach_user_id = ? OR player_user_id = ?)", f.PartyID, f.PartyID)
	}
	if f.StartFrom != nil {
		q = q.Where("start_at > ?", *f.StartFrom)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "start_at DESC"
	if f.StartFrom != nil {
		order = "start_at ASC"
	}
	var meetings []*dbmysql.Meeting
	err := q.Order(order).Order("id").
		Offset(common.Offset(f.Page, f.Limit)).
		Limit(f.Limit).
		Find(&meetings).Error
	if err != nil {
		return nil, 0, err
	}
	return meetings, total, nil
}
