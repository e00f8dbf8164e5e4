package meeting

import (
	"context"

	"gocoach/internal/dbmysql"
	"gocoach/internal/schedule"
)

type overlapFinder interface {
	ActiveOverlapping(ctx context.Context, partyID uint64, window schedule.TimeRange, excludeID uint64) ([]*dbmysql.Meeting, error)
}

// ConflictChecker answers whether a party already has an active meeting in a window.
// Bind it to the transactional repository so the answer holds until commit.
type ConflictChecker struct {
	store overlapFinder
}

func NewConflictChecker(store overlapFinder) *ConflictChecker {
	return &ConflictChecker{store: store}
}

func (c *ConflictChecker) HasConflict(ctx context.Context, partyID uint64, window schedule.TimeRange, excludeID uint64) (bool, error) {
	candidates, err := c.store.ActiveOverlapping(ctx, partyID, window, excludeID)
	if err != nil {
		return false, err
	}
	for _, m := range candidates {
		if m.ID == excludeID || !m.Status.IsActive() {
			continue
		}
		if window.Overlaps(schedule.TimeRange{Start: m.StartAt, End: m.EndAt}) {
			return true, nil
		}
	}
	return false, nil
}
