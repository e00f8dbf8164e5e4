package meeting

import (
	"fmt"

	"gocoach/internal/common"
)

// transitions lists the legal status changes. Completed and Cancelled are terminal.
// Rescheduled -> Rescheduled lets an already moved meeting be moved again.
var transitions = map[common.MeetingStatus][]common.MeetingStatus{
	common.MeetingScheduled:   {common.MeetingRescheduled, common.MeetingInProgress, common.MeetingCancelled},
	common.MeetingRescheduled: {common.MeetingRescheduled, common.MeetingInProgress, common.MeetingCancelled},
	common.MeetingInProgress:  {common.MeetingCompleted, common.MeetingCancelled},
}

func CanTransition(from, to common.MeetingStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func Transition(from, to common.MeetingStatus) error {
	if !to.IsValid() {
		return fmt.Errorf("%w: unknown status %q", common.ErrInvalidInput, to)
	}
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", common.ErrInvalidTransition, from, to)
	}
	return nil
}

// ResolveStatus decides the status an edit leads to. A time or location edit without
// an explicit status implies Rescheduled; a notes-only edit keeps the current status.
func ResolveStatus(current common.MeetingStatus, requested *common.MeetingStatus, rescheduling bool) (common.MeetingStatus, error) {
	if current.IsTerminal() && rescheduling {
		return "", fmt.Errorf("%w: %s meetings cannot be moved", common.ErrInvalidTransition, current)
	}
	if requested != nil {
		if *requested == current {
			return current, nil
		}
		if err := Transition(current, *requested); err != nil {
			return "", err
		}
		return *requested, nil
	}

	if !rescheduling {
		return current, nil
	}
	if err := Transition(current, common.MeetingRescheduled); err != nil {
		return "", err
	}
	return common.MeetingRescheduled, nil
}

// CompletionPath returns the transitions complete walks through. Scheduled and
// Rescheduled meetings pass through InProgress on the way to Completed.
func CompletionPath(current common.MeetingStatus) ([]common.MeetingStatus, error) {
	switch current {
	case common.MeetingInProgress:
		return []common.MeetingStatus{common.MeetingCompleted}, nil
	case common.MeetingScheduled, common.MeetingRescheduled:
		return []common.MeetingStatus{common.MeetingInProgress, common.MeetingCompleted}, nil
	case common.MeetingCompleted:
		return nil, fmt.Errorf("%w: meeting is already completed", common.ErrInvalidTransition)
	default:
		return nil, fmt.Errorf("%w: cannot complete a %s meeting", common.ErrInvalidTransition, current)
	}
}
