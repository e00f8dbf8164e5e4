package common

import (
	"time"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCoach    Role = "coach"
	RolePlayer   Role = "player"
	RoleCustomer Role = "customer"
)

func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// Principal is the verified caller attached to every inbound request.
type Principal struct {
	UserID uint64
	Role   Role
}

func (p Principal) IsAdmin() bool {
	return p.Role.IsAdmin()
}

type MeetingStatus string

const (
	MeetingScheduled   MeetingStatus = "Scheduled"
	MeetingRescheduled MeetingStatus = "Rescheduled"
	MeetingInProgress  MeetingStatus = "InProgress"
	MeetingCompleted   MeetingStatus = "Completed"
	MeetingCancelled   MeetingStatus = "Cancelled"
)

// ActiveMeetingStatuses are the statuses that occupy a party's calendar.
var ActiveMeetingStatuses = []MeetingStatus{
	MeetingScheduled,
	MeetingRescheduled,
	MeetingInProgress,
}

func (s MeetingStatus) String() string {
	return string(s)
}

func (s MeetingStatus) IsValid() bool {
	switch s {
	case MeetingScheduled, MeetingRescheduled, MeetingInProgress, MeetingCompleted, MeetingCancelled:
		return true
	}
	return false
}

func (s MeetingStatus) IsActive() bool {
	return s == MeetingScheduled || s == MeetingRescheduled || s == MeetingInProgress
}

func (s MeetingStatus) IsTerminal() bool {
	return s == MeetingCompleted || s == MeetingCancelled
}

type ConversationKind string

const (
	ConversationDeal    ConversationKind = "deal"
	ConversationGeneral ConversationKind = "general"
	ConversationSupport ConversationKind = "support"
)

func (k ConversationKind) IsValid() bool {
	return k == ConversationDeal || k == ConversationGeneral || k == ConversationSupport
}

type ParticipantRole string

const (
	ParticipantMember ParticipantRole = "member"
	ParticipantAdmin  ParticipantRole = "admin"
)

const RequestStatusAccepted = "accepted"

type MeetingEventType string

const (
	MeetingScheduledEvent MeetingEventType = "meeting_scheduled"
	MeetingUpdatedEvent   MeetingEventType = "meeting_updated"
	MeetingCancelledEvent MeetingEventType = "meeting_cancelled"
	MeetingCompletedEvent MeetingEventType = "meeting_completed"
)

// MeetingSnapshot is the immutable payload carried by meeting lifecycle events.
type MeetingSnapshot struct {
	ID           uint64        `json:"id"`
	RequestID    uint64        `json:"request_id"`
	CoachUserID  uint64        `json:"coach_user_id"`
	PlayerUserID uint64        `json:"player_user_id"`
	StartAt      time.Time     `json:"start_at"`
	EndAt        time.Time     `json:"end_at"`
	Status       MeetingStatus `json:"status"`
	LocationURI  string        `json:"location_uri"`
	Notes        string        `json:"notes"`
	CreatedBy    uint64        `json:"created_by"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

type MeetingEvent struct {
	Type       MeetingEventType
	Meeting    MeetingSnapshot
	ActorID    uint64
	OccurredAt time.Time
}

// Recipients returns the two parties of the meeting.
func (e MeetingEvent) Recipients() []uint64 {
	return []uint64{e.Meeting.CoachUserID, e.Meeting.PlayerUserID}
}

type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

func NewPagination(page, limit int, total int64) Pagination {
	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Pagination{Page: page, Limit: limit, Total: total, Pages: pages}
}

// Offset converts page/limit into a row offset. Pages are 1-based.
func Offset(page, limit int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * limit
}
