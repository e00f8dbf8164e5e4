package dbmysql

import (
	"time"

	"gocoach/internal/common"
)

type Meeting struct {
	ID           uint64               `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	RequestID    uint64               `gorm:"column:request_id;not null;index" json:"request_id"`
	CoachUserID  uint64               `gorm:"column:coach_user_id;not null;index:idx_meetings_coach_window,priority:1" json:"coach_user_id"`
	PlayerUserID uint64               `gorm:"column:player_user_id;not null;index:idx_meetings_player_window,priority:1" json:"player_user_id"`
	StartAt      time.Time            `gorm:"column:start_at;not null;index:idx_meetings_coach_window,priority:2;index:idx_meetings_player_window,priority:2" json:"start_at"`
	EndAt        time.Time            `gorm:"column:end_at;not null" json:"end_at"`
	Status       common.MeetingStatus `gorm:"column:status;size:20;not null;index" json:"status"`
	LocationURI  string               `gorm:"column:location_uri;size:512" json:"location_uri"`
	Notes        string               `gorm:"column:notes;type:text" json:"notes"`
	CreatedBy    uint64               `gorm:"column:created_by;not null" json:"created_by"`
	CreatedAt    time.Time            `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time            `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Meeting) TableName() string {
	return "meetings"
}

func (m *Meeting) Snapshot() common.MeetingSnapshot {
	return common.MeetingSnapshot{
		ID:           m.ID,
		RequestID:    m.RequestID,
		CoachUserID:  m.CoachUserID,
		PlayerUserID: m.PlayerUserID,
		StartAt:      m.StartAt,
		EndAt:        m.EndAt,
		Status:       m.Status,
		LocationURI:  m.LocationURI,
		Notes:        m.Notes,
		CreatedBy:    m.CreatedBy,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// HasParty reports whether userID is the coach or the player of the meeting.
func (m *Meeting) HasParty(userID uint64) bool {
	return m.CoachUserID == userID || m.PlayerUserID == userID
}
