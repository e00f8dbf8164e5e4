package dbmysql

import (
	"gocoach/internal/common"
)

// User is the read model of the accounts table owned by the account service.
type User struct {
	ID       uint64      `gorm:"primaryKey;column:id" json:"id"`
	Name     string      `gorm:"column:name;size:255" json:"name"`
	Email    string      `gorm:"column:email;size:255" json:"email"`
	Role     common.Role `gorm:"column:role;size:20" json:"role"`
	IsActive bool        `gorm:"column:is_active" json:"is_active"`
}

func (User) TableName() string {
	return "users"
}

// Request is the read model of the negotiation workflow's request entity.
type Request struct {
	ID     uint64 `gorm:"primaryKey;column:id" json:"id"`
	Type   string `gorm:"column:type;size:50" json:"type"`
	Status string `gorm:"column:status;size:20" json:"status"`
}

func (Request) TableName() string {
	return "requests"
}

func (r *Request) Accepted() bool {
	return r.Status == common.RequestStatusAccepted
}
