package meeting

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"gocoach/internal/common"
	"gocoach/internal/dbmysql"
)

//go:generate mockgen -destination=mocks/mock_directory.go -package=mocks gocoach/internal/meeting RequestDirectory,UserDirectory

// RequestDirectory reads requests owned by the negotiation workflow.
type RequestDirectory interface {
	Request(ctx context.Context, id uint64) (*dbmysql.Request, error)
}

// UserDirectory reads accounts owned by the account service.
type UserDirectory interface {
	User(ctx context.Context, id uint64) (*dbmysql.User, error)
	// ActiveUsers returns the active accounts among ids; missing or disabled ids are skipped.
	ActiveUsers(ctx context.Context, ids []uint64) ([]*dbmysql.User, error)
}

type gormDirectory struct {
	db *gorm.DB
}

func NewRequestDirectory(db *gorm.DB) RequestDirectory {
	return &gormDirectory{db: db}
}

func NewUserDirectory(db *gorm.DB) UserDirectory {
	return &gormDirectory{db: db}
}

func (d *gormDirectory) Request(ctx context.Context, id uint64) (*dbmysql.Request, error) {
	var req dbmysql.Request
	if err := d.db.WithContext(ctx).Where("id = ?", id).First(&req).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: request %d", common.ErrNotFound, id)
		}
		return nil, err
	}
	return &req, nil
}

func (d *gormDirectory) User(ctx context.Context, id uint64) (*dbmysql.User, error) {
	var u dbmysql.User
	if err := d.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %d", common.ErrNotFound, id)
		}
		return nil, err
	}
	return &u, nil
}

func (d *gormDirectory) ActiveUsers(ctx context.Context, ids []uint64) ([]*dbmysql.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var users []*dbmysql.User
	err := d.db.WithContext(ctx).
		Where("id IN ? AND is_active = ?", ids, true).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// activeWithRole loads a user and checks it is active and holds one of roles.
func activeWithRole(ctx context.Context, users UserDirectory, id uint64, what string, roles ...common.Role) (*dbmysql.User, error) {
	u, err := users.User(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s not found or invalid role", common.ErrNotFound, what)
		}
		return nil, err
	}
	if !u.IsActive {
		return nil, fmt.Errorf("%w: %s not found or invalid role", common.ErrNotFound, what)
	}
	for _, r := range roles {
		if u.Role == r {
			return u, nil
		}
	}
	return nil, fmt.Errorf("%w: %s not found or invalid role", common.ErrNotFound, what)
}
