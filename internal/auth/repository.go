package auth

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type Repository interface {
	CreateStaff(ctx context.Context, staff *StaffAccount) error
	GetStaffByUsername(ctx context.Context, username string) (*StaffAccount, error)
	GetStaffByID(ctx context.Context, id string) (*StaffAccount, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateStaff(ctx context.Context, staff *StaffAccount) error {
	return r.db.WithContext(ctx).Create(staff).Error
}

func (r *repository) GetStaffByUsername(ctx context.Context, username string) (*StaffAccount, error) {
	var staff StaffAccount
	err := r.db.WithContext(ctx).Where("username = ? AND is_active = ?", username, true).First(&staff).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStaffNotFound
		}
		return nil, err
	}
	return &staff, nil
}

func (r *repository) GetStaffByID(ctx context.Context, id string) (*StaffAccount, error) {
	var staff StaffAccount
	err := r.db.WithContext(ctx).Where("id = ? AND is_active = ?", id, true).First(&staff).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStaffNotFound
		}
		return nil, err
	}
	return &staff, nil
}

func (r *repository) UsernameExists(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&StaffAccount{}).Where("username = ?", username).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
