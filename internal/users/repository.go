package users

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrProfileNotFound = errors.New("user profile not found")

type Repository interface {
	GetByIdentityKey(ctx context.Context, identityKey string) (*UserProfile, error)
	GetByID(ctx context.Context, id uuid.UUID) (*UserProfile, error)

	// UpsertByIdentityKeyTx get-or-creates a profile inside the caller's
	// transaction. Existing profiles are returned unchanged; the supplied
	// fields only seed a newly created row.
	UpsertByIdentityKeyTx(tx *gorm.DB, identity Identity) (*UserProfile, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByIdentityKey(ctx context.Context, identityKey string) (*UserProfile, error) {
	var profile UserProfile
	err := r.db.WithContext(ctx).
		Preload("University").
		Where("identity_key = ?", identityKey).
		First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*UserProfile, error) {
	var profile UserProfile
	err := r.db.WithContext(ctx).
		Preload("University").
		Where("id = ?", id).
		First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *repository) UpsertByIdentityKeyTx(tx *gorm.DB, identity Identity) (*UserProfile, error) {
	profile := UserProfile{
		IdentityKey: identity.IdentityKey,
		Username:    identity.Username,
		FullName:    identity.FullName,
		Phone:       identity.Phone,
		Role:        RoleStudent,
		IsActive:    true,
	}

	// Insert-or-ignore keyed on identity_key, then read back the winning row.
	// Safe against two concurrent first-time registrations of the same user.
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "identity_key"}},
		DoNothing: true,
	}).Create(&profile).Error
	if err != nil {
		return nil, err
	}

	var existing UserProfile
	if err := tx.Where("identity_key = ?", identity.IdentityKey).First(&existing).Error; err != nil {
		return nil, err
	}
	return &existing, nil
}
