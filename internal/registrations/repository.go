package registrations

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrRegistrationNotFound = errors.New("registration not found")

type Repository interface {
	// GetOrCreateTx inserts the registration for (event, user) or returns the
	// existing one. The unique index on the pair makes the insert race-safe;
	// the bool reports whether this call created the row.
	GetOrCreateTx(tx *gorm.DB, reg *Registration) (*Registration, bool, error)

	UpdateTx(tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error

	GetByID(ctx context.Context, id uuid.UUID) (*Registration, error)
	GetByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*Registration, error)

	CountConfirmedByEvent(ctx context.Context, eventID uuid.UUID) (int64, error)
	ListByIdentityKey(ctx context.Context, identityKey string) ([]OwnedRegistration, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetOrCreateTx(tx *gorm.DB, reg *Registration) (*Registration, bool, error) {
	res := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "event_id"}, {Name: "user_id"}},
		DoNothing: true,
	}).Create(reg)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected > 0 {
		return reg, true, nil
	}

	// Lost the insert; read back the row that won.
	var existing Registration
	err := tx.Where("event_id = ? AND user_id = ?", reg.EventID, reg.UserID).First(&existing).Error
	if err != nil {
		return nil, false, err
	}
	return &existing, false, nil
}

func (r *repository) UpdateTx(tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
	return tx.Model(&Registration{}).Where("id = ?", id).Updates(updates).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Registration, error) {
	var reg Registration
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&reg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRegistrationNotFound
		}
		return nil, err
	}
	return &reg, nil
}

func (r *repository) GetByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*Registration, error) {
	var reg Registration
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&reg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRegistrationNotFound
		}
		return nil, err
	}
	return &reg, nil
}

func (r *repository) CountConfirmedByEvent(ctx context.Context, eventID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Registration{}).
		Where("event_id = ? AND status = ?", eventID, StatusConfirmed).
		Count(&count).Error
	return count, err
}

func (r *repository) ListByIdentityKey(ctx context.Context, identityKey string) ([]OwnedRegistration, error) {
	var owned []OwnedRegistration
	err := r.db.WithContext(ctx).
		Table("registrations").
		Select(`registrations.id AS registration_id, events.title AS event_title,
			events.slug AS event_slug, events.start_at,
			registrations.status, registrations.payment_status,
			registrations.final_price, registrations.created_at`).
		Joins("JOIN events ON events.id = registrations.event_id").
		Joins("JOIN user_profiles ON user_profiles.id = registrations.user_id").
		Where("user_profiles.identity_key = ?", identityKey).
		Order("registrations.created_at DESC").
		Scan(&owned).Error
	if err != nil {
		return nil, err
	}
	return owned, nil
}
