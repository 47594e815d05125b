package payments

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gatepass/internal/registrations"
)

var ErrPaymentNotFound = errors.New("payment not found")

type Repository interface {
	Create(ctx context.Context, payment *Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Payment, error)
	GetByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*Payment, error)
	UpdateStatusTx(tx *gorm.DB, id uuid.UUID, status registrations.PaymentStatus) error
	ListByRegistration(ctx context.Context, registrationID uuid.UUID) ([]Payment, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, payment *Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Payment, error) {
	var payment Payment
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return &payment, nil
}

func (r *repository) GetByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*Payment, error) {
	var payment Payment
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return &payment, nil
}

func (r *repository) UpdateStatusTx(tx *gorm.DB, id uuid.UUID, status registrations.PaymentStatus) error {
	return tx.Model(&Payment{}).Where("id = ?", id).Update("status", status).Error
}

func (r *repository) ListByRegistration(ctx context.Context, registrationID uuid.UUID) ([]Payment, error) {
	var rows []Payment
	err := r.db.WithContext(ctx).
		Where("registration_id = ?", registrationID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}
