package seats

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrSeatNotFound    = errors.New("seat not found")
	ErrSeatUnavailable = errors.New("seat is not available")
	ErrGroupNotFound   = errors.New("seat group not found")
)

type Repository interface {
	// Seat group operations
	CreateGroup(ctx context.Context, group *SeatGroup) error
	GetGroupByID(ctx context.Context, id uuid.UUID) (*SeatGroup, error)
	ListGroupsByEvent(ctx context.Context, eventID uuid.UUID) ([]SeatGroup, error)
	CountFreeByGroup(ctx context.Context, groupID uuid.UUID) (int64, error)

	// Seat operations
	CreateSeats(ctx context.Context, seatRows []Seat) error
	ListSeatsByGroup(ctx context.Context, groupID uuid.UUID) ([]Seat, error)

	// AcquireTx takes an exclusive row lock on the seat before reading its
	// status. It must run inside the caller's transaction; the lock is held
	// until that transaction commits or rolls back.
	AcquireTx(tx *gorm.DB, eventID, seatID uuid.UUID) (*Seat, error)

	// ReserveTx and SellTx transition a previously acquired seat. The caller
	// must hold the row lock obtained by AcquireTx in the same transaction.
	ReserveTx(tx *gorm.DB, seat *Seat, userID uuid.UUID, until time.Time) error
	SellTx(tx *gorm.DB, seat *Seat, userID uuid.UUID) error

	// GetForUpdateTx locks a seat row without judging its status. Payment
	// confirmation uses it to promote a RESERVED seat.
	GetForUpdateTx(tx *gorm.DB, seatID uuid.UUID) (*Seat, error)

	// MarkSoldTx flips a RESERVED seat to SOLD on payment confirmation.
	MarkSoldTx(tx *gorm.DB, seatID uuid.UUID) error

	// ReleaseExpired returns expired RESERVED seats to FREE and unbinds the
	// tickets that pointed at them, in one transaction. Without the unbind
	// the partial unique index on tickets(seat_id) would block the seat from
	// ever being ticketed again.
	ReleaseExpired(ctx context.Context, now time.Time) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateGroup(ctx context.Context, group *SeatGroup) error {
	return r.db.WithContext(ctx).Create(group).Error
}

func (r *repository) GetGroupByID(ctx context.Context, id uuid.UUID) (*SeatGroup, error) {
	var group SeatGroup
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&group).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}
	return &group, nil
}

func (r *repository) ListGroupsByEvent(ctx context.Context, eventID uuid.UUID) ([]SeatGroup, error) {
	var groups []SeatGroup
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("code ASC").
		Find(&groups).Error
	return groups, err
}

func (r *repository) CountFreeByGroup(ctx context.Context, groupID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Seat{}).
		Where("group_id = ? AND status = ?", groupID, StatusFree).
		Count(&count).Error
	return count, err
}

func (r *repository) CreateSeats(ctx context.Context, seatRows []Seat) error {
	if len(seatRows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&seatRows).Error
}

func (r *repository) ListSeatsByGroup(ctx context.Context, groupID uuid.UUID) ([]Seat, error) {
	var seatRows []Seat
	err := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("row ASC, seat_number ASC").
		Find(&seatRows).Error
	return seatRows, err
}

func (r *repository) AcquireTx(tx *gorm.DB, eventID, seatID uuid.UUID) (*Seat, error) {
	var seat Seat

	// Lock first, inspect second. Reading the status before the lock would
	// let two transactions both observe FREE.
	err := tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND event_id = ?", seatID, eventID).
		First(&seat).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSeatNotFound
		}
		return nil, err
	}

	if !seat.Status.IsAcquirable() {
		return nil, ErrSeatUnavailable
	}

	return &seat, nil
}

func (r *repository) GetForUpdateTx(tx *gorm.DB, seatID uuid.UUID) (*Seat, error) {
	var seat Seat
	err := tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", seatID).
		First(&seat).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSeatNotFound
		}
		return nil, err
	}
	return &seat, nil
}

func (r *repository) ReserveTx(tx *gorm.DB, seat *Seat, userID uuid.UUID, until time.Time) error {
	return r.transitionTx(tx, seat, StatusReserved, userID, &until)
}

func (r *repository) SellTx(tx *gorm.DB, seat *Seat, userID uuid.UUID) error {
	return r.transitionTx(tx, seat, StatusSold, userID, nil)
}

func (r *repository) transitionTx(tx *gorm.DB, seat *Seat, status Status, userID uuid.UUID, until *time.Time) error {
	updates := map[string]interface{}{
		"status":         status,
		"reserved_by_id": userID,
		"reserved_until": until,
	}
	if err := tx.Model(&Seat{}).Where("id = ?", seat.ID).Updates(updates).Error; err != nil {
		return err
	}
	seat.Status = status
	seat.ReservedByID = &userID
	seat.ReservedUntil = until
	return nil
}

func (r *repository) MarkSoldTx(tx *gorm.DB, seatID uuid.UUID) error {
	return tx.Model(&Seat{}).
		Where("id = ? AND status <> ?", seatID, StatusSold).
		Updates(map[string]interface{}{
			"status":         StatusSold,
			"reserved_until": nil,
		}).Error
}

func (r *repository) ReleaseExpired(ctx context.Context, now time.Time) (int64, error) {
	var released int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var seatIDs []uuid.UUID
		err := tx.Model(&Seat{}).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("status = ? AND reserved_until IS NOT NULL AND reserved_until < ?", StatusReserved, now).
			Pluck("id", &seatIDs).Error
		if err != nil {
			return err
		}
		if len(seatIDs) == 0 {
			return nil
		}

		// Unbind the expired holders' tickets before freeing the seats. Raw
		// SQL keeps this package out of the tickets schema.
		if err := tx.Exec(`UPDATE tickets SET seat_id = NULL WHERE seat_id IN ?`, seatIDs).Error; err != nil {
			return err
		}

		result := tx.Model(&Seat{}).
			Where("id IN ?", seatIDs).
			Updates(map[string]interface{}{
				"status":         StatusFree,
				"reserved_by_id": nil,
				"reserved_until": nil,
			})
		if result.Error != nil {
			return result.Error
		}
		released = result.RowsAffected
		return nil
	})
	return released, err
}
