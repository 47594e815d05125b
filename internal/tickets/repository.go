package tickets

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrTicketNotFound   = errors.New("ticket not found")
	ErrTokenCollision   = errors.New("could not generate a unique ticket token")
	ErrSeatAlreadyBound = errors.New("seat is already bound to another ticket")
)

// tokenRetries bounds how many fresh tokens we try when an insert trips the
// unique constraint on token.
const tokenRetries = 3

type Repository interface {
	// GetOrCreateTx returns the registration's ticket, creating it inside the
	// caller's transaction when none exists. The bool reports whether a new
	// ticket was issued.
	GetOrCreateTx(tx *gorm.DB, registrationID uuid.UUID, seatID *uuid.UUID) (*Ticket, bool, error)

	// GetByTokenForUpdateTx locks the ticket row so a redemption decision
	// cannot race another scanner.
	GetByTokenForUpdateTx(tx *gorm.DB, token string) (*Ticket, error)

	MarkUsedTx(tx *gorm.DB, ticket *Ticket, usedAt time.Time) error

	GetByRegistrationID(ctx context.Context, registrationID uuid.UUID) (*Ticket, error)
	GetByRegistrationIDTx(tx *gorm.DB, registrationID uuid.UUID) (*Ticket, error)
	ListByIdentityKey(ctx context.Context, identityKey string) ([]OwnedTicket, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetOrCreateTx(tx *gorm.DB, registrationID uuid.UUID, seatID *uuid.UUID) (*Ticket, bool, error) {
	var ticket Ticket
	err := tx.Where("registration_id = ?", registrationID).First(&ticket).Error
	if err == nil {
		// Ticket already issued; keep its seat pointer current in case the
		// registration picked up a seat since.
		if seatID != nil && (ticket.SeatID == nil || *ticket.SeatID != *seatID) {
			if err := tx.Model(&ticket).Update("seat_id", seatID).Error; err != nil {
				return nil, false, err
			}
			ticket.SeatID = seatID
		}
		return &ticket, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	for attempt := 0; attempt < tokenRetries; attempt++ {
		token, err := GenerateToken()
		if err != nil {
			return nil, false, err
		}

		ticket = Ticket{
			RegistrationID: registrationID,
			SeatID:         seatID,
			Token:          token,
		}
		if err := tx.SavePoint("ticket_insert").Error; err != nil {
			return nil, false, err
		}
		err = tx.Create(&ticket).Error
		if err == nil {
			return &ticket, true, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, false, err
		}
		if err := tx.RollbackTo("ticket_insert").Error; err != nil {
			return nil, false, err
		}

		// A concurrent insert for the same registration wins over a retry.
		var existing Ticket
		if ferr := tx.Where("registration_id = ?", registrationID).First(&existing).Error; ferr == nil {
			return &existing, false, nil
		}

		// Only a token clash is worth a fresh token. A duplicate on the seat
		// index means another ticket owns the seat; retrying cannot help.
		if seatID != nil {
			var bound int64
			if cerr := tx.Model(&Ticket{}).Where("seat_id = ?", *seatID).Count(&bound).Error; cerr != nil {
				return nil, false, cerr
			}
			if bound > 0 {
				return nil, false, ErrSeatAlreadyBound
			}
		}
	}

	return nil, false, ErrTokenCollision
}

func (r *repository) GetByTokenForUpdateTx(tx *gorm.DB, token string) (*Ticket, error) {
	var ticket Ticket
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("token = ?", token).
		First(&ticket).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}
	return &ticket, nil
}

func (r *repository) MarkUsedTx(tx *gorm.DB, ticket *Ticket, usedAt time.Time) error {
	err := tx.Model(ticket).Updates(map[string]interface{}{
		"is_used": true,
		"used_at": usedAt,
	}).Error
	if err != nil {
		return err
	}
	ticket.IsUsed = true
	ticket.UsedAt = &usedAt
	return nil
}

func (r *repository) GetByRegistrationID(ctx context.Context, registrationID uuid.UUID) (*Ticket, error) {
	var ticket Ticket
	err := r.db.WithContext(ctx).Where("registration_id = ?", registrationID).First(&ticket).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}
	return &ticket, nil
}

func (r *repository) GetByRegistrationIDTx(tx *gorm.DB, registrationID uuid.UUID) (*Ticket, error) {
	var ticket Ticket
	err := tx.Where("registration_id = ?", registrationID).First(&ticket).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}
	return &ticket, nil
}

func (r *repository) ListByIdentityKey(ctx context.Context, identityKey string) ([]OwnedTicket, error) {
	var owned []OwnedTicket
	err := r.db.WithContext(ctx).
		Table("tickets").
		Select(`tickets.id AS ticket_id, tickets.token, tickets.is_used, tickets.used_at,
			events.title AS event_title, events.slug AS event_slug, events.start_at, events.venue_name,
			seat_groups.name AS group_name, seats.row AS seat_row, seats.seat_number`).
		Joins("JOIN registrations ON registrations.id = tickets.registration_id").
		Joins("JOIN events ON events.id = registrations.event_id").
		Joins("JOIN user_profiles ON user_profiles.id = registrations.user_id").
		Joins("LEFT JOIN seats ON seats.id = tickets.seat_id").
		Joins("LEFT JOIN seat_groups ON seat_groups.id = seats.group_id").
		Where("user_profiles.identity_key = ?", identityKey).
		Order("tickets.created_at DESC").
		Scan(&owned).Error
	if err != nil {
		return nil, err
	}
	return owned, nil
}
