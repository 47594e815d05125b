package checkin

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	AppendLogTx(tx *gorm.DB, log *CheckInLog) error

	// TicketContextTx resolves the attendee, event and seat behind a locked
	// ticket inside the redemption transaction.
	TicketContextTx(tx *gorm.DB, ticketID uuid.UUID) (*ticketContext, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) AppendLogTx(tx *gorm.DB, log *CheckInLog) error {
	return tx.Create(log).Error
}

func (r *repository) TicketContextTx(tx *gorm.DB, ticketID uuid.UUID) (*ticketContext, error) {
	var row ticketContext
	err := tx.Table("tickets").
		Select(`events.title AS event_title, events.slug AS event_slug,
			user_profiles.full_name AS attendee_name,
			universities.name AS university_name, universities.short_name AS university_short,
			seat_groups.name AS group_name, seats.row AS seat_row, seats.seat_number`).
		Joins("JOIN registrations ON registrations.id = tickets.registration_id").
		Joins("JOIN events ON events.id = registrations.event_id").
		Joins("JOIN user_profiles ON user_profiles.id = registrations.user_id").
		Joins("LEFT JOIN universities ON universities.id = user_profiles.university_id").
		Joins("LEFT JOIN seats ON seats.id = tickets.seat_id").
		Joins("LEFT JOIN seat_groups ON seat_groups.id = seats.group_id").
		Where("tickets.id = ?", ticketID).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}
