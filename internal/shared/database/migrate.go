package database

import (
	"gatepass/internal/auth"
	"gatepass/internal/checkin"
	"gatepass/internal/events"
	"gatepass/internal/payments"
	"gatepass/internal/registrations"
	"gatepass/internal/seats"
	"gatepass/internal/tickets"
	"gatepass/internal/users"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	// uuid_generate_v4 defaults need the extension in place first
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		return err
	}

	return db.AutoMigrate(
		&users.University{},
		&users.UserProfile{},
		&auth.StaffAccount{},
		&events.EventCategory{},
		&events.Event{},
		&seats.SeatGroup{},
		&seats.Seat{},
		&registrations.Registration{},
		&tickets.Ticket{},
		&checkin.CheckInLog{},
		&payments.Payment{},
	)
}
