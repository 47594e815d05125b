package database

import (
	"gorm.io/gorm"
)

// MigrateConstraints adds the constraints AutoMigrate cannot express. These
// back the locking code: even a bug in the transaction layer cannot sell one
// seat twice or double-issue a ticket.
func MigrateConstraints(db *gorm.DB) error {
	// One ticket per registration
	err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS uniq_ticket_per_registration
		ON tickets (registration_id);
	`).Error
	if err != nil {
		return err
	}

	// A live seat pointer is exclusive across tickets
	err = db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS uniq_ticket_seat
		ON tickets (seat_id) WHERE seat_id IS NOT NULL;
	`).Error
	if err != nil {
		return err
	}

	// One registration per attendee per event
	err = db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS uniq_registration_event_user
		ON registrations (event_id, user_id);
	`).Error
	if err != nil {
		return err
	}

	// Sweeper scans only expired holds
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_seats_reserved_until
		ON seats (reserved_until) WHERE status = 'RESERVED';
	`).Error
	if err != nil {
		return err
	}

	// Check-in audit lookups by ticket
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_check_in_logs_ticket
		ON check_in_logs (ticket_id);
	`).Error
	if err != nil {
		return err
	}

	return nil
}
