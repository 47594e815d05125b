package checkin

import (
	"time"

	"github.com/google/uuid"

	"gatepass/internal/users"
)

// CheckInLog is the append-only audit trail of redemptions. Rows are written
// once and never updated.
type CheckInLog struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	TicketID uuid.UUID `json:"ticket_id" gorm:"type:uuid;not null;index"`

	CheckedByID *uuid.UUID         `json:"checked_by_id,omitempty" gorm:"type:uuid"`
	CheckedBy   *users.UserProfile `json:"checked_by,omitempty" gorm:"foreignKey:CheckedByID;constraint:OnDelete:SET NULL;"`

	Note      string    `json:"note,omitempty" gorm:"size:255"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName sets the table name for CheckInLog
func (CheckInLog) TableName() string {
	return "check_in_logs"
}

// CheckInRequest is the scanner payload. The checker identity is optional; a
// gate device without an operator session still gets to admit people.
type CheckInRequest struct {
	Token              string `json:"token" binding:"required"`
	CheckerIdentityKey string `json:"checker_identity_key" binding:"omitempty,max=255"`
	Note               string `json:"note" binding:"omitempty,max=255"`
}

// CheckInResponse is what the gate screen shows on a successful scan.
type CheckInResponse struct {
	Status       string     `json:"status"`
	EventTitle   string     `json:"event_title"`
	AttendeeName string     `json:"attendee_name"`
	Affiliation  *string    `json:"affiliation,omitempty"`
	GroupName    *string    `json:"seat_group,omitempty"`
	SeatRow      *string    `json:"seat_row,omitempty"`
	SeatNumber   *int       `json:"seat_number,omitempty"`
	UsedAt       time.Time  `json:"used_at"`
	CheckedBy    *uuid.UUID `json:"checked_by,omitempty"`
}

// ticketContext is the joined row describing who the ticket admits and where
// it seats them.
type ticketContext struct {
	EventTitle      string
	EventSlug       string
	AttendeeName    string
	UniversityName  *string
	UniversityShort *string
	GroupName       *string
	SeatRow         *string
	SeatNumber      *int
}
