package tickets

import (
	"time"

	"github.com/google/uuid"

	"gatepass/internal/seats"
)

// Ticket is the admission credential for exactly one registration. The seat
// pointer is set for seated events and protected against seat deletion while
// a ticket still references it.
type Ticket struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	RegistrationID uuid.UUID `json:"registration_id" gorm:"type:uuid;not null;uniqueIndex"`

	SeatID *uuid.UUID  `json:"seat_id,omitempty" gorm:"type:uuid"`
	Seat   *seats.Seat `json:"seat,omitempty" gorm:"foreignKey:SeatID;constraint:OnDelete:RESTRICT;"`

	Token  string     `json:"token" gorm:"not null;size:128;uniqueIndex"`
	IsUsed bool       `json:"is_used" gorm:"not null;default:false"`
	UsedAt *time.Time `json:"used_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName sets the table name for Ticket
func (Ticket) TableName() string {
	return "tickets"
}

// OwnedTicket is the flattened row returned by the my-tickets listing. The
// joins live in the repository so the response needs no extra round trips.
type OwnedTicket struct {
	TicketID   uuid.UUID  `json:"ticket_id"`
	Token      string     `json:"token"`
	IsUsed     bool       `json:"is_used"`
	UsedAt     *time.Time `json:"used_at,omitempty"`
	EventTitle string     `json:"event_title"`
	EventSlug  string     `json:"event_slug"`
	StartAt    time.Time  `json:"start_at"`
	VenueName  string     `json:"venue_name"`
	GroupName  *string    `json:"seat_group,omitempty"`
	SeatRow    *string    `json:"seat_row,omitempty"`
	SeatNumber *int       `json:"seat_number,omitempty"`
}
