package registrations

import (
	"time"

	"github.com/google/uuid"

	"gatepass/internal/events"
	"gatepass/internal/users"
)

// Registration ties one attendee to one event. The (event, user) pair is
// unique, which is what makes the register endpoint an idempotent upsert.
type Registration struct {
	ID uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`

	EventID uuid.UUID     `json:"event_id" gorm:"type:uuid;not null;uniqueIndex:idx_event_user"`
	Event   *events.Event `json:"event,omitempty" gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE;"`

	UserID uuid.UUID          `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_event_user"`
	User   *users.UserProfile `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`

	Status        Status        `json:"status" gorm:"type:varchar(16);not null;default:'PENDING'"`
	PaymentStatus PaymentStatus `json:"payment_status" gorm:"type:varchar(16);not null;default:'NONE'"`

	PromoCode  string `json:"promo_code,omitempty" gorm:"size:64"`
	FinalPrice int    `json:"final_price" gorm:"not null;default:0;check:final_price >= 0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName sets the table name for Registration
func (Registration) TableName() string {
	return "registrations"
}

// RegisterRequest is the attendee-supplied payload for the register endpoint.
// Identity travels in the body because attendees authenticate with an
// external provider, not with this service.
type RegisterRequest struct {
	IdentityKey string `json:"identity_key" binding:"required,max=255"`
	Username    string `json:"username" binding:"omitempty,max=255"`
	FullName    string `json:"full_name" binding:"required,max=255"`
	Phone       string `json:"phone" binding:"omitempty,max=32"`

	SeatID    *uuid.UUID `json:"seat_id,omitempty"`
	PromoCode string     `json:"promo_code" binding:"omitempty,max=64"`
}

// Identity extracts the users-module upsert payload.
func (r RegisterRequest) Identity() users.Identity {
	return users.Identity{
		IdentityKey: r.IdentityKey,
		Username:    r.Username,
		FullName:    r.FullName,
		Phone:       r.Phone,
	}
}

// TicketInfo is the slice of the ticket the register response exposes.
type TicketInfo struct {
	ID     uuid.UUID  `json:"id"`
	Token  string     `json:"token"`
	SeatID *uuid.UUID `json:"seat_id,omitempty"`
}

// RegisterResponse reports the registration outcome. Created distinguishes a
// fresh registration from an idempotent replay.
type RegisterResponse struct {
	RegistrationID uuid.UUID     `json:"registration_id"`
	EventSlug      string        `json:"event_slug"`
	Status         Status        `json:"status"`
	PaymentStatus  PaymentStatus `json:"payment_status"`
	FinalPrice     int           `json:"final_price"`
	Created        bool          `json:"created"`
	Ticket         *TicketInfo   `json:"ticket,omitempty"`
}

// OwnedRegistration is the flattened row for the my-registrations listing.
type OwnedRegistration struct {
	RegistrationID uuid.UUID     `json:"registration_id"`
	EventTitle     string        `json:"event_title"`
	EventSlug      string        `json:"event_slug"`
	StartAt        time.Time     `json:"start_at"`
	Status         Status        `json:"status"`
	PaymentStatus  PaymentStatus `json:"payment_status"`
	FinalPrice     int           `json:"final_price"`
	CreatedAt      time.Time     `json:"created_at"`
}
