package notifications

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EventType identifies the kind of domain event on the wire.
type EventType string

const (
	EventRegistrationConfirmed EventType = "registration.confirmed"
	EventTicketCheckedIn       EventType = "ticket.checked_in"
	EventSeatsReleased         EventType = "seats.released"
)

// Envelope is the wire format for every domain event. Payload holds the
// type-specific body; the envelope carries routing and tracing fields.
type Envelope struct {
	ID        uuid.UUID       `json:"id"`
	Type      EventType       `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

// RegistrationConfirmedEvent is emitted after a registration commits in
// CONFIRMED state, either at creation (free events) or on payment.
type RegistrationConfirmedEvent struct {
	RegistrationID uuid.UUID  `json:"registration_id"`
	EventID        uuid.UUID  `json:"event_id"`
	EventSlug      string     `json:"event_slug"`
	AttendeeName   string     `json:"attendee_name"`
	IdentityKey    string     `json:"identity_key"`
	SeatID         *uuid.UUID `json:"seat_id,omitempty"`
}

// TicketCheckedInEvent is emitted after a successful redemption commits.
type TicketCheckedInEvent struct {
	TicketID  uuid.UUID  `json:"ticket_id"`
	EventSlug string     `json:"event_slug"`
	CheckedBy *uuid.UUID `json:"checked_by,omitempty"`
	UsedAt    time.Time  `json:"used_at"`
}

// SeatsReleasedEvent is emitted by the reservation sweeper.
type SeatsReleasedEvent struct {
	Released int64     `json:"released"`
	SweptAt  time.Time `json:"swept_at"`
}

func newEnvelope(eventType EventType, payload interface{}) (*Envelope, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Envelope{
		ID:        uuid.New(),
		Type:      eventType,
		Payload:   body,
		CreatedAt: time.Now().UTC(),
	}, nil
}
