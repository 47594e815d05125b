package notifications

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewEnvelopeWrapsPayload(t *testing.T) {
	seatID := uuid.New()
	payload := RegistrationConfirmedEvent{
		RegistrationID: uuid.New(),
		EventID:        uuid.New(),
		EventSlug:      "spring-gala",
		AttendeeName:   "Aziza Karimova",
		IdentityKey:    "tg:100001",
		SeatID:         &seatID,
	}

	env, err := newEnvelope(EventRegistrationConfirmed, payload)
	if err != nil {
		t.Fatalf("new envelope: %v", err)
	}
	if env.ID == uuid.Nil {
		t.Fatal("expected a generated envelope id")
	}
	if env.Type != EventRegistrationConfirmed {
		t.Fatalf("expected type %s, got %s", EventRegistrationConfirmed, env.Type)
	}
	if env.CreatedAt.IsZero() {
		t.Fatal("expected a creation timestamp")
	}

	var decoded RegistrationConfirmedEvent
	if err := json.Unmarshal(env.Payload, &decoded); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if decoded.EventSlug != "spring-gala" || decoded.RegistrationID != payload.RegistrationID {
		t.Fatalf("payload mangled: %+v", decoded)
	}
	if decoded.SeatID == nil || *decoded.SeatID != seatID {
		t.Fatal("expected seat id to survive the round trip")
	}
}

func TestNoopPublisher(t *testing.T) {
	pub := NewNoopPublisher()
	ctx := context.Background()

	if err := pub.RegistrationConfirmed(ctx, RegistrationConfirmedEvent{}); err != nil {
		t.Fatalf("registration confirmed: %v", err)
	}
	if err := pub.TicketCheckedIn(ctx, TicketCheckedInEvent{UsedAt: time.Now()}); err != nil {
		t.Fatalf("ticket checked in: %v", err)
	}
	if err := pub.SeatsReleased(ctx, SeatsReleasedEvent{Released: 3}); err != nil {
		t.Fatalf("seats released: %v", err)
	}
	if err := pub.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
