package events

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestBasePriceOrZero(t *testing.T) {
	event := Event{}
	if event.BasePriceOrZero() != 0 {
		t.Fatal("expected zero for unset base price")
	}

	price := 150000
	event.BasePrice = &price
	if event.BasePriceOrZero() != 150000 {
		t.Fatalf("expected 150000, got %d", event.BasePriceOrZero())
	}
}

func TestVisibilityIsValid(t *testing.T) {
	for _, v := range []Visibility{VisibilityPublic, VisibilityInterUni, VisibilityPrivate} {
		if !v.IsValid() {
			t.Errorf("expected %s to be valid", v)
		}
	}
	for _, v := range []Visibility{"", "PUBLIC", "hidden"} {
		if v.IsValid() {
			t.Errorf("expected %q to be invalid", v)
		}
	}
}

func TestEventToResponse(t *testing.T) {
	category := &EventCategory{ID: uuid.New(), Name: "Technology", Slug: "technology"}
	start := time.Date(2026, 9, 10, 18, 0, 0, 0, time.UTC)
	event := Event{
		ID:         uuid.New(),
		Title:      "Open Source Meetup",
		Slug:       "open-source-meetup",
		Category:   category,
		StartAt:    start,
		EndAt:      start.Add(3 * time.Hour),
		VenueName:  "IT Park",
		Visibility: VisibilityPublic,
	}

	resp := event.ToResponse(42)
	if resp.ID != event.ID.String() || resp.Slug != "open-source-meetup" {
		t.Fatalf("identity fields not mapped: %+v", resp)
	}
	if resp.ConfirmedCount != 42 {
		t.Fatalf("expected confirmed count 42, got %d", resp.ConfirmedCount)
	}
	if resp.Category == nil || resp.Category.Slug != "technology" {
		t.Fatalf("expected category info, got %+v", resp.Category)
	}

	event.Category = nil
	if uncategorized := event.ToResponse(0); uncategorized.Category != nil {
		t.Fatal("expected nil category info for uncategorized event")
	}
}
