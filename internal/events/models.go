package events

import (
	"time"

	"github.com/google/uuid"
)

// EventCategory groups events for public browsing
type EventCategory struct {
	ID   uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name string    `json:"name" gorm:"not null;size:100"`
	Slug string    `json:"slug" gorm:"uniqueIndex;not null;size:100"`
}

type Event struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Title       string    `json:"title" gorm:"not null;size:255"`
	Slug        string    `json:"slug" gorm:"uniqueIndex;not null;size:255"`
	Description string    `json:"description" gorm:"type:text"`

	CategoryID *uuid.UUID     `json:"category_id,omitempty" gorm:"type:uuid"`
	Category   *EventCategory `json:"category,omitempty" gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL;"`

	StartAt time.Time `json:"start_at" gorm:"not null"`
	EndAt   time.Time `json:"end_at" gorm:"not null"`

	VenueName string `json:"venue_name" gorm:"not null;size:255"`
	Address   string `json:"address" gorm:"size:255"`

	Visibility Visibility `json:"visibility" gorm:"type:varchar(20);default:'public'"`

	OrganizerID *uuid.UUID `json:"organizer_id,omitempty" gorm:"type:uuid"`

	Capacity  *int `json:"capacity,omitempty"`
	IsPaid    bool `json:"is_paid" gorm:"default:false"`
	BasePrice *int `json:"base_price,omitempty" gorm:"check:base_price >= 0"`

	IsActive  bool      `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Event) TableName() string {
	return "events"
}

// TableName specifies the table name for GORM
func (EventCategory) TableName() string {
	return "event_categories"
}

// BasePriceOrZero is the price snapshot written onto a new registration
func (e *Event) BasePriceOrZero() int {
	if e.BasePrice == nil {
		return 0
	}
	return *e.BasePrice
}

type EventResponse struct {
	ID             string        `json:"id"`
	Title          string        `json:"title"`
	Slug           string        `json:"slug"`
	Description    string        `json:"description"`
	Category       *CategoryInfo `json:"category,omitempty"`
	StartAt        time.Time     `json:"start_at"`
	EndAt          time.Time     `json:"end_at"`
	VenueName      string        `json:"venue_name"`
	Address        string        `json:"address"`
	Visibility     Visibility    `json:"visibility"`
	Capacity       *int          `json:"capacity,omitempty"`
	ConfirmedCount int64         `json:"confirmed_count"`
	IsPaid         bool          `json:"is_paid"`
	BasePrice      *int          `json:"base_price,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
}

type CategoryInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type CreateEventRequest struct {
	Title        string    `json:"title" binding:"required,min=3,max=255"`
	Slug         string    `json:"slug" binding:"required,min=3,max=255"`
	Description  string    `json:"description" binding:"max=5000"`
	CategorySlug string    `json:"category_slug"`
	StartAt      time.Time `json:"start_at" binding:"required"`
	EndAt        time.Time `json:"end_at" binding:"required,gtfield=StartAt"`
	VenueName    string    `json:"venue_name" binding:"required,min=2,max=255"`
	Address      string    `json:"address" binding:"max=255"`
	Visibility   string    `json:"visibility" binding:"omitempty,oneof=public inter_uni private"`
	Capacity     *int      `json:"capacity" binding:"omitempty,min=1"`
	IsPaid       bool      `json:"is_paid"`
	BasePrice    *int      `json:"base_price" binding:"omitempty,min=0"`
}

type UpdateEventRequest struct {
	Title       *string    `json:"title" binding:"omitempty,min=3,max=255"`
	Description *string    `json:"description" binding:"omitempty,max=5000"`
	StartAt     *time.Time `json:"start_at"`
	EndAt       *time.Time `json:"end_at"`
	VenueName   *string    `json:"venue_name" binding:"omitempty,min=2,max=255"`
	Address     *string    `json:"address" binding:"omitempty,max=255"`
	Visibility  *string    `json:"visibility" binding:"omitempty,oneof=public inter_uni private"`
	Capacity    *int       `json:"capacity" binding:"omitempty,min=1"`
	BasePrice   *int       `json:"base_price" binding:"omitempty,min=0"`
	IsActive    *bool      `json:"is_active"`
}

type EventListQuery struct {
	Category string `form:"category"`
	From     string `form:"from"`
	To       string `form:"to"`
}

// ToResponse converts an Event; confirmedCount is the aggregate recomputed
// from live registration rows, not a stored column.
func (e *Event) ToResponse(confirmedCount int64) EventResponse {
	resp := EventResponse{
		ID:             e.ID.String(),
		Title:          e.Title,
		Slug:           e.Slug,
		Description:    e.Description,
		StartAt:        e.StartAt,
		EndAt:          e.EndAt,
		VenueName:      e.VenueName,
		Address:        e.Address,
		Visibility:     e.Visibility,
		Capacity:       e.Capacity,
		ConfirmedCount: confirmedCount,
		IsPaid:         e.IsPaid,
		BasePrice:      e.BasePrice,
		CreatedAt:      e.CreatedAt,
	}
	if e.Category != nil {
		resp.Category = &CategoryInfo{
			ID:   e.Category.ID.String(),
			Name: e.Category.Name,
			Slug: e.Category.Slug,
		}
	}
	return resp
}
