package seats

import (
	"time"

	"github.com/google/uuid"
)

// SeatGroup is a named cluster of seats: a banquet table, a stadium sector,
// or a standing zone.
type SeatGroup struct {
	ID      uuid.UUID     `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	EventID uuid.UUID     `json:"event_id" gorm:"type:uuid;index;not null;uniqueIndex:idx_event_group_code"`
	Code    string        `json:"code" gorm:"not null;size:20;uniqueIndex:idx_event_group_code"`
	Name    string        `json:"name" gorm:"not null;size:100"`
	Type    SeatGroupType `json:"type" gorm:"type:varchar(20);default:'table'"`

	BasePrice int  `json:"base_price" gorm:"not null;check:base_price >= 0"`
	Capacity  *int `json:"capacity,omitempty"`

	Seats []Seat `json:"seats,omitempty" gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE;"`
}

// Seat is the atomic inventory unit. Its status is written only through the
// repository's transactional transitions.
type Seat struct {
	ID      uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	EventID uuid.UUID `json:"event_id" gorm:"type:uuid;index;not null;uniqueIndex:idx_event_group_row_number"`
	GroupID uuid.UUID `json:"group_id" gorm:"type:uuid;index;not null;uniqueIndex:idx_event_group_row_number"`

	Row        string `json:"row" gorm:"size:10;uniqueIndex:idx_event_group_row_number"` // unused for tables
	SeatNumber *int   `json:"seat_number,omitempty" gorm:"uniqueIndex:idx_event_group_row_number"`

	Price int `json:"price" gorm:"not null;check:price >= 0"`

	Status Status `json:"status" gorm:"type:varchar(16);check:status IN ('FREE', 'RESERVED', 'SOLD', 'BLOCKED');default:'FREE'"`

	ReservedByID  *uuid.UUID `json:"reserved_by_id,omitempty" gorm:"type:uuid"`
	ReservedUntil *time.Time `json:"reserved_until,omitempty"`

	Group *SeatGroup `json:"group,omitempty" gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE;"`
}

// TableName sets the table name for SeatGroup
func (SeatGroup) TableName() string {
	return "seat_groups"
}

// TableName sets the table name for Seat
func (Seat) TableName() string {
	return "seats"
}

// SeatGroupResponse includes the live free-seat count
type SeatGroupResponse struct {
	ID        string `json:"id"`
	Code      string `json:"code"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	BasePrice int    `json:"base_price"`
	Capacity  *int   `json:"capacity,omitempty"`
	FreeSeats int64  `json:"free_seats"`
}

type SeatResponse struct {
	ID         string `json:"id"`
	Row        string `json:"row,omitempty"`
	SeatNumber *int   `json:"seat_number,omitempty"`
	Price      int    `json:"price"`
	Status     string `json:"status"`
	GroupID    string `json:"group_id"`
}

func (s *Seat) ToResponse() SeatResponse {
	return SeatResponse{
		ID:         s.ID.String(),
		Row:        s.Row,
		SeatNumber: s.SeatNumber,
		Price:      s.Price,
		Status:     string(s.Status),
		GroupID:    s.GroupID.String(),
	}
}

// CreateSeatGroupRequest creates a group and optionally generates its seats
type CreateSeatGroupRequest struct {
	EventID   string `json:"event_id" binding:"required,uuid"`
	Code      string `json:"code" binding:"required,min=1,max=20"`
	Name      string `json:"name" binding:"required,min=1,max=100"`
	Type      string `json:"type" binding:"omitempty,oneof=table sector zone"`
	BasePrice int    `json:"base_price" binding:"min=0"`
	Capacity  *int   `json:"capacity" binding:"omitempty,min=1"`

	// Seat generation: Rows x SeatsPerRow numbered seats, or Count unnumbered
	// seats (tables/zones). Mutually exclusive.
	Rows        []string `json:"rows" binding:"omitempty,max=100"`
	SeatsPerRow int      `json:"seats_per_row" binding:"omitempty,min=1,max=500"`
	Count       int      `json:"count" binding:"omitempty,min=1,max=5000"`
}
