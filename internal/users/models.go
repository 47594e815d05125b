package users

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleStudent   Role = "STUDENT"
	RoleOrganizer Role = "ORGANIZER"
	RoleAdmin     Role = "ADMIN"
)

func IsValidRole(role string) bool {
	switch role {
	case string(RoleStudent), string(RoleOrganizer), string(RoleAdmin):
		return true
	default:
		return false
	}
}

// University is the organization an attendee is affiliated with
type University struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name      string    `json:"name" gorm:"not null;size:255"`
	ShortName string    `json:"short_name" gorm:"size:50"`
	City      string    `json:"city" gorm:"size:255"`
}

// DisplayName prefers the short name when one is set
func (u *University) DisplayName() string {
	if u.ShortName != "" {
		return u.ShortName
	}
	return u.Name
}

// UserProfile is the lightweight attendee identity record. Identity is
// authenticated by an external provider; the only stable handle this system
// relies on is IdentityKey.
type UserProfile struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	IdentityKey string    `json:"identity_key" gorm:"uniqueIndex;not null;size:255"`
	Username    string    `json:"username" gorm:"size:255"`
	FullName    string    `json:"full_name" gorm:"not null;size:255"`
	Phone       string    `json:"phone" gorm:"size:32"`

	UniversityID *uuid.UUID  `json:"university_id,omitempty" gorm:"type:uuid"`
	University   *University `json:"university,omitempty" gorm:"foreignKey:UniversityID;constraint:OnDelete:SET NULL;"`

	Role      Role      `json:"role" gorm:"type:varchar(20);not null;default:'STUDENT'"`
	IsActive  bool      `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName sets the table name for UserProfile
func (UserProfile) TableName() string {
	return "user_profiles"
}

// TableName sets the table name for University
func (University) TableName() string {
	return "universities"
}

// Identity carries the attendee fields supplied by the external identity
// collaborator on a registration request.
type Identity struct {
	IdentityKey string `json:"identity_key" binding:"required"`
	Username    string `json:"username"`
	FullName    string `json:"full_name" binding:"required"`
	Phone       string `json:"phone"`
}

// AffiliationName returns the attendee's university display name, if any
func (u *UserProfile) AffiliationName() string {
	if u.University == nil {
		return ""
	}
	return u.University.DisplayName()
}
