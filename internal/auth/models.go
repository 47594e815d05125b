package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"gatepass/internal/users"
)

// StaffAccount is a password-backed login for organizers, admins and door
// staff. Attendees never get one; their identity comes from the external
// provider and lives in user_profiles.
type StaffAccount struct {
	ID           uuid.UUID  `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Username     string     `json:"username" gorm:"uniqueIndex;not null;size:100"`
	PasswordHash string     `json:"-" gorm:"not null;size:255"`
	FullName     string     `json:"full_name" gorm:"not null;size:255"`
	Role         users.Role `json:"role" gorm:"type:varchar(20);not null;default:'ORGANIZER'"`
	IsActive     bool       `json:"is_active" gorm:"default:true"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName sets the table name for StaffAccount
func (StaffAccount) TableName() string {
	return "staff_accounts"
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

// CreateStaffRequest registers a new staff account (admin only).
type CreateStaffRequest struct {
	Username string `json:"username" binding:"required,min=3,max=100"`
	Password string `json:"password" binding:"required,min=6"`
	FullName string `json:"full_name" binding:"required,max=255"`
	Role     string `json:"role" binding:"omitempty"`
}

// RefreshTokenRequest represents refresh token request
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// StaffResponse represents staff data in responses (without credentials)
type StaffResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	FullName  string    `json:"full_name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthResponse represents the authentication response
type AuthResponse struct {
	Staff        StaffResponse `json:"staff"`
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	ExpiresIn    int64         `json:"expires_in"`
}

// TokenPair represents access and refresh tokens
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// JWTClaims represents staff JWT token claims
type JWTClaims struct {
	StaffID  string `json:"staff_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Type     string `json:"type"` // "access" or "refresh"
	jwt.RegisteredClaims
}

func (s *StaffAccount) ToResponse() StaffResponse {
	return StaffResponse{
		ID:        s.ID.String(),
		Username:  s.Username,
		FullName:  s.FullName,
		Role:      string(s.Role),
		CreatedAt: s.CreatedAt,
	}
}
