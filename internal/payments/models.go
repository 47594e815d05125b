package payments

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"gatepass/internal/registrations"
)

// Provider identifies the payment rail a confirmation came from.
type Provider string

const (
	ProviderClick   Provider = "click"
	ProviderPayme   Provider = "payme"
	ProviderUzum    Provider = "uzum"
	ProviderManual  Provider = "manual"
	ProviderUnknown Provider = "unknown"
)

func (p Provider) IsValid() bool {
	switch p {
	case ProviderClick, ProviderPayme, ProviderUzum, ProviderManual, ProviderUnknown:
		return true
	default:
		return false
	}
}

// Payment records one payment attempt for a registration. RawPayload keeps
// the provider's webhook body verbatim for reconciliation.
type Payment struct {
	ID uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`

	RegistrationID uuid.UUID                   `json:"registration_id" gorm:"type:uuid;not null;index"`
	Registration   *registrations.Registration `json:"registration,omitempty" gorm:"foreignKey:RegistrationID;constraint:OnDelete:CASCADE;"`

	Provider Provider                    `json:"provider" gorm:"type:varchar(16);not null;default:'unknown'"`
	Amount   int                         `json:"amount" gorm:"not null;check:amount >= 0"`
	Status   registrations.PaymentStatus `json:"status" gorm:"type:varchar(16);not null;default:'PENDING'"`

	ProviderTxnID string          `json:"provider_txn_id,omitempty" gorm:"size:128;index"`
	RawPayload    json.RawMessage `json:"raw_payload,omitempty" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName sets the table name for Payment
func (Payment) TableName() string {
	return "payments"
}

// CreatePaymentRequest opens a pending payment against a registration.
type CreatePaymentRequest struct {
	RegistrationID uuid.UUID       `json:"registration_id" binding:"required"`
	Provider       Provider        `json:"provider" binding:"omitempty"`
	Amount         int             `json:"amount" binding:"required,gte=0"`
	ProviderTxnID  string          `json:"provider_txn_id" binding:"omitempty,max=128"`
	RawPayload     json.RawMessage `json:"raw_payload,omitempty"`
}

// PaymentResponse is the API shape for a payment row.
type PaymentResponse struct {
	ID             uuid.UUID                   `json:"id"`
	RegistrationID uuid.UUID                   `json:"registration_id"`
	Provider       Provider                    `json:"provider"`
	Amount         int                         `json:"amount"`
	Status         registrations.PaymentStatus `json:"status"`
	ProviderTxnID  string                      `json:"provider_txn_id,omitempty"`
	CreatedAt      time.Time                   `json:"created_at"`
}

func (p *Payment) ToResponse() *PaymentResponse {
	return &PaymentResponse{
		ID:             p.ID,
		RegistrationID: p.RegistrationID,
		Provider:       p.Provider,
		Amount:         p.Amount,
		Status:         p.Status,
		ProviderTxnID:  p.ProviderTxnID,
		CreatedAt:      p.CreatedAt,
	}
}
