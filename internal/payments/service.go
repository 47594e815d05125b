package payments

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"gatepass/internal/notifications"
	"gatepass/internal/registrations"
	"gatepass/internal/seats"
	"gatepass/internal/tickets"
	"gatepass/pkg/logger"
)

var (
	ErrRegistrationNotPayable = errors.New("registration has nothing to pay for")
	ErrSeatHoldLost           = errors.New("seat hold expired before payment confirmation")
)

type Service interface {
	CreatePending(ctx context.Context, req CreatePaymentRequest) (*PaymentResponse, error)

	// MarkPaid confirms a payment and promotes everything that hangs off it:
	// the registration to CONFIRMED/PAID, a reserved seat to SOLD, and a
	// ticket into existence if the registration had none. Confirming an
	// already PAID payment is a no-op. A confirmation that arrives after the
	// seat hold lapsed fails with ErrSeatHoldLost instead of selling a seat
	// the payer no longer holds.
	MarkPaid(ctx context.Context, paymentID uuid.UUID) (*PaymentResponse, error)
}

type service struct {
	db         *gorm.DB
	repo       Repository
	regRepo    registrations.Repository
	seatRepo   seats.Repository
	seatSvc    seats.Service
	ticketRepo tickets.Repository
	publisher  notifications.Publisher
	log        *logger.Logger
}

func NewService(
	db *gorm.DB,
	repo Repository,
	regRepo registrations.Repository,
	seatRepo seats.Repository,
	seatSvc seats.Service,
	ticketRepo tickets.Repository,
	publisher notifications.Publisher,
	log *logger.Logger,
) Service {
	return &service{
		db:         db,
		repo:       repo,
		regRepo:    regRepo,
		seatRepo:   seatRepo,
		seatSvc:    seatSvc,
		ticketRepo: ticketRepo,
		publisher:  publisher,
		log:        log,
	}
}

func (s *service) CreatePending(ctx context.Context, req CreatePaymentRequest) (*PaymentResponse, error) {
	reg, err := s.regRepo.GetByID(ctx, req.RegistrationID)
	if err != nil {
		return nil, err
	}
	if reg.PaymentStatus == registrations.PaymentNone {
		return nil, ErrRegistrationNotPayable
	}

	provider := req.Provider
	if provider == "" {
		provider = ProviderUnknown
	}
	if !provider.IsValid() {
		provider = ProviderUnknown
	}

	payment := &Payment{
		RegistrationID: reg.ID,
		Provider:       provider,
		Amount:         req.Amount,
		Status:         registrations.PaymentPending,
		ProviderTxnID:  req.ProviderTxnID,
		RawPayload:     req.RawPayload,
	}
	if err := s.repo.Create(ctx, payment); err != nil {
		return nil, err
	}

	return payment.ToResponse(), nil
}

func (s *service) MarkPaid(ctx context.Context, paymentID uuid.UUID) (*PaymentResponse, error) {
	var (
		result      *Payment
		confirmed   *notifications.RegistrationConfirmedEvent
		seatEventID *uuid.UUID
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		payment, err := s.repo.GetByIDForUpdateTx(tx, paymentID)
		if err != nil {
			return err
		}

		if payment.Status == registrations.PaymentPaid {
			result = payment
			return nil
		}

		if err := s.repo.UpdateStatusTx(tx, payment.ID, registrations.PaymentPaid); err != nil {
			return err
		}
		payment.Status = registrations.PaymentPaid

		reg, err := s.regRepo.GetByIDForUpdateTx(tx, payment.RegistrationID)
		if err != nil {
			return err
		}
		if err := s.regRepo.UpdateTx(tx, reg.ID, map[string]interface{}{
			"status":         registrations.StatusConfirmed,
			"payment_status": registrations.PaymentPaid,
		}); err != nil {
			return err
		}

		ticket, _, err := s.ticketRepo.GetOrCreateTx(tx, reg.ID, nil)
		if err != nil {
			return err
		}

		if ticket.SeatID != nil {
			seat, err := s.seatRepo.GetForUpdateTx(tx, *ticket.SeatID)
			if err != nil {
				return err
			}
			// Promote only a hold that is still this registration's: the seat
			// may have been swept back to FREE, or re-reserved by someone
			// else, between reservation and confirmation.
			if seat.Status != seats.StatusReserved ||
				seat.ReservedByID == nil || *seat.ReservedByID != reg.UserID ||
				seat.ReservedUntil == nil || !seat.ReservedUntil.After(time.Now()) {
				return ErrSeatHoldLost
			}
			if err := s.seatRepo.MarkSoldTx(tx, seat.ID); err != nil {
				return err
			}
			seatEventID = &reg.EventID
		}

		confirmed = &notifications.RegistrationConfirmedEvent{
			RegistrationID: reg.ID,
			EventID:        reg.EventID,
			SeatID:         ticket.SeatID,
		}
		result = payment
		return nil
	})
	if err != nil {
		return nil, err
	}

	if seatEventID != nil {
		s.seatSvc.InvalidateSeatMap(ctx, *seatEventID)
	}
	if confirmed != nil {
		s.log.LogPaymentConfirmed(ctx, result.ID.String(), result.RegistrationID.String())
		if s.publisher != nil {
			if err := s.publisher.RegistrationConfirmed(ctx, *confirmed); err != nil {
				s.log.ErrorWithContext(ctx, "failed to publish registration.confirmed", err, map[string]interface{}{
					"payment_id": result.ID.String(),
				})
			}
		}
	}

	return result.ToResponse(), nil
}
