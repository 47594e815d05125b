package registrations

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"gatepass/internal/events"
	"gatepass/internal/notifications"
	"gatepass/internal/seats"
	"gatepass/internal/tickets"
	"gatepass/internal/users"
	"gatepass/pkg/logger"
)

type Service interface {
	// Register resolves the event, upserts the attendee and get-or-creates
	// the registration in one transaction, then acquires the seat and issues
	// the ticket in a second. The split is deliberate: a seat failure rolls
	// back only the seat work, leaving the registration behind so the
	// attendee can retry with another seat.
	Register(ctx context.Context, slug string, req RegisterRequest) (*RegisterResponse, error)

	ListMyRegistrations(ctx context.Context, identityKey string) ([]OwnedRegistration, error)

	// CountConfirmedByEvent backs the confirmed_count field on event reads.
	CountConfirmedByEvent(ctx context.Context, eventID uuid.UUID) (int64, error)
}

type service struct {
	db        *gorm.DB
	repo      Repository
	eventRepo events.Repository
	userSvc   users.Service
	seatRepo  seats.Repository
	seatSvc   seats.Service
	ticketSvc tickets.Repository
	publisher notifications.Publisher
	holdTTL   time.Duration
	log       *logger.Logger
}

func NewService(
	db *gorm.DB,
	repo Repository,
	eventRepo events.Repository,
	userSvc users.Service,
	seatRepo seats.Repository,
	seatSvc seats.Service,
	ticketRepo tickets.Repository,
	publisher notifications.Publisher,
	holdTTL time.Duration,
	log *logger.Logger,
) Service {
	return &service{
		db:        db,
		repo:      repo,
		eventRepo: eventRepo,
		userSvc:   userSvc,
		seatRepo:  seatRepo,
		seatSvc:   seatSvc,
		ticketSvc: ticketRepo,
		publisher: publisher,
		holdTTL:   holdTTL,
		log:       log,
	}
}

func (s *service) Register(ctx context.Context, slug string, req RegisterRequest) (*RegisterResponse, error) {
	var (
		event   *events.Event
		profile *users.UserProfile
		reg     *Registration
		created bool
	)

	// The registration commits on its own before any seat work. A failed
	// seat acquisition must not undo it.
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		event, err = s.eventRepo.GetActiveBySlugTx(tx, slug)
		if err != nil {
			return err
		}

		profile, err = s.userSvc.UpsertByIdentityKeyTx(tx, req.Identity())
		if err != nil {
			return err
		}

		initial := &Registration{
			EventID:    event.ID,
			UserID:     profile.ID,
			PromoCode:  req.PromoCode,
			FinalPrice: event.BasePriceOrZero(),
		}
		if event.IsPaid {
			initial.Status = StatusPending
			initial.PaymentStatus = PaymentPending
		} else {
			initial.Status = StatusConfirmed
			initial.PaymentStatus = PaymentNone
		}

		reg, created, err = s.repo.GetOrCreateTx(tx, initial)
		return err
	})
	if err != nil {
		return nil, err
	}

	var (
		resp         *RegisterResponse
		confirmedEvt *notifications.RegistrationConfirmedEvent
		seatEventID  *uuid.UUID
	)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var seatID *uuid.UUID
		if req.SeatID != nil {
			seat, err := s.seatRepo.AcquireTx(tx, event.ID, *req.SeatID)
			if err != nil {
				return err
			}

			if event.IsPaid {
				until := time.Now().Add(s.holdTTL)
				if err := s.seatRepo.ReserveTx(tx, seat, profile.ID, until); err != nil {
					return err
				}
			} else {
				if err := s.seatRepo.SellTx(tx, seat, profile.ID); err != nil {
					return err
				}
			}

			if reg.FinalPrice != seat.Price {
				if err := s.repo.UpdateTx(tx, reg.ID, map[string]interface{}{"final_price": seat.Price}); err != nil {
					return err
				}
				reg.FinalPrice = seat.Price
			}

			seatID = &seat.ID
			seatEventID = &event.ID
		}

		var ticketInfo *TicketInfo
		switch {
		case seatID != nil:
			ticket, _, err := s.ticketSvc.GetOrCreateTx(tx, reg.ID, seatID)
			if err != nil {
				return err
			}
			ticketInfo = &TicketInfo{ID: ticket.ID, Token: ticket.Token, SeatID: ticket.SeatID}

		case !event.IsPaid && created:
			ticket, _, err := s.ticketSvc.GetOrCreateTx(tx, reg.ID, nil)
			if err != nil {
				return err
			}
			ticketInfo = &TicketInfo{ID: ticket.ID, Token: ticket.Token}

		default:
			// Replay without a seat: surface the existing ticket when one was
			// issued earlier, but never mint a new one here.
			if ticket, err := s.ticketSvc.GetByRegistrationIDTx(tx, reg.ID); err == nil {
				ticketInfo = &TicketInfo{ID: ticket.ID, Token: ticket.Token, SeatID: ticket.SeatID}
			}
		}

		resp = &RegisterResponse{
			RegistrationID: reg.ID,
			EventSlug:      event.Slug,
			Status:         reg.Status,
			PaymentStatus:  reg.PaymentStatus,
			FinalPrice:     reg.FinalPrice,
			Created:        created,
			Ticket:         ticketInfo,
		}

		if created && reg.Status == StatusConfirmed {
			confirmedEvt = &notifications.RegistrationConfirmedEvent{
				RegistrationID: reg.ID,
				EventID:        event.ID,
				EventSlug:      event.Slug,
				AttendeeName:   profile.FullName,
				IdentityKey:    profile.IdentityKey,
				SeatID:         seatID,
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if resp.Created {
		s.log.LogRegistrationCreated(ctx, resp.RegistrationID.String(), resp.EventSlug, req.IdentityKey)
	}
	if seatEventID != nil {
		s.seatSvc.InvalidateSeatMap(ctx, *seatEventID)
		if resp.Ticket != nil && resp.Ticket.SeatID != nil {
			s.log.LogSeatReserved(ctx, resp.Ticket.SeatID.String(), resp.RegistrationID.String(), resp.Status.String())
		}
	}
	if confirmedEvt != nil && s.publisher != nil {
		if err := s.publisher.RegistrationConfirmed(ctx, *confirmedEvt); err != nil {
			s.log.ErrorWithContext(ctx, "failed to publish registration.confirmed", err, map[string]interface{}{
				"registration_id": resp.RegistrationID.String(),
			})
		}
	}

	return resp, nil
}

func (s *service) ListMyRegistrations(ctx context.Context, identityKey string) ([]OwnedRegistration, error) {
	return s.repo.ListByIdentityKey(ctx, identityKey)
}

func (s *service) CountConfirmedByEvent(ctx context.Context, eventID uuid.UUID) (int64, error) {
	return s.repo.CountConfirmedByEvent(ctx, eventID)
}
