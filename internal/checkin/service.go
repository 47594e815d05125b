package checkin

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"gatepass/internal/notifications"
	"gatepass/internal/tickets"
	"gatepass/internal/users"
	"gatepass/pkg/logger"
)

// AlreadyUsedError reports a double scan. It carries the original redemption
// time so the gate can show when the first scan happened.
type AlreadyUsedError struct {
	UsedAt time.Time
}

func (e *AlreadyUsedError) Error() string {
	return fmt.Sprintf("ticket already used at %s", e.UsedAt.Format(time.RFC3339))
}

type Service interface {
	// CheckIn redeems a ticket exactly once. The ticket row is locked for the
	// whole decision, and the flip to used plus the audit row commit together.
	CheckIn(ctx context.Context, req CheckInRequest) (*CheckInResponse, error)
}

type service struct {
	db         *gorm.DB
	repo       Repository
	ticketRepo tickets.Repository
	userSvc    users.Service
	publisher  notifications.Publisher
	log        *logger.Logger
}

func NewService(
	db *gorm.DB,
	repo Repository,
	ticketRepo tickets.Repository,
	userSvc users.Service,
	publisher notifications.Publisher,
	log *logger.Logger,
) Service {
	return &service{
		db:         db,
		repo:       repo,
		ticketRepo: ticketRepo,
		userSvc:    userSvc,
		publisher:  publisher,
		log:        log,
	}
}

func (s *service) CheckIn(ctx context.Context, req CheckInRequest) (*CheckInResponse, error) {
	var (
		resp     *CheckInResponse
		ticketID uuid.UUID
		slug     string
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ticket, err := s.ticketRepo.GetByTokenForUpdateTx(tx, req.Token)
		if err != nil {
			return err
		}

		if ticket.IsUsed {
			return &AlreadyUsedError{UsedAt: *ticket.UsedAt}
		}

		// An unknown checker never blocks admission; the log row just keeps a
		// null checked_by.
		var checkedBy *uuid.UUID
		if req.CheckerIdentityKey != "" {
			if checker, err := s.userSvc.ResolveByIdentityKey(ctx, req.CheckerIdentityKey); err == nil {
				checkedBy = &checker.ID
			}
		}

		usedAt := time.Now().UTC()
		if err := s.ticketRepo.MarkUsedTx(tx, ticket, usedAt); err != nil {
			return err
		}

		if err := s.repo.AppendLogTx(tx, &CheckInLog{
			TicketID:    ticket.ID,
			CheckedByID: checkedBy,
			Note:        req.Note,
		}); err != nil {
			return err
		}

		info, err := s.repo.TicketContextTx(tx, ticket.ID)
		if err != nil {
			return err
		}

		resp = &CheckInResponse{
			Status:       "ok",
			EventTitle:   info.EventTitle,
			AttendeeName: info.AttendeeName,
			Affiliation:  affiliation(info),
			GroupName:    info.GroupName,
			SeatRow:      info.SeatRow,
			SeatNumber:   info.SeatNumber,
			UsedAt:       usedAt,
			CheckedBy:    checkedBy,
		}
		ticketID = ticket.ID
		slug = info.EventSlug
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.LogTicketRedeemed(ctx, ticketID.String(), resp.EventTitle)
	if s.publisher != nil {
		if err := s.publisher.TicketCheckedIn(ctx, notifications.TicketCheckedInEvent{
			TicketID:  ticketID,
			EventSlug: slug,
			CheckedBy: resp.CheckedBy,
			UsedAt:    resp.UsedAt,
		}); err != nil {
			s.log.ErrorWithContext(ctx, "failed to publish ticket.checked_in", err, map[string]interface{}{
				"ticket_id": ticketID.String(),
			})
		}
	}

	return resp, nil
}

func affiliation(info *ticketContext) *string {
	if info.UniversityShort != nil && *info.UniversityShort != "" {
		return info.UniversityShort
	}
	if info.UniversityName != nil && *info.UniversityName != "" {
		return info.UniversityName
	}
	return nil
}
