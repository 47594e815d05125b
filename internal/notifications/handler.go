package notifications

import (
	"context"

	"gatepass/pkg/logger"
)

// logHandler is the default event handler: it records confirmations and
// check-ins in the structured log. Delivery channels (email, Telegram) plug
// in by replacing this with a richer Handler.
type logHandler struct {
	log *logger.Logger
}

func NewLogHandler(log *logger.Logger) Handler {
	return &logHandler{log: log}
}

func (h *logHandler) HandleRegistrationConfirmed(ctx context.Context, evt RegistrationConfirmedEvent) error {
	h.log.WithFields(map[string]interface{}{
		"registration_id": evt.RegistrationID.String(),
		"event_slug":      evt.EventSlug,
		"attendee":        evt.AttendeeName,
	}).Info("registration confirmed")
	return nil
}

func (h *logHandler) HandleTicketCheckedIn(ctx context.Context, evt TicketCheckedInEvent) error {
	h.log.WithFields(map[string]interface{}{
		"ticket_id":  evt.TicketID.String(),
		"event_slug": evt.EventSlug,
		"used_at":    evt.UsedAt,
	}).Info("ticket checked in")
	return nil
}
