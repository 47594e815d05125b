package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger wraps slog.Logger with additional functionality
type Logger struct {
	*slog.Logger
}

// New creates a new logger instance
func New() *Logger {
	level := getLogLevel(os.Getenv("LOG_LEVEL"))

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	// Text handler for development, JSON for production
	var handler slog.Handler
	if gin.Mode() == gin.DebugMode {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return &Logger{
		Logger: slog.New(handler),
	}
}

// getLogLevel converts string to slog.Level
func getLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithRequestID adds request ID to logger context
func (l *Logger) WithRequestID(requestID string) *Logger {
	return &Logger{
		Logger: l.Logger.With(slog.String("request_id", requestID)),
	}
}

// WithError adds error to logger context
func (l *Logger) WithError(err error) *Logger {
	return &Logger{
		Logger: l.Logger.With(slog.String("error", err.Error())),
	}
}

// WithFields adds multiple fields to logger context
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	args := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, slog.Any(k, v))
	}
	return &Logger{
		Logger: l.Logger.With(args...),
	}
}

// LogHTTPRequest logs an HTTP request
func (l *Logger) LogHTTPRequest(c *gin.Context, duration time.Duration) {
	l.Logger.InfoContext(c.Request.Context(),
		"HTTP Request",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.String("query", c.Request.URL.RawQuery),
		slog.Int("status", c.Writer.Status()),
		slog.Duration("duration", duration),
		slog.String("ip", c.ClientIP()),
		slog.String("user_agent", c.Request.UserAgent()),
		slog.Int("size", c.Writer.Size()),
	)
}

// LogRegistrationCreated logs a newly created registration
func (l *Logger) LogRegistrationCreated(ctx context.Context, registrationID, eventSlug, identityKey string) {
	l.Logger.InfoContext(ctx,
		"Registration Created",
		slog.String("registration_id", registrationID),
		slog.String("event_slug", eventSlug),
		slog.String("identity_key", identityKey),
	)
}

// LogSeatReserved logs a seat acquisition
func (l *Logger) LogSeatReserved(ctx context.Context, seatID, registrationID, status string) {
	l.Logger.InfoContext(ctx,
		"Seat Acquired",
		slog.String("seat_id", seatID),
		slog.String("registration_id", registrationID),
		slog.String("status", status),
	)
}

// LogTicketRedeemed logs a successful check-in
func (l *Logger) LogTicketRedeemed(ctx context.Context, ticketID, eventTitle string) {
	l.Logger.InfoContext(ctx,
		"Ticket Redeemed",
		slog.String("ticket_id", ticketID),
		slog.String("event", eventTitle),
	)
}

// LogSeatsReleased logs the sweeper releasing expired reservations
func (l *Logger) LogSeatsReleased(ctx context.Context, released int64) {
	l.Logger.InfoContext(ctx,
		"Expired Reservations Released",
		slog.Int64("count", released),
	)
}

// LogPaymentConfirmed logs a payment reaching PAID
func (l *Logger) LogPaymentConfirmed(ctx context.Context, paymentID, registrationID string) {
	l.Logger.InfoContext(ctx,
		"Payment Confirmed",
		slog.String("payment_id", paymentID),
		slog.String("registration_id", registrationID),
	)
}

// LogAuthFailure logs failed staff authentication
func (l *Logger) LogAuthFailure(ctx context.Context, reason, ip string) {
	l.Logger.WarnContext(ctx,
		"Authentication Failure",
		slog.String("reason", reason),
		slog.String("ip", ip),
	)
}

// ErrorWithContext logs an error message with context
func (l *Logger) ErrorWithContext(ctx context.Context, msg string, err error, fields map[string]interface{}) {
	args := make([]interface{}, 0, len(fields)*2+2)
	args = append(args, slog.String("error", err.Error()))
	for k, v := range fields {
		args = append(args, slog.Any(k, v))
	}
	l.Logger.ErrorContext(ctx, msg, args...)
}

// Global logger instance (can be replaced with dependency injection)
var defaultLogger = New()

// GetDefault returns the default logger instance
func GetDefault() *Logger {
	return defaultLogger
}

// SetDefault sets the default logger instance
func SetDefault(logger *Logger) {
	defaultLogger = logger
}
