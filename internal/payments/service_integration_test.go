package payments

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"gatepass/internal/events"
	"gatepass/internal/notifications"
	"gatepass/internal/registrations"
	"gatepass/internal/seats"
	"gatepass/internal/tickets"
	"gatepass/internal/users"
	"gatepass/pkg/logger"
)

// These tests confirm payments against a real Postgres instance and are
// skipped unless GATEPASS_TEST_DSN is set.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("GATEPASS_TEST_DSN")
	if dsn == "" {
		t.Skip("GATEPASS_TEST_DSN not set; skipping database integration test")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc:        func() time.Time { return time.Now().UTC() },
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		t.Fatalf("create uuid extension: %v", err)
	}
	err = db.AutoMigrate(
		&users.University{},
		&users.UserProfile{},
		&events.EventCategory{},
		&events.Event{},
		&seats.SeatGroup{},
		&seats.Seat{},
		&registrations.Registration{},
		&tickets.Ticket{},
		&Payment{},
	)
	if err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return db
}

func newTestServices(t *testing.T, db *gorm.DB) (Service, registrations.Service) {
	t.Helper()

	eventRepo := events.NewRepository(db)
	userSvc := users.NewService(users.NewRepository(db))
	seatRepo := seats.NewRepository(db)
	seatSvc := seats.NewService(seatRepo, eventRepo, nil, 0)
	ticketRepo := tickets.NewRepository(db)
	regRepo := registrations.NewRepository(db)

	regSvc := registrations.NewService(
		db, regRepo, eventRepo, userSvc, seatRepo, seatSvc,
		ticketRepo, notifications.NewNoopPublisher(), 15*time.Minute, logger.New(),
	)
	paySvc := NewService(
		db, NewRepository(db), regRepo, seatRepo, seatSvc, ticketRepo,
		notifications.NewNoopPublisher(), logger.New(),
	)
	return paySvc, regSvc
}

func createPaidEventWithSeat(t *testing.T, db *gorm.DB, price int) (*events.Event, *seats.Seat) {
	t.Helper()

	now := time.Now().UTC()
	event := &events.Event{
		ID:         uuid.New(),
		Title:      "Payment Test Event",
		Slug:       fmt.Sprintf("pay-%s", uuid.New()),
		StartAt:    now.AddDate(0, 0, 7),
		EndAt:      now.AddDate(0, 0, 7).Add(2 * time.Hour),
		VenueName:  "Test Hall",
		Visibility: events.VisibilityPublic,
		IsPaid:     true,
		BasePrice:  &price,
		IsActive:   true,
	}
	if err := db.Create(event).Error; err != nil {
		t.Fatalf("create test event: %v", err)
	}

	group := &seats.SeatGroup{
		ID:        uuid.New(),
		EventID:   event.ID,
		Code:      "T1",
		Name:      "Table 1",
		Type:      seats.GroupTypeTable,
		BasePrice: price,
	}
	if err := db.Create(group).Error; err != nil {
		t.Fatalf("create test seat group: %v", err)
	}

	num := 1
	seat := &seats.Seat{
		ID:         uuid.New(),
		EventID:    event.ID,
		GroupID:    group.ID,
		SeatNumber: &num,
		Price:      price,
		Status:     seats.StatusFree,
	}
	if err := db.Create(seat).Error; err != nil {
		t.Fatalf("create test seat: %v", err)
	}
	return event, seat
}

func registerWithSeat(t *testing.T, regSvc registrations.Service, event *events.Event, seat *seats.Seat) *registrations.RegisterResponse {
	t.Helper()

	req := registrations.RegisterRequest{
		IdentityKey: fmt.Sprintf("pay:%s", uuid.New()),
		Username:    "pay_user",
		FullName:    "Payment Tester",
		SeatID:      &seat.ID,
	}
	resp, err := regSvc.Register(context.Background(), event.Slug, req)
	if err != nil {
		t.Fatalf("register with seat: %v", err)
	}
	return resp
}

func openPendingPayment(t *testing.T, paySvc Service, registrationID uuid.UUID, amount int) *PaymentResponse {
	t.Helper()

	payment, err := paySvc.CreatePending(context.Background(), CreatePaymentRequest{
		RegistrationID: registrationID,
		Provider:       ProviderManual,
		Amount:         amount,
	})
	if err != nil {
		t.Fatalf("create pending payment: %v", err)
	}
	return payment
}

func TestMarkPaidPromotesSeatAndRegistration(t *testing.T) {
	db := openTestDB(t)
	paySvc, regSvc := newTestServices(t, db)
	event, seat := createPaidEventWithSeat(t, db, 150000)
	reg := registerWithSeat(t, regSvc, event, seat)
	payment := openPendingPayment(t, paySvc, reg.RegistrationID, reg.FinalPrice)

	confirmed, err := paySvc.MarkPaid(context.Background(), payment.ID)
	if err != nil {
		t.Fatalf("mark paid: %v", err)
	}
	if confirmed.Status != registrations.PaymentPaid {
		t.Fatalf("expected payment PAID, got %s", confirmed.Status)
	}

	var storedReg registrations.Registration
	if err := db.First(&storedReg, "id = ?", reg.RegistrationID).Error; err != nil {
		t.Fatalf("reload registration: %v", err)
	}
	if storedReg.Status != registrations.StatusConfirmed || storedReg.PaymentStatus != registrations.PaymentPaid {
		t.Fatalf("expected CONFIRMED/PAID registration, got %s/%s", storedReg.Status, storedReg.PaymentStatus)
	}

	var storedSeat seats.Seat
	if err := db.First(&storedSeat, "id = ?", seat.ID).Error; err != nil {
		t.Fatalf("reload seat: %v", err)
	}
	if storedSeat.Status != seats.StatusSold {
		t.Fatalf("expected seat SOLD after confirmation, got %s", storedSeat.Status)
	}
}

func TestMarkPaidIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	paySvc, regSvc := newTestServices(t, db)
	event, seat := createPaidEventWithSeat(t, db, 150000)
	reg := registerWithSeat(t, regSvc, event, seat)
	payment := openPendingPayment(t, paySvc, reg.RegistrationID, reg.FinalPrice)

	if _, err := paySvc.MarkPaid(context.Background(), payment.ID); err != nil {
		t.Fatalf("first confirmation: %v", err)
	}
	replay, err := paySvc.MarkPaid(context.Background(), payment.ID)
	if err != nil {
		t.Fatalf("replayed confirmation: %v", err)
	}
	if replay.Status != registrations.PaymentPaid {
		t.Fatalf("expected replay to report PAID, got %s", replay.Status)
	}
}

func TestMarkPaidAfterHoldExpiryFails(t *testing.T) {
	db := openTestDB(t)
	paySvc, regSvc := newTestServices(t, db)
	event, seat := createPaidEventWithSeat(t, db, 150000)
	reg := registerWithSeat(t, regSvc, event, seat)
	payment := openPendingPayment(t, paySvc, reg.RegistrationID, reg.FinalPrice)

	// The hold lapses before the confirmation lands.
	err := db.Model(&seats.Seat{}).
		Where("id = ?", seat.ID).
		Update("reserved_until", time.Now().Add(-time.Minute)).Error
	if err != nil {
		t.Fatalf("backdate hold: %v", err)
	}

	_, err = paySvc.MarkPaid(context.Background(), payment.ID)
	if !errors.Is(err, ErrSeatHoldLost) {
		t.Fatalf("expected ErrSeatHoldLost, got %v", err)
	}

	// Nothing may promote: the payment stays PENDING and the seat keeps its
	// expired reservation for the sweeper to collect.
	var storedPayment Payment
	if err := db.First(&storedPayment, "id = ?", payment.ID).Error; err != nil {
		t.Fatalf("reload payment: %v", err)
	}
	if storedPayment.Status != registrations.PaymentPending {
		t.Fatalf("expected payment to stay PENDING, got %s", storedPayment.Status)
	}
	var storedSeat seats.Seat
	if err := db.First(&storedSeat, "id = ?", seat.ID).Error; err != nil {
		t.Fatalf("reload seat: %v", err)
	}
	if storedSeat.Status == seats.StatusSold {
		t.Fatal("expired hold must not be sold")
	}
}

func TestMarkPaidAfterSeatResoldFails(t *testing.T) {
	db := openTestDB(t)
	paySvc, regSvc := newTestServices(t, db)
	event, seat := createPaidEventWithSeat(t, db, 150000)
	reg := registerWithSeat(t, regSvc, event, seat)
	payment := openPendingPayment(t, paySvc, reg.RegistrationID, reg.FinalPrice)

	// Another attendee ends up holding the seat before the late confirmation.
	otherID := uuid.New()
	profile := &users.UserProfile{ID: otherID, IdentityKey: fmt.Sprintf("pay:%s", uuid.New()), FullName: "Late Rival"}
	if err := db.Create(profile).Error; err != nil {
		t.Fatalf("create rival profile: %v", err)
	}
	until := time.Now().Add(10 * time.Minute)
	err := db.Model(&seats.Seat{}).
		Where("id = ?", seat.ID).
		Updates(map[string]interface{}{"reserved_by_id": otherID, "reserved_until": until}).Error
	if err != nil {
		t.Fatalf("rebind seat hold: %v", err)
	}

	_, err = paySvc.MarkPaid(context.Background(), payment.ID)
	if !errors.Is(err, ErrSeatHoldLost) {
		t.Fatalf("expected ErrSeatHoldLost for a stolen hold, got %v", err)
	}

	var storedSeat seats.Seat
	if err := db.First(&storedSeat, "id = ?", seat.ID).Error; err != nil {
		t.Fatalf("reload seat: %v", err)
	}
	if storedSeat.ReservedByID == nil || *storedSeat.ReservedByID != otherID {
		t.Fatal("the rival's hold must survive the failed confirmation")
	}
}
