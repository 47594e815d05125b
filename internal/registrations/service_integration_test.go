package registrations_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"gatepass/internal/checkin"
	"gatepass/internal/events"
	"gatepass/internal/notifications"
	"gatepass/internal/registrations"
	"gatepass/internal/seats"
	"gatepass/internal/shared/database"
	"gatepass/internal/tickets"
	"gatepass/internal/users"
	"gatepass/pkg/logger"
)

// These tests exercise the full registration transaction against a real
// Postgres instance. Set GATEPASS_TEST_DSN to run them, e.g.
//
//	GATEPASS_TEST_DSN="host=localhost user=gatepass_user password=... dbname=gatepass_test sslmode=disable" go test ./...
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
		&checkin.CheckInLog{},
	)
	if err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	if err := database.MigrateConstraints(db); err != nil {
		t.Fatalf("migrate test constraints: %v", err)
	}
	return db
}

func newTestService(t *testing.T, db *gorm.DB) registrations.Service {
	t.Helper()

	eventRepo := events.NewRepository(db)
	userSvc := users.NewService(users.NewRepository(db))
	seatRepo := seats.NewRepository(db)
	seatSvc := seats.NewService(seatRepo, eventRepo, nil, 0)
	ticketRepo := tickets.NewRepository(db)

	return registrations.NewService(
		db,
		registrations.NewRepository(db),
		eventRepo,
		userSvc,
		seatRepo,
		seatSvc,
		ticketRepo,
		notifications.NewNoopPublisher(),
		15*time.Minute,
		logger.New(),
	)
}

func createTestEvent(t *testing.T, db *gorm.DB, isPaid bool, basePrice *int) *events.Event {
	t.Helper()

	now := time.Now().UTC()
	event := &events.Event{
		ID:         uuid.New(),
		Title:      "Integration Test Event",
		Slug:       fmt.Sprintf("it-%s", uuid.New()),
		StartAt:    now.AddDate(0, 0, 7),
		EndAt:      now.AddDate(0, 0, 7).Add(2 * time.Hour),
		VenueName:  "Test Hall",
		Visibility: events.VisibilityPublic,
		IsPaid:     isPaid,
		BasePrice:  basePrice,
		IsActive:   true,
	}
	if err := db.Create(event).Error; err != nil {
		t.Fatalf("create test event: %v", err)
	}
	return event
}

func createTestSeat(t *testing.T, db *gorm.DB, event *events.Event, price int) *seats.Seat {
	t.Helper()

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
	return seat
}

func testRegisterRequest(identityKey string) registrations.RegisterRequest {
	return registrations.RegisterRequest{
		IdentityKey: identityKey,
		Username:    "it_user",
		FullName:    "Integration Tester",
	}
}

func TestRegisterFreeEventIssuesTicket(t *testing.T) {
	db := openTestDB(t)
	svc := newTestService(t, db)
	event := createTestEvent(t, db, false, nil)
	identity := fmt.Sprintf("it:%s", uuid.New())

	resp, err := svc.Register(context.Background(), event.Slug, testRegisterRequest(identity))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if !resp.Created {
		t.Fatal("expected first registration to be created")
	}
	if resp.Status != registrations.StatusConfirmed {
		t.Fatalf("free event must confirm immediately, got %s", resp.Status)
	}
	if resp.PaymentStatus != registrations.PaymentNone {
		t.Fatalf("free event must carry payment status NONE, got %s", resp.PaymentStatus)
	}
	if resp.Ticket == nil {
		t.Fatal("expected a ticket for a confirmed free registration")
	}
	if len(resp.Ticket.Token) != 64 {
		t.Fatalf("expected 64-char token, got %d chars", len(resp.Ticket.Token))
	}
}

func TestRegisterIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	svc := newTestService(t, db)
	event := createTestEvent(t, db, false, nil)
	identity := fmt.Sprintf("it:%s", uuid.New())
	req := testRegisterRequest(identity)

	first, err := svc.Register(context.Background(), event.Slug, req)
	if err != nil {
		t.Fatalf("first register: %v", err)
	}
	second, err := svc.Register(context.Background(), event.Slug, req)
	if err != nil {
		t.Fatalf("second register: %v", err)
	}

	if !first.Created || second.Created {
		t.Fatalf("expected created=true then created=false, got %v and %v", first.Created, second.Created)
	}
	if first.RegistrationID != second.RegistrationID {
		t.Fatalf("replay produced a different registration: %s vs %s", first.RegistrationID, second.RegistrationID)
	}
	if second.Ticket == nil || second.Ticket.Token != first.Ticket.Token {
		t.Fatal("replay must surface the original ticket, not mint a new one")
	}
}

func TestRegisterPaidSeatReservesAndPrices(t *testing.T) {
	db := openTestDB(t)
	svc := newTestService(t, db)
	basePrice := 100000
	event := createTestEvent(t, db, true, &basePrice)
	seat := createTestSeat(t, db, event, 250000)
	identity := fmt.Sprintf("it:%s", uuid.New())

	req := testRegisterRequest(identity)
	req.SeatID = &seat.ID

	resp, err := svc.Register(context.Background(), event.Slug, req)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if resp.Status != registrations.StatusPending || resp.PaymentStatus != registrations.PaymentPending {
		t.Fatalf("paid registration must be PENDING/PENDING, got %s/%s", resp.Status, resp.PaymentStatus)
	}
	if resp.FinalPrice != 250000 {
		t.Fatalf("final price must snapshot the seat price, got %d", resp.FinalPrice)
	}
	if resp.Ticket == nil || resp.Ticket.SeatID == nil || *resp.Ticket.SeatID != seat.ID {
		t.Fatal("expected the ticket to carry the acquired seat")
	}

	var stored seats.Seat
	if err := db.First(&stored, "id = ?", seat.ID).Error; err != nil {
		t.Fatalf("reload seat: %v", err)
	}
	if stored.Status != seats.StatusReserved {
		t.Fatalf("expected seat RESERVED, got %s", stored.Status)
	}
	if stored.ReservedUntil == nil || !stored.ReservedUntil.After(time.Now()) {
		t.Fatal("expected a future reservation deadline")
	}
}

func TestRegisterTakenSeatKeepsRegistration(t *testing.T) {
	db := openTestDB(t)
	svc := newTestService(t, db)
	basePrice := 100000
	event := createTestEvent(t, db, true, &basePrice)
	seat := createTestSeat(t, db, event, 100000)

	winnerReq := testRegisterRequest(fmt.Sprintf("it:%s", uuid.New()))
	winnerReq.SeatID = &seat.ID
	if _, err := svc.Register(context.Background(), event.Slug, winnerReq); err != nil {
		t.Fatalf("winner register: %v", err)
	}

	loserIdentity := fmt.Sprintf("it:%s", uuid.New())
	loserReq := testRegisterRequest(loserIdentity)
	loserReq.SeatID = &seat.ID
	_, err := svc.Register(context.Background(), event.Slug, loserReq)
	if !errors.Is(err, seats.ErrSeatUnavailable) {
		t.Fatalf("expected ErrSeatUnavailable, got %v", err)
	}

	// Only the seat work rolls back. The registration committed first and
	// stays PENDING so the attendee can retry with another seat.
	var losing []registrations.Registration
	err = db.Model(&registrations.Registration{}).
		Joins("JOIN user_profiles ON user_profiles.id = registrations.user_id").
		Where("registrations.event_id = ? AND user_profiles.identity_key = ?", event.ID, loserIdentity).
		Find(&losing).Error
	if err != nil {
		t.Fatalf("load loser registrations: %v", err)
	}
	if len(losing) != 1 {
		t.Fatalf("expected the losing attempt's registration to survive, found %d rows", len(losing))
	}
	if losing[0].Status != registrations.StatusPending {
		t.Fatalf("surviving registration must stay PENDING, got %s", losing[0].Status)
	}

	var loserTickets int64
	if err := db.Model(&tickets.Ticket{}).Where("registration_id = ?", losing[0].ID).Count(&loserTickets).Error; err != nil {
		t.Fatalf("count loser tickets: %v", err)
	}
	if loserTickets != 0 {
		t.Fatalf("losing attempt must not hold a ticket, found %d", loserTickets)
	}
}

func TestRegisterExpiredHoldFreesSeatForNextAttendee(t *testing.T) {
	db := openTestDB(t)
	svc := newTestService(t, db)
	basePrice := 100000
	event := createTestEvent(t, db, true, &basePrice)
	seat := createTestSeat(t, db, event, 100000)

	firstReq := testRegisterRequest(fmt.Sprintf("it:%s", uuid.New()))
	firstReq.SeatID = &seat.ID
	first, err := svc.Register(context.Background(), event.Slug, firstReq)
	if err != nil {
		t.Fatalf("first register: %v", err)
	}

	// Let the hold lapse, then run the sweeper's release pass.
	err = db.Model(&seats.Seat{}).
		Where("id = ?", seat.ID).
		Update("reserved_until", time.Now().Add(-time.Minute)).Error
	if err != nil {
		t.Fatalf("backdate hold: %v", err)
	}
	released, err := seats.NewRepository(db).ReleaseExpired(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("release expired: %v", err)
	}
	if released != 1 {
		t.Fatalf("expected one released seat, got %d", released)
	}

	// The release must also unbind the expired holder's ticket, or the
	// unique index on tickets(seat_id) would block the seat forever.
	var expired tickets.Ticket
	if err := db.First(&expired, "registration_id = ?", first.RegistrationID).Error; err != nil {
		t.Fatalf("reload expired ticket: %v", err)
	}
	if expired.SeatID != nil {
		t.Fatal("expected the released seat to be unbound from the expired ticket")
	}

	secondReq := testRegisterRequest(fmt.Sprintf("it:%s", uuid.New()))
	secondReq.SeatID = &seat.ID
	second, err := svc.Register(context.Background(), event.Slug, secondReq)
	if err != nil {
		t.Fatalf("register after release: %v", err)
	}
	if second.Ticket == nil || second.Ticket.SeatID == nil || *second.Ticket.SeatID != seat.ID {
		t.Fatal("expected the released seat to be ticketable again")
	}
}

func TestTicketSeatConflictIsNotRetried(t *testing.T) {
	db := openTestDB(t)
	svc := newTestService(t, db)
	basePrice := 100000
	event := createTestEvent(t, db, true, &basePrice)
	seat := createTestSeat(t, db, event, 100000)

	winnerReq := testRegisterRequest(fmt.Sprintf("it:%s", uuid.New()))
	winnerReq.SeatID = &seat.ID
	if _, err := svc.Register(context.Background(), event.Slug, winnerReq); err != nil {
		t.Fatalf("winner register: %v", err)
	}

	// A seatless registration on the same event.
	other, err := svc.Register(context.Background(), event.Slug, testRegisterRequest(fmt.Sprintf("it:%s", uuid.New())))
	if err != nil {
		t.Fatalf("seatless register: %v", err)
	}

	// Binding its ticket to the already ticketed seat must surface the seat
	// conflict directly instead of burning token retries.
	ticketRepo := tickets.NewRepository(db)
	err = db.Transaction(func(tx *gorm.DB) error {
		_, _, err := ticketRepo.GetOrCreateTx(tx, other.RegistrationID, &seat.ID)
		return err
	})
	if !errors.Is(err, tickets.ErrSeatAlreadyBound) {
		t.Fatalf("expected ErrSeatAlreadyBound, got %v", err)
	}
}

func TestRegisterConcurrentSameSeat(t *testing.T) {
	db := openTestDB(t)
	svc := newTestService(t, db)
	basePrice := 100000
	event := createTestEvent(t, db, true, &basePrice)
	seat := createTestSeat(t, db, event, 100000)

	const attempts = 8

	var wg sync.WaitGroup
	results := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := testRegisterRequest(fmt.Sprintf("it:%s", uuid.New()))
			req.SeatID = &seat.ID
			_, results[i] = svc.Register(context.Background(), event.Slug, req)
		}(i)
	}
	wg.Wait()

	var won, lost int
	for i, err := range results {
		switch {
		case err == nil:
			won++
		case errors.Is(err, seats.ErrSeatUnavailable):
			lost++
		default:
			t.Fatalf("attempt %d failed unexpectedly: %v", i, err)
		}
	}
	if won != 1 {
		t.Fatalf("expected exactly one winner for the seat, got %d (lost=%d)", won, lost)
	}

	var ticketCount int64
	if err := db.Model(&tickets.Ticket{}).Where("seat_id = ?", seat.ID).Count(&ticketCount).Error; err != nil {
		t.Fatalf("count tickets: %v", err)
	}
	if ticketCount != 1 {
		t.Fatalf("expected exactly one ticket for the seat, got %d", ticketCount)
	}
}

func TestRegisterUnknownEvent(t *testing.T) {
	db := openTestDB(t)
	svc := newTestService(t, db)

	_, err := svc.Register(context.Background(), "no-such-event", testRegisterRequest("it:nobody"))
	if !errors.Is(err, events.ErrEventNotFound) {
		t.Fatalf("expected ErrEventNotFound, got %v", err)
	}
}

func TestRegisterInactiveEvent(t *testing.T) {
	db := openTestDB(t)
	svc := newTestService(t, db)
	event := createTestEvent(t, db, false, nil)
	if err := db.Model(event).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate event: %v", err)
	}

	_, err := svc.Register(context.Background(), event.Slug, testRegisterRequest(fmt.Sprintf("it:%s", uuid.New())))
	if !errors.Is(err, events.ErrEventNotFound) {
		t.Fatalf("expected ErrEventNotFound for inactive event, got %v", err)
	}
}
