package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"gatepass/internal/auth"
	"gatepass/internal/events"
	"gatepass/internal/seats"
	"gatepass/internal/shared/config"
	"gatepass/internal/shared/database"
	"gatepass/internal/users"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("🌱 Starting Gatepass Database Seeder...")

	cfg := config.Load()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	fmt.Println("\n🧹 Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}
	fmt.Println("✅ Database cleaned successfully")

	fmt.Println("\n🌱 Seeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	fmt.Println("✅ Database seeded successfully")

	fmt.Println("\n🎉 Seeding completed! Database is ready for testing.")
}

// CleanDatabase truncates all tables in reverse dependency order
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"check_in_logs",
		"payments",
		"tickets",
		"registrations",
		"seats",
		"seat_groups",
		"events",
		"event_categories",
		"staff_accounts",
		"user_profiles",
		"universities",
	}

	tx := s.db.PostgreSQL.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Exec("SET CONSTRAINTS ALL DEFERRED").Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to defer constraints: %w", err)
	}

	for _, table := range tables {
		fmt.Printf("  Truncating table: %s\n", table)
		if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	if err := tx.Exec("SET CONSTRAINTS ALL IMMEDIATE").Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to restore constraints: %w", err)
	}

	return tx.Commit().Error
}

// SeedAll seeds all required data
func (s *Seeder) SeedAll() error {
	ctx := context.Background()

	universityIDs, err := s.SeedUniversities()
	if err != nil {
		return fmt.Errorf("failed to seed universities: %w", err)
	}

	if err := s.SeedUserProfiles(universityIDs); err != nil {
		return fmt.Errorf("failed to seed user profiles: %w", err)
	}

	staffID, err := s.SeedStaffAccounts()
	if err != nil {
		return fmt.Errorf("failed to seed staff accounts: %w", err)
	}

	categoryIDs, err := s.SeedCategories()
	if err != nil {
		return fmt.Errorf("failed to seed categories: %w", err)
	}

	eventIDs, err := s.SeedEvents(staffID, categoryIDs)
	if err != nil {
		return fmt.Errorf("failed to seed events: %w", err)
	}

	if err := s.SeedSeatInventory(eventIDs); err != nil {
		return fmt.Errorf("failed to seed seat inventory: %w", err)
	}

	// Fresh cache state after reseeding
	if err := s.db.Redis.FlushDB(ctx).Err(); err != nil {
		log.Printf("Warning: Failed to clear Redis cache: %v", err)
	}

	return nil
}

// SeedUniversities creates the affiliations attendees register under
func (s *Seeder) SeedUniversities() (map[string]uuid.UUID, error) {
	fmt.Println("  🏫 Seeding universities...")

	ids := make(map[string]uuid.UUID)

	data := []struct {
		key       string
		name      string
		shortName string
		city      string
	}{
		{"tuit", "Tashkent University of Information Technologies", "TUIT", "Tashkent"},
		{"westminster", "Westminster International University in Tashkent", "WIUT", "Tashkent"},
		{"inha", "Inha University in Tashkent", "IUT", "Tashkent"},
	}

	for _, row := range data {
		uni := users.University{
			ID:        uuid.New(),
			Name:      row.name,
			ShortName: row.shortName,
			City:      row.city,
		}
		if err := s.db.PostgreSQL.Create(&uni).Error; err != nil {
			return nil, fmt.Errorf("failed to create university %s: %w", row.name, err)
		}
		ids[row.key] = uni.ID
		fmt.Printf("    ✅ Created university: %s\n", uni.DisplayName())
	}

	return ids, nil
}

// SeedUserProfiles creates a couple of known attendees
func (s *Seeder) SeedUserProfiles(universityIDs map[string]uuid.UUID) error {
	fmt.Println("  👤 Seeding user profiles...")

	tuitID := universityIDs["tuit"]
	wiutID := universityIDs["westminster"]

	data := []users.UserProfile{
		{
			ID:           uuid.New(),
			IdentityKey:  "tg:100001",
			Username:     "aziza_k",
			FullName:     "Aziza Karimova",
			Phone:        "+998901234567",
			UniversityID: &tuitID,
			Role:         users.RoleStudent,
			IsActive:     true,
		},
		{
			ID:           uuid.New(),
			IdentityKey:  "tg:100002",
			Username:     "bek_dev",
			FullName:     "Bekzod Tursunov",
			UniversityID: &wiutID,
			Role:         users.RoleStudent,
			IsActive:     true,
		},
	}

	for i := range data {
		if err := s.db.PostgreSQL.Create(&data[i]).Error; err != nil {
			return fmt.Errorf("failed to create profile %s: %w", data[i].IdentityKey, err)
		}
		fmt.Printf("    ✅ Created profile: %s (%s)\n", data[i].FullName, data[i].IdentityKey)
	}

	return nil
}

// SeedStaffAccounts creates an admin and an organizer, both with password "qwerty"
func (s *Seeder) SeedStaffAccounts() (uuid.UUID, error) {
	fmt.Println("  🔑 Seeding staff accounts...")

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("qwerty"), bcrypt.DefaultCost)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to hash password: %w", err)
	}

	data := []auth.StaffAccount{
		{
			ID:           uuid.New(),
			Username:     "admin",
			PasswordHash: string(hashedPassword),
			FullName:     "Site Admin",
			Role:         users.RoleAdmin,
			IsActive:     true,
		},
		{
			ID:           uuid.New(),
			Username:     "organizer",
			PasswordHash: string(hashedPassword),
			FullName:     "Event Organizer",
			Role:         users.RoleOrganizer,
			IsActive:     true,
		},
	}

	for i := range data {
		if err := s.db.PostgreSQL.Create(&data[i]).Error; err != nil {
			return uuid.Nil, fmt.Errorf("failed to create staff %s: %w", data[i].Username, err)
		}
		fmt.Printf("    ✅ Created staff: %s (%s)\n", data[i].Username, data[i].Role)
	}

	return data[1].ID, nil
}

// SeedCategories creates event categories
func (s *Seeder) SeedCategories() (map[string]uuid.UUID, error) {
	fmt.Println("  🏷️ Seeding categories...")

	ids := make(map[string]uuid.UUID)

	data := []struct {
		key  string
		name string
		slug string
	}{
		{"tech", "Technology", "technology"},
		{"culture", "Culture", "culture"},
		{"sports", "Sports", "sports"},
	}

	for _, row := range data {
		category := events.EventCategory{
			ID:   uuid.New(),
			Name: row.name,
			Slug: row.slug,
		}
		if err := s.db.PostgreSQL.Create(&category).Error; err != nil {
			return nil, fmt.Errorf("failed to create category %s: %w", row.name, err)
		}
		ids[row.key] = category.ID
		fmt.Printf("    ✅ Created category: %s\n", category.Name)
	}

	return ids, nil
}

// SeedEvents creates one free unseated event and one paid seated gala
func (s *Seeder) SeedEvents(organizerID uuid.UUID, categoryIDs map[string]uuid.UUID) (map[string]uuid.UUID, error) {
	fmt.Println("  🎫 Seeding events...")

	ids := make(map[string]uuid.UUID)

	techID := categoryIDs["tech"]
	cultureID := categoryIDs["culture"]
	now := time.Now()
	basePrice := 150000
	capacity := 300

	data := []events.Event{
		{
			ID:          uuid.New(),
			Title:       "Open Source Meetup",
			Slug:        "open-source-meetup",
			Description: "Monthly community meetup. Free entry, register to get your QR ticket.",
			CategoryID:  &techID,
			StartAt:     now.AddDate(0, 0, 14),
			EndAt:       now.AddDate(0, 0, 14).Add(3 * time.Hour),
			VenueName:   "IT Park Tashkent",
			Address:     "Muhammad al-Khwarizmi Street 17",
			Visibility:  events.VisibilityPublic,
			OrganizerID: &organizerID,
			Capacity:    &capacity,
			IsPaid:      false,
			IsActive:    true,
		},
		{
			ID:          uuid.New(),
			Title:       "Spring Gala Dinner",
			Slug:        "spring-gala",
			Description: "Annual inter-university gala with assigned banquet seating.",
			CategoryID:  &cultureID,
			StartAt:     now.AddDate(0, 1, 0),
			EndAt:       now.AddDate(0, 1, 0).Add(5 * time.Hour),
			VenueName:   "Hyatt Regency Ballroom",
			Address:     "Navoi Street 1A",
			Visibility:  events.VisibilityInterUni,
			OrganizerID: &organizerID,
			IsPaid:      true,
			BasePrice:   &basePrice,
			IsActive:    true,
		},
	}

	keys := []string{"meetup", "gala"}
	for i := range data {
		if err := s.db.PostgreSQL.Create(&data[i]).Error; err != nil {
			return nil, fmt.Errorf("failed to create event %s: %w", data[i].Slug, err)
		}
		ids[keys[i]] = data[i].ID
		fmt.Printf("    ✅ Created event: %s (%s)\n", data[i].Title, data[i].Slug)
	}

	return ids, nil
}

// SeedSeatInventory builds banquet tables for the gala
func (s *Seeder) SeedSeatInventory(eventIDs map[string]uuid.UUID) error {
	fmt.Println("  💺 Seeding seat inventory...")

	galaID := eventIDs["gala"]

	groups := []struct {
		code  string
		name  string
		price int
		count int
	}{
		{"T1", "Table 1", 200000, 10},
		{"T2", "Table 2", 200000, 10},
		{"T3", "Table 3", 150000, 10},
		{"T4", "Table 4", 150000, 10},
	}

	for _, g := range groups {
		group := seats.SeatGroup{
			ID:        uuid.New(),
			EventID:   galaID,
			Code:      g.code,
			Name:      g.name,
			Type:      seats.GroupTypeTable,
			BasePrice: g.price,
		}
		if err := s.db.PostgreSQL.Create(&group).Error; err != nil {
			return fmt.Errorf("failed to create seat group %s: %w", g.code, err)
		}

		seatRows := make([]seats.Seat, 0, g.count)
		for n := 1; n <= g.count; n++ {
			num := n
			seatRows = append(seatRows, seats.Seat{
				ID:         uuid.New(),
				EventID:    galaID,
				GroupID:    group.ID,
				SeatNumber: &num,
				Price:      g.price,
				Status:     seats.StatusFree,
			})
		}
		if err := s.db.PostgreSQL.Create(&seatRows).Error; err != nil {
			return fmt.Errorf("failed to create seats for group %s: %w", g.code, err)
		}

		fmt.Printf("    ✅ Created group %s with %d seats\n", g.name, g.count)
	}

	return nil
}
