package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"gatepass/internal/shared/config"
	"gatepass/internal/users"
)

type fakeStaffRepo struct {
	byUsername map[string]*StaffAccount
	byID       map[string]*StaffAccount
	created    []*StaffAccount
}

func newFakeStaffRepo() *fakeStaffRepo {
	return &fakeStaffRepo{
		byUsername: make(map[string]*StaffAccount),
		byID:       make(map[string]*StaffAccount),
	}
}

func (f *fakeStaffRepo) add(staff *StaffAccount) {
	f.byUsername[staff.Username] = staff
	f.byID[staff.ID.String()] = staff
}

func (f *fakeStaffRepo) CreateStaff(ctx context.Context, staff *StaffAccount) error {
	if staff.ID == uuid.Nil {
		staff.ID = uuid.New()
	}
	f.created = append(f.created, staff)
	f.add(staff)
	return nil
}

func (f *fakeStaffRepo) GetStaffByUsername(ctx context.Context, username string) (*StaffAccount, error) {
	staff, ok := f.byUsername[username]
	if !ok {
		return nil, ErrStaffNotFound
	}
	return staff, nil
}

func (f *fakeStaffRepo) GetStaffByID(ctx context.Context, id string) (*StaffAccount, error) {
	staff, ok := f.byID[id]
	if !ok {
		return nil, ErrStaffNotFound
	}
	return staff, nil
}

func (f *fakeStaffRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	_, ok := f.byUsername[username]
	return ok, nil
}

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:           "test-secret",
			JWTExpiresIn:     15 * time.Minute,
			RefreshExpiresIn: 24 * time.Hour,
		},
	}
}

func testStaff(username, password string, role users.Role) *StaffAccount {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	return &StaffAccount{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: string(hash),
		FullName:     "Test Staff",
		Role:         role,
		IsActive:     true,
	}
}

func TestCreateStaffDefaultsRole(t *testing.T) {
	repo := newFakeStaffRepo()
	svc := NewService(repo, testConfig())

	resp, err := svc.CreateStaff(context.Background(), &CreateStaffRequest{
		Username: "gatekeeper",
		Password: "secret123",
		FullName: "Gate Keeper",
		Role:     "superhero",
	})
	if err != nil {
		t.Fatalf("create staff: %v", err)
	}
	if resp.Role != string(users.RoleOrganizer) {
		t.Fatalf("expected role %s for invalid input, got %s", users.RoleOrganizer, resp.Role)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected 1 created account, got %d", len(repo.created))
	}
	stored := repo.created[0]
	if stored.PasswordHash == "secret123" {
		t.Fatal("password stored in plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret123")); err != nil {
		t.Fatalf("stored hash does not verify: %v", err)
	}
}

func TestCreateStaffUppercasesRole(t *testing.T) {
	repo := newFakeStaffRepo()
	svc := NewService(repo, testConfig())

	resp, err := svc.CreateStaff(context.Background(), &CreateStaffRequest{
		Username: "boss",
		Password: "secret123",
		FullName: "The Boss",
		Role:     "admin",
	})
	if err != nil {
		t.Fatalf("create staff: %v", err)
	}
	if resp.Role != string(users.RoleAdmin) {
		t.Fatalf("expected role %s, got %s", users.RoleAdmin, resp.Role)
	}
}

func TestCreateStaffDuplicateUsername(t *testing.T) {
	repo := newFakeStaffRepo()
	repo.add(testStaff("taken", "whatever1", users.RoleOrganizer))
	svc := NewService(repo, testConfig())

	_, err := svc.CreateStaff(context.Background(), &CreateStaffRequest{
		Username: "taken",
		Password: "secret123",
		FullName: "Second Comer",
	})
	if !errors.Is(err, ErrStaffAlreadyExists) {
		t.Fatalf("expected ErrStaffAlreadyExists, got %v", err)
	}
}

func TestLoginSuccess(t *testing.T) {
	repo := newFakeStaffRepo()
	staff := testStaff("organizer", "qwerty", users.RoleOrganizer)
	repo.add(staff)
	svc := NewService(repo, testConfig())

	resp, err := svc.Login(context.Background(), &LoginRequest{
		Username: "organizer",
		Password: "qwerty",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatal("expected both tokens to be issued")
	}
	if resp.Staff.Username != "organizer" {
		t.Fatalf("expected staff username organizer, got %q", resp.Staff.Username)
	}

	claims, err := svc.ValidateToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("validate issued access token: %v", err)
	}
	if claims.Type != "access" {
		t.Fatalf("expected access token type, got %q", claims.Type)
	}
	if claims.StaffID != staff.ID.String() {
		t.Fatalf("expected staff id %s, got %s", staff.ID, claims.StaffID)
	}
	if claims.Role != string(users.RoleOrganizer) {
		t.Fatalf("expected role %s, got %s", users.RoleOrganizer, claims.Role)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	repo := newFakeStaffRepo()
	repo.add(testStaff("organizer", "qwerty", users.RoleOrganizer))
	svc := NewService(repo, testConfig())

	_, err := svc.Login(context.Background(), &LoginRequest{
		Username: "organizer",
		Password: "hunter2",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginUnknownUsername(t *testing.T) {
	repo := newFakeStaffRepo()
	svc := NewService(repo, testConfig())

	_, err := svc.Login(context.Background(), &LoginRequest{
		Username: "nobody",
		Password: "whatever",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	repo := newFakeStaffRepo()
	staff := testStaff("organizer", "qwerty", users.RoleOrganizer)
	repo.add(staff)
	svc := NewService(repo, testConfig())

	login, err := svc.Login(context.Background(), &LoginRequest{
		Username: "organizer",
		Password: "qwerty",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	pair, err := svc.RefreshToken(context.Background(), login.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	claims, err := svc.ValidateToken(pair.AccessToken)
	if err != nil {
		t.Fatalf("validate refreshed access token: %v", err)
	}
	if claims.StaffID != staff.ID.String() {
		t.Fatalf("expected staff id %s, got %s", staff.ID, claims.StaffID)
	}
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	repo := newFakeStaffRepo()
	repo.add(testStaff("organizer", "qwerty", users.RoleOrganizer))
	svc := NewService(repo, testConfig())

	login, err := svc.Login(context.Background(), &LoginRequest{
		Username: "organizer",
		Password: "qwerty",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	_, err = svc.RefreshToken(context.Background(), login.AccessToken)
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for access token, got %v", err)
	}
}

func TestRefreshRejectsDeactivatedAccount(t *testing.T) {
	repo := newFakeStaffRepo()
	staff := testStaff("organizer", "qwerty", users.RoleOrganizer)
	repo.add(staff)
	svc := NewService(repo, testConfig())

	login, err := svc.Login(context.Background(), &LoginRequest{
		Username: "organizer",
		Password: "qwerty",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	delete(repo.byID, staff.ID.String())

	_, err = svc.RefreshToken(context.Background(), login.RefreshToken)
	if !errors.Is(err, ErrStaffNotFound) {
		t.Fatalf("expected ErrStaffNotFound, got %v", err)
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	repo := newFakeStaffRepo()
	repo.add(testStaff("organizer", "qwerty", users.RoleOrganizer))
	svc := NewService(repo, testConfig())

	login, err := svc.Login(context.Background(), &LoginRequest{
		Username: "organizer",
		Password: "qwerty",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	otherCfg := testConfig()
	otherCfg.JWT.Secret = "different-secret"
	other := NewService(newFakeStaffRepo(), otherCfg)

	if _, err := other.ValidateToken(login.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken across secrets, got %v", err)
	}
}

func TestValidateTokenGarbage(t *testing.T) {
	svc := NewService(newFakeStaffRepo(), testConfig())
	if _, err := svc.ValidateToken("not.a.jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
