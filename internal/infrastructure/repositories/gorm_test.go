package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/marecop/YAweb/domain"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	if err := db.AutoMigrate(&DBUser{}, &DBBooking{}, &DBMileageRecord{}); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}
	return db
}

func TestGormUserRepository_CreateAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()

	user := &domain.User{
		ID:          "u1",
		Email:       "Test@Example.com",
		FirstName:   "Test",
		LastName:    "User",
		Role:        domain.RoleUser,
		TotalMiles:  60000,
		MemberLevel: domain.TierGold,
		IsMember:    true,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	// Lookups are case-insensitive on email.
	got, err := repo.FindByEmail(ctx, "test@example.COM")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "u1" || got.TotalMiles != 60000 || got.MemberLevel != domain.TierGold {
		t.Errorf("stored user mismatch: %+v", got)
	}

	// Duplicate email hits the unique index.
	dup := &domain.User{ID: "u2", Email: "test@example.com"}
	if err := repo.Create(ctx, dup); !errors.Is(err, domain.ErrUserAlreadyExists) {
		t.Errorf("expected ErrUserAlreadyExists, got %v", err)
	}

	_, err = repo.FindByID(ctx, "missing")
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestGormUserRepository_UpdateProfile(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()

	repo.Create(ctx, &domain.User{
		ID:        "u1",
		Email:     "test@example.com",
		FirstName: "Old",
		City:      "Madrid",
	})

	newFirst := "New"
	newCity := "Lisbon"
	updated, err := repo.UpdateProfile(ctx, "u1", domain.ProfileUpdate{
		FirstName: &newFirst,
		City:      &newCity,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.FirstName != "New" || updated.City != "Lisbon" {
		t.Errorf("profile not applied: %+v", updated)
	}
	if updated.Email != "test@example.com" {
		t.Errorf("email must not change through profile update, got %s", updated.Email)
	}

	_, err = repo.UpdateProfile(ctx, "missing", domain.ProfileUpdate{FirstName: &newFirst})
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestGormUserRepository_DeleteAndList(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()

	repo.Create(ctx, &domain.User{ID: "u1", Email: "a@example.com", CreatedAt: time.Now().Add(-time.Hour)})
	repo.Create(ctx, &domain.User{ID: "u2", Email: "b@example.com", CreatedAt: time.Now()})

	users, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
	if users[0].ID != "u1" {
		t.Errorf("expected oldest first, got %s", users[0].ID)
	}

	if err := repo.Delete(ctx, "u1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := repo.Delete(ctx, "u1"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound on second delete, got %v", err)
	}
}

func TestGormBookingRepository_PassengersRoundtrip(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormBookingRepository(db)
	ctx := context.Background()

	booking := &domain.Booking{
		ID:            "b1",
		UserID:        "u1",
		FlightNumber:  "YA204",
		Departure:     "LHR",
		Destination:   "HKG",
		DepartureDate: "2026-09-10",
		CabinClass:    domain.CabinBusiness,
		Passengers: []domain.PassengerCount{
			{Label: "adult", Count: 2},
			{Label: "child", Count: 1},
		},
		TotalPrice: 4260.00,
		Status:     domain.BookingStatusPending,
	}
	if err := repo.Create(ctx, booking); err != nil {
		t.Fatalf("failed to create booking: %v", err)
	}

	got, err := repo.FindByID(ctx, "b1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Passengers) != 2 || got.Passengers[1].Label != "child" {
		t.Errorf("passenger breakdown lost on roundtrip: %+v", got.Passengers)
	}
	if got.TotalPrice != 4260.00 {
		t.Errorf("expected price 4260.00, got %f", got.TotalPrice)
	}
}

func TestGormBookingRepository_UpdateStatus(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormBookingRepository(db)
	ctx := context.Background()

	repo.Create(ctx, &domain.Booking{
		ID:     "b1",
		UserID: "u1",
		Status: domain.BookingStatusPending,
	})

	updated, err := repo.UpdateStatus(ctx, "b1", domain.BookingStatusPending, domain.BookingStatusConfirmed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != domain.BookingStatusConfirmed {
		t.Errorf("expected confirmed, got %s", updated.Status)
	}

	// Stale expected state conflicts instead of overwriting.
	_, err = repo.UpdateStatus(ctx, "b1", domain.BookingStatusPending, domain.BookingStatusCanceled)
	if !errors.Is(err, domain.ErrBookingStatusConflict) {
		t.Errorf("expected ErrBookingStatusConflict, got %v", err)
	}

	_, err = repo.UpdateStatus(ctx, "missing", domain.BookingStatusPending, domain.BookingStatusConfirmed)
	if !errors.Is(err, domain.ErrBookingNotFound) {
		t.Errorf("expected ErrBookingNotFound, got %v", err)
	}
}

func TestGormBookingRepository_FindByUserID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormBookingRepository(db)
	ctx := context.Background()

	repo.Create(ctx, &domain.Booking{ID: "b1", UserID: "u1", Status: domain.BookingStatusPending})
	repo.Create(ctx, &domain.Booking{ID: "b2", UserID: "u2", Status: domain.BookingStatusPending})

	own, err := repo.FindByUserID(ctx, "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(own) != 1 || own[0].ID != "b1" {
		t.Errorf("expected only u1's booking, got %+v", own)
	}
}

func TestGormBookingRepository_ListsInCreationOrder(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormBookingRepository(db)
	ctx := context.Background()

	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"b1", "b2", "b3"} {
		booking := &domain.Booking{
			ID:        id,
			UserID:    "u1",
			Status:    domain.BookingStatusPending,
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}
		if err := repo.Create(ctx, booking); err != nil {
			t.Fatalf("Create(%s) error = %v", id, err)
		}
	}

	own, err := repo.FindByUserID(ctx, "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(own) != 3 {
		t.Fatalf("expected 3 bookings, got %d", len(own))
	}
	for i, want := range []string{"b1", "b2", "b3"} {
		if own[i].ID != want {
			t.Errorf("FindByUserID()[%d] = %s, want %s", i, own[i].ID, want)
		}
	}

	all, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, want := range []string{"b1", "b2", "b3"} {
		if all[i].ID != want {
			t.Errorf("List()[%d] = %s, want %s", i, all[i].ID, want)
		}
	}
}

func TestGormMileageRepository_CompletedBalance(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormMileageRepository(db)
	ctx := context.Background()

	records := []*domain.MileageRecord{
		{ID: "m1", UserID: "u1", Amount: 5000, Type: domain.MileageEarned, Status: domain.MileageCompleted},
		{ID: "m2", UserID: "u1", Amount: 1200, Type: domain.MileageUsed, Status: domain.MileageCompleted},
		{ID: "m3", UserID: "u1", Amount: 800, Type: domain.MileageEarned, Status: domain.MileagePending},
		{ID: "m4", UserID: "u2", Amount: 7000, Type: domain.MileageEarned, Status: domain.MileageCompleted},
	}
	for _, r := range records {
		if err := repo.Create(ctx, r); err != nil {
			t.Fatalf("failed to create record %s: %v", r.ID, err)
		}
	}

	balance, err := repo.CompletedBalance(ctx, "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if balance != 3800 {
		t.Errorf("expected balance 3800, got %d", balance)
	}

	// Completing the pending record moves the balance.
	if _, err := repo.UpdateStatus(ctx, "m3", domain.MileageCompleted); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	balance, _ = repo.CompletedBalance(ctx, "u1")
	if balance != 4600 {
		t.Errorf("expected balance 4600, got %d", balance)
	}
}
