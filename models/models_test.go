package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatal(err)
	}

	tables := []string{
		`CREATE TABLE IF NOT EXISTS "users" (
			"id" TEXT PRIMARY KEY, "email" TEXT NOT NULL UNIQUE, "password" TEXT NOT NULL,
			"name" TEXT, "role" TEXT DEFAULT 'customer', "phone" TEXT,
			"is_active" INTEGER DEFAULT 0, "is_blocked" INTEGER DEFAULT 0,
			"created_at" DATETIME, "updated_at" DATETIME, "deleted_at" DATETIME
		)`,
		`CREATE TABLE IF NOT EXISTS "refresh_tokens" (
			"id" TEXT PRIMARY KEY, "user_id" TEXT NOT NULL, "token" TEXT NOT NULL UNIQUE,
			"expires_at" DATETIME NOT NULL, "revoked_at" DATETIME, "created_at" DATETIME
		)`,
		`CREATE TABLE IF NOT EXISTS "password_reset_tokens" (
			"id" TEXT PRIMARY KEY, "user_id" TEXT NOT NULL, "token" TEXT NOT NULL UNIQUE,
			"expires_at" DATETIME NOT NULL, "used_at" DATETIME, "created_at" DATETIME
		)`,
		`CREATE TABLE IF NOT EXISTS "otp_codes" (
			"id" TEXT PRIMARY KEY, "user_id" TEXT NOT NULL, "code" TEXT NOT NULL,
			"expires_at" DATETIME NOT NULL, "used_at" DATETIME, "created_at" DATETIME
		)`,
		`CREATE TABLE IF NOT EXISTS "carts" (
			"id" INTEGER PRIMARY KEY AUTOINCREMENT, "uid" TEXT NOT NULL UNIQUE,
			"user_id" TEXT NOT NULL UNIQUE, "created_at" DATETIME, "updated_at" DATETIME
		)`,
	}
	for _, sql := range tables {
		if err := db.Exec(sql).Error; err != nil {
			t.Fatal(err)
		}
	}
	return db
}

func TestUserBeforeCreateGeneratesUUID(t *testing.T) {
	db := setupTestDB(t)
	user := User{Email: "test@test.com", Password: "hash", Name: "Test"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatal(err)
	}
	if user.ID == uuid.Nil {
		t.Error("UUID should have been generated")
	}
}

func TestUserBeforeCreatePreservesUUID(t *testing.T) {
	db := setupTestDB(t)
	existingID := uuid.New()
	user := User{ID: existingID, Email: "preserve@test.com", Password: "hash", Name: "Test"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatal(err)
	}
	if user.ID != existingID {
		t.Error("UUID should have been preserved")
	}
}

func TestRefreshTokenBeforeCreate(t *testing.T) {
	db := setupTestDB(t)
	rt := RefreshToken{UserID: uuid.New(), Token: "tok"}
	db.Create(&rt)
	if rt.ID == uuid.Nil {
		t.Error("UUID should have been generated")
	}
}

func TestPasswordResetTokenBeforeCreate(t *testing.T) {
	db := setupTestDB(t)
	prt := PasswordResetToken{UserID: uuid.New(), Token: "tok"}
	db.Create(&prt)
	if prt.ID == uuid.Nil {
		t.Error("UUID should have been generated")
	}
}

func TestOTPCodeBeforeCreate(t *testing.T) {
	db := setupTestDB(t)
	otp := OTPCode{UserID: uuid.New(), Code: "123456"}
	db.Create(&otp)
	if otp.ID == uuid.Nil {
		t.Error("UUID should have been generated")
	}
}

func TestCartBeforeCreateGeneratesUID(t *testing.T) {
	db := setupTestDB(t)
	cart := Cart{UserID: uuid.New()}
	if err := db.Create(&cart).Error; err != nil {
		t.Fatal(err)
	}
	if cart.UID == uuid.Nil {
		t.Error("cart UID should have been generated")
	}
}

func TestEffectivePriceNoDiscount(t *testing.T) {
	p := Product{Price: decimal.NewFromInt(2000)}
	if !p.EffectivePrice().Equal(decimal.NewFromInt(2000)) {
		t.Errorf("expected 2000, got %s", p.EffectivePrice())
	}
}

func TestEffectivePriceDiscountWins(t *testing.T) {
	discounted := decimal.NewFromInt(1500)
	p := Product{Price: decimal.NewFromInt(2000), DiscountedPrice: &discounted}
	if !p.EffectivePrice().Equal(discounted) {
		t.Errorf("expected 1500, got %s", p.EffectivePrice())
	}
}

func TestPrimaryImageURLPrefersPrimary(t *testing.T) {
	p := Product{Images: []ProductImage{
		{ImageURL: "first.jpg"},
		{ImageURL: "main.jpg", IsPrimary: true},
	}}
	if got := p.PrimaryImageURL(); got != "main.jpg" {
		t.Errorf("expected main.jpg, got %q", got)
	}
}

func TestPrimaryImageURLFallsBackToFirst(t *testing.T) {
	p := Product{Images: []ProductImage{
		{ImageURL: "first.jpg"},
		{ImageURL: "second.jpg"},
	}}
	if got := p.PrimaryImageURL(); got != "first.jpg" {
		t.Errorf("expected first.jpg, got %q", got)
	}
}

func TestPrimaryImageURLNoImages(t *testing.T) {
	p := Product{}
	if got := p.PrimaryImageURL(); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}

func TestIsValidTransitionAllowed(t *testing.T) {
	cases := []struct{ from, to OrderStatus }{
		{OrderStatusPending, OrderStatusConfirmed},
		{OrderStatusPending, OrderStatusCancelled},
		{OrderStatusConfirmed, OrderStatusProcessing},
		{OrderStatusProcessing, OrderStatusShipped},
		{OrderStatusShipped, OrderStatusDelivered},
	}
	for _, c := range cases {
		if !IsValidTransition(c.from, c.to) {
			t.Errorf("expected %s -> %s to be allowed", c.from, c.to)
		}
	}
}

func TestIsValidTransitionRejected(t *testing.T) {
	cases := []struct{ from, to OrderStatus }{
		{OrderStatusPending, OrderStatusDelivered},
		{OrderStatusShipped, OrderStatusCancelled},
		{OrderStatusDelivered, OrderStatusPending},
		{OrderStatusCancelled, OrderStatusConfirmed},
		{OrderStatus("bogus"), OrderStatusPending},
	}
	for _, c := range cases {
		if IsValidTransition(c.from, c.to) {
			t.Errorf("expected %s -> %s to be rejected", c.from, c.to)
		}
	}
}

func TestStatesListEmpty(t *testing.T) {
	s := StoreSettings{}
	states := s.StatesList()
	if states == nil || len(states) != 0 {
		t.Errorf("expected empty non-nil list, got %v", states)
	}
}

func TestStatesListRoundTrip(t *testing.T) {
	s := StoreSettings{}
	if err := s.SetStatesList([]string{"Lagos", "Abuja"}); err != nil {
		t.Fatal(err)
	}
	states := s.StatesList()
	if len(states) != 2 || states[0] != "Lagos" || states[1] != "Abuja" {
		t.Errorf("unexpected states: %v", states)
	}
}

func TestStatesListMalformedFallsBack(t *testing.T) {
	s := StoreSettings{AvailableStates: "{definitely not json"}
	states := s.StatesList()
	if len(states) != 0 {
		t.Errorf("expected empty list for malformed JSON, got %v", states)
	}
}

func TestSetStatesListNil(t *testing.T) {
	s := StoreSettings{}
	if err := s.SetStatesList(nil); err != nil {
		t.Fatal(err)
	}
	if s.AvailableStates != "[]" {
		t.Errorf("expected [], got %q", s.AvailableStates)
	}
}
