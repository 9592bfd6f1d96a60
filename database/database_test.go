package database

import (
	"os"
	"testing"

	"velora-backend/models"

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
			"id" TEXT PRIMARY KEY,
			"email" TEXT NOT NULL UNIQUE,
			"password" TEXT NOT NULL,
			"name" TEXT,
			"role" TEXT DEFAULT 'customer',
			"phone" TEXT,
			"is_active" INTEGER DEFAULT 0,
			"is_blocked" INTEGER DEFAULT 0,
			"created_at" DATETIME,
			"updated_at" DATETIME,
			"deleted_at" DATETIME
		)`,
		`CREATE TABLE IF NOT EXISTS "store_settings" (
			"id" INTEGER PRIMARY KEY,
			"store_name" TEXT,
			"currency" TEXT DEFAULT 'NGN',
			"delivery_fee" NUMERIC,
			"free_delivery_min" NUMERIC,
			"available_states" TEXT,
			"created_at" DATETIME,
			"updated_at" DATETIME
		)`,
	}

	for _, sql := range tables {
		if err := db.Exec(sql).Error; err != nil {
			t.Fatal(err)
		}
	}
	return db
}

func TestCreateDefaultAdminNew(t *testing.T) {
	db := setupTestDB(t)
	os.Setenv("ADMIN_EMAIL", "testadmin@test.com")
	os.Setenv("ADMIN_PASSWORD", "testpassword123")
	defer os.Unsetenv("ADMIN_EMAIL")
	defer os.Unsetenv("ADMIN_PASSWORD")

	err := CreateDefaultAdmin(db)
	if err != nil {
		t.Fatal(err)
	}

	var user models.User
	if err := db.Where("email = ?", "testadmin@test.com").First(&user).Error; err != nil {
		t.Fatal("admin user not created")
	}
	if user.Role != "admin" {
		t.Errorf("expected role 'admin', got '%s'", user.Role)
	}
	if !user.IsActive {
		t.Error("expected default admin to be active without OTP verification")
	}
}

func TestCreateDefaultAdminAlreadyExists(t *testing.T) {
	db := setupTestDB(t)
	os.Setenv("ADMIN_EMAIL", "existing@test.com")
	os.Setenv("ADMIN_PASSWORD", "password123")
	defer os.Unsetenv("ADMIN_EMAIL")
	defer os.Unsetenv("ADMIN_PASSWORD")

	// Create admin first time
	err := CreateDefaultAdmin(db)
	if err != nil {
		t.Fatal(err)
	}

	// Second call should skip (no error)
	err = CreateDefaultAdmin(db)
	if err != nil {
		t.Fatal(err)
	}

	var count int64
	db.Model(&models.User{}).Where("email = ?", "existing@test.com").Count(&count)
	if count != 1 {
		t.Errorf("expected exactly 1 admin, got %d", count)
	}
}

func TestCreateDefaultAdminFallbackCredentials(t *testing.T) {
	db := setupTestDB(t)
	os.Unsetenv("ADMIN_EMAIL")
	os.Unsetenv("ADMIN_PASSWORD")

	err := CreateDefaultAdmin(db)
	if err != nil {
		t.Fatal(err)
	}

	var user models.User
	if err := db.Where("email = ?", "admin@velora.shop").First(&user).Error; err != nil {
		t.Fatal("admin not created with fallback credentials")
	}
}

func TestEnsureStoreSettingsNew(t *testing.T) {
	db := setupTestDB(t)

	if err := EnsureStoreSettings(db); err != nil {
		t.Fatal(err)
	}

	var settings models.StoreSettings
	if err := db.First(&settings).Error; err != nil {
		t.Fatal("store settings not created")
	}
	if settings.StoreName != "Velora" {
		t.Errorf("expected 'Velora', got '%s'", settings.StoreName)
	}
	if states := settings.StatesList(); len(states) != 0 {
		t.Errorf("expected empty states list, got %v", states)
	}
}

func TestEnsureStoreSettingsAlreadyExists(t *testing.T) {
	db := setupTestDB(t)

	if err := EnsureStoreSettings(db); err != nil {
		t.Fatal(err)
	}
	// Second call should skip
	if err := EnsureStoreSettings(db); err != nil {
		t.Fatal(err)
	}

	var count int64
	db.Model(&models.StoreSettings{}).Count(&count)
	if count != 1 {
		t.Errorf("expected 1 settings row, got %d", count)
	}
}
