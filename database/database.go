package database

import (
	"fmt"
	"log"
	"os"

	"velora-backend/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Connect() (*gorm.DB, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "host=localhost user=postgres password=postgres dbname=velora_store port=5432 sslmode=disable"
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	// Ensure PostgreSQL has gen_random_uuid() available (pgcrypto extension).
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
		return fmt.Errorf("failed to enable pgcrypto extension: %w", err)
	}

	return db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.PasswordResetToken{},
		&models.OTPCode{},
		&models.Category{},
		&models.Product{},
		&models.ProductSize{},
		&models.ProductImage{},
		&models.Cart{},
		&models.CartItem{},
		&models.WishlistItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.GuestStateRecord{},
		&models.StoreSettings{},
	)
}

func CreateDefaultAdmin(db *gorm.DB) error {
	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")

	if adminEmail == "" {
		adminEmail = "admin@velora.shop"
	}
	if adminPassword == "" {
		adminPassword = "admin123"
	}

	var existingUser models.User
	result := db.Where("email = ?", adminEmail).First(&existingUser)
	if result.Error == nil {
		// Admin already exists
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := models.User{
		Email:    adminEmail,
		Password: string(hashedPassword),
		Role:     "admin",
		Name:     "Admin User",
		IsActive: true,
	}

	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	log.Printf("Default admin created: %s", adminEmail)
	return nil
}

// EnsureStoreSettings creates the singleton settings row if missing so the
// admin dashboard and checkout always have something to read.
func EnsureStoreSettings(db *gorm.DB) error {
	var settings models.StoreSettings
	result := db.First(&settings)
	if result.Error == nil {
		return nil
	}

	settings = models.StoreSettings{
		ID:              1,
		StoreName:       "Velora",
		Currency:        "NGN",
		DeliveryFee:     decimal.NewFromInt(1500),
		FreeDeliveryMin: decimal.NewFromInt(50000),
	}
	if err := settings.SetStatesList([]string{}); err != nil {
		return err
	}
	if err := db.Create(&settings).Error; err != nil {
		return err
	}

	log.Println("Default store settings created")
	return nil
}
