package gueststate

import (
	"errors"

	"velora-backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStorage keeps guest state blobs in the guest_state_records table so
// guest carts survive server restarts.
type GormStorage struct {
	DB *gorm.DB
}

func NewGormStorage(db *gorm.DB) *GormStorage {
	return &GormStorage{DB: db}
}

func (s *GormStorage) Load(key string) (string, bool, error) {
	var rec models.GuestStateRecord
	err := s.DB.Where("key = ?", key).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return rec.Value, true, nil
}

func (s *GormStorage) Save(key, value string) error {
	rec := models.GuestStateRecord{Key: key, Value: value}
	return s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&rec).Error
}

func (s *GormStorage) Delete(key string) error {
	return s.DB.Where("key = ?", key).Delete(&models.GuestStateRecord{}).Error
}
