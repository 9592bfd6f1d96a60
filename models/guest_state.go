package models

import "time"

// GuestStateRecord is one guest's serialized cart/wishlist blob. Reads and
// writes always cover the whole value, so concurrent writers are
// last-write-wins on the full document.
type GuestStateRecord struct {
	Key       string    `gorm:"primaryKey" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}
