package models

import (
	"encoding/json"
	"log"
	"time"

	"github.com/shopspring/decimal"
)

// StoreSettings is a singleton row (ID 1) holding storefront-wide
// configuration edited from the admin dashboard.
type StoreSettings struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	StoreName       string          `json:"store_name"`
	Currency        string          `gorm:"default:NGN" json:"currency"`
	DeliveryFee     decimal.Decimal `gorm:"type:decimal(12,2)" json:"delivery_fee"`
	FreeDeliveryMin decimal.Decimal `gorm:"type:decimal(12,2)" json:"free_delivery_min"`
	// AvailableStates is a JSON array of delivery state names, stored as
	// text because the admin dashboard edits it as a single field.
	AvailableStates string    `json:"-"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// StatesList decodes AvailableStates. Malformed stored JSON yields the
// empty list and a log line; it is never surfaced as a request error.
func (s *StoreSettings) StatesList() []string {
	if s.AvailableStates == "" {
		return []string{}
	}
	var states []string
	if err := json.Unmarshal([]byte(s.AvailableStates), &states); err != nil {
		log.Printf("store settings: malformed available_states %q, falling back to empty list: %v", s.AvailableStates, err)
		return []string{}
	}
	return states
}

// SetStatesList encodes and stores the delivery state list.
func (s *StoreSettings) SetStatesList(states []string) error {
	if states == nil {
		states = []string{}
	}
	encoded, err := json.Marshal(states)
	if err != nil {
		return err
	}
	s.AvailableStates = string(encoded)
	return nil
}
