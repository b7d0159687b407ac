package domain

import "github.com/google/uuid"

// Listing is owned by listing-management code. The booking core only
// reads rate, deposit and the availability flags.
type Listing struct {
	ID                uuid.UUID `json:"id"`
	OwnerID           uuid.UUID `json:"owner_id"`
	Title             string    `json:"title"`
	DailyRateCents    int64     `json:"daily_rate_cents"`
	HourlyRateCents   *int64    `json:"hourly_rate_cents,omitempty"`
	DepositCents      int64     `json:"deposit_cents"`
	IsAvailable       bool      `json:"is_available"`
	IsPaused          bool      `json:"is_paused"`
	Address           string    `json:"address"`
	Latitude          float64   `json:"latitude"`
	Longitude         float64   `json:"longitude"`
	CreatedOn         string    `json:"created_on"`
	UpdatedOn         string    `json:"updated_on"`
}
