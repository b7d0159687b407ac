package domain

import "github.com/google/uuid"

// User is read-only for the booking core: it supplies the renter's
// saved delivery address and a contact email for notifications.
type User struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Role  Role      `json:"role"`

	// Saved delivery address; a delivery job falls back to the listing
	// address when these are unset.
	DeliveryAddress   string   `json:"delivery_address,omitempty"`
	DeliveryLatitude  *float64 `json:"delivery_latitude,omitempty"`
	DeliveryLongitude *float64 `json:"delivery_longitude,omitempty"`
}

func (u *User) HasDeliveryAddress() bool {
	return u.DeliveryAddress != "" && u.DeliveryLatitude != nil && u.DeliveryLongitude != nil
}
