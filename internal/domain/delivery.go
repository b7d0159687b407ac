package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type DeliveryStatus string

const (
	DeliveryStatusAssigned       DeliveryStatus = "ASSIGNED"
	DeliveryStatusPickupStarted  DeliveryStatus = "PICKUP_STARTED"
	DeliveryStatusPicked         DeliveryStatus = "PICKED"
	DeliveryStatusOutForDelivery DeliveryStatus = "OUT_FOR_DELIVERY"
	DeliveryStatusDelivered      DeliveryStatus = "DELIVERED"
	DeliveryStatusReturnStarted  DeliveryStatus = "RETURN_STARTED"
	DeliveryStatusReturned       DeliveryStatus = "RETURNED"
)

// deliveryTransitions is the strict forward path of a delivery job.
// Exactly one target per state; everything else is rejected.
var deliveryTransitions = map[DeliveryStatus]DeliveryStatus{
	DeliveryStatusAssigned:       DeliveryStatusPickupStarted,
	DeliveryStatusPickupStarted:  DeliveryStatusPicked,
	DeliveryStatusPicked:         DeliveryStatusOutForDelivery,
	DeliveryStatusOutForDelivery: DeliveryStatusDelivered,
	DeliveryStatusDelivered:      DeliveryStatusReturnStarted,
	DeliveryStatusReturnStarted:  DeliveryStatusReturned,
}

func (s DeliveryStatus) IsValid() bool {
	if s == DeliveryStatusReturned {
		return true
	}
	_, ok := deliveryTransitions[s]
	return ok
}

func (s DeliveryStatus) CanTransitionTo(target DeliveryStatus) bool {
	next, ok := deliveryTransitions[s]
	return ok && next == target
}

func (s DeliveryStatus) IsTerminal() bool {
	return s == DeliveryStatusReturned
}

func (s DeliveryStatus) String() string {
	return string(s)
}

func ParseDeliveryStatus(raw string) (DeliveryStatus, error) {
	status := DeliveryStatus(raw)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid delivery status: %s", raw)
	}
	return status, nil
}

// Evidence is the proof captured when custody changes hands. Both a
// photo and a short video are required on PICKED and DELIVERED.
type Evidence struct {
	PhotoRef string `json:"photo_ref"`
	VideoRef string `json:"video_ref"`
}

func (e Evidence) Complete() bool {
	return e.PhotoRef != "" && e.VideoRef != ""
}

// GeoPoint is a GPS coordinate pair from the agent's device.
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// DeliveryJob tracks physical custody of a booked item. Exactly one
// job exists per booking, created at acceptance. Pickup and delivery
// addresses are snapshotted at that moment and never re-derived.
type DeliveryJob struct {
	ID        uuid.UUID  `json:"id"`
	BookingID uuid.UUID  `json:"booking_id"`
	AgentID   *uuid.UUID `json:"agent_id,omitempty"`
	Status    DeliveryStatus `json:"status"`

	PickupAddress     string  `json:"pickup_address"`
	PickupLatitude    float64 `json:"pickup_latitude"`
	PickupLongitude   float64 `json:"pickup_longitude"`
	DeliveryAddress   string  `json:"delivery_address"`
	DeliveryLatitude  float64 `json:"delivery_latitude"`
	DeliveryLongitude float64 `json:"delivery_longitude"`

	PickupEvidence   Evidence `json:"pickup_evidence"`
	DeliveryEvidence Evidence `json:"delivery_evidence"`
	ReturnEvidence   Evidence `json:"return_evidence"`

	// AmountCollectedCents is set on DELIVERED for cash-on-delivery bookings.
	AmountCollectedCents *int64 `json:"amount_collected_cents,omitempty"`

	PickupStartedAt  *time.Time `json:"pickup_started_at,omitempty"`
	PickedAt         *time.Time `json:"picked_at,omitempty"`
	OutForDeliveryAt *time.Time `json:"out_for_delivery_at,omitempty"`
	DeliveredAt      *time.Time `json:"delivered_at,omitempty"`
	ReturnStartedAt  *time.Time `json:"return_started_at,omitempty"`
	ReturnedAt       *time.Time `json:"returned_at,omitempty"`

	// Live location side channel, last-writer-wins. Disjoint from the
	// status columns so GPS writes never contend with transitions.
	CurrentLatitude    *float64   `json:"current_latitude,omitempty"`
	CurrentLongitude   *float64   `json:"current_longitude,omitempty"`
	LastLocationUpdate *time.Time `json:"last_location_update,omitempty"`

	CreatedOn time.Time `json:"created_on"`
	UpdatedOn time.Time `json:"updated_on"`
}

// PhaseTimestamp returns the pointer to the timestamp field stamped on
// entry into the given status, or nil if the status has none.
func (d *DeliveryJob) PhaseTimestamp(status DeliveryStatus) **time.Time {
	switch status {
	case DeliveryStatusPickupStarted:
		return &d.PickupStartedAt
	case DeliveryStatusPicked:
		return &d.PickedAt
	case DeliveryStatusOutForDelivery:
		return &d.OutForDeliveryAt
	case DeliveryStatusDelivered:
		return &d.DeliveredAt
	case DeliveryStatusReturnStarted:
		return &d.ReturnStartedAt
	case DeliveryStatusReturned:
		return &d.ReturnedAt
	}
	return nil
}
