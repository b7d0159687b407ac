package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusRequested        BookingStatus = "REQUESTED"
	BookingStatusAccepted         BookingStatus = "ACCEPTED"
	BookingStatusActive           BookingStatus = "ACTIVE"
	BookingStatusReturnInProgress BookingStatus = "RETURN_IN_PROGRESS"
	BookingStatusCompleted        BookingStatus = "COMPLETED"
	BookingStatusCancelled        BookingStatus = "CANCELLED"
	BookingStatusDisputed         BookingStatus = "DISPUTED"
)

type PaymentMethod string

const (
	PaymentMethodCashOnDelivery PaymentMethod = "CASH_ON_DELIVERY"
	PaymentMethodOnline         PaymentMethod = "ONLINE"
)

// bookingTransitions defines the booking lifecycle. ACTIVE and
// COMPLETED are only ever entered through delivery-side events;
// DISPUTED hands ownership to the dispute resolver and is terminal
// for this machine.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusRequested:        {BookingStatusAccepted, BookingStatusCancelled, BookingStatusDisputed},
	BookingStatusAccepted:         {BookingStatusActive, BookingStatusCancelled, BookingStatusDisputed},
	BookingStatusActive:           {BookingStatusReturnInProgress, BookingStatusCompleted, BookingStatusDisputed},
	BookingStatusReturnInProgress: {BookingStatusCompleted, BookingStatusDisputed},
	BookingStatusCompleted:        {},
	BookingStatusCancelled:        {},
	BookingStatusDisputed:         {},
}

// BlockingBookingStatuses are the statuses that hold item availability:
// an overlapping booking in any of these blocks a new request.
var BlockingBookingStatuses = []BookingStatus{
	BookingStatusAccepted,
	BookingStatusActive,
	BookingStatusReturnInProgress,
}

func (s BookingStatus) IsValid() bool {
	_, ok := bookingTransitions[s]
	return ok
}

func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	for _, t := range bookingTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

func (s BookingStatus) IsTerminal() bool {
	allowed, ok := bookingTransitions[s]
	if !ok {
		return true
	}
	return len(allowed) == 0
}

func (s BookingStatus) IsBlocking() bool {
	for _, b := range BlockingBookingStatuses {
		if s == b {
			return true
		}
	}
	return false
}

func (s BookingStatus) String() string {
	return string(s)
}

func ParseBookingStatus(raw string) (BookingStatus, error) {
	status := BookingStatus(raw)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid booking status: %s", raw)
	}
	return status, nil
}

// Booking is the rental agreement between a renter and a lender.
// Money fields are locked at creation and never recomputed; the row is
// append-only history and is only ever transitioned, never deleted.
type Booking struct {
	ID        uuid.UUID `json:"id"`
	ListingID uuid.UUID `json:"listing_id"`
	RenterID  uuid.UUID `json:"renter_id"`
	// LenderID is copied from the listing owner at creation so a later
	// ownership change cannot retroactively alter the booking.
	LenderID  uuid.UUID `json:"lender_id"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"` // inclusive

	// DailyRateCents is snapshotted from the listing at creation time.
	// All later refund/penalty calculations use this snapshot, never
	// the live listing rate.
	DailyRateCents   int64         `json:"daily_rate_cents"`
	RentCents        int64         `json:"rent_cents"`
	DepositCents     int64         `json:"deposit_cents"`
	DeliveryFeeCents int64         `json:"delivery_fee_cents"`
	PlatformFeeCents int64         `json:"platform_fee_cents"`
	TotalCents       int64         `json:"total_cents"`
	PaymentMethod    PaymentMethod `json:"payment_method"`

	Status                 BookingStatus `json:"status"`
	CancelReason           string        `json:"cancel_reason,omitempty"`
	EarlyReturnRefundCents *int64        `json:"early_return_refund_cents,omitempty"`
	DepositRefundCents     *int64        `json:"deposit_refund_cents,omitempty"`

	RequestedAt       time.Time  `json:"requested_at"`
	AcceptedAt        *time.Time `json:"accepted_at,omitempty"`
	CancelledAt       *time.Time `json:"cancelled_at,omitempty"`
	ReturnInitiatedAt *time.Time `json:"return_initiated_at,omitempty"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
	UpdatedOn         time.Time  `json:"updated_on"`
}

// IsParty reports whether userID is the renter or the lender.
func (b *Booking) IsParty(userID uuid.UUID) bool {
	return b.RenterID == userID || b.LenderID == userID
}
