package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"rentloop-backend/internal/cache"
	"rentloop-backend/internal/domain"
	"rentloop-backend/internal/utils"
)

// CreateBookingRequest is the validated input for a new booking. Field
// constraints are checked before any state is read.
type CreateBookingRequest struct {
	ListingID     uuid.UUID            `json:"listing_id"`
	StartDate     string               `json:"start_date"` // yyyy-mm-dd
	EndDate       string               `json:"end_date"`   // yyyy-mm-dd, inclusive
	PaymentMethod domain.PaymentMethod `json:"payment_method"`
}

// DeliveredRequest carries the evidence and, for cash-on-delivery
// bookings, the amount collected at the door.
type DeliveredRequest struct {
	Evidence             domain.Evidence `json:"evidence"`
	AmountCollectedCents *int64          `json:"amount_collected_cents,omitempty"`
}

// Orchestrator is the single entry point for the booking/delivery
// lifecycle. It is the only component allowed to drive either state
// machine; every operation either fully applies its changes or fails
// without partial persistence. All errors are returned as values.
type Orchestrator interface {
	// Booking lifecycle.
	CreateBooking(ctx context.Context, actor domain.Actor, req CreateBookingRequest) (*domain.Booking, error)
	AcceptBooking(ctx context.Context, actor domain.Actor, bookingID uuid.UUID) (*domain.Booking, error)
	CancelBooking(ctx context.Context, actor domain.Actor, bookingID uuid.UUID, reason string) (*domain.Booking, error)
	InitiateReturn(ctx context.Context, actor domain.Actor, bookingID uuid.UUID) (*domain.Booking, *utils.RefundBreakdown, error)
	DisputeBooking(ctx context.Context, actor domain.Actor, bookingID uuid.UUID, reason string) (*domain.Booking, error)
	ResolveDispute(ctx context.Context, actor domain.Actor, bookingID uuid.UUID, depositRefundCents int64) (*domain.Booking, error)

	// Delivery lifecycle.
	AssignAgent(ctx context.Context, actor domain.Actor, deliveryID, agentID uuid.UUID) (*domain.DeliveryJob, error)
	StartPickup(ctx context.Context, actor domain.Actor, deliveryID uuid.UUID) (*domain.DeliveryJob, error)
	MarkPickedUp(ctx context.Context, actor domain.Actor, deliveryID uuid.UUID, evidence domain.Evidence) (*domain.DeliveryJob, error)
	MarkOutForDelivery(ctx context.Context, actor domain.Actor, deliveryID uuid.UUID) (*domain.DeliveryJob, error)
	MarkDelivered(ctx context.Context, actor domain.Actor, deliveryID uuid.UUID, req DeliveredRequest) (*domain.DeliveryJob, error)
	StartReturnPickup(ctx context.Context, actor domain.Actor, deliveryID uuid.UUID) (*domain.DeliveryJob, error)
	MarkReturned(ctx context.Context, actor domain.Actor, deliveryID uuid.UUID, evidence domain.Evidence) (*domain.DeliveryJob, error)
	UpdateLocation(ctx context.Context, actor domain.Actor, deliveryID uuid.UUID, point domain.GeoPoint) error

	// Reads.
	GetBooking(ctx context.Context, actor domain.Actor, bookingID uuid.UUID) (*domain.Booking, error)
	ListRentals(ctx context.Context, actor domain.Actor, status string, page, pageSize int32) ([]domain.Booking, int32, error)
	ListLendings(ctx context.Context, actor domain.Actor, status string, page, pageSize int32) ([]domain.Booking, int32, error)
	GetDelivery(ctx context.Context, actor domain.Actor, deliveryID uuid.UUID) (*domain.DeliveryJob, error)
	GetDeliveryLocation(ctx context.Context, actor domain.Actor, deliveryID uuid.UUID) (*cache.LocationSnapshot, error)
	ListAgentJobs(ctx context.Context, actor domain.Actor, status string, page, pageSize int32) ([]domain.DeliveryJob, int32, error)
}

// LocationStore is the live-location side channel (Redis in
// production). Last writer wins; a nil snapshot means no recent fix.
type LocationStore interface {
	SetLocation(ctx context.Context, deliveryID uuid.UUID, point domain.GeoPoint, at time.Time) error
	GetLocation(ctx context.Context, deliveryID uuid.UUID) (*cache.LocationSnapshot, error)
}

// Notifier is the fire-and-forget notification sink. Failures are
// logged, never propagated, and never roll back a state change.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, noteType, title, message string, relatedEntityID uuid.UUID)
}

type NotificationService interface {
	GetNotifications(ctx context.Context, userID uuid.UUID, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, userID, notificationID uuid.UUID) error
}

type EmailService interface {
	SendBookingRequestedNotification(ctx context.Context, lenderEmail, renterName, listingTitle string) error
	SendBookingAcceptedNotification(ctx context.Context, renterEmail, lenderName, listingTitle string) error
	SendBookingCancelledNotification(ctx context.Context, email, byName, listingTitle, reason string) error
	SendReturnInitiatedNotification(ctx context.Context, lenderEmail, renterName, listingTitle string, totalRefundCents int64) error
	SendDeliveredNotification(ctx context.Context, email, listingTitle string) error
	SendReturnedNotification(ctx context.Context, email, listingTitle string) error
	SendReturnReminderNotification(ctx context.Context, renterEmail, listingTitle, endDate string) error
	SendOverdueNotification(ctx context.Context, renterEmail, listingTitle string, daysPastDue int, penaltyCents int64) error
}
