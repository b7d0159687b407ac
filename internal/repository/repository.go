package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"rentloop-backend/internal/domain"
)

type ListingRepository interface {
	Create(ctx context.Context, listing *domain.Listing) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Listing, error)
	Update(ctx context.Context, listing *domain.Listing) error
}

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	// FindOverlapping returns bookings for the listing whose inclusive
	// date range intersects [start, end] and whose status is one of the
	// given blocking statuses.
	FindOverlapping(ctx context.Context, listingID uuid.UUID, start, end time.Time, statuses []domain.BookingStatus) ([]domain.Booking, error)
	// UpdateStatus performs a compare-and-swap write: the row is only
	// updated when its status still equals expected. Returns a Conflict
	// domain error when the swap loses the race.
	UpdateStatus(ctx context.Context, booking *domain.Booking, expected domain.BookingStatus) error
	ListByRenter(ctx context.Context, renterID uuid.UUID, status string, page, pageSize int32) ([]domain.Booking, int32, error)
	ListByLender(ctx context.Context, lenderID uuid.UUID, status string, page, pageSize int32) ([]domain.Booking, int32, error)
	// ListEndingOn returns blocking-status bookings whose end date falls
	// on the given day (reminder jobs).
	ListEndingOn(ctx context.Context, day time.Time) ([]domain.Booking, error)
	// ListOverdue returns ACTIVE bookings whose end date is before the
	// given day (reminder jobs).
	ListOverdue(ctx context.Context, day time.Time) ([]domain.Booking, error)
}

type DeliveryRepository interface {
	Create(ctx context.Context, job *domain.DeliveryJob) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.DeliveryJob, error)
	GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*domain.DeliveryJob, error)
	// UpdateStatus is a compare-and-swap on the current status, writing
	// the status, evidence, collected amount and phase timestamps.
	UpdateStatus(ctx context.Context, job *domain.DeliveryJob, expected domain.DeliveryStatus) error
	AssignAgent(ctx context.Context, id, agentID uuid.UUID) error
	// UpdateLocation writes only the live-location columns,
	// last-writer-wins, so it never contends with status transitions.
	UpdateLocation(ctx context.Context, id uuid.UUID, point domain.GeoPoint, at time.Time) error
	ListByAgent(ctx context.Context, agentID uuid.UUID, status string, page, pageSize int32) ([]domain.DeliveryJob, int32, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	List(ctx context.Context, userID uuid.UUID, limit, offset int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id, userID uuid.UUID) error
}
