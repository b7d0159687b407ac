package service

import (
	"rentloop-backend/internal/repository"
)

// PricingConfig carries the operator-tunable pricing knobs. The
// platform commission and refund/penalty formulas are fixed; only the
// delivery fee is configuration.
type PricingConfig struct {
	DeliveryFeeCents int64
}

type orchestrator struct {
	bookingRepo  repository.BookingRepository
	deliveryRepo repository.DeliveryRepository
	listingRepo  repository.ListingRepository
	userRepo     repository.UserRepository
	availability *availabilityChecker
	locations    LocationStore
	notifier     Notifier
	emailSvc     EmailService
	pricing      PricingConfig
}

// NewOrchestrator wires the booking/delivery coordinator. locations
// may be nil when no Redis is configured; live-location reads then
// fall back to the persisted columns.
func NewOrchestrator(
	bookingRepo repository.BookingRepository,
	deliveryRepo repository.DeliveryRepository,
	listingRepo repository.ListingRepository,
	userRepo repository.UserRepository,
	locations LocationStore,
	notifier Notifier,
	emailSvc EmailService,
	pricing PricingConfig,
) Orchestrator {
	return &orchestrator{
		bookingRepo:  bookingRepo,
		deliveryRepo: deliveryRepo,
		listingRepo:  listingRepo,
		userRepo:     userRepo,
		availability: newAvailabilityChecker(bookingRepo),
		locations:    locations,
		notifier:     notifier,
		emailSvc:     emailSvc,
		pricing:      pricing,
	}
}
