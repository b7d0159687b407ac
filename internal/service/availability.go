package service

import (
	"context"
	"time"

	"rentloop-backend/internal/domain"
	"rentloop-backend/internal/repository"
)

// availabilityChecker answers whether a listing can be booked for a
// candidate date range. The read-then-write is not atomic by itself;
// the store's exclusion constraint backs it against concurrent
// overlapping requests (see BookingRepository.Create).
type availabilityChecker struct {
	bookingRepo repository.BookingRepository
}

func newAvailabilityChecker(bookingRepo repository.BookingRepository) *availabilityChecker {
	return &availabilityChecker{bookingRepo: bookingRepo}
}

// CheckListing validates the listing's availability flags.
func (c *availabilityChecker) CheckListing(listing *domain.Listing) error {
	if !listing.IsAvailable {
		return domain.NewUnavailable("listing is not available for booking")
	}
	if listing.IsPaused {
		return domain.NewUnavailable("listing is paused by its owner")
	}
	return nil
}

// CheckDates rejects the candidate range when any booking in a
// blocking status intersects it. Ranges are inclusive on both ends: a
// booking ending the day another starts is deliberately treated as a
// conflict.
func (c *availabilityChecker) CheckDates(ctx context.Context, listing *domain.Listing, start, end time.Time) error {
	overlapping, err := c.bookingRepo.FindOverlapping(ctx, listing.ID, start, end, domain.BlockingBookingStatuses)
	if err != nil {
		return err
	}
	if len(overlapping) > 0 {
		return domain.NewConflict("listing already booked for an overlapping date range")
	}
	return nil
}
