package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"rentloop-backend/internal/domain"
	"rentloop-backend/internal/logger"
	"rentloop-backend/internal/utils"
)

func (o *orchestrator) CreateBooking(ctx context.Context, actor domain.Actor, req CreateBookingRequest) (*domain.Booking, error) {
	if req.ListingID == uuid.Nil {
		return nil, domain.NewValidationError("listing id is required")
	}
	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, domain.NewValidationError("start date must be yyyy-mm-dd")
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return nil, domain.NewValidationError("end date must be yyyy-mm-dd")
	}
	if end.Before(start) {
		return nil, domain.NewValidationError("end date must not be before start date")
	}
	if req.PaymentMethod != domain.PaymentMethodCashOnDelivery && req.PaymentMethod != domain.PaymentMethodOnline {
		return nil, domain.NewValidationError("unknown payment method")
	}

	listing, err := o.listingRepo.GetByID(ctx, req.ListingID)
	if err != nil {
		return nil, err
	}
	if listing.OwnerID == actor.ID {
		return nil, domain.NewSelfBooking()
	}
	if err := o.availability.CheckListing(listing); err != nil {
		return nil, err
	}
	if err := o.availability.CheckDates(ctx, listing, start, end); err != nil {
		return nil, err
	}

	quote, err := utils.QuoteRentalCost(listing.DailyRateCents, start, end, listing.DepositCents, o.pricing.DeliveryFeeCents)
	if err != nil {
		return nil, domain.NewValidationError(err.Error())
	}

	booking := &domain.Booking{
		ID:               uuid.New(),
		ListingID:        listing.ID,
		RenterID:         actor.ID,
		LenderID:         listing.OwnerID,
		StartDate:        start,
		EndDate:          end,
		DailyRateCents:   listing.DailyRateCents,
		RentCents:        quote.RentCents,
		DepositCents:     quote.DepositCents,
		DeliveryFeeCents: quote.DeliveryFeeCents,
		PlatformFeeCents: quote.PlatformFeeCents,
		TotalCents:       quote.TotalCents,
		PaymentMethod:    req.PaymentMethod,
		Status:           domain.BookingStatusRequested,
	}
	if err := o.bookingRepo.Create(ctx, booking); err != nil {
		return nil, err
	}

	o.notifier.Notify(ctx, booking.LenderID, "BOOKING_REQUESTED", "New booking request",
		"Your listing "+listing.Title+" has a new booking request", booking.ID)
	if renter, err := o.userRepo.GetByID(ctx, booking.RenterID); err == nil {
		if lender, err := o.userRepo.GetByID(ctx, booking.LenderID); err == nil {
			if err := o.emailSvc.SendBookingRequestedNotification(ctx, lender.Email, renter.Name, listing.Title); err != nil {
				logger.Warn("Failed to send booking request email", "booking_id", booking.ID, "error", err)
			}
		}
	}

	return booking, nil
}

func (o *orchestrator) AcceptBooking(ctx context.Context, actor domain.Actor, bookingID uuid.UUID) (*domain.Booking, error) {
	booking, err := o.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.LenderID != actor.ID {
		return nil, domain.NewForbidden("only the lender may accept a booking")
	}
	if booking.Status != domain.BookingStatusRequested {
		return nil, domain.NewInvalidState("booking cannot be accepted",
			booking.Status.String(), domain.BookingStatusAccepted.String())
	}

	listing, err := o.listingRepo.GetByID(ctx, booking.ListingID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	booking.Status = domain.BookingStatusAccepted
	booking.AcceptedAt = &now
	if err := o.bookingRepo.UpdateStatus(ctx, booking, domain.BookingStatusRequested); err != nil {
		return nil, err
	}

	// Exactly one delivery job per booking, created here and only here.
	// Addresses are snapshotted now and never re-derived.
	job := &domain.DeliveryJob{
		ID:              uuid.New(),
		BookingID:       booking.ID,
		Status:          domain.DeliveryStatusAssigned,
		PickupAddress:   listing.Address,
		PickupLatitude:  listing.Latitude,
		PickupLongitude: listing.Longitude,
	}
	job.DeliveryAddress = listing.Address
	job.DeliveryLatitude = listing.Latitude
	job.DeliveryLongitude = listing.Longitude
	if renter, err := o.userRepo.GetByID(ctx, booking.RenterID); err == nil && renter.HasDeliveryAddress() {
		job.DeliveryAddress = renter.DeliveryAddress
		job.DeliveryLatitude = *renter.DeliveryLatitude
		job.DeliveryLongitude = *renter.DeliveryLongitude
	}
	if err := o.deliveryRepo.Create(ctx, job); err != nil {
		return nil, err
	}

	o.notifier.Notify(ctx, booking.RenterID, "BOOKING_ACCEPTED", "Booking accepted",
		"Your booking for "+listing.Title+" was accepted", booking.ID)
	if renter, err := o.userRepo.GetByID(ctx, booking.RenterID); err == nil {
		if lender, err := o.userRepo.GetByID(ctx, booking.LenderID); err == nil {
			if err := o.emailSvc.SendBookingAcceptedNotification(ctx, renter.Email, lender.Name, listing.Title); err != nil {
				logger.Warn("Failed to send booking accepted email", "booking_id", booking.ID, "error", err)
			}
		}
	}

	return booking, nil
}

func (o *orchestrator) CancelBooking(ctx context.Context, actor domain.Actor, bookingID uuid.UUID, reason string) (*domain.Booking, error) {
	booking, err := o.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !booking.IsParty(actor.ID) {
		return nil, domain.NewForbidden("only a booking party may cancel")
	}
	if booking.Status != domain.BookingStatusRequested && booking.Status != domain.BookingStatusAccepted {
		return nil, domain.NewInvalidState("booking cannot be cancelled",
			booking.Status.String(), domain.BookingStatusCancelled.String())
	}

	expected := booking.Status
	now := time.Now()
	booking.Status = domain.BookingStatusCancelled
	booking.CancelledAt = &now
	booking.CancelReason = reason
	if err := o.bookingRepo.UpdateStatus(ctx, booking, expected); err != nil {
		return nil, err
	}

	// Refunding any captured payment belongs to the payment
	// integration; cancellation only flips state and notifies.
	counterparty := booking.LenderID
	if actor.ID == booking.LenderID {
		counterparty = booking.RenterID
	}
	o.notifier.Notify(ctx, counterparty, "BOOKING_CANCELLED", "Booking cancelled",
		"Booking cancelled: "+reason, booking.ID)
	o.sendCancellationEmail(ctx, booking, actor.ID, counterparty, reason)

	return booking, nil
}

func (o *orchestrator) sendCancellationEmail(ctx context.Context, booking *domain.Booking, byID, toID uuid.UUID, reason string) {
	listing, err := o.listingRepo.GetByID(ctx, booking.ListingID)
	if err != nil {
		return
	}
	by, err := o.userRepo.GetByID(ctx, byID)
	if err != nil {
		return
	}
	to, err := o.userRepo.GetByID(ctx, toID)
	if err != nil {
		return
	}
	if err := o.emailSvc.SendBookingCancelledNotification(ctx, to.Email, by.Name, listing.Title, reason); err != nil {
		logger.Warn("Failed to send cancellation email", "booking_id", booking.ID, "error", err)
	}
}

func (o *orchestrator) InitiateReturn(ctx context.Context, actor domain.Actor, bookingID uuid.UUID) (*domain.Booking, *utils.RefundBreakdown, error) {
	booking, err := o.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, nil, err
	}
	if booking.RenterID != actor.ID {
		return nil, nil, domain.NewForbidden("only the renter may initiate a return")
	}
	if booking.Status != domain.BookingStatusActive {
		return nil, nil, domain.NewInvalidState("return can only be initiated on an active booking",
			booking.Status.String(), domain.BookingStatusReturnInProgress.String())
	}
	if booking.ReturnInitiatedAt != nil {
		return nil, nil, domain.NewInvalidState("return already initiated",
			booking.Status.String(), domain.BookingStatusReturnInProgress.String())
	}

	now := time.Now()
	refund, err := utils.EarlyReturnRefund(booking.DailyRateCents, booking.DepositCents, booking.StartDate, booking.EndDate, now)
	if err != nil {
		return nil, nil, err
	}

	// Read the delivery job before any write so the booking update and
	// the delivery forward apply together or not at all. A job already
	// at RETURN_STARTED (the agent began the return pickup first) counts
	// as the signal being delivered.
	job, err := o.deliveryRepo.GetByBookingID(ctx, booking.ID)
	if err != nil {
		return nil, nil, err
	}
	if job.Status != domain.DeliveryStatusReturnStarted && !job.Status.CanTransitionTo(domain.DeliveryStatusReturnStarted) {
		return nil, nil, domain.NewInvalidTransition(job.Status.String(), domain.DeliveryStatusReturnStarted.String())
	}

	booking.Status = domain.BookingStatusReturnInProgress
	booking.ReturnInitiatedAt = &now
	booking.EarlyReturnRefundCents = &refund.TotalRefundCents
	if err := o.bookingRepo.UpdateStatus(ctx, booking, domain.BookingStatusActive); err != nil {
		return nil, nil, err
	}

	if job.Status != domain.DeliveryStatusReturnStarted {
		if err := o.transitionDelivery(ctx, job, domain.DeliveryStatusReturnStarted); err != nil {
			return nil, nil, err
		}
	}

	o.notifier.Notify(ctx, booking.LenderID, "RETURN_INITIATED", "Early return started",
		"The renter has initiated an early return", booking.ID)
	if renter, err := o.userRepo.GetByID(ctx, booking.RenterID); err == nil {
		if lender, err := o.userRepo.GetByID(ctx, booking.LenderID); err == nil {
			if listing, err := o.listingRepo.GetByID(ctx, booking.ListingID); err == nil {
				if err := o.emailSvc.SendReturnInitiatedNotification(ctx, lender.Email, renter.Name, listing.Title, refund.TotalRefundCents); err != nil {
					logger.Warn("Failed to send return initiated email", "booking_id", booking.ID, "error", err)
				}
			}
		}
	}

	return booking, &refund, nil
}

func (o *orchestrator) DisputeBooking(ctx context.Context, actor domain.Actor, bookingID uuid.UUID, reason string) (*domain.Booking, error) {
	booking, err := o.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !booking.IsParty(actor.ID) {
		return nil, domain.NewForbidden("only a booking party may open a dispute")
	}
	if !booking.Status.CanTransitionTo(domain.BookingStatusDisputed) {
		return nil, domain.NewInvalidState("booking cannot be disputed",
			booking.Status.String(), domain.BookingStatusDisputed.String())
	}

	expected := booking.Status
	booking.Status = domain.BookingStatusDisputed
	booking.CancelReason = reason
	if err := o.bookingRepo.UpdateStatus(ctx, booking, expected); err != nil {
		return nil, err
	}

	counterparty := booking.LenderID
	if actor.ID == booking.LenderID {
		counterparty = booking.RenterID
	}
	o.notifier.Notify(ctx, counterparty, "BOOKING_DISPUTED", "Booking disputed",
		"A dispute was opened: "+reason, booking.ID)
	return booking, nil
}

// ResolveDispute records the admin's deposit decision. The amount is
// deliberately arbitrary: dispute settlement is a human-arbitrated
// path, decoupled from the early-return refund calculator.
func (o *orchestrator) ResolveDispute(ctx context.Context, actor domain.Actor, bookingID uuid.UUID, depositRefundCents int64) (*domain.Booking, error) {
	if !actor.IsAdmin() {
		return nil, domain.NewForbidden("only an admin may resolve a dispute")
	}
	if depositRefundCents < 0 {
		return nil, domain.NewValidationError("deposit refund must not be negative")
	}
	booking, err := o.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status != domain.BookingStatusDisputed {
		return nil, domain.NewInvalidState("booking is not disputed",
			booking.Status.String(), booking.Status.String())
	}
	if depositRefundCents > booking.DepositCents {
		return nil, domain.NewValidationError("deposit refund cannot exceed the deposit")
	}

	booking.DepositRefundCents = &depositRefundCents
	if err := o.bookingRepo.UpdateStatus(ctx, booking, domain.BookingStatusDisputed); err != nil {
		return nil, err
	}

	o.notifier.Notify(ctx, booking.RenterID, "DISPUTE_RESOLVED", "Dispute resolved",
		"Your dispute was resolved by an administrator", booking.ID)
	o.notifier.Notify(ctx, booking.LenderID, "DISPUTE_RESOLVED", "Dispute resolved",
		"The dispute was resolved by an administrator", booking.ID)
	return booking, nil
}

func (o *orchestrator) GetBooking(ctx context.Context, actor domain.Actor, bookingID uuid.UUID) (*domain.Booking, error) {
	booking, err := o.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !booking.IsParty(actor.ID) && !actor.IsAdmin() {
		return nil, domain.NewForbidden("not a party to this booking")
	}
	return booking, nil
}

func (o *orchestrator) ListRentals(ctx context.Context, actor domain.Actor, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	return o.bookingRepo.ListByRenter(ctx, actor.ID, status, page, pageSize)
}

func (o *orchestrator) ListLendings(ctx context.Context, actor domain.Actor, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	return o.bookingRepo.ListByLender(ctx, actor.ID, status, page, pageSize)
}
