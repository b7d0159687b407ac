package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"rentloop-backend/internal/cache"
	"rentloop-backend/internal/domain"
	"rentloop-backend/internal/logger"
)

// transitionDelivery moves a job one step along the forward path,
// stamping the phase timestamp and performing a compare-and-swap write
// against the status the job was read with.
func (o *orchestrator) transitionDelivery(ctx context.Context, job *domain.DeliveryJob, target domain.DeliveryStatus) error {
	if !job.Status.CanTransitionTo(target) {
		return domain.NewInvalidTransition(job.Status.String(), target.String())
	}
	expected := job.Status
	job.Status = target
	if ts := job.PhaseTimestamp(target); ts != nil && *ts == nil {
		now := time.Now()
		*ts = &now
	}
	return o.deliveryRepo.UpdateStatus(ctx, job, expected)
}

// requireAssignedAgent loads the job and checks that the actor is the
// delivery agent assigned to it.
func (o *orchestrator) requireAssignedAgent(ctx context.Context, actor domain.Actor, deliveryID uuid.UUID) (*domain.DeliveryJob, error) {
	job, err := o.deliveryRepo.GetByID(ctx, deliveryID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAgent() || job.AgentID == nil || *job.AgentID != actor.ID {
		return nil, domain.NewForbidden("only the assigned agent may update this delivery")
	}
	return job, nil
}

func (o *orchestrator) AssignAgent(ctx context.Context, actor domain.Actor, deliveryID, agentID uuid.UUID) (*domain.DeliveryJob, error) {
	if !actor.IsAdmin() {
		return nil, domain.NewForbidden("only an admin may assign an agent")
	}
	job, err := o.deliveryRepo.GetByID(ctx, deliveryID)
	if err != nil {
		return nil, err
	}
	if job.Status != domain.DeliveryStatusAssigned {
		return nil, domain.NewInvalidState("agent can only be assigned before pickup starts",
			job.Status.String(), job.Status.String())
	}
	agent, err := o.userRepo.GetByID(ctx, agentID)
	if err != nil {
		return nil, err
	}
	if agent.Role != domain.RoleAgent {
		return nil, domain.NewValidationError("user is not a delivery agent")
	}

	if err := o.deliveryRepo.AssignAgent(ctx, job.ID, agentID); err != nil {
		return nil, err
	}
	job.AgentID = &agentID

	o.notifier.Notify(ctx, agentID, "DELIVERY_ASSIGNED", "New delivery job",
		"You have been assigned a delivery job", job.ID)
	return job, nil
}

func (o *orchestrator) StartPickup(ctx context.Context, actor domain.Actor, deliveryID uuid.UUID) (*domain.DeliveryJob, error) {
	job, err := o.requireAssignedAgent(ctx, actor, deliveryID)
	if err != nil {
		return nil, err
	}
	if err := o.transitionDelivery(ctx, job, domain.DeliveryStatusPickupStarted); err != nil {
		return nil, err
	}
	return job, nil
}

func (o *orchestrator) MarkPickedUp(ctx context.Context, actor domain.Actor, deliveryID uuid.UUID, evidence domain.Evidence) (*domain.DeliveryJob, error) {
	job, err := o.requireAssignedAgent(ctx, actor, deliveryID)
	if err != nil {
		return nil, err
	}
	if !evidence.Complete() {
		return nil, domain.NewMissingEvidence("pickup requires both a photo and a video")
	}
	job.PickupEvidence = evidence
	if err := o.transitionDelivery(ctx, job, domain.DeliveryStatusPicked); err != nil {
		return nil, err
	}
	return job, nil
}

func (o *orchestrator) MarkOutForDelivery(ctx context.Context, actor domain.Actor, deliveryID uuid.UUID) (*domain.DeliveryJob, error) {
	job, err := o.requireAssignedAgent(ctx, actor, deliveryID)
	if err != nil {
		return nil, err
	}
	if err := o.transitionDelivery(ctx, job, domain.DeliveryStatusOutForDelivery); err != nil {
		return nil, err
	}
	return job, nil
}

// MarkDelivered records the handover to the renter and activates the
// booking. The two machines are coupled here: the booking must still be
// ACCEPTED, anything else is an invariant violation.
func (o *orchestrator) MarkDelivered(ctx context.Context, actor domain.Actor, deliveryID uuid.UUID, req DeliveredRequest) (*domain.DeliveryJob, error) {
	job, err := o.requireAssignedAgent(ctx, actor, deliveryID)
	if err != nil {
		return nil, err
	}
	if !req.Evidence.Complete() {
		return nil, domain.NewMissingEvidence("delivery requires both a photo and a video")
	}

	booking, err := o.bookingRepo.GetByID(ctx, job.BookingID)
	if err != nil {
		return nil, err
	}
	if booking.PaymentMethod == domain.PaymentMethodCashOnDelivery {
		if req.AmountCollectedCents == nil {
			return nil, domain.NewMissingEvidence("cash-on-delivery requires the collected amount")
		}
		if *req.AmountCollectedCents <= 0 {
			return nil, domain.NewValidationError("collected amount must be positive")
		}
	}
	if booking.Status != domain.BookingStatusAccepted {
		logger.Error("Invariant violation: delivery reached DELIVERED but booking is not ACCEPTED",
			"booking_id", booking.ID, "delivery_id", job.ID, "booking_status", booking.Status)
		return nil, domain.NewInvalidState("booking is not in a deliverable state",
			booking.Status.String(), domain.BookingStatusActive.String())
	}

	job.DeliveryEvidence = req.Evidence
	if booking.PaymentMethod == domain.PaymentMethodCashOnDelivery {
		job.AmountCollectedCents = req.AmountCollectedCents
	}
	if err := o.transitionDelivery(ctx, job, domain.DeliveryStatusDelivered); err != nil {
		return nil, err
	}

	booking.Status = domain.BookingStatusActive
	if err := o.bookingRepo.UpdateStatus(ctx, booking, domain.BookingStatusAccepted); err != nil {
		return nil, err
	}

	o.notifier.Notify(ctx, booking.RenterID, "ITEM_DELIVERED", "Item delivered",
		"Your rental has been delivered", booking.ID)
	o.notifier.Notify(ctx, booking.LenderID, "ITEM_DELIVERED", "Item delivered",
		"Your item has been delivered to the renter", booking.ID)
	if renter, err := o.userRepo.GetByID(ctx, booking.RenterID); err == nil {
		if listing, err := o.listingRepo.GetByID(ctx, booking.ListingID); err == nil {
			if err := o.emailSvc.SendDeliveredNotification(ctx, renter.Email, listing.Title); err != nil {
				logger.Warn("Failed to send delivered email", "booking_id", booking.ID, "error", err)
			}
		}
	}

	return job, nil
}

func (o *orchestrator) StartReturnPickup(ctx context.Context, actor domain.Actor, deliveryID uuid.UUID) (*domain.DeliveryJob, error) {
	job, err := o.requireAssignedAgent(ctx, actor, deliveryID)
	if err != nil {
		return nil, err
	}
	if err := o.transitionDelivery(ctx, job, domain.DeliveryStatusReturnStarted); err != nil {
		return nil, err
	}
	return job, nil
}

// MarkReturned closes the return leg and completes the booking. The
// booking is RETURN_IN_PROGRESS after an early return, or still ACTIVE
// when the rental ran full term and the agent started the return pickup
// directly; anything else is an invariant violation.
func (o *orchestrator) MarkReturned(ctx context.Context, actor domain.Actor, deliveryID uuid.UUID, evidence domain.Evidence) (*domain.DeliveryJob, error) {
	job, err := o.requireAssignedAgent(ctx, actor, deliveryID)
	if err != nil {
		return nil, err
	}
	if !evidence.Complete() {
		return nil, domain.NewMissingEvidence("return requires both a photo and a video")
	}

	booking, err := o.bookingRepo.GetByID(ctx, job.BookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status != domain.BookingStatusActive && booking.Status != domain.BookingStatusReturnInProgress {
		logger.Error("Invariant violation: delivery reached RETURNED but booking cannot complete",
			"booking_id", booking.ID, "delivery_id", job.ID, "booking_status", booking.Status)
		return nil, domain.NewInvalidState("booking is not in a returnable state",
			booking.Status.String(), domain.BookingStatusCompleted.String())
	}

	job.ReturnEvidence = evidence
	if err := o.transitionDelivery(ctx, job, domain.DeliveryStatusReturned); err != nil {
		return nil, err
	}

	now := time.Now()
	expected := booking.Status
	booking.Status = domain.BookingStatusCompleted
	booking.CompletedAt = &now
	// TODO: settle the deposit payout here once the payment integration
	// exposes a capture/release API.
	if err := o.bookingRepo.UpdateStatus(ctx, booking, expected); err != nil {
		return nil, err
	}

	o.notifier.Notify(ctx, booking.LenderID, "ITEM_RETURNED", "Item returned",
		"Your item has been returned", booking.ID)
	o.notifier.Notify(ctx, booking.RenterID, "BOOKING_COMPLETED", "Booking completed",
		"Your booking is complete", booking.ID)
	if lender, err := o.userRepo.GetByID(ctx, booking.LenderID); err == nil {
		if listing, err := o.listingRepo.GetByID(ctx, booking.ListingID); err == nil {
			if err := o.emailSvc.SendReturnedNotification(ctx, lender.Email, listing.Title); err != nil {
				logger.Warn("Failed to send returned email", "booking_id", booking.ID, "error", err)
			}
		}
	}

	return job, nil
}

// UpdateLocation is the GPS side channel. It writes through to Redis
// for live reads and persists to the disjoint location columns so it
// never contends with a status transition.
func (o *orchestrator) UpdateLocation(ctx context.Context, actor domain.Actor, deliveryID uuid.UUID, point domain.GeoPoint) error {
	job, err := o.requireAssignedAgent(ctx, actor, deliveryID)
	if err != nil {
		return err
	}
	if job.Status.IsTerminal() {
		return domain.NewInvalidState("delivery is already complete",
			job.Status.String(), job.Status.String())
	}
	if point.Latitude < -90 || point.Latitude > 90 || point.Longitude < -180 || point.Longitude > 180 {
		return domain.NewValidationError("coordinates out of range")
	}

	now := time.Now()
	if o.locations != nil {
		if err := o.locations.SetLocation(ctx, job.ID, point, now); err != nil {
			logger.Warn("Failed to cache delivery location", "delivery_id", job.ID, "error", err)
		}
	}
	return o.deliveryRepo.UpdateLocation(ctx, job.ID, point, now)
}

func (o *orchestrator) GetDelivery(ctx context.Context, actor domain.Actor, deliveryID uuid.UUID) (*domain.DeliveryJob, error) {
	job, err := o.deliveryRepo.GetByID(ctx, deliveryID)
	if err != nil {
		return nil, err
	}
	if err := o.authorizeDeliveryRead(ctx, actor, job); err != nil {
		return nil, err
	}
	return job, nil
}

// GetDeliveryLocation reads the live fix Redis-first, falling back to
// the persisted columns when the cache entry has expired.
func (o *orchestrator) GetDeliveryLocation(ctx context.Context, actor domain.Actor, deliveryID uuid.UUID) (*cache.LocationSnapshot, error) {
	job, err := o.deliveryRepo.GetByID(ctx, deliveryID)
	if err != nil {
		return nil, err
	}
	if err := o.authorizeDeliveryRead(ctx, actor, job); err != nil {
		return nil, err
	}

	if o.locations != nil {
		snap, err := o.locations.GetLocation(ctx, job.ID)
		if err != nil {
			logger.Warn("Failed to read cached delivery location", "delivery_id", job.ID, "error", err)
		}
		if snap != nil {
			return snap, nil
		}
	}
	if job.CurrentLatitude == nil || job.CurrentLongitude == nil || job.LastLocationUpdate == nil {
		return nil, nil
	}
	return &cache.LocationSnapshot{
		GeoPoint: domain.GeoPoint{
			Latitude:  *job.CurrentLatitude,
			Longitude: *job.CurrentLongitude,
		},
		UpdatedAt: *job.LastLocationUpdate,
	}, nil
}

func (o *orchestrator) ListAgentJobs(ctx context.Context, actor domain.Actor, status string, page, pageSize int32) ([]domain.DeliveryJob, int32, error) {
	if !actor.IsAgent() {
		return nil, 0, domain.NewForbidden("only a delivery agent may list assigned jobs")
	}
	return o.deliveryRepo.ListByAgent(ctx, actor.ID, status, page, pageSize)
}

func (o *orchestrator) authorizeDeliveryRead(ctx context.Context, actor domain.Actor, job *domain.DeliveryJob) error {
	if actor.IsAdmin() {
		return nil
	}
	if job.AgentID != nil && *job.AgentID == actor.ID {
		return nil
	}
	booking, err := o.bookingRepo.GetByID(ctx, job.BookingID)
	if err != nil {
		return err
	}
	if !booking.IsParty(actor.ID) {
		return domain.NewForbidden("not a party to this delivery")
	}
	return nil
}
