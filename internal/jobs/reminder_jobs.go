package jobs

import (
	"context"
	"time"

	"rentloop-backend/internal/logger"
	"rentloop-backend/internal/utils"
)

// SendReturnReminders nudges renters whose rental ends tomorrow to
// start the return and avoid a late charge.
func (jr *JobRunner) SendReturnReminders() {
	jr.runWithRecovery("SendReturnReminders", func() {
		ctx := context.Background()
		tomorrow := time.Now().AddDate(0, 0, 1)

		bookings, err := jr.store.Bookings().ListEndingOn(ctx, tomorrow)
		if err != nil {
			logger.Error("Failed to list bookings ending tomorrow", "error", err)
			return
		}

		count := 0
		for i := range bookings {
			booking := &bookings[i]
			listing, err := jr.store.Listings().GetByID(ctx, booking.ListingID)
			if err != nil {
				logger.Error("Failed to load listing for reminder", "booking_id", booking.ID, "error", err)
				continue
			}
			renter, err := jr.store.Users().GetByID(ctx, booking.RenterID)
			if err != nil {
				logger.Error("Failed to load renter for reminder", "booking_id", booking.ID, "error", err)
				continue
			}

			endDate := booking.EndDate.Format("2006-01-02")
			jr.notifier.Notify(ctx, booking.RenterID, "RETURN_REMINDER", "Return due tomorrow",
				"Your rental of "+listing.Title+" ends on "+endDate, booking.ID)
			if err := jr.email.SendReturnReminderNotification(ctx, renter.Email, listing.Title, endDate); err != nil {
				logger.Error("Failed to send return reminder email", "booking_id", booking.ID, "error", err)
				continue
			}
			count++
		}
		logger.Info("Sent return reminders", "count", count)
	})
}

// SendOverdueReminders notifies renters of active bookings past their
// end date, quoting the late charge accrued so far. The reminder only
// informs; the charge itself is settled at return time.
func (jr *JobRunner) SendOverdueReminders() {
	jr.runWithRecovery("SendOverdueReminders", func() {
		ctx := context.Background()
		now := time.Now()

		bookings, err := jr.store.Bookings().ListOverdue(ctx, now)
		if err != nil {
			logger.Error("Failed to list overdue bookings", "error", err)
			return
		}

		count := 0
		for i := range bookings {
			booking := &bookings[i]
			daysPastDue, penaltyCents := utils.LatePickupPenalty(booking.DailyRateCents, booking.EndDate, now)
			if daysPastDue == 0 {
				// Still inside the one-day grace period.
				continue
			}

			listing, err := jr.store.Listings().GetByID(ctx, booking.ListingID)
			if err != nil {
				logger.Error("Failed to load listing for overdue reminder", "booking_id", booking.ID, "error", err)
				continue
			}
			renter, err := jr.store.Users().GetByID(ctx, booking.RenterID)
			if err != nil {
				logger.Error("Failed to load renter for overdue reminder", "booking_id", booking.ID, "error", err)
				continue
			}

			jr.notifier.Notify(ctx, booking.RenterID, "RENTAL_OVERDUE", "Rental overdue",
				"Your rental of "+listing.Title+" is overdue", booking.ID)
			if err := jr.email.SendOverdueNotification(ctx, renter.Email, listing.Title, daysPastDue, penaltyCents); err != nil {
				logger.Error("Failed to send overdue email", "booking_id", booking.ID, "error", err)
				continue
			}
			count++
		}
		logger.Info("Sent overdue reminders", "count", count)
	})
}
