package utils

import (
	"fmt"
	"time"
)

// PlatformFeeBps is the platform commission in basis points (10%).
const PlatformFeeBps = 1000

// RentalQuote provides the detailed cost breakdown for a booking.
// All amounts are integer cents.
type RentalQuote struct {
	DurationDays     int
	RentCents        int64
	PlatformFeeCents int64
	DeliveryFeeCents int64
	DepositCents     int64
	TotalCents       int64
}

// RefundBreakdown provides the early-return refund breakdown.
type RefundBreakdown struct {
	TotalRentalDays          int
	DaysUsed                 int
	DaysRemaining            int
	DailyRateCents           int64
	ChargeForDaysUsedCents   int64
	RefundForUnusedDaysCents int64
	DepositReturnCents       int64
	TotalRefundCents         int64
}

// RentalDays returns the inclusive calendar-day count of a booking
// range. A same-day booking counts as 1 day.
func RentalDays(startDate, endDate time.Time) (int, error) {
	start := truncateToDay(startDate)
	end := truncateToDay(endDate)
	if end.Before(start) {
		return 0, fmt.Errorf("end date must be >= start date")
	}
	return int(end.Sub(start).Hours()/24) + 1, nil
}

// QuoteRentalCost turns a daily rate and an inclusive date range into
// the locked price of a booking. Pure and deterministic: identical
// inputs always yield an identical quote, so a booking's total never
// drifts even if the listing's rate changes later.
func QuoteRentalCost(dailyRateCents int64, startDate, endDate time.Time, depositCents, deliveryFeeCents int64) (RentalQuote, error) {
	if dailyRateCents <= 0 {
		return RentalQuote{}, fmt.Errorf("daily rate must be positive")
	}
	if depositCents < 0 || deliveryFeeCents < 0 {
		return RentalQuote{}, fmt.Errorf("deposit and delivery fee must not be negative")
	}
	days, err := RentalDays(startDate, endDate)
	if err != nil {
		return RentalQuote{}, err
	}

	rent := dailyRateCents * int64(days)
	fee := roundHalfUp(rent*PlatformFeeBps, 10000)

	return RentalQuote{
		DurationDays:     days,
		RentCents:        rent,
		PlatformFeeCents: fee,
		DeliveryFeeCents: deliveryFeeCents,
		DepositCents:     depositCents,
		TotalCents:       rent + fee + deliveryFeeCents + depositCents,
	}, nil
}

// EarlyReturnRefund computes what the renter gets back when returning
// before the end of term: 50% of the rate for each unused day (the
// other half is retained as the early-termination charge) plus the
// deposit in full. Damage claims are a dispute-flow concern, not a
// calculator concern. When asOf is at or past the end date the
// breakdown is still valid, with zero remaining days.
func EarlyReturnRefund(dailyRateCents, depositCents int64, startDate, endDate, asOf time.Time) (RefundBreakdown, error) {
	if dailyRateCents <= 0 {
		return RefundBreakdown{}, fmt.Errorf("daily rate must be positive")
	}
	if depositCents < 0 {
		return RefundBreakdown{}, fmt.Errorf("deposit must not be negative")
	}
	total, err := RentalDays(startDate, endDate)
	if err != nil {
		return RefundBreakdown{}, err
	}

	used := ceilDays(truncateToDay(startDate), asOf)
	if used < 0 {
		used = 0
	}
	if used > total {
		used = total
	}
	remaining := total - used

	refundUnused := roundHalfUp(dailyRateCents*int64(remaining), 2)

	return RefundBreakdown{
		TotalRentalDays:          total,
		DaysUsed:                 used,
		DaysRemaining:            remaining,
		DailyRateCents:           dailyRateCents,
		ChargeForDaysUsedCents:   dailyRateCents * int64(used),
		RefundForUnusedDaysCents: refundUnused,
		DepositReturnCents:       depositCents,
		TotalRefundCents:         refundUnused + depositCents,
	}, nil
}

// LatePickupPenalty charges the renter double the daily rate for each
// full day beyond a 1-day grace period past the end date. It is an
// additive charge, independent of EarlyReturnRefund: the two answer
// different questions and are never netted in one transaction.
func LatePickupPenalty(dailyRateCents int64, endDate, asOf time.Time) (daysPastDue int, penaltyCents int64) {
	due := truncateToDay(endDate).Add(24 * time.Hour)
	days := int(asOf.Sub(due).Hours() / 24)
	if days <= 0 {
		return 0, 0
	}
	return days, int64(days) * dailyRateCents * 2
}

// roundHalfUp divides num by den rounding half away from zero toward
// positive infinity. Amounts here are never negative.
func roundHalfUp(num, den int64) int64 {
	return (num + den/2) / den
}

// ceilDays counts elapsed days from start to asOf, any partial day
// counting as a full one.
func ceilDays(start, asOf time.Time) int {
	d := asOf.Sub(start)
	if d <= 0 {
		return 0
	}
	days := int(d / (24 * time.Hour))
	if d%(24*time.Hour) > 0 {
		days++
	}
	return days
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
