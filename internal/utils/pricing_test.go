package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestRentalDays(t *testing.T) {
	tests := []struct {
		name     string
		start    string
		end      string
		expected int
	}{
		{"Same day counts as 1", "2024-01-15", "2024-01-15", 1},
		{"Inclusive range", "2024-01-01", "2024-01-05", 5},
		{"Cross month boundary", "2024-01-25", "2024-02-05", 12},
		{"Leap day included", "2024-02-28", "2024-03-01", 3},
		{"Cross year boundary", "2023-12-30", "2024-01-02", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			days, err := RentalDays(date(tt.start), date(tt.end))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, days)
		})
	}

	t.Run("End before start", func(t *testing.T) {
		_, err := RentalDays(date("2024-01-20"), date("2024-01-15"))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "end date must be >= start date")
	})
}

func TestQuoteRentalCost(t *testing.T) {
	t.Run("Rate 500/day, deposit 1000, 5 days", func(t *testing.T) {
		// 2024-01-01..2024-01-05 inclusive = 5 days.
		quote, err := QuoteRentalCost(50000, date("2024-01-01"), date("2024-01-05"), 100000, 0)
		require.NoError(t, err)
		assert.Equal(t, 5, quote.DurationDays)
		assert.Equal(t, int64(250000), quote.RentCents)
		assert.Equal(t, int64(25000), quote.PlatformFeeCents)
		assert.Equal(t, int64(0), quote.DeliveryFeeCents)
		assert.Equal(t, int64(100000), quote.DepositCents)
		assert.Equal(t, int64(375000), quote.TotalCents)
	})

	t.Run("Delivery fee included in total", func(t *testing.T) {
		quote, err := QuoteRentalCost(50000, date("2024-01-01"), date("2024-01-05"), 100000, 9900)
		require.NoError(t, err)
		assert.Equal(t, int64(384900), quote.TotalCents)
	})

	t.Run("Same-day booking charges 1 day", func(t *testing.T) {
		quote, err := QuoteRentalCost(50000, date("2024-01-15"), date("2024-01-15"), 0, 0)
		require.NoError(t, err)
		assert.Equal(t, 1, quote.DurationDays)
		assert.Equal(t, int64(50000), quote.RentCents)
		assert.Equal(t, int64(5000), quote.PlatformFeeCents)
	})

	t.Run("Platform fee rounds half up", func(t *testing.T) {
		// rent = 3 * 105 = 315 cents, 10% = 31.5 cents -> 32
		quote, err := QuoteRentalCost(105, date("2024-01-01"), date("2024-01-03"), 0, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(315), quote.RentCents)
		assert.Equal(t, int64(32), quote.PlatformFeeCents)
	})

	t.Run("Idempotent for identical inputs", func(t *testing.T) {
		first, err := QuoteRentalCost(77700, date("2024-03-02"), date("2024-03-19"), 50000, 2500)
		require.NoError(t, err)
		second, err := QuoteRentalCost(77700, date("2024-03-02"), date("2024-03-19"), 50000, 2500)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("Rejects non-positive rate", func(t *testing.T) {
		_, err := QuoteRentalCost(0, date("2024-01-01"), date("2024-01-05"), 0, 0)
		assert.Error(t, err)
	})

	t.Run("Rejects inverted range", func(t *testing.T) {
		_, err := QuoteRentalCost(50000, date("2024-01-05"), date("2024-01-01"), 0, 0)
		assert.Error(t, err)
	})
}

func TestEarlyReturnRefund(t *testing.T) {
	t.Run("Return on day 3 of 5", func(t *testing.T) {
		// Rate 500, deposit 1000, booked Jan 1..Jan 5, returned Jan 3:
		// 2 days used, 3 remaining.
		b, err := EarlyReturnRefund(50000, 100000, date("2024-01-01"), date("2024-01-05"), date("2024-01-03"))
		require.NoError(t, err)
		assert.Equal(t, 5, b.TotalRentalDays)
		assert.Equal(t, 2, b.DaysUsed)
		assert.Equal(t, 3, b.DaysRemaining)
		assert.Equal(t, int64(100000), b.ChargeForDaysUsedCents)
		assert.Equal(t, int64(75000), b.RefundForUnusedDaysCents) // 500*3*0.5
		assert.Equal(t, int64(100000), b.DepositReturnCents)
		assert.Equal(t, int64(175000), b.TotalRefundCents)
	})

	t.Run("Partial day counts as used", func(t *testing.T) {
		asOf := date("2024-01-03").Add(14 * time.Hour)
		b, err := EarlyReturnRefund(50000, 100000, date("2024-01-01"), date("2024-01-05"), asOf)
		require.NoError(t, err)
		assert.Equal(t, 3, b.DaysUsed)
		assert.Equal(t, 2, b.DaysRemaining)
	})

	t.Run("AsOf past end date yields zero-refund breakdown", func(t *testing.T) {
		b, err := EarlyReturnRefund(50000, 100000, date("2024-01-01"), date("2024-01-05"), date("2024-01-09"))
		require.NoError(t, err)
		assert.Equal(t, 5, b.DaysUsed)
		assert.Equal(t, 0, b.DaysRemaining)
		assert.Equal(t, int64(0), b.RefundForUnusedDaysCents)
		assert.Equal(t, int64(100000), b.TotalRefundCents) // deposit still returned
	})

	t.Run("AsOf before start clamps to zero days used", func(t *testing.T) {
		b, err := EarlyReturnRefund(50000, 100000, date("2024-01-10"), date("2024-01-14"), date("2024-01-08"))
		require.NoError(t, err)
		assert.Equal(t, 0, b.DaysUsed)
		assert.Equal(t, 5, b.DaysRemaining)
	})

	t.Run("Refund for unused days rounds half up", func(t *testing.T) {
		// 101 * 3 = 303, half = 151.5 -> 152
		b, err := EarlyReturnRefund(101, 0, date("2024-01-01"), date("2024-01-05"), date("2024-01-03"))
		require.NoError(t, err)
		assert.Equal(t, 3, b.DaysRemaining)
		assert.Equal(t, int64(152), b.RefundForUnusedDaysCents)
	})

	t.Run("Refund never exceeds half the full-term rent", func(t *testing.T) {
		starts := []string{"2024-01-01", "2024-02-10", "2024-06-30"}
		for _, s := range starts {
			start := date(s)
			end := start.AddDate(0, 0, 9) // 10 rental days
			for used := 0; used <= 12; used++ {
				asOf := start.AddDate(0, 0, used)
				b, err := EarlyReturnRefund(50000, 100000, start, end, asOf)
				require.NoError(t, err)
				assert.GreaterOrEqual(t, b.RefundForUnusedDaysCents, int64(0))
				assert.LessOrEqual(t, b.RefundForUnusedDaysCents, int64(50000*10/2))
				assert.Equal(t, b.RefundForUnusedDaysCents+b.DepositReturnCents, b.TotalRefundCents)
			}
		}
	})
}

func TestLatePickupPenalty(t *testing.T) {
	tests := []struct {
		name            string
		end             string
		asOf            string
		expectedDays    int
		expectedPenalty int64
	}{
		{"On end date", "2024-01-05", "2024-01-05", 0, 0},
		{"Within 1-day grace", "2024-01-05", "2024-01-06", 0, 0},
		{"3 days after end", "2024-01-05", "2024-01-08", 2, 200000},
		{"A week late", "2024-01-05", "2024-01-13", 7, 700000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			days, penalty := LatePickupPenalty(50000, date(tt.end), date(tt.asOf))
			assert.Equal(t, tt.expectedDays, days)
			assert.Equal(t, tt.expectedPenalty, penalty)
		})
	}

	t.Run("Partial overdue day does not charge", func(t *testing.T) {
		// 12 hours past the grace boundary: floor semantics, no full day yet.
		asOf := date("2024-01-06").Add(12 * time.Hour)
		days, penalty := LatePickupPenalty(50000, date("2024-01-05"), asOf)
		assert.Equal(t, 0, days)
		assert.Equal(t, int64(0), penalty)
	})
}
