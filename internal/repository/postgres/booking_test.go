package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"rentloop-backend/internal/domain"
	"rentloop-backend/internal/repository/postgres"
)

var bookingRows = []string{
	"id", "listing_id", "renter_id", "lender_id", "start_date", "end_date",
	"daily_rate_cents", "rent_cents", "deposit_cents", "delivery_fee_cents",
	"platform_fee_cents", "total_cents", "payment_method", "status",
	"cancel_reason", "early_return_refund_cents", "deposit_refund_cents",
	"requested_at", "accepted_at", "cancelled_at", "return_initiated_at",
	"completed_at", "updated_on",
}

func TestBookingRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewBookingRepository(db)
	ctx := context.Background()

	booking := &domain.Booking{
		ListingID:      uuid.New(),
		RenterID:       uuid.New(),
		LenderID:       uuid.New(),
		StartDate:      time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC),
		DailyRateCents: 50000,
		RentCents:      250000,
		Status:         domain.BookingStatusRequested,
	}

	t.Run("Success assigns an id", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO bookings").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Create(ctx, booking)
		assert.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, booking.ID)
	})

	t.Run("Exclusion constraint maps to a conflict", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO bookings").
			WillReturnError(&pq.Error{Code: "23P01", Constraint: "bookings_no_overlap"})

		err := repo.Create(ctx, booking)
		assert.True(t, domain.IsKind(err, domain.KindConflict))
	})
}

func TestBookingRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewBookingRepository(db)
	ctx := context.Background()
	id := uuid.New()

	t.Run("Success", func(t *testing.T) {
		now := time.Now()
		rows := sqlmock.NewRows(bookingRows).AddRow(
			id, uuid.New(), uuid.New(), uuid.New(),
			time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC),
			int64(50000), int64(250000), int64(100000), int64(0),
			int64(25000), int64(375000), "CASH_ON_DELIVERY", "REQUESTED",
			"", nil, nil,
			now, nil, nil, nil, nil, now,
		)
		mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id").
			WithArgs(id).
			WillReturnRows(rows)

		booking, err := repo.GetByID(ctx, id)
		assert.NoError(t, err)
		assert.Equal(t, id, booking.ID)
		assert.Equal(t, domain.BookingStatusRequested, booking.Status)
		assert.Equal(t, int64(50000), booking.DailyRateCents)
		assert.Nil(t, booking.EarlyReturnRefundCents)
	})

	t.Run("Missing row maps to not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id").
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows(bookingRows))

		booking, err := repo.GetByID(ctx, id)
		assert.Nil(t, booking)
		assert.True(t, domain.IsKind(err, domain.KindNotFound))
	})
}

func TestBookingRepository_UpdateStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewBookingRepository(db)
	ctx := context.Background()

	booking := &domain.Booking{
		ID:     uuid.New(),
		Status: domain.BookingStatusAccepted,
	}

	t.Run("Swap succeeds when the status still matches", func(t *testing.T) {
		mock.ExpectExec("UPDATE bookings SET status").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpdateStatus(ctx, booking, domain.BookingStatusRequested)
		assert.NoError(t, err)
	})

	t.Run("Lost race maps to a conflict", func(t *testing.T) {
		mock.ExpectExec("UPDATE bookings SET status").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateStatus(ctx, booking, domain.BookingStatusRequested)
		assert.True(t, domain.IsKind(err, domain.KindConflict))
	})
}

func TestBookingRepository_ListByRenter(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewBookingRepository(db)
	ctx := context.Background()
	renterID := uuid.New()

	t.Run("Paginates and returns the total count", func(t *testing.T) {
		mock.ExpectQuery("SELECT count").
			WithArgs(renterID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		now := time.Now()
		rows := sqlmock.NewRows(bookingRows).AddRow(
			uuid.New(), uuid.New(), renterID, uuid.New(),
			time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC),
			int64(50000), int64(250000), int64(100000), int64(0),
			int64(25000), int64(375000), "ONLINE", "ACCEPTED",
			"", nil, nil,
			now, &now, nil, nil, nil, now,
		)
		mock.ExpectQuery("SELECT (.+) FROM bookings WHERE renter_id").
			WithArgs(renterID, int32(20), int32(0)).
			WillReturnRows(rows)

		bookings, total, err := repo.ListByRenter(ctx, renterID, "", 1, 20)
		assert.NoError(t, err)
		assert.Len(t, bookings, 1)
		assert.Equal(t, int32(1), total)
	})
}
