package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"rentloop-backend/internal/domain"
	"rentloop-backend/internal/repository/postgres"
)

func TestDeliveryRepository_UpdateStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewDeliveryRepository(db)
	ctx := context.Background()

	job := &domain.DeliveryJob{
		ID:     uuid.New(),
		Status: domain.DeliveryStatusPickupStarted,
	}

	t.Run("Success when the expected status still holds", func(t *testing.T) {
		mock.ExpectExec("UPDATE delivery_jobs SET status").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpdateStatus(ctx, job, domain.DeliveryStatusAssigned)
		assert.NoError(t, err)
	})

	t.Run("Zero rows means a concurrent writer won", func(t *testing.T) {
		mock.ExpectExec("UPDATE delivery_jobs SET status").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateStatus(ctx, job, domain.DeliveryStatusAssigned)
		assert.Error(t, err)
		assert.True(t, domain.IsKind(err, domain.KindConflict))
	})
}

func TestDeliveryRepository_UpdateLocation(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewDeliveryRepository(db)
	ctx := context.Background()

	id := uuid.New()
	point := domain.GeoPoint{Latitude: 37.7749, Longitude: -122.4194}
	at := time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC)

	t.Run("Writes only the location columns", func(t *testing.T) {
		mock.ExpectExec(`UPDATE delivery_jobs SET current_latitude=\$1, current_longitude=\$2, last_location_update=\$3 WHERE id=\$4`).
			WithArgs(point.Latitude, point.Longitude, at, id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpdateLocation(ctx, id, point, at)
		assert.NoError(t, err)
	})
}

func TestDeliveryRepository_GetByBookingID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewDeliveryRepository(db)
	ctx := context.Background()

	t.Run("No job for the booking", func(t *testing.T) {
		bookingID := uuid.New()
		mock.ExpectQuery("SELECT (.+) FROM delivery_jobs WHERE booking_id").
			WithArgs(bookingID).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		job, err := repo.GetByBookingID(ctx, bookingID)
		assert.Nil(t, job)
		assert.True(t, domain.IsKind(err, domain.KindNotFound))
	})
}
