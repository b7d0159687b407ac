package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"rentloop-backend/internal/domain"
	"rentloop-backend/internal/repository"
)

type listingRepository struct {
	db *sql.DB
}

func NewListingRepository(db *sql.DB) repository.ListingRepository {
	return &listingRepository{db: db}
}

func (r *listingRepository) Create(ctx context.Context, l *domain.Listing) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	query := `INSERT INTO listings (id, owner_id, title, daily_rate_cents, hourly_rate_cents, deposit_cents, is_available, is_paused, address, latitude, longitude, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.db.ExecContext(ctx, query, l.ID, l.OwnerID, l.Title, l.DailyRateCents, l.HourlyRateCents, l.DepositCents, l.IsAvailable, l.IsPaused, l.Address, l.Latitude, l.Longitude, time.Now(), time.Now())
	return err
}

func (r *listingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Listing, error) {
	l := &domain.Listing{}
	query := `SELECT id, owner_id, title, daily_rate_cents, hourly_rate_cents, deposit_cents, is_available, is_paused, address, latitude, longitude, created_on, updated_on FROM listings WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&l.ID, &l.OwnerID, &l.Title, &l.DailyRateCents, &l.HourlyRateCents, &l.DepositCents, &l.IsAvailable, &l.IsPaused, &l.Address, &l.Latitude, &l.Longitude, &l.CreatedOn, &l.UpdatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFound("listing", id)
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (r *listingRepository) Update(ctx context.Context, l *domain.Listing) error {
	query := `UPDATE listings SET title=$1, daily_rate_cents=$2, hourly_rate_cents=$3, deposit_cents=$4, is_available=$5, is_paused=$6, address=$7, latitude=$8, longitude=$9, updated_on=$10 WHERE id=$11`
	_, err := r.db.ExecContext(ctx, query, l.Title, l.DailyRateCents, l.HourlyRateCents, l.DepositCents, l.IsAvailable, l.IsPaused, l.Address, l.Latitude, l.Longitude, time.Now(), l.ID)
	return err
}
