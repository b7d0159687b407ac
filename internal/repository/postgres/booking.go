package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"rentloop-backend/internal/domain"
	"rentloop-backend/internal/repository"
)

const bookingColumns = `id, listing_id, renter_id, lender_id, start_date, end_date, daily_rate_cents, rent_cents, deposit_cents, delivery_fee_cents, platform_fee_cents, total_cents, payment_method, status, cancel_reason, early_return_refund_cents, deposit_refund_cents, requested_at, accepted_at, cancelled_at, return_initiated_at, completed_at, updated_on`

type bookingRepository struct {
	db *sql.DB
}

func NewBookingRepository(db *sql.DB) repository.BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	now := time.Now()
	b.RequestedAt = now
	b.UpdatedOn = now
	query := `INSERT INTO bookings (` + bookingColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)`
	_, err := r.db.ExecContext(ctx, query,
		b.ID, b.ListingID, b.RenterID, b.LenderID, b.StartDate, b.EndDate,
		b.DailyRateCents, b.RentCents, b.DepositCents, b.DeliveryFeeCents, b.PlatformFeeCents, b.TotalCents, b.PaymentMethod,
		b.Status, b.CancelReason, b.EarlyReturnRefundCents, b.DepositRefundCents,
		b.RequestedAt, b.AcceptedAt, b.CancelledAt, b.ReturnInitiatedAt, b.CompletedAt, b.UpdatedOn)
	// The bookings_no_overlap exclusion constraint backs the availability
	// check against concurrent overlapping requests.
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23P01" {
		return domain.NewConflict("listing already booked for an overlapping date range")
	}
	return err
}

func scanBooking(row interface{ Scan(...any) error }) (*domain.Booking, error) {
	b := &domain.Booking{}
	err := row.Scan(&b.ID, &b.ListingID, &b.RenterID, &b.LenderID, &b.StartDate, &b.EndDate,
		&b.DailyRateCents, &b.RentCents, &b.DepositCents, &b.DeliveryFeeCents, &b.PlatformFeeCents, &b.TotalCents, &b.PaymentMethod,
		&b.Status, &b.CancelReason, &b.EarlyReturnRefundCents, &b.DepositRefundCents,
		&b.RequestedAt, &b.AcceptedAt, &b.CancelledAt, &b.ReturnInitiatedAt, &b.CompletedAt, &b.UpdatedOn)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	b, err := scanBooking(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFound("booking", id)
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *bookingRepository) FindOverlapping(ctx context.Context, listingID uuid.UUID, start, end time.Time, statuses []domain.BookingStatus) ([]domain.Booking, error) {
	raw := make([]string, len(statuses))
	for i, s := range statuses {
		raw[i] = string(s)
	}
	// Inclusive-range intersection: a booking ending the day another
	// starts still conflicts.
	query := `SELECT ` + bookingColumns + ` FROM bookings
	          WHERE listing_id = $1 AND status = ANY($2) AND start_date <= $3 AND end_date >= $4
	          ORDER BY start_date`
	rows, err := r.db.QueryContext(ctx, query, listingID, pq.Array(raw), end, start)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBookings(rows)
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, b *domain.Booking, expected domain.BookingStatus) error {
	b.UpdatedOn = time.Now()
	query := `UPDATE bookings SET status=$1, cancel_reason=$2, early_return_refund_cents=$3, deposit_refund_cents=$4, accepted_at=$5, cancelled_at=$6, return_initiated_at=$7, completed_at=$8, updated_on=$9
	          WHERE id=$10 AND status=$11`
	res, err := r.db.ExecContext(ctx, query,
		b.Status, b.CancelReason, b.EarlyReturnRefundCents, b.DepositRefundCents,
		b.AcceptedAt, b.CancelledAt, b.ReturnInitiatedAt, b.CompletedAt, b.UpdatedOn,
		b.ID, expected)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.NewConflict(fmt.Sprintf("booking %s was modified concurrently", b.ID))
	}
	return nil
}

func (r *bookingRepository) ListByRenter(ctx context.Context, renterID uuid.UUID, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	return r.listByParty(ctx, "renter_id", renterID, status, page, pageSize)
}

func (r *bookingRepository) ListByLender(ctx context.Context, lenderID uuid.UUID, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	return r.listByParty(ctx, "lender_id", lenderID, status, page, pageSize)
}

func (r *bookingRepository) listByParty(ctx context.Context, column string, userID uuid.UUID, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	offset := (page - 1) * pageSize
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE ` + column + ` = $1`

	args := []interface{}{userID}
	argIdx := 2
	if status != "" {
		query += " AND status = $2"
		args = append(args, status)
		argIdx++
	}

	var count int32
	countQuery := "SELECT count(*) FROM (" + query + ") as sub"
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(" ORDER BY requested_at DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	bookings, err := collectBookings(rows)
	if err != nil {
		return nil, 0, err
	}
	return bookings, count, nil
}

func (r *bookingRepository) ListEndingOn(ctx context.Context, day time.Time) ([]domain.Booking, error) {
	raw := make([]string, len(domain.BlockingBookingStatuses))
	for i, s := range domain.BlockingBookingStatuses {
		raw[i] = string(s)
	}
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE status = ANY($1) AND end_date::date = $2::date`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(raw), day)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBookings(rows)
}

func (r *bookingRepository) ListOverdue(ctx context.Context, day time.Time) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE status = $1 AND end_date::date < $2::date`
	rows, err := r.db.QueryContext(ctx, query, domain.BookingStatusActive, day)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBookings(rows)
}

func collectBookings(rows *sql.Rows) ([]domain.Booking, error) {
	var bookings []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}
