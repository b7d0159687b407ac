package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"rentloop-backend/internal/domain"
	"rentloop-backend/internal/repository"
)

const deliveryColumns = `id, booking_id, agent_id, status, pickup_address, pickup_latitude, pickup_longitude, delivery_address, delivery_latitude, delivery_longitude, pickup_photo_ref, pickup_video_ref, delivery_photo_ref, delivery_video_ref, return_photo_ref, return_video_ref, amount_collected_cents, pickup_started_at, picked_at, out_for_delivery_at, delivered_at, return_started_at, returned_at, current_latitude, current_longitude, last_location_update, created_on, updated_on`

type deliveryRepository struct {
	db *sql.DB
}

func NewDeliveryRepository(db *sql.DB) repository.DeliveryRepository {
	return &deliveryRepository{db: db}
}

func (r *deliveryRepository) Create(ctx context.Context, j *domain.DeliveryJob) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	now := time.Now()
	j.CreatedOn = now
	j.UpdatedOn = now
	query := `INSERT INTO delivery_jobs (` + deliveryColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28)`
	_, err := r.db.ExecContext(ctx, query,
		j.ID, j.BookingID, j.AgentID, j.Status,
		j.PickupAddress, j.PickupLatitude, j.PickupLongitude,
		j.DeliveryAddress, j.DeliveryLatitude, j.DeliveryLongitude,
		j.PickupEvidence.PhotoRef, j.PickupEvidence.VideoRef,
		j.DeliveryEvidence.PhotoRef, j.DeliveryEvidence.VideoRef,
		j.ReturnEvidence.PhotoRef, j.ReturnEvidence.VideoRef,
		j.AmountCollectedCents,
		j.PickupStartedAt, j.PickedAt, j.OutForDeliveryAt, j.DeliveredAt, j.ReturnStartedAt, j.ReturnedAt,
		j.CurrentLatitude, j.CurrentLongitude, j.LastLocationUpdate,
		j.CreatedOn, j.UpdatedOn)
	return err
}

func scanDelivery(row interface{ Scan(...any) error }) (*domain.DeliveryJob, error) {
	j := &domain.DeliveryJob{}
	err := row.Scan(&j.ID, &j.BookingID, &j.AgentID, &j.Status,
		&j.PickupAddress, &j.PickupLatitude, &j.PickupLongitude,
		&j.DeliveryAddress, &j.DeliveryLatitude, &j.DeliveryLongitude,
		&j.PickupEvidence.PhotoRef, &j.PickupEvidence.VideoRef,
		&j.DeliveryEvidence.PhotoRef, &j.DeliveryEvidence.VideoRef,
		&j.ReturnEvidence.PhotoRef, &j.ReturnEvidence.VideoRef,
		&j.AmountCollectedCents,
		&j.PickupStartedAt, &j.PickedAt, &j.OutForDeliveryAt, &j.DeliveredAt, &j.ReturnStartedAt, &j.ReturnedAt,
		&j.CurrentLatitude, &j.CurrentLongitude, &j.LastLocationUpdate,
		&j.CreatedOn, &j.UpdatedOn)
	if err != nil {
		return nil, err
	}
	return j, nil
}

func (r *deliveryRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.DeliveryJob, error) {
	query := `SELECT ` + deliveryColumns + ` FROM delivery_jobs WHERE id = $1`
	j, err := scanDelivery(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFound("delivery job", id)
	}
	if err != nil {
		return nil, err
	}
	return j, nil
}

func (r *deliveryRepository) GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*domain.DeliveryJob, error) {
	query := `SELECT ` + deliveryColumns + ` FROM delivery_jobs WHERE booking_id = $1`
	j, err := scanDelivery(r.db.QueryRowContext(ctx, query, bookingID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFound("delivery job for booking", bookingID)
	}
	if err != nil {
		return nil, err
	}
	return j, nil
}

func (r *deliveryRepository) UpdateStatus(ctx context.Context, j *domain.DeliveryJob, expected domain.DeliveryStatus) error {
	j.UpdatedOn = time.Now()
	query := `UPDATE delivery_jobs SET status=$1, pickup_photo_ref=$2, pickup_video_ref=$3, delivery_photo_ref=$4, delivery_video_ref=$5, return_photo_ref=$6, return_video_ref=$7, amount_collected_cents=$8, pickup_started_at=$9, picked_at=$10, out_for_delivery_at=$11, delivered_at=$12, return_started_at=$13, returned_at=$14, updated_on=$15
	          WHERE id=$16 AND status=$17`
	res, err := r.db.ExecContext(ctx, query,
		j.Status,
		j.PickupEvidence.PhotoRef, j.PickupEvidence.VideoRef,
		j.DeliveryEvidence.PhotoRef, j.DeliveryEvidence.VideoRef,
		j.ReturnEvidence.PhotoRef, j.ReturnEvidence.VideoRef,
		j.AmountCollectedCents,
		j.PickupStartedAt, j.PickedAt, j.OutForDeliveryAt, j.DeliveredAt, j.ReturnStartedAt, j.ReturnedAt,
		j.UpdatedOn, j.ID, expected)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.NewConflict(fmt.Sprintf("delivery job %s was modified concurrently", j.ID))
	}
	return nil
}

func (r *deliveryRepository) AssignAgent(ctx context.Context, id, agentID uuid.UUID) error {
	query := `UPDATE delivery_jobs SET agent_id=$1, updated_on=$2 WHERE id=$3`
	_, err := r.db.ExecContext(ctx, query, agentID, time.Now(), id)
	return err
}

func (r *deliveryRepository) UpdateLocation(ctx context.Context, id uuid.UUID, point domain.GeoPoint, at time.Time) error {
	// Touches only the location columns: high-frequency GPS writes must
	// not contend with status transitions.
	query := `UPDATE delivery_jobs SET current_latitude=$1, current_longitude=$2, last_location_update=$3 WHERE id=$4`
	_, err := r.db.ExecContext(ctx, query, point.Latitude, point.Longitude, at, id)
	return err
}

func (r *deliveryRepository) ListByAgent(ctx context.Context, agentID uuid.UUID, status string, page, pageSize int32) ([]domain.DeliveryJob, int32, error) {
	offset := (page - 1) * pageSize
	query := `SELECT ` + deliveryColumns + ` FROM delivery_jobs WHERE agent_id = $1`

	args := []interface{}{agentID}
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

	query += fmt.Sprintf(" ORDER BY created_on DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var jobs []domain.DeliveryJob
	for rows.Next() {
		j, err := scanDelivery(rows)
		if err != nil {
			return nil, 0, err
		}
		jobs = append(jobs, *j)
	}
	return jobs, count, rows.Err()
}
