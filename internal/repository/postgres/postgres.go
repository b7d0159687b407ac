package postgres

import (
	"database/sql"

	_ "github.com/lib/pq"

	"rentloop-backend/internal/repository"
)

// Store bundles the per-entity repositories over one connection pool.
type Store struct {
	db            *sql.DB
	listings      repository.ListingRepository
	users         repository.UserRepository
	bookings      repository.BookingRepository
	deliveries    repository.DeliveryRepository
	notifications repository.NotificationRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:            db,
		listings:      NewListingRepository(db),
		users:         NewUserRepository(db),
		bookings:      NewBookingRepository(db),
		deliveries:    NewDeliveryRepository(db),
		notifications: NewNotificationRepository(db),
	}
}

func (s *Store) Listings() repository.ListingRepository           { return s.listings }
func (s *Store) Users() repository.UserRepository                 { return s.users }
func (s *Store) Bookings() repository.BookingRepository           { return s.bookings }
func (s *Store) Deliveries() repository.DeliveryRepository        { return s.deliveries }
func (s *Store) Notifications() repository.NotificationRepository { return s.notifications }
