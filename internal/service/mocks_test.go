package service_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"rentloop-backend/internal/cache"
	"rentloop-backend/internal/domain"
)

// MockBookingRepo
type MockBookingRepo struct {
	mock.Mock
}

func (m *MockBookingRepo) Create(ctx context.Context, booking *domain.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}
func (m *MockBookingRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) FindOverlapping(ctx context.Context, listingID uuid.UUID, start, end time.Time, statuses []domain.BookingStatus) ([]domain.Booking, error) {
	args := m.Called(ctx, listingID, start, end, statuses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) UpdateStatus(ctx context.Context, booking *domain.Booking, expected domain.BookingStatus) error {
	args := m.Called(ctx, booking, expected)
	return args.Error(0)
}
func (m *MockBookingRepo) ListByRenter(ctx context.Context, renterID uuid.UUID, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	args := m.Called(ctx, renterID, status, page, pageSize)
	return args.Get(0).([]domain.Booking), args.Get(1).(int32), args.Error(2)
}
func (m *MockBookingRepo) ListByLender(ctx context.Context, lenderID uuid.UUID, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	args := m.Called(ctx, lenderID, status, page, pageSize)
	return args.Get(0).([]domain.Booking), args.Get(1).(int32), args.Error(2)
}
func (m *MockBookingRepo) ListEndingOn(ctx context.Context, day time.Time) ([]domain.Booking, error) {
	args := m.Called(ctx, day)
	return args.Get(0).([]domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) ListOverdue(ctx context.Context, day time.Time) ([]domain.Booking, error) {
	args := m.Called(ctx, day)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

// MockDeliveryRepo
type MockDeliveryRepo struct {
	mock.Mock
}

func (m *MockDeliveryRepo) Create(ctx context.Context, job *domain.DeliveryJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}
func (m *MockDeliveryRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.DeliveryJob, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DeliveryJob), args.Error(1)
}
func (m *MockDeliveryRepo) GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*domain.DeliveryJob, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DeliveryJob), args.Error(1)
}
func (m *MockDeliveryRepo) UpdateStatus(ctx context.Context, job *domain.DeliveryJob, expected domain.DeliveryStatus) error {
	args := m.Called(ctx, job, expected)
	return args.Error(0)
}
func (m *MockDeliveryRepo) AssignAgent(ctx context.Context, id, agentID uuid.UUID) error {
	args := m.Called(ctx, id, agentID)
	return args.Error(0)
}
func (m *MockDeliveryRepo) UpdateLocation(ctx context.Context, id uuid.UUID, point domain.GeoPoint, at time.Time) error {
	args := m.Called(ctx, id, point, at)
	return args.Error(0)
}
func (m *MockDeliveryRepo) ListByAgent(ctx context.Context, agentID uuid.UUID, status string, page, pageSize int32) ([]domain.DeliveryJob, int32, error) {
	args := m.Called(ctx, agentID, status, page, pageSize)
	return args.Get(0).([]domain.DeliveryJob), args.Get(1).(int32), args.Error(2)
}

// MockListingRepo
type MockListingRepo struct {
	mock.Mock
}

func (m *MockListingRepo) Create(ctx context.Context, listing *domain.Listing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}
func (m *MockListingRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Listing), args.Error(1)
}
func (m *MockListingRepo) Update(ctx context.Context, listing *domain.Listing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockNotificationRepo
type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, note *domain.Notification) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}
func (m *MockNotificationRepo) List(ctx context.Context, userID uuid.UUID, limit, offset int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}
func (m *MockNotificationRepo) MarkAsRead(ctx context.Context, id, userID uuid.UUID) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

// MockLocationStore
type MockLocationStore struct {
	mock.Mock
}

func (m *MockLocationStore) SetLocation(ctx context.Context, deliveryID uuid.UUID, point domain.GeoPoint, at time.Time) error {
	args := m.Called(ctx, deliveryID, point, at)
	return args.Error(0)
}
func (m *MockLocationStore) GetLocation(ctx context.Context, deliveryID uuid.UUID) (*cache.LocationSnapshot, error) {
	args := m.Called(ctx, deliveryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cache.LocationSnapshot), args.Error(1)
}

// MockNotifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, userID uuid.UUID, noteType, title, message string, relatedEntityID uuid.UUID) {
	m.Called(ctx, userID, noteType, title, message, relatedEntityID)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendBookingRequestedNotification(ctx context.Context, lenderEmail, renterName, listingTitle string) error {
	args := m.Called(ctx, lenderEmail, renterName, listingTitle)
	return args.Error(0)
}
func (m *MockEmailService) SendBookingAcceptedNotification(ctx context.Context, renterEmail, lenderName, listingTitle string) error {
	args := m.Called(ctx, renterEmail, lenderName, listingTitle)
	return args.Error(0)
}
func (m *MockEmailService) SendBookingCancelledNotification(ctx context.Context, email, byName, listingTitle, reason string) error {
	args := m.Called(ctx, email, byName, listingTitle, reason)
	return args.Error(0)
}
func (m *MockEmailService) SendReturnInitiatedNotification(ctx context.Context, lenderEmail, renterName, listingTitle string, totalRefundCents int64) error {
	args := m.Called(ctx, lenderEmail, renterName, listingTitle, totalRefundCents)
	return args.Error(0)
}
func (m *MockEmailService) SendDeliveredNotification(ctx context.Context, email, listingTitle string) error {
	args := m.Called(ctx, email, listingTitle)
	return args.Error(0)
}
func (m *MockEmailService) SendReturnedNotification(ctx context.Context, email, listingTitle string) error {
	args := m.Called(ctx, email, listingTitle)
	return args.Error(0)
}
func (m *MockEmailService) SendReturnReminderNotification(ctx context.Context, renterEmail, listingTitle, endDate string) error {
	args := m.Called(ctx, renterEmail, listingTitle, endDate)
	return args.Error(0)
}
func (m *MockEmailService) SendOverdueNotification(ctx context.Context, renterEmail, listingTitle string, daysPastDue int, penaltyCents int64) error {
	args := m.Called(ctx, renterEmail, listingTitle, daysPastDue, penaltyCents)
	return args.Error(0)
}
