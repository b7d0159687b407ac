package service

import (
	"context"

	"github.com/google/uuid"

	"rentloop-backend/internal/domain"
	"rentloop-backend/internal/logger"
	"rentloop-backend/internal/repository"
)

type notificationService struct {
	noteRepo repository.NotificationRepository
}

func NewNotificationService(noteRepo repository.NotificationRepository) NotificationService {
	return &notificationService{noteRepo: noteRepo}
}

func (s *notificationService) GetNotifications(ctx context.Context, userID uuid.UUID, page, pageSize int32) ([]domain.Notification, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize
	return s.noteRepo.List(ctx, userID, pageSize, offset)
}

func (s *notificationService) MarkAsRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	return s.noteRepo.MarkAsRead(ctx, notificationID, userID)
}

// notifier writes an in-app notification row. It is fire and forget:
// a failed write is logged and swallowed, never rolled into the caller's
// state change.
type notifier struct {
	noteRepo repository.NotificationRepository
}

func NewNotifier(noteRepo repository.NotificationRepository) Notifier {
	return &notifier{noteRepo: noteRepo}
}

func (n *notifier) Notify(ctx context.Context, userID uuid.UUID, noteType, title, message string, relatedEntityID uuid.UUID) {
	note := &domain.Notification{
		ID:              uuid.New(),
		UserID:          userID,
		Type:            noteType,
		Title:           title,
		Message:         message,
		RelatedEntityID: relatedEntityID,
	}
	if err := n.noteRepo.Create(ctx, note); err != nil {
		logger.Error("Failed to create notification", "user_id", userID, "type", noteType, "error", err)
	}
}
