package domain

import (
	"time"

	"github.com/google/uuid"
)

type Notification struct {
	ID              uuid.UUID `json:"id"`
	UserID          uuid.UUID `json:"user_id"`
	Type            string    `json:"type"`
	Title           string    `json:"title"`
	Message         string    `json:"message"`
	RelatedEntityID uuid.UUID `json:"related_entity_id"`
	IsRead          bool      `json:"is_read"`
	CreatedOn       time.Time `json:"created_on"`
}
