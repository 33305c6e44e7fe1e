package model

import (
	"time"

	"github.com/google/uuid"
)

// Store is a physical or logical stock location owned by a user.
type Store struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
