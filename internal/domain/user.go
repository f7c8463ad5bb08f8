package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered account. The engine trusts the authenticated user id
// as the acting identity; host privileges come from Game.CreatorID, not from
// a role on the account.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"display_name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
