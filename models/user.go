package models

import "time"

// Roles of the admin surface. Organizers edit seeding, scores and formats;
// viewers get read-only access.
const (
	RoleOrganizer = "organizer"
	RoleViewer    = "viewer"
)

type User struct {
	ID           int       `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         string    `json:"role" db:"role"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
