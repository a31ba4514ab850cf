package entity

import (
	"time"
)

// User is an identity record for an organization or an adopter.
// PasswordHash holds the one-way digest, never the plaintext password.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
