package models

import "time"

// User defines the user model based on the 'users' table.
type User struct {
	ID           string    `json:"id" db:"id"`
	Email        string    `json:"email" db:"email" example:"mahasiswa@kampus.ac.id"`
	PasswordHash string    `json:"-" db:"password_hash"`
	FullName     *string   `json:"full_name,omitempty" db:"full_name"` // Nullable profile field
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// RefreshToken defines a row of the 'refresh_tokens' table.
type RefreshToken struct {
	Token     string    `json:"-" db:"token"`
	UserID    string    `json:"-" db:"user_id"`
	ExpiresAt time.Time `json:"-" db:"expires_at"`
	Revoked   bool      `json:"-" db:"revoked"`
	CreatedAt time.Time `json:"-" db:"created_at"`
}
