package models

import "time"

type UserRole string

const (
	RoleOrganizer   UserRole = "organizer"
	RoleClubManager UserRole = "club_manager"
	RoleFan         UserRole = "fan"
)

type User struct {
	ID           int       `json:"id" db:"id"`
	FirstName    string    `json:"first_name" db:"first_name"`
	LastName     string    `json:"last_name" db:"last_name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         UserRole  `json:"role" db:"role"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
