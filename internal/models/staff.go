package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// StaffRole gates access to the administrative API.
type StaffRole string

const (
	RoleAdmin StaffRole = "ADMIN"
	RoleStaff StaffRole = "STAFF"
)

// StaffUser is an operator account able to sign in to the admin API.
type StaffUser struct {
	ID           string     `db:"id" json:"id"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	FullName     string     `db:"full_name" json:"full_name"`
	Role         StaffRole  `db:"role" json:"role"`
	Active       bool       `db:"active" json:"active"`
	LastLogin    *time.Time `db:"last_login" json:"last_login,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// StaffClaims is the JWT payload issued to staff.
type StaffClaims struct {
	UserID string    `json:"user_id"`
	Email  string    `json:"email"`
	Role   StaffRole `json:"role"`
	jwt.RegisteredClaims
}
