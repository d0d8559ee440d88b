package models

import (
	"fmt"
	"strings"
)

// Role controls access to the admin back-office
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Profile holds customer data shared with the auth identity
type Profile struct {
	ID           string `json:"id" db:"id"`
	FullName     string `json:"full_name" db:"full_name"`
	Address      string `json:"address" db:"address"`
	Role         Role   `json:"role" db:"role"`
	Email        string `json:"email" db:"email"`
	PasswordHash string `json:"-" db:"password_hash"`
}

// DefaultProfile substitutes a placeholder profile when none has been stored
// yet. A missing profile is not an error.
func DefaultProfile(id, email string) *Profile {
	return &Profile{
		ID:       id,
		FullName: "Guest",
		Address:  "",
		Role:     RoleUser,
		Email:    email,
	}
}

// RegisterRequest represents a registration form
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Address  string `json:"address,omitempty"`
}

// LoginRequest represents a login form
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate validates a registration request
func (req *RegisterRequest) Validate() error {
	if !strings.Contains(req.Email, "@") {
		return fmt.Errorf("email has an invalid format")
	}
	if len(req.Password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	if len(req.FullName) == 0 {
		return fmt.Errorf("full_name is required")
	}
	return nil
}
