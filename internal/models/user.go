package models

import (
	"time"
)

// Role is the access level of a user
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// ValidRoles defines allowed user roles
var ValidRoles = map[Role]bool{
	RoleAdmin: true,
	RoleUser:  true,
}

// User represents an operator account
type User struct {
	ID           string    `json:"id" bson:"-" db:"id"`
	Email        string    `json:"email" bson:"email" db:"email"`
	PasswordHash string    `json:"-" bson:"password" db:"password_hash"`
	Role         Role      `json:"role" bson:"role" db:"role"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt" db:"created_at"`
}

// UserResponse is the public view of a user returned by the API
type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// ToResponse strips credentials from the user
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:    u.ID,
		Email: u.Email,
		Role:  u.Role,
	}
}

// LoginRequest is the body of POST /auth/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the body of POST /auth/register
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}
