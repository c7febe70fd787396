package model

import "time"

// Role values stored on a customer record. Every registered account starts as
// RoleCustomer; RoleAdmin is assigned out of band (no self-service path may
// change a role).
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// Customer mirrors the `customers` table. Email and username are each unique
// across all rows. The password hash is never serialized into responses.
type Customer struct {
	ID           uint64     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"`
	Address      string     `json:"address,omitempty"`
	Phone        string     `json:"phone,omitempty"`
	DateOfBirth  *time.Time `json:"date_of_birth,omitempty"`
	Role         string     `json:"role"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
