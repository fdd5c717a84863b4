package model

import (
	"time"

	"gorm.io/gorm"
)

// Roles a Profile can carry. Every registered user gets a profile with
// the tenant role unless another one was requested.
const (
	RoleTenant = "tenant"
	RoleAgent  = "agent"
	RoleAdmin  = "admin"
)

// User represents the user model stored in the database
type User struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Email     string         `json:"email" gorm:"type:varchar(100);uniqueIndex;not null"`
	Username  string         `json:"username" gorm:"type:varchar(100);uniqueIndex;not null"`
	Password  string         `json:"-" gorm:"type:varchar(255)"`
	FirstName string         `json:"first_name" gorm:"type:varchar(100)"`
	LastName  string         `json:"last_name" gorm:"type:varchar(100)"`
	Profile   *Profile       `json:"profile,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// Profile holds the contact details and role of a user. Exactly one
// profile exists per user; the role drives every authorization decision.
type Profile struct {
	ID          uint      `json:"-" gorm:"primaryKey"`
	UserID      uint      `json:"-" gorm:"uniqueIndex;not null"`
	Role        string    `json:"role" gorm:"type:varchar(20);default:'tenant'"`
	PhoneNumber string    `json:"phone_number" gorm:"type:varchar(20)"`
	Address     string    `json:"address" gorm:"type:varchar(255)"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}
