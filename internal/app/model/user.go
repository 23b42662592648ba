package model

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// PlaceholderName is stored when a user signs in before choosing a name.
const PlaceholderName = "NO_NAME"

type User struct {
	ID            uint             `gorm:"primarykey" json:"id"`
	Name          string           `gorm:"not null;default:'NO_NAME'" json:"name"`
	Email         string           `gorm:"uniqueIndex;not null" json:"email,omitempty"`
	PasswordHash  string           `gorm:"not null" json:"-"`
	Role          UserRole         `gorm:"type:varchar(20);default:'user'" json:"role,omitempty"`
	Address       *ShippingAddress `gorm:"serializer:json;type:text" json:"address,omitempty"`
	PaymentMethod string           `gorm:"type:varchar(50)" json:"payment_method,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
	DeletedAt     gorm.DeletedAt   `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// IsAdmin reports whether the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
