package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/dcastellanos/hearthhide-backend/pkg/enums"
)

// User is a storefront account (customer or dashboard admin).
type User struct {
	ID           uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email        string           `gorm:"column:email;not null;uniqueIndex"`
	PasswordHash string           `gorm:"column:password_hash;not null"`
	FirstName    string           `gorm:"column:first_name;not null;default:''"`
	LastName     string           `gorm:"column:last_name;not null;default:''"`
	Role         enums.MemberRole `gorm:"column:role;not null;default:'customer'"`
	CreatedAt    time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
