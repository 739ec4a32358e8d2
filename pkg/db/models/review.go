package models

import (
	"time"

	"github.com/google/uuid"
)

// Review is a customer rating attached to a catalog product.
type Review struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;index"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null"`
	Rating    int       `gorm:"column:rating;not null"`
	Comment   string    `gorm:"column:comment;not null;default:''"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
