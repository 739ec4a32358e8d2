package models

import (
	"time"

	"github.com/google/uuid"
)

// CartLineItem is a product snapshot inside a cart. Display fields are
// denormalized copies taken at add time, not live catalog lookups, so the
// product id stays an opaque string rather than a foreign key.
type CartLineItem struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CartID      uuid.UUID `gorm:"column:cart_id;type:uuid;not null;index"`
	ProductID   string    `gorm:"column:product_id;not null"`
	Quantity    int       `gorm:"column:quantity;not null;default:1"`
	Title       string    `gorm:"column:title;not null;default:''"`
	Price       float64   `gorm:"column:price;not null;default:0"`
	ImageURL    string    `gorm:"column:image_url;not null;default:''"`
	Description string    `gorm:"column:description;not null;default:''"`
	Size        string    `gorm:"column:size;not null;default:''"`
	Color       string    `gorm:"column:color;not null;default:''"`
	Position    int       `gorm:"column:position;not null;default:0"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
