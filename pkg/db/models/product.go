package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Product is a catalog entry (furniture or leather goods).
type Product struct {
	ID          uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Title       string         `gorm:"column:title;not null"`
	Description string         `gorm:"column:description;not null;default:''"`
	Category    string         `gorm:"column:category;not null;index"`
	PriceCents  int            `gorm:"column:price_cents;not null"`
	ImageURL    string         `gorm:"column:image_url;not null;default:''"`
	Sizes       pq.StringArray `gorm:"column:sizes;type:text[]"`
	Colors      pq.StringArray `gorm:"column:colors;type:text[]"`
	Tags        pq.StringArray `gorm:"column:tags;type:text[]"`
	IsActive    bool           `gorm:"column:is_active;not null;default:true"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
