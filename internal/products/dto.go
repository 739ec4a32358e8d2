package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/dcastellanos/hearthhide-backend/pkg/db/models"
	"github.com/dcastellanos/hearthhide-backend/pkg/pagination"
)

// ProductDTO is the catalog entry shape returned to clients.
type ProductDTO struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	PriceCents  int       `json:"price_cents"`
	ImageURL    string    `json:"image_url"`
	Sizes       []string  `json:"sizes"`
	Colors      []string  `json:"colors"`
	Tags        []string  `json:"tags"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateProductDTO holds the fields accepted when an admin creates a product.
type CreateProductDTO struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description"`
	Category    string   `json:"category" validate:"required"`
	PriceCents  int      `json:"price_cents" validate:"gte=0"`
	ImageURL    string   `json:"image_url"`
	Sizes       []string `json:"sizes"`
	Colors      []string `json:"colors"`
	Tags        []string `json:"tags"`
}

// UpdateProductDTO holds the optional fields accepted on product update.
type UpdateProductDTO struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Category    *string   `json:"category,omitempty"`
	PriceCents  *int      `json:"price_cents,omitempty" validate:"omitempty,gte=0"`
	ImageURL    *string   `json:"image_url,omitempty"`
	Sizes       *[]string `json:"sizes,omitempty"`
	Colors      *[]string `json:"colors,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
	IsActive    *bool     `json:"is_active,omitempty"`
}

// ListFilters describe the supported filter knobs for the browse endpoint.
type ListFilters struct {
	Category      string `json:"category,omitempty"`
	Tag           string `json:"tag,omitempty"`
	PriceMinCents *int   `json:"price_min_cents,omitempty"`
	PriceMaxCents *int   `json:"price_max_cents,omitempty"`
	Query         string `json:"q,omitempty"`
}

// ListInput captures the inputs needed to paginate and filter the catalog.
type ListInput struct {
	Filters         ListFilters
	Pagination      pagination.Params
	IncludeInactive bool
}

// ListResult is one catalog page plus the cursor for the next one.
type ListResult struct {
	Products   []ProductDTO `json:"products"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

func FromModel(p *models.Product) *ProductDTO {
	if p == nil {
		return nil
	}
	return &ProductDTO{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Category:    p.Category,
		PriceCents:  p.PriceCents,
		ImageURL:    p.ImageURL,
		Sizes:       stringSlice(p.Sizes),
		Colors:      stringSlice(p.Colors),
		Tags:        stringSlice(p.Tags),
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (c CreateProductDTO) ToModel() *models.Product {
	return &models.Product{
		Title:       c.Title,
		Description: c.Description,
		Category:    c.Category,
		PriceCents:  c.PriceCents,
		ImageURL:    c.ImageURL,
		Sizes:       pq.StringArray(emptyIfNil(c.Sizes)),
		Colors:      pq.StringArray(emptyIfNil(c.Colors)),
		Tags:        pq.StringArray(emptyIfNil(c.Tags)),
		IsActive:    true,
	}
}

func stringSlice(arr pq.StringArray) []string {
	if arr == nil {
		return []string{}
	}
	return append([]string(nil), arr...)
}

func emptyIfNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
