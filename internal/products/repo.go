package products

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dcastellanos/hearthhide-backend/pkg/db/models"
	"github.com/dcastellanos/hearthhide-backend/pkg/pagination"
)

// Repository provides catalog persistence on top of gorm.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *Repository) Update(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// List returns one catalog page ordered newest first. Pages are keyed by a
// (created_at, id) cursor so ties on created_at cannot skip or repeat rows.
func (r *Repository) List(ctx context.Context, input ListInput) ([]models.Product, string, error) {
	pageSize := pagination.NormalizeLimit(input.Pagination.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(pageSize)

	cursor, err := pagination.ParseCursor(input.Pagination.Cursor)
	if err != nil {
		return nil, "", err
	}

	qb := r.db.WithContext(ctx).Model(&models.Product{})

	if !input.IncludeInactive {
		qb = qb.Where("is_active = ?", true)
	}
	if input.Filters.Category != "" {
		qb = qb.Where("category = ?", input.Filters.Category)
	}
	if input.Filters.Tag != "" {
		qb = qb.Where("? = ANY(tags)", input.Filters.Tag)
	}
	if input.Filters.PriceMinCents != nil {
		qb = qb.Where("price_cents >= ?", *input.Filters.PriceMinCents)
	}
	if input.Filters.PriceMaxCents != nil {
		qb = qb.Where("price_cents <= ?", *input.Filters.PriceMaxCents)
	}
	if q := strings.TrimSpace(input.Filters.Query); q != "" {
		pattern := "%" + strings.ToLower(q) + "%"
		qb = qb.Where("LOWER(title) LIKE ?", pattern)
	}

	if cursor != nil {
		qb = qb.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var records []models.Product
	err = qb.
		Order("created_at DESC").
		Order("id DESC").
		Limit(limitWithBuffer).
		Find(&records).Error
	if err != nil {
		return nil, "", err
	}

	var nextCursor string
	if len(records) > pageSize {
		records = records[:pageSize]
		last := records[len(records)-1]
		nextCursor = pagination.NextCursor(last.CreatedAt, last.ID)
	}

	return records, nextCursor, nil
}
