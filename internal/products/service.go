package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dcastellanos/hearthhide-backend/pkg/db/models"
	pkgerrors "github.com/dcastellanos/hearthhide-backend/pkg/errors"
)

// Service exposes catalog browsing and admin product management.
type Service interface {
	ListProducts(ctx context.Context, input ListInput) (*ListResult, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	CreateProduct(ctx context.Context, input CreateProductDTO) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductDTO) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

type productRepository interface {
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	List(ctx context.Context, input ListInput) ([]models.Product, string, error)
}

type service struct {
	repo productRepository
}

// NewService constructs a catalog service instance.
func NewService(repo productRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo}, nil
}

// ListProducts returns one filtered catalog page. Inactive products are only
// visible when the caller asks for them (admin listings).
func (s *service) ListProducts(ctx context.Context, input ListInput) (*ListResult, error) {
	if err := validatePriceRange(input.Filters); err != nil {
		return nil, err
	}

	records, nextCursor, err := s.repo.List(ctx, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list products")
	}

	dtos := make([]ProductDTO, 0, len(records))
	for i := range records {
		dtos = append(dtos, *FromModel(&records[i]))
	}

	return &ListResult{Products: dtos, NextCursor: nextCursor}, nil
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: find product")
	}
	return FromModel(product), nil
}

func (s *service) CreateProduct(ctx context.Context, input CreateProductDTO) (*ProductDTO, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if strings.TrimSpace(input.Category) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category is required")
	}
	if input.PriceCents < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price_cents cannot be negative")
	}

	product := input.ToModel()
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product")
	}
	return FromModel(product), nil
}

func (s *service) UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductDTO) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: find product")
	}

	if err := applyUpdate(product, input); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product")
	}
	return FromModel(product), nil
}

func (s *service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete product")
	}
	return nil
}

func applyUpdate(product *models.Product, input UpdateProductDTO) error {
	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "title cannot be blank")
		}
		product.Title = *input.Title
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Category != nil {
		if strings.TrimSpace(*input.Category) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "category cannot be blank")
		}
		product.Category = *input.Category
	}
	if input.PriceCents != nil {
		if *input.PriceCents < 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "price_cents cannot be negative")
		}
		product.PriceCents = *input.PriceCents
	}
	if input.ImageURL != nil {
		product.ImageURL = *input.ImageURL
	}
	if input.Sizes != nil {
		product.Sizes = emptyIfNil(*input.Sizes)
	}
	if input.Colors != nil {
		product.Colors = emptyIfNil(*input.Colors)
	}
	if input.Tags != nil {
		product.Tags = emptyIfNil(*input.Tags)
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	return nil
}

func validatePriceRange(filters ListFilters) error {
	if filters.PriceMinCents != nil && *filters.PriceMinCents < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "price_min_cents cannot be negative")
	}
	if filters.PriceMaxCents != nil && *filters.PriceMaxCents < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "price_max_cents cannot be negative")
	}
	if filters.PriceMinCents != nil && filters.PriceMaxCents != nil && *filters.PriceMinCents > *filters.PriceMaxCents {
		return pkgerrors.New(pkgerrors.CodeValidation, "price_min_cents cannot exceed price_max_cents")
	}
	return nil
}
