package reviews

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dcastellanos/hearthhide-backend/pkg/db/models"
	"github.com/dcastellanos/hearthhide-backend/pkg/enums"
	pkgerrors "github.com/dcastellanos/hearthhide-backend/pkg/errors"
	"github.com/dcastellanos/hearthhide-backend/pkg/pagination"
)

// Service exposes review posting and browsing.
type Service interface {
	CreateReview(ctx context.Context, userID, productID uuid.UUID, input CreateReviewDTO) (*ReviewDTO, error)
	ListReviews(ctx context.Context, productID uuid.UUID, params pagination.Params) (*ListResult, error)
	DeleteReview(ctx context.Context, actorID uuid.UUID, actorRole enums.MemberRole, reviewID uuid.UUID) error
}

type reviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Review, error)
	FindByProductAndUser(ctx context.Context, productID, userID uuid.UUID) (*models.Review, error)
	ListByProduct(ctx context.Context, productID uuid.UUID, params pagination.Params) ([]models.Review, string, error)
}

type productFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type service struct {
	repo     reviewRepository
	products productFinder
}

// NewService constructs a review service instance.
func NewService(repo reviewRepository, products productFinder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("review repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo, products: products}, nil
}

// CreateReview posts one review per product per user. Reposting is a conflict,
// not an update.
func (s *service) CreateReview(ctx context.Context, userID, productID uuid.UUID, input CreateReviewDTO) (*ReviewDTO, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}

	if _, err := s.products.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: find product")
	}

	_, err := s.repo.FindByProductAndUser(ctx, productID, userID)
	if err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "product already reviewed")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: find review")
	}

	review := &models.Review{
		ProductID: productID,
		UserID:    userID,
		Rating:    input.Rating,
		Comment:   strings.TrimSpace(input.Comment),
	}
	if err := s.repo.Create(ctx, review); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert review")
	}
	return FromModel(review), nil
}

func (s *service) ListReviews(ctx context.Context, productID uuid.UUID, params pagination.Params) (*ListResult, error) {
	records, nextCursor, err := s.repo.ListByProduct(ctx, productID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list reviews")
	}

	dtos := make([]ReviewDTO, 0, len(records))
	for i := range records {
		dtos = append(dtos, *FromModel(&records[i]))
	}
	return &ListResult{Reviews: dtos, NextCursor: nextCursor}, nil
}

// DeleteReview removes a review. Customers can only remove their own; admins
// can remove any.
func (s *service) DeleteReview(ctx context.Context, actorID uuid.UUID, actorRole enums.MemberRole, reviewID uuid.UUID) error {
	review, err := s.repo.FindByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "review not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: find review")
	}

	if actorRole != enums.MemberRoleAdmin && review.UserID != actorID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "cannot delete another user's review")
	}

	if err := s.repo.Delete(ctx, reviewID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "review not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete review")
	}
	return nil
}
