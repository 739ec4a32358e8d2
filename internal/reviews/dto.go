package reviews

import (
	"time"

	"github.com/google/uuid"

	"github.com/dcastellanos/hearthhide-backend/pkg/db/models"
)

// ReviewDTO is the review shape returned to clients.
type ReviewDTO struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	UserID    uuid.UUID `json:"user_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateReviewDTO holds the fields accepted when a customer posts a review.
type CreateReviewDTO struct {
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

// ListResult is one page of reviews plus the cursor for the next one.
type ListResult struct {
	Reviews    []ReviewDTO `json:"reviews"`
	NextCursor string      `json:"next_cursor,omitempty"`
}

func FromModel(r *models.Review) *ReviewDTO {
	if r == nil {
		return nil
	}
	return &ReviewDTO{
		ID:        r.ID,
		ProductID: r.ProductID,
		UserID:    r.UserID,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
	}
}
