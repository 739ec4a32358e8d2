package cart

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dcastellanos/hearthhide-backend/pkg/db/models"
)

// LineItemDTO is the legacy storefront line-item shape. Field names are frozen;
// the pre-existing web client depends on them verbatim.
type LineItemDTO struct {
	ProductID   string  `json:"productId"`
	Quantity    int     `json:"quantity"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"img"`
	Description string  `json:"desc"`
	Size        string  `json:"size"`
	Color       string  `json:"color"`
}

// CartDTO is the legacy cart document returned by the cart endpoints.
type CartDTO struct {
	ID       uuid.UUID     `json:"_id"`
	UserID   uuid.UUID     `json:"userId"`
	Products []LineItemDTO `json:"products"`
	Subtotal float64       `json:"subtotal"`
}

// AddToCartDTO is the body of POST /cart/add.
type AddToCartDTO struct {
	UserID   uuid.UUID     `json:"userId" validate:"required"`
	Products []LineItemDTO `json:"products"`
}

// UpdateCartDTO is the body of PUT /cart/update/{cartId}.
type UpdateCartDTO struct {
	Products []LineItemDTO `json:"products"`
}

func lineItemFromModel(m *models.CartLineItem) LineItemDTO {
	return LineItemDTO{
		ProductID:   m.ProductID,
		Quantity:    m.Quantity,
		Title:       m.Title,
		Price:       m.Price,
		ImageURL:    m.ImageURL,
		Description: m.Description,
		Size:        m.Size,
		Color:       m.Color,
	}
}

func lineItemToModel(item LineItemDTO, position int) models.CartLineItem {
	return models.CartLineItem{
		ProductID:   item.ProductID,
		Quantity:    item.Quantity,
		Title:       item.Title,
		Price:       item.Price,
		ImageURL:    item.ImageURL,
		Description: item.Description,
		Size:        item.Size,
		Color:       item.Color,
		Position:    position,
	}
}

// FromModel maps a cart row plus its line items (already ordered by position)
// to the legacy document shape.
func FromModel(cart *models.Cart) *CartDTO {
	if cart == nil {
		return nil
	}
	products := make([]LineItemDTO, 0, len(cart.Items))
	for i := range cart.Items {
		products = append(products, lineItemFromModel(&cart.Items[i]))
	}
	return &CartDTO{
		ID:       cart.ID,
		UserID:   cart.UserID,
		Products: products,
		Subtotal: subtotal(products),
	}
}

// subtotal sums price*quantity with decimal arithmetic so float line prices do
// not accumulate binary rounding error across the cart.
func subtotal(items []LineItemDTO) float64 {
	total := decimal.Zero
	for _, item := range items {
		line := decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(line)
	}
	value, _ := total.Float64()
	return value
}

// normalizeItems coerces raw storefront intents into well-formed line items.
// Same defaults the storefront client applies, so both sides agree on what a
// valid item looks like.
func normalizeItems(items []LineItemDTO) []LineItemDTO {
	out := make([]LineItemDTO, 0, len(items))
	for _, item := range items {
		if item.Quantity <= 0 {
			item.Quantity = 1
		}
		if strings.TrimSpace(item.Title) == "" {
			item.Title = "Product"
		}
		if item.Price < 0 {
			item.Price = 0
		}
		item.ProductID = strings.TrimSpace(item.ProductID)
		out = append(out, item)
	}
	return out
}

// mergeItems upserts incoming into existing keyed by productId. Matches add
// quantities and take the incoming display fields while keeping the existing
// slot; new products append in incoming order. The result never repeats a
// productId, even when an input does.
func mergeItems(existing, incoming []LineItemDTO) []LineItemDTO {
	merged := make([]LineItemDTO, 0, len(existing)+len(incoming))
	index := make(map[string]int, len(existing)+len(incoming))

	upsert := func(item LineItemDTO) {
		if at, ok := index[item.ProductID]; ok {
			quantity := merged[at].Quantity + item.Quantity
			item.Quantity = quantity
			merged[at] = item
			return
		}
		index[item.ProductID] = len(merged)
		merged = append(merged, item)
	}

	for _, item := range existing {
		upsert(item)
	}
	for _, item := range incoming {
		upsert(item)
	}
	return merged
}
