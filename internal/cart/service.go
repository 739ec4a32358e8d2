package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dcastellanos/hearthhide-backend/pkg/db/models"
	"github.com/dcastellanos/hearthhide-backend/pkg/enums"
	pkgerrors "github.com/dcastellanos/hearthhide-backend/pkg/errors"
	"github.com/dcastellanos/hearthhide-backend/pkg/logger"
	"github.com/dcastellanos/hearthhide-backend/pkg/outbox"
)

// Service exposes the legacy cart operations.
type Service interface {
	FindCart(ctx context.Context, userID uuid.UUID) (*CartDTO, error)
	AddToCart(ctx context.Context, actor outbox.ActorRef, input AddToCartDTO) (*CartDTO, error)
	UpdateCart(ctx context.Context, actor outbox.ActorRef, cartID uuid.UUID, input UpdateCartDTO) (*CartDTO, error)
}

// TxRunner executes a function inside a database transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type eventEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// ServiceParams bundles the cart service dependencies.
type ServiceParams struct {
	Repo     *Repository
	TxRunner TxRunner
	Outbox   eventEmitter
	Logger   *logger.Logger
}

type service struct {
	repo     *Repository
	txRunner TxRunner
	outbox   eventEmitter
	logg     *logger.Logger
}

// NewService constructs a cart service instance.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if params.TxRunner == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox emitter required")
	}
	return &service{
		repo:     params.Repo,
		txRunner: params.TxRunner,
		outbox:   params.Outbox,
		logg:     params.Logger,
	}, nil
}

// cartEventData is the outbox payload appended on every cart write.
type cartEventData struct {
	CartID    uuid.UUID `json:"cartId"`
	UserID    uuid.UUID `json:"userId"`
	ItemCount int       `json:"itemCount"`
	Subtotal  float64   `json:"subtotal"`
}

// FindCart returns the user's cart. A user without a cart is a plain
// not-found, never an error the storefront would retry.
func (s *service) FindCart(ctx context.Context, userID uuid.UUID) (*CartDTO, error) {
	cart, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: find cart")
	}
	return FromModel(cart), nil
}

// AddToCart merges the normalized batch into the user's cart, creating the
// cart on first write. The read, merge, write, and event append happen in one
// transaction.
func (s *service) AddToCart(ctx context.Context, actor outbox.ActorRef, input AddToCartDTO) (*CartDTO, error) {
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "userId is required")
	}

	incoming := normalizeItems(input.Products)

	var result *models.Cart
	err := s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		existing, err := txRepo.FindByUser(ctx, input.UserID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: find cart")
		}

		created := false
		if errors.Is(err, gorm.ErrRecordNotFound) {
			existing, err = txRepo.Create(ctx, &models.Cart{UserID: input.UserID})
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create cart")
			}
			created = true
		}

		current := make([]LineItemDTO, 0, len(existing.Items))
		for i := range existing.Items {
			current = append(current, lineItemFromModel(&existing.Items[i]))
		}
		merged := mergeItems(current, incoming)

		rows := make([]models.CartLineItem, 0, len(merged))
		for i, item := range merged {
			rows = append(rows, lineItemToModel(item, i))
		}
		if err := txRepo.ReplaceItems(ctx, existing.ID, rows); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: replace cart items")
		}
		if !created {
			if err := txRepo.Touch(ctx, existing.ID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: touch cart")
			}
		}

		eventType := enums.OutboxEventCartUpdated
		if created {
			eventType = enums.OutboxEventCartCreated
		}
		if err := s.emit(ctx, tx, eventType, actor, existing.ID, input.UserID, merged); err != nil {
			return err
		}

		result, err = txRepo.FindByID(ctx, existing.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: reload cart")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithCartID(ctx, result.ID.String()), "cart write applied")
	}
	return FromModel(result), nil
}

// UpdateCart replaces the cart's entire line-item set. Concurrent updates are
// last-write-wins; the legacy storefront already behaves this way.
func (s *service) UpdateCart(ctx context.Context, actor outbox.ActorRef, cartID uuid.UUID, input UpdateCartDTO) (*CartDTO, error) {
	if cartID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cartId is required")
	}

	// A raw overwrite body may repeat a productId; collapse before writing
	// so the stored document never does.
	items := mergeItems(nil, normalizeItems(input.Products))

	var result *models.Cart
	err := s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		existing, err := txRepo.FindByID(ctx, cartID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: find cart")
		}

		rows := make([]models.CartLineItem, 0, len(items))
		for i, item := range items {
			rows = append(rows, lineItemToModel(item, i))
		}
		if err := txRepo.ReplaceItems(ctx, existing.ID, rows); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: replace cart items")
		}
		if err := txRepo.Touch(ctx, existing.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: touch cart")
		}

		if err := s.emit(ctx, tx, enums.OutboxEventCartUpdated, actor, existing.ID, existing.UserID, items); err != nil {
			return err
		}

		result, err = txRepo.FindByID(ctx, existing.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: reload cart")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithCartID(ctx, result.ID.String()), "cart overwritten")
	}
	return FromModel(result), nil
}

func (s *service) emit(ctx context.Context, tx *gorm.DB, eventType enums.OutboxEventType, actor outbox.ActorRef, cartID, userID uuid.UUID, items []LineItemDTO) error {
	event := outbox.DomainEvent{
		EventType:     eventType,
		AggregateType: enums.OutboxAggregateCart,
		AggregateID:   cartID,
		Actor:         &actor,
		Data: cartEventData{
			CartID:    cartID,
			UserID:    userID,
			ItemCount: len(items),
			Subtotal:  subtotal(items),
		},
		Version: 1,
	}
	if err := s.outbox.Emit(ctx, tx, event); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "outbox: emit cart event")
	}
	return nil
}
