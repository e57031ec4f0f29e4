// Package orders assembles finalized orders and persists them.
package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/angelmondragon/printcrm/internal/cart"
	"github.com/angelmondragon/printcrm/pkg/db/models"
	pkgerrors "github.com/angelmondragon/printcrm/pkg/errors"
)

// Service stores and reads customer orders.
type Service interface {
	// SubmitOrder persists payload atomically and returns the new order id.
	// Any storage failure is a CodeDependency error carrying the reason.
	SubmitOrder(ctx context.Context, payload OrderPayload) (int64, error)
	GetOrder(ctx context.Context, orderID int64) (*OrderDTO, error)
	AddItem(ctx context.Context, orderID int64, item cart.LineItem) (*CartItemDTO, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo Repository
	tx   txRunner
}

// NewService wires the order service.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) SubmitOrder(ctx context.Context, payload OrderPayload) (int64, error) {
	order := toOrderModel(payload)
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).CreateOrder(ctx, order)
	})
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "order submission failed")
	}
	return order.ID, nil
}

func (s *service) GetOrder(ctx context.Context, orderID int64) (*OrderDTO, error) {
	order, err := s.repo.FindOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return toOrderDTO(order), nil
}

func (s *service) AddItem(ctx context.Context, orderID int64, item cart.LineItem) (*CartItemDTO, error) {
	if strings.TrimSpace(item.ProductName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "productName is required")
	}
	if item.TotalMoney.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "totalMoney must not be negative")
	}

	var created models.CartItem
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		exists, err := repo.OrderExists(ctx, orderID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check order")
		}
		if !exists {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		created = toCartItemModel(&orderID, item)
		if err := repo.CreateCartItem(ctx, &created); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cart item")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	dto := toCartItemDTO(&created)
	return &dto, nil
}
