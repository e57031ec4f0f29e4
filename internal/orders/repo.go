package orders

import (
	"context"

	"github.com/angelmondragon/printcrm/internal/repo"
	"github.com/angelmondragon/printcrm/pkg/db/models"
	"gorm.io/gorm"
)

// Repository defines persistence operations for the customer_order and
// cart_items tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateOrder(ctx context.Context, order *models.CustomerOrder) error
	FindOrder(ctx context.Context, orderID int64) (*models.CustomerOrder, error)
	OrderExists(ctx context.Context, orderID int64) (bool, error)
	CreateCartItem(ctx context.Context, item *models.CartItem) error
}

type repository struct {
	base repo.Base
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{base: r.base.WithTx(tx)}
}

// CreateOrder inserts the order and, through the Items association, one
// cart_items row per line item.
func (r *repository) CreateOrder(ctx context.Context, order *models.CustomerOrder) error {
	return r.base.DB(ctx).Create(order).Error
}

func (r *repository) FindOrder(ctx context.Context, orderID int64) (*models.CustomerOrder, error) {
	var order models.CustomerOrder
	err := r.base.DB(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Where("order_id = ?", orderID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) OrderExists(ctx context.Context, orderID int64) (bool, error) {
	var count int64
	if err := r.base.DB(ctx).Model(&models.CustomerOrder{}).Where("order_id = ?", orderID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) CreateCartItem(ctx context.Context, item *models.CartItem) error {
	return r.base.DB(ctx).Create(item).Error
}
