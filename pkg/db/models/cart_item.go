package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem is a persisted line item, optionally linked to a customer order.
type CartItem struct {
	ID                   int64           `gorm:"column:id;primaryKey;autoIncrement"`
	OrderID              *int64          `gorm:"column:order_id;index"`
	ProductName          string          `gorm:"column:product_name;not null"`
	ProductSpecification string          `gorm:"column:product_specification;not null;default:''"`
	TotalMoney           decimal.Decimal `gorm:"column:total_money;type:numeric(14,2);not null;default:0"`
	Note                 string          `gorm:"column:note;not null;default:''"`
	CreatedAt            time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (CartItem) TableName() string { return "cart_items" }
