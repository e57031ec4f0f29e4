package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceEntry is one row of the pricefull table: a (product, specification)
// pair with its per-square-metre price and the product's sizing limits.
type PriceEntry struct {
	ID                   int64               `gorm:"column:id;primaryKey;autoIncrement"`
	ProductName          string              `gorm:"column:product_name;not null;index:idx_pricefull_product"`
	ProductSpecification string              `gorm:"column:product_specification;not null"`
	PricePerM2           decimal.NullDecimal `gorm:"column:price_perm2;type:numeric(14,2)"`
	MaxSide              decimal.NullDecimal `gorm:"column:max_side;type:numeric(10,3)"`
	ExtraSupply          decimal.NullDecimal `gorm:"column:extra_supply;type:numeric(10,3)"`
	CreatedAt            time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (PriceEntry) TableName() string { return "pricefull" }
