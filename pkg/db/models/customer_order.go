package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/printcrm/pkg/types"
)

// CustomerOrder is a finalized order as submitted from the order-creation page.
type CustomerOrder struct {
	ID             int64                `gorm:"column:order_id;primaryKey;autoIncrement"`
	StaffName      string               `gorm:"column:staff_name;not null;default:''"`
	Designer       string               `gorm:"column:designer;not null;default:''"`
	CustomerName   string               `gorm:"column:customer_name;not null;default:''"`
	PhoneNo        string               `gorm:"column:phone_no;not null;default:''"`
	PaymentMethod  string               `gorm:"column:payment_method;not null;default:''"`
	DeliveryMethod string               `gorm:"column:delivery_method;not null;default:''"`
	Discount       decimal.Decimal      `gorm:"column:discount;type:numeric(14,2);not null;default:0"`
	AmountToPay    decimal.Decimal      `gorm:"column:amount_to_pay;type:numeric(14,2);not null;default:0"`
	Note           string               `gorm:"column:note;not null;default:''"`
	ProductDetails types.ProductDetails `gorm:"column:product_details;type:jsonb;not null"`
	Items          []CartItem           `gorm:"foreignKey:OrderID;references:ID"`
	CreatedAt      time.Time            `gorm:"column:created_at;autoCreateTime"`
}

func (CustomerOrder) TableName() string { return "customer_order" }
