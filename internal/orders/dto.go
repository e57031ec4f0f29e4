package orders

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/printcrm/internal/cart"
	"github.com/angelmondragon/printcrm/pkg/db/models"
	"github.com/angelmondragon/printcrm/pkg/types"
)

// OrderDTO is the read model of a stored order.
type OrderDTO struct {
	OrderID        int64                `json:"orderId"`
	StaffName      string               `json:"staffName"`
	Designer       string               `json:"designer"`
	CustomerName   string               `json:"customerName"`
	PhoneNo        string               `json:"phoneNo"`
	PaymentMethod  string               `json:"paymentMethod"`
	DeliveryMethod string               `json:"deliveryMethod"`
	Discount       decimal.Decimal      `json:"discount"`
	AmountToPay    decimal.Decimal      `json:"amountToPay"`
	Note           string               `json:"note"`
	ProductDetails types.ProductDetails `json:"productDetails"`
	Items          []CartItemDTO        `json:"items"`
	CreatedAt      time.Time            `json:"createdAt"`
}

// CartItemDTO is one stored cart_items row.
type CartItemDTO struct {
	ID                   int64           `json:"id"`
	OrderID              *int64          `json:"orderId,omitempty"`
	ProductName          string          `json:"productName"`
	ProductSpecification string          `json:"productSpecification"`
	TotalMoney           decimal.Decimal `json:"totalMoney"`
	Note                 string          `json:"note"`
	CreatedAt            time.Time       `json:"createdAt"`
}

func toOrderModel(p OrderPayload) *models.CustomerOrder {
	details := make(types.ProductDetails, 0, len(p.LineItems))
	items := make([]models.CartItem, 0, len(p.LineItems))
	for _, li := range p.LineItems {
		details = append(details, types.ProductDetail{
			ProductName:          li.ProductName,
			ProductSpecification: li.ProductSpecification,
			TotalMoney:           li.TotalMoney,
			Note:                 li.Note,
		})
		items = append(items, toCartItemModel(nil, li))
	}
	return &models.CustomerOrder{
		StaffName:      p.StaffName,
		Designer:       p.Designer,
		CustomerName:   p.CustomerName,
		PhoneNo:        p.PhoneNo,
		PaymentMethod:  p.PaymentMethod,
		DeliveryMethod: p.DeliveryMethod,
		Discount:       p.Discount,
		AmountToPay:    p.AmountToPay,
		Note:           p.Note,
		ProductDetails: details,
		Items:          items,
	}
}

func toCartItemModel(orderID *int64, li cart.LineItem) models.CartItem {
	return models.CartItem{
		OrderID:              orderID,
		ProductName:          li.ProductName,
		ProductSpecification: li.ProductSpecification,
		TotalMoney:           li.TotalMoney,
		Note:                 li.Note,
	}
}

func toOrderDTO(m *models.CustomerOrder) *OrderDTO {
	items := make([]CartItemDTO, 0, len(m.Items))
	for i := range m.Items {
		items = append(items, toCartItemDTO(&m.Items[i]))
	}
	details := m.ProductDetails
	if details == nil {
		details = types.ProductDetails{}
	}
	return &OrderDTO{
		OrderID:        m.ID,
		StaffName:      m.StaffName,
		Designer:       m.Designer,
		CustomerName:   m.CustomerName,
		PhoneNo:        m.PhoneNo,
		PaymentMethod:  m.PaymentMethod,
		DeliveryMethod: m.DeliveryMethod,
		Discount:       m.Discount,
		AmountToPay:    m.AmountToPay,
		Note:           m.Note,
		ProductDetails: details,
		Items:          items,
		CreatedAt:      m.CreatedAt,
	}
}

func toCartItemDTO(m *models.CartItem) CartItemDTO {
	return CartItemDTO{
		ID:                   m.ID,
		OrderID:              m.OrderID,
		ProductName:          m.ProductName,
		ProductSpecification: m.ProductSpecification,
		TotalMoney:           m.TotalMoney,
		Note:                 m.Note,
		CreatedAt:            m.CreatedAt,
	}
}
