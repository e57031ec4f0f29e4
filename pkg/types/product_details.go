package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// ProductDetail is the stored shape of one ordered line item.
type ProductDetail struct {
	ProductName          string          `json:"productName"`
	ProductSpecification string          `json:"productSpecification"`
	TotalMoney           decimal.Decimal `json:"totalMoney"`
	Note                 string          `json:"note"`
}

// ProductDetails is persisted as a JSON document in customer_order.product_details.
type ProductDetails []ProductDetail

// Value implements driver.Valuer.
func (p ProductDetails) Value() (driver.Value, error) {
	if p == nil {
		return "[]", nil
	}
	raw, err := json.Marshal([]ProductDetail(p))
	if err != nil {
		return nil, fmt.Errorf("product details: %w", err)
	}
	return string(raw), nil
}

// Scan implements sql.Scanner for text, json and jsonb columns.
func (p *ProductDetails) Scan(value any) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*p = ProductDetails{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("product details: unsupported scan type %T", value)
	}
	if len(raw) == 0 {
		*p = ProductDetails{}
		return nil
	}
	var out []ProductDetail
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("product details: %w", err)
	}
	*p = ProductDetails(out)
	return nil
}
