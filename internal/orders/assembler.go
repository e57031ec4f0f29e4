package orders

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/printcrm/internal/cart"
	"github.com/angelmondragon/printcrm/pkg/enums"
)

// Amount is a money field that may arrive as a JSON number, a JSON string
// or not at all.
type Amount string

// UnmarshalJSON accepts 12.5, "12.5" and null.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = Amount(s)
		return nil
	}
	*a = Amount(data)
	return nil
}

func (a Amount) parse() (decimal.Decimal, bool) {
	raw := strings.TrimSpace(string(a))
	if raw == "" {
		return decimal.Zero, false
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, false
	}
	return v, true
}

// BillingFields is the finalize form.
type BillingFields struct {
	StaffName      string `json:"staffName"`
	Designer       string `json:"designer"`
	CustomerName   string `json:"customerName"`
	PhoneNo        string `json:"phoneNo"`
	PaymentMethod  string `json:"paymentMethod"`
	DeliveryMethod string `json:"deliveryMethod"`
	Discount       Amount `json:"discount"`
	AmountToPay    Amount `json:"amountToPay"`
	Note           string `json:"note"`
}

// OrderPayload is the complete order handed to persistence.
type OrderPayload struct {
	StaffName      string          `json:"staffName"`
	Designer       string          `json:"designer"`
	CustomerName   string          `json:"customerName"`
	PhoneNo        string          `json:"phoneNo"`
	LineItems      []cart.LineItem `json:"lineItems"`
	PaymentMethod  string          `json:"paymentMethod"`
	DeliveryMethod string          `json:"deliveryMethod"`
	Discount       decimal.Decimal `json:"discount"`
	AmountToPay    decimal.Decimal `json:"amountToPay"`
	Note           string          `json:"note"`
}

// Subtotal sums the line totals.
func (p OrderPayload) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, item := range p.LineItems {
		sum = sum.Add(item.TotalMoney)
	}
	return sum
}

// Assemble builds the payload from the form and a cart snapshot. Nothing is
// validated: text is trimmed, an absent or unreadable discount is zero and an
// absent amount to pay is the subtotal less the discount, floored at zero.
func Assemble(billing BillingFields, snapshot []cart.LineItem) OrderPayload {
	items := make([]cart.LineItem, len(snapshot))
	copy(items, snapshot)

	payload := OrderPayload{
		StaffName:      strings.TrimSpace(billing.StaffName),
		Designer:       strings.TrimSpace(billing.Designer),
		CustomerName:   strings.TrimSpace(billing.CustomerName),
		PhoneNo:        strings.TrimSpace(billing.PhoneNo),
		LineItems:      items,
		PaymentMethod:  normalizePaymentMethod(billing.PaymentMethod),
		DeliveryMethod: normalizeDeliveryMethod(billing.DeliveryMethod),
		Note:           billing.Note,
	}

	payload.Discount, _ = billing.Discount.parse()
	if amount, ok := billing.AmountToPay.parse(); ok {
		payload.AmountToPay = amount
	} else {
		payload.AmountToPay = decimal.Max(payload.Subtotal().Sub(payload.Discount), decimal.Zero)
	}
	return payload
}

// Known methods are folded to their canonical spelling; anything else is kept
// as typed.
func normalizePaymentMethod(raw string) string {
	raw = strings.TrimSpace(raw)
	if m, err := enums.ParsePaymentMethod(strings.ToLower(raw)); err == nil {
		return m.String()
	}
	return raw
}

func normalizeDeliveryMethod(raw string) string {
	raw = strings.TrimSpace(raw)
	if m, err := enums.ParseDeliveryMethod(strings.ToLower(raw)); err == nil {
		return m.String()
	}
	return raw
}
