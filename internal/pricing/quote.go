package pricing

import "github.com/shopspring/decimal"

// Input is one set of calculator fields plus the resolved lookups.
type Input struct {
	Length   decimal.Decimal
	Width    decimal.Decimal
	Quantity decimal.Decimal
	Rate     decimal.Decimal
	Limits   SizeLimits
}

// Quote holds every derived figure at full precision.
type Quote struct {
	Rate         decimal.Decimal
	Quantity     decimal.Decimal
	Area         decimal.Decimal
	PrintingCost decimal.Decimal
	LeftMaterial decimal.Decimal
	PerPieceCost decimal.Decimal
	TotalCost    decimal.Decimal
}

// QuoteDisplay is a Quote rounded for presentation.
type QuoteDisplay struct {
	PricePerM2   string `json:"pricePerM2"`
	Quantity     string `json:"quantity"`
	TotalSize    string `json:"totalSize"`
	PrintingCost string `json:"printingMoney"`
	LeftMaterial string `json:"leftMaterial"`
	PerPieceCost string `json:"perPieceMoney"`
	TotalCost    string `json:"totalMoney"`
}

// Compute chains the pricing functions. Limits are completed with the
// built-in defaults. Without a positive rate the piece has no price, so the
// waste charge is dropped along with the printing cost.
func Compute(in Input) Quote {
	limits := in.Limits.OrDefault(DefaultLimits())
	rate := nonNegative(in.Rate)
	qty := atLeastOne(in.Quantity)

	area := Area(in.Length, in.Width)
	printing := PrintingCost(area, rate)
	left := decimal.Zero
	if rate.IsPositive() {
		left = LeftMaterial(in.Length, in.Width, limits.MaxSide, limits.ExtraSupply)
	}
	perPiece := PerPieceCost(printing, left)

	return Quote{
		Rate:         rate,
		Quantity:     qty,
		Area:         area,
		PrintingCost: printing,
		LeftMaterial: left,
		PerPieceCost: perPiece,
		TotalCost:    TotalCost(perPiece, qty),
	}
}

// Display rounds every money figure to two places.
func (q Quote) Display() QuoteDisplay {
	return QuoteDisplay{
		PricePerM2:   Money(q.Rate),
		Quantity:     q.Quantity.String(),
		TotalSize:    Money(q.Area),
		PrintingCost: Money(q.PrintingCost),
		LeftMaterial: Money(q.LeftMaterial),
		PerPieceCost: Money(q.PerPieceCost),
		TotalCost:    Money(q.TotalCost),
	}
}

// Money formats v with exactly two decimals.
func Money(v decimal.Decimal) string {
	return v.StringFixed(2)
}

// Frozen rounds the total the way it is stored on a line item.
func (q Quote) Frozen() decimal.Decimal {
	return q.TotalCost.Round(2)
}
