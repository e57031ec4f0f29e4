package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestComputeBannerGlossy(t *testing.T) {
	q := Compute(Input{
		Length:   d("2"),
		Width:    d("1"),
		Quantity: d("3"),
		Rate:     d("50"),
		Limits:   SizeLimits{MaxSide: d("3"), ExtraSupply: d("1")},
	})

	got := q.Display()
	want := QuoteDisplay{
		PricePerM2:   "50.00",
		Quantity:     "3",
		TotalSize:    "2.00",
		PrintingCost: "100.00",
		LeftMaterial: "0.00",
		PerPieceCost: "100.00",
		TotalCost:    "300.00",
	}
	if got != want {
		t.Fatalf("unexpected display\n got: %+v\nwant: %+v", got, want)
	}
	if !q.Frozen().Equal(d("300")) {
		t.Fatalf("unexpected frozen total %s", q.Frozen())
	}
}

func TestComputeWithoutRateIsFree(t *testing.T) {
	for _, dims := range [][2]string{{"2", "1"}, {"2", "2"}, {"1.3", "0.8"}, {"10", "4"}} {
		q := Compute(Input{
			Length:   d(dims[0]),
			Width:    d(dims[1]),
			Quantity: d("5"),
			Limits:   DefaultLimits(),
		})
		disp := q.Display()
		if disp.PricePerM2 != "0.00" {
			t.Fatalf("expected rate 0.00, got %s", disp.PricePerM2)
		}
		if !q.TotalCost.IsZero() {
			t.Fatalf("expected zero total for %v, got %s", dims, q.TotalCost)
		}
	}
}

func TestComputeAddsLeftMaterial(t *testing.T) {
	q := Compute(Input{
		Length:   d("3"),
		Width:    d("2"),
		Quantity: decimal.Zero,
		Rate:     d("10"),
	})
	// area 6, printing 60, cut side 2 leaves 1 with the default limits.
	if !q.LeftMaterial.Equal(d("1")) || !q.PerPieceCost.Equal(d("61")) || !q.TotalCost.Equal(d("61")) {
		t.Fatalf("unexpected quote %+v", q.Display())
	}
	if !q.Quantity.Equal(d("1")) {
		t.Fatalf("expected quantity to be raised to 1, got %s", q.Quantity)
	}
}

func TestComputeKeepsPrecisionUntilDisplay(t *testing.T) {
	q := Compute(Input{
		Length:   d("1.005"),
		Width:    d("1"),
		Quantity: d("3"),
		Rate:     d("1"),
		Limits:   SizeLimits{MaxSide: d("3"), ExtraSupply: decimal.Zero},
	})
	if !q.TotalCost.Equal(d("3.015")) {
		t.Fatalf("expected unrounded total 3.015, got %s", q.TotalCost)
	}
	if got := q.Display().TotalCost; got != "3.02" {
		t.Fatalf("expected display 3.02, got %s", got)
	}
}

func TestComputeHonorsExplicitZeroExtraSupply(t *testing.T) {
	q := Compute(Input{
		Length:   d("3"),
		Width:    d("2"),
		Quantity: d("1"),
		Rate:     d("10"),
		Limits:   SizeLimits{MaxSide: d("3"), ExtraSupply: decimal.Zero},
	})
	if !q.LeftMaterial.IsZero() || !q.TotalCost.Equal(d("60")) {
		t.Fatalf("unexpected quote %+v", q.Display())
	}
}
