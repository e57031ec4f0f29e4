package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/printcrm/internal/catalog"
	"github.com/angelmondragon/printcrm/internal/orders"
	"github.com/angelmondragon/printcrm/internal/pricing"
	"github.com/angelmondragon/printcrm/pkg/config"
	pkgerrors "github.com/angelmondragon/printcrm/pkg/errors"
	"github.com/angelmondragon/printcrm/pkg/logger"
	"github.com/angelmondragon/printcrm/pkg/metrics"
)

type stubLookup struct {
	mu      sync.Mutex
	specs   map[string][]string
	rates   map[string]decimal.Decimal
	limits  map[string]pricing.SizeLimits
	failAll error
	// gate blocks lookups for a product until closed; entered is signalled first.
	gate    map[string]chan struct{}
	entered chan string
}

func newStubLookup() *stubLookup {
	return &stubLookup{
		specs: map[string][]string{
			"Banner":  {"Glossy", "Matte"},
			"Sticker": {"Vinyl"},
		},
		rates: map[string]decimal.Decimal{
			"Banner/Glossy": decimal.NewFromInt(50),
			"Sticker/Vinyl": decimal.NewFromInt(80),
		},
		limits: map[string]pricing.SizeLimits{
			"Banner":  {MaxSide: decimal.NewFromInt(3), ExtraSupply: decimal.NewFromInt(1)},
			"Sticker": {MaxSide: decimal.RequireFromString("1.2"), ExtraSupply: decimal.Zero},
		},
		gate: map[string]chan struct{}{},
	}
}

func (s *stubLookup) wait(product string) {
	s.mu.Lock()
	gate := s.gate[product]
	entered := s.entered
	s.mu.Unlock()
	if gate == nil {
		return
	}
	if entered != nil {
		select {
		case entered <- product:
		default:
		}
	}
	<-gate
}

func (s *stubLookup) Specifications(_ context.Context, product string) ([]string, error) {
	s.wait(product)
	if s.failAll != nil {
		return nil, s.failAll
	}
	specs, ok := s.specs[product]
	if !ok {
		return []string{}, nil
	}
	return specs, nil
}

func (s *stubLookup) PriceRate(_ context.Context, product, spec string) (catalog.PriceRate, error) {
	s.wait(product)
	if s.failAll != nil {
		return catalog.PriceRate{}, s.failAll
	}
	rate, ok := s.rates[product+"/"+spec]
	if !ok {
		return catalog.PriceRate{}, pkgerrors.New(pkgerrors.CodeNotFound, "price not found")
	}
	return catalog.PriceRate{ProductName: product, ProductSpecification: spec, PricePerM2: rate}, nil
}

func (s *stubLookup) SizeLimits(_ context.Context, product string) (pricing.SizeLimits, error) {
	s.wait(product)
	if s.failAll != nil {
		return pricing.SizeLimits{}, s.failAll
	}
	limits, ok := s.limits[product]
	if !ok {
		return pricing.SizeLimits{}, pkgerrors.New(pkgerrors.CodeNotFound, "size limits not found")
	}
	return limits, nil
}

type stubSubmitter struct {
	mu       sync.Mutex
	calls    int
	payloads []orders.OrderPayload
	err      error
}

func (s *stubSubmitter) SubmitOrder(_ context.Context, payload orders.OrderPayload) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.payloads = append(s.payloads, payload)
	if s.err != nil {
		return 0, s.err
	}
	return int64(100 + s.calls), nil
}

type fixture struct {
	lookup    *stubLookup
	submitter *stubSubmitter
	registry  *Registry
	reg       *prometheus.Registry
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	lookup := newStubLookup()
	sub := &stubSubmitter{}
	promReg := prometheus.NewRegistry()
	m := metrics.New(promReg)
	resolver := NewResolver(lookup, logger.Nop(), m, pricing.DefaultLimits(), time.Second)
	registry, err := NewRegistry(resolver, sub, config.SessionConfig{IdleTTL: time.Hour, MaxSessions: 10}, logger.Nop(), m)
	require.NoError(t, err)
	return &fixture{lookup: lookup, submitter: sub, registry: registry, reg: promReg}
}

func (f *fixture) session(t *testing.T) *Session {
	t.Helper()
	s, err := f.registry.Create(context.Background())
	require.NoError(t, err)
	return s
}

func TestBannerGlossyEndToEnd(t *testing.T) {
	f := newFixture(t)
	s := f.session(t)
	ctx := context.Background()

	view, stale, err := s.Select(ctx, "Banner", "Glossy")
	require.NoError(t, err)
	require.False(t, stale)
	assert.Equal(t, []string{"Glossy", "Matte"}, view.Specifications)
	assert.Equal(t, "50.00", view.PricePerM2)
	assert.Equal(t, "3", view.Limits.MaxSide)

	quote := s.Quote(Inputs{Length: "2", Width: "1", Quantity: "3"})
	disp := quote.Display()
	assert.Equal(t, "2.00", disp.TotalSize)
	assert.Equal(t, "100.00", disp.PrintingCost)
	assert.Equal(t, "0.00", disp.LeftMaterial)
	assert.Equal(t, "100.00", disp.PerPieceCost)
	assert.Equal(t, "300.00", disp.TotalCost)

	item, _, err := s.AddToCart(Inputs{Length: "2", Width: "1", Quantity: "3"}, "rush")
	require.NoError(t, err)
	assert.Equal(t, "Banner", item.ProductName)
	assert.Equal(t, "Glossy", item.ProductSpecification)
	assert.True(t, item.TotalMoney.Equal(decimal.NewFromInt(300)))

	orderID, payload, err := s.Finalize(ctx, orders.BillingFields{StaffName: "Linh", CustomerName: "ACME", PhoneNo: "0901"})
	require.NoError(t, err)
	assert.Equal(t, int64(101), orderID)
	require.Len(t, payload.LineItems, 1)
	assert.True(t, payload.AmountToPay.Equal(decimal.NewFromInt(300)))
	assert.Zero(t, s.View().Cart.Count, "cart is cleared after a successful submission")
}

func TestUnresolvablePriceFallsBackToZero(t *testing.T) {
	f := newFixture(t)
	s := f.session(t)

	view, _, err := s.Select(context.Background(), "Banner", "Satin")
	require.NoError(t, err)
	assert.Equal(t, "0.00", view.PricePerM2)
	assert.False(t, view.RateResolved)

	quote := s.Quote(Inputs{Length: "2", Width: "2", Quantity: "4"})
	assert.True(t, quote.TotalCost.IsZero())

	mfs, err := f.reg.Gather()
	require.NoError(t, err)
	assert.True(t, hasCounter(mfs, "printcrm_lookup_fallbacks_total", "kind", "price"))
}

func TestTransportFailureUsesDefaults(t *testing.T) {
	f := newFixture(t)
	f.lookup.failAll = pkgerrors.Wrap(pkgerrors.CodeDependency, errors.New("dial tcp: refused"), "execute catalog request")
	s := f.session(t)

	view, _, err := s.Select(context.Background(), "Banner", "Glossy")
	require.NoError(t, err)
	assert.Empty(t, view.Specifications)
	assert.NotNil(t, view.Specifications)
	assert.Equal(t, "0.00", view.PricePerM2)
	assert.Equal(t, "3", view.Limits.MaxSide)
	assert.Equal(t, "1", view.Limits.ExtraSupply)
	assert.False(t, view.Limits.Resolved)

	quote := s.Quote(Inputs{Length: "1", Width: "1"})
	assert.True(t, quote.TotalCost.IsZero())

	mfs, err := f.reg.Gather()
	require.NoError(t, err)
	assert.True(t, hasCounter(mfs, "printcrm_lookup_fallbacks_total", "reason", metrics.ReasonDependency))
}

func TestSelectRequiresProduct(t *testing.T) {
	f := newFixture(t)
	_, _, err := f.session(t).Select(context.Background(), "  ", "")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestStaleLookupResultsAreDiscarded(t *testing.T) {
	f := newFixture(t)
	gate := make(chan struct{})
	f.lookup.gate["Banner"] = gate
	f.lookup.entered = make(chan string, 3)
	s := f.session(t)
	ctx := context.Background()

	type result struct {
		view  View
		stale bool
		err   error
	}
	first := make(chan result, 1)
	go func() {
		v, stale, err := s.Select(ctx, "Banner", "Glossy")
		first <- result{v, stale, err}
	}()

	select {
	case <-f.lookup.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("banner lookup never started")
	}

	view, stale, err := s.Select(ctx, "Sticker", "Vinyl")
	require.NoError(t, err)
	require.False(t, stale)
	assert.Equal(t, "80.00", view.PricePerM2)

	close(gate)
	var got result
	select {
	case got = <-first:
	case <-time.After(2 * time.Second):
		t.Fatal("banner select never returned")
	}
	require.NoError(t, got.err)
	assert.True(t, got.stale)
	assert.Equal(t, "Sticker", got.view.Selection.ProductName)
	assert.Equal(t, "80.00", got.view.PricePerM2)

	current := s.View()
	assert.Equal(t, "Sticker", current.Selection.ProductName)
	assert.Equal(t, uint64(2), current.Selection.Generation)
	assert.Equal(t, []string{"Vinyl"}, current.Specifications)
	assert.Equal(t, "1.2", current.Limits.MaxSide)
}

func TestAddToCartRequiresSelection(t *testing.T) {
	f := newFixture(t)
	_, _, err := f.session(t).AddToCart(Inputs{Length: "1", Width: "1"}, "")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestAddedItemsAreFrozen(t *testing.T) {
	f := newFixture(t)
	s := f.session(t)
	ctx := context.Background()

	_, _, err := s.Select(ctx, "Banner", "Glossy")
	require.NoError(t, err)
	_, _, err = s.AddToCart(Inputs{Length: "1", Width: "1"}, "")
	require.NoError(t, err)

	f.lookup.rates["Banner/Glossy"] = decimal.NewFromInt(999)
	_, _, err = s.Select(ctx, "Banner", "Glossy")
	require.NoError(t, err)

	items := s.View().Cart.Items
	require.Len(t, items, 1)
	assert.True(t, items[0].TotalMoney.Equal(decimal.NewFromInt(50)))
}

func TestRemoveAtInvalidIndex(t *testing.T) {
	f := newFixture(t)
	_, err := f.session(t).RemoveAt(0)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestFailedSubmissionKeepsCart(t *testing.T) {
	f := newFixture(t)
	f.submitter.err = pkgerrors.Wrap(pkgerrors.CodeDependency, errors.New("db down"), "order submission failed")
	s := f.session(t)
	ctx := context.Background()

	_, _, err := s.Select(ctx, "Banner", "Glossy")
	require.NoError(t, err)
	_, _, err = s.AddToCart(Inputs{Length: "2", Width: "1", Quantity: "3"}, "")
	require.NoError(t, err)

	_, _, err = s.Finalize(ctx, orders.BillingFields{StaffName: "Linh"})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
	assert.Equal(t, 1, f.submitter.calls, "exactly one submission per finalize")
	assert.Equal(t, 1, s.View().Cart.Count)

	f.submitter.err = nil
	_, _, err = s.Finalize(ctx, orders.BillingFields{StaffName: "Linh"})
	require.NoError(t, err)
	assert.Equal(t, 2, f.submitter.calls)
	assert.Zero(t, s.View().Cart.Count)
}

func TestPlainSubmitterErrorIsWrapped(t *testing.T) {
	f := newFixture(t)
	f.submitter.err = errors.New("boom")
	_, _, err := f.session(t).Finalize(context.Background(), orders.BillingFields{})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
}

func TestSelectWithoutSpecificationTakesFirst(t *testing.T) {
	f := newFixture(t)
	s := f.session(t)
	ctx := context.Background()

	view, stale, err := s.Select(ctx, "Banner", "")
	require.NoError(t, err)
	require.False(t, stale)
	assert.Equal(t, "Glossy", view.Selection.ProductSpecification)
	assert.Equal(t, "50.00", view.PricePerM2)
	assert.True(t, view.RateResolved)

	item, _, err := s.AddToCart(Inputs{Length: "2", Width: "1", Quantity: "3"}, "")
	require.NoError(t, err)
	assert.Equal(t, "Glossy", item.ProductSpecification)
	assert.True(t, item.TotalMoney.Equal(decimal.NewFromInt(300)))
}

func TestSelectWithoutSpecificationsLeavesBlank(t *testing.T) {
	f := newFixture(t)
	s := f.session(t)

	view, _, err := s.Select(context.Background(), "Mug", "")
	require.NoError(t, err)
	assert.Empty(t, view.Selection.ProductSpecification)
	assert.Equal(t, "0.00", view.PricePerM2)
	assert.False(t, view.RateResolved)
}
