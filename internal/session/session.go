// Package session drives one order-creation flow: pick a product, price it,
// collect line items and submit the order.
package session

import (
	"context"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/printcrm/internal/cart"
	"github.com/angelmondragon/printcrm/internal/orders"
	"github.com/angelmondragon/printcrm/internal/pricing"
	pkgerrors "github.com/angelmondragon/printcrm/pkg/errors"
	"github.com/angelmondragon/printcrm/pkg/logger"
	"github.com/angelmondragon/printcrm/pkg/metrics"
)

// Submitter persists a finalized order.
type Submitter interface {
	SubmitOrder(ctx context.Context, payload orders.OrderPayload) (int64, error)
}

// Inputs are the raw calculator fields as typed by the user.
type Inputs struct {
	Length   string `json:"length"`
	Width    string `json:"width"`
	Quantity string `json:"quantity"`
}

func (in Inputs) toPricing(rate decimal.Decimal, limits pricing.SizeLimits) pricing.Input {
	return pricing.Input{
		Length:   pricing.Coerce(in.Length),
		Width:    pricing.Coerce(in.Width),
		Quantity: pricing.CoerceQuantity(in.Quantity),
		Rate:     rate,
		Limits:   limits,
	}
}

// Selection is the product and specification currently chosen. Generation
// increases with every change.
type Selection struct {
	ProductName          string `json:"productName"`
	ProductSpecification string `json:"productSpecification"`
	Generation           uint64 `json:"generation"`
}

// Session owns one cart and the lookups for the current selection.
type Session struct {
	id        string
	resolver  *Resolver
	submitter Submitter
	logg      *logger.Logger
	metrics   *metrics.Metrics

	mu        sync.Mutex
	cart      *cart.Store
	selection Selection
	resolved  Resolved
}

func newSession(id string, resolver *Resolver, submitter Submitter, logg *logger.Logger, m *metrics.Metrics) *Session {
	return &Session{
		id:        id,
		resolver:  resolver,
		submitter: submitter,
		logg:      logg,
		metrics:   m,
		cart:      cart.NewStore(),
		resolved:  Resolved{Specifications: []string{}, Limits: resolver.Defaults()},
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Select switches to productName/specification and resolves its lookups.
// A blank specification selects the first one the catalog lists.
// When another Select lands first, this call's results are discarded and
// stale is true; the returned view always reflects the current selection.
func (s *Session) Select(ctx context.Context, productName, specification string) (view View, stale bool, err error) {
	productName = strings.TrimSpace(productName)
	specification = strings.TrimSpace(specification)
	if productName == "" {
		return View{}, false, pkgerrors.New(pkgerrors.CodeValidation, "productName is required")
	}

	s.mu.Lock()
	s.selection = Selection{
		ProductName:          productName,
		ProductSpecification: specification,
		Generation:           s.selection.Generation + 1,
	}
	gen := s.selection.Generation
	s.resolved = Resolved{Specifications: []string{}, Limits: s.resolver.Defaults()}
	s.mu.Unlock()

	resolved := s.resolver.Resolve(s.logg.WithSessionID(ctx, s.id), productName, specification)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.selection.Generation {
		s.logg.Debug(s.logg.WithField(ctx, "generation", gen), "discarding stale lookup results")
		return s.viewLocked(), true, nil
	}
	s.resolved = resolved
	s.selection.ProductSpecification = resolved.Specification
	return s.viewLocked(), false, nil
}

// Quote prices in against the current selection.
func (s *Session) Quote(in Inputs) pricing.Quote {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metrics.IncQuote()
	return pricing.Compute(in.toPricing(s.resolved.Rate, s.resolved.Limits))
}

// AddToCart prices in and appends the result, with its total frozen, to the cart.
func (s *Session) AddToCart(in Inputs, note string) (cart.LineItem, pricing.Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selection.ProductName == "" {
		return cart.LineItem{}, pricing.Quote{}, pkgerrors.New(pkgerrors.CodeValidation, "select a product before adding to the cart")
	}
	quote := pricing.Compute(in.toPricing(s.resolved.Rate, s.resolved.Limits))
	item := cart.LineItem{
		ProductName:          s.selection.ProductName,
		ProductSpecification: s.selection.ProductSpecification,
		TotalMoney:           quote.Frozen(),
		Note:                 note,
	}
	s.cart.Add(item)
	s.metrics.IncQuote()
	s.metrics.IncCartItem()
	return item, quote, nil
}

// RemoveAt drops the cart entry at index.
func (s *Session) RemoveAt(index int) (cart.LineItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, err := s.cart.RemoveAt(index)
	if err != nil {
		return cart.LineItem{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cart index")
	}
	return item, nil
}

// Finalize assembles the order from billing and the cart and submits it
// once. The cart is cleared only when the submission succeeds.
func (s *Session) Finalize(ctx context.Context, billing orders.BillingFields) (int64, orders.OrderPayload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload := orders.Assemble(billing, s.cart.Snapshot())
	ctx = s.logg.WithSessionID(ctx, s.id)
	orderID, err := s.submitter.SubmitOrder(ctx, payload)
	s.metrics.ObserveOrderSubmission(err)
	if err != nil {
		s.logg.Error(ctx, "order submission failed", err)
		if pkgerrors.As(err) == nil {
			err = pkgerrors.Wrap(pkgerrors.CodeDependency, err, "order submission failed")
		}
		return 0, payload, err
	}
	s.cart.Clear()
	s.logg.Info(s.logg.WithOrderID(ctx, orderID), "order submitted")
	return orderID, payload, nil
}

// View snapshots the session state.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *Session) viewLocked() View {
	specs := make([]string, len(s.resolved.Specifications))
	copy(specs, s.resolved.Specifications)
	items := s.cart.Snapshot()
	return View{
		SessionID:      s.id,
		Selection:      s.selection,
		Specifications: specs,
		PricePerM2:     pricing.Money(s.resolved.Rate),
		RateResolved:   s.resolved.RateResolved,
		Limits: LimitsView{
			MaxSide:     s.resolved.Limits.MaxSide.String(),
			ExtraSupply: s.resolved.Limits.ExtraSupply.String(),
			Resolved:    s.resolved.LimitsResolved,
		},
		Cart: CartView{
			Items: items,
			Count: len(items),
			Total: pricing.Money(s.cart.Total()),
		},
	}
}

// View is the JSON shape of a session.
type View struct {
	SessionID      string     `json:"sessionId"`
	Selection      Selection  `json:"selection"`
	Specifications []string   `json:"specifications"`
	PricePerM2     string     `json:"pricePerM2"`
	RateResolved   bool       `json:"rateResolved"`
	Limits         LimitsView `json:"limits"`
	Cart           CartView   `json:"cart"`
}

type LimitsView struct {
	MaxSide     string `json:"maxSide"`
	ExtraSupply string `json:"extraSupply"`
	Resolved    bool   `json:"resolved"`
}

type CartView struct {
	Items []cart.LineItem `json:"items"`
	Count int             `json:"count"`
	Total string          `json:"total"`
}
