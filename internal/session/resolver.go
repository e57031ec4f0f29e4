package session

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/angelmondragon/printcrm/internal/catalog"
	"github.com/angelmondragon/printcrm/internal/pricing"
	pkgerrors "github.com/angelmondragon/printcrm/pkg/errors"
	"github.com/angelmondragon/printcrm/pkg/logger"
	"github.com/angelmondragon/printcrm/pkg/metrics"
)

// Lookup is the catalog surface the calculator depends on.
type Lookup interface {
	Specifications(ctx context.Context, productName string) ([]string, error)
	PriceRate(ctx context.Context, productName, specification string) (catalog.PriceRate, error)
	SizeLimits(ctx context.Context, productName string) (pricing.SizeLimits, error)
}

// Lookup kinds used in logs and metrics.
const (
	kindSpecifications = "specifications"
	kindPrice          = "price"
	kindLimits         = "limits"
)

// Resolved holds the lookups for one selection with defaults substituted.
// Specification is the one the rate belongs to.
type Resolved struct {
	Specifications []string
	Specification  string
	Rate           decimal.Decimal
	RateResolved   bool
	Limits         pricing.SizeLimits
	LimitsResolved bool
}

// Resolver runs catalog lookups and never fails: a missing row or a broken
// transport yields the safe default for that lookup alone.
type Resolver struct {
	lookup   Lookup
	logg     *logger.Logger
	metrics  *metrics.Metrics
	defaults pricing.SizeLimits
	timeout  time.Duration
}

// NewResolver builds a resolver. A zero timeout leaves the caller's deadline
// in charge.
func NewResolver(lookup Lookup, logg *logger.Logger, m *metrics.Metrics, defaults pricing.SizeLimits, timeout time.Duration) *Resolver {
	if logg == nil {
		logg = logger.Nop()
	}
	return &Resolver{
		lookup:   lookup,
		logg:     logg,
		metrics:  m,
		defaults: defaults.OrDefault(pricing.DefaultLimits()),
		timeout:  timeout,
	}
}

// Defaults returns the limits used when a product has none.
func (r *Resolver) Defaults() pricing.SizeLimits {
	return r.defaults
}

// Resolve fetches specifications, size limits and the price rate. The
// lookups run concurrently. Without a specification the rate is looked up for
// the first specification once the list arrives.
func (r *Resolver) Resolve(ctx context.Context, productName, specification string) Resolved {
	out := Resolved{Specifications: []string{}, Limits: r.defaults}
	if productName == "" {
		return out
	}
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	ctx = r.logg.WithField(ctx, "product_name", productName)

	out.Specification = specification
	var g errgroup.Group
	g.Go(func() error {
		specs, err := r.lookup.Specifications(ctx, productName)
		if err != nil {
			r.fallback(ctx, kindSpecifications, err)
			return nil
		}
		if specs != nil {
			out.Specifications = specs
		}
		if specification == "" && len(specs) > 0 {
			out.Specification = specs[0]
			r.price(ctx, productName, specs[0], &out)
		}
		return nil
	})
	g.Go(func() error {
		limits, err := r.lookup.SizeLimits(ctx, productName)
		if err != nil {
			r.fallback(ctx, kindLimits, err)
			return nil
		}
		out.Limits = limits.OrDefault(r.defaults)
		out.LimitsResolved = true
		return nil
	})
	if specification != "" {
		g.Go(func() error {
			r.price(ctx, productName, specification, &out)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func (r *Resolver) price(ctx context.Context, productName, specification string, out *Resolved) {
	ctx = r.logg.WithField(ctx, "product_specification", specification)
	rate, err := r.lookup.PriceRate(ctx, productName, specification)
	if err != nil {
		r.fallback(ctx, kindPrice, err)
		return
	}
	if rate.PricePerM2.IsNegative() {
		r.fallback(ctx, kindPrice, pkgerrors.New(pkgerrors.CodeValidation, "negative price"))
		return
	}
	out.Rate = rate.PricePerM2
	out.RateResolved = true
}

func (r *Resolver) fallback(ctx context.Context, kind string, err error) {
	reason := metrics.ReasonDependency
	switch {
	case pkgerrors.IsCode(err, pkgerrors.CodeNotFound):
		reason = metrics.ReasonNotFound
	case pkgerrors.IsCode(err, pkgerrors.CodeValidation):
		reason = metrics.ReasonInvalid
	}
	r.metrics.IncLookupFallback(kind, reason)
	ctx = r.logg.WithFields(ctx, map[string]any{"lookup": kind, "reason": reason})
	r.logg.WarnErr(ctx, "catalog lookup fell back to default", err)
}
