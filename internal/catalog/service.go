// Package catalog answers product, specification, price and size-limit
// lookups for the order-creation calculator.
package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/printcrm/internal/pricing"
	"github.com/angelmondragon/printcrm/internal/repo"
	"github.com/angelmondragon/printcrm/pkg/db/models"
	pkgerrors "github.com/angelmondragon/printcrm/pkg/errors"
	"github.com/shopspring/decimal"
)

// Service exposes catalog lookups. Missing rows surface as CodeNotFound and
// storage failures as CodeDependency.
type Service interface {
	ListProducts(ctx context.Context, query string) ([]string, error)
	Specifications(ctx context.Context, productName string) ([]string, error)
	PriceRate(ctx context.Context, productName, specification string) (PriceRate, error)
	SizeLimits(ctx context.Context, productName string) (pricing.SizeLimits, error)
}

type priceRepository interface {
	ListProductNames(ctx context.Context, query string) ([]string, error)
	ListSpecifications(ctx context.Context, productName string) ([]string, error)
	FindPrice(ctx context.Context, productName, specification string) (*models.PriceEntry, error)
	FindLimits(ctx context.Context, productName string) (*models.PriceEntry, error)
}

type service struct {
	repo     priceRepository
	defaults pricing.SizeLimits
}

// NewService builds the database-backed catalog. defaults fill null or
// invalid size-limit columns.
func NewService(repo priceRepository, defaults pricing.SizeLimits) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("price repository required")
	}
	return &service{repo: repo, defaults: defaults.OrDefault(pricing.DefaultLimits())}, nil
}

func (s *service) ListProducts(ctx context.Context, query string) ([]string, error) {
	names, err := s.repo.ListProductNames(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return names, nil
}

func (s *service) Specifications(ctx context.Context, productName string) ([]string, error) {
	productName, err := requireName(productName)
	if err != nil {
		return nil, err
	}
	specs, err := s.repo.ListSpecifications(ctx, productName)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list specifications")
	}
	return specs, nil
}

func (s *service) PriceRate(ctx context.Context, productName, specification string) (PriceRate, error) {
	productName, err := requireName(productName)
	if err != nil {
		return PriceRate{}, err
	}
	entry, err := s.repo.FindPrice(ctx, productName, specification)
	if err != nil {
		return PriceRate{}, mapLookupErr(err, "price not found", "load price")
	}
	if !entry.PricePerM2.Valid || entry.PricePerM2.Decimal.IsNegative() {
		return PriceRate{}, pkgerrors.New(pkgerrors.CodeNotFound, "price not found")
	}
	return PriceRate{
		ProductName:          entry.ProductName,
		ProductSpecification: entry.ProductSpecification,
		PricePerM2:           entry.PricePerM2.Decimal,
	}, nil
}

func (s *service) SizeLimits(ctx context.Context, productName string) (pricing.SizeLimits, error) {
	productName, err := requireName(productName)
	if err != nil {
		return pricing.SizeLimits{}, err
	}
	entry, err := s.repo.FindLimits(ctx, productName)
	if err != nil {
		return pricing.SizeLimits{}, mapLookupErr(err, "size limits not found", "load size limits")
	}
	limits := pricing.SizeLimits{
		MaxSide:     nullOr(entry.MaxSide, s.defaults.MaxSide),
		ExtraSupply: nullOr(entry.ExtraSupply, s.defaults.ExtraSupply),
	}
	return limits.OrDefault(s.defaults), nil
}

func requireName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "productName is required")
	}
	return name, nil
}

func mapLookupErr(err error, notFoundMsg, failMsg string) error {
	if repo.IsNotFound(err) {
		return pkgerrors.New(pkgerrors.CodeNotFound, notFoundMsg)
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, failMsg)
}

func nullOr(v decimal.NullDecimal, fallback decimal.Decimal) decimal.Decimal {
	if !v.Valid {
		return fallback
	}
	return v.Decimal
}
