package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/printcrm/api/responses"
	"github.com/angelmondragon/printcrm/api/validators"
	"github.com/angelmondragon/printcrm/internal/catalog"
	"github.com/angelmondragon/printcrm/internal/pricing"
	pkgerrors "github.com/angelmondragon/printcrm/pkg/errors"
	"github.com/angelmondragon/printcrm/pkg/logger"
)

const maxNameLen = 255

// CatalogService is the lookup surface behind the product endpoints.
type CatalogService interface {
	ListProducts(ctx context.Context, query string) ([]string, error)
	Specifications(ctx context.Context, productName string) ([]string, error)
	PriceRate(ctx context.Context, productName, specification string) (catalog.PriceRate, error)
	SizeLimits(ctx context.Context, productName string) (pricing.SizeLimits, error)
}

// ProductList returns distinct product names, filtered by ?q= when present.
func ProductList(svc CatalogService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		query := validators.SanitizeString(r.URL.Query().Get("q"), maxNameLen)

		names, err := svc.ListProducts(r.Context(), query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if names == nil {
			names = []string{}
		}
		responses.WriteSuccess(w, catalog.ProductsDTO{Products: names})
	}
}

func ProductSpecifications(svc CatalogService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		productName, err := validators.RequireQuery(r, "productName", maxNameLen)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		specs, err := svc.Specifications(r.Context(), productName)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if specs == nil {
			specs = []string{}
		}
		responses.WriteSuccess(w, catalog.SpecificationsDTO{ProductName: productName, Specifications: specs})
	}
}

func ProductPrice(svc CatalogService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		productName, err := validators.RequireQuery(r, "productName", maxNameLen)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		specification, err := validators.RequireQuery(r, "productSpecification", maxNameLen)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rate, err := svc.PriceRate(r.Context(), productName, specification)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rate)
	}
}

func ProductMaxSide(svc CatalogService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		productName, err := validators.RequireQuery(r, "productName", maxNameLen)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limits, err := svc.SizeLimits(r.Context(), productName)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, catalog.SizeLimitsDTO{
			ProductName: productName,
			MaxSide:     limits.MaxSide,
			ExtraSupply: limits.ExtraSupply,
		})
	}
}
