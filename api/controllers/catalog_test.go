package controllers

import (
	"context"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/printcrm/internal/catalog"
	"github.com/angelmondragon/printcrm/internal/pricing"
	pkgerrors "github.com/angelmondragon/printcrm/pkg/errors"
)

type stubCatalog struct {
	products  []string
	lastQuery string
	specs     map[string][]string
	rates     map[string]decimal.Decimal
	limits    map[string]pricing.SizeLimits
}

func newStubCatalog() *stubCatalog {
	return &stubCatalog{
		products: []string{"Banner", "Sticker"},
		specs:    map[string][]string{"Banner": {"Glossy", "Matte"}},
		rates:    map[string]decimal.Decimal{"Banner/Glossy": decimal.NewFromInt(50)},
		limits: map[string]pricing.SizeLimits{
			"Banner": {MaxSide: decimal.NewFromInt(3), ExtraSupply: decimal.NewFromInt(1)},
		},
	}
}

func (s *stubCatalog) ListProducts(_ context.Context, query string) ([]string, error) {
	s.lastQuery = query
	if query == "zzz" {
		return nil, nil
	}
	return s.products, nil
}

func (s *stubCatalog) Specifications(_ context.Context, productName string) ([]string, error) {
	return s.specs[productName], nil
}

func (s *stubCatalog) PriceRate(_ context.Context, productName, specification string) (catalog.PriceRate, error) {
	rate, ok := s.rates[productName+"/"+specification]
	if !ok {
		return catalog.PriceRate{}, pkgerrors.New(pkgerrors.CodeNotFound, "price not found")
	}
	return catalog.PriceRate{ProductName: productName, ProductSpecification: specification, PricePerM2: rate}, nil
}

func (s *stubCatalog) SizeLimits(_ context.Context, productName string) (pricing.SizeLimits, error) {
	limits, ok := s.limits[productName]
	if !ok {
		return pricing.SizeLimits{}, pkgerrors.New(pkgerrors.CodeNotFound, "size limits not found")
	}
	return limits, nil
}

func TestProductListPassesQuery(t *testing.T) {
	svc := newStubCatalog()
	resp := serve(t, http.MethodGet, "/api/v1/products", "/api/v1/products?q=%20ban%20", "", ProductList(svc, nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.lastQuery != "ban" {
		t.Fatalf("expected trimmed query, got %q", svc.lastQuery)
	}
	var payload catalog.ProductsDTO
	decodeData(t, resp, &payload)
	if len(payload.Products) != 2 {
		t.Fatalf("unexpected products %v", payload.Products)
	}
}

func TestProductListEmptyIsArray(t *testing.T) {
	resp := serve(t, http.MethodGet, "/api/v1/products", "/api/v1/products?q=zzz", "", ProductList(newStubCatalog(), nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if body := resp.Body.String(); body != "{\"data\":{\"products\":[]}}\n" {
		t.Fatalf("unexpected body %s", body)
	}
}

func TestProductSpecificationsRequiresName(t *testing.T) {
	resp := serve(t, http.MethodGet, "/api/v1/products/specifications", "/api/v1/products/specifications", "", ProductSpecifications(newStubCatalog(), nil))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestProductSpecifications(t *testing.T) {
	resp := serve(t, http.MethodGet, "/api/v1/products/specifications", "/api/v1/products/specifications?productName=Banner", "", ProductSpecifications(newStubCatalog(), nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var payload catalog.SpecificationsDTO
	decodeData(t, resp, &payload)
	if len(payload.Specifications) != 2 || payload.Specifications[0] != "Glossy" {
		t.Fatalf("unexpected specifications %v", payload.Specifications)
	}
}

func TestProductPrice(t *testing.T) {
	resp := serve(t, http.MethodGet, "/api/v1/products/price", "/api/v1/products/price?productName=Banner&productSpecification=Glossy", "", ProductPrice(newStubCatalog(), nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var payload catalog.PriceRate
	decodeData(t, resp, &payload)
	if !payload.PricePerM2.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("unexpected rate %s", payload.PricePerM2)
	}
}

func TestProductPriceNotFound(t *testing.T) {
	resp := serve(t, http.MethodGet, "/api/v1/products/price", "/api/v1/products/price?productName=Banner&productSpecification=Canvas", "", ProductPrice(newStubCatalog(), nil))

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
	if code := errorCode(t, resp); code != string(pkgerrors.CodeNotFound) {
		t.Fatalf("unexpected code %s", code)
	}
}

func TestProductMaxSide(t *testing.T) {
	svc := newStubCatalog()

	resp := serve(t, http.MethodGet, "/api/v1/products/max-side", "/api/v1/products/max-side?productName=Banner", "", ProductMaxSide(svc, nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var payload catalog.SizeLimitsDTO
	decodeData(t, resp, &payload)
	if !payload.MaxSide.Equal(decimal.NewFromInt(3)) {
		t.Fatalf("unexpected max side %s", payload.MaxSide)
	}

	missing := serve(t, http.MethodGet, "/api/v1/products/max-side", "/api/v1/products/max-side?productName=Mug", "", ProductMaxSide(svc, nil))
	if missing.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", missing.Code)
	}
}
