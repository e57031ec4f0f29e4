package catalog

import "github.com/shopspring/decimal"

// PriceRate is the price per square metre of one product specification.
type PriceRate struct {
	ProductName          string          `json:"productName"`
	ProductSpecification string          `json:"productSpecification"`
	PricePerM2           decimal.Decimal `json:"pricePerM2"`
}

// SpecificationsDTO lists the specifications of a product.
type SpecificationsDTO struct {
	ProductName    string   `json:"productName"`
	Specifications []string `json:"specifications"`
}

// SizeLimitsDTO is the wire form of a product's size limits.
type SizeLimitsDTO struct {
	ProductName string          `json:"productName"`
	MaxSide     decimal.Decimal `json:"maxSide"`
	ExtraSupply decimal.Decimal `json:"extraSupply"`
}

// ProductsDTO is the product search result.
type ProductsDTO struct {
	Products []string `json:"products"`
}
