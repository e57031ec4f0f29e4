// Command quote prices a print job against a running printcrm API from the
// terminal.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/angelmondragon/printcrm/internal/catalog"
	"github.com/angelmondragon/printcrm/internal/pricing"
	"github.com/angelmondragon/printcrm/internal/session"
	"github.com/angelmondragon/printcrm/pkg/config"
	"github.com/angelmondragon/printcrm/pkg/env"
	"github.com/angelmondragon/printcrm/pkg/logger"
)

type options struct {
	baseURL       string
	product       string
	specification string
	length        string
	width         string
	quantity      string
	timeout       time.Duration
	listProducts  bool
	pricing       config.PricingConfig
}

func main() {
	_ = godotenv.Load()

	opts := options{baseURL: env.Get("PRINTCRM_LOOKUP_URL", "http://localhost:3007")}
	flag.StringVar(&opts.baseURL, "url", opts.baseURL, "printcrm API base url")
	flag.StringVar(&opts.product, "product", "", "product name")
	flag.StringVar(&opts.specification, "spec", "", "product specification")
	flag.StringVar(&opts.length, "length", "0", "length in metres")
	flag.StringVar(&opts.width, "width", "0", "width in metres")
	flag.StringVar(&opts.quantity, "qty", "1", "quantity")
	flag.DurationVar(&opts.timeout, "timeout", 3*time.Second, "lookup timeout")
	flag.BoolVar(&opts.listProducts, "list", false, "list products matching -product and exit")
	flag.Parse()

	pricingCfg, err := config.LoadPricing()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	opts.pricing = pricingCfg

	logg := logger.New(logger.Options{ServiceName: "quote", Level: logger.ParseLevel(env.Get(config.EnvLogLevel, "info")), Output: os.Stderr})

	if err := run(context.Background(), opts, logg, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, logg *logger.Logger, out io.Writer) error {
	client, err := catalog.NewRemoteClient(opts.baseURL)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")

	if opts.listProducts {
		names, err := client.ListProducts(ctx, opts.product)
		if err != nil {
			return fmt.Errorf("list products: %w", err)
		}
		return enc.Encode(catalog.ProductsDTO{Products: names})
	}

	if opts.product == "" {
		return fmt.Errorf("-product is required")
	}

	defaults := pricing.SizeLimits{
		MaxSide:     opts.pricing.MaxSide(),
		ExtraSupply: opts.pricing.ExtraSupply(),
	}
	resolver := session.NewResolver(client, logg, nil, defaults, opts.timeout)
	resolved := resolver.Resolve(ctx, opts.product, opts.specification)

	quote := pricing.Compute(pricing.Input{
		Length:   pricing.Coerce(opts.length),
		Width:    pricing.Coerce(opts.width),
		Quantity: pricing.CoerceQuantity(opts.quantity),
		Rate:     resolved.Rate,
		Limits:   resolved.Limits,
	})

	return enc.Encode(struct {
		ProductName          string               `json:"productName"`
		ProductSpecification string               `json:"productSpecification"`
		Specifications       []string             `json:"specifications"`
		RateResolved         bool                 `json:"rateResolved"`
		Quote                pricing.QuoteDisplay `json:"quote"`
	}{
		ProductName:          opts.product,
		ProductSpecification: resolved.Specification,
		Specifications:       resolved.Specifications,
		RateResolved:         resolved.RateResolved,
		Quote:                quote.Display(),
	})
}
