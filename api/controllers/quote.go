package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/printcrm/api/responses"
	"github.com/angelmondragon/printcrm/api/validators"
	"github.com/angelmondragon/printcrm/internal/orders"
	"github.com/angelmondragon/printcrm/internal/pricing"
	"github.com/angelmondragon/printcrm/internal/session"
	pkgerrors "github.com/angelmondragon/printcrm/pkg/errors"
	"github.com/angelmondragon/printcrm/pkg/logger"
)

// Quoter prices a one-off request with resolved lookups.
type Quoter interface {
	Quote(ctx context.Context, productName, specification string, in session.Inputs) (session.Resolved, pricing.Quote)
}

// inputsRequest accepts the calculator fields as JSON numbers or strings.
type inputsRequest struct {
	Length   orders.Amount `json:"length"`
	Width    orders.Amount `json:"width"`
	Quantity orders.Amount `json:"quantity"`
}

func (in inputsRequest) toInputs() session.Inputs {
	return session.Inputs{
		Length:   string(in.Length),
		Width:    string(in.Width),
		Quantity: string(in.Quantity),
	}
}

type quoteRequest struct {
	ProductName          string `json:"productName" validate:"required,max=255"`
	ProductSpecification string `json:"productSpecification" validate:"max=255"`
	inputsRequest
}

type quoteResponse struct {
	ProductName          string               `json:"productName"`
	ProductSpecification string               `json:"productSpecification"`
	RateResolved         bool                 `json:"rateResolved"`
	Limits               session.LimitsView   `json:"limits"`
	Quote                pricing.QuoteDisplay `json:"quote"`
}

// Quote prices a product without opening a session. Unresolvable lookups
// fall back to the default limits and a zero rate.
func Quote(svc Quoter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quote service unavailable"))
			return
		}

		var payload quoteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productName := validators.SanitizeString(payload.ProductName, maxNameLen)
		if productName == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "productName is required"))
			return
		}
		specification := validators.SanitizeString(payload.ProductSpecification, maxNameLen)
		resolved, quote := svc.Quote(r.Context(), productName, specification, payload.toInputs())

		responses.WriteSuccess(w, quoteResponse{
			ProductName:          productName,
			ProductSpecification: resolved.Specification,
			RateResolved:         resolved.RateResolved,
			Limits: session.LimitsView{
				MaxSide:     resolved.Limits.MaxSide.String(),
				ExtraSupply: resolved.Limits.ExtraSupply.String(),
				Resolved:    resolved.LimitsResolved,
			},
			Quote: quote.Display(),
		})
	}
}
