package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/printcrm/api/responses"
	"github.com/angelmondragon/printcrm/api/validators"
	"github.com/angelmondragon/printcrm/internal/cart"
	"github.com/angelmondragon/printcrm/internal/orders"
	"github.com/angelmondragon/printcrm/internal/pricing"
	"github.com/angelmondragon/printcrm/internal/session"
	pkgerrors "github.com/angelmondragon/printcrm/pkg/errors"
	"github.com/angelmondragon/printcrm/pkg/logger"
)

// SessionRegistry hosts the open order-creation sessions.
type SessionRegistry interface {
	Create(ctx context.Context) (*session.Session, error)
	Get(id string) (*session.Session, error)
	Delete(id string) error
}

type selectionRequest struct {
	ProductName          string `json:"productName" validate:"required,max=255"`
	ProductSpecification string `json:"productSpecification" validate:"max=255"`
}

type selectionResponse struct {
	Session session.View `json:"session"`
	Stale   bool         `json:"stale"`
}

type addToCartRequest struct {
	inputsRequest
	Note string `json:"note" validate:"max=2000"`
}

type addToCartResponse struct {
	Item    cart.LineItem        `json:"item"`
	Quote   pricing.QuoteDisplay `json:"quote"`
	Session session.View         `json:"session"`
}

type removeFromCartResponse struct {
	Removed cart.LineItem `json:"removed"`
	Session session.View  `json:"session"`
}

type finalizeResponse struct {
	OrderID int64               `json:"orderId"`
	Order   orders.OrderPayload `json:"order"`
}

func SessionCreate(reg SessionRegistry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if reg == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session registry unavailable"))
			return
		}
		s, err := reg.Create(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, s.View())
	}
}

func SessionFetch(reg SessionRegistry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := sessionFromPath(reg, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, s.View())
	}
}

func SessionDelete(reg SessionRegistry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if reg == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session registry unavailable"))
			return
		}
		id := strings.TrimSpace(chi.URLParam(r, "sessionId"))
		if err := reg.Delete(id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"sessionId": id, "status": "deleted"})
	}
}

// SessionSelect sets the product and specification and waits for the
// lookups. A selection overtaken by a newer one reports stale=true.
func SessionSelect(reg SessionRegistry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := sessionFromPath(reg, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload selectionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, stale, err := s.Select(r.Context(), payload.ProductName, payload.ProductSpecification)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, selectionResponse{Session: view, Stale: stale})
	}
}

func SessionQuote(reg SessionRegistry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := sessionFromPath(reg, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload inputsRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, s.Quote(payload.toInputs()).Display())
	}
}

func SessionCartAdd(reg SessionRegistry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := sessionFromPath(reg, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload addToCartRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, quote, err := s.AddToCart(payload.toInputs(), payload.Note)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, addToCartResponse{
			Item:    item,
			Quote:   quote.Display(),
			Session: s.View(),
		})
	}
}

func SessionCartRemove(reg SessionRegistry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := sessionFromPath(reg, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		index, err := validators.ParsePathInt(r, "index")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		removed, err := s.RemoveAt(int(index))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, removeFromCartResponse{Removed: removed, Session: s.View()})
	}
}

// SessionFinalize submits the cart with the billing form. On failure the
// cart is left untouched so the request can be retried.
func SessionFinalize(reg SessionRegistry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := sessionFromPath(reg, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var billing orders.BillingFields
		if err := validators.DecodeJSONBody(r, &billing); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, payload, err := s.Finalize(r.Context(), billing)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, finalizeResponse{OrderID: orderID, Order: payload})
	}
}

func sessionFromPath(reg SessionRegistry, r *http.Request) (*session.Session, error) {
	if reg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "session registry unavailable")
	}
	id := strings.TrimSpace(chi.URLParam(r, "sessionId"))
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sessionId is required")
	}
	return reg.Get(id)
}
