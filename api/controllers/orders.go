package controllers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/printcrm/api/responses"
	"github.com/angelmondragon/printcrm/api/validators"
	"github.com/angelmondragon/printcrm/internal/cart"
	"github.com/angelmondragon/printcrm/internal/orders"
	pkgerrors "github.com/angelmondragon/printcrm/pkg/errors"
	"github.com/angelmondragon/printcrm/pkg/logger"
)

// OrderService persists and reads customer orders.
type OrderService interface {
	SubmitOrder(ctx context.Context, payload orders.OrderPayload) (int64, error)
	GetOrder(ctx context.Context, orderID int64) (*orders.OrderDTO, error)
	AddItem(ctx context.Context, orderID int64, item cart.LineItem) (*orders.CartItemDTO, error)
}

type lineItemRequest struct {
	ProductName          string        `json:"productName" validate:"required,max=255"`
	ProductSpecification string        `json:"productSpecification" validate:"max=255"`
	TotalMoney           orders.Amount `json:"totalMoney"`
	Note                 string        `json:"note" validate:"max=2000"`
}

func (li lineItemRequest) toLineItem(field string) (cart.LineItem, error) {
	total := decimal.Zero
	if raw := strings.TrimSpace(string(li.TotalMoney)); raw != "" {
		v, err := decimal.NewFromString(raw)
		if err != nil {
			return cart.LineItem{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "totalMoney must be a number").
				WithDetails(map[string]string{field: "must be numeric"})
		}
		total = v
	}
	if total.IsNegative() {
		return cart.LineItem{}, pkgerrors.New(pkgerrors.CodeValidation, "totalMoney must not be negative").
			WithDetails(map[string]string{field: "must be at least 0"})
	}
	return cart.LineItem{
		ProductName:          strings.TrimSpace(li.ProductName),
		ProductSpecification: strings.TrimSpace(li.ProductSpecification),
		TotalMoney:           total.Round(2),
		Note:                 li.Note,
	}, nil
}

type createOrderRequest struct {
	orders.BillingFields
	LineItems []lineItemRequest `json:"lineItems" validate:"dive"`
}

// OrderCreate stores an order whose line items arrive in the request body.
func OrderCreate(svc OrderService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		var payload createOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]cart.LineItem, 0, len(payload.LineItems))
		for i, li := range payload.LineItems {
			item, err := li.toLineItem(fmt.Sprintf("lineItems[%d].totalMoney", i))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			items = append(items, item)
		}

		order := orders.Assemble(payload.BillingFields, items)
		orderID, err := svc.SubmitOrder(r.Context(), order)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, finalizeResponse{OrderID: orderID, Order: order})
	}
}

func OrderDetail(svc OrderService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}
		orderID, err := validators.ParsePathInt(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.GetOrder(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// OrderAddItem appends one cart_items row to an existing order.
func OrderAddItem(svc OrderService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}
		orderID, err := validators.ParsePathInt(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload lineItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		item, err := payload.toLineItem("totalMoney")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.AddItem(r.Context(), orderID, item)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}
