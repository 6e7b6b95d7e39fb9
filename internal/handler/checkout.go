package handler

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/gmoliveira/pizzaria-storefront/internal/checkout"
)

type checkoutRequest struct {
	Address checkout.Address `json:"address"`
}

type checkoutResponse struct {
	OrderID      string          `json:"orderId"`
	Status       string          `json:"status"`
	ItemCount    int             `json:"itemCount"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	DeliveryFee  decimal.Decimal `json:"deliveryFee"`
	Tax          decimal.Decimal `json:"tax"`
	Total        decimal.Decimal `json:"total"`
	ClientSecret string          `json:"clientSecret"`
	Amount       int64           `json:"amount"`
}

// Checkout submits the session's cart as an order and opens a payment intent
// for the total. The cart is kept until the client confirms payment, so a
// failed payment attempt can be retried without rebuilding it.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	sid, sess, ok := h.requireCustomer(w, r)
	if !ok {
		return
	}

	var req checkoutRequest
	if !decodeBody(w, r, &req) {
		return
	}

	items := h.carts.Items(r.Context(), sid)
	result, err := h.checkout.PlaceOrder(r.Context(), checkout.Request{
		CustomerID: sess.UserID,
		Address:    req.Address,
		Items:      items,
	})
	if err != nil {
		writeDomainError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusCreated, checkoutResponse{
		OrderID:      result.Order.ID.String(),
		Status:       result.Order.Status,
		ItemCount:    result.Quote.ItemCount,
		Subtotal:     result.Quote.Subtotal,
		DeliveryFee:  result.Quote.DeliveryFee,
		Tax:          result.Quote.Tax,
		Total:        result.Quote.Total,
		ClientSecret: result.ClientSecret,
		Amount:       result.AmountMinor,
	})
}

// ConfirmCheckout acknowledges a completed payment and empties the cart.
func (h *Handler) ConfirmCheckout(w http.ResponseWriter, r *http.Request) {
	sid, _, ok := h.requireCustomer(w, r)
	if !ok {
		return
	}

	if _, err := h.carts.Clear(r.Context(), sid); err != nil {
		writeDomainError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, h.cartResponse(nil, "order placed"))
}
