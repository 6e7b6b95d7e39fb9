package handler

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/gmoliveira/pizzaria-storefront/internal/domain/cart"
)

type cartLine struct {
	Key      string          `json:"key"`
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	Category string          `json:"category"`
	ImageURL string          `json:"imageUrl,omitempty"`
	Total    decimal.Decimal `json:"total"`
}

type cartSummary struct {
	ItemCount   int             `json:"itemCount"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	DeliveryFee decimal.Decimal `json:"deliveryFee"`
	Tax         decimal.Decimal `json:"tax"`
	Total       decimal.Decimal `json:"total"`
}

type cartResponse struct {
	Items   []cartLine  `json:"items"`
	Summary cartSummary `json:"summary"`
	Message string      `json:"message,omitempty"`
}

func (h *Handler) cartResponse(items []cart.LineItem, msg string) cartResponse {
	quote := h.pricing.QuoteFor(items)

	resp := cartResponse{
		Items: make([]cartLine, 0, len(items)),
		Summary: cartSummary{
			ItemCount:   quote.ItemCount,
			Subtotal:    quote.Subtotal,
			DeliveryFee: quote.DeliveryFee,
			Tax:         quote.Tax,
			Total:       quote.Total,
		},
		Message: msg,
	}
	for _, it := range items {
		resp.Items = append(resp.Items, cartLine{
			Key:      it.Key().String(),
			ID:       it.ID,
			Name:     it.Name,
			Price:    it.UnitPrice,
			Quantity: it.Quantity,
			Category: string(it.Category),
			ImageURL: it.ImageRef,
			Total:    it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))),
		})
	}
	return resp
}

// eventMessage renders a cart event as the toast message the web client shows.
func eventMessage(ev cart.Event) string {
	switch ev.Kind {
	case cart.EventAdded:
		return ev.Item.Name + " added to cart"
	case cart.EventMerged:
		return ev.Item.Name + " quantity increased"
	case cart.EventUpdated:
		return ev.Item.Name + " quantity updated"
	case cart.EventRemoved:
		return ev.Item.Name + " removed from cart"
	case cart.EventCleared:
		return "cart cleared"
	default:
		return ""
	}
}

// GetCart returns the session's cart with its price breakdown.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	sid := h.sessionID(w, r)
	items := h.carts.Items(r.Context(), sid)
	writeJSON(w, http.StatusOK, h.cartResponse(items, ""))
}

type addItemRequest struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	Category string          `json:"category"`
	ImageURL string          `json:"imageUrl"`
}

// AddItem puts a product in the cart. Adding a product already present merges
// into the existing line instead of creating a duplicate.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	sid := h.sessionID(w, r)

	var req addItemRequest
	if !decodeBody(w, r, &req) {
		return
	}
	category, err := cart.ParseCategory(req.Category)
	if err != nil {
		writeDomainError(r.Context(), w, err)
		return
	}
	if req.ID == "" {
		writeError(w, http.StatusBadRequest, "item id is required")
		return
	}
	qty := req.Quantity
	if qty == 0 {
		qty = 1
	}

	item := cart.LineItem{
		ID:        req.ID,
		Name:      req.Name,
		UnitPrice: req.Price,
		Category:  category,
		ImageRef:  req.ImageURL,
	}
	ev, err := h.carts.Add(r.Context(), sid, item, qty)
	if err != nil {
		writeDomainError(r.Context(), w, err)
		return
	}

	items := h.carts.Items(r.Context(), sid)
	writeJSON(w, http.StatusOK, h.cartResponse(items, eventMessage(ev)))
}

type updateItemRequest struct {
	Quantity int `json:"quantity"`
}

// UpdateItem sets a line's quantity. Zero or negative removes the line.
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	sid := h.sessionID(w, r)

	key, err := cart.ParseItemKey(r.PathValue("key"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req updateItemRequest
	if !decodeBody(w, r, &req) {
		return
	}

	ev, err := h.carts.UpdateQuantity(r.Context(), sid, key, req.Quantity)
	if err != nil {
		writeDomainError(r.Context(), w, err)
		return
	}

	items := h.carts.Items(r.Context(), sid)
	writeJSON(w, http.StatusOK, h.cartResponse(items, eventMessage(ev)))
}

// RemoveItem deletes one line from the cart. Removing an absent line is not
// an error: the line is gone either way.
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sid := h.sessionID(w, r)

	key, err := cart.ParseItemKey(r.PathValue("key"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ev, err := h.carts.Remove(r.Context(), sid, key)
	if err != nil {
		writeDomainError(r.Context(), w, err)
		return
	}

	items := h.carts.Items(r.Context(), sid)
	writeJSON(w, http.StatusOK, h.cartResponse(items, eventMessage(ev)))
}

// ClearCart empties the cart in one shot.
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	sid := h.sessionID(w, r)

	ev, err := h.carts.Clear(r.Context(), sid)
	if err != nil {
		writeDomainError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, h.cartResponse(nil, eventMessage(ev)))
}
