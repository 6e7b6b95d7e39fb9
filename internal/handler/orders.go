package handler

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gmoliveira/pizzaria-storefront/internal/backend"
	"github.com/gmoliveira/pizzaria-storefront/internal/domain/order"
	"github.com/gmoliveira/pizzaria-storefront/internal/tracker"
)

type orderLine struct {
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Type      string          `json:"type"`
}

type orderResponse struct {
	ID        string          `json:"id"`
	Status    string          `json:"status"`
	Total     decimal.Decimal `json:"total"`
	Address   string          `json:"address"`
	CreatedAt string          `json:"createdAt"`
	Items     []orderLine     `json:"items"`
}

func toOrderResponse(o backend.Order) orderResponse {
	resp := orderResponse{
		ID:        o.ID.String(),
		Status:    normalizeStatus(o.Status),
		Total:     o.TotalPrice,
		Address:   o.Address,
		CreatedAt: o.CreatedAt,
		Items:     make([]orderLine, 0, len(o.Items)),
	}
	for _, it := range o.Items {
		resp.Items = append(resp.Items, orderLine{
			ProductID: it.ProductID.String(),
			Quantity:  it.Quantity,
			Price:     it.Price,
			Type:      it.Type,
		})
	}
	return resp
}

// normalizeStatus maps the backend's status spelling to the canonical form,
// passing unknown values through untouched rather than hiding the order.
func normalizeStatus(raw string) string {
	st, err := order.Parse(raw)
	if err != nil {
		return raw
	}
	return string(st)
}

// ListOrders returns the authenticated customer's order history.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	_, sess, ok := h.requireCustomer(w, r)
	if !ok {
		return
	}

	orders, err := h.backend.OrdersByCustomer(r.Context(), sess.UserID)
	if err != nil {
		writeDomainError(r.Context(), w, err)
		return
	}

	resp := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		resp = append(resp, toOrderResponse(o))
	}
	writeJSON(w, http.StatusOK, resp)
}

type statusResponse struct {
	OrderID    string `json:"orderId"`
	Status     string `json:"status"`
	StageIndex int    `json:"stageIndex"`
	StageCount int    `json:"stageCount"`
	Cancelled  bool   `json:"cancelled"`
	Terminal   bool   `json:"terminal"`
	Tracking   bool   `json:"tracking"`
	LastSeen   string `json:"lastSeen,omitempty"`
}

func toStatusResponse(snap tracker.Snapshot, tracking bool) statusResponse {
	resp := statusResponse{
		OrderID:    snap.OrderID,
		Status:     string(snap.Status),
		StageIndex: snap.StageIndex,
		StageCount: order.StageCount,
		Cancelled:  snap.Cancelled,
		Terminal:   snap.Terminal,
		Tracking:   tracking,
	}
	if !snap.LastSeen.IsZero() {
		resp.LastSeen = snap.LastSeen.UTC().Format(time.RFC3339)
	}
	return resp
}

// OrderStatus reports where an order sits on the delivery timeline. When the
// order is being tracked the last polled snapshot is served; otherwise the
// backend is asked once, without starting a polling loop.
func (h *Handler) OrderStatus(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := h.requireCustomer(w, r); !ok {
		return
	}
	orderID := r.PathValue("id")

	if snap, ok := h.tracker.Snapshot(orderID); ok && snap.Known {
		writeJSON(w, http.StatusOK, toStatusResponse(snap, true))
		return
	}

	st, err := h.backend.OrderStatus(r.Context(), orderID)
	if err != nil {
		writeDomainError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{
		OrderID:    orderID,
		Status:     string(st),
		StageIndex: st.StageIndex(),
		StageCount: order.StageCount,
		Cancelled:  st.Cancelled(),
		Terminal:   st.Terminal(),
	})
}

// TrackOrder starts (or joins) the background polling loop for an order and
// returns the current snapshot. The loop keeps running after this request
// finishes, until the order reaches a terminal status or is untracked.
func (h *Handler) TrackOrder(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := h.requireCustomer(w, r); !ok {
		return
	}
	orderID := r.PathValue("id")

	handle := h.tracker.Track(r.Context(), orderID)
	writeJSON(w, http.StatusOK, toStatusResponse(handle.Snapshot(), true))
}

// UntrackOrder stops the polling loop for an order, if one is running.
func (h *Handler) UntrackOrder(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := h.requireCustomer(w, r); !ok {
		return
	}

	h.tracker.Stop(r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateOrderStatus moves an order to a new stage. Employees only.
func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireEmployee(w, r); !ok {
		return
	}

	var req updateStatusRequest
	if !decodeBody(w, r, &req) {
		return
	}
	st, err := order.Parse(req.Status)
	if err != nil {
		writeDomainError(r.Context(), w, err)
		return
	}

	if err := h.backend.UpdateOrderStatus(r.Context(), r.PathValue("id"), st); err != nil {
		writeDomainError(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
