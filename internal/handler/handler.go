// Package handler implements the storefront HTTP API. Handlers translate
// between the JSON surface the web client consumes and the domain packages,
// and never talk to the backend wire format directly.
package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gmoliveira/pizzaria-storefront/internal/backend"
	"github.com/gmoliveira/pizzaria-storefront/internal/checkout"
	"github.com/gmoliveira/pizzaria-storefront/internal/domain/cart"
	"github.com/gmoliveira/pizzaria-storefront/internal/domain/order"
	"github.com/gmoliveira/pizzaria-storefront/internal/domain/session"
	"github.com/gmoliveira/pizzaria-storefront/internal/tracker"
)

// SessionCookie is the cookie carrying the storefront session id.
const SessionCookie = "storefront_session"

// Backend is the slice of the backend client the handlers call directly.
// Order submission goes through the checkout service instead.
type Backend interface {
	Login(ctx context.Context, email, senha string) (*backend.LoginResult, error)
	RegisterCustomer(ctx context.Context, req backend.RegisterCustomerRequest) error
	Customer(ctx context.Context, id string) (*backend.Customer, error)
	UpdateCustomer(ctx context.Context, id string, patch backend.CustomerPatch) (*backend.Customer, error)
	ToggleCustomerStatus(ctx context.Context, id string) error
	Pizzas(ctx context.Context) ([]backend.Pizza, error)
	AvailableDrinks(ctx context.Context) ([]backend.Drink, error)
	OrdersByCustomer(ctx context.Context, customerID string) ([]backend.Order, error)
	AllOrders(ctx context.Context) ([]backend.DashboardOrder, error)
	OrderStatus(ctx context.Context, orderID string) (order.Status, error)
	UpdateOrderStatus(ctx context.Context, orderID string, status order.Status) error
}

var _ Backend = (*backend.Client)(nil)

// Config holds non-dependency configuration for the Handler.
type Config struct {
	// SecureCookies marks the session cookie Secure. Off for plain-HTTP
	// local development.
	SecureCookies bool
}

// Handler serves the storefront API.
type Handler struct {
	backend  Backend
	carts    *cart.Store
	sessions *session.Manager
	checkout *checkout.Service
	tracker  *tracker.Tracker
	pricing  cart.Pricing
	cfg      Config
}

// New constructs a Handler with the required dependencies.
func New(
	cfg Config,
	b Backend,
	carts *cart.Store,
	sessions *session.Manager,
	co *checkout.Service,
	tr *tracker.Tracker,
	pricing cart.Pricing,
) *Handler {
	return &Handler{
		backend:  b,
		carts:    carts,
		sessions: sessions,
		checkout: co,
		tracker:  tr,
		pricing:  pricing,
		cfg:      cfg,
	}
}

// Routes registers every storefront endpoint on mux.
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/menu", h.Menu)

	mux.HandleFunc("GET /api/cart", h.GetCart)
	mux.HandleFunc("DELETE /api/cart", h.ClearCart)
	mux.HandleFunc("POST /api/cart/items", h.AddItem)
	mux.HandleFunc("PATCH /api/cart/items/{key}", h.UpdateItem)
	mux.HandleFunc("DELETE /api/cart/items/{key}", h.RemoveItem)

	mux.HandleFunc("POST /api/auth/login", h.Login)
	mux.HandleFunc("POST /api/auth/register", h.Register)
	mux.HandleFunc("POST /api/auth/logout", h.Logout)
	mux.HandleFunc("GET /api/auth/session", h.CurrentSession)

	mux.HandleFunc("POST /api/checkout", h.Checkout)
	mux.HandleFunc("POST /api/checkout/confirm", h.ConfirmCheckout)

	mux.HandleFunc("GET /api/orders", h.ListOrders)
	mux.HandleFunc("GET /api/orders/{id}/status", h.OrderStatus)
	mux.HandleFunc("POST /api/orders/{id}/track", h.TrackOrder)
	mux.HandleFunc("DELETE /api/orders/{id}/track", h.UntrackOrder)
	mux.HandleFunc("POST /api/orders/{id}/status", h.UpdateOrderStatus)

	mux.HandleFunc("GET /api/dashboard/orders", h.DashboardOrders)

	mux.HandleFunc("GET /api/profile", h.Profile)
	mux.HandleFunc("PATCH /api/profile", h.UpdateProfile)
	mux.HandleFunc("POST /api/profile/deactivate", h.DeactivateProfile)
}

// sessionID returns the request's session id, minting one and setting the
// cookie when the visitor has none yet.
func (h *Handler) sessionID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		if _, err := uuid.Parse(c.Value); err == nil {
			return c.Value
		}
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// currentSession resolves the authenticated identity for the request.
func (h *Handler) currentSession(w http.ResponseWriter, r *http.Request) (string, session.Session) {
	sid := h.sessionID(w, r)
	return sid, h.sessions.Current(r.Context(), sid)
}

// requireCustomer rejects unauthenticated and employee sessions.
func (h *Handler) requireCustomer(w http.ResponseWriter, r *http.Request) (string, session.Session, bool) {
	sid, sess := h.currentSession(w, r)
	if !sess.Authenticated {
		writeError(w, http.StatusUnauthorized, "login required")
		return "", session.Session{}, false
	}
	if sess.UserType != session.UserTypeCustomer {
		writeError(w, http.StatusForbidden, "customer account required")
		return "", session.Session{}, false
	}
	return sid, sess, true
}

// requireEmployee rejects everyone but authenticated employees.
func (h *Handler) requireEmployee(w http.ResponseWriter, r *http.Request) (session.Session, bool) {
	_, sess := h.currentSession(w, r)
	if !sess.Authenticated {
		writeError(w, http.StatusUnauthorized, "login required")
		return session.Session{}, false
	}
	if sess.UserType != session.UserTypeEmployee {
		writeError(w, http.StatusForbidden, "employee account required")
		return session.Session{}, false
	}
	return sess, true
}

type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Code: status, Message: msg})
}

// writeDomainError maps domain and backend errors onto the API surface.
// Unrecognized errors become a 502: from the client's point of view the
// storefront failed to reach its upstream.
func writeDomainError(ctx context.Context, w http.ResponseWriter, err error) {
	var fieldErr *checkout.FieldError
	if errors.As(err, &fieldErr) {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Code:    http.StatusUnprocessableEntity,
			Message: fieldErr.Error(),
			Field:   fieldErr.Field,
		})
		return
	}

	switch {
	case errors.Is(err, checkout.ErrEmptyCart),
		errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, cart.ErrNegativePrice),
		errors.Is(err, cart.ErrUnknownCategory),
		errors.Is(err, order.ErrUnknownStatus):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var serr *backend.StatusError
	if errors.As(err, &serr) {
		// Pass client-side backend rejections through; everything else is
		// an upstream failure.
		if serr.StatusCode >= 400 && serr.StatusCode < 500 {
			writeError(w, serr.StatusCode, serr.Message)
			return
		}
	}

	zctx.From(ctx).Error("Backend request failed", zap.Error(err))
	writeError(w, http.StatusBadGateway, "backend unavailable")
}

// decodeBody decodes a JSON request body into dst, rejecting junk early.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return false
	}
	return true
}
