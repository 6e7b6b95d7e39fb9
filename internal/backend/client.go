// Package backend is the typed client for the pizzeria's REST backend, the
// external collaborator that owns menu data, customers, orders, and payment
// intents. The storefront never computes or mutates order status itself: it
// submits requests and observes what the backend reports.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/gmoliveira/pizzaria-storefront/internal/domain/order"
)

// maxErrorBody caps how much of an error response body is kept for messages.
const maxErrorBody = 2048

// StatusError is a non-success response from the backend. The storefront
// surfaces its detail to the user; anything else on the wire is a network
// error and stays generic.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return http.StatusText(e.StatusCode)
	}
	return e.Message
}

// Config configures the backend client.
type Config struct {
	// BaseURL is the backend's base path, e.g. http://localhost:8080.
	BaseURL string
	// Timeout bounds every request end to end.
	Timeout time.Duration
}

// Client calls the backend over HTTP with OTEL-instrumented transport.
type Client struct {
	base *url.URL
	http *http.Client
}

// New parses the base URL and returns a ready Client.
func New(cfg Config) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse backend base URL")
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, errors.Errorf("backend base URL %q must be absolute", cfg.BaseURL)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		base: base,
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}, nil
}

// do performs one request/response cycle. body and out may be nil.
func (c *Client) do(ctx context.Context, method string, segments []string, body, out any) error {
	var rd io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "encode request body")
		}
		rd = bytes.NewReader(payload)
	}

	u := c.base.JoinPath(segments...)
	req, err := http.NewRequestWithContext(ctx, method, u.String(), rd)
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, u.Path)
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		return &StatusError{
			StatusCode: res.StatusCode,
			Message:    readErrorMessage(res.Body),
		}
	}

	if out != nil {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			return errors.Wrapf(err, "decode %s %s response", method, u.Path)
		}
	}
	return nil
}

// readErrorMessage extracts a human-readable message from an error response:
// the "message" field when the body is JSON, otherwise the trimmed raw body.
func readErrorMessage(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return ""
	}

	var parsed struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &parsed) == nil && parsed.Message != "" {
		return parsed.Message
	}
	return strings.TrimSpace(string(raw))
}

// Login authenticates credentials against POST /auth/login.
func (c *Client) Login(ctx context.Context, email, senha string) (*LoginResult, error) {
	var out LoginResult
	if err := c.do(ctx, http.MethodPost, []string{"auth", "login"}, LoginRequest{Email: email, Senha: senha}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RegisterCustomer creates a customer account via POST /clientes.
func (c *Client) RegisterCustomer(ctx context.Context, req RegisterCustomerRequest) error {
	return c.do(ctx, http.MethodPost, []string{"clientes"}, req, nil)
}

// Customer fetches a customer profile.
func (c *Client) Customer(ctx context.Context, id string) (*Customer, error) {
	var out Customer
	if err := c.do(ctx, http.MethodGet, []string{"clientes", id}, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateCustomer applies a partial profile update.
func (c *Client) UpdateCustomer(ctx context.Context, id string, patch CustomerPatch) (*Customer, error) {
	var out Customer
	if err := c.do(ctx, http.MethodPatch, []string{"clientes", id}, patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ToggleCustomerStatus flips a customer's active flag.
func (c *Client) ToggleCustomerStatus(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, []string{"clientes", "alterar-status", id}, nil, nil)
}

// Pizzas lists the pizza menu.
func (c *Client) Pizzas(ctx context.Context) ([]Pizza, error) {
	var out []Pizza
	if err := c.do(ctx, http.MethodGet, []string{"pizzas"}, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AvailableDrinks lists drinks currently in stock.
func (c *Client) AvailableDrinks(ctx context.Context) ([]Drink, error) {
	var out []Drink
	if err := c.do(ctx, http.MethodGet, []string{"bebidas", "disponiveis"}, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateOrder submits an order-creation request.
func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (*Order, error) {
	var out Order
	if err := c.do(ctx, http.MethodPost, []string{"pedidos"}, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// OrdersByCustomer lists a customer's placed orders.
func (c *Client) OrdersByCustomer(ctx context.Context, customerID string) ([]Order, error) {
	var out []Order
	if err := c.do(ctx, http.MethodGet, []string{"pedidos", "por-cliente", customerID}, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AllOrders lists every order for the employee dashboard.
func (c *Client) AllOrders(ctx context.Context) ([]DashboardOrder, error) {
	var out []DashboardOrder
	if err := c.do(ctx, http.MethodGet, []string{"pedidos"}, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// OrderStatus fetches and normalizes a single order's current status.
func (c *Client) OrderStatus(ctx context.Context, orderID string) (order.Status, error) {
	var out struct {
		Status string `json:"status"`
	}
	if err := c.do(ctx, http.MethodGet, []string{"pedidos", "recuperar-status", orderID}, nil, &out); err != nil {
		return "", err
	}
	return order.Parse(out.Status)
}

// UpdateOrderStatus moves an order to the given status (employee action).
func (c *Client) UpdateOrderStatus(ctx context.Context, orderID string, status order.Status) error {
	body := struct {
		Status string `json:"status"`
	}{Status: string(status)}
	return c.do(ctx, http.MethodPost, []string{"pedidos", "alterar-status", orderID}, body, nil)
}

// CreatePaymentIntent asks the backend for a payment intent over the given
// amount in minor currency units.
func (c *Client) CreatePaymentIntent(ctx context.Context, amountMinor int64) (*PaymentIntent, error) {
	body := struct {
		Amount int64 `json:"amount"`
	}{Amount: amountMinor}

	var out PaymentIntent
	if err := c.do(ctx, http.MethodPost, []string{"pagamentos", "intencao"}, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Ping verifies the backend is reachable, for readiness probes.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.Pizzas(ctx)
	return err
}
