package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/gmoliveira/pizzaria-storefront/internal/backend"
	"github.com/gmoliveira/pizzaria-storefront/internal/checkout"
	"github.com/gmoliveira/pizzaria-storefront/internal/domain/cart"
	"github.com/gmoliveira/pizzaria-storefront/internal/domain/order"
	"github.com/gmoliveira/pizzaria-storefront/internal/domain/session"
	"github.com/gmoliveira/pizzaria-storefront/internal/storage/kv"
	"github.com/gmoliveira/pizzaria-storefront/internal/tracker"
)

// memKV is an in-memory kv.Store for tests.
type memKV struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemKV() *memKV {
	return &memKV{data: make(map[string][]byte)}
}

func (m *memKV) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, kv.ErrNotFound
	}
	return v, nil
}

func (m *memKV) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *memKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// mockBackend implements both the handler and checkout backend interfaces
// with overridable functions.
type mockBackend struct {
	login         func(ctx context.Context, email, senha string) (*backend.LoginResult, error)
	register      func(ctx context.Context, req backend.RegisterCustomerRequest) error
	customer      func(ctx context.Context, id string) (*backend.Customer, error)
	update        func(ctx context.Context, id string, patch backend.CustomerPatch) (*backend.Customer, error)
	toggle        func(ctx context.Context, id string) error
	pizzas        func(ctx context.Context) ([]backend.Pizza, error)
	drinks        func(ctx context.Context) ([]backend.Drink, error)
	byCustomer    func(ctx context.Context, customerID string) ([]backend.Order, error)
	allOrders     func(ctx context.Context) ([]backend.DashboardOrder, error)
	orderStatus   func(ctx context.Context, orderID string) (order.Status, error)
	updateStatus  func(ctx context.Context, orderID string, status order.Status) error
	createOrder   func(ctx context.Context, req backend.CreateOrderRequest) (*backend.Order, error)
	paymentIntent func(ctx context.Context, amountMinor int64) (*backend.PaymentIntent, error)
}

func (m *mockBackend) Login(ctx context.Context, email, senha string) (*backend.LoginResult, error) {
	return m.login(ctx, email, senha)
}

func (m *mockBackend) RegisterCustomer(ctx context.Context, req backend.RegisterCustomerRequest) error {
	return m.register(ctx, req)
}

func (m *mockBackend) Customer(ctx context.Context, id string) (*backend.Customer, error) {
	return m.customer(ctx, id)
}

func (m *mockBackend) UpdateCustomer(ctx context.Context, id string, patch backend.CustomerPatch) (*backend.Customer, error) {
	return m.update(ctx, id, patch)
}

func (m *mockBackend) ToggleCustomerStatus(ctx context.Context, id string) error {
	return m.toggle(ctx, id)
}

func (m *mockBackend) Pizzas(ctx context.Context) ([]backend.Pizza, error) {
	return m.pizzas(ctx)
}

func (m *mockBackend) AvailableDrinks(ctx context.Context) ([]backend.Drink, error) {
	return m.drinks(ctx)
}

func (m *mockBackend) OrdersByCustomer(ctx context.Context, customerID string) ([]backend.Order, error) {
	return m.byCustomer(ctx, customerID)
}

func (m *mockBackend) AllOrders(ctx context.Context) ([]backend.DashboardOrder, error) {
	return m.allOrders(ctx)
}

func (m *mockBackend) OrderStatus(ctx context.Context, orderID string) (order.Status, error) {
	return m.orderStatus(ctx, orderID)
}

func (m *mockBackend) UpdateOrderStatus(ctx context.Context, orderID string, status order.Status) error {
	return m.updateStatus(ctx, orderID, status)
}

func (m *mockBackend) CreateOrder(ctx context.Context, req backend.CreateOrderRequest) (*backend.Order, error) {
	return m.createOrder(ctx, req)
}

func (m *mockBackend) CreatePaymentIntent(ctx context.Context, amountMinor int64) (*backend.PaymentIntent, error) {
	return m.paymentIntent(ctx, amountMinor)
}

func testPricing() cart.Pricing {
	return cart.Pricing{
		DeliveryFee: decimal.RequireFromString("4.99"),
		TaxRate:     decimal.RequireFromString("0.08"),
	}
}

// env bundles a wired handler with a cookie-preserving request helper.
type env struct {
	t       *testing.T
	mux     *http.ServeMux
	tracker *tracker.Tracker
	cookies []*http.Cookie
}

func newEnv(t *testing.T, b *mockBackend) *env {
	t.Helper()

	store := newMemKV()
	carts := cart.NewStore(store)
	sessions := session.NewManager(store)
	co := checkout.NewService(b, testPricing(), "MEDIA")
	tr := tracker.New(func(ctx context.Context, orderID string) (order.Status, error) {
		return b.OrderStatus(ctx, orderID)
	}, time.Hour, noop.NewMeterProvider().Meter("test"))
	t.Cleanup(tr.StopAll)

	h := New(Config{}, b, carts, sessions, co, tr, testPricing())
	mux := http.NewServeMux()
	h.Routes(mux)

	return &env{t: t, mux: mux, tracker: tr}
}

// do issues a request through the mux, carrying cookies across calls like a
// browser would.
func (e *env) do(method, path, body string) *httptest.ResponseRecorder {
	e.t.Helper()

	var r *http.Request
	if body != "" {
		r = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	for _, c := range e.cookies {
		r.AddCookie(c)
	}

	w := httptest.NewRecorder()
	e.mux.ServeHTTP(w, r)

	if set := w.Result().Cookies(); len(set) > 0 {
		e.cookies = append(e.cookies, set...)
	}
	return w
}

func decodeMap(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return body
}

// login authenticates the env's session as the given user.
func (e *env) login(b *mockBackend, userType string) {
	e.t.Helper()
	b.login = func(_ context.Context, _, _ string) (*backend.LoginResult, error) {
		return &backend.LoginResult{Sucesso: true, TipoUsuario: userType, ID: backend.ID("42")}, nil
	}
	w := e.do(http.MethodPost, "/api/auth/login", `{"email":"a@b.c","password":"pw"}`)
	require.Equal(e.t, http.StatusOK, w.Code)
}

func TestMenu_CombinesAndFilters(t *testing.T) {
	b := &mockBackend{
		pizzas: func(_ context.Context) ([]backend.Pizza, error) {
			return []backend.Pizza{{
				ID:           "1",
				Sabor:        "Margherita",
				Ingredientes: []string{"tomato", "mozzarella"},
				Preco:        decimal.RequireFromString("10.99"),
			}}, nil
		},
		drinks: func(_ context.Context) ([]backend.Drink, error) {
			return []backend.Drink{
				{ID: "1", Nome: "Cola", Preco: decimal.RequireFromString("3.50"), Available: true},
				{ID: "2", Nome: "Out of stock", Available: false},
			}, nil
		},
	}
	e := newEnv(t, b)

	w := e.do(http.MethodGet, "/api/menu", "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeMap(t, w)
	pizzas := body["pizzas"].([]any)
	require.Len(t, pizzas, 1)
	p := pizzas[0].(map[string]any)
	assert.Equal(t, "Margherita", p["name"])
	assert.Equal(t, 10.99, p["price"])

	drinks := body["drinks"].([]any)
	require.Len(t, drinks, 1, "unavailable drink must not reach the menu")
	assert.Equal(t, "Cola", drinks[0].(map[string]any)["name"])
}

func TestMenu_BackendDown(t *testing.T) {
	b := &mockBackend{
		pizzas: func(_ context.Context) ([]backend.Pizza, error) {
			return nil, errors.New("connection refused")
		},
		drinks: func(_ context.Context) ([]backend.Drink, error) {
			return nil, nil
		},
	}
	e := newEnv(t, b)

	w := e.do(http.MethodGet, "/api/menu", "")
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestCart_AddAndMerge(t *testing.T) {
	e := newEnv(t, &mockBackend{})

	w := e.do(http.MethodPost, "/api/cart/items",
		`{"id":"1","name":"Margherita","price":10.99,"quantity":1,"category":"PIZZA"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Result().Cookies(), "first request mints a session cookie")

	body := decodeMap(t, w)
	assert.Equal(t, "Margherita added to cart", body["message"])

	// Same product again merges into the existing line.
	w = e.do(http.MethodPost, "/api/cart/items",
		`{"id":"1","name":"Margherita","price":10.99,"quantity":2,"category":"PIZZA"}`)
	require.Equal(t, http.StatusOK, w.Code)

	body = decodeMap(t, w)
	assert.Equal(t, "Margherita quantity increased", body["message"])
	items := body["items"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, float64(3), items[0].(map[string]any)["quantity"])

	summary := body["summary"].(map[string]any)
	assert.Equal(t, float64(3), summary["itemCount"])
	assert.Equal(t, 32.97, summary["subtotal"])
}

func TestCart_SameIDDifferentCategory(t *testing.T) {
	e := newEnv(t, &mockBackend{})

	e.do(http.MethodPost, "/api/cart/items", `{"id":"1","name":"Margherita","price":10.99,"category":"PIZZA"}`)
	w := e.do(http.MethodPost, "/api/cart/items", `{"id":"1","name":"Cola","price":3.50,"category":"DRINK"}`)

	body := decodeMap(t, w)
	assert.Len(t, body["items"].([]any), 2)
}

func TestCart_UpdateToZeroRemoves(t *testing.T) {
	e := newEnv(t, &mockBackend{})

	e.do(http.MethodPost, "/api/cart/items", `{"id":"1","name":"Margherita","price":10.99,"category":"PIZZA"}`)
	w := e.do(http.MethodPatch, "/api/cart/items/PIZZA:1", `{"quantity":0}`)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeMap(t, w)
	assert.Empty(t, body["items"])
	assert.Equal(t, "Margherita removed from cart", body["message"])
}

func TestCart_BadCategory(t *testing.T) {
	e := newEnv(t, &mockBackend{})

	w := e.do(http.MethodPost, "/api/cart/items", `{"id":"1","name":"X","price":1,"category":"DESSERT"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCart_Clear(t *testing.T) {
	e := newEnv(t, &mockBackend{})

	e.do(http.MethodPost, "/api/cart/items", `{"id":"1","name":"Margherita","price":10.99,"category":"PIZZA"}`)
	w := e.do(http.MethodDelete, "/api/cart", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cart cleared", decodeMap(t, w)["message"])

	w = e.do(http.MethodGet, "/api/cart", "")
	assert.Empty(t, decodeMap(t, w)["items"])
}

func TestLogin_Success(t *testing.T) {
	b := &mockBackend{}
	e := newEnv(t, b)
	e.login(b, "CLIENTE")

	w := e.do(http.MethodGet, "/api/auth/session", "")
	body := decodeMap(t, w)
	assert.Equal(t, true, body["authenticated"])
	assert.Equal(t, "42", body["userId"])
	assert.Equal(t, "CUSTOMER", body["userType"])
}

func TestLogin_Rejected(t *testing.T) {
	b := &mockBackend{
		login: func(_ context.Context, _, _ string) (*backend.LoginResult, error) {
			return &backend.LoginResult{Sucesso: false}, nil
		},
	}
	e := newEnv(t, b)

	w := e.do(http.MethodPost, "/api/auth/login", `{"email":"a@b.c","password":"bad"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = e.do(http.MethodGet, "/api/auth/session", "")
	assert.Equal(t, false, decodeMap(t, w)["authenticated"])
}

func TestLogout(t *testing.T) {
	b := &mockBackend{}
	e := newEnv(t, b)
	e.login(b, "CLIENTE")

	w := e.do(http.MethodPost, "/api/auth/logout", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = e.do(http.MethodGet, "/api/auth/session", "")
	assert.Equal(t, false, decodeMap(t, w)["authenticated"])
}

func TestRegister(t *testing.T) {
	var got backend.RegisterCustomerRequest
	b := &mockBackend{
		register: func(_ context.Context, req backend.RegisterCustomerRequest) error {
			got = req
			return nil
		},
	}
	e := newEnv(t, b)

	w := e.do(http.MethodPost, "/api/auth/register",
		`{"name":"Maria","cpf":"123","age":30,"phone":"555","email":"m@x.y","password":"pw"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Maria", got.Name)
	assert.Equal(t, 30, got.Age)
}

const validCheckout = `{"address":{"street":"Rua A","number":"10","district":"Centro","city":"Sao Paulo","state":"SP","zipCode":"01000-000"}}`

func TestCheckout_RequiresLogin(t *testing.T) {
	e := newEnv(t, &mockBackend{})

	w := e.do(http.MethodPost, "/api/checkout", validCheckout)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCheckout_PlacesOrder(t *testing.T) {
	var created backend.CreateOrderRequest
	b := &mockBackend{
		createOrder: func(_ context.Context, req backend.CreateOrderRequest) (*backend.Order, error) {
			created = req
			return &backend.Order{ID: "7", Status: "PENDENTE"}, nil
		},
		paymentIntent: func(_ context.Context, amountMinor int64) (*backend.PaymentIntent, error) {
			return &backend.PaymentIntent{ClientSecret: "pi_secret", Amount: amountMinor}, nil
		},
	}
	e := newEnv(t, b)
	e.login(b, "CLIENTE")

	e.do(http.MethodPost, "/api/cart/items", `{"id":"1","name":"Margherita","price":10.99,"quantity":3,"category":"PIZZA"}`)

	w := e.do(http.MethodPost, "/api/checkout", validCheckout)
	require.Equal(t, http.StatusCreated, w.Code)

	body := decodeMap(t, w)
	assert.Equal(t, "7", body["orderId"])
	assert.Equal(t, "pi_secret", body["clientSecret"])
	// 32.97 subtotal + 4.99 delivery + 2.64 tax
	assert.Equal(t, 40.6, body["total"])
	assert.Equal(t, float64(4060), body["amount"])

	assert.Equal(t, int64(42), created.ClienteID)
	assert.Equal(t, "Rua A, 10, Centro, Sao Paulo - SP, 01000-000", created.Endereco)

	// Cart survives until payment confirmation.
	w = e.do(http.MethodGet, "/api/cart", "")
	assert.Len(t, decodeMap(t, w)["items"].([]any), 1)
}

func TestCheckout_MissingField(t *testing.T) {
	calls := 0
	b := &mockBackend{
		createOrder: func(_ context.Context, _ backend.CreateOrderRequest) (*backend.Order, error) {
			calls++
			return nil, nil
		},
	}
	e := newEnv(t, b)
	e.login(b, "CLIENTE")

	e.do(http.MethodPost, "/api/cart/items", `{"id":"1","name":"Margherita","price":10.99,"category":"PIZZA"}`)

	w := e.do(http.MethodPost, "/api/checkout",
		`{"address":{"street":"Rua A","number":"10","district":"Centro","state":"SP","zipCode":"01000-000"}}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "city", decodeMap(t, w)["field"])
	assert.Zero(t, calls, "validation failures must not reach the backend")
}

func TestCheckout_EmptyCart(t *testing.T) {
	b := &mockBackend{}
	e := newEnv(t, b)
	e.login(b, "CLIENTE")

	w := e.do(http.MethodPost, "/api/checkout", validCheckout)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckout_ConfirmClearsCart(t *testing.T) {
	b := &mockBackend{}
	e := newEnv(t, b)
	e.login(b, "CLIENTE")

	e.do(http.MethodPost, "/api/cart/items", `{"id":"1","name":"Margherita","price":10.99,"category":"PIZZA"}`)

	w := e.do(http.MethodPost, "/api/checkout/confirm", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "order placed", decodeMap(t, w)["message"])

	w = e.do(http.MethodGet, "/api/cart", "")
	assert.Empty(t, decodeMap(t, w)["items"])
}

func TestListOrders(t *testing.T) {
	b := &mockBackend{
		byCustomer: func(_ context.Context, customerID string) ([]backend.Order, error) {
			assert.Equal(t, "42", customerID)
			return []backend.Order{{
				ID:         "7",
				Status:     "EM_PREPARACAO",
				TotalPrice: decimal.RequireFromString("40.60"),
			}}, nil
		},
	}
	e := newEnv(t, b)
	e.login(b, "CLIENTE")

	w := e.do(http.MethodGet, "/api/orders", "")
	require.Equal(t, http.StatusOK, w.Code)

	var orders []map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&orders))
	require.Len(t, orders, 1)
	assert.Equal(t, "IN_PREPARATION", orders[0]["status"])
}

func TestOrderStatus_DirectFetch(t *testing.T) {
	b := &mockBackend{
		orderStatus: func(_ context.Context, orderID string) (order.Status, error) {
			assert.Equal(t, "7", orderID)
			return order.StatusReady, nil
		},
	}
	e := newEnv(t, b)
	e.login(b, "CLIENTE")

	w := e.do(http.MethodGet, "/api/orders/7/status", "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeMap(t, w)
	assert.Equal(t, "READY", body["status"])
	assert.Equal(t, float64(2), body["stageIndex"])
	assert.Equal(t, false, body["tracking"])
}

func TestTrackOrder(t *testing.T) {
	b := &mockBackend{
		orderStatus: func(_ context.Context, _ string) (order.Status, error) {
			return order.StatusInPreparation, nil
		},
	}
	e := newEnv(t, b)
	e.login(b, "CLIENTE")

	w := e.do(http.MethodPost, "/api/orders/7/track", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decodeMap(t, w)["tracking"])

	// The immediate poll lands shortly after Track returns.
	require.Eventually(t, func() bool {
		snap, ok := e.tracker.Snapshot("7")
		return ok && snap.Known
	}, time.Second, 5*time.Millisecond)

	w = e.do(http.MethodGet, "/api/orders/7/status", "")
	body := decodeMap(t, w)
	assert.Equal(t, "IN_PREPARATION", body["status"])
	assert.Equal(t, true, body["tracking"])

	w = e.do(http.MethodDelete, "/api/orders/7/track", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestDashboard_CustomerForbidden(t *testing.T) {
	b := &mockBackend{}
	e := newEnv(t, b)
	e.login(b, "CLIENTE")

	w := e.do(http.MethodGet, "/api/dashboard/orders", "")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestDashboard_Employee(t *testing.T) {
	b := &mockBackend{
		allOrders: func(_ context.Context) ([]backend.DashboardOrder, error) {
			return []backend.DashboardOrder{{
				Cliente:    backend.DashboardCustomer{Nome: "Maria"},
				ValorTotal: decimal.RequireFromString("40.60"),
				Status:     "PRONTO",
				Pizzas:     []backend.DashboardPizza{{Sabor: "Margherita", Tamanho: "MEDIA", Quantidade: 3}},
			}}, nil
		},
	}
	e := newEnv(t, b)
	e.login(b, "FUNCIONARIO")

	w := e.do(http.MethodGet, "/api/dashboard/orders", "")
	require.Equal(t, http.StatusOK, w.Code)

	var rows []map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "READY", rows[0]["status"])
	assert.Equal(t, "PRONTO", rows[0]["rawStatus"])
	assert.Equal(t, "Maria", rows[0]["customer"].(map[string]any)["name"])
}

func TestUpdateOrderStatus_Employee(t *testing.T) {
	var gotID string
	var gotStatus order.Status
	b := &mockBackend{
		updateStatus: func(_ context.Context, orderID string, status order.Status) error {
			gotID, gotStatus = orderID, status
			return nil
		},
	}
	e := newEnv(t, b)
	e.login(b, "FUNCIONARIO")

	w := e.do(http.MethodPost, "/api/orders/7/status", `{"status":"SAIU_PARA_ENTREGA"}`)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "7", gotID)
	assert.Equal(t, order.StatusOutForDelivery, gotStatus)
}

func TestUpdateOrderStatus_UnknownStatus(t *testing.T) {
	b := &mockBackend{}
	e := newEnv(t, b)
	e.login(b, "FUNCIONARIO")

	w := e.do(http.MethodPost, "/api/orders/7/status", `{"status":"TELEPORTED"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateOrderStatus_CustomerForbidden(t *testing.T) {
	b := &mockBackend{}
	e := newEnv(t, b)
	e.login(b, "CLIENTE")

	w := e.do(http.MethodPost, "/api/orders/7/status", `{"status":"PRONTO"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestProfile_GetAndPatch(t *testing.T) {
	b := &mockBackend{
		customer: func(_ context.Context, id string) (*backend.Customer, error) {
			return &backend.Customer{ID: backend.ID(id), Name: "Maria", Active: true}, nil
		},
		update: func(_ context.Context, id string, patch backend.CustomerPatch) (*backend.Customer, error) {
			require.NotNil(t, patch.Phone)
			assert.Nil(t, patch.Name)
			return &backend.Customer{ID: backend.ID(id), Name: "Maria", Phone: *patch.Phone, Active: true}, nil
		},
	}
	e := newEnv(t, b)
	e.login(b, "CLIENTE")

	w := e.do(http.MethodGet, "/api/profile", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Maria", decodeMap(t, w)["name"])

	w = e.do(http.MethodPatch, "/api/profile", `{"phone":"555-1234"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "555-1234", decodeMap(t, w)["phone"])
}

func TestProfile_DeactivateEndsSession(t *testing.T) {
	toggled := false
	b := &mockBackend{
		toggle: func(_ context.Context, id string) error {
			assert.Equal(t, "42", id)
			toggled = true
			return nil
		},
	}
	e := newEnv(t, b)
	e.login(b, "CLIENTE")

	w := e.do(http.MethodPost, "/api/profile/deactivate", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.True(t, toggled)

	w = e.do(http.MethodGet, "/api/auth/session", "")
	assert.Equal(t, false, decodeMap(t, w)["authenticated"])
}

func TestBackendRejection_PassedThrough(t *testing.T) {
	b := &mockBackend{
		register: func(_ context.Context, _ backend.RegisterCustomerRequest) error {
			return &backend.StatusError{StatusCode: http.StatusConflict, Message: "email already registered"}
		},
	}
	e := newEnv(t, b)

	w := e.do(http.MethodPost, "/api/auth/register",
		`{"name":"Maria","email":"m@x.y","password":"pw"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "email already registered", decodeMap(t, w)["message"])
}
