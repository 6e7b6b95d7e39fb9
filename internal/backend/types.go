package backend

import (
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

func init() {
	// The backend speaks JSON numbers for money fields, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// ID is an entity identifier on the wire. The backend is inconsistent about
// whether ids are JSON strings or numbers, so both are accepted.
type ID string

// UnmarshalJSON accepts both "42" and 42.
func (id *ID) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*id = ""
		return nil
	}
	if unquoted, err := strconv.Unquote(s); err == nil {
		*id = ID(unquoted)
		return nil
	}
	if _, err := strconv.ParseInt(s, 10, 64); err != nil {
		return errors.Errorf("malformed id %s", s)
	}
	*id = ID(s)
	return nil
}

func (id ID) String() string { return string(id) }

// LoginRequest is the credentials body for POST /auth/login.
type LoginRequest struct {
	Email string `json:"email"`
	Senha string `json:"senha"`
}

// LoginResult is the backend's login response. Sucesso=false with a 200
// means the credentials were rejected.
type LoginResult struct {
	Sucesso     bool   `json:"sucesso"`
	TipoUsuario string `json:"tipoUsuario"`
	ID          ID     `json:"id"`
}

// RegisterCustomerRequest is the body for POST /clientes.
type RegisterCustomerRequest struct {
	Name     string `json:"name"`
	CPF      string `json:"cpf"`
	Age      int    `json:"age"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Customer is the profile record served by GET /clientes/{id}.
type Customer struct {
	ID     ID     `json:"id"`
	Name   string `json:"name"`
	CPF    string `json:"cpf"`
	Age    int    `json:"age"`
	Phone  string `json:"phone"`
	Email  string `json:"email"`
	Active bool   `json:"active"`
}

// CustomerPatch carries the fields to change on PATCH /clientes/{id}.
// Nil fields are left untouched.
type CustomerPatch struct {
	Name  *string `json:"name,omitempty"`
	Age   *int    `json:"age,omitempty"`
	Phone *string `json:"phone,omitempty"`
	Email *string `json:"email,omitempty"`
}

// Pizza is a menu entry from GET /pizzas.
type Pizza struct {
	ID           ID              `json:"id"`
	Sabor        string          `json:"sabor"`
	Description  string          `json:"description"`
	Ingredientes []string        `json:"ingredientes"`
	Preco        decimal.Decimal `json:"preco"`
	ImageURL     string          `json:"imageUrl"`
}

// Drink is a menu entry from GET /bebidas/disponiveis.
type Drink struct {
	ID          ID              `json:"id"`
	Nome        string          `json:"nome"`
	Description string          `json:"description"`
	Preco       decimal.Decimal `json:"preco"`
	Available   bool            `json:"available"`
	ImageURL    string          `json:"imageUrl"`
}

// OrderPizza is a pizza line in an order-creation request. Tamanho carries
// the storefront's default size: the UI has no size selector.
type OrderPizza struct {
	PizzaID    int64  `json:"pizzaId"`
	Quantidade int    `json:"quantidade"`
	Tamanho    string `json:"tamanho"`
}

// OrderDrink is a drink line in an order-creation request.
type OrderDrink struct {
	BebidaID   int64 `json:"bebidaId"`
	Quantidade int   `json:"quantidade"`
}

// CreateOrderRequest is the body for POST /pedidos. The address travels as a
// single flattened string.
type CreateOrderRequest struct {
	ClienteID  int64           `json:"clienteId"`
	Endereco   string          `json:"endereco"`
	ValorTotal decimal.Decimal `json:"valorTotal"`
	Pizzas     []OrderPizza    `json:"pizzas"`
	Bebidas    []OrderDrink    `json:"bebidas"`
}

// OrderItem is one line of a placed order as reported by the backend.
type OrderItem struct {
	ID        ID              `json:"id"`
	ProductID ID              `json:"productId"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Type      string          `json:"type"`
}

// Order is a placed order as reported by the customer order endpoints.
type Order struct {
	ID         ID              `json:"id"`
	CustomerID ID              `json:"customerId"`
	Items      []OrderItem     `json:"items"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	Status     string          `json:"status"`
	Address    string          `json:"address"`
	CreatedAt  string          `json:"createdAt"`
}

// DashboardCustomer identifies the customer on an employee dashboard row.
type DashboardCustomer struct {
	Nome     string `json:"nome"`
	CPF      string `json:"cpf"`
	Idade    int    `json:"idade"`
	Telefone string `json:"telefone"`
	Email    string `json:"email"`
}

// DashboardPizza is a pizza line on an employee dashboard row.
type DashboardPizza struct {
	Sabor      string          `json:"sabor"`
	Preco      decimal.Decimal `json:"preco"`
	Tamanho    string          `json:"tamanho"`
	Quantidade int             `json:"quantidade"`
}

// DashboardDrink is a drink line on an employee dashboard row.
type DashboardDrink struct {
	Nome       string          `json:"nome"`
	Preco      decimal.Decimal `json:"preco"`
	Quantidade int             `json:"quantidade"`
}

// DashboardOrder is one row of GET /pedidos, the employee view. Statuses here
// use the backend's Portuguese spellings.
type DashboardOrder struct {
	Cliente    DashboardCustomer `json:"cliente"`
	ValorTotal decimal.Decimal   `json:"valorTotal"`
	Endereco   string            `json:"endereco"`
	DataHora   string            `json:"dataHora"`
	Status     string            `json:"status"`
	Pizzas     []DashboardPizza  `json:"pizzas"`
	Bebidas    []DashboardDrink  `json:"bebidas"`
}

// PaymentIntent is the response of POST /pagamentos/intencao.
type PaymentIntent struct {
	ClientSecret string `json:"clientSecret"`
	Amount       int64  `json:"amount"`
}
