// Package checkout implements the order submission flow: validate the
// delivery address locally, partition the cart into the backend's pizza and
// drink lists, attach the computed total, submit the order, and open a
// payment intent. The cart is cleared only after the payment step reports
// success, which is the caller's responsibility.
package checkout

import (
	"context"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-playground/validator/v10"

	"github.com/gmoliveira/pizzaria-storefront/internal/backend"
	"github.com/gmoliveira/pizzaria-storefront/internal/domain/cart"
)

// Sentinel errors for submission preconditions.
var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrInvalidCustomerID = errors.New("customer id is not numeric")
)

// FieldError reports a mandatory address field that failed validation. The
// submission is rejected locally: no network call is made.
type FieldError struct {
	Field string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

// Address is the delivery address. Complement is the only optional field.
type Address struct {
	Street     string `json:"street" validate:"required"`
	Number     string `json:"number" validate:"required"`
	Complement string `json:"complement"`
	District   string `json:"district" validate:"required"`
	City       string `json:"city" validate:"required"`
	State      string `json:"state" validate:"required"`
	ZipCode    string `json:"zipCode" validate:"required"`
}

// Flatten renders the address as the single line the backend stores:
// "street, number[, complement], district, city - state, zipCode".
func (a Address) Flatten() string {
	var b strings.Builder
	b.WriteString(a.Street)
	b.WriteString(", ")
	b.WriteString(a.Number)
	if a.Complement != "" {
		b.WriteString(", ")
		b.WriteString(a.Complement)
	}
	b.WriteString(", ")
	b.WriteString(a.District)
	b.WriteString(", ")
	b.WriteString(a.City)
	b.WriteString(" - ")
	b.WriteString(a.State)
	b.WriteString(", ")
	b.WriteString(a.ZipCode)
	return b.String()
}

// Backend is the slice of the backend client the checkout flow needs.
type Backend interface {
	CreateOrder(ctx context.Context, req backend.CreateOrderRequest) (*backend.Order, error)
	CreatePaymentIntent(ctx context.Context, amountMinor int64) (*backend.PaymentIntent, error)
}

// Request is one order submission.
type Request struct {
	// CustomerID is the authenticated customer's id; the backend wants it
	// numeric.
	CustomerID string
	Address    Address
	Items      []cart.LineItem
}

// Result is a successfully placed order awaiting payment.
type Result struct {
	Order        *backend.Order
	Quote        cart.Quote
	ClientSecret string
	AmountMinor  int64
}

// Service wires the submission flow together.
type Service struct {
	backend  Backend
	pricing  cart.Pricing
	validate *validator.Validate

	// pizzaSize is the fixed size attached to every pizza line: the
	// storefront has no size selector.
	pizzaSize string
}

// NewService creates the checkout service. pizzaSize is the default size sent
// with every pizza line item.
func NewService(b Backend, pricing cart.Pricing, pizzaSize string) *Service {
	v := validator.New()
	// Report json tag names in validation errors instead of Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	return &Service{
		backend:   b,
		pricing:   pricing,
		validate:  v,
		pizzaSize: pizzaSize,
	}
}

// ValidateAddress checks every mandatory field and returns a FieldError for
// the first missing one.
func (s *Service) ValidateAddress(a Address) error {
	err := s.validate.Struct(a)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return &FieldError{Field: verrs[0].Field()}
	}
	return errors.Wrap(err, "validate address")
}

// PlaceOrder runs the full submission flow. Local validation failures happen
// before any network call; backend failures leave cart and address untouched
// so the user can retry.
func (s *Service) PlaceOrder(ctx context.Context, req Request) (*Result, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyCart
	}
	if err := s.ValidateAddress(req.Address); err != nil {
		return nil, err
	}
	clienteID, err := strconv.ParseInt(req.CustomerID, 10, 64)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidCustomerID, "%q", req.CustomerID)
	}

	quote := s.pricing.QuoteFor(req.Items)
	create := backend.CreateOrderRequest{
		ClienteID:  clienteID,
		Endereco:   req.Address.Flatten(),
		ValorTotal: quote.Total,
		Pizzas:     []backend.OrderPizza{},
		Bebidas:    []backend.OrderDrink{},
	}

	for _, it := range req.Items {
		productID, err := strconv.ParseInt(it.ID, 10, 64)
		if err != nil {
			return nil, errors.Errorf("line item id %q is not numeric", it.ID)
		}
		switch it.Category {
		case cart.CategoryPizza:
			create.Pizzas = append(create.Pizzas, backend.OrderPizza{
				PizzaID:    productID,
				Quantidade: it.Quantity,
				Tamanho:    s.pizzaSize,
			})
		case cart.CategoryDrink:
			create.Bebidas = append(create.Bebidas, backend.OrderDrink{
				BebidaID:   productID,
				Quantidade: it.Quantity,
			})
		default:
			return nil, errors.Wrapf(cart.ErrUnknownCategory, "%q", it.Category)
		}
	}

	placed, err := s.backend.CreateOrder(ctx, create)
	if err != nil {
		return nil, errors.Wrap(err, "create order")
	}

	amount := quote.TotalMinorUnits()
	intent, err := s.backend.CreatePaymentIntent(ctx, amount)
	if err != nil {
		return nil, errors.Wrap(err, "create payment intent")
	}

	return &Result{
		Order:        placed,
		Quote:        quote,
		ClientSecret: intent.ClientSecret,
		AmountMinor:  amount,
	}, nil
}
