package handler

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/gmoliveira/pizzaria-storefront/internal/backend"
)

type dashboardCustomer struct {
	Name  string `json:"name"`
	CPF   string `json:"cpf"`
	Age   int    `json:"age"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

type dashboardPizza struct {
	Flavor   string          `json:"flavor"`
	Size     string          `json:"size"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

type dashboardDrink struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

type dashboardOrder struct {
	Customer  dashboardCustomer `json:"customer"`
	Total     decimal.Decimal   `json:"total"`
	Address   string            `json:"address"`
	PlacedAt  string            `json:"placedAt"`
	Status    string            `json:"status"`
	RawStatus string            `json:"rawStatus"`
	Pizzas    []dashboardPizza  `json:"pizzas"`
	Drinks    []dashboardDrink  `json:"drinks"`
}

func toDashboardOrder(o backend.DashboardOrder) dashboardOrder {
	row := dashboardOrder{
		Customer: dashboardCustomer{
			Name:  o.Cliente.Nome,
			CPF:   o.Cliente.CPF,
			Age:   o.Cliente.Idade,
			Phone: o.Cliente.Telefone,
			Email: o.Cliente.Email,
		},
		Total:     o.ValorTotal,
		Address:   o.Endereco,
		PlacedAt:  o.DataHora,
		Status:    normalizeStatus(o.Status),
		RawStatus: o.Status,
		Pizzas:    make([]dashboardPizza, 0, len(o.Pizzas)),
		Drinks:    make([]dashboardDrink, 0, len(o.Bebidas)),
	}
	for _, p := range o.Pizzas {
		row.Pizzas = append(row.Pizzas, dashboardPizza{
			Flavor:   p.Sabor,
			Size:     p.Tamanho,
			Price:    p.Preco,
			Quantity: p.Quantidade,
		})
	}
	for _, d := range o.Bebidas {
		row.Drinks = append(row.Drinks, dashboardDrink{
			Name:     d.Nome,
			Price:    d.Preco,
			Quantity: d.Quantidade,
		})
	}
	return row
}

// DashboardOrders returns every order in the system for the employee view.
func (h *Handler) DashboardOrders(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireEmployee(w, r); !ok {
		return
	}

	orders, err := h.backend.AllOrders(r.Context())
	if err != nil {
		writeDomainError(r.Context(), w, err)
		return
	}

	resp := make([]dashboardOrder, 0, len(orders))
	for _, o := range orders {
		resp = append(resp, toDashboardOrder(o))
	}
	writeJSON(w, http.StatusOK, resp)
}
