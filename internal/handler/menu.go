package handler

import (
	"net/http"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/gmoliveira/pizzaria-storefront/internal/backend"
)

type menuPizza struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Ingredients []string        `json:"ingredients"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"imageUrl"`
}

type menuDrink struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"imageUrl"`
}

type menuResponse struct {
	Pizzas []menuPizza `json:"pizzas"`
	Drinks []menuDrink `json:"drinks"`
}

// Menu fetches pizzas and available drinks from the backend in parallel and
// returns the combined catalog.
func (h *Handler) Menu(w http.ResponseWriter, r *http.Request) {
	var (
		pizzas []backend.Pizza
		drinks []backend.Drink
	)

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() (err error) {
		pizzas, err = h.backend.Pizzas(ctx)
		return err
	})
	g.Go(func() (err error) {
		drinks, err = h.backend.AvailableDrinks(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		writeDomainError(r.Context(), w, err)
		return
	}

	resp := menuResponse{
		Pizzas: make([]menuPizza, 0, len(pizzas)),
		Drinks: make([]menuDrink, 0, len(drinks)),
	}
	for _, p := range pizzas {
		resp.Pizzas = append(resp.Pizzas, menuPizza{
			ID:          p.ID.String(),
			Name:        p.Sabor,
			Description: p.Description,
			Ingredients: p.Ingredientes,
			Price:       p.Preco,
			ImageURL:    p.ImageURL,
		})
	}
	for _, d := range drinks {
		// The backend endpoint already filters, but an unavailable drink
		// slipping through must not reach the menu.
		if !d.Available {
			continue
		}
		resp.Drinks = append(resp.Drinks, menuDrink{
			ID:          d.ID.String(),
			Name:        d.Nome,
			Description: d.Description,
			Price:       d.Preco,
			ImageURL:    d.ImageURL,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}
