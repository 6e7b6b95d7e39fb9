package cart

import "github.com/shopspring/decimal"

// Pricing holds the storefront's pricing policy. The fee and rate are
// configuration, not cart invariants: the cart only knows its subtotal.
type Pricing struct {
	// DeliveryFee is a flat fee added to every order.
	DeliveryFee decimal.Decimal
	// TaxRate is applied to the subtotal (0.08 means 8%).
	TaxRate decimal.Decimal
}

// Quote is the full price breakdown for a cart at checkout.
type Quote struct {
	ItemCount   int
	Subtotal    decimal.Decimal
	DeliveryFee decimal.Decimal
	Tax         decimal.Decimal
	Total       decimal.Decimal
}

// QuoteFor computes the order total for the given items:
// subtotal + delivery fee + tax, with tax and total rounded to 2 places.
func (p Pricing) QuoteFor(items []LineItem) Quote {
	c := Restore(items)
	subtotal := c.Subtotal()
	tax := subtotal.Mul(p.TaxRate).Round(2)

	return Quote{
		ItemCount:   c.ItemCount(),
		Subtotal:    subtotal,
		DeliveryFee: p.DeliveryFee,
		Tax:         tax,
		Total:       subtotal.Add(p.DeliveryFee).Add(tax).Round(2),
	}
}

// TotalMinorUnits returns the quote total in minor currency units (cents),
// the representation the payment collaborator expects.
func (q Quote) TotalMinorUnits() int64 {
	return q.Total.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
