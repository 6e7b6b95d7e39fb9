// Package cart implements the customer shopping cart: an ordered collection of
// line items keyed by (product ID, category), with merge-on-add semantics and
// totals derived fresh from the current collection.
package cart

import (
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Category distinguishes product kinds. It is part of item identity: a pizza
// and a drink may share a numeric ID without colliding in the cart.
type Category string

const (
	CategoryPizza Category = "PIZZA"
	CategoryDrink Category = "DRINK"
)

// Sentinel errors for cart mutations.
var (
	ErrInvalidQuantity = errors.New("quantity must be greater than 0")
	ErrNegativePrice   = errors.New("unit price must not be negative")
	ErrUnknownCategory = errors.New("unknown category")
)

// ParseCategory validates a category string.
func ParseCategory(s string) (Category, error) {
	switch Category(strings.ToUpper(s)) {
	case CategoryPizza:
		return CategoryPizza, nil
	case CategoryDrink:
		return CategoryDrink, nil
	default:
		return "", errors.Wrapf(ErrUnknownCategory, "%q", s)
	}
}

// ItemKey is the identity of a line item within a cart.
type ItemKey struct {
	ID       string
	Category Category
}

// String renders the key in the "CATEGORY:id" form used in URLs.
func (k ItemKey) String() string {
	return string(k.Category) + ":" + k.ID
}

// ParseItemKey parses the "CATEGORY:id" form produced by String.
func ParseItemKey(s string) (ItemKey, error) {
	cat, id, ok := strings.Cut(s, ":")
	if !ok || id == "" {
		return ItemKey{}, errors.Errorf("malformed item key %q", s)
	}
	c, err := ParseCategory(cat)
	if err != nil {
		return ItemKey{}, err
	}
	return ItemKey{ID: id, Category: c}, nil
}

// LineItem is one product entry in the cart.
type LineItem struct {
	ID        string
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
	Category  Category
	ImageRef  string
}

// Key returns the item's cart identity.
func (i LineItem) Key() ItemKey {
	return ItemKey{ID: i.ID, Category: i.Category}
}

// EventKind describes the outcome of a cart mutation. The cart itself never
// notifies anyone: callers translate events into user-visible messages.
type EventKind string

const (
	EventAdded   EventKind = "added"
	EventMerged  EventKind = "merged"
	EventUpdated EventKind = "updated"
	EventRemoved EventKind = "removed"
	EventCleared EventKind = "cleared"
	EventNone    EventKind = "none"
)

// Event reports what a mutation did and to which item.
type Event struct {
	Kind EventKind
	Item LineItem
}

// Cart is an ordered collection of line items. Insertion order is preserved
// for display. Cart is not safe for concurrent use; Store serializes access.
type Cart struct {
	items []LineItem
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{}
}

// Restore builds a cart from a previously persisted collection.
func Restore(items []LineItem) *Cart {
	c := &Cart{items: make([]LineItem, len(items))}
	copy(c.items, items)
	return c
}

// Add merges qty into an existing line item with the same (ID, Category), or
// appends a new one. qty must be positive and the unit price non-negative.
func (c *Cart) Add(item LineItem, qty int) (Event, error) {
	if qty <= 0 {
		return Event{Kind: EventNone}, ErrInvalidQuantity
	}
	if item.UnitPrice.IsNegative() {
		return Event{Kind: EventNone}, ErrNegativePrice
	}
	if _, err := ParseCategory(string(item.Category)); err != nil {
		return Event{Kind: EventNone}, err
	}

	key := item.Key()
	for i := range c.items {
		if c.items[i].Key() == key {
			c.items[i].Quantity += qty
			return Event{Kind: EventMerged, Item: c.items[i]}, nil
		}
	}

	item.Quantity = qty
	c.items = append(c.items, item)
	return Event{Kind: EventAdded, Item: item}, nil
}

// UpdateQuantity replaces the quantity of the matching item in place,
// preserving order. A quantity of zero or less removes the item. Updating an
// absent item is a no-op.
func (c *Cart) UpdateQuantity(key ItemKey, qty int) Event {
	if qty <= 0 {
		if removed, ok := c.Remove(key); ok {
			return Event{Kind: EventRemoved, Item: removed}
		}
		return Event{Kind: EventNone}
	}

	for i := range c.items {
		if c.items[i].Key() == key {
			c.items[i].Quantity = qty
			return Event{Kind: EventUpdated, Item: c.items[i]}
		}
	}
	return Event{Kind: EventNone}
}

// Remove drops the matching item and reports whether it was present.
func (c *Cart) Remove(key ItemKey) (LineItem, bool) {
	for i := range c.items {
		if c.items[i].Key() == key {
			removed := c.items[i]
			c.items = append(c.items[:i], c.items[i+1:]...)
			return removed, true
		}
	}
	return LineItem{}, false
}

// Clear empties the cart.
func (c *Cart) Clear() Event {
	c.items = nil
	return Event{Kind: EventCleared}
}

// Items returns a copy of the current collection in insertion order.
func (c *Cart) Items() []LineItem {
	out := make([]LineItem, len(c.items))
	copy(out, c.items)
	return out
}

// Empty reports whether the cart has no items.
func (c *Cart) Empty() bool {
	return len(c.items) == 0
}

// ItemCount is the total quantity across all line items, recomputed fresh.
func (c *Cart) ItemCount() int {
	n := 0
	for _, it := range c.items {
		n += it.Quantity
	}
	return n
}

// Subtotal is Σ unitPrice × quantity over the current collection, recomputed
// fresh on every call so repeated mutations cannot accumulate drift.
func (c *Cart) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, it := range c.items {
		sum = sum.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return sum
}

func (c *Cart) String() string {
	return fmt.Sprintf("cart(%d items, subtotal %s)", len(c.items), c.Subtotal())
}
