package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pizza(id, name, price string) LineItem {
	return LineItem{
		ID:        id,
		Name:      name,
		UnitPrice: decimal.RequireFromString(price),
		Category:  CategoryPizza,
		ImageRef:  "img/" + id + ".jpg",
	}
}

func drink(id, name, price string) LineItem {
	return LineItem{
		ID:        id,
		Name:      name,
		UnitPrice: decimal.RequireFromString(price),
		Category:  CategoryDrink,
	}
}

func TestAdd_MergesSameProductAndCategory(t *testing.T) {
	c := New()

	ev, err := c.Add(pizza("7", "Margherita", "14.99"), 2)
	require.NoError(t, err)
	assert.Equal(t, EventAdded, ev.Kind)

	ev, err = c.Add(pizza("7", "Margherita", "14.99"), 3)
	require.NoError(t, err)
	assert.Equal(t, EventMerged, ev.Kind)
	assert.Equal(t, 5, ev.Item.Quantity)

	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
}

func TestAdd_CategoryDisambiguatesIdentity(t *testing.T) {
	c := New()

	_, err := c.Add(pizza("1", "Calabresa", "12.50"), 1)
	require.NoError(t, err)
	_, err = c.Add(drink("1", "Guarana", "3.99"), 1)
	require.NoError(t, err)

	assert.Len(t, c.Items(), 2)
}

func TestAdd_RejectsInvalidQuantity(t *testing.T) {
	c := New()

	_, err := c.Add(pizza("1", "Calabresa", "12.50"), 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = c.Add(pizza("1", "Calabresa", "12.50"), -2)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	assert.True(t, c.Empty())
}

func TestAdd_RejectsNegativePrice(t *testing.T) {
	c := New()
	item := pizza("1", "Calabresa", "12.50")
	item.UnitPrice = decimal.RequireFromString("-1")

	_, err := c.Add(item, 1)
	assert.ErrorIs(t, err, ErrNegativePrice)
}

func TestUpdateQuantity_ZeroAndNegativeRemove(t *testing.T) {
	for _, qty := range []int{0, -3} {
		c := New()
		_, err := c.Add(pizza("7", "Margherita", "14.99"), 2)
		require.NoError(t, err)

		ev := c.UpdateQuantity(ItemKey{ID: "7", Category: CategoryPizza}, qty)
		assert.Equal(t, EventRemoved, ev.Kind)
		assert.True(t, c.Empty())
	}
}

func TestUpdateQuantity_PreservesOrder(t *testing.T) {
	c := New()
	_, err := c.Add(pizza("1", "Calabresa", "12.50"), 1)
	require.NoError(t, err)
	_, err = c.Add(pizza("2", "Margherita", "14.99"), 1)
	require.NoError(t, err)
	_, err = c.Add(drink("3", "Guarana", "3.99"), 1)
	require.NoError(t, err)

	ev := c.UpdateQuantity(ItemKey{ID: "2", Category: CategoryPizza}, 4)
	assert.Equal(t, EventUpdated, ev.Kind)

	items := c.Items()
	require.Len(t, items, 3)
	assert.Equal(t, "1", items[0].ID)
	assert.Equal(t, "2", items[1].ID)
	assert.Equal(t, 4, items[1].Quantity)
	assert.Equal(t, "3", items[2].ID)
}

func TestUpdateQuantity_MissingItemIsNoop(t *testing.T) {
	c := New()
	ev := c.UpdateQuantity(ItemKey{ID: "404", Category: CategoryPizza}, 2)
	assert.Equal(t, EventNone, ev.Kind)
}

func TestRemove_MissingItemIsNoop(t *testing.T) {
	c := New()
	_, ok := c.Remove(ItemKey{ID: "404", Category: CategoryDrink})
	assert.False(t, ok)
}

func TestSubtotal_RecomputedAfterMutations(t *testing.T) {
	c := New()
	_, err := c.Add(pizza("7", "Margherita", "14.99"), 2)
	require.NoError(t, err)
	_, err = c.Add(drink("101", "Guarana", "3.99"), 1)
	require.NoError(t, err)

	assert.True(t, decimal.RequireFromString("33.97").Equal(c.Subtotal()))
	assert.Equal(t, 3, c.ItemCount())

	c.UpdateQuantity(ItemKey{ID: "7", Category: CategoryPizza}, 1)
	assert.True(t, decimal.RequireFromString("18.98").Equal(c.Subtotal()))

	c.Remove(ItemKey{ID: "101", Category: CategoryDrink})
	assert.True(t, decimal.RequireFromString("14.99").Equal(c.Subtotal()))

	c.Clear()
	assert.True(t, decimal.Zero.Equal(c.Subtotal()))
	assert.Equal(t, 0, c.ItemCount())
}

func TestParseItemKey(t *testing.T) {
	k, err := ParseItemKey("PIZZA:7")
	require.NoError(t, err)
	assert.Equal(t, ItemKey{ID: "7", Category: CategoryPizza}, k)

	_, err = ParseItemKey("SALAD:7")
	assert.Error(t, err)

	_, err = ParseItemKey("PIZZA:")
	assert.Error(t, err)

	_, err = ParseItemKey("7")
	assert.Error(t, err)
}
