package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func sumOfLinePrices(c *Cart) float64 {
	total := 0.0
	for _, item := range c.Items {
		total += item.Price
	}
	return total
}

func TestCartAddItemNewProduct(t *testing.T) {
	cart := &Cart{Items: []CartItem{}}
	productID := primitive.NewObjectID()

	cart.AddItem(productID, 2, 10)

	assert.Len(t, cart.Items, 1)
	assert.Equal(t, productID, cart.Items[0].ProductID)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.Equal(t, 20.0, cart.Items[0].Price)
	assert.Equal(t, 20.0, cart.TotalPrice)
}

func TestCartAddItemMergesExistingProduct(t *testing.T) {
	cart := &Cart{Items: []CartItem{}}
	productID := primitive.NewObjectID()

	cart.AddItem(productID, 2, 10)
	cart.AddItem(productID, 3, 10)

	assert.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)
	assert.Equal(t, 50.0, cart.Items[0].Price)
	assert.Equal(t, 50.0, cart.TotalPrice)
}

func TestCartAddItemRepricesFromCurrentUnitPrice(t *testing.T) {
	cart := &Cart{Items: []CartItem{}}
	productID := primitive.NewObjectID()

	cart.AddItem(productID, 1, 10)
	// The catalog price moved; the merged line reprices entirely at the
	// new unit price.
	cart.AddItem(productID, 1, 12)

	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.Equal(t, 24.0, cart.Items[0].Price)
	assert.Equal(t, 24.0, cart.TotalPrice)
}

func TestCartRemoveItem(t *testing.T) {
	cart := &Cart{Items: []CartItem{}}
	keep := primitive.NewObjectID()
	drop := primitive.NewObjectID()
	cart.AddItem(keep, 1, 5)
	cart.AddItem(drop, 2, 7)

	assert.True(t, cart.RemoveItem(drop))
	assert.Len(t, cart.Items, 1)
	assert.Equal(t, keep, cart.Items[0].ProductID)
	assert.Equal(t, 5.0, cart.TotalPrice)

	assert.False(t, cart.RemoveItem(drop))
	assert.Len(t, cart.Items, 1)
}

func TestCartDecreaseItemAboveOne(t *testing.T) {
	cart := &Cart{Items: []CartItem{}}
	productID := primitive.NewObjectID()
	cart.AddItem(productID, 3, 10)

	assert.True(t, cart.DecreaseItem(productID, 10))
	assert.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.Equal(t, 20.0, cart.Items[0].Price)
	assert.Equal(t, 20.0, cart.TotalPrice)
}

func TestCartDecreaseItemUsesLiveUnitPrice(t *testing.T) {
	cart := &Cart{Items: []CartItem{}}
	productID := primitive.NewObjectID()
	cart.AddItem(productID, 3, 10)

	// Unit price changed to 15 since the line was cached at 10.
	assert.True(t, cart.DecreaseItem(productID, 15))
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.Equal(t, 30.0, cart.Items[0].Price)
	assert.Equal(t, 30.0, cart.TotalPrice)
}

func TestCartDecreaseItemAtOneRemovesIt(t *testing.T) {
	cart := &Cart{Items: []CartItem{}}
	productID := primitive.NewObjectID()
	cart.AddItem(productID, 1, 10)

	assert.True(t, cart.DecreaseItem(productID, 10))
	assert.Empty(t, cart.Items)
	assert.Equal(t, 0.0, cart.TotalPrice)
}

func TestCartDecreaseItemMissing(t *testing.T) {
	cart := &Cart{Items: []CartItem{}}
	assert.False(t, cart.DecreaseItem(primitive.NewObjectID(), 10))
}

func TestCartClearIsIdempotent(t *testing.T) {
	cart := &Cart{Items: []CartItem{}}
	cart.AddItem(primitive.NewObjectID(), 2, 10)
	cart.AddItem(primitive.NewObjectID(), 1, 3)

	cart.Clear()
	assert.Empty(t, cart.Items)
	assert.Equal(t, 0.0, cart.TotalPrice)

	cart.Clear()
	assert.Empty(t, cart.Items)
	assert.Equal(t, 0.0, cart.TotalPrice)
}

// Total price stays the sum of line prices across a whole session of
// mutations.
func TestCartTotalAlwaysMatchesLineSum(t *testing.T) {
	cart := &Cart{Items: []CartItem{}}
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()

	cart.AddItem(a, 2, 10)
	assert.Equal(t, sumOfLinePrices(cart), cart.TotalPrice)

	cart.AddItem(b, 4, 2.5)
	assert.Equal(t, sumOfLinePrices(cart), cart.TotalPrice)

	cart.DecreaseItem(b, 2.5)
	assert.Equal(t, sumOfLinePrices(cart), cart.TotalPrice)

	cart.RemoveItem(a)
	assert.Equal(t, sumOfLinePrices(cart), cart.TotalPrice)

	cart.Clear()
	assert.Equal(t, sumOfLinePrices(cart), cart.TotalPrice)
}

// The walk-through from the service contract: add 2x10, add 1 more,
// decrease, clear.
func TestCartSessionWalkthrough(t *testing.T) {
	cart := &Cart{Items: []CartItem{}}
	productA := primitive.NewObjectID()

	cart.AddItem(productA, 2, 10)
	assert.Equal(t, []CartItem{{ProductID: productA, Quantity: 2, Price: 20}}, cart.Items)
	assert.Equal(t, 20.0, cart.TotalPrice)

	cart.AddItem(productA, 1, 10)
	assert.Equal(t, []CartItem{{ProductID: productA, Quantity: 3, Price: 30}}, cart.Items)
	assert.Equal(t, 30.0, cart.TotalPrice)

	cart.DecreaseItem(productA, 10)
	assert.Equal(t, []CartItem{{ProductID: productA, Quantity: 2, Price: 20}}, cart.Items)

	cart.Clear()
	assert.Empty(t, cart.Items)
	assert.Equal(t, 0.0, cart.TotalPrice)
}

func TestRoleAtLeast(t *testing.T) {
	assert.True(t, RoleAtLeast(RoleAdmin, RoleAdmin))
	assert.True(t, RoleAtLeast(RoleSuperAdmin, RoleAdmin))
	assert.False(t, RoleAtLeast(RoleUser, RoleAdmin))
	assert.False(t, RoleAtLeast("", RoleUser))
	assert.False(t, RoleAtLeast("moderator", RoleUser))
}
