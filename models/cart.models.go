package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartItem is one line in a cart: a product reference, a quantity and
// the line price cached at the time of the last mutation.
type CartItem struct {
	ProductID primitive.ObjectID `bson:"product_id" json:"productId"`
	Quantity  int                `bson:"quantity" json:"quantity"`
	Price     float64            `bson:"price" json:"price"`
}

// Cart is a user's single active shopping cart. TotalPrice always equals
// the sum of the line prices; every mutation recomputes it by summation.
type Cart struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID     primitive.ObjectID `bson:"user_id" json:"userId"`
	Items      []CartItem         `bson:"items" json:"items"`
	TotalPrice float64            `bson:"total_price" json:"totalPrice"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updated_at"`
}

// Item returns the line item for the given product, or nil.
func (c *Cart) Item(productID primitive.ObjectID) *CartItem {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i]
		}
	}
	return nil
}

// AddItem merges quantity into the existing line item for the product, or
// appends a new one. The touched line is repriced from unitPrice so that
// its price is always quantity * unit price.
func (c *Cart) AddItem(productID primitive.ObjectID, quantity int, unitPrice float64) {
	if item := c.Item(productID); item != nil {
		item.Quantity += quantity
		item.Price = float64(item.Quantity) * unitPrice
	} else {
		c.Items = append(c.Items, CartItem{
			ProductID: productID,
			Quantity:  quantity,
			Price:     float64(quantity) * unitPrice,
		})
	}
	c.RecomputeTotal()
}

// RemoveItem deletes the line item for the product. It reports whether
// the product was present.
func (c *Cart) RemoveItem(productID primitive.ObjectID) bool {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			c.RecomputeTotal()
			return true
		}
	}
	return false
}

// DecreaseItem decrements the line item's quantity by one, repricing it
// from unitPrice (the product's current price, not the cached line price).
// A quantity-1 item is removed entirely. It reports whether the product
// was present.
func (c *Cart) DecreaseItem(productID primitive.ObjectID, unitPrice float64) bool {
	item := c.Item(productID)
	if item == nil {
		return false
	}
	if item.Quantity > 1 {
		item.Quantity--
		item.Price = float64(item.Quantity) * unitPrice
		c.RecomputeTotal()
		return true
	}
	return c.RemoveItem(productID)
}

// Clear empties the cart. The cart record itself survives.
func (c *Cart) Clear() {
	c.Items = []CartItem{}
	c.TotalPrice = 0
}

// RecomputeTotal sets TotalPrice to the sum of the line prices.
func (c *Cart) RecomputeTotal() {
	total := 0.0
	for _, item := range c.Items {
		total += item.Price
	}
	c.TotalPrice = total
}
