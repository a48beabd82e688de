// internal/models/cart.go
package models

// CartItem is one line of the cart: a product reference plus a
// quantity that is always at least 1. Quantity never reaches 0 through
// an update; removal is the only way a line leaves the cart.
type CartItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Cart is the server-authoritative cart snapshot. The client holds a
// cached mirror and replaces it wholesale from mutation responses.
type Cart struct {
	ID    string     `json:"_id,omitempty"`
	Items []CartItem `json:"items"`
}

// Total is the derived cart total: sum of price x quantity over the
// current items. It is recomputed on every call, never cached.
func (c Cart) Total() float64 {
	var total float64
	for _, item := range c.Items {
		total += item.Product.Price * float64(item.Quantity)
	}
	return total
}

// Item returns the line for the given product id, if present.
func (c Cart) Item(productID string) (CartItem, bool) {
	for _, item := range c.Items {
		if item.Product.ID == productID {
			return item, true
		}
	}
	return CartItem{}, false
}
