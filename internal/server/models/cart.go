// Package models defines server-side data models persisted in the database.
package models

// CartLine is one (productId, size, quantity) entry within a user's cart.
// A cart holds at most one line per distinct (productId, size) pair;
// adding the same pair again increments the quantity instead.
type CartLine struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size"`
}

// CartDocument is the whole per-user cart, stored as a single JSON value
// and always written back as one unit. Line order is insertion order and
// is preserved across merges.
type CartDocument struct {
	Items []CartLine
}

// Find returns the index of the line matching (productID, size) exactly,
// or -1 when no such line exists.
func (c *CartDocument) Find(productID, size string) int {
	for i, line := range c.Items {
		if line.ProductID == productID && line.Size == size {
			return i
		}
	}
	return -1
}
