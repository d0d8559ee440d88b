package models

// CartLine is a dish snapshot plus a quantity. A cart holds at most one line
// per dish id; adding an already-present dish increments the quantity instead
// of duplicating the line.
type CartLine struct {
	Dish
	Quantity int `json:"quantity"`
}

// Subtotal returns price times quantity for this line
func (l CartLine) Subtotal() int {
	return l.Price * l.Quantity
}
