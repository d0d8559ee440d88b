package cart

import (
	"context"

	"teahouse-storefront/internal/models"
)

// Compiled-in storefront constants, in rubles.
const (
	MinOrderAmount        = 1200
	FreeDeliveryThreshold = 3000
	DeliveryFee           = 150
)

// Store persists a cart's full line set under a single durable key.
type Store interface {
	Load(ctx context.Context, key string) ([]models.CartLine, error)
	Save(ctx context.Context, key string, lines []models.CartLine) error
}

// Cart holds the selected dishes for one browsing session. Every mutation
// synchronously rewrites the full line set through the Store; the constructor
// hydrates from it. The cart is owned by a single request/session at a time,
// there is no concurrent mutation to guard against.
type Cart struct {
	key   string
	lines []models.CartLine
	store Store
}

// New hydrates a cart from the store, starting empty when nothing is saved.
func New(ctx context.Context, key string, store Store) (*Cart, error) {
	lines, err := store.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	return &Cart{key: key, lines: lines, store: store}, nil
}

// AddItem appends a new line with quantity 1, or increments the quantity of
// an existing line with the same dish id.
func (c *Cart) AddItem(ctx context.Context, dish models.Dish) error {
	for i := range c.lines {
		if c.lines[i].ID == dish.ID {
			c.lines[i].Quantity++
			return c.persist(ctx)
		}
	}
	c.lines = append(c.lines, models.CartLine{Dish: dish, Quantity: 1})
	return c.persist(ctx)
}

// RemoveItem deletes the line with the matching dish id, if present.
func (c *Cart) RemoveItem(ctx context.Context, dishID string) error {
	for i := range c.lines {
		if c.lines[i].ID == dishID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return c.persist(ctx)
		}
	}
	return nil
}

// UpdateQuantity adjusts a line's quantity by delta with a floor of 1. It
// never removes a line; removal is a separate explicit action.
func (c *Cart) UpdateQuantity(ctx context.Context, dishID string, delta int) error {
	for i := range c.lines {
		if c.lines[i].ID == dishID {
			newQty := c.lines[i].Quantity + delta
			if newQty < 1 {
				newQty = 1
			}
			c.lines[i].Quantity = newQty
			return c.persist(ctx)
		}
	}
	return nil
}

// Clear empties all lines.
func (c *Cart) Clear(ctx context.Context) error {
	c.lines = nil
	return c.persist(ctx)
}

// Lines returns a copy of the current line set.
func (c *Cart) Lines() []models.CartLine {
	out := make([]models.CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// TotalPrice returns the cart subtotal.
func (c *Cart) TotalPrice() int {
	total := 0
	for _, l := range c.lines {
		total += l.Subtotal()
	}
	return total
}

// ItemCount returns the total quantity across all lines.
func (c *Cart) ItemCount() int {
	count := 0
	for _, l := range c.lines {
		count += l.Quantity
	}
	return count
}

// DeliveryCost is zero for an empty cart and above the free-delivery
// threshold, otherwise the fixed fee.
func (c *Cart) DeliveryCost() int {
	total := c.TotalPrice()
	if total == 0 || total >= FreeDeliveryThreshold {
		return 0
	}
	return DeliveryFee
}

// MeetsMinimum reports whether the subtotal reaches the minimum order amount.
func (c *Cart) MeetsMinimum() bool {
	return c.TotalPrice() >= MinOrderAmount
}

func (c *Cart) persist(ctx context.Context) error {
	return c.store.Save(ctx, c.key, c.lines)
}
