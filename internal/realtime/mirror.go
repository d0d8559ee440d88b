package realtime

import (
	"context"
	"sync"

	"teahouse-storefront/internal/logger"
	"teahouse-storefront/internal/models"
)

// Mirror keeps an in-memory copy of the dishes and orders tables, updated
// from the realtime change feeds. A snapshot is always consistent with some
// prefix of the event stream.
type Mirror struct {
	mu     sync.RWMutex
	dishes []models.Dish
	orders []models.Order
	logger *logger.Logger
}

// NewMirror creates an empty mirror.
func NewMirror(log *logger.Logger) *Mirror {
	return &Mirror{logger: log}
}

// Run applies events from both feeds until the context is cancelled. It
// returns once both feed channels have closed.
func (m *Mirror) Run(ctx context.Context, dishFeed, orderFeed *Feed) {
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for ev := range dishFeed.Subscribe(ctx) {
			m.applyDish(ev)
		}
	}()
	go func() {
		defer wg.Done()
		for ev := range orderFeed.Subscribe(ctx) {
			m.applyOrder(ev)
		}
	}()

	wg.Wait()
}

// Dishes returns a snapshot of the mirrored dish list.
func (m *Mirror) Dishes() []models.Dish {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Dish, len(m.dishes))
	copy(out, m.dishes)
	return out
}

// Orders returns a snapshot of the mirrored order list.
func (m *Mirror) Orders() []models.Order {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Order, len(m.orders))
	copy(out, m.orders)
	return out
}

func (m *Mirror) applyDish(ev *models.ChangeEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	next, err := ApplyDishEvent(m.dishes, ev)
	if err != nil {
		m.logger.Error("event_apply_failed", "Failed to apply dish event", "", err, map[string]interface{}{
			"dish_id": ev.ID,
			"kind":    ev.Kind,
		})
		return
	}
	m.dishes = next
}

func (m *Mirror) applyOrder(ev *models.ChangeEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	next, err := ApplyOrderEvent(m.orders, ev)
	if err != nil {
		m.logger.Error("event_apply_failed", "Failed to apply order event", "", err, map[string]interface{}{
			"order_id": ev.ID,
			"kind":     ev.Kind,
		})
		return
	}
	m.orders = next
}
