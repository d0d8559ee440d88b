package realtime

import (
	"testing"

	"teahouse-storefront/internal/logger"
	"teahouse-storefront/internal/models"
)

func TestMirror_AppliesEventsAndSnapshots(t *testing.T) {
	m := NewMirror(logger.New("test"))

	m.applyDish(dishEvent(t, models.EventInsert, &models.Dish{ID: "a", Name: "Plov", Price: 650}, "a"))
	m.applyDish(dishEvent(t, models.EventInsert, &models.Dish{ID: "b", Name: "Lagman", Price: 520}, "b"))
	m.applyDish(dishEvent(t, models.EventUpdate, &models.Dish{ID: "a", Name: "Plov", Price: 700}, "a"))
	m.applyDish(dishEvent(t, models.EventDelete, nil, "b"))

	dishes := m.Dishes()
	if len(dishes) != 1 {
		t.Fatalf("expected 1 mirrored dish, got %d", len(dishes))
	}
	if dishes[0].Price != 700 {
		t.Fatalf("expected updated price 700, got %d", dishes[0].Price)
	}

	orderEv, err := models.NewChangeEvent(models.EntityOrder, models.EventInsert, "o1",
		&models.Order{ID: "o1", Status: models.StatusPending})
	if err != nil {
		t.Fatalf("NewChangeEvent returned error: %v", err)
	}
	m.applyOrder(orderEv)

	orders := m.Orders()
	if len(orders) != 1 || orders[0].Status != models.StatusPending {
		t.Fatalf("expected 1 mirrored pending order, got %+v", orders)
	}
}

func TestMirror_SnapshotsAreCopies(t *testing.T) {
	m := NewMirror(logger.New("test"))
	m.applyDish(dishEvent(t, models.EventInsert, &models.Dish{ID: "a", Price: 650}, "a"))

	snapshot := m.Dishes()
	snapshot[0].Price = 1

	if m.Dishes()[0].Price != 650 {
		t.Fatalf("mutating a snapshot must not affect the mirror")
	}
}

func TestMirror_MalformedEventKeepsState(t *testing.T) {
	m := NewMirror(logger.New("test"))
	m.applyDish(dishEvent(t, models.EventInsert, &models.Dish{ID: "a", Price: 650}, "a"))

	m.applyDish(&models.ChangeEvent{
		Entity:  models.EntityDish,
		Kind:    models.EventUpdate,
		ID:      "a",
		Payload: []byte("{not json"),
	})

	dishes := m.Dishes()
	if len(dishes) != 1 || dishes[0].Price != 650 {
		t.Fatalf("mirror must keep its state when an event cannot be applied, got %+v", dishes)
	}
}
