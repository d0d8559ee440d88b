package realtime

import (
	"encoding/json"

	"teahouse-storefront/internal/models"
)

// ApplyDishEvent applies one change event to an in-memory dish list and
// returns the new list. Events are applied in arrival order, last write wins:
// an insert for a known id behaves like an update, an update for an unknown
// id behaves like an insert, and a delete for an unknown id is a no-op.
func ApplyDishEvent(list []models.Dish, ev *models.ChangeEvent) ([]models.Dish, error) {
	if ev.Entity != models.EntityDish {
		return list, nil
	}

	if ev.Kind == models.EventDelete {
		return deleteDish(list, ev.ID), nil
	}

	var dish models.Dish
	if err := json.Unmarshal(ev.Payload, &dish); err != nil {
		return list, err
	}

	for i := range list {
		if list[i].ID == dish.ID {
			out := make([]models.Dish, len(list))
			copy(out, list)
			out[i] = dish
			return out, nil
		}
	}
	return append(append([]models.Dish(nil), list...), dish), nil
}

// ApplyOrderEvent applies one change event to an in-memory order list, with
// the same semantics as ApplyDishEvent.
func ApplyOrderEvent(list []models.Order, ev *models.ChangeEvent) ([]models.Order, error) {
	if ev.Entity != models.EntityOrder {
		return list, nil
	}

	if ev.Kind == models.EventDelete {
		return deleteOrder(list, ev.ID), nil
	}

	var order models.Order
	if err := json.Unmarshal(ev.Payload, &order); err != nil {
		return list, err
	}

	for i := range list {
		if list[i].ID == order.ID {
			out := make([]models.Order, len(list))
			copy(out, list)
			out[i] = order
			return out, nil
		}
	}
	return append(append([]models.Order(nil), list...), order), nil
}

func deleteDish(list []models.Dish, id string) []models.Dish {
	out := make([]models.Dish, 0, len(list))
	for _, d := range list {
		if d.ID != id {
			out = append(out, d)
		}
	}
	return out
}

func deleteOrder(list []models.Order, id string) []models.Order {
	out := make([]models.Order, 0, len(list))
	for _, o := range list {
		if o.ID != id {
			out = append(out, o)
		}
	}
	return out
}
