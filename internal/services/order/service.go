package order

import (
	"context"
	"errors"
	"sort"

	"teahouse-storefront/internal/logger"
	"teahouse-storefront/internal/models"
)

// ErrForbidden is returned when a user asks for an order they do not own.
var ErrForbidden = errors.New("order belongs to another user")

// OrderStore is the persistence surface the order service needs.
type OrderStore interface {
	CreateOrder(ctx context.Context, o *models.Order) (*models.Order, error)
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	ListForUser(ctx context.Context, userID string) ([]models.Order, error)
	ListAll(ctx context.Context) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error
	DeleteOrder(ctx context.Context, id string) error
}

// EventPublisher broadcasts order change events and status notifications.
type EventPublisher interface {
	PublishChange(ctx context.Context, event *models.ChangeEvent) error
	PublishNotification(ctx context.Context, msg interface{}) error
}

// Service implements order placement, history, and the admin status panel.
type Service struct {
	store     OrderStore
	publisher EventPublisher
	logger    *logger.Logger
}

// NewService creates an order service.
func NewService(store OrderStore, publisher EventPublisher, log *logger.Logger) *Service {
	return &Service{
		store:     store,
		publisher: publisher,
		logger:    log,
	}
}

// CreateOrder persists a new order and broadcasts an insert event. It is the
// OrderCreator behind checkout.
func (s *Service) CreateOrder(ctx context.Context, o *models.Order) (*models.Order, error) {
	created, err := s.store.CreateOrder(ctx, o)
	if err != nil {
		return nil, err
	}

	s.broadcast(ctx, models.EventInsert, created.ID, created, "")

	return created, nil
}

// GetOrder returns an order. Owners see their own orders, admins see all,
// and guest orders (no user id) are readable by whoever holds the order id.
func (s *Service) GetOrder(ctx context.Context, id string, userID *string, admin bool) (*models.Order, error) {
	o, err := s.store.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if admin || o.UserID == nil {
		return o, nil
	}
	if userID == nil || *userID != *o.UserID {
		return nil, ErrForbidden
	}
	return o, nil
}

// ListForUser returns the user's order history, newest first.
func (s *Service) ListForUser(ctx context.Context, userID string) ([]models.Order, error) {
	orders, err := s.store.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	sortNewestFirst(orders)
	return orders, nil
}

// ListAll returns every order for the admin back-office, newest first.
func (s *Service) ListAll(ctx context.Context) ([]models.Order, error) {
	orders, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	sortNewestFirst(orders)
	return orders, nil
}

// sortNewestFirst orders a list by creation time descending, independent of
// the store's own ordering.
func sortNewestFirst(orders []models.Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
}

// UpdateStatus moves an order to a new status, broadcasting the change and a
// customer-facing notification.
func (s *Service) UpdateStatus(ctx context.Context, id string, status models.OrderStatus, changedBy, requestID string) (*models.Order, error) {
	current, err := s.store.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	oldStatus := current.Status
	if err := s.store.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	current.Status = status

	s.broadcast(ctx, models.EventUpdate, id, current, requestID)

	msg := models.NewStatusUpdateMessage(id, string(oldStatus), string(status), changedBy)
	if err := s.publisher.PublishNotification(ctx, msg); err != nil {
		s.logger.Error("notification_publish_failed", "Failed to publish status notification", requestID, err, map[string]interface{}{
			"order_id": id,
		})
	}

	s.logger.Info("order_status_changed", "Order status changed", requestID, map[string]interface{}{
		"order_id":   id,
		"old_status": oldStatus,
		"new_status": status,
		"changed_by": changedBy,
	})

	return current, nil
}

// DeleteOrder hard-deletes an order and broadcasts a delete event.
func (s *Service) DeleteOrder(ctx context.Context, id string, requestID string) error {
	if err := s.store.DeleteOrder(ctx, id); err != nil {
		return err
	}

	s.broadcast(ctx, models.EventDelete, id, nil, requestID)

	s.logger.Info("order_deleted", "Order deleted", requestID, map[string]interface{}{
		"order_id": id,
	})

	return nil
}

// broadcast publishes an order change event. Best effort, same as the catalog:
// the committed write is the source of truth and must not be rolled back over
// a broker outage.
func (s *Service) broadcast(ctx context.Context, kind models.EventKind, id string, payload interface{}, requestID string) {
	event, err := models.NewChangeEvent(models.EntityOrder, kind, id, payload)
	if err != nil {
		s.logger.Error("event_build_failed", "Failed to build order change event", requestID, err, nil)
		return
	}
	if err := s.publisher.PublishChange(ctx, event); err != nil {
		s.logger.Error("event_publish_failed", "Failed to publish order change event", requestID, err, map[string]interface{}{
			"order_id": id,
			"kind":     kind,
		})
	}
}
