package catalog

import (
	"context"
	"fmt"

	"github.com/lucsky/cuid"
	"teahouse-storefront/internal/logger"
	"teahouse-storefront/internal/models"
)

// DishStore is the persistence surface the catalog service needs.
type DishStore interface {
	ListDishes(ctx context.Context, includeUnavailable bool) ([]models.Dish, error)
	GetDish(ctx context.Context, id string) (*models.Dish, error)
	InsertDish(ctx context.Context, dish *models.Dish) error
	UpdateDish(ctx context.Context, dish *models.Dish) error
	SetAvailability(ctx context.Context, id string, available bool) error
	DeleteDish(ctx context.Context, id string) error
}

// ChangePublisher broadcasts dish change events to realtime subscribers.
type ChangePublisher interface {
	PublishChange(ctx context.Context, event *models.ChangeEvent) error
}

// Service implements menu browsing and the admin-facing catalog operations.
type Service struct {
	store     DishStore
	publisher ChangePublisher
	logger    *logger.Logger
}

// NewService creates a catalog service.
func NewService(store DishStore, publisher ChangePublisher, log *logger.Logger) *Service {
	return &Service{
		store:     store,
		publisher: publisher,
		logger:    log,
	}
}

// ListMenu returns the customer-facing menu with stop-listed dishes excluded.
func (s *Service) ListMenu(ctx context.Context) ([]models.Dish, error) {
	return s.store.ListDishes(ctx, false)
}

// ListAll returns the full catalog including stop-listed dishes, for the
// admin back-office.
func (s *Service) ListAll(ctx context.Context) ([]models.Dish, error) {
	return s.store.ListDishes(ctx, true)
}

// GetDish returns a single dish by id.
func (s *Service) GetDish(ctx context.Context, id string) (*models.Dish, error) {
	return s.store.GetDish(ctx, id)
}

// CreateDish validates and stores a new dish, broadcasting an insert event.
func (s *Service) CreateDish(ctx context.Context, req *models.DishRequest, requestID string) (*models.Dish, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	dish := &models.Dish{
		ID:          cuid.New(),
		Name:        req.Name,
		Category:    req.Category,
		Price:       req.Price,
		Image:       req.Image,
		Description: req.Description,
		Ingredients: req.Ingredients,
		Available:   req.Available,
		Weight:      req.Weight,
	}

	if err := s.store.InsertDish(ctx, dish); err != nil {
		return nil, err
	}

	s.broadcast(ctx, models.EventInsert, dish.ID, dish, requestID)

	s.logger.Info("dish_created", "Dish created", requestID, map[string]interface{}{
		"dish_id":  dish.ID,
		"category": dish.Category,
	})

	return dish, nil
}

// UpdateDish validates and replaces a dish, broadcasting an update event.
func (s *Service) UpdateDish(ctx context.Context, id string, req *models.DishRequest, requestID string) (*models.Dish, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	dish := &models.Dish{
		ID:          id,
		Name:        req.Name,
		Category:    req.Category,
		Price:       req.Price,
		Image:       req.Image,
		Description: req.Description,
		Ingredients: req.Ingredients,
		Available:   req.Available,
		Weight:      req.Weight,
	}

	if err := s.store.UpdateDish(ctx, dish); err != nil {
		return nil, err
	}

	s.broadcast(ctx, models.EventUpdate, id, dish, requestID)

	return dish, nil
}

// SetAvailability toggles the stop-list flag and broadcasts the updated dish.
func (s *Service) SetAvailability(ctx context.Context, id string, available bool, requestID string) error {
	if err := s.store.SetAvailability(ctx, id, available); err != nil {
		return err
	}

	dish, err := s.store.GetDish(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to reload dish after availability change: %w", err)
	}

	s.broadcast(ctx, models.EventUpdate, id, dish, requestID)

	s.logger.Info("dish_availability_changed", "Dish availability toggled", requestID, map[string]interface{}{
		"dish_id":   id,
		"available": available,
	})

	return nil
}

// DeleteDish removes a dish and broadcasts a delete event.
func (s *Service) DeleteDish(ctx context.Context, id string, requestID string) error {
	if err := s.store.DeleteDish(ctx, id); err != nil {
		return err
	}

	s.broadcast(ctx, models.EventDelete, id, nil, requestID)

	return nil
}

// broadcast publishes a change event. Event delivery is best effort: a broker
// outage must not fail the admin operation that already committed.
func (s *Service) broadcast(ctx context.Context, kind models.EventKind, id string, payload interface{}, requestID string) {
	event, err := models.NewChangeEvent(models.EntityDish, kind, id, payload)
	if err != nil {
		s.logger.Error("event_build_failed", "Failed to build dish change event", requestID, err, nil)
		return
	}
	if err := s.publisher.PublishChange(ctx, event); err != nil {
		s.logger.Error("event_publish_failed", "Failed to publish dish change event", requestID, err, map[string]interface{}{
			"dish_id": id,
			"kind":    kind,
		})
	}
}
