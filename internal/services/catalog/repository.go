package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"teahouse-storefront/internal/database"
	"teahouse-storefront/internal/models"
)

// ErrDishNotFound is returned when no dish exists with the requested id.
var ErrDishNotFound = errors.New("dish not found")

// Repository provides access to the dishes table.
type Repository struct {
	db *database.DB
}

// NewRepository creates a catalog repository.
func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db}
}

// ListDishes returns all dishes. When includeUnavailable is false, dishes on
// the stop-list are excluded, which is the customer-facing view.
func (r *Repository) ListDishes(ctx context.Context, includeUnavailable bool) ([]models.Dish, error) {
	query := database.ListAvailableDishesSQL
	if includeUnavailable {
		query = database.ListDishesSQL
	}

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query dishes: %w", err)
	}
	defer rows.Close()

	var dishes []models.Dish
	for rows.Next() {
		var d models.Dish
		err := rows.Scan(&d.ID, &d.Name, &d.Category, &d.Price, &d.Image,
			&d.Description, &d.Ingredients, &d.Available, &d.Weight)
		if err != nil {
			return nil, fmt.Errorf("failed to scan dish row: %w", err)
		}
		dishes = append(dishes, d)
	}

	return dishes, rows.Err()
}

// GetDish returns a single dish by id.
func (r *Repository) GetDish(ctx context.Context, id string) (*models.Dish, error) {
	var d models.Dish
	err := r.db.QueryRow(ctx, database.GetDishSQL, id).Scan(
		&d.ID, &d.Name, &d.Category, &d.Price, &d.Image,
		&d.Description, &d.Ingredients, &d.Available, &d.Weight)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDishNotFound
		}
		return nil, fmt.Errorf("failed to query dish: %w", err)
	}
	return &d, nil
}

// InsertDish stores a new dish.
func (r *Repository) InsertDish(ctx context.Context, dish *models.Dish) error {
	err := r.db.Exec(ctx, database.InsertDishSQL,
		dish.ID, dish.Name, dish.Category, dish.Price, dish.Image,
		dish.Description, dish.Ingredients, dish.Available, dish.Weight)
	if err != nil {
		return fmt.Errorf("failed to insert dish: %w", err)
	}
	return nil
}

// UpdateDish replaces all editable fields of a dish.
func (r *Repository) UpdateDish(ctx context.Context, dish *models.Dish) error {
	var id string
	err := r.db.QueryRow(ctx, database.UpdateDishSQL,
		dish.ID, dish.Name, dish.Category, dish.Price, dish.Image,
		dish.Description, dish.Ingredients, dish.Available, dish.Weight).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrDishNotFound
		}
		return fmt.Errorf("failed to update dish: %w", err)
	}
	return nil
}

// SetAvailability toggles the stop-list flag without touching other fields.
func (r *Repository) SetAvailability(ctx context.Context, id string, available bool) error {
	var updated string
	err := r.db.QueryRow(ctx, database.UpdateDishAvailabilitySQL, id, available).Scan(&updated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrDishNotFound
		}
		return fmt.Errorf("failed to update dish availability: %w", err)
	}
	return nil
}

// DeleteDish removes a dish.
func (r *Repository) DeleteDish(ctx context.Context, id string) error {
	var deleted string
	err := r.db.QueryRow(ctx, database.DeleteDishSQL, id).Scan(&deleted)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrDishNotFound
		}
		return fmt.Errorf("failed to delete dish: %w", err)
	}
	return nil
}
