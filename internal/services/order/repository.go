package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"teahouse-storefront/internal/database"
	"teahouse-storefront/internal/models"
)

// ErrOrderNotFound is returned when no order exists with the requested id.
var ErrOrderNotFound = errors.New("order not found")

// Repository provides access to the orders table. Cart-line snapshots are
// stored as a jsonb column so the order is immutable even if dishes change.
type Repository struct {
	db *database.DB
}

// NewRepository creates an order repository.
func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db}
}

// CreateOrder inserts a new order and returns it with created_at filled in.
func (r *Repository) CreateOrder(ctx context.Context, o *models.Order) (*models.Order, error) {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order items: %w", err)
	}

	err = r.db.QueryRow(ctx, database.InsertOrderSQL,
		o.ID, o.UserID, items, o.TotalAmount, o.Status, o.DeliveryAddress,
		o.ContactPhone, o.Comment, o.PaymentStatus, o.PaymentMethod).Scan(&o.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert order: %w", err)
	}

	return o, nil
}

// GetOrder returns a single order by id.
func (r *Repository) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	o, err := r.scanOrder(r.db.QueryRow(ctx, database.GetOrderSQL, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to query order: %w", err)
	}
	return o, nil
}

// ListForUser returns the user's orders, newest first.
func (r *Repository) ListForUser(ctx context.Context, userID string) ([]models.Order, error) {
	return r.list(ctx, database.ListOrdersForUserSQL, userID)
}

// ListAll returns every order, newest first, for the admin back-office.
func (r *Repository) ListAll(ctx context.Context) ([]models.Order, error) {
	return r.list(ctx, database.ListAllOrdersSQL)
}

// UpdateStatus moves an order to a new status.
func (r *Repository) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error {
	var updated string
	err := r.db.QueryRow(ctx, database.UpdateOrderStatusSQL, id, status).Scan(&updated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrOrderNotFound
		}
		return fmt.Errorf("failed to update order status: %w", err)
	}
	return nil
}

// DeleteOrder hard-deletes an order.
func (r *Repository) DeleteOrder(ctx context.Context, id string) error {
	var deleted string
	err := r.db.QueryRow(ctx, database.DeleteOrderSQL, id).Scan(&deleted)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrOrderNotFound
		}
		return fmt.Errorf("failed to delete order: %w", err)
	}
	return nil
}

func (r *Repository) list(ctx context.Context, query string, args ...interface{}) ([]models.Order, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		o, err := r.scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order row: %w", err)
		}
		orders = append(orders, *o)
	}

	return orders, rows.Err()
}

func (r *Repository) scanOrder(row pgx.Row) (*models.Order, error) {
	var o models.Order
	var items []byte

	err := row.Scan(&o.ID, &o.UserID, &o.CreatedAt, &items, &o.TotalAmount, &o.Status,
		&o.DeliveryAddress, &o.ContactPhone, &o.Comment, &o.PaymentStatus,
		&o.PaymentMethod, &o.PaymentID)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(items, &o.Items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal order items: %w", err)
	}

	return &o, nil
}
