package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"teahouse-storefront/internal/database"
	"teahouse-storefront/internal/models"
)

// ErrProfileNotFound is returned when no profile row exists. Callers treat
// this as "no profile yet", not a failure.
var ErrProfileNotFound = errors.New("profile not found")

// Repository provides access to the profiles table.
type Repository struct {
	db *database.DB
}

// NewRepository creates an auth repository.
func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db}
}

// GetProfile returns a profile by id.
func (r *Repository) GetProfile(ctx context.Context, id string) (*models.Profile, error) {
	return r.scanProfile(r.db.QueryRow(ctx, database.GetProfileSQL, id))
}

// GetProfileByEmail returns a profile by email.
func (r *Repository) GetProfileByEmail(ctx context.Context, email string) (*models.Profile, error) {
	return r.scanProfile(r.db.QueryRow(ctx, database.GetProfileByEmailSQL, email))
}

// UpsertProfile inserts a profile or updates its editable fields. Role and
// password hash are never changed by the update path.
func (r *Repository) UpsertProfile(ctx context.Context, p *models.Profile) error {
	err := r.db.Exec(ctx, database.UpsertProfileSQL,
		p.ID, p.FullName, p.Address, p.Role, p.Email, p.PasswordHash)
	if err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}
	return nil
}

func (r *Repository) scanProfile(row pgx.Row) (*models.Profile, error) {
	var p models.Profile
	err := row.Scan(&p.ID, &p.FullName, &p.Address, &p.Role, &p.Email, &p.PasswordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to query profile: %w", err)
	}
	return &p, nil
}
