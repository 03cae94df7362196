package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/Raymond9734/print-connect-backend/internal/models"
)

// providerRepository implements ProviderRepository using PostgreSQL
type providerRepository struct {
	db *sql.DB
}

// NewProviderRepository creates a new provider repository
func NewProviderRepository(db *sql.DB) ProviderRepository {
	return &providerRepository{db: db}
}

// List retrieves all providers with their printers and orders
func (r *providerRepository) List(ctx context.Context) ([]*models.Provider, error) {
	query := `
		SELECT id, name, distance, rating, avatar_url, materials, is_business, motto
		FROM providers
		ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list providers: %w", err)
	}
	defer rows.Close()

	providers := []*models.Provider{}
	byID := make(map[int64]*models.Provider)
	for rows.Next() {
		provider, err := scanProvider(rows)
		if err != nil {
			return nil, err
		}
		providers = append(providers, provider)
		byID[provider.ID] = provider
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating providers: %w", err)
	}

	if err := r.attachPrinters(ctx, byID, nil); err != nil {
		return nil, err
	}
	if err := r.attachOrders(ctx, byID, nil); err != nil {
		return nil, err
	}

	return providers, nil
}

// GetByID retrieves a provider by ID with its printers and orders
func (r *providerRepository) GetByID(ctx context.Context, id int64) (*models.Provider, error) {
	query := `
		SELECT id, name, distance, rating, avatar_url, materials, is_business, motto
		FROM providers
		WHERE id = $1`

	provider, err := scanProvider(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFoundWithMsg(fmt.Sprintf("provider with ID %d not found", id))
	}
	if err != nil {
		return nil, err
	}

	byID := map[int64]*models.Provider{provider.ID: provider}
	if err := r.attachPrinters(ctx, byID, &id); err != nil {
		return nil, err
	}
	if err := r.attachOrders(ctx, byID, &id); err != nil {
		return nil, err
	}

	return provider, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProvider(row rowScanner) (*models.Provider, error) {
	provider := &models.Provider{
		Printers: []models.Printer{},
		Orders:   []*models.Order{},
	}
	var materials pq.StringArray

	err := row.Scan(
		&provider.ID,
		&provider.Name,
		&provider.Distance,
		&provider.Rating,
		&provider.AvatarURL,
		&materials,
		&provider.IsBusiness,
		&provider.Motto,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan provider: %w", err)
	}

	provider.Materials = make([]models.Material, 0, len(materials))
	for _, m := range materials {
		provider.Materials = append(provider.Materials, models.Material(m))
	}

	return provider, nil
}

// attachPrinters loads printers for the given providers; onlyID narrows the query
func (r *providerRepository) attachPrinters(ctx context.Context, byID map[int64]*models.Provider, onlyID *int64) error {
	query := `SELECT id, provider_id, model, build_volume FROM printers`
	args := []any{}
	if onlyID != nil {
		query += ` WHERE provider_id = $1`
		args = append(args, *onlyID)
	}
	query += ` ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to list printers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var printer models.Printer
		var providerID int64
		if err := rows.Scan(&printer.ID, &providerID, &printer.Model, &printer.BuildVolume); err != nil {
			return fmt.Errorf("failed to scan printer: %w", err)
		}
		if p, ok := byID[providerID]; ok {
			p.Printers = append(p.Printers, printer)
		}
	}

	if err = rows.Err(); err != nil {
		return fmt.Errorf("error iterating printers: %w", err)
	}

	return nil
}

// attachOrders loads orders, newest first, for the given providers
func (r *providerRepository) attachOrders(ctx context.Context, byID map[int64]*models.Provider, onlyID *int64) error {
	query := `SELECT ` + orderColumns + ` FROM orders`
	args := []any{}
	if onlyID != nil {
		query += ` WHERE provider_id = $1`
		args = append(args, *onlyID)
	}
	query += ` ORDER BY seq DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return err
		}
		if p, ok := byID[order.ProviderID]; ok {
			p.Orders = append(p.Orders, order)
		}
	}

	if err = rows.Err(); err != nil {
		return fmt.Errorf("error iterating orders: %w", err)
	}

	return nil
}
