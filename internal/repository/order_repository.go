package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/Raymond9734/print-connect-backend/internal/models"
)

const orderColumns = `id, provider_id, customer_name, file_name, idea_description, material, quantity, notes, status, to_char(order_date, 'YYYY-MM-DD') AS order_date`

// Postgres error codes we translate
const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

// orderRepository implements OrderRepository using PostgreSQL
type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{db: db}
}

// Create inserts a new order. Newest-first ordering comes from the seq column.
func (r *orderRepository) Create(ctx context.Context, order *models.Order) error {
	query := `
		INSERT INTO orders (id, provider_id, customer_name, file_name, idea_description, material, quantity, notes, status, order_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.ExecContext(
		ctx,
		query,
		order.ID,
		order.ProviderID,
		order.CustomerName,
		order.FileName,
		order.IdeaDescription,
		string(order.Material),
		order.Quantity,
		order.Notes,
		order.Status,
		order.Date,
	)
	if err != nil {
		return translateInsertError(err, order)
	}

	return nil
}

func translateInsertError(err error, order *models.Order) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqUniqueViolation:
			return models.ErrAlreadyExistsWithMsg(fmt.Sprintf("order with ID %d already exists", order.ID))
		case pqForeignKeyViolation:
			return models.ErrNotFoundWithMsg("Provider not found")
		}
	}
	return fmt.Errorf("failed to create order: %w", err)
}

// GetByID retrieves an order by ID
func (r *orderRepository) GetByID(ctx context.Context, id int64) (*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFoundWithMsg(fmt.Sprintf("order with ID %d not found", id))
	}
	if err != nil {
		return nil, err
	}

	return order, nil
}

// ListByProvider retrieves a page of a provider's orders, newest first
func (r *orderRepository) ListByProvider(ctx context.Context, providerID int64, filter models.OrderFilter) ([]*models.Order, int64, error) {
	models.ValidateAndSetDefaults(&filter.Page, &filter.PageSize)

	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM providers WHERE id = $1)`, providerID).Scan(&exists); err != nil {
		return nil, 0, fmt.Errorf("failed to check provider: %w", err)
	}
	if !exists {
		return nil, 0, models.ErrNotFoundWithMsg(fmt.Sprintf("provider with ID %d not found", providerID))
	}

	query := `SELECT ` + orderColumns + ` FROM orders WHERE provider_id = $1`
	countQuery := `SELECT COUNT(*) FROM orders WHERE provider_id = $1`
	args := []any{providerID}
	argPos := 2

	if filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argPos)
		countQuery += fmt.Sprintf(" AND status = $%d", argPos)
		args = append(args, filter.Status)
		argPos++
	}

	var totalCount int64
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	offset := models.CalculateOffset(filter.Page, filter.PageSize)
	query += fmt.Sprintf(" ORDER BY seq DESC LIMIT $%d OFFSET $%d", argPos, argPos+1)
	args = append(args, filter.PageSize, offset)

	orders, err := r.queryOrders(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}

	return orders, totalCount, nil
}

// ListByCustomer retrieves all orders placed under customerName
func (r *orderRepository) ListByCustomer(ctx context.Context, customerName string) ([]*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE customer_name = $1 ORDER BY order_date DESC, seq DESC`
	return r.queryOrders(ctx, query, customerName)
}

// UpdateStatus updates only the status of an order, provided it still has status from
func (r *orderRepository) UpdateStatus(ctx context.Context, id int64, from, to string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE orders SET status = $1 WHERE id = $2 AND status = $3`, to, id, from)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		var current string
		err := r.db.QueryRowContext(ctx, `SELECT status FROM orders WHERE id = $1`, id).Scan(&current)
		if errors.Is(err, sql.ErrNoRows) {
			return models.ErrNotFoundWithMsg(fmt.Sprintf("order with ID %d not found", id))
		}
		if err != nil {
			return fmt.Errorf("failed to get order status: %w", err)
		}
		return statusChangedError(id, from, current)
	}

	return nil
}

func statusChangedError(id int64, from, current string) error {
	return models.ErrConflictWithMsg(
		fmt.Sprintf("order %d is no longer '%s' (now '%s')", id, from, current),
	)
}

func (r *orderRepository) queryOrders(ctx context.Context, query string, args ...any) ([]*models.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := []*models.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	return orders, nil
}

func scanOrder(row rowScanner) (*models.Order, error) {
	order := &models.Order{}
	var fileName, idea sql.NullString
	var material string

	err := row.Scan(
		&order.ID,
		&order.ProviderID,
		&order.CustomerName,
		&fileName,
		&idea,
		&material,
		&order.Quantity,
		&order.Notes,
		&order.Status,
		&order.Date,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan order: %w", err)
	}

	order.Material = models.Material(material)
	if fileName.Valid {
		order.FileName = &fileName.String
	}
	if idea.Valid {
		order.IdeaDescription = &idea.String
	}

	return order, nil
}
