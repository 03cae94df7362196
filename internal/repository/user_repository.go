package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Raymond9734/print-connect-backend/internal/models"
)

// userRepository implements UserRepository using PostgreSQL
type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

// GetByID retrieves a user by ID
func (r *userRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT id, name, type, provider_id FROM users WHERE id = $1`

	user := &models.User{}
	var providerID sql.NullInt64
	err := r.db.QueryRowContext(ctx, query, id).Scan(&user.ID, &user.Name, &user.Type, &providerID)
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFoundWithMsg(fmt.Sprintf("user with ID %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if providerID.Valid {
		user.ProviderID = &providerID.Int64
	}

	return user, nil
}

// List retrieves all users
func (r *userRepository) List(ctx context.Context) ([]*models.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, type, provider_id FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := []*models.User{}
	for rows.Next() {
		user := &models.User{}
		var providerID sql.NullInt64
		if err := rows.Scan(&user.ID, &user.Name, &user.Type, &providerID); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		if providerID.Valid {
			id := providerID.Int64
			user.ProviderID = &id
		}
		users = append(users, user)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}
