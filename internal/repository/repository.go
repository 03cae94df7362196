package repository

import (
	"context"
	"database/sql"

	"github.com/Raymond9734/print-connect-backend/internal/models"
)

// ProviderRepository defines the interface for provider data access.
// Returned providers are copies; mutating them does not touch the store.
type ProviderRepository interface {
	List(ctx context.Context) ([]*models.Provider, error)
	GetByID(ctx context.Context, id int64) (*models.Provider, error)
}

// OrderRepository defines the interface for order data access
type OrderRepository interface {
	// Create puts the order at the head of its provider's order list
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id int64) (*models.Order, error)
	ListByProvider(ctx context.Context, providerID int64, filter models.OrderFilter) ([]*models.Order, int64, error)
	ListByCustomer(ctx context.Context, customerName string) ([]*models.Order, error)
	UpdateStatus(ctx context.Context, id int64, from, to string) error
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
}

// Repositories bundles one implementation of each repository
type Repositories struct {
	Providers ProviderRepository
	Orders    OrderRepository
	Users     UserRepository
}

// NewPostgresRepositories creates the Postgres-backed repositories
func NewPostgresRepositories(db *sql.DB) Repositories {
	return Repositories{
		Providers: NewProviderRepository(db),
		Orders:    NewOrderRepository(db),
		Users:     NewUserRepository(db),
	}
}
