package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/Raymond9734/print-connect-backend/internal/fixtures"
	"github.com/Raymond9734/print-connect-backend/internal/models"
)

// MemoryStore is the in-memory data layer seeded from fixtures.
// All reads hand out deep copies.
type MemoryStore struct {
	mu        sync.RWMutex
	providers []*models.Provider
	users     []*models.User
}

// NewMemoryStore creates a store holding a private copy of the dataset
func NewMemoryStore(ds *fixtures.Dataset) *MemoryStore {
	s := &MemoryStore{
		providers: make([]*models.Provider, 0, len(ds.Providers)),
		users:     make([]*models.User, 0, len(ds.Users)),
	}
	for _, p := range ds.Providers {
		s.providers = append(s.providers, p.Clone())
	}
	for _, u := range ds.Users {
		s.users = append(s.users, u.Clone())
	}
	return s
}

// Providers returns the provider repository view of the store
func (s *MemoryStore) Providers() ProviderRepository {
	return &memoryProviderRepository{store: s}
}

// Orders returns the order repository view of the store
func (s *MemoryStore) Orders() OrderRepository {
	return &memoryOrderRepository{store: s}
}

// Users returns the user repository view of the store
func (s *MemoryStore) Users() UserRepository {
	return &memoryUserRepository{store: s}
}

// Repositories returns all repository views of the store
func (s *MemoryStore) Repositories() Repositories {
	return Repositories{
		Providers: s.Providers(),
		Orders:    s.Orders(),
		Users:     s.Users(),
	}
}

// findProvider must be called with the lock held
func (s *MemoryStore) findProvider(id int64) *models.Provider {
	for _, p := range s.providers {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// findOrder must be called with the lock held
func (s *MemoryStore) findOrder(id int64) *models.Order {
	for _, p := range s.providers {
		for _, o := range p.Orders {
			if o.ID == id {
				return o
			}
		}
	}
	return nil
}

type memoryProviderRepository struct {
	store *MemoryStore
}

// List returns copies of all providers in fixture order
func (r *memoryProviderRepository) List(ctx context.Context) ([]*models.Provider, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	providers := make([]*models.Provider, 0, len(r.store.providers))
	for _, p := range r.store.providers {
		providers = append(providers, p.Clone())
	}
	return providers, nil
}

// GetByID retrieves a copy of a provider by ID
func (r *memoryProviderRepository) GetByID(ctx context.Context, id int64) (*models.Provider, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	p := r.store.findProvider(id)
	if p == nil {
		return nil, models.ErrNotFoundWithMsg(fmt.Sprintf("provider with ID %d not found", id))
	}
	return p.Clone(), nil
}

type memoryOrderRepository struct {
	store *MemoryStore
}

// Create prepends the order to its provider's list
func (r *memoryOrderRepository) Create(ctx context.Context, order *models.Order) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	p := r.store.findProvider(order.ProviderID)
	if p == nil {
		return models.ErrNotFoundWithMsg("Provider not found")
	}
	if r.store.findOrder(order.ID) != nil {
		return models.ErrAlreadyExistsWithMsg(fmt.Sprintf("order with ID %d already exists", order.ID))
	}

	p.Orders = append([]*models.Order{order.Clone()}, p.Orders...)
	return nil
}

// GetByID retrieves a copy of an order by ID
func (r *memoryOrderRepository) GetByID(ctx context.Context, id int64) (*models.Order, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	o := r.store.findOrder(id)
	if o == nil {
		return nil, models.ErrNotFoundWithMsg(fmt.Sprintf("order with ID %d not found", id))
	}
	return o.Clone(), nil
}

// ListByProvider returns a page of the provider's orders, newest first
func (r *memoryOrderRepository) ListByProvider(ctx context.Context, providerID int64, filter models.OrderFilter) ([]*models.Order, int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	p := r.store.findProvider(providerID)
	if p == nil {
		return nil, 0, models.ErrNotFoundWithMsg(fmt.Sprintf("provider with ID %d not found", providerID))
	}

	filtered := []*models.Order{}
	for _, o := range p.Orders {
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		filtered = append(filtered, o)
	}

	totalCount := int64(len(filtered))

	models.ValidateAndSetDefaults(&filter.Page, &filter.PageSize)
	start := min(models.CalculateOffset(filter.Page, filter.PageSize), len(filtered))
	end := min(start+filter.PageSize, len(filtered))

	orders := make([]*models.Order, 0, end-start)
	for _, o := range filtered[start:end] {
		orders = append(orders, o.Clone())
	}
	return orders, totalCount, nil
}

// ListByCustomer returns every order placed under customerName, most recent date first
func (r *memoryOrderRepository) ListByCustomer(ctx context.Context, customerName string) ([]*models.Order, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	orders := []*models.Order{}
	for _, p := range r.store.providers {
		for _, o := range p.Orders {
			if o.CustomerName == customerName {
				orders = append(orders, o.Clone())
			}
		}
	}

	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].Date > orders[j].Date
	})
	return orders, nil
}

// UpdateStatus moves an order from one status to another. The write only
// happens while the order still has status from.
func (r *memoryOrderRepository) UpdateStatus(ctx context.Context, id int64, from, to string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	o := r.store.findOrder(id)
	if o == nil {
		return models.ErrNotFoundWithMsg(fmt.Sprintf("order with ID %d not found", id))
	}
	if o.Status != from {
		return statusChangedError(id, from, o.Status)
	}
	o.Status = to
	return nil
}

type memoryUserRepository struct {
	store *MemoryStore
}

// GetByID retrieves a user by ID
func (r *memoryUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, u := range r.store.users {
		if u.ID == id {
			return u.Clone(), nil
		}
	}
	return nil, models.ErrNotFoundWithMsg(fmt.Sprintf("user with ID %d not found", id))
}

// List returns all users
func (r *memoryUserRepository) List(ctx context.Context) ([]*models.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	users := make([]*models.User, 0, len(r.store.users))
	for _, u := range r.store.users {
		users = append(users, u.Clone())
	}
	return users, nil
}
