package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Raymond9734/print-connect-backend/internal/fixtures"
	"github.com/Raymond9734/print-connect-backend/internal/models"
	"github.com/Raymond9734/print-connect-backend/internal/queue"
	"github.com/Raymond9734/print-connect-backend/internal/repository"
)

var fixedNow = time.Date(2024, time.March, 14, 10, 30, 0, 0, time.UTC)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore(t *testing.T) *repository.MemoryStore {
	t.Helper()
	ds, err := fixtures.Load()
	require.NoError(t, err)
	return repository.NewMemoryStore(ds)
}

// sequentialIDs hands out ids from the given list, then keeps returning the last one
func sequentialIDs(ids ...int64) func() int64 {
	var mu sync.Mutex
	i := 0
	return func() int64 {
		mu.Lock()
		defer mu.Unlock()
		id := ids[min(i, len(ids)-1)]
		i++
		return id
	}
}

func newTestAPI(store *repository.MemoryStore, ids ...int64) API {
	if len(ids) == 0 {
		ids = []int64{1000}
	}
	return NewMockAPI(store.Providers(), store.Orders(), APIOptions{
		NewID: sequentialIDs(ids...),
		Now:   func() time.Time { return fixedNow },
	}, newTestLogger())
}

// countingAPI records calls made to the wrapped API
type countingAPI struct {
	API
	submits int
	err     error
}

func (c *countingAPI) SubmitOrder(ctx context.Context, payload *models.NewOrderPayload, user *models.User) (*models.Order, error) {
	c.submits++
	if c.err != nil {
		return nil, c.err
	}
	return c.API.SubmitOrder(ctx, payload, user)
}

// mockQueue records published jobs
type mockQueue struct {
	mu   sync.Mutex
	jobs []models.OrderJob
	err  error
}

func (q *mockQueue) Publish(ctx context.Context, job *models.OrderJob) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, *job)
	return nil
}

func (q *mockQueue) Consume(ctx context.Context, handler queue.JobHandler, concurrency int) error {
	return nil
}

func (q *mockQueue) Close() error { return nil }

func (q *mockQueue) Health(ctx context.Context) error { return nil }

func (q *mockQueue) Length(ctx context.Context) (int64, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return int64(len(q.jobs)), nil
}

func mustProvider(t *testing.T, store *repository.MemoryStore, id int64) *models.Provider {
	t.Helper()
	p, err := store.Providers().GetByID(context.Background(), id)
	require.NoError(t, err)
	return p
}

func mustUser(t *testing.T, store *repository.MemoryStore, id int64) *models.User {
	t.Helper()
	u, err := store.Users().GetByID(context.Background(), id)
	require.NoError(t, err)
	return u
}
