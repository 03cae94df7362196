package queue

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/Raymond9734/print-connect-backend/internal/models"
)

// ErrQueueClosed is returned when publishing to a closed memory queue
var ErrQueueClosed = errors.New("queue is closed")

// ErrQueueFull is returned when the memory queue buffer is exhausted
var ErrQueueFull = errors.New("queue is full")

// memoryClient is an in-process, channel-backed Client used when no
// Redis URL is configured. Jobs do not survive a restart.
type memoryClient struct {
	mu     sync.RWMutex
	jobs   chan models.OrderJob
	closed bool
	logger *slog.Logger
}

// NewMemoryClient creates an in-memory queue holding up to buffer jobs
func NewMemoryClient(buffer int, logger *slog.Logger) Client {
	if buffer < 1 {
		buffer = 1000
	}
	return &memoryClient{
		jobs:   make(chan models.OrderJob, buffer),
		logger: logger,
	}
}

// Publish enqueues a job without blocking
func (c *memoryClient) Publish(ctx context.Context, job *models.OrderJob) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return ErrQueueClosed
	}

	select {
	case c.jobs <- *job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return ErrQueueFull
	}
}

// Consume processes jobs until ctx is cancelled or the queue is closed
func (c *memoryClient) Consume(ctx context.Context, handler JobHandler, concurrency int) error {
	if concurrency < 1 {
		concurrency = 1
	}
	if concurrency > 5 {
		concurrency = 5
	}

	semaphore := make(chan struct{}, concurrency)

	for {
		select {
		case <-ctx.Done():
			drain(semaphore)
			return ctx.Err()

		case job, ok := <-c.jobs:
			if !ok {
				drain(semaphore)
				return nil
			}

			semaphore <- struct{}{}
			go func(job models.OrderJob) {
				defer func() { <-semaphore }()

				if err := handler(ctx, &job); err != nil {
					c.logger.Error("handler failed to process job",
						slog.String("event", job.Event),
						slog.Int64("order_id", job.OrderID),
						slog.String("error", err.Error()),
					)
				}
			}(job)
		}
	}
}

// Close stops accepting jobs; consumers exit once the buffer is drained
func (c *memoryClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.jobs)
	}
	return nil
}

// Health reports an error once the queue has been closed
func (c *memoryClient) Health(ctx context.Context) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return ErrQueueClosed
	}
	return nil
}

// Length returns the number of buffered jobs
func (c *memoryClient) Length(ctx context.Context) (int64, error) {
	return int64(len(c.jobs)), nil
}
