package worker

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"
)

// Notifier delivers a rendered notification to a recipient
type Notifier interface {
	Notify(ctx context.Context, recipient, content string) error
}

// logNotifier simulates delivery by logging the notification
type logNotifier struct {
	successRate float64
	minDelay    time.Duration
	maxDelay    time.Duration
	logger      *slog.Logger
}

// NewLogNotifier creates a notifier that writes notifications to the log.
// successRate is the probability of delivery (0.0 to 1.0); out-of-range values mean 1.0.
func NewLogNotifier(successRate float64, logger *slog.Logger) Notifier {
	if successRate <= 0 || successRate > 1.0 {
		successRate = 1.0
	}

	return &logNotifier{
		successRate: successRate,
		minDelay:    10 * time.Millisecond,
		maxDelay:    50 * time.Millisecond,
		logger:      logger,
	}
}

// Notify waits a short simulated delivery latency, then logs the notification
func (n *logNotifier) Notify(ctx context.Context, recipient, content string) error {
	delay := n.minDelay + rand.N(n.maxDelay-n.minDelay)

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
		return ctx.Err()
	}

	if rand.Float64() > n.successRate {
		return fmt.Errorf("notification to %s failed: simulated delivery error", recipient)
	}

	n.logger.Info("notification delivered",
		slog.String("recipient", recipient),
		slog.String("content", content),
	)
	return nil
}
