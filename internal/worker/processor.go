package worker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Raymond9734/print-connect-backend/internal/metrics"
	"github.com/Raymond9734/print-connect-backend/internal/models"
	"github.com/Raymond9734/print-connect-backend/internal/repository"
	"github.com/Raymond9734/print-connect-backend/internal/service"
)

// NotificationProcessor turns order jobs from the queue into notifications
type NotificationProcessor struct {
	orderRepo    repository.OrderRepository
	providerRepo repository.ProviderRepository
	renderer     service.TemplateService
	templates    map[string]string
	notifier     Notifier
	logger       *slog.Logger
}

// NewNotificationProcessor creates a new notification processor.
// Every template is validated up front; an unknown placeholder is an error.
func NewNotificationProcessor(
	orderRepo repository.OrderRepository,
	providerRepo repository.ProviderRepository,
	renderer service.TemplateService,
	templates map[string]string,
	notifier Notifier,
	logger *slog.Logger,
) (*NotificationProcessor, error) {
	for event, template := range templates {
		if err := renderer.ValidateTemplate(template); err != nil {
			return nil, fmt.Errorf("invalid template for %s: %w", event, err)
		}
	}

	return &NotificationProcessor{
		orderRepo:    orderRepo,
		providerRepo: providerRepo,
		renderer:     renderer,
		templates:    templates,
		notifier:     notifier,
		logger:       logger,
	}, nil
}

// Process handles a single order job. It matches queue.JobHandler.
func (p *NotificationProcessor) Process(ctx context.Context, job *models.OrderJob) error {
	if err := p.process(ctx, job); err != nil {
		metrics.NotificationsProcessed.WithLabelValues(job.Event, "failed").Inc()
		return err
	}
	metrics.NotificationsProcessed.WithLabelValues(job.Event, "success").Inc()
	return nil
}

func (p *NotificationProcessor) process(ctx context.Context, job *models.OrderJob) error {
	template, ok := p.templates[job.Event]
	if !ok {
		p.logger.Warn("no template for event", slog.String("event", job.Event))
		return fmt.Errorf("unknown order event: %s", job.Event)
	}

	order, err := p.orderRepo.GetByID(ctx, job.OrderID)
	if err != nil {
		p.logger.Error("failed to fetch order",
			slog.Int64("order_id", job.OrderID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to fetch order: %w", err)
	}

	provider, err := p.providerRepo.GetByID(ctx, order.ProviderID)
	if err != nil {
		p.logger.Error("failed to fetch provider",
			slog.Int64("provider_id", order.ProviderID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to fetch provider: %w", err)
	}

	// Status changes are stored before the job is handled; report the one the job carries
	if job.Status != "" {
		order.Status = job.Status
	}

	content, err := p.renderer.Render(template, order, provider)
	if err != nil {
		return fmt.Errorf("failed to render notification: %w", err)
	}

	// New requests go to the provider, status updates to the customer
	recipient := order.CustomerName
	if job.Event == models.OrderEventSubmitted {
		recipient = provider.Name
	}

	p.logger.Info("processing notification",
		slog.String("event", job.Event),
		slog.Int64("order_id", order.ID),
		slog.String("recipient", recipient),
	)

	if err := p.notifier.Notify(ctx, recipient, content); err != nil {
		p.logger.Warn("notification failed",
			slog.Int64("order_id", order.ID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to notify %s: %w", recipient, err)
	}

	return nil
}
