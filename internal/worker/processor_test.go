package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/Raymond9734/print-connect-backend/internal/fixtures"
	"github.com/Raymond9734/print-connect-backend/internal/metrics"
	"github.com/Raymond9734/print-connect-backend/internal/models"
	"github.com/Raymond9734/print-connect-backend/internal/repository"
	"github.com/Raymond9734/print-connect-backend/internal/service"
)

type notifyCall struct {
	recipient string
	content   string
}

type testNotifier struct {
	shouldFail bool
	calls      []notifyCall
}

func (n *testNotifier) Notify(ctx context.Context, recipient, content string) error {
	n.calls = append(n.calls, notifyCall{recipient, content})
	if n.shouldFail {
		return errors.New("simulated delivery error")
	}
	return nil
}

func newTestProcessor(t *testing.T, notifier Notifier) *NotificationProcessor {
	t.Helper()
	ds, err := fixtures.Load()
	if err != nil {
		t.Fatalf("fixtures.Load() error = %v", err)
	}
	store := repository.NewMemoryStore(ds)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	processor, err := NewNotificationProcessor(store.Orders(), store.Providers(), service.NewTemplateService(), service.DefaultNotificationTemplates, notifier, logger)
	if err != nil {
		t.Fatalf("NewNotificationProcessor() error = %v", err)
	}
	return processor
}

func TestNewNotificationProcessor_RejectsInvalidTemplates(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name      string
		templates map[string]string
	}{
		{"unknown placeholder", map[string]string{models.OrderEventSubmitted: "New request from {first_name}"}},
		{"empty template", map[string]string{models.OrderEventStatusChanged: ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			processor, err := NewNotificationProcessor(nil, nil, service.NewTemplateService(), tt.templates, &testNotifier{}, logger)
			if err == nil {
				t.Fatal("expected error for invalid template")
			}
			if processor != nil {
				t.Error("expected no processor on error")
			}
		})
	}
}

func TestNotificationProcessor_Process(t *testing.T) {
	tests := []struct {
		name          string
		job           *models.OrderJob
		wantRecipient string
		wantContent   string
	}{
		{
			name:          "submitted order notifies the provider",
			job:           &models.OrderJob{Event: models.OrderEventSubmitted, OrderID: 1, ProviderID: 1, Status: models.OrderStatusPending},
			wantRecipient: "Marco Rossi",
			wantContent:   "New print request #1 for Marco Rossi from Alice: dragon_v2.stl in PLA x1",
		},
		{
			name:          "idea order renders the description",
			job:           &models.OrderJob{Event: models.OrderEventSubmitted, OrderID: 5, ProviderID: 1},
			wantRecipient: "Marco Rossi",
			wantContent:   `New print request #5 for Marco Rossi from Eve: idea "Cat-shaped keychain" in PLA x2`,
		},
		{
			name:          "status change notifies the customer",
			job:           &models.OrderJob{Event: models.OrderEventStatusChanged, OrderID: 2, ProviderID: 1, Status: models.OrderStatusCompleted},
			wantRecipient: "Bob",
			wantContent:   "Order #2 at Marco Rossi for Bob is now completed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notifier := &testNotifier{}
			processor := newTestProcessor(t, notifier)
			before := testutil.ToFloat64(metrics.NotificationsProcessed.WithLabelValues(tt.job.Event, "success"))

			if err := processor.Process(context.Background(), tt.job); err != nil {
				t.Fatalf("Process() error = %v, want nil", err)
			}

			if len(notifier.calls) != 1 {
				t.Fatalf("Expected 1 notification, got %d", len(notifier.calls))
			}
			if notifier.calls[0].recipient != tt.wantRecipient {
				t.Errorf("recipient = %s, want %s", notifier.calls[0].recipient, tt.wantRecipient)
			}
			if notifier.calls[0].content != tt.wantContent {
				t.Errorf("content = %q, want %q", notifier.calls[0].content, tt.wantContent)
			}

			after := testutil.ToFloat64(metrics.NotificationsProcessed.WithLabelValues(tt.job.Event, "success"))
			if after != before+1 {
				t.Errorf("success counter = %v, want %v", after, before+1)
			}
		})
	}
}

func TestNotificationProcessor_Process_Failures(t *testing.T) {
	tests := []struct {
		name       string
		job        *models.OrderJob
		failNotify bool
		wantCalls  int
		wantErr    string
	}{
		{
			name:      "unknown event",
			job:       &models.OrderJob{Event: "order.deleted", OrderID: 1},
			wantCalls: 0,
			wantErr:   "unknown order event",
		},
		{
			name:      "order not found",
			job:       &models.OrderJob{Event: models.OrderEventSubmitted, OrderID: 9999},
			wantCalls: 0,
			wantErr:   "failed to fetch order",
		},
		{
			name:       "notifier fails",
			job:        &models.OrderJob{Event: models.OrderEventSubmitted, OrderID: 1},
			failNotify: true,
			wantCalls:  1,
			wantErr:    "failed to notify Marco Rossi",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notifier := &testNotifier{shouldFail: tt.failNotify}
			processor := newTestProcessor(t, notifier)
			before := testutil.ToFloat64(metrics.NotificationsProcessed.WithLabelValues(tt.job.Event, "failed"))

			err := processor.Process(context.Background(), tt.job)
			if err == nil {
				t.Fatal("Process() error = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Process() error = %v, want it to contain %q", err, tt.wantErr)
			}
			if len(notifier.calls) != tt.wantCalls {
				t.Errorf("notifications = %d, want %d", len(notifier.calls), tt.wantCalls)
			}

			after := testutil.ToFloat64(metrics.NotificationsProcessed.WithLabelValues(tt.job.Event, "failed"))
			if after != before+1 {
				t.Errorf("failed counter = %v, want %v", after, before+1)
			}
		})
	}
}

func TestLogNotifier_Notify(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	notifier := NewLogNotifier(1.0, logger)

	for i := 0; i < 5; i++ {
		if err := notifier.Notify(context.Background(), "Alice", "hello"); err != nil {
			t.Errorf("Notify() error = %v, want nil", err)
		}
	}
}

func TestLogNotifier_NotifyCancelled(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	notifier := NewLogNotifier(1.0, logger)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := notifier.Notify(ctx, "Alice", "hello"); !errors.Is(err, context.Canceled) {
		t.Errorf("Notify() error = %v, want context.Canceled", err)
	}
}
