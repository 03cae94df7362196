package models

// Order event types carried on the notification queue
const (
	OrderEventSubmitted     = "order.submitted"
	OrderEventStatusChanged = "order.status_changed"
)

// OrderJob represents a notification job to be queued for processing
type OrderJob struct {
	Event      string `json:"event"`
	OrderID    int64  `json:"order_id"`
	ProviderID int64  `json:"provider_id"`
	Status     string `json:"status"`
}
