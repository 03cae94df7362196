package models

// Order status constants
const (
	OrderStatusPending   = "pending"
	OrderStatusAccepted  = "accepted"
	OrderStatusPrinting  = "printing"
	OrderStatusCompleted = "completed"
	OrderStatusRejected  = "rejected"
)

// OrderDateLayout is the format of Order.Date
const OrderDateLayout = "2006-01-02"

// Order is a print request received by a provider. Exactly one of
// FileName and IdeaDescription is set.
type Order struct {
	ID              int64    `json:"id" yaml:"id"`
	ProviderID      int64    `json:"provider_id" yaml:"provider_id"`
	CustomerName    string   `json:"customer_name" yaml:"customer_name"`
	FileName        *string  `json:"file_name,omitempty" yaml:"file_name,omitempty"`
	IdeaDescription *string  `json:"idea_description,omitempty" yaml:"idea_description,omitempty"`
	Material        Material `json:"material" yaml:"material"`
	Quantity        int      `json:"quantity" yaml:"quantity"`
	Notes           string   `json:"notes,omitempty" yaml:"notes,omitempty"`
	Status          string   `json:"status" yaml:"status"`
	Date            string   `json:"date" yaml:"date"`
}

// NewOrderPayload is what the order form hands to the API
type NewOrderPayload struct {
	ProviderID      int64    `json:"provider_id"`
	FileName        *string  `json:"file_name,omitempty"`
	IdeaDescription *string  `json:"idea_description,omitempty"`
	Material        Material `json:"material"`
	Quantity        int      `json:"quantity"`
	Notes           string   `json:"notes"`
}

// OrderFilter holds filtering options for listing orders
type OrderFilter struct {
	Status   string
	Page     int
	PageSize int
}

// orderTransitions lists the statuses reachable from each status.
// Completed and rejected are terminal.
var orderTransitions = map[string][]string{
	OrderStatusPending:  {OrderStatusAccepted, OrderStatusRejected},
	OrderStatusAccepted: {OrderStatusPrinting, OrderStatusRejected},
	OrderStatusPrinting: {OrderStatusCompleted},
}

// IsValidOrderStatus checks if the order status is valid
func IsValidOrderStatus(status string) bool {
	switch status {
	case OrderStatusPending, OrderStatusAccepted, OrderStatusPrinting, OrderStatusCompleted, OrderStatusRejected:
		return true
	default:
		return false
	}
}

// CanTransitionTo checks if the order may move to the given status
func (o *Order) CanTransitionTo(status string) bool {
	for _, next := range orderTransitions[o.Status] {
		if next == status {
			return true
		}
	}
	return false
}

// IsFileBased reports whether the order carries a 3D model file
func (o *Order) IsFileBased() bool {
	return o.FileName != nil
}

// Clone returns a copy of the order that shares no pointers with o
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}

	c := *o
	if o.FileName != nil {
		name := *o.FileName
		c.FileName = &name
	}
	if o.IdeaDescription != nil {
		idea := *o.IdeaDescription
		c.IdeaDescription = &idea
	}
	return &c
}
