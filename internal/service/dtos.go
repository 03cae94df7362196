package service

import (
	"fmt"

	"github.com/Raymond9734/print-connect-backend/internal/models"
)

// SubmitOrderRequest represents the order form as posted over HTTP
type SubmitOrderRequest struct {
	HasFile         *bool           `json:"has_file,omitempty"`
	FileName        string          `json:"file_name"`
	IdeaDescription string          `json:"idea_description"`
	Material        models.Material `json:"material"`
	Quantity        int             `json:"quantity"`
	Notes           string          `json:"notes"`
}

// Validate performs basic validation on the submit request
func (r *SubmitOrderRequest) Validate() error {
	if r.Material != "" && !models.IsValidMaterial(r.Material) {
		return models.ErrInvalidInput(fmt.Sprintf("invalid material: %s", r.Material))
	}
	if r.Quantity < 0 {
		return models.ErrInvalidInput("quantity cannot be negative")
	}
	return nil
}

// WantsFile reports the form mode; a missing has_file defaults to file mode
func (r *SubmitOrderRequest) WantsFile() bool {
	return r.HasFile == nil || *r.HasFile
}

// UpdateOrderStatusRequest represents a request to move an order along its lifecycle
type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

// Validate performs validation on the status update request
func (r *UpdateOrderStatusRequest) Validate() error {
	if r.Status == "" {
		return models.ErrInvalidInput("status is required")
	}
	if !models.IsValidOrderStatus(r.Status) {
		return models.ErrInvalidInput(fmt.Sprintf("invalid status: %s", r.Status))
	}
	return nil
}

// OrderListResult represents paginated order list results
type OrderListResult struct {
	Data       []*models.Order         `json:"data"`
	Pagination models.PaginationResult `json:"pagination"`
}

// DashboardResult is what the dashboard shows for the current user.
// Provider users get their profile and received orders; customers get
// the orders they placed.
type DashboardResult struct {
	User     *models.User     `json:"user"`
	Provider *models.Provider `json:"provider,omitempty"`
	Orders   []*models.Order  `json:"orders"`
}
