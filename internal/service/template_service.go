package service

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Raymond9734/print-connect-backend/internal/models"
)

// Default notification templates, keyed by order event
var DefaultNotificationTemplates = map[string]string{
	models.OrderEventSubmitted:     "New print request #{order_id} for {provider_name} from {customer_name}: {item} in {material} x{quantity}",
	models.OrderEventStatusChanged: "Order #{order_id} at {provider_name} for {customer_name} is now {status}",
}

// validPlaceholders lists the fields a notification template may reference
var validPlaceholders = []string{"order_id", "customer_name", "provider_name", "item", "material", "quantity", "status", "date"}

// TemplateService handles notification template rendering and validation
type TemplateService interface {
	Render(template string, order *models.Order, provider *models.Provider) (string, error)
	ValidateTemplate(template string) error
}

type templateService struct {
	placeholderPattern *regexp.Regexp
}

// NewTemplateService creates a new template service
func NewTemplateService() TemplateService {
	return &templateService{
		placeholderPattern: regexp.MustCompile(`\{([a-z_]+)\}`),
	}
}

// Render replaces placeholders with order and provider data.
// Unknown placeholders render as empty strings.
func (s *templateService) Render(template string, order *models.Order, provider *models.Provider) (string, error) {
	if order == nil {
		return "", models.ErrInvalidInput("order cannot be nil")
	}

	providerName := ""
	if provider != nil {
		providerName = provider.Name
	}

	item := ""
	switch {
	case order.FileName != nil:
		item = *order.FileName
	case order.IdeaDescription != nil:
		item = fmt.Sprintf("idea %q", *order.IdeaDescription)
	}

	fieldMap := map[string]string{
		"order_id":      strconv.FormatInt(order.ID, 10),
		"customer_name": order.CustomerName,
		"provider_name": providerName,
		"item":          item,
		"material":      string(order.Material),
		"quantity":      strconv.Itoa(order.Quantity),
		"status":        order.Status,
		"date":          order.Date,
	}

	result := s.placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		return fieldMap[strings.Trim(match, "{}")]
	})

	return result, nil
}

// ValidateTemplate checks if template syntax is valid
func (s *templateService) ValidateTemplate(template string) error {
	if template == "" {
		return models.ErrInvalidInput("template cannot be empty")
	}

	known := make(map[string]bool, len(validPlaceholders))
	for _, p := range validPlaceholders {
		known[p] = true
	}

	var invalidPlaceholders []string
	for _, placeholder := range s.extractPlaceholders(template) {
		if !known[placeholder] {
			invalidPlaceholders = append(invalidPlaceholders, placeholder)
		}
	}

	if len(invalidPlaceholders) > 0 {
		return models.ErrInvalidInput(
			fmt.Sprintf("invalid placeholders: %s. Valid placeholders are: %s",
				strings.Join(invalidPlaceholders, ", "), strings.Join(validPlaceholders, ", ")),
		)
	}

	return nil
}

// extractPlaceholders returns all placeholders found in template
func (s *templateService) extractPlaceholders(template string) []string {
	matches := s.placeholderPattern.FindAllStringSubmatch(template, -1)
	placeholders := make([]string, 0, len(matches))

	for _, match := range matches {
		if len(match) > 1 {
			placeholders = append(placeholders, match[1])
		}
	}

	return placeholders
}
