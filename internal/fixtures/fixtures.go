// Package fixtures holds the static seed data behind the mock store.
package fixtures

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Raymond9734/print-connect-backend/internal/models"
)

//go:embed fixtures.yaml
var defaultFixtures []byte

// Dataset is the full set of seed records
type Dataset struct {
	Providers []*models.Provider `yaml:"providers"`
	Users     []*models.User     `yaml:"users"`
}

// Load parses the embedded fixtures
func Load() (*Dataset, error) {
	return Parse(defaultFixtures)
}

// LoadFile parses fixtures from path, falling back to the embedded set
// when path is empty
func LoadFile(path string) (*Dataset, error) {
	if path == "" {
		return Load()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixtures: %w", err)
	}

	return Parse(data)
}

// Parse decodes and validates a YAML dataset
func Parse(data []byte) (*Dataset, error) {
	var ds Dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("failed to parse fixtures: %w", err)
	}

	if err := ds.validate(); err != nil {
		return nil, err
	}

	return &ds, nil
}

func (ds *Dataset) validate() error {
	providerIDs := make(map[int64]bool, len(ds.Providers))
	orderIDs := make(map[int64]bool)

	for i, p := range ds.Providers {
		if p == nil {
			return fmt.Errorf("provider entry %d is empty", i)
		}
		if providerIDs[p.ID] {
			return fmt.Errorf("duplicate provider id %d", p.ID)
		}
		providerIDs[p.ID] = true

		for _, m := range p.Materials {
			if !models.IsValidMaterial(m) {
				return fmt.Errorf("provider %d: invalid material %q", p.ID, m)
			}
		}

		if p.Orders == nil {
			p.Orders = []*models.Order{}
		}
		for j, o := range p.Orders {
			if o == nil {
				return fmt.Errorf("provider %d: order entry %d is empty", p.ID, j)
			}
			if orderIDs[o.ID] {
				return fmt.Errorf("duplicate order id %d", o.ID)
			}
			orderIDs[o.ID] = true

			if !models.IsValidOrderStatus(o.Status) {
				return fmt.Errorf("order %d: invalid status %q", o.ID, o.Status)
			}
			if (o.FileName == nil) == (o.IdeaDescription == nil) {
				return fmt.Errorf("order %d: exactly one of file_name or idea_description is required", o.ID)
			}
			o.ProviderID = p.ID
		}
	}

	for i, u := range ds.Users {
		if u == nil {
			return fmt.Errorf("user entry %d is empty", i)
		}
		if !models.IsValidUserType(u.Type) {
			return fmt.Errorf("user %d: invalid type %q", u.ID, u.Type)
		}
		if u.ProviderID != nil && !providerIDs[*u.ProviderID] {
			return fmt.Errorf("user %d: unknown provider %d", u.ID, *u.ProviderID)
		}
	}

	return nil
}
