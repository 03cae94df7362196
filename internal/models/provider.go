package models

import "slices"

// Provider sort keys
const (
	ProviderSortDistance = "distance"
	ProviderSortRating   = "rating"
	ProviderSortName     = "name"
)

// Printer is a machine owned by a provider
type Printer struct {
	ID          int64  `json:"id" yaml:"id"`
	Model       string `json:"model" yaml:"model"`
	BuildVolume string `json:"build_volume" yaml:"build_volume"`
}

// Provider represents a 3D-printing service provider
type Provider struct {
	ID         int64      `json:"id" yaml:"id"`
	Name       string     `json:"name" yaml:"name"`
	Distance   float64    `json:"distance" yaml:"distance"`
	Rating     float64    `json:"rating" yaml:"rating"`
	AvatarURL  string     `json:"avatar_url" yaml:"avatar_url"`
	Printers   []Printer  `json:"printers" yaml:"printers"`
	Materials  []Material `json:"materials" yaml:"materials"`
	IsBusiness bool       `json:"is_business" yaml:"is_business"`
	Motto      string     `json:"motto" yaml:"motto"`
	Orders     []*Order   `json:"orders" yaml:"orders"`
}

// ProviderFilter holds filtering options for listing providers
type ProviderFilter struct {
	Material     Material
	BusinessOnly bool
	MaxDistance  float64
	MinRating    float64
	SortBy       string
}

// Offers reports whether the provider prints with the given material
func (p *Provider) Offers(material Material) bool {
	return slices.Contains(p.Materials, material)
}

// DefaultMaterial returns the material preselected in the order form
func (p *Provider) DefaultMaterial() Material {
	if len(p.Materials) > 0 {
		return p.Materials[0]
	}
	return DefaultMaterial
}

// AcceptsQuantity reports whether an order of qty pieces is allowed.
// Only business accounts take multiple-quantity orders.
func (p *Provider) AcceptsQuantity(qty int) bool {
	return qty <= 1 || p.IsBusiness
}

// Matches checks the provider against the filter criteria
func (p *Provider) Matches(filter ProviderFilter) bool {
	if filter.Material != "" && !p.Offers(filter.Material) {
		return false
	}
	if filter.BusinessOnly && !p.IsBusiness {
		return false
	}
	if filter.MaxDistance > 0 && p.Distance > filter.MaxDistance {
		return false
	}
	if filter.MinRating > 0 && p.Rating < filter.MinRating {
		return false
	}
	return true
}

// Clone returns a deep copy of the provider including its orders
func (p *Provider) Clone() *Provider {
	if p == nil {
		return nil
	}

	c := *p
	c.Printers = slices.Clone(p.Printers)
	c.Materials = slices.Clone(p.Materials)
	c.Orders = make([]*Order, 0, len(p.Orders))
	for _, o := range p.Orders {
		c.Orders = append(c.Orders, o.Clone())
	}
	return &c
}

// IsValidProviderSort checks if the sort key is supported
func IsValidProviderSort(sortBy string) bool {
	switch sortBy {
	case "", ProviderSortDistance, ProviderSortRating, ProviderSortName:
		return true
	default:
		return false
	}
}
