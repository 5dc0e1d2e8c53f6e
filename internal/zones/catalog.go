// Package zones holds the delivery zone catalog and the single area
// selection across all zone selectors.
package zones

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/mmynk/orderwidget/internal/models"
)

var (
	ErrUnknownZone = errors.New("unknown delivery zone")
	ErrUnknownArea = errors.New("area not served by zone")
)

// Catalog is the fixed set of delivery zones, in selector order.
type Catalog struct {
	zones []models.DeliveryZone
	index map[string]int
}

// DefaultCatalog returns the built-in Nairobi zones.
func DefaultCatalog() *Catalog {
	c, _ := NewCatalog([]models.DeliveryZone{
		{ID: "zoneA", Fee: 150, Areas: []string{
			"Embakasi Village", "Pipeline", "Fedha", "Utawala", "Imara Daima",
			"Mukuru", "Donholm", "Savannah", "Tassia",
		}},
		{ID: "zoneB", Fee: 350, Areas: []string{
			"South B", "South C", "Nyayo Estate", "CBD", "Kilimani",
			"Kileleshwa", "Parklands", "Westlands",
		}},
		{ID: "zoneC", Fee: 450, Areas: []string{
			"Karen", "Runda", "Gigiri", "Lavington", "Muthaiga",
			"Mountain View", "Thome", "Kahawa Sukari",
		}},
	})
	return c
}

// NewCatalog validates zones and builds a catalog. IDs must be unique and
// non-empty and fees must not be negative.
func NewCatalog(zones []models.DeliveryZone) (*Catalog, error) {
	c := &Catalog{index: make(map[string]int, len(zones))}
	for i, z := range zones {
		if z.ID == "" {
			return nil, fmt.Errorf("zone %d: missing id", i)
		}
		if _, dup := c.index[z.ID]; dup {
			return nil, fmt.Errorf("zone %s: duplicate id", z.ID)
		}
		if z.Fee < 0 {
			return nil, fmt.Errorf("zone %s: negative fee %d", z.ID, z.Fee)
		}
		c.index[z.ID] = i
		c.zones = append(c.zones, cloneZone(z))
	}
	return c, nil
}

type catalogFile struct {
	Zones []models.DeliveryZone `yaml:"zones"`
}

// LoadCatalog reads a YAML catalog:
//
//	zones:
//	  - id: zoneA
//	    fee: 150
//	    areas: [Pipeline, Fedha]
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read zone catalog: %w", err)
	}
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse zone catalog: %w", err)
	}
	if len(f.Zones) == 0 {
		return nil, fmt.Errorf("zone catalog %s lists no zones", path)
	}
	return NewCatalog(f.Zones)
}

// Zones returns a copy of the zones in selector order.
func (c *Catalog) Zones() []models.DeliveryZone {
	out := make([]models.DeliveryZone, len(c.zones))
	for i, z := range c.zones {
		out[i] = cloneZone(z)
	}
	return out
}

func cloneZone(z models.DeliveryZone) models.DeliveryZone {
	z.Areas = slices.Clone(z.Areas)
	return z
}

// Zone looks up a zone by ID.
func (c *Catalog) Zone(id string) (models.DeliveryZone, error) {
	i, ok := c.index[id]
	if !ok {
		return models.DeliveryZone{}, fmt.Errorf("%w: %s", ErrUnknownZone, id)
	}
	return cloneZone(c.zones[i]), nil
}

// Areas returns the selectable areas of a zone.
func (c *Catalog) Areas(id string) ([]string, error) {
	z, err := c.Zone(id)
	if err != nil {
		return nil, err
	}
	return z.Areas, nil
}

func (c *Catalog) serves(id, area string) bool {
	i, ok := c.index[id]
	return ok && slices.Contains(c.zones[i].Areas, area)
}
