package zones

import (
	"fmt"
	"strings"
)

// Selection is the value of every zone selector on the form.
// At most one selector holds a non-empty area at any time.
type Selection struct {
	catalog *Catalog
	values  map[string]string
}

// NewSelection returns a selection with every selector empty.
func NewSelection(catalog *Catalog) *Selection {
	return &Selection{catalog: catalog, values: make(map[string]string)}
}

// Select sets the area of one zone selector. A non-empty area clears the
// other selectors; an empty area only clears this one.
func (s *Selection) Select(zoneID, area string) error {
	if _, err := s.catalog.Zone(zoneID); err != nil {
		return err
	}
	if area == "" {
		delete(s.values, zoneID)
		return nil
	}
	if !s.catalog.serves(zoneID, area) {
		return fmt.Errorf("%w: %s in %s", ErrUnknownArea, area, zoneID)
	}
	clear(s.values)
	s.values[zoneID] = area
	return nil
}

// Clear empties every selector.
func (s *Selection) Clear() {
	clear(s.values)
}

// Selected returns the zone and area currently chosen. ok is false when no
// selector holds an area.
func (s *Selection) Selected() (zoneID, area string, ok bool) {
	for _, z := range s.catalog.zones {
		if a := s.values[z.ID]; a != "" {
			return z.ID, a, true
		}
	}
	return "", "", false
}

// Area returns the chosen area, or "" when none is chosen.
func (s *Selection) Area() string {
	_, area, _ := s.Selected()
	return area
}

// Value returns the selector value of one zone.
func (s *Selection) Value(zoneID string) string {
	return s.values[zoneID]
}

// Fee returns the fee of the zone holding the selected area, or 0.
func (s *Selection) Fee() int {
	id, _, ok := s.Selected()
	if !ok {
		return 0
	}
	z, _ := s.catalog.Zone(id)
	return z.Fee
}

// Encode renders the selection for persistence as "<zoneID>:<area>", or ""
// when nothing is selected.
func (s *Selection) Encode() string {
	id, area, ok := s.Selected()
	if !ok {
		return ""
	}
	return id + ":" + area
}

// Decode restores a value produced by Encode.
func (s *Selection) Decode(value string) error {
	s.Clear()
	if value == "" {
		return nil
	}
	id, area, found := strings.Cut(value, ":")
	if !found {
		return fmt.Errorf("malformed zone selection %q", value)
	}
	return s.Select(id, area)
}
