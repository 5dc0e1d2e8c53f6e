package storage

import (
	"fmt"
	"strconv"
	"strings"
)

// Role identifies what a persisted key holds.
type Role int

const (
	RoleUnknown Role = iota
	RoleAdded
	RoleQuantity
	RolePortion
	RoleGroupOpen
	RoleZone
)

// ZoneKey holds the selected delivery area as "<zoneID>:<area>".
const ZoneKey = "zone"

// AddedKey is "added_{i}".
func AddedKey(item int) string {
	return fmt.Sprintf("added_%d", item)
}

// QuantityKey is "quantity_{i}" for the first section of an item and
// "quantity_{i}_{s}" for the others.
func QuantityKey(item, section int) string {
	if section == 0 {
		return fmt.Sprintf("quantity_%d", item)
	}
	return fmt.Sprintf("quantity_%d_%d", item, section)
}

// PortionKey is "portion_{i}".
func PortionKey(item int) string {
	return fmt.Sprintf("portion_%d", item)
}

// GroupOpenKey is "group_{i}_open".
func GroupOpenKey(group int) string {
	return fmt.Sprintf("group_%d_open", group)
}

// Key is a parsed persisted key.
type Key struct {
	Role Role

	// Index is the item index, or the group index for RoleGroupOpen.
	Index int

	// Section is only meaningful for RoleQuantity.
	Section int
}

// ParseKey maps a persisted key name back to its role and indexes.
// Unrecognised names return ok == false.
func ParseKey(name string) (Key, bool) {
	if name == ZoneKey {
		return Key{Role: RoleZone}, true
	}

	switch {
	case strings.HasPrefix(name, "added_"):
		i, err := strconv.Atoi(strings.TrimPrefix(name, "added_"))
		if err != nil || i < 0 {
			return Key{}, false
		}
		return Key{Role: RoleAdded, Index: i}, true

	case strings.HasPrefix(name, "quantity_"):
		parts := strings.Split(strings.TrimPrefix(name, "quantity_"), "_")
		if len(parts) > 2 {
			return Key{}, false
		}
		i, err := strconv.Atoi(parts[0])
		if err != nil || i < 0 {
			return Key{}, false
		}
		k := Key{Role: RoleQuantity, Index: i}
		if len(parts) == 2 {
			s, err := strconv.Atoi(parts[1])
			if err != nil || s < 1 {
				return Key{}, false
			}
			k.Section = s
		}
		return k, true

	case strings.HasPrefix(name, "portion_"):
		i, err := strconv.Atoi(strings.TrimPrefix(name, "portion_"))
		if err != nil || i < 0 {
			return Key{}, false
		}
		return Key{Role: RolePortion, Index: i}, true

	case strings.HasPrefix(name, "group_") && strings.HasSuffix(name, "_open"):
		raw := strings.TrimSuffix(strings.TrimPrefix(name, "group_"), "_open")
		i, err := strconv.Atoi(raw)
		if err != nil || i < 0 {
			return Key{}, false
		}
		return Key{Role: RoleGroupOpen, Index: i}, true
	}

	return Key{}, false
}
