package selection

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/mmynk/orderwidget/internal/models"
	"github.com/mmynk/orderwidget/internal/storage"
)

// Restore rebuilds the model from every persisted key of the profile.
//
// Missing keys keep their defaults and unreadable values are ignored. An item
// with a persisted portion is marked added even when its added flag was never
// written, and the flag is persisted so the next load agrees.
func (m *Model) Restore(ctx context.Context) error {
	keys, err := m.store.Keys(ctx)
	if err != nil {
		return fmt.Errorf("failed to list persisted keys: %w", err)
	}

	var portions []int
	for _, name := range keys {
		key, ok := storage.ParseKey(name)
		if !ok || key.Role == storage.RoleZone {
			continue
		}
		value, present, err := m.store.Get(ctx, name)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", name, err)
		}
		if !present {
			continue
		}

		switch key.Role {
		case storage.RoleGroupOpen:
			if key.Index < len(m.menu.Groups) {
				m.groups[key.Index] = value == "true"
			}
		case storage.RoleAdded:
			if key.Index < len(m.menu.Items) {
				m.state(key.Index).Added = value == "true"
			}
		case storage.RoleQuantity:
			m.restoreQuantity(key, value)
		case storage.RolePortion:
			if key.Index < len(m.menu.Items) && value != "" {
				portions = append(portions, key.Index)
				m.restorePortions(key.Index, value)
			}
		}
	}

	for _, item := range portions {
		if !m.menu.Items[item].HasPortions() {
			continue
		}
		st := m.state(item)
		if st.Added {
			continue
		}
		st.Added = true
		if err := m.store.Set(ctx, storage.AddedKey(item), "true"); err != nil {
			return err
		}
		slog.Debug("Item marked added from saved portion", "item", item)
	}

	slog.Debug("Selection restored", "keys", len(keys), "items", len(m.states), "groups", len(m.groups))
	return nil
}

func (m *Model) restoreQuantity(key storage.Key, value string) {
	if key.Index >= len(m.menu.Items) || key.Section >= len(m.menu.Items[key.Index].Sections) {
		return
	}
	q, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		slog.Warn("Ignoring unreadable quantity", "item", key.Index, "section", key.Section, "value", value)
		return
	}
	if floor := m.menu.Items[key.Index].Sections[key.Section].QuantityFloor(); q < floor {
		q = floor
	}
	if q > models.MaxQuantity {
		slog.Warn("Capping stored quantity", "item", key.Index, "section", key.Section, "value", value)
		q = models.MaxQuantity
	}
	m.state(key.Index).Quantities[key.Section] = q
}

// restorePortions selects every portion of the item whose match price is in
// the saved list and deselects the rest.
func (m *Model) restorePortions(item int, value string) {
	saved := make(map[int]bool)
	for _, raw := range strings.Split(value, ",") {
		p, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			slog.Warn("Ignoring unreadable portion price", "item", item, "value", raw)
			continue
		}
		saved[p] = true
	}

	st := m.state(item)
	for s, sec := range m.menu.Items[item].Sections {
		for p, portion := range sec.Portions {
			st.Selected[s][p] = saved[portion.MatchPrice]
		}
	}
}

// Snapshot returns a copy of every item state, indexed like Menu.Items.
func (m *Model) Snapshot() []models.SelectionState {
	out := make([]models.SelectionState, len(m.menu.Items))
	for i := range m.menu.Items {
		out[i] = m.state(i).Clone()
	}
	return out
}

// Groups returns the expansion state of every menu group, indexed like
// Menu.Groups.
func (m *Model) Groups() []models.GroupExpansionState {
	out := make([]models.GroupExpansionState, len(m.menu.Groups))
	for i := range out {
		out[i].Open = m.groups[i]
	}
	return out
}
