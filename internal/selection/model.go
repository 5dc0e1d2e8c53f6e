// Package selection keeps the in-memory selection of every menu item
// mirrored to the profile store and enforces the selection rules.
package selection

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/mmynk/orderwidget/internal/models"
	"github.com/mmynk/orderwidget/internal/storage"
)

var (
	ErrUnknownItem    = errors.New("unknown menu item")
	ErrUnknownSection = errors.New("unknown portion section")
	ErrUnknownPortion = errors.New("unknown portion")
	ErrUnknownGroup   = errors.New("unknown menu group")
)

// Model is the selection of one profile over one menu.
// It is not safe for concurrent use.
type Model struct {
	menu   *models.Menu
	store  storage.Store
	states map[int]*models.SelectionState
	groups map[int]bool
}

// New creates a Model with every item in its default state.
func New(menu *models.Menu, store storage.Store) *Model {
	return &Model{
		menu:   menu,
		store:  store,
		states: make(map[int]*models.SelectionState),
		groups: make(map[int]bool),
	}
}

// state returns the state of an item, creating the default on first use.
func (m *Model) state(item int) *models.SelectionState {
	st, ok := m.states[item]
	if !ok {
		st = models.NewSelectionState(m.menu.Items[item])
		m.states[item] = st
	}
	return st
}

func (m *Model) checkItem(item int) error {
	if item < 0 || item >= len(m.menu.Items) {
		return fmt.Errorf("%w: %d", ErrUnknownItem, item)
	}
	return nil
}

func (m *Model) checkSection(item, section int) error {
	if err := m.checkItem(item); err != nil {
		return err
	}
	if section < 0 || section >= len(m.menu.Items[item].Sections) {
		return fmt.Errorf("%w: item %d section %d", ErrUnknownSection, item, section)
	}
	return nil
}

// State returns a copy of the item's selection.
func (m *Model) State(item int) (models.SelectionState, error) {
	if err := m.checkItem(item); err != nil {
		return models.SelectionState{}, err
	}
	return m.state(item).Clone(), nil
}

// IsAdded reports whether the item is part of the order.
func (m *Model) IsAdded(item int) bool {
	st, ok := m.states[item]
	return ok && st.Added
}

// Quantity returns the quantity of one section.
func (m *Model) Quantity(item, section int) int {
	st, ok := m.states[item]
	if !ok || section < 0 || section >= len(st.Quantities) {
		return models.DefaultQuantity
	}
	return st.Quantities[section]
}

// IsSelected reports whether a portion is selected.
func (m *Model) IsSelected(item, section, portion int) bool {
	st, ok := m.states[item]
	if !ok || section < 0 || section >= len(st.Selected) {
		return false
	}
	row := st.Selected[section]
	return portion >= 0 && portion < len(row) && row[portion]
}

// GroupOpen reports whether a menu group is expanded.
func (m *Model) GroupOpen(group int) bool {
	return m.groups[group]
}

// ToggleAdded flips the added flag of an item and returns the new value.
func (m *Model) ToggleAdded(ctx context.Context, item int) (bool, error) {
	if err := m.checkItem(item); err != nil {
		return false, err
	}
	added := !m.state(item).Added
	return added, m.SetAdded(ctx, item, added)
}

// SetAdded sets the added flag of an item.
//
// Un-adding resets every section quantity to 1, deselects every portion and
// removes the persisted portion. Un-adding an item that is not added leaves
// it in that same reset state.
func (m *Model) SetAdded(ctx context.Context, item int, added bool) error {
	if err := m.checkItem(item); err != nil {
		return err
	}
	st := m.state(item)
	st.Added = added

	if err := m.store.Set(ctx, storage.AddedKey(item), strconv.FormatBool(added)); err != nil {
		return err
	}
	if added {
		slog.Debug("Item added", "item", item)
		return nil
	}

	for s := range st.Quantities {
		st.Quantities[s] = models.DefaultQuantity
		if err := m.store.Set(ctx, storage.QuantityKey(item, s), strconv.Itoa(models.DefaultQuantity)); err != nil {
			return err
		}
	}
	for s := range st.Selected {
		for p := range st.Selected[s] {
			st.Selected[s][p] = false
		}
	}
	if err := m.store.Remove(ctx, storage.PortionKey(item)); err != nil {
		return err
	}

	slog.Debug("Item removed", "item", item)
	return nil
}

// SetQuantity applies delta to a section quantity and returns the result.
// A result below the section floor (0 for fish sections, 1 otherwise) is
// a no-op, and so is a result above models.MaxQuantity.
func (m *Model) SetQuantity(ctx context.Context, item, section, delta int) (int, error) {
	if err := m.checkSection(item, section); err != nil {
		return 0, err
	}
	st := m.state(item)
	current := st.Quantities[section]
	if delta > models.MaxQuantity-current {
		slog.Debug("Quantity increment clamped", "item", item, "section", section, "quantity", current)
		return current, nil
	}
	next := current + delta
	if floor := m.menu.Items[item].Sections[section].QuantityFloor(); next < floor {
		slog.Debug("Quantity decrement clamped", "item", item, "section", section, "quantity", current)
		return current, nil
	}
	if next == current {
		return current, nil
	}

	st.Quantities[section] = next
	if err := m.store.Set(ctx, storage.QuantityKey(item, section), strconv.Itoa(next)); err != nil {
		return next, err
	}
	slog.Debug("Quantity changed", "item", item, "section", section, "quantity", next)
	return next, nil
}

// SelectPortion applies a click on a portion according to the section's
// selection mode, persists the selected prices and returns the portion's new
// selected flag.
func (m *Model) SelectPortion(ctx context.Context, item, section, portion int) (bool, error) {
	if err := m.checkSection(item, section); err != nil {
		return false, err
	}
	sec := m.menu.Items[item].Sections[section]
	if portion < 0 || portion >= len(sec.Portions) {
		return false, fmt.Errorf("%w: item %d section %d portion %d", ErrUnknownPortion, item, section, portion)
	}

	row := m.state(item).Selected[section]
	switch sec.Mode {
	case models.ModeMulti:
		row[portion] = !row[portion]
	case models.ModeSingle:
		clear(row)
		row[portion] = true
	case models.ModeSingleToggle:
		if row[portion] {
			row[portion] = false
		} else {
			clear(row)
			row[portion] = true
		}
	}

	if err := m.persistPortions(ctx, item); err != nil {
		return row[portion], err
	}
	slog.Debug("Portion clicked", "item", item, "section", section, "portion", portion,
		"mode", sec.Mode, "selected", row[portion])
	return row[portion], nil
}

// persistPortions writes the match prices of every selected portion of the
// item, comma separated in document order. A single selection is stored as
// a plain number. No selection removes the key.
func (m *Model) persistPortions(ctx context.Context, item int) error {
	st := m.state(item)
	var prices []string
	for s, sec := range m.menu.Items[item].Sections {
		for p, portion := range sec.Portions {
			if st.Selected[s][p] {
				prices = append(prices, strconv.Itoa(portion.MatchPrice))
			}
		}
	}
	if len(prices) == 0 {
		return m.store.Remove(ctx, storage.PortionKey(item))
	}
	return m.store.Set(ctx, storage.PortionKey(item), strings.Join(prices, ","))
}

// ToggleGroup flips the expansion of a menu group and returns the new value.
func (m *Model) ToggleGroup(ctx context.Context, group int) (bool, error) {
	if group < 0 || group >= len(m.menu.Groups) {
		return false, fmt.Errorf("%w: %d", ErrUnknownGroup, group)
	}
	open := !m.groups[group]
	m.groups[group] = open
	if err := m.store.Set(ctx, storage.GroupOpenKey(group), strconv.FormatBool(open)); err != nil {
		return open, err
	}
	return open, nil
}
