package models

// DefaultQuantity is the quantity of a section that was never touched or was
// reset by un-adding its item.
const DefaultQuantity = 1

// MaxQuantity is the highest quantity a section may reach, stored values
// included.
const MaxQuantity = 99

// SelectionState is the selection of one menu item.
// It is created on first interaction and mirrored to the profile store.
type SelectionState struct {
	// Added records the user's intent to include the item in the order.
	Added bool

	// Quantities holds one quantity per section, indexed like
	// MenuItem.Sections.
	Quantities []int

	// Selected holds one flag per portion, per section.
	Selected [][]bool
}

// NewSelectionState returns the default state for an item: not added,
// every quantity at DefaultQuantity and no portion selected.
func NewSelectionState(item MenuItem) *SelectionState {
	st := &SelectionState{
		Quantities: make([]int, len(item.Sections)),
		Selected:   make([][]bool, len(item.Sections)),
	}
	for i, s := range item.Sections {
		st.Quantities[i] = DefaultQuantity
		st.Selected[i] = make([]bool, len(s.Portions))
	}
	return st
}

// Clone returns a deep copy of the state.
func (s *SelectionState) Clone() SelectionState {
	c := SelectionState{
		Added:      s.Added,
		Quantities: append([]int(nil), s.Quantities...),
		Selected:   make([][]bool, len(s.Selected)),
	}
	for i, row := range s.Selected {
		c.Selected[i] = append([]bool(nil), row...)
	}
	return c
}

// Quantity returns the item-level quantity, which is the quantity of the
// first section.
func (s *SelectionState) Quantity() int {
	if len(s.Quantities) == 0 {
		return DefaultQuantity
	}
	return s.Quantities[0]
}

// AnySelected reports whether at least one portion of the item is selected.
func (s *SelectionState) AnySelected() bool {
	for _, row := range s.Selected {
		for _, v := range row {
			if v {
				return true
			}
		}
	}
	return false
}

// GroupExpansionState is the persisted open flag of a menu group.
type GroupExpansionState struct {
	Open bool
}
