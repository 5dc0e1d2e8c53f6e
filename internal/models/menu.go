package models

// SectionKind describes how a portion section is priced and selected.
type SectionKind int

const (
	// SectionStandard has one implicit portion button and its own quantity.
	SectionStandard SectionKind = iota

	// SectionFish lists several portions that share one quantity control.
	SectionFish

	// SectionSnack has no button at all; its price always counts once the
	// item is added.
	SectionSnack
)

func (k SectionKind) String() string {
	switch k {
	case SectionFish:
		return "fish"
	case SectionSnack:
		return "snack"
	default:
		return "standard"
	}
}

// SelectionMode is the click policy applied to the portions of a section.
type SelectionMode int

const (
	// ModeMulti flips only the clicked portion; any subset is reachable.
	ModeMulti SelectionMode = iota

	// ModeSingle clears the other portions and selects the clicked one.
	ModeSingle

	// ModeSingleToggle behaves like ModeSingle, except that clicking the
	// already selected portion deselects it.
	ModeSingleToggle
)

func (m SelectionMode) String() string {
	switch m {
	case ModeSingle:
		return "single"
	case ModeSingleToggle:
		return "single-toggle"
	default:
		return "multi"
	}
}

// Menu is the parsed menu document.
type Menu struct {
	// Groups are the collapsible menu groups in document order.
	Groups []Group

	// Items are all food items in document order. Item.Index equals the
	// position in this slice.
	Items []MenuItem
}

// Group is a collapsible block of items under one heading.
type Group struct {
	Index int
	Title string

	// Items holds the indexes of the items listed under this group.
	Items []int
}

// MenuItem represents one orderable dish.
type MenuItem struct {
	// Index is the stable position of the item in document order.
	// Persisted keys are derived from it.
	Index int

	// Name is the display name taken from the item heading.
	Name string

	// Group is the index of the enclosing group, -1 when ungrouped.
	Group int

	// Sections are the priced blocks of the item.
	Sections []PortionSection
}

// IsFishStyle reports whether any section of the item shares one quantity
// across several portions.
func (m MenuItem) IsFishStyle() bool {
	for _, s := range m.Sections {
		if s.Kind == SectionFish {
			return true
		}
	}
	return false
}

// HasPortions reports whether the item has at least one selectable portion.
func (m MenuItem) HasPortions() bool {
	for _, s := range m.Sections {
		if len(s.Portions) > 0 {
			return true
		}
	}
	return false
}

// PortionSection is one priced block inside a menu item.
type PortionSection struct {
	Index int
	Kind  SectionKind
	Mode  SelectionMode

	// Text is the rendered text of the whole section, whitespace collapsed.
	Text string

	// UnitPrice is extracted from Text with the currency-marker form. It
	// prices standard and snack sections.
	UnitPrice int

	// Portions are the selectable options. Fish sections list one entry per
	// option, standard sections hold exactly one implicit entry and snack
	// sections hold none.
	Portions []Portion
}

// QuantityFloor is the lowest value the section quantity may be decremented
// to.
func (s PortionSection) QuantityFloor() int {
	if s.Kind == SectionFish {
		return 0
	}
	return 1
}

// Portion is a selectable price option.
type Portion struct {
	Label string

	// UnitPrice is the price charged per unit of the section quantity.
	UnitPrice int

	// MatchPrice is the value persisted when the portion is chosen and
	// compared against on restore.
	MatchPrice int
}
