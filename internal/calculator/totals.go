package calculator

import (
	"github.com/mmynk/orderwidget/internal/models"
)

// Selection is the read side of the selection model the engine needs.
type Selection interface {
	IsAdded(item int) bool
	Quantity(item, section int) int
	IsSelected(item, section, portion int) bool
}

// ComputeTotals derives the order totals from the menu, the current
// selection and the fee of the selected delivery zone.
// grand_total = food_subtotal + delivery_fee
func ComputeTotals(menu *models.Menu, sel Selection, deliveryFee int) models.OrderTotals {
	subtotal := 0
	for _, line := range Itemize(menu, sel) {
		subtotal += line.Subtotal
	}
	return models.OrderTotals{
		FoodSubtotal: subtotal,
		DeliveryFee:  deliveryFee,
		GrandTotal:   subtotal + deliveryFee,
	}
}

// Itemize returns one line per added item with a non-zero contribution.
// Items that are not added contribute nothing whatever their stored
// quantity or portion.
func Itemize(menu *models.Menu, sel Selection) []models.LineItem {
	var lines []models.LineItem
	for _, item := range menu.Items {
		if !sel.IsAdded(item.Index) {
			continue
		}
		amount := 0
		for _, sec := range item.Sections {
			amount += sectionAmount(item.Index, sec, sel)
		}
		if amount == 0 {
			continue
		}
		lines = append(lines, models.LineItem{
			Item:     item.Index,
			Name:     item.Name,
			Subtotal: amount,
		})
	}
	return lines
}

func sectionAmount(item int, sec models.PortionSection, sel Selection) int {
	qty := sel.Quantity(item, sec.Index)

	switch sec.Kind {
	case models.SectionFish:
		// Every selected portion is charged at the one shared quantity, so
		// picking two fish at quantity 2 orders two of each.
		amount := 0
		for p, portion := range sec.Portions {
			if sel.IsSelected(item, sec.Index, p) {
				amount += portion.UnitPrice * qty
			}
		}
		return amount

	case models.SectionStandard:
		if sel.IsSelected(item, sec.Index, 0) {
			return sec.UnitPrice * qty
		}
		return 0

	default:
		// Snack sections have no button; their price always counts.
		return sec.UnitPrice * qty
	}
}
