package order

import (
	"fmt"
	"sync"

	"github.com/mmynk/orderwidget/internal/models"
	"github.com/mmynk/orderwidget/internal/pricing"
)

// Display receives the rendered totals and the submit state.
type Display interface {
	// EnsureTotal creates the food total element if it does not exist yet.
	EnsureTotal()
	ShowFoodTotal(text string)
	ShowDeliveryFee(text string)
	ShowGrandTotal(text string)
	SetSubmitEnabled(enabled bool)
}

// FoodTotalLine renders the food subtotal, e.g. "TOTAL: 1,250 shillings".
func FoodTotalLine(n int) string {
	return fmt.Sprintf("TOTAL: %s shillings", pricing.FormatShillings(n))
}

// DeliveryFeeLine renders the delivery fee, e.g. "Delivery Fee: 350 Ksh".
func DeliveryFeeLine(n int) string {
	return fmt.Sprintf("Delivery Fee: %s %s", pricing.FormatShillings(n), pricing.CurrencyMarker)
}

// GrandTotalLine renders the grand total, e.g. "Total: 1,600 Ksh".
func GrandTotalLine(n int) string {
	return fmt.Sprintf("Total: %s %s", pricing.FormatShillings(n), pricing.CurrencyMarker)
}

// Render writes totals to d.
func Render(d Display, totals models.OrderTotals) {
	d.EnsureTotal()
	d.ShowFoodTotal(FoodTotalLine(totals.FoodSubtotal))
	d.ShowDeliveryFee(DeliveryFeeLine(totals.DeliveryFee))
	d.ShowGrandTotal(GrandTotalLine(totals.GrandTotal))
}

// Lines is the rendered text of every display element.
type Lines struct {
	// FoodTotal is empty until the element has been created.
	FoodTotal     string
	DeliveryFee   string
	GrandTotal    string
	SubmitEnabled bool
}

// TextDisplay keeps the rendered lines in memory.
type TextDisplay struct {
	mu        sync.Mutex
	hasTotal  bool
	lines     Lines
	creations int
}

var _ Display = (*TextDisplay)(nil)

// NewTextDisplay returns a display without a food total element.
func NewTextDisplay() *TextDisplay {
	return &TextDisplay{}
}

func (d *TextDisplay) EnsureTotal() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.hasTotal {
		return
	}
	d.hasTotal = true
	d.creations++
}

func (d *TextDisplay) ShowFoodTotal(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.hasTotal {
		d.lines.FoodTotal = text
	}
}

func (d *TextDisplay) ShowDeliveryFee(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lines.DeliveryFee = text
}

func (d *TextDisplay) ShowGrandTotal(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lines.GrandTotal = text
}

func (d *TextDisplay) SetSubmitEnabled(enabled bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lines.SubmitEnabled = enabled
}

// Lines returns the current text of every element.
func (d *TextDisplay) Lines() Lines {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lines
}

// Creations reports how many times the food total element was created.
func (d *TextDisplay) Creations() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.creations
}
