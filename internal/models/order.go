package models

// DeliveryZone is a delivery area grouping with a flat fee.
type DeliveryZone struct {
	// ID is the selector id of the zone (e.g. "zoneA").
	ID string `yaml:"id"`

	// Fee is the flat delivery fee in shillings.
	Fee int `yaml:"fee"`

	// Areas are the selectable area names in display order.
	Areas []string `yaml:"areas"`
}

// OrderTotals is the derived price of the current order.
// It is never persisted; it is recomputed after every mutation.
type OrderTotals struct {
	FoodSubtotal int
	DeliveryFee  int

	// GrandTotal is always FoodSubtotal + DeliveryFee.
	GrandTotal int
}

// LineItem is the contribution of one added item to the food subtotal.
type LineItem struct {
	Item     int
	Name     string
	Subtotal int
}

// Contact holds the free-text fields of the order form.
type Contact struct {
	Name  string
	Phone string
	Extra string
}
