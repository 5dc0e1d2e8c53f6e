// Package models defines the core domain models for the order widget.
//
// # Menu Models
//
// The menu is read-only once parsed from the page markup:
//   - Menu: the whole document, groups plus items in document order
//   - MenuItem: one orderable dish, identified by its document index
//   - PortionSection: a priced block inside an item with its own quantity
//   - Portion: a selectable price option inside a section
//
// # Selection Models
//
// Selection state is owned by the selection package and mirrored to the
// per-profile store:
//   - SelectionState: added flag, per-section quantity, portion flags
//
// # Delivery and Totals
//
//   - DeliveryZone: flat delivery fee plus the areas it covers
//   - OrderTotals: food subtotal, delivery fee and grand total
//
// # Design Principles
//
// 1. **Integer money**: every price is an int in shillings, no floats
// 2. **Index identity**: items, sections and portions are addressed by
// their position in the document, which is what the persisted keys use
// 3. **No behaviour**: models hold data and tiny derived accessors only;
// rules live in selection, totals and zones
package models
