// Package order ties the selection, the zone selectors, the totals and the
// contact form of one profile into an order session.
package order

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mmynk/orderwidget/internal/calculator"
	"github.com/mmynk/orderwidget/internal/dispatch"
	"github.com/mmynk/orderwidget/internal/form"
	"github.com/mmynk/orderwidget/internal/metrics"
	"github.com/mmynk/orderwidget/internal/models"
	"github.com/mmynk/orderwidget/internal/selection"
	"github.com/mmynk/orderwidget/internal/storage"
	"github.com/mmynk/orderwidget/internal/zones"
)

// Config holds the dispatch settings of a session.
type Config struct {
	// Greeting is the name the order message is addressed to.
	Greeting string

	// Phone is the number the order is sent to, in international form
	// without a leading plus.
	Phone string

	FallbackDelay time.Duration
}

// DefaultConfig returns the built-in dispatch settings.
func DefaultConfig() Config {
	return Config{
		Greeting:      "Catherine",
		Phone:         "254742014253",
		FallbackDelay: dispatch.DefaultFallbackDelay,
	}
}

// Deps are the collaborators of a session. Menu, Catalog and Store are
// required.
type Deps struct {
	Menu    *models.Menu
	Catalog *zones.Catalog
	Store   storage.Store

	// Display defaults to a fresh TextDisplay.
	Display Display

	// Dispatcher, when set, opens the links on Submit.
	Dispatcher *dispatch.Dispatcher

	Metrics *metrics.Metrics
}

// Session is the order of one profile. It is not safe for concurrent use.
type Session struct {
	cfg        Config
	menu       *models.Menu
	store      storage.Store
	selection  *selection.Model
	zone       *zones.Selection
	gate       *form.Gate
	display    Display
	dispatcher *dispatch.Dispatcher
	metrics    *metrics.Metrics

	contact models.Contact
	totals  models.OrderTotals
}

// NewSession creates a session in the default state. Call Load to restore
// the persisted selection.
func NewSession(deps Deps, cfg Config) *Session {
	if deps.Display == nil {
		deps.Display = NewTextDisplay()
	}
	if cfg.FallbackDelay <= 0 {
		cfg.FallbackDelay = dispatch.DefaultFallbackDelay
	}
	s := &Session{
		cfg:        cfg,
		menu:       deps.Menu,
		store:      deps.Store,
		selection:  selection.New(deps.Menu, deps.Store),
		zone:       zones.NewSelection(deps.Catalog),
		display:    deps.Display,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
	}
	s.gate = form.NewGate(s.display.SetSubmitEnabled)
	return s
}

// Load restores the persisted selection and zone, then recomputes the
// totals and evaluates the form once.
func (s *Session) Load(ctx context.Context) error {
	if err := s.selection.Restore(ctx); err != nil {
		return fmt.Errorf("failed to restore selection: %w", err)
	}

	value, ok, err := s.store.Get(ctx, storage.ZoneKey)
	if err != nil {
		return fmt.Errorf("failed to read zone selection: %w", err)
	}
	if ok {
		if err := s.zone.Decode(value); err != nil {
			slog.Warn("Ignoring saved zone selection", "value", value, "error", err)
			s.zone.Clear()
		}
	}

	s.refresh()
	return nil
}

// refresh recomputes the totals, renders them and re-evaluates the form.
func (s *Session) refresh() {
	s.totals = calculator.ComputeTotals(s.menu, s.selection, s.zone.Fee())
	Render(s.display, s.totals)
	s.gate.Evaluate(s.Fields())
	s.metrics.Recomputed(s.totals.GrandTotal)
}

// mutated finishes a mutation of the given kind.
func (s *Session) mutated(kind string) {
	s.metrics.Mutation(kind)
	s.refresh()
}

// ToggleAdded flips whether an item is part of the order.
func (s *Session) ToggleAdded(ctx context.Context, item int) (bool, error) {
	added, err := s.selection.ToggleAdded(ctx, item)
	if err != nil {
		return added, err
	}
	s.mutated("toggle_added")
	return added, nil
}

// AdjustQuantity applies delta to the quantity of one section.
func (s *Session) AdjustQuantity(ctx context.Context, item, section, delta int) (int, error) {
	qty, err := s.selection.SetQuantity(ctx, item, section, delta)
	if err != nil {
		return qty, err
	}
	s.mutated("adjust_quantity")
	return qty, nil
}

// SelectPortion clicks one portion button.
func (s *Session) SelectPortion(ctx context.Context, item, section, portion int) (bool, error) {
	selected, err := s.selection.SelectPortion(ctx, item, section, portion)
	if err != nil {
		return selected, err
	}
	s.mutated("select_portion")
	return selected, nil
}

// ToggleGroup expands or collapses a menu group.
func (s *Session) ToggleGroup(ctx context.Context, group int) (bool, error) {
	open, err := s.selection.ToggleGroup(ctx, group)
	if err != nil {
		return open, err
	}
	s.mutated("toggle_group")
	return open, nil
}

// SelectArea sets the area of one zone selector. An empty area clears that
// selector.
func (s *Session) SelectArea(ctx context.Context, zoneID, area string) error {
	if err := s.zone.Select(zoneID, area); err != nil {
		return err
	}

	var err error
	if value := s.zone.Encode(); value != "" {
		err = s.store.Set(ctx, storage.ZoneKey, value)
	} else {
		err = s.store.Remove(ctx, storage.ZoneKey)
	}
	if err != nil {
		return fmt.Errorf("failed to persist zone selection: %w", err)
	}

	slog.Debug("Area selected", "zone", zoneID, "area", area, "fee", s.zone.Fee())
	s.mutated("select_area")
	return nil
}

// UpdateContact replaces the free-text form fields and returns whether
// submission is enabled.
func (s *Session) UpdateContact(c models.Contact) bool {
	s.contact = c
	return s.gate.Evaluate(s.Fields())
}

// Fields returns the four watched form fields.
func (s *Session) Fields() form.Fields {
	return form.Fields{
		Name:  s.contact.Name,
		Phone: s.contact.Phone,
		Area:  s.zone.Area(),
		Extra: s.contact.Extra,
	}
}

// Totals returns the totals of the last recomputation.
func (s *Session) Totals() models.OrderTotals {
	return s.totals
}

// Lines returns the per-item contributions to the food subtotal.
func (s *Session) Lines() []models.LineItem {
	return calculator.Itemize(s.menu, s.selection)
}

// Selection returns the selection model.
func (s *Session) Selection() *selection.Model {
	return s.selection
}

// Zone returns the zone selectors.
func (s *Session) Zone() *zones.Selection {
	return s.zone
}

// Contact returns the free-text form fields.
func (s *Session) Contact() models.Contact {
	return s.contact
}

// SubmitEnabled reports whether the form currently allows submission.
func (s *Session) SubmitEnabled() bool {
	return s.gate.Enabled()
}

// Menu returns the menu the session orders from.
func (s *Session) Menu() *models.Menu {
	return s.menu
}

// Order is a submitted order.
type Order struct {
	Message string
	Links   dispatch.Links
	Plan    dispatch.Plan

	// Pending tracks the fallback link. Nil when the session has no
	// dispatcher.
	Pending *dispatch.Pending
}

// Submit builds the order message for the current state and, when the
// session has a dispatcher, opens it. userAgent selects the app or web
// channel.
func (s *Session) Submit(ctx context.Context, userAgent string) (*Order, error) {
	fields := s.Fields()
	if err := form.Check(fields); err != nil {
		return nil, err
	}

	msg := dispatch.BuildSummary(s.cfg.Greeting, dispatch.Summary{
		Customer:   strings.TrimSpace(fields.Name),
		Phone:      strings.TrimSpace(fields.Phone),
		Area:       fields.Area,
		Extra:      strings.TrimSpace(fields.Extra),
		GrandTotal: s.totals.GrandTotal,
	})
	links := dispatch.BuildLinks(s.cfg.Phone, msg)
	mobile := dispatch.IsMobile(userAgent)
	o := &Order{
		Message: msg,
		Links:   links,
		Plan:    dispatch.NewPlan(links, mobile, s.cfg.FallbackDelay),
	}

	channel := "web"
	if mobile {
		channel = "app"
	}
	s.metrics.Dispatched(channel)
	slog.Info("Order submitted", "channel", channel, "total", s.totals.GrandTotal, "area", fields.Area)

	if s.dispatcher == nil {
		return o, nil
	}
	pending, err := s.dispatcher.Dispatch(ctx, o.Plan)
	if err != nil {
		return o, fmt.Errorf("failed to dispatch order: %w", err)
	}
	o.Pending = pending
	return o, nil
}
