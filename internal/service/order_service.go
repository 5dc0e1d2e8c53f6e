package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/mmynk/orderwidget/internal/form"
	"github.com/mmynk/orderwidget/internal/metrics"
	"github.com/mmynk/orderwidget/internal/middleware"
	"github.com/mmynk/orderwidget/internal/models"
	"github.com/mmynk/orderwidget/internal/order"
	"github.com/mmynk/orderwidget/internal/storage"
	"github.com/mmynk/orderwidget/internal/zones"
)

// OrderService exposes the order session of the calling profile.
//
// Sessions are rebuilt from the profile store on every call. Contact fields
// are not stored; each request carries them in an optional "contact" object
// so the submit state can be evaluated.
type OrderService struct {
	menu    *models.Menu
	catalog *zones.Catalog
	backend storage.Backend
	cfg     order.Config
	metrics *metrics.Metrics

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewOrderService creates an OrderService over menu and catalog.
func NewOrderService(menu *models.Menu, catalog *zones.Catalog, backend storage.Backend, cfg order.Config, m *metrics.Metrics) *OrderService {
	return &OrderService{
		menu:    menu,
		catalog: catalog,
		backend: backend,
		cfg:     cfg,
		metrics: m,
		locks:   make(map[string]*sync.Mutex),
	}
}

// lock serializes calls of one profile.
func (s *OrderService) lock(profileID string) func() {
	s.mu.Lock()
	l, ok := s.locks[profileID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[profileID] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// mutation is applied to the loaded session of the caller.
type mutation func(ctx context.Context, sess *order.Session, req *structpb.Struct) (map[string]any, error)

// run loads the caller's session, applies fn and responds with the state
// snapshot merged with fn's extra fields.
func (s *OrderService) run(ctx context.Context, name string, req *connect.Request[structpb.Struct], fn mutation) (*connect.Response[structpb.Struct], error) {
	profileID := middleware.GetProfileID(ctx)
	if profileID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, errors.New("no profile in context"))
	}
	unlock := s.lock(profileID)
	defer unlock()

	display := order.NewTextDisplay()
	sess := order.NewSession(order.Deps{
		Menu:    s.menu,
		Catalog: s.catalog,
		Store:   s.backend.Profile(profileID),
		Display: display,
		Metrics: s.metrics,
	}, s.cfg)
	if err := sess.Load(ctx); err != nil {
		slog.Error("Failed to load session", "profile_id", profileID, "error", err)
		return nil, toConnectError(fmt.Errorf("failed to load session: %w", err))
	}
	sess.UpdateContact(contactField(req.Msg))

	var extra map[string]any
	if fn != nil {
		var err error
		extra, err = fn(ctx, sess, req.Msg)
		if err != nil {
			slog.Debug(name+" rejected", "profile_id", profileID, "error", err)
			return nil, toConnectError(err)
		}
	}

	fields := snapshot(sess, display)
	for k, v := range extra {
		fields[k] = v
	}
	msg, err := toStruct(fields)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(msg), nil
}

// GetState returns the current snapshot.
func (s *OrderService) GetState(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
	return s.run(ctx, "GetState", req, nil)
}

// ToggleAdded flips {item}.
func (s *OrderService) ToggleAdded(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
	return s.run(ctx, "ToggleAdded", req, func(ctx context.Context, sess *order.Session, msg *structpb.Struct) (map[string]any, error) {
		item, err := intField(msg, "item")
		if err != nil {
			return nil, err
		}
		added, err := sess.ToggleAdded(ctx, item)
		if err != nil {
			return nil, err
		}
		return map[string]any{"added": added}, nil
	})
}

// AdjustQuantity applies {delta}, one click of +1 or -1, to {item, section}.
func (s *OrderService) AdjustQuantity(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
	return s.run(ctx, "AdjustQuantity", req, func(ctx context.Context, sess *order.Session, msg *structpb.Struct) (map[string]any, error) {
		item, err := intField(msg, "item")
		if err != nil {
			return nil, err
		}
		section, err := intField(msg, "section")
		if err != nil {
			return nil, err
		}
		delta, err := intField(msg, "delta")
		if err != nil {
			return nil, err
		}
		if delta != 1 && delta != -1 {
			return nil, fmt.Errorf("%w: delta must be 1 or -1, got %d", errBadRequest, delta)
		}
		qty, err := sess.AdjustQuantity(ctx, item, section, delta)
		if err != nil {
			return nil, err
		}
		return map[string]any{"quantity": qty}, nil
	})
}

// SelectPortion clicks {item, section, portion}.
func (s *OrderService) SelectPortion(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
	return s.run(ctx, "SelectPortion", req, func(ctx context.Context, sess *order.Session, msg *structpb.Struct) (map[string]any, error) {
		item, err := intField(msg, "item")
		if err != nil {
			return nil, err
		}
		section, err := intField(msg, "section")
		if err != nil {
			return nil, err
		}
		portion, err := intField(msg, "portion")
		if err != nil {
			return nil, err
		}
		selected, err := sess.SelectPortion(ctx, item, section, portion)
		if err != nil {
			return nil, err
		}
		return map[string]any{"selected": selected}, nil
	})
}

// ToggleGroup expands or collapses {group}.
func (s *OrderService) ToggleGroup(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
	return s.run(ctx, "ToggleGroup", req, func(ctx context.Context, sess *order.Session, msg *structpb.Struct) (map[string]any, error) {
		group, err := intField(msg, "group")
		if err != nil {
			return nil, err
		}
		open, err := sess.ToggleGroup(ctx, group)
		if err != nil {
			return nil, err
		}
		return map[string]any{"open": open}, nil
	})
}

// SelectArea sets {zone_id} to {area}; an empty area clears it.
func (s *OrderService) SelectArea(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
	return s.run(ctx, "SelectArea", req, func(ctx context.Context, sess *order.Session, msg *structpb.Struct) (map[string]any, error) {
		zoneID := stringField(msg, "zone_id")
		if zoneID == "" {
			return nil, fmt.Errorf("%w: missing zone_id", errBadRequest)
		}
		return nil, sess.SelectArea(ctx, zoneID, stringField(msg, "area"))
	})
}

// UpdateContact re-evaluates the form with {contact} and reports the
// missing fields.
func (s *OrderService) UpdateContact(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
	return s.run(ctx, "UpdateContact", req, func(_ context.Context, sess *order.Session, _ *structpb.Struct) (map[string]any, error) {
		var missing []any
		for _, f := range form.Missing(sess.Fields()) {
			missing = append(missing, f)
		}
		return map[string]any{"missing": missing}, nil
	})
}

// Submit builds the order message for {contact}. The response carries the
// links and the dispatch plan the client executes; the user agent is taken
// from {user_agent} or the request header.
func (s *OrderService) Submit(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
	userAgent := stringField(req.Msg, "user_agent")
	if userAgent == "" {
		userAgent = req.Header().Get("User-Agent")
	}
	return s.run(ctx, "Submit", req, func(ctx context.Context, sess *order.Session, _ *structpb.Struct) (map[string]any, error) {
		o, err := sess.Submit(ctx, userAgent)
		if err != nil {
			return nil, err
		}
		return map[string]any{"order": orderFields(o)}, nil
	})
}
