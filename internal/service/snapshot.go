package service

import (
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/mmynk/orderwidget/internal/dispatch"
	"github.com/mmynk/orderwidget/internal/order"
)

// snapshot renders the full state of a session.
func snapshot(s *order.Session, display *order.TextDisplay) map[string]any {
	totals := s.Totals()
	lines := display.Lines()

	var items []any
	for i, st := range s.Selection().Snapshot() {
		quantities := make([]any, len(st.Quantities))
		for j, q := range st.Quantities {
			quantities[j] = q
		}
		selected := make([]any, len(st.Selected))
		for j, row := range st.Selected {
			flags := make([]any, len(row))
			for k, f := range row {
				flags[k] = f
			}
			selected[j] = flags
		}
		items = append(items, map[string]any{
			"item":       i,
			"name":       s.Menu().Items[i].Name,
			"added":      st.Added,
			"quantities": quantities,
			"selected":   selected,
		})
	}

	var groups []any
	for i, g := range s.Selection().Groups() {
		if g.Open {
			groups = append(groups, i)
		}
	}

	var itemLines []any
	for _, l := range s.Lines() {
		itemLines = append(itemLines, map[string]any{
			"item":     l.Item,
			"name":     l.Name,
			"subtotal": l.Subtotal,
		})
	}

	var zone any
	if id, area, ok := s.Zone().Selected(); ok {
		zone = map[string]any{"zone_id": id, "area": area}
	}

	return map[string]any{
		"totals": map[string]any{
			"food_subtotal": totals.FoodSubtotal,
			"delivery_fee":  totals.DeliveryFee,
			"grand_total":   totals.GrandTotal,
		},
		"display": map[string]any{
			"food_total":   lines.FoodTotal,
			"delivery_fee": lines.DeliveryFee,
			"grand_total":  lines.GrandTotal,
		},
		"lines":          itemLines,
		"items":          items,
		"open_groups":    groups,
		"zone":           zone,
		"submit_enabled": s.SubmitEnabled(),
	}
}

// orderFields renders a submitted order.
func orderFields(o *order.Order) map[string]any {
	return map[string]any{
		"message":  o.Message,
		"app_link": o.Links.App,
		"web_link": o.Links.Web,
		"plan":     planFields(o.Plan),
	}
}

func planFields(p dispatch.Plan) map[string]any {
	return map[string]any{
		"primary":           p.Primary,
		"fallback":          p.Fallback,
		"fallback_delay_ms": p.Delay.Milliseconds(),
	}
}

// toStruct converts rendered fields to a message.
func toStruct(fields map[string]any) (*structpb.Struct, error) {
	msg, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to encode response: %w", err)
	}
	return msg, nil
}
