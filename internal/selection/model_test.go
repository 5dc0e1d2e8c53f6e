package selection

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"reflect"
	"testing"

	"github.com/mmynk/orderwidget/internal/menu"
	"github.com/mmynk/orderwidget/internal/models"
	"github.com/mmynk/orderwidget/internal/storage/memory"
)

// Fixture items: 0 frozen fish (single-toggle), 1 fish platter (multi),
// 2 pilau (standard), 3 chapati & beans (two standard sections, first one
// single), 4 samosa (snack), 5 mandazi (snack).
func loadMenu(t *testing.T) *models.Menu {
	t.Helper()
	m, err := menu.Load("../menu/testdata/menu.html")
	if err != nil {
		t.Fatalf("failed to load menu fixture: %v", err)
	}
	return m
}

func stored(t *testing.T, s *memory.Store, key string) (string, bool) {
	t.Helper()
	v, ok, err := s.Get(context.Background(), key)
	if err != nil {
		t.Fatalf("Get(%s) failed: %v", key, err)
	}
	return v, ok
}

func TestToggleAdded(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	m := New(loadMenu(t), store)

	added, err := m.ToggleAdded(ctx, 2)
	if err != nil {
		t.Fatalf("ToggleAdded failed: %v", err)
	}
	if !added || !m.IsAdded(2) {
		t.Fatal("expected item 2 to be added")
	}
	if v, _ := stored(t, store, "added_2"); v != "true" {
		t.Errorf("added_2: expected \"true\", got %q", v)
	}

	if _, err := m.SetQuantity(ctx, 2, 0, 2); err != nil {
		t.Fatalf("SetQuantity failed: %v", err)
	}
	if _, err := m.SelectPortion(ctx, 2, 0, 0); err != nil {
		t.Fatalf("SelectPortion failed: %v", err)
	}

	added, err = m.ToggleAdded(ctx, 2)
	if err != nil {
		t.Fatalf("ToggleAdded failed: %v", err)
	}
	if added {
		t.Fatal("expected item 2 to be removed")
	}
	if q := m.Quantity(2, 0); q != 1 {
		t.Errorf("quantity after un-add: expected 1, got %d", q)
	}
	if m.IsSelected(2, 0, 0) {
		t.Error("portion still selected after un-add")
	}
	if v, _ := stored(t, store, "added_2"); v != "false" {
		t.Errorf("added_2: expected \"false\", got %q", v)
	}
	if v, _ := stored(t, store, "quantity_2"); v != "1" {
		t.Errorf("quantity_2: expected \"1\", got %q", v)
	}
	if _, ok := stored(t, store, "portion_2"); ok {
		t.Error("portion_2 should be removed on un-add")
	}
}

func TestSetAddedFalseIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	m := New(loadMenu(t), store)

	_ = m.SetAdded(ctx, 3, true)
	_, _ = m.SetQuantity(ctx, 3, 1, 4)
	_, _ = m.SelectPortion(ctx, 3, 0, 0)

	if err := m.SetAdded(ctx, 3, false); err != nil {
		t.Fatalf("SetAdded failed: %v", err)
	}
	first, _ := m.State(3)
	firstKeys, _ := store.Keys(ctx)

	if err := m.SetAdded(ctx, 3, false); err != nil {
		t.Fatalf("SetAdded failed: %v", err)
	}
	second, _ := m.State(3)
	secondKeys, _ := store.Keys(ctx)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("state changed on repeated un-add: %+v vs %+v", first, second)
	}
	if !reflect.DeepEqual(firstKeys, secondKeys) {
		t.Errorf("keys changed on repeated un-add: %v vs %v", firstKeys, secondKeys)
	}
	for s, q := range second.Quantities {
		if q != 1 {
			t.Errorf("section %d quantity: expected 1, got %d", s, q)
		}
	}
	if second.AnySelected() {
		t.Error("expected no portion selected")
	}
}

func TestSetQuantityBounds(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name    string
		item    int
		section int
		deltas  []int
		want    int
		key     string
		wantKey string
	}{
		{name: "fish floor is zero", item: 0, deltas: []int{-1}, want: 0, key: "quantity_0", wantKey: "0"},
		{name: "fish below zero is a no-op", item: 0, deltas: []int{-1, -1, -1}, want: 0, key: "quantity_0", wantKey: "0"},
		{name: "standard floor is one", item: 2, deltas: []int{-1}, want: 1, key: "quantity_2"},
		{name: "standard increments", item: 2, deltas: []int{1, 1, -1}, want: 2, key: "quantity_2", wantKey: "2"},
		{name: "second section key", item: 3, section: 1, deltas: []int{2}, want: 3, key: "quantity_3_1", wantKey: "3"},
		{name: "snack floor is one", item: 4, deltas: []int{1, -1, -1}, want: 1, key: "quantity_4", wantKey: "1"},
		{name: "ceiling is reachable", item: 4, deltas: []int{models.MaxQuantity - 1, 1}, want: models.MaxQuantity, key: "quantity_4", wantKey: "99"},
		{name: "delta past ceiling is a no-op", item: 2, deltas: []int{math.MaxInt}, want: 1, key: "quantity_2"},
		{name: "fish past ceiling is a no-op", item: 0, deltas: []int{models.MaxQuantity}, want: 1, key: "quantity_0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.NewStore()
			m := New(loadMenu(t), store)

			var got int
			var err error
			for _, d := range tt.deltas {
				got, err = m.SetQuantity(ctx, tt.item, tt.section, d)
				if err != nil {
					t.Fatalf("SetQuantity failed: %v", err)
				}
			}
			if got != tt.want {
				t.Errorf("quantity: expected %d, got %d", tt.want, got)
			}
			v, ok := stored(t, store, tt.key)
			if tt.wantKey == "" {
				if ok {
					t.Errorf("%s: expected no write, got %q", tt.key, v)
				}
				return
			}
			if v != tt.wantKey {
				t.Errorf("%s: expected %q, got %q", tt.key, tt.wantKey, v)
			}
		})
	}
}

func TestSelectPortionModes(t *testing.T) {
	ctx := context.Background()

	t.Run("single-toggle deselects on reclick", func(t *testing.T) {
		store := memory.NewStore()
		m := New(loadMenu(t), store)

		_, _ = m.SelectPortion(ctx, 0, 0, 0)
		_, _ = m.SelectPortion(ctx, 0, 0, 1)
		if m.IsSelected(0, 0, 0) || !m.IsSelected(0, 0, 1) {
			t.Fatal("expected only portion 1 selected")
		}
		if v, _ := stored(t, store, "portion_0"); v != "200" {
			t.Errorf("portion_0: expected \"200\", got %q", v)
		}

		selected, _ := m.SelectPortion(ctx, 0, 0, 1)
		if selected || m.IsSelected(0, 0, 1) {
			t.Fatal("expected reclick to deselect")
		}
		if _, ok := stored(t, store, "portion_0"); ok {
			t.Error("portion_0 should be removed when nothing is selected")
		}
	})

	t.Run("single keeps selection on reclick", func(t *testing.T) {
		m := New(loadMenu(t), memory.NewStore())
		_, _ = m.SelectPortion(ctx, 3, 0, 0)
		selected, _ := m.SelectPortion(ctx, 3, 0, 0)
		if !selected {
			t.Error("plain single-select should stay selected on reclick")
		}
	})

	t.Run("multi selects any subset", func(t *testing.T) {
		store := memory.NewStore()
		m := New(loadMenu(t), store)

		_, _ = m.SelectPortion(ctx, 1, 0, 0)
		_, _ = m.SelectPortion(ctx, 1, 0, 1)
		if !m.IsSelected(1, 0, 0) || !m.IsSelected(1, 0, 1) {
			t.Fatal("expected both portions selected")
		}
		if v, _ := stored(t, store, "portion_1"); v != "300,500" {
			t.Errorf("portion_1: expected \"300,500\", got %q", v)
		}

		_, _ = m.SelectPortion(ctx, 1, 0, 0)
		if m.IsSelected(1, 0, 0) || !m.IsSelected(1, 0, 1) {
			t.Error("expected only portion 1 selected after toggling portion 0 off")
		}
		if v, _ := stored(t, store, "portion_1"); v != "500" {
			t.Errorf("portion_1: expected \"500\", got %q", v)
		}
	})

	t.Run("snack has no portions", func(t *testing.T) {
		m := New(loadMenu(t), memory.NewStore())
		_, err := m.SelectPortion(ctx, 4, 0, 0)
		if !errors.Is(err, ErrUnknownPortion) {
			t.Errorf("expected ErrUnknownPortion, got %v", err)
		}
	})
}

func TestSingleSelectAtMostOne(t *testing.T) {
	ctx := context.Background()
	m := New(loadMenu(t), memory.NewStore())
	rng := rand.New(rand.NewSource(7))

	portions := len(loadMenu(t).Items[0].Sections[0].Portions)
	for i := 0; i < 500; i++ {
		if _, err := m.SelectPortion(ctx, 0, 0, rng.Intn(portions)); err != nil {
			t.Fatalf("SelectPortion failed: %v", err)
		}
		n := 0
		for p := 0; p < portions; p++ {
			if m.IsSelected(0, 0, p) {
				n++
			}
		}
		if n > 1 {
			t.Fatalf("click %d: %d portions selected in a single-select section", i, n)
		}
	}
}

func TestUnknownIndexes(t *testing.T) {
	ctx := context.Background()
	m := New(loadMenu(t), memory.NewStore())

	if _, err := m.ToggleAdded(ctx, 99); !errors.Is(err, ErrUnknownItem) {
		t.Errorf("ToggleAdded: expected ErrUnknownItem, got %v", err)
	}
	if _, err := m.SetQuantity(ctx, 2, 5, 1); !errors.Is(err, ErrUnknownSection) {
		t.Errorf("SetQuantity: expected ErrUnknownSection, got %v", err)
	}
	if _, err := m.SelectPortion(ctx, 0, 0, 9); !errors.Is(err, ErrUnknownPortion) {
		t.Errorf("SelectPortion: expected ErrUnknownPortion, got %v", err)
	}
	if _, err := m.ToggleGroup(ctx, -1); !errors.Is(err, ErrUnknownGroup) {
		t.Errorf("ToggleGroup: expected ErrUnknownGroup, got %v", err)
	}
}

func TestToggleGroup(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	m := New(loadMenu(t), store)

	open, _ := m.ToggleGroup(ctx, 1)
	if !open || !m.GroupOpen(1) {
		t.Fatal("expected group 1 open")
	}
	if v, _ := stored(t, store, "group_1_open"); v != "true" {
		t.Errorf("group_1_open: expected \"true\", got %q", v)
	}
	open, _ = m.ToggleGroup(ctx, 1)
	if open {
		t.Fatal("expected group 1 closed")
	}
	if v, _ := stored(t, store, "group_1_open"); v != "false" {
		t.Errorf("group_1_open: expected \"false\", got %q", v)
	}
}
