package storage

import "testing"

func TestKeyNames(t *testing.T) {
	tests := []struct {
		got  string
		want string
	}{
		{AddedKey(3), "added_3"},
		{QuantityKey(3, 0), "quantity_3"},
		{QuantityKey(3, 2), "quantity_3_2"},
		{PortionKey(0), "portion_0"},
		{GroupOpenKey(4), "group_4_open"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("key = %q, want %q", tt.got, tt.want)
		}
	}
}

func TestParseKey(t *testing.T) {
	tests := []struct {
		name   string
		key    string
		want   Key
		wantOK bool
	}{
		{name: "added", key: "added_7", want: Key{Role: RoleAdded, Index: 7}, wantOK: true},
		{name: "quantity", key: "quantity_2", want: Key{Role: RoleQuantity, Index: 2}, wantOK: true},
		{name: "section quantity", key: "quantity_2_1", want: Key{Role: RoleQuantity, Index: 2, Section: 1}, wantOK: true},
		{name: "portion", key: "portion_5", want: Key{Role: RolePortion, Index: 5}, wantOK: true},
		{name: "group", key: "group_1_open", want: Key{Role: RoleGroupOpen, Index: 1}, wantOK: true},
		{name: "zone", key: "zone", want: Key{Role: RoleZone}, wantOK: true},
		{name: "explicit section zero rejected", key: "quantity_2_0"},
		{name: "negative", key: "added_-1"},
		{name: "garbage index", key: "portion_x"},
		{name: "too many parts", key: "quantity_1_2_3"},
		{name: "foreign key", key: "theme"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseKey(tt.key)
			if ok != tt.wantOK {
				t.Fatalf("ParseKey(%q) ok = %v, want %v", tt.key, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("ParseKey(%q) = %+v, want %+v", tt.key, got, tt.want)
			}
		})
	}
}

func TestParseKeyRoundTrip(t *testing.T) {
	for _, name := range []string{AddedKey(9), QuantityKey(9, 0), QuantityKey(9, 3), PortionKey(9), GroupOpenKey(9)} {
		if _, ok := ParseKey(name); !ok {
			t.Errorf("ParseKey(%q) not recognised", name)
		}
	}
}
