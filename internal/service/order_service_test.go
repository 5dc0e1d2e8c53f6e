package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/mmynk/orderwidget/internal/auth"
	"github.com/mmynk/orderwidget/internal/menu"
	"github.com/mmynk/orderwidget/internal/middleware"
	"github.com/mmynk/orderwidget/internal/order"
	"github.com/mmynk/orderwidget/internal/storage/sqlite"
	"github.com/mmynk/orderwidget/internal/zones"
)

// setupTestServer starts both services over a temp SQLite database.
func setupTestServer(t *testing.T) (*Client, func()) {
	t.Helper()

	tmpFile, err := os.CreateTemp("", "test-*.db")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	tmpFile.Close()

	store, err := sqlite.New(tmpFile.Name())
	if err != nil {
		os.Remove(tmpFile.Name())
		t.Fatalf("failed to create store: %v", err)
	}

	m, err := menu.Load("../menu/testdata/menu.html")
	if err != nil {
		t.Fatalf("failed to load menu fixture: %v", err)
	}

	issuer := auth.NewIssuer(store, auth.NewJWTManager("test-secret", time.Hour))
	profilePath, profileHandler := NewProfileServiceHandler(NewProfileService(issuer),
		connect.WithInterceptors(middleware.LoggingInterceptor()))
	orderPath, orderHandler := NewOrderServiceHandler(
		NewOrderService(m, zones.DefaultCatalog(), store, order.DefaultConfig(), nil),
		connect.WithInterceptors(middleware.LoggingInterceptor(), middleware.RequireProfile(issuer)),
	)

	mux := http.NewServeMux()
	mux.Handle(profilePath, profileHandler)
	mux.Handle(orderPath, orderHandler)

	server := httptest.NewServer(mux)
	client := NewClient(http.DefaultClient, server.URL, connect.WithProtoJSON())

	cleanup := func() {
		server.Close()
		store.Close()
		os.Remove(tmpFile.Name())
	}
	return client, cleanup
}

func issueToken(t *testing.T, c *Client) string {
	t.Helper()
	resp, err := c.Call(context.Background(), ProfileServiceIssueProfileProcedure, "", nil)
	if err != nil {
		t.Fatalf("IssueProfile failed: %v", err)
	}
	if resp.Fields["profile_id"].GetStringValue() == "" {
		t.Fatal("expected profile_id in response")
	}
	token := resp.Fields["token"].GetStringValue()
	if token == "" {
		t.Fatal("expected token in response")
	}
	return token
}

func call(t *testing.T, c *Client, procedure, token string, body map[string]any) *structpb.Struct {
	t.Helper()
	resp, err := c.Call(context.Background(), procedure, token, body)
	if err != nil {
		t.Fatalf("%s failed: %v", procedure, err)
	}
	return resp
}

func totalsOf(resp *structpb.Struct) (food, fee, grand int) {
	tot := resp.Fields["totals"].GetStructValue().GetFields()
	return int(tot["food_subtotal"].GetNumberValue()),
		int(tot["delivery_fee"].GetNumberValue()),
		int(tot["grand_total"].GetNumberValue())
}

var contact = map[string]any{"name": "Akinyi", "phone": "0733000222", "extra": "Near the church"}

func TestOrderFlow(t *testing.T) {
	client, cleanup := setupTestServer(t)
	defer cleanup()
	token := issueToken(t, client)

	resp := call(t, client, OrderServiceToggleAddedProcedure, token, map[string]any{"item": 2})
	if !resp.Fields["added"].GetBoolValue() {
		t.Error("expected item 2 to be added")
	}

	resp = call(t, client, OrderServiceAdjustQuantityProcedure, token, map[string]any{"item": 2, "section": 0, "delta": 1})
	if q := resp.Fields["quantity"].GetNumberValue(); q != 2 {
		t.Errorf("expected quantity 2, got %v", q)
	}

	call(t, client, OrderServiceSelectPortionProcedure, token, map[string]any{"item": 2, "section": 0, "portion": 0})
	resp = call(t, client, OrderServiceSelectAreaProcedure, token, map[string]any{"zone_id": "zoneB", "area": "South B"})

	food, fee, grand := totalsOf(resp)
	if food != 400 || fee != 350 || grand != 750 {
		t.Errorf("totals = %d/%d/%d, want 400/350/750", food, fee, grand)
	}
	display := resp.Fields["display"].GetStructValue().GetFields()
	if got := display["grand_total"].GetStringValue(); got != "Total: 750 Ksh" {
		t.Errorf("grand total line = %q", got)
	}
	if resp.Fields["submit_enabled"].GetBoolValue() {
		t.Error("submit must be disabled without contact details")
	}

	// A fresh GetState sees the same persisted state.
	resp = call(t, client, OrderServiceGetStateProcedure, token, nil)
	if _, _, grand := totalsOf(resp); grand != 750 {
		t.Errorf("GetState grand total = %d, want 750", grand)
	}
	zone := resp.Fields["zone"].GetStructValue().GetFields()
	if zone["area"].GetStringValue() != "South B" || zone["zone_id"].GetStringValue() != "zoneB" {
		t.Errorf("zone = %v", zone)
	}

	resp = call(t, client, OrderServiceUpdateContactProcedure, token, map[string]any{"contact": contact})
	if !resp.Fields["submit_enabled"].GetBoolValue() {
		t.Error("submit should be enabled with full contact details")
	}
	if n := len(resp.Fields["missing"].GetListValue().GetValues()); n != 0 {
		t.Errorf("expected no missing fields, got %d", n)
	}

	resp = call(t, client, OrderServiceSubmitProcedure, token, map[string]any{
		"contact":    contact,
		"user_agent": "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X)",
	})
	o := resp.Fields["order"].GetStructValue().GetFields()
	if !strings.Contains(o["message"].GetStringValue(), "Total: 750 Ksh") {
		t.Errorf("message = %q", o["message"].GetStringValue())
	}
	plan := o["plan"].GetStructValue().GetFields()
	if plan["primary"].GetStringValue() != o["app_link"].GetStringValue() {
		t.Error("mobile plan should open the app link first")
	}
	if plan["fallback"].GetStringValue() != o["web_link"].GetStringValue() {
		t.Error("mobile plan should fall back to the web link")
	}
	if plan["fallback_delay_ms"].GetNumberValue() != 500 {
		t.Errorf("fallback delay = %v, want 500", plan["fallback_delay_ms"].GetNumberValue())
	}
}

func TestProfilesAreIsolated(t *testing.T) {
	client, cleanup := setupTestServer(t)
	defer cleanup()

	first := issueToken(t, client)
	second := issueToken(t, client)

	call(t, client, OrderServiceToggleAddedProcedure, first, map[string]any{"item": 4})
	resp := call(t, client, OrderServiceGetStateProcedure, second, nil)
	if food, _, _ := totalsOf(resp); food != 0 {
		t.Errorf("second profile sees food subtotal %d, want 0", food)
	}
}

func TestOrderErrors(t *testing.T) {
	client, cleanup := setupTestServer(t)
	defer cleanup()
	token := issueToken(t, client)

	tests := []struct {
		name      string
		procedure string
		token     string
		body      map[string]any
		code      connect.Code
	}{
		{"missing token", OrderServiceGetStateProcedure, "", nil, connect.CodeUnauthenticated},
		{"bad token", OrderServiceGetStateProcedure, "garbage", nil, connect.CodeUnauthenticated},
		{"missing item", OrderServiceToggleAddedProcedure, token, map[string]any{}, connect.CodeInvalidArgument},
		{"fractional item", OrderServiceToggleAddedProcedure, token, map[string]any{"item": 1.5}, connect.CodeInvalidArgument},
		{"delta of several clicks", OrderServiceAdjustQuantityProcedure, token, map[string]any{"item": 2, "section": 0, "delta": 2}, connect.CodeInvalidArgument},
		{"huge delta", OrderServiceAdjustQuantityProcedure, token, map[string]any{"item": 2, "section": 0, "delta": float64(1 << 52)}, connect.CodeInvalidArgument},
		{"unknown item", OrderServiceToggleAddedProcedure, token, map[string]any{"item": 42}, connect.CodeNotFound},
		{"unknown portion", OrderServiceSelectPortionProcedure, token, map[string]any{"item": 0, "section": 0, "portion": 9}, connect.CodeNotFound},
		{"unknown zone", OrderServiceSelectAreaProcedure, token, map[string]any{"zone_id": "zoneX", "area": "Karen"}, connect.CodeNotFound},
		{"area of another zone", OrderServiceSelectAreaProcedure, token, map[string]any{"zone_id": "zoneA", "area": "Karen"}, connect.CodeInvalidArgument},
		{"incomplete form", OrderServiceSubmitProcedure, token, map[string]any{"contact": map[string]any{"name": "A"}}, connect.CodeFailedPrecondition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.Call(context.Background(), tt.procedure, tt.token, tt.body)
			var connectErr *connect.Error
			if !errors.As(err, &connectErr) {
				t.Fatalf("expected connect error, got %v", err)
			}
			if connectErr.Code() != tt.code {
				t.Errorf("expected %v, got %v (%v)", tt.code, connectErr.Code(), err)
			}
		})
	}
}
