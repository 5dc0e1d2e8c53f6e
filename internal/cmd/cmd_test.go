package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/mmynk/orderwidget/internal/storage/sqlite"
)

const fixture = "../menu/testdata/menu.html"

// executeCommand runs a cobra command with args and returns captured output
func executeCommand(root *cobra.Command, args ...string) (output string, err error) {
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err = root.Execute()
	return buf.String(), err
}

func TestRootCommand(t *testing.T) {
	if rootCmd.Use != "orderwidget" {
		t.Errorf("rootCmd.Use = %q, want %q", rootCmd.Use, "orderwidget")
	}

	cmdMap := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		cmdMap[cmd.Name()] = true
	}
	for _, expected := range []string{"serve", "menu", "order"} {
		if !cmdMap[expected] {
			t.Errorf("expected subcommand %q not found", expected)
		}
	}
}

func TestMenuCommand(t *testing.T) {
	output, err := executeCommand(rootCmd, "menu", fixture)
	if err != nil {
		t.Fatalf("menu failed: %v\n%s", err, output)
	}

	for _, want := range []string{
		"[0] Fish",
		"#0 Frozen Fish",
		"section 0: fish, single-toggle",
		"Salmon — 1,200 Ksh (unit 1,200, restore 1200)",
		"#2 Pilau",
		"section 0: standard, multi, 200 Ksh",
		"#4 Samosa",
		"section 0: snack",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("menu output missing %q:\n%s", want, output)
		}
	}
}

func TestCommandsRequireOneArg(t *testing.T) {
	tests := [][]string{
		{"menu"},
		{"menu", fixture, "extra"},
		{"order"},
	}
	for _, args := range tests {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			_, err := executeCommand(rootCmd, args...)
			if err == nil {
				t.Fatal("expected an argument count error")
			}
			if !strings.Contains(err.Error(), "accepts 1 arg(s)") {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestOrderDryRun(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "orders.db")

	store, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	profileID, err := store.CreateProfile(ctx)
	if err != nil {
		t.Fatal(err)
	}
	p := store.Profile(profileID)
	for key, value := range map[string]string{
		"added_2":    "true",
		"quantity_2": "2",
		"portion_2":  "200",
		"zone":       "zoneB:South B",
	} {
		if err := p.Set(ctx, key, value); err != nil {
			t.Fatal(err)
		}
	}
	store.Close()

	output, err := executeCommand(rootCmd, "order", profileID,
		"--db", dbPath, "--menu", fixture, "--dry-run",
		"--name", "Kamau", "--phone", "0700111222", "--extra", "Gate 3")
	if err != nil {
		t.Fatalf("order failed: %v\n%s", err, output)
	}

	for _, want := range []string{
		"TOTAL: 400 shillings",
		"Delivery Fee: 350 Ksh",
		"Total: 750 Ksh",
		"Name: Kamau",
		"https://wa.me/254742014253?text=",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("order output missing %q:\n%s", want, output)
		}
	}
}
