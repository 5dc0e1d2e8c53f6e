package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmynk/orderwidget/internal/dispatch"
	"github.com/mmynk/orderwidget/internal/menu"
	"github.com/mmynk/orderwidget/internal/models"
	"github.com/mmynk/orderwidget/internal/order"
	"github.com/mmynk/orderwidget/internal/pricing"
	"github.com/mmynk/orderwidget/internal/storage/sqlite"
)

var orderCmd = &cobra.Command{
	Use:   "order <profile-id>",
	Short: "Send the saved order of a profile from this machine",
	Long: `Load the saved selection of a profile, print the totals and open the
order message in the local browser or WhatsApp client. Use --dry-run to
print the message and links without opening anything.`,
	Args: cobra.ExactArgs(1),
	RunE: runOrder,
}

var (
	orderName      string
	orderPhone     string
	orderExtra     string
	orderUserAgent string
	orderDryRun    bool
)

func init() {
	orderCmd.Flags().String("db", "", "SQLite database path (DB_PATH)")
	orderCmd.Flags().String("menu", "", "page the menu is parsed from (MENU_PATH)")
	orderCmd.Flags().StringVar(&orderName, "name", "", "customer name")
	orderCmd.Flags().StringVar(&orderPhone, "phone", "", "customer phone")
	orderCmd.Flags().StringVar(&orderExtra, "extra", "", "extra delivery information")
	orderCmd.Flags().StringVar(&orderUserAgent, "user-agent", "", "user agent used to pick the app or web link")
	orderCmd.Flags().BoolVar(&orderDryRun, "dry-run", false, "print the order without opening it")
	rootCmd.AddCommand(orderCmd)
}

func runOrder(cmd *cobra.Command, args []string) error {
	cfg := loaded
	dbPath := stringFlag(cmd, "db", cfg.DBPath)
	menuPath := stringFlag(cmd, "menu", cfg.MenuPath)

	m, err := menu.Load(menuPath)
	if err != nil {
		return err
	}
	catalog, err := cfg.Catalog()
	if err != nil {
		return err
	}
	store, err := sqlite.New(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer store.Close()

	ctx := cmd.Context()
	profileID := args[0]
	ok, err := store.ProfileExists(ctx, profileID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("unknown profile %s", profileID)
	}

	deps := order.Deps{Menu: m, Catalog: catalog, Store: store.Profile(profileID)}
	if !orderDryRun {
		deps.Dispatcher = dispatch.NewDispatcher(dispatch.BrowserOpener{})
	}
	sess := order.NewSession(deps, cfg.Order)
	if err := sess.Load(ctx); err != nil {
		return err
	}
	sess.UpdateContact(models.Contact{Name: orderName, Phone: orderPhone, Extra: orderExtra})

	out := cmd.OutOrStdout()
	for _, l := range sess.Lines() {
		fmt.Fprintf(out, "%-24s %s %s\n", l.Name, pricing.FormatShillings(l.Subtotal), pricing.CurrencyMarker)
	}
	totals := sess.Totals()
	fmt.Fprintln(out, order.FoodTotalLine(totals.FoodSubtotal))
	fmt.Fprintln(out, order.DeliveryFeeLine(totals.DeliveryFee))
	fmt.Fprintln(out, order.GrandTotalLine(totals.GrandTotal))

	o, err := sess.Submit(ctx, orderUserAgent)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\n%s\n\n%s\n%s\n", o.Message, o.Links.App, o.Links.Web)

	if o.Pending != nil {
		o.Pending.Wait()
	}
	return nil
}
