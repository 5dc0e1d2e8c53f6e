package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mmynk/orderwidget/internal/menu"
	"github.com/mmynk/orderwidget/internal/models"
	"github.com/mmynk/orderwidget/internal/pricing"
)

var menuCmd = &cobra.Command{
	Use:   "menu <file>",
	Short: "Print the menu tree parsed from a page",
	Long: `Parse the menu markup of a page and print every group, item, section
and portion with the unit price used for totals and the price used to
restore a saved portion.`,
	Args: cobra.ExactArgs(1),
	RunE: runMenu,
}

func init() {
	rootCmd.AddCommand(menuCmd)
}

func runMenu(cmd *cobra.Command, args []string) error {
	m, err := menu.Load(args[0])
	if err != nil {
		return err
	}
	printMenu(cmd.OutOrStdout(), m)
	return nil
}

func printMenu(w io.Writer, m *models.Menu) {
	for _, g := range m.Groups {
		fmt.Fprintf(w, "[%d] %s\n", g.Index, g.Title)
		for _, i := range g.Items {
			printItem(w, m.Items[i])
		}
	}
	for _, it := range m.Items {
		if it.Group < 0 {
			printItem(w, it)
		}
	}
}

func printItem(w io.Writer, it models.MenuItem) {
	fmt.Fprintf(w, "  #%d %s\n", it.Index, it.Name)
	for _, sec := range it.Sections {
		fmt.Fprintf(w, "    section %d: %s, %s", sec.Index, sec.Kind, sec.Mode)
		if sec.Kind != models.SectionFish {
			fmt.Fprintf(w, ", %s %s", pricing.FormatShillings(sec.UnitPrice), pricing.CurrencyMarker)
		}
		fmt.Fprintln(w)
		for p, po := range sec.Portions {
			fmt.Fprintf(w, "      %d. %s (unit %s, restore %d)\n", p, po.Label, pricing.FormatShillings(po.UnitPrice), po.MatchPrice)
		}
	}
}
