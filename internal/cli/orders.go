// internal/cli/orders.go
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// NewOrdersCommand creates the orders command.
func NewOrdersCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "orders",
		Short: "Show your order history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := newEngine(rootOpts)
			if err != nil {
				return err
			}

			if err := eng.orders.Refresh(cmd.Context()); err != nil {
				return err
			}

			orders := eng.orders.Orders()
			if len(orders) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No orders yet")
				return nil
			}

			for _, o := range orders {
				ref := o.ID
				if len(ref) > 8 {
					ref = strings.ToUpper(ref[len(ref)-8:])
				}
				fmt.Fprintf(cmd.OutOrStdout(), "#%s  %-10s  %10.2f  %d item(s)  %s\n",
					ref, o.Status, o.TotalAmount, len(o.Items), o.CreatedAt.Format("2006-01-02"))
			}

			stats := eng.orders.Stats()
			fmt.Fprintf(cmd.OutOrStdout(), "%d order(s), %d delivered, %d in progress, %.2f spent\n",
				stats.Total, stats.Delivered, stats.InProgress, stats.TotalSpent)
			return nil
		},
	}
}
