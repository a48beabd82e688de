// internal/cli/checkout.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/greenloop/market-client/internal/models"
	"github.com/greenloop/market-client/internal/viewmodel"
)

// NewCheckoutCommand creates the checkout command.
func NewCheckoutCommand(rootOpts *RootOptions) *cobra.Command {
	address := models.ShippingAddress{
		Street:  "123 Main St",
		City:    "Anytown",
		State:   "State",
		ZipCode: "12345",
		Country: "USA",
	}
	confirmed := false

	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Place an order from the current cart",
		Long:  "Creates an order from the cart contents with cash-on-delivery payment. The server empties the cart as part of the same call.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirmed {
				return fmt.Errorf("placing an order requires --yes")
			}

			eng, err := newEngine(rootOpts)
			if err != nil {
				return err
			}

			if err := eng.cart.Refresh(cmd.Context()); err != nil {
				return err
			}

			flow := viewmodel.NewCheckoutFlow(eng.gateway, eng.cart)
			order, err := flow.Submit(cmd.Context(), address)
			if err != nil {
				if msg := flow.LastError(); msg != "" {
					return fmt.Errorf("%s", msg)
				}
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Order %s placed, total %.2f, status %s\n",
				order.ID, order.TotalAmount, order.Status)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&confirmed, "yes", "y", false, "confirm placing the order")
	cmd.Flags().StringVar(&address.Street, "street", address.Street, "shipping street")
	cmd.Flags().StringVar(&address.City, "city", address.City, "shipping city")
	cmd.Flags().StringVar(&address.State, "state", address.State, "shipping state")
	cmd.Flags().StringVar(&address.ZipCode, "zip", address.ZipCode, "shipping zip code")
	cmd.Flags().StringVar(&address.Country, "country", address.Country, "shipping country")

	return cmd
}
