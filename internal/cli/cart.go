// internal/cli/cart.go
package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// NewCartCommand creates the cart command group.
func NewCartCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Inspect and mutate the shopping cart",
	}

	cmd.AddCommand(
		newCartShowCommand(rootOpts),
		newCartAddCommand(rootOpts),
		newCartSetCommand(rootOpts),
		newCartRemoveCommand(rootOpts),
		newCartClearCommand(rootOpts),
	)

	return cmd
}

func newCartShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the authoritative cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := newEngine(rootOpts)
			if err != nil {
				return err
			}

			if err := eng.cart.Refresh(cmd.Context()); err != nil {
				return err
			}

			cart := eng.cart.Cart()
			if len(cart.Items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Cart is empty")
				return nil
			}

			for _, item := range cart.Items {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %-30s  %d x %.2f\n",
					item.Product.ID, item.Product.Title, item.Quantity, item.Product.Price)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Total: %.2f\n", eng.cart.Total())
			return nil
		},
	}
}

func newCartAddCommand(rootOpts *RootOptions) *cobra.Command {
	quantity := 1

	cmd := &cobra.Command{
		Use:   "add <product-id>",
		Short: "Add a product to the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := newEngine(rootOpts)
			if err != nil {
				return err
			}

			if err := eng.cart.AddItem(cmd.Context(), args[0], quantity); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Added; cart total %.2f\n", eng.cart.Total())
			return nil
		},
	}

	cmd.Flags().IntVarP(&quantity, "quantity", "q", 1, "quantity to add")
	return cmd
}

func newCartSetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set <product-id> <quantity>",
		Short: "Set a line item quantity",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			quantity, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid quantity %q", args[1])
			}

			eng, err := newEngine(rootOpts)
			if err != nil {
				return err
			}

			if err := eng.cart.SetQuantity(cmd.Context(), args[0], quantity); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Updated; cart total %.2f\n", eng.cart.Total())
			return nil
		},
	}
}

func newCartRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <product-id>",
		Short: "Remove a line item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := newEngine(rootOpts)
			if err != nil {
				return err
			}

			if err := eng.cart.RemoveItem(cmd.Context(), args[0]); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Removed; cart total %.2f\n", eng.cart.Total())
			return nil
		},
	}
}

func newCartClearCommand(rootOpts *RootOptions) *cobra.Command {
	confirmed := false

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirmed {
				return fmt.Errorf("clearing the cart requires --yes")
			}

			eng, err := newEngine(rootOpts)
			if err != nil {
				return err
			}

			if err := eng.cart.Clear(cmd.Context()); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Cart cleared")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&confirmed, "yes", "y", false, "confirm clearing the cart")
	return cmd
}
