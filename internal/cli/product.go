// internal/cli/product.go
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// NewProductCommand creates the product detail command.
func NewProductCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "product <product-id>",
		Short: "Show a product's details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := newEngine(rootOpts)
			if err != nil {
				return err
			}

			p, err := eng.gateway.GetProduct(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\n", p.Title)
			fmt.Fprintf(out, "  id:          %s\n", p.ID)
			fmt.Fprintf(out, "  price:       %.2f\n", p.Price)
			fmt.Fprintf(out, "  category:    %s\n", p.Category)
			if p.Condition != "" {
				fmt.Fprintf(out, "  condition:   %s\n", p.Condition)
			}
			if len(p.Tags) > 0 {
				fmt.Fprintf(out, "  tags:        %s\n", strings.Join(p.Tags, ", "))
			}
			fmt.Fprintf(out, "  available:   %t\n", p.IsAvailable)
			fmt.Fprintf(out, "  views:       %d\n", p.Views)
			seller := p.Seller.Username
			if eng.session.Owns(*p) {
				seller += " (you)"
			}
			fmt.Fprintf(out, "  seller:      %s\n", seller)
			fmt.Fprintf(out, "  description: %s\n", p.Description)

			return nil
		},
	}
}
