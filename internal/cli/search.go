// internal/cli/search.go
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// SearchOptions holds flags for the search command.
type SearchOptions struct {
	*RootOptions
	Category   string
	Categories bool
}

// NewSearchCommand creates the search command.
func NewSearchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SearchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "search [term]",
		Short: "Query the product catalog",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.Category, "category", "c", "all", "category filter")
	cmd.Flags().BoolVar(&opts.Categories, "categories", false, "list available categories instead")

	return cmd
}

func runSearch(cmd *cobra.Command, opts *SearchOptions, args []string) error {
	eng, err := newEngine(opts.RootOptions)
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	if opts.Categories {
		categories, err := eng.gateway.Categories(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), strings.Join(categories, "\n"))
		return nil
	}

	term := ""
	if len(args) > 0 {
		term = args[0]
	}

	products, err := eng.gateway.SearchProducts(ctx, term, opts.Category)
	if err != nil {
		return err
	}

	if len(products) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No products found")
		return nil
	}

	for _, p := range products {
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %-30s  %10.2f  %s  by %s\n",
			p.ID, p.Title, p.Price, p.Category, p.Seller.Username)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d product(s)\n", len(products))

	return nil
}
