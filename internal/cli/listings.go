// internal/cli/listings.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/greenloop/market-client/internal/models"
	"github.com/greenloop/market-client/internal/viewmodel"
)

// NewListingsCommand creates the listings command group.
func NewListingsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "listings",
		Short: "Manage your product listings",
	}

	cmd.AddCommand(
		newListingsListCommand(rootOpts),
		newListingsCreateCommand(rootOpts),
		newListingsDeleteCommand(rootOpts),
	)

	return cmd
}

func newListingsListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := newEngine(rootOpts)
			if err != nil {
				return err
			}

			if err := eng.listings.Refresh(cmd.Context()); err != nil {
				return err
			}

			listings := eng.listings.Listings()
			for _, p := range listings {
				status := "available"
				if !p.IsAvailable {
					status = "sold"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %-30s  %10.2f  %s  %d views\n",
					p.ID, p.Title, p.Price, status, p.Views)
			}

			stats := eng.listings.Stats()
			fmt.Fprintf(cmd.OutOrStdout(), "%d listing(s): %d available, %d sold\n",
				stats.Total, stats.Available, stats.Sold)
			return nil
		},
	}
}

func newListingsCreateCommand(rootOpts *RootOptions) *cobra.Command {
	draft := viewmodel.ListingDraft{Condition: models.ConditionGood}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a listing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := newEngine(rootOpts)
			if err != nil {
				return err
			}

			created, err := eng.listings.CreateListing(cmd.Context(), draft)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created listing %s (%s)\n", created.ID, created.Title)
			return nil
		},
	}

	cmd.Flags().StringVar(&draft.Title, "title", "", "product title")
	cmd.Flags().StringVar(&draft.Description, "description", "", "product description")
	cmd.Flags().Float64Var(&draft.Price, "price", 0, "price")
	cmd.Flags().StringVar(&draft.Category, "category", "", "category")
	cmd.Flags().StringVar((*string)(&draft.Condition), "condition", string(models.ConditionGood), "condition (Excellent|Good|Fair|Poor)")
	cmd.Flags().StringSliceVar(&draft.Images, "image", nil, "image URL (repeatable)")
	cmd.Flags().StringVar(&draft.Tags, "tags", "", "comma-separated tags")

	return cmd
}

func newListingsDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	confirmed := false

	cmd := &cobra.Command{
		Use:   "delete <product-id>",
		Short: "Delete a listing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirmed {
				return fmt.Errorf("deleting a listing requires --yes")
			}

			eng, err := newEngine(rootOpts)
			if err != nil {
				return err
			}

			if err := eng.listings.DeleteListing(cmd.Context(), args[0]); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Listing deleted")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&confirmed, "yes", "y", false, "confirm deletion")
	return cmd
}
