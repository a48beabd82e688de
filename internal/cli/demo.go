// internal/cli/demo.go
package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/greenloop/market-client/internal/gateway/gatewaytest"
	"github.com/greenloop/market-client/internal/models"
)

// NewDemoCommand creates the demo command: an in-memory gateway with
// seeded products, for trying the other commands without a backend.
func NewDemoCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run a local in-memory gateway",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			srv := gatewaytest.New()
			defer srv.Close()

			seller := models.Seller{ID: "demo-seller", Username: "demoseller"}
			srv.SeedProduct(models.Product{
				Title: "Vintage Desk Lamp", Description: "Brass lamp, rewired",
				Price: 500, Category: "Furniture", Condition: models.ConditionGood,
				Images: []string{"https://example.com/lamp.jpg"}, IsAvailable: true,
				Seller: seller,
			})
			srv.SeedProduct(models.Product{
				Title: "Paperback Bundle", Description: "Twelve assorted novels",
				Price: 150, Category: "Books", Condition: models.ConditionFair,
				Images: []string{"https://example.com/books.jpg"}, IsAvailable: true,
				Seller: seller,
			})

			token := srv.Token("demo-user", "demouser")

			fmt.Fprintf(cmd.OutOrStdout(), "Demo gateway running at %s\n", srv.URL())
			fmt.Fprintf(cmd.OutOrStdout(), "Use: marketctl --api %s --token %s <command>\n", srv.URL(), token)
			fmt.Fprintln(cmd.OutOrStdout(), "Press Ctrl+C to stop")

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			select {
			case <-quit:
			case <-cmd.Context().Done():
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Demo gateway stopped")
			return nil
		},
	}
}
