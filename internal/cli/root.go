// internal/cli/root.go

// Package cli implements the marketctl command tree. Each command
// drives the client engine against a live gateway; the demo command
// runs the bundled in-memory gateway for local use.
package cli

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/greenloop/market-client/internal/config"
	"github.com/greenloop/market-client/internal/gateway"
	"github.com/greenloop/market-client/internal/session"
	"github.com/greenloop/market-client/internal/viewmodel"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	BaseURL string
	Token   string
}

// NewRootCommand creates the root command for marketctl.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "marketctl",
		Short: "marketctl - GreenLoop marketplace client",
		Long:  "Command-line client for the GreenLoop secondhand-goods marketplace API.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.Verbose {
				logrus.SetLevel(logrus.DebugLevel)
			}
		},
		SilenceUsage: true,
	}

	// Global flags; unset values fall back to the environment config.
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.BaseURL, "api", "", "gateway base URL (default from MARKET_API_URL)")
	cmd.PersistentFlags().StringVar(&opts.Token, "token", "", "bearer token (default from MARKET_AUTH_TOKEN)")

	cmd.AddCommand(NewSearchCommand(opts))
	cmd.AddCommand(NewProductCommand(opts))
	cmd.AddCommand(NewCartCommand(opts))
	cmd.AddCommand(NewListingsCommand(opts))
	cmd.AddCommand(NewOrdersCommand(opts))
	cmd.AddCommand(NewCheckoutCommand(opts))
	cmd.AddCommand(NewWhoamiCommand(opts))
	cmd.AddCommand(NewDemoCommand(opts))

	return cmd
}

// engine bundles the configured client stack shared by the commands.
type engine struct {
	cfg      *config.Config
	session  *session.Session
	gateway  *gateway.Client
	locks    *viewmodel.LockTable
	cart     *viewmodel.CartStore
	listings *viewmodel.ListingManager
	orders   *viewmodel.OrderHistory
}

func newEngine(opts *RootOptions) (*engine, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if opts.BaseURL != "" {
		cfg.API.BaseURL = opts.BaseURL
	}
	if opts.Token != "" {
		cfg.API.AuthToken = opts.Token
	}

	sess := session.New(cfg.API.AuthToken)
	if err := sess.Valid(); err != nil {
		return nil, err
	}

	gw := gateway.NewClient(cfg.API.BaseURL, sess,
		gateway.WithTimeout(cfg.API.RequestTimeout),
		gateway.WithRateLimit(cfg.API.RatePerSecond, cfg.API.RateBurst),
	)

	locks := viewmodel.NewLockTable()

	return &engine{
		cfg:      cfg,
		session:  sess,
		gateway:  gw,
		locks:    locks,
		cart:     viewmodel.NewCartStore(gw, locks, nil),
		listings: viewmodel.NewListingManager(gw, locks, nil),
		orders:   viewmodel.NewOrderHistory(gw),
	}, nil
}
