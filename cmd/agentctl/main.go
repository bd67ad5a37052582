// Package main implements agentctl, an operator CLI that works directly
// against the configured record store.
package main

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/agentdeck/agentdeck/internal/config"
	"github.com/agentdeck/agentdeck/internal/database"
	"github.com/agentdeck/agentdeck/internal/store"
	"github.com/agentdeck/agentdeck/pkg/logger"
	"github.com/spf13/cobra"
)

var version = "dev"

// backend is what the commands operate on.
type backend struct {
	store       store.Store
	concurrency int
	close       func()
}

// openBackend connects the store named by the environment; replaced in tests.
var openBackend = func(ctx context.Context) (*backend, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	rs, err := database.OpenRecordStore(ctx, cfg.MongoDB)
	if err != nil {
		return nil, err
	}
	return &backend{
		store:       rs,
		concurrency: cfg.Cascade.Concurrency,
		close:       func() { _ = rs.Close(context.Background()) },
	}, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var logLevel string
	root := &cobra.Command{
		Use:   "agentctl",
		Short: "Inspect and maintain agentdeck agents and contents",
		Long: `agentctl reads and deletes agents and contents directly in the record
store configured by MONGODB_URI (or the .env file named by ENV_FILE).`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Init(logLevel)
			logger.Configure(cmd.ErrOrStderr(), true)
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level: debug|info|warn|error")
	root.AddCommand(newAgentsCmd(), newContentsCmd(), newPurgeCmd())
	return root
}

// withBackend opens the store for the duration of fn.
func withBackend(cmd *cobra.Command, fn func(ctx context.Context, b *backend) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	b, err := openBackend(ctx)
	if err != nil {
		return err
	}
	if b.close != nil {
		defer b.close()
	}
	return fn(ctx, b)
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
