package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/chase-cli/internal/config"
	"github.com/sells-group/chase-cli/internal/fetcher"
	"github.com/sells-group/chase-cli/internal/pipeline"
	"github.com/sells-group/chase-cli/internal/store"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "chase-cli",
	Short: "Lead lifecycle analytics for CRM exports",
	Long:  "Normalizes raw lead exports, derives lifecycle metrics and quality anomalies, and reconciles them against a second tracking source.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func newLoader() *fetcher.Loader {
	timeout := time.Duration(cfg.Fetch.TimeoutSecs) * time.Second
	return fetcher.NewLoader(
		fetcher.NewHTTPFetcher(timeout, cfg.Fetch.RequestsPerSec),
		fetcher.NewFTPFetcher(timeout),
	)
}

func newPipeline() (*pipeline.Pipeline, error) {
	ref, err := config.LoadReference(cfg.Pipeline.ReferencePath)
	if err != nil {
		return nil, err
	}
	return pipeline.New(ref, cfg.Pipeline.Workers), nil
}

func initStore(ctx context.Context) (store.Store, error) {
	return store.Open(ctx, cfg.Store)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
