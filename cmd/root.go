package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/cinemetrics/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "cinemetrics",
	Short: "Movie metrics from OMDb",
	Long:  "Looks up movies on OMDb, normalizes ratings, votes, runtime and box office into a table, writes it to a CSV data lake and renders it.",
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

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
