package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Tenjin25/ARRealignment/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "realign",
	Short: "Arkansas county election results builder",
	Long:  "Reads per-year county election exports, tallies statewide and federal contests by party, classifies each county's competitiveness and writes one consolidated JSON document.",
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
