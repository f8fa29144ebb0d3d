package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/wapp-insights/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "wapp-insights",
	Short: "Weekly WAPP analytics and hiring scenario engine",
	Long:  "Filters the weekly WAPP table, ranks industries and regions, classifies strategic actions per industry, and projects ARR capacity for hiring scenarios.",
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
