package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mx-space/portfolio/internal/database"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the configuration and ping the database",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}
		defer logger.Sync()

		ctx, cancel := context.WithTimeout(cmd.Context(), 20*time.Second)
		defer cancel()

		handle := database.New(cfg.Mongo, logger, nil)
		defer handle.Close(context.Background())
		if err := handle.Ping(ctx); err != nil {
			return fmt.Errorf("database %s at %s: %w", handle.Name(), strings.Join(handle.Hosts(), ","), err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "database %s reachable at %s\n", handle.Name(), strings.Join(handle.Hosts(), ","))
		return nil
	},
}
