package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"reggen/internal/cache"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Drop the generation cache",
	Long:  "Remove every cached family fingerprint so the next generate rewrites all artifacts.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		dc, err := cache.Open(cacheAppName)
		if err != nil {
			return fmt.Errorf("failed to open cache: %w", err)
		}
		if err := dc.DropAll(); err != nil {
			return fmt.Errorf("failed to drop cache %s: %w", dc.Dir(), err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", dc.Dir())
		return nil
	},
}
