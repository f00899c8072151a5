package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/open-edge-platform/apt-preflight/internal/archive"
	"github.com/open-edge-platform/apt-preflight/internal/config"
)

// createCacheCommand creates the cache management command.
func createCacheCommand() *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the package list cache",
	}

	cacheCmd.AddCommand(createCacheClearCommand())
	cacheCmd.AddCommand(createCachePathCommand())

	return cacheCmd
}

// createCacheClearCommand creates the "cache clear" subcommand.
func createCacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all cached package lists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := config.NewConfigHelpers(cfg).CacheDir()
			if err != nil {
				return fmt.Errorf("resolve cache dir: %w", err)
			}

			cache := &archive.Cache{Dir: dir}
			count, err := cache.Clear()
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d cached package lists from %s\n", count, dir)
			return nil
		},
	}
}

// createCachePathCommand creates the "cache path" subcommand.
func createCachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := config.NewConfigHelpers(cfg).CacheDir()
			if err != nil {
				return fmt.Errorf("resolve cache dir: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}
