package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/apecglobal/logofield/internal/config"
	"github.com/apecglobal/logofield/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the entity, layout and artifact cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.config()
			if err != nil {
				return err
			}
			backend, err := cfg.OpenCache(ctx)
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			defer backend.Close()

			clearer, ok := backend.(cache.Clearer)
			if !ok {
				return fmt.Errorf("the %s cache cannot be cleared", cfg.Cache.Backend)
			}
			n, err := clearer.Clear(ctx)
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			if n == 0 {
				printInfo("Cache is empty")
				return nil
			}
			printSuccess("Cleared %d cached entries", n)
			printDetail("Location: %s", cacheLocation(cfg))
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where the cache lives",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cacheLocation(cfg))
			return nil
		},
	}
}

// cacheLocation describes the configured cache: a directory for the file
// backend, the URL and key prefix for redis.
func cacheLocation(cfg *config.Config) string {
	switch cfg.Cache.Backend {
	case config.BackendRedis:
		return cfg.Cache.RedisURL + " (prefix " + cfg.Cache.Prefix + ")"
	case config.BackendFile, "":
		return cfg.Cache.Dir
	default:
		return cfg.Cache.Backend
	}
}
