package cmd

import (
	"fmt"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/nijaru/yt-summary/cache"
)

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete expired transcripts from the SQLite cache",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !strings.EqualFold(cfg.CacheBackend, "sqlite") {
			return pkgerrors.Errorf("purge only applies to the sqlite backend, not %q", cfg.CacheBackend)
		}

		store, err := cache.NewSQLiteStore(cfg.DBPath, cache.Options{TTL: cfg.CacheTTL})
		if err != nil {
			return err
		}
		defer store.Close()

		n, err := store.Purge(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %d expired transcripts\n", n)
		return nil
	},
}
