package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	poolservice "github.com/goldenage-community/goldenage-backend/internal/pool/service"
	restaurantservice "github.com/goldenage-community/goldenage-backend/internal/restaurant/service"
	"github.com/goldenage-community/goldenage-backend/internal/shape"
	"github.com/goldenage-community/goldenage-backend/internal/snapshots"
	"github.com/goldenage-community/goldenage-backend/internal/xmltree"
)

var (
	seedDir  string
	seedGlob string
)

// seedStats counts what a seed run did.
type seedStats struct {
	Menus           int
	PoolHours       int
	RestaurantHours int
	Skipped         int
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load menus, pool hours and restaurant hours from a directory",
	Long: `Walk --dir for files matching --glob. Menu XML is stored under its date
(replacing any existing menu), pool-hours XML and restaurant-hours JSON are
stored as new versions. Unrecognised files are skipped.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, closeStore, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer closeStore()

		stats, err := seed(cmd.Context(), store, seedDir, seedGlob)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "seeded %d menus, %d pool hours, %d restaurant hours (%d skipped)\n",
			stats.Menus, stats.PoolHours, stats.RestaurantHours, stats.Skipped)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().StringVarP(&seedDir, "dir", "d", ".", "directory to read documents from")
	seedCmd.Flags().StringVarP(&seedGlob, "glob", "g", "**/*.{xml,json}", "doublestar pattern relative to --dir")
}

func seed(ctx context.Context, store snapshots.Store, dir, pattern string) (seedStats, error) {
	var stats seedStats
	if !doublestar.ValidatePattern(pattern) {
		return stats, fmt.Errorf("invalid glob pattern %q", pattern)
	}

	matches, err := doublestar.Glob(os.DirFS(dir), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return stats, fmt.Errorf("failed to match %q in %s: %w", pattern, dir, err)
	}

	menus := restaurantservice.NewMenuService(store)
	hours := restaurantservice.NewHoursService(store)
	pool := poolservice.NewPoolService(store)

	for _, rel := range matches {
		file := filepath.Join(dir, filepath.FromSlash(rel))
		raw, err := os.ReadFile(file)
		if err != nil {
			return stats, fmt.Errorf("failed to read %s: %w", file, err)
		}

		log := slog.With("file", rel)
		if strings.EqualFold(path.Ext(rel), ".json") {
			if _, err := hours.UpdateHours(ctx, raw); err != nil {
				return stats, fmt.Errorf("%s: %w", rel, err)
			}
			stats.RestaurantHours++
			log.Info("seeded restaurant hours")
			continue
		}

		root, err := xmltree.Parse(string(raw))
		if err != nil {
			return stats, fmt.Errorf("%s: %w", rel, err)
		}
		switch root.Name {
		case shape.RootMenu:
			date, _, err := menus.UploadMenu(ctx, root)
			if err != nil {
				return stats, fmt.Errorf("%s: %w", rel, err)
			}
			stats.Menus++
			log.Info("seeded menu", "date", date)
		case shape.RootPoolHours:
			snap, err := pool.ReplaceHours(ctx, root)
			if err != nil {
				return stats, fmt.Errorf("%s: %w", rel, err)
			}
			stats.PoolHours++
			log.Info("seeded pool hours", "id", snap.ID)
		default:
			stats.Skipped++
			log.Warn("skipping document with unknown root", "root", root.Name)
		}
	}
	return stats, nil
}
