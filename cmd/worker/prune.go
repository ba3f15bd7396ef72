package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goldenage-community/goldenage-backend/internal/snapshots"
)

var pruneKeep int

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete old pool-hours and restaurant-hours versions",
	Long:  `Keep the newest --keep versions of every append-only table. Menus are never pruned.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if pruneKeep < 1 {
			return snapshots.ErrInvalidKeep
		}
		store, closeStore, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer closeStore()

		p := &snapshots.Pruner{Store: store, Keep: pruneKeep}
		removed, err := p.PruneAll(cmd.Context())
		for table, n := range removed {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: removed %d\n", table, n)
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(pruneCmd)
	pruneCmd.Flags().IntVarP(&pruneKeep, "keep", "k", 20, "number of versions to keep per table")
}
