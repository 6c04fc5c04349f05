package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anatolykoptev/go_bio/internal/bio"
	"github.com/anatolykoptev/go_bio/internal/config"
	"github.com/anatolykoptev/go_bio/internal/merge"
	"github.com/anatolykoptev/go_bio/internal/pool"
	"github.com/anatolykoptev/go_bio/internal/store"
)

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Reconcile Layer-1 records into the Layer-2 store",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		st, err := openStore()
		if err != nil {
			return err
		}
		workers, err := cfg.Workers(0)
		if err != nil {
			return err
		}
		return runMerge(cmd.Context(), st, workers)
	},
}

func runMerge(ctx context.Context, st *store.Store, workers int) error {
	slugs, err := st.L1Slugs()
	if err != nil {
		return err
	}

	sum, err := pool.Run(ctx, "Merging layers", slugs, workers,
		func(ctx context.Context, slug string) error {
			var l1 bio.Record
			if err := st.ReadL1(slug, &l1); err != nil {
				return err
			}

			var l2 *bio.EnrichedRecord
			if st.HasL2(slug) {
				var existing bio.EnrichedRecord
				if err := st.ReadL2(slug, &existing); err != nil {
					return err
				}
				l2 = &existing
			}

			return st.WriteL2(slug, merge.Merge(l1, l2))
		})
	fmt.Println(sum)
	return err
}
