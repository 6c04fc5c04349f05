package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anatolykoptev/go_bio/internal/config"
	"github.com/anatolykoptev/go_bio/internal/extract"
	"github.com/anatolykoptev/go_bio/internal/pool"
	"github.com/anatolykoptev/go_bio/internal/store"
)

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Derive Layer-1 records from stored markdown",
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
		return runParse(cmd.Context(), st, workers)
	},
}

func runParse(ctx context.Context, st *store.Store, workers int) error {
	slugs, err := st.MDSlugs()
	if err != nil {
		return err
	}

	sum, err := pool.Run(ctx, "Parsing biographies", slugs, workers,
		func(ctx context.Context, slug string) error {
			text, err := st.ReadMD(slug)
			if err != nil {
				return err
			}
			return st.WriteL1(slug, extract.Extract(slug, text))
		})
	fmt.Println(sum)
	return err
}
