package main

import (
	"github.com/spf13/cobra"

	"github.com/anatolykoptev/go_bio/internal/config"
)

var allCmd = &cobra.Command{
	Use:   "all",
	Short: "Run parse, enrich and merge in sequence",
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

		if err := runParse(cmd.Context(), st, workers); err != nil {
			return err
		}
		if err := runEnrich(cmd.Context(), cfg, st); err != nil {
			return err
		}
		return runMerge(cmd.Context(), st, workers)
	},
}
