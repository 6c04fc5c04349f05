package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anatolykoptev/go_bio/internal/config"
	"github.com/anatolykoptev/go_bio/internal/crawl"
	"github.com/anatolykoptev/go_bio/internal/pool"
)

var crawlCmd = &cobra.Command{
	Use:   "crawl",
	Short: "Fetch biography pages and store them as markdown",
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

		c := crawl.New(st)
		links := c.CollectLinks(cmd.Context())

		sum, err := pool.Run(cmd.Context(), "Fetching biographies", links, workers,
			func(ctx context.Context, link string) error {
				return c.ProcessBiography(ctx, link)
			})
		fmt.Println(sum)
		return err
	},
}
