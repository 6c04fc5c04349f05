// go_bio — biography crawling and extraction pipeline.
//
// Stages are exposed as subcommands: crawl fetches biography pages into
// markdown, parse derives Layer-1 records deterministically, enrich
// adds LLM-extracted attributes and relationship typing, merge
// reconciles the two layers, upload pushes everything to the document
// store.
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/anatolykoptev/go_bio/internal/store"
)

var storeDir string

var rootCmd = &cobra.Command{
	Use:           "go_bio",
	Short:         "Crawl, extract and publish mathematician biographies",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&storeDir, "store", "store", "root directory for markdown and layer files")
	rootCmd.AddCommand(crawlCmd, parseCmd, enrichCmd, mergeCmd, uploadCmd, allCmd)
}

func openStore() (*store.Store, error) {
	return store.Open(storeDir)
}

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	if err := rootCmd.Execute(); err != nil {
		slog.Error("command failed", slog.Any("error", err))
		os.Exit(1)
	}
}
