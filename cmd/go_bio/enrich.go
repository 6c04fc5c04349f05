package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anatolykoptev/go_bio/internal/bio"
	"github.com/anatolykoptev/go_bio/internal/config"
	"github.com/anatolykoptev/go_bio/internal/enrich"
	"github.com/anatolykoptev/go_bio/internal/llm"
	"github.com/anatolykoptev/go_bio/internal/metrics"
	"github.com/anatolykoptev/go_bio/internal/pool"
	"github.com/anatolykoptev/go_bio/internal/store"
)

// llmWorkerCap bounds concurrency against the completion backends,
// independent of the per-request retry backoff.
const llmWorkerCap = 4

var forceRun bool

func init() {
	enrichCmd.Flags().BoolVar(&forceRun, "force", false, "re-query entities that already have a typed record")
	allCmd.Flags().BoolVar(&forceRun, "force", false, "re-query entities that already have a typed record")
}

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Add LLM-extracted attributes and relationship typing",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		st, err := openStore()
		if err != nil {
			return err
		}
		return runEnrich(cmd.Context(), cfg, st)
	},
}

func runEnrich(ctx context.Context, cfg *config.Config, st *store.Store) error {
	backend, err := cfg.Backend()
	if err != nil {
		return err
	}
	workers, err := cfg.Workers(llmWorkerCap)
	if err != nil {
		return err
	}
	force := cfg.ForceRun || forceRun

	// only entities that have both a document and a Layer-1 record
	l1Slugs, err := st.L1Slugs()
	if err != nil {
		return err
	}
	var slugs []string
	for _, slug := range l1Slugs {
		if _, err := st.ReadMD(slug); err == nil {
			slugs = append(slugs, slug)
		}
	}

	extractor := enrich.New(llm.New(backend))

	sum, err := pool.Run(ctx, "Enriching biographies", slugs, workers,
		func(ctx context.Context, slug string) error {
			return enrichOne(ctx, st, extractor, slug, force)
		})
	fmt.Println(sum)
	fmt.Print(metrics.Format())
	return err
}

// enrichOne runs the enrichment stage for a single entity. Entities
// whose stored record already has a fully typed connection list are
// skipped unless a re-run is forced.
func enrichOne(ctx context.Context, st *store.Store, extractor *enrich.Extractor, slug string, force bool) error {
	if !st.HasL1(slug) {
		return fmt.Errorf("layer-1 record not found: %s", slug)
	}

	if st.HasL2(slug) && !force {
		var existing bio.EnrichedRecord
		if err := st.ReadL2(slug, &existing); err == nil && existing.FullyTyped() {
			return nil // already enriched
		}
	}

	doc, err := st.ReadMD(slug)
	if err != nil {
		return err
	}
	var l1 bio.Record
	if err := st.ReadL1(slug, &l1); err != nil {
		return err
	}

	return st.WriteL2(slug, extractor.Enrich(ctx, doc, l1))
}
