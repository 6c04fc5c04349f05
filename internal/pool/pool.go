// Package pool runs independent per-entity work items across a bounded
// worker group with a progress bar and a success/failure tally.
//
// Work items share no state. A failing item is counted and itemized but
// never stops its siblings; the one exception is a FatalError, which
// cancels the whole run because continuing would only produce more of
// the same failure.
package pool

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"
)

// FatalError marks an error that must abort the entire run, not just
// the one work item (e.g. sustained quota exhaustion on the sink).
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string { return "fatal: " + e.Err.Error() }
func (e *FatalError) Unwrap() error { return e.Err }

// Failure is one itemized per-entity failure.
type Failure struct {
	ID     string
	Reason string
}

// Summary is the final tally of a run.
type Summary struct {
	Succeeded int
	Failed    int
	Failures  []Failure
}

func (s Summary) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Completed: %d succeeded, %d failed", s.Succeeded, s.Failed)
	for _, f := range s.Failures {
		fmt.Fprintf(&sb, "\n  %s: %s", f.ID, f.Reason)
	}
	return sb.String()
}

// Run executes fn for every item with at most workers running at once.
// The returned error is non-nil only for a fatal abort or external
// cancellation; ordinary per-item failures land in the summary.
func Run(ctx context.Context, desc string, items []string, workers int, fn func(ctx context.Context, item string) error) (Summary, error) {
	if workers < 1 {
		workers = 1
	}
	slog.Info("processing items",
		slog.String("stage", desc),
		slog.Int("count", len(items)),
		slog.Int("workers", workers))

	bar := progressbar.Default(int64(len(items)), desc)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	var mu sync.Mutex
	var sum Summary

	for _, item := range items {
		item := item
		g.Go(func() error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			err := runItem(ctx, item, fn)

			mu.Lock()
			defer mu.Unlock()
			_ = bar.Add(1)

			if err == nil {
				sum.Succeeded++
				return nil
			}
			sum.Failed++
			sum.Failures = append(sum.Failures, Failure{ID: item, Reason: err.Error()})
			slog.Error("item failed", slog.String("id", item), slog.Any("error", err))

			var fatal *FatalError
			if errors.As(err, &fatal) {
				return err // cancels the group
			}
			return nil
		})
	}

	err := g.Wait()
	_ = bar.Finish()

	mu.Lock()
	sort.Slice(sum.Failures, func(i, j int) bool { return sum.Failures[i].ID < sum.Failures[j].ID })
	mu.Unlock()
	return sum, err
}

// runItem guards one work item against panics so an unclassified crash
// is reported as that item's failure instead of taking the process down.
func runItem(ctx context.Context, item string, fn func(context.Context, string) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn(ctx, item)
}
