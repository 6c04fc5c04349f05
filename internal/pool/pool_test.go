package pool

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
)

func items(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("item-%03d", i)
	}
	return out
}

func TestRunAllSucceed(t *testing.T) {
	sum, err := Run(context.Background(), "test", items(20), 4, func(ctx context.Context, item string) error {
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sum.Succeeded != 20 || sum.Failed != 0 {
		t.Errorf("tally = %d/%d, want 20/0", sum.Succeeded, sum.Failed)
	}
}

func TestRunCountsAndItemizesFailures(t *testing.T) {
	sum, err := Run(context.Background(), "test", items(10), 3, func(ctx context.Context, item string) error {
		if strings.HasSuffix(item, "3") || strings.HasSuffix(item, "7") {
			return errors.New("bad record")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("ordinary failures must not abort the run: %v", err)
	}
	if sum.Succeeded != 8 || sum.Failed != 2 {
		t.Errorf("tally = %d/%d, want 8/2", sum.Succeeded, sum.Failed)
	}
	if len(sum.Failures) != 2 {
		t.Fatalf("expected 2 itemized failures, got %d", len(sum.Failures))
	}
	if sum.Failures[0].ID != "item-003" || sum.Failures[0].Reason != "bad record" {
		t.Errorf("unexpected failure entry: %+v", sum.Failures[0])
	}
}

func TestRunRecoversPanics(t *testing.T) {
	sum, err := Run(context.Background(), "test", items(5), 2, func(ctx context.Context, item string) error {
		if item == "item-002" {
			panic("boom")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("panic must not abort the run: %v", err)
	}
	if sum.Failed != 1 || sum.Succeeded != 4 {
		t.Errorf("tally = %d/%d, want 4/1", sum.Succeeded, sum.Failed)
	}
	if !strings.Contains(sum.Failures[0].Reason, "panic") {
		t.Errorf("panic not reflected in reason: %q", sum.Failures[0].Reason)
	}
}

func TestRunFatalAborts(t *testing.T) {
	var calls atomic.Int64
	_, err := Run(context.Background(), "test", items(100), 2, func(ctx context.Context, item string) error {
		calls.Add(1)
		if item == "item-000" {
			return &FatalError{Err: errors.New("quota exhausted")}
		}
		return nil
	})
	if err == nil {
		t.Fatal("expected fatal error to propagate")
	}
	var fatal *FatalError
	if !errors.As(err, &fatal) {
		t.Fatalf("expected FatalError, got %v", err)
	}
	if calls.Load() == 100 {
		t.Error("fatal error did not short-circuit remaining items")
	}
}

func TestRunBoundsConcurrency(t *testing.T) {
	const workers = 3
	var mu sync.Mutex
	active, peak := 0, 0

	_, err := Run(context.Background(), "test", items(30), workers, func(ctx context.Context, item string) error {
		mu.Lock()
		active++
		if active > peak {
			peak = active
		}
		mu.Unlock()

		mu.Lock()
		active--
		mu.Unlock()
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if peak > workers {
		t.Errorf("peak concurrency %d exceeded limit %d", peak, workers)
	}
}
