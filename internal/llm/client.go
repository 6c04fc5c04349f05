// Package llm wraps the two interchangeable completion backends behind
// one client with bounded retry on rate limits. Callers receive either
// response text or an empty string; no backend error escapes the
// Query boundary.
package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/anatolykoptev/go_bio/internal/metrics"
)

const (
	// systemInstruction is shared by both backends.
	systemInstruction = "You are a data extraction assistant. Extract exactly the data requested in the JSON format specified. Return ONLY valid JSON without any explanations or markdown formatting."

	maxAttempts = 5
	minWait     = 3 * time.Second
)

// Backend is one completion provider. Complete returns the raw response
// text for a single-turn exchange of document text plus prompt.
type Backend interface {
	Name() string
	Complete(ctx context.Context, text, prompt string, maxTokens int) (string, error)
}

// RateLimitError signals that the backend asked us to slow down.
// RetryAfter carries the provider's hint, zero when none was given.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited, retry after %s", e.RetryAfter)
	}
	return "rate limited"
}

// Client retries rate-limited calls with a floor wait and hands back
// fence-stripped text. The zero value is not usable; construct with New.
type Client struct {
	backend     Backend
	maxAttempts int
	minWait     time.Duration
	sleep       func(time.Duration)
}

// New builds a client around the given backend.
func New(backend Backend) *Client {
	return &Client{
		backend:     backend,
		maxAttempts: maxAttempts,
		minWait:     minWait,
		sleep:       func(d time.Duration) { time.Sleep(d) },
	}
}

// Query sends document text and a prompt to the backend. On a rate
// limit it waits at least the configured floor (or the backend's hint
// when larger) and retries up to the attempt ceiling. Any other
// failure, and retry exhaustion, yield an empty string; the caller
// treats empty as "no data available."
func (c *Client) Query(ctx context.Context, text, prompt string, maxTokens int) string {
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		metrics.LLMCalls.Add(1)
		out, err := c.backend.Complete(ctx, text, prompt, maxTokens)
		if err == nil {
			return StripFences(out)
		}
		metrics.LLMErrors.Add(1)

		var rl *RateLimitError
		if !errors.As(err, &rl) {
			slog.Warn("llm query failed",
				slog.String("backend", c.backend.Name()),
				slog.Any("error", err))
			return ""
		}

		if attempt == c.maxAttempts {
			break
		}
		wait := c.minWait
		if rl.RetryAfter > wait {
			wait = rl.RetryAfter
		}
		metrics.LLMRateLimited.Add(1)
		slog.Warn("llm rate limited, backing off",
			slog.String("backend", c.backend.Name()),
			slog.Int("attempt", attempt),
			slog.Duration("wait", wait))
		c.sleep(wait)
	}

	slog.Warn("llm retries exhausted", slog.String("backend", c.backend.Name()))
	return ""
}
