package llm

import (
	"context"
	"errors"
	"testing"
	"time"
)

// fakeBackend replays a scripted sequence of responses.
type fakeBackend struct {
	responses []fakeResponse
	calls     int
}

type fakeResponse struct {
	text string
	err  error
}

func (f *fakeBackend) Name() string { return "fake" }

func (f *fakeBackend) Complete(ctx context.Context, text, prompt string, maxTokens int) (string, error) {
	if f.calls >= len(f.responses) {
		return "", errors.New("no scripted response left")
	}
	r := f.responses[f.calls]
	f.calls++
	return r.text, r.err
}

func newTestClient(b Backend) (*Client, *[]time.Duration) {
	sleeps := &[]time.Duration{}
	c := New(b)
	c.sleep = func(d time.Duration) { *sleeps = append(*sleeps, d) }
	return c, sleeps
}

func TestQueryRateLimitThenSuccess(t *testing.T) {
	backend := &fakeBackend{responses: []fakeResponse{
		{err: &RateLimitError{}},
		{err: &RateLimitError{}},
		{text: `{"ok":true}`},
	}}
	c, sleeps := newTestClient(backend)

	got := c.Query(context.Background(), "doc", "prompt", 100)
	if got != `{"ok":true}` {
		t.Errorf("Query() = %q, want success payload", got)
	}
	if backend.calls != 3 {
		t.Errorf("expected 3 backend calls, got %d", backend.calls)
	}
	if len(*sleeps) != 2 {
		t.Fatalf("expected 2 backoff sleeps, got %d", len(*sleeps))
	}
	for i, d := range *sleeps {
		if d < minWait {
			t.Errorf("sleep %d was %s, want >= %s", i, d, minWait)
		}
	}
}

func TestQueryHonorsLargerRetryHint(t *testing.T) {
	hint := 10 * time.Second
	backend := &fakeBackend{responses: []fakeResponse{
		{err: &RateLimitError{RetryAfter: hint}},
		{text: "ok"},
	}}
	c, sleeps := newTestClient(backend)

	if got := c.Query(context.Background(), "doc", "prompt", 100); got != "ok" {
		t.Fatalf("Query() = %q, want %q", got, "ok")
	}
	if len(*sleeps) != 1 || (*sleeps)[0] != hint {
		t.Errorf("expected single sleep of %s, got %v", hint, *sleeps)
	}
}

func TestQueryIgnoresSmallerRetryHint(t *testing.T) {
	backend := &fakeBackend{responses: []fakeResponse{
		{err: &RateLimitError{RetryAfter: time.Second}},
		{text: "ok"},
	}}
	c, sleeps := newTestClient(backend)

	c.Query(context.Background(), "doc", "prompt", 100)
	if len(*sleeps) != 1 || (*sleeps)[0] != minWait {
		t.Errorf("expected single sleep of %s, got %v", minWait, *sleeps)
	}
}

func TestQueryExhaustsRetries(t *testing.T) {
	var responses []fakeResponse
	for range maxAttempts {
		responses = append(responses, fakeResponse{err: &RateLimitError{}})
	}
	backend := &fakeBackend{responses: responses}
	c, sleeps := newTestClient(backend)

	if got := c.Query(context.Background(), "doc", "prompt", 100); got != "" {
		t.Errorf("Query() = %q, want empty after exhaustion", got)
	}
	if backend.calls != maxAttempts {
		t.Errorf("expected %d attempts, got %d", maxAttempts, backend.calls)
	}
	if len(*sleeps) != maxAttempts-1 {
		t.Errorf("expected %d sleeps, got %d", maxAttempts-1, len(*sleeps))
	}
}

func TestQueryNonRetryableFailure(t *testing.T) {
	backend := &fakeBackend{responses: []fakeResponse{
		{err: errors.New("boom")},
		{text: "never reached"},
	}}
	c, sleeps := newTestClient(backend)

	if got := c.Query(context.Background(), "doc", "prompt", 100); got != "" {
		t.Errorf("Query() = %q, want empty on hard failure", got)
	}
	if backend.calls != 1 {
		t.Errorf("expected 1 call (no retry), got %d", backend.calls)
	}
	if len(*sleeps) != 0 {
		t.Errorf("expected no sleeps, got %v", *sleeps)
	}
}

func TestQueryStripsFences(t *testing.T) {
	backend := &fakeBackend{responses: []fakeResponse{
		{text: "```json\n{\"a\":1}\n```"},
	}}
	c, _ := newTestClient(backend)

	if got := c.Query(context.Background(), "doc", "prompt", 100); got != `{"a":1}` {
		t.Errorf("Query() = %q, want fences stripped", got)
	}
}
