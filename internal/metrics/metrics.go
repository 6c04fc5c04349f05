// Package metrics tracks operational counters across the pipeline.
package metrics

import (
	"fmt"
	"strings"
	"sync/atomic"
)

var (
	FetchRequests  atomic.Int64
	FetchErrors    atomic.Int64
	LLMCalls       atomic.Int64
	LLMErrors      atomic.Int64
	LLMRateLimited atomic.Int64
	Uploads        atomic.Int64
	UploadErrors   atomic.Int64
)

// Snapshot returns the current counter values keyed by name.
func Snapshot() map[string]int64 {
	return map[string]int64{
		"fetch_requests":   FetchRequests.Load(),
		"fetch_errors":     FetchErrors.Load(),
		"llm_calls":        LLMCalls.Load(),
		"llm_errors":       LLMErrors.Load(),
		"llm_rate_limited": LLMRateLimited.Load(),
		"uploads":          Uploads.Load(),
		"upload_errors":    UploadErrors.Load(),
	}
}

// Format renders the counters as plain text, one per line.
func Format() string {
	m := Snapshot()
	keys := []string{
		"fetch_requests", "fetch_errors",
		"llm_calls", "llm_errors", "llm_rate_limited",
		"uploads", "upload_errors",
	}
	var sb strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}
