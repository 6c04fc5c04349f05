// Package config reads the environment-driven settings: which LLM
// backend is active, the worker-count override, and the force-reprocess
// flag. A local .env file is honored when present.
package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"slices"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/anatolykoptev/go_bio/internal/llm"
)

// ErrNoCredential is returned when neither backend credential is set.
// This is an unrecoverable configuration error: the process must not
// start a run it cannot complete.
var ErrNoCredential = errors.New("no API key found for either OpenAI or Anthropic")

// Config holds the process-level settings.
type Config struct {
	OpenAIKey    string
	AnthropicKey string
	ForceRun     bool
	workerEnv    string
}

// Load reads .env (if present) and the environment.
func Load() *Config {
	_ = godotenv.Load()
	return &Config{
		OpenAIKey:    os.Getenv("OPENAI_API_KEY"),
		AnthropicKey: os.Getenv("ANTHROPIC_API_KEY"),
		ForceRun:     boolEnv(os.Getenv("FORCE_RUN")),
		workerEnv:    os.Getenv("WORKER_COUNT"),
	}
}

func boolEnv(v string) bool {
	return slices.Contains([]string{"1", "true", "yes"}, strings.ToLower(v))
}

// Backend selects the active LLM backend by credential. OpenAI wins
// when both are configured.
func (c *Config) Backend() (llm.Backend, error) {
	switch {
	case c.OpenAIKey != "":
		return llm.NewOpenAI(c.OpenAIKey), nil
	case c.AnthropicKey != "":
		return llm.NewAnthropic(c.AnthropicKey), nil
	default:
		return nil, ErrNoCredential
	}
}

// Workers resolves the worker count: available cores minus one by
// default, overridable via WORKER_COUNT, capped per call site when
// maxWorkers is positive. Always at least one.
func (c *Config) Workers(maxWorkers int) (int, error) {
	count := max(1, runtime.NumCPU()-1)
	if c.workerEnv != "" {
		n, err := strconv.Atoi(c.workerEnv)
		if err != nil || n < 1 {
			return 0, fmt.Errorf("invalid WORKER_COUNT %q", c.workerEnv)
		}
		count = n
	}
	if maxWorkers > 0 && count > maxWorkers {
		count = maxWorkers
	}
	return count, nil
}
