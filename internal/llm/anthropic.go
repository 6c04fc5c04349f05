package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const anthropicModel = "claude-3-7-sonnet-20250219"

// Anthropic is the Messages-API backend. The single-turn exchange puts
// document text first, then the prompt, with the extraction system
// instruction alongside.
type Anthropic struct {
	client anthropic.Client
	model  anthropic.Model
}

// NewAnthropic builds the backend from an API key.
func NewAnthropic(apiKey string) *Anthropic {
	return &Anthropic{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  anthropicModel,
	}
}

func (a *Anthropic) Name() string { return "anthropic" }

// Complete sends one message and concatenates the text blocks of the
// reply. A 429 comes back as *RateLimitError carrying the server's
// retry-after hint when present.
func (a *Anthropic) Complete(ctx context.Context, text, prompt string, maxTokens int) (string, error) {
	combined := text + "\n\n" + prompt

	msg, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       a.model,
		MaxTokens:   int64(maxTokens),
		Temperature: anthropic.Float(0),
		System: []anthropic.TextBlockParam{
			{Text: systemInstruction},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(combined)),
		},
	})
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests {
			return "", &RateLimitError{RetryAfter: retryAfterHint(apiErr.Response)}
		}
		return "", fmt.Errorf("anthropic: %w", err)
	}

	if msg.StopReason != "" && msg.StopReason != "end_turn" {
		return "", fmt.Errorf("anthropic: completion did not finish (stop_reason=%s)", msg.StopReason)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", errors.New("anthropic: no text content in response")
	}
	return sb.String(), nil
}

// retryAfterHint parses a retry-after header, seconds form only.
func retryAfterHint(resp *http.Response) time.Duration {
	if resp == nil {
		return 0
	}
	v := resp.Header.Get("retry-after")
	if v == "" {
		return 0
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
