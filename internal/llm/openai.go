package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// OpenAI is the chat-completions backend. Message order differs from
// the Anthropic backend: prompt, then document text, then the system
// instruction.
type OpenAI struct {
	client openai.Client
	model  openai.ChatModel
}

// NewOpenAI builds the backend from an API key.
func NewOpenAI(apiKey string) *OpenAI {
	return &OpenAI{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  openai.ChatModelGPT4oMini,
	}
}

func (o *OpenAI) Name() string { return "openai" }

// Complete sends one chat completion request. Rate limiting is signaled
// either by a 429 status or by the rate_limit_exceeded error code.
func (o *OpenAI) Complete(ctx context.Context, text, prompt string, maxTokens int) (string, error) {
	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: o.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
			openai.UserMessage(text),
			openai.SystemMessage(systemInstruction),
		},
		MaxTokens:   openai.Int(int64(maxTokens)),
		Temperature: openai.Float(0),
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) &&
			(apiErr.StatusCode == http.StatusTooManyRequests || apiErr.Code == "rate_limit_exceeded") {
			return "", &RateLimitError{RetryAfter: retryAfterHint(apiErr.Response)}
		}
		return "", fmt.Errorf("openai: %w", err)
	}

	if len(resp.Choices) != 1 {
		return "", fmt.Errorf("openai: expected 1 choice, got %d", len(resp.Choices))
	}
	choice := resp.Choices[0]
	if choice.FinishReason != "stop" {
		return "", fmt.Errorf("openai: completion did not finish (finish_reason=%s)", choice.FinishReason)
	}
	return choice.Message.Content, nil
}
