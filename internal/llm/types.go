package llm

import (
	"context"

	"github.com/openai/openai-go"
)

type Provider interface {
	// Classify runs a chat completion with the given function tool attached and
	// returns either the tool call the model made or its plain content.
	Classify(ctx context.Context, systemPrompt, userMessage string, tool openai.ChatCompletionToolParam, opts ...Option) (*Response, error)

	// Complete runs a plain chat completion with no tools.
	Complete(ctx context.Context, userMessage string, opts ...Option) (*Response, error)
}

type Usage struct {
	PromptTokens     int64
	CompletionTokens int64
	TotalTokens      int64
}

type Option func(*Options)

type Options struct {
	Model       string
	MaxTokens   int64
	Temperature float64
}

// FunctionResponse represents the structured response from a function call
type FunctionResponse struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

type Response struct {
	Content      string
	FunctionCall *FunctionResponse
	Usage        Usage
}
