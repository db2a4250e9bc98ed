package models

type ChatRequest struct {
	// UserMessage is the free-text question to answer
	UserMessage string `json:"userMessage"`

	// Optional parameters to control completion behavior
	Options ChatOptions `json:"options,omitempty"`
}

type ChatOptions struct {
	// Model specifies which LLM model to use (e.g. "gpt-4o")
	Model string `json:"model,omitempty"`

	// MaxTokens limits the LLM response length
	MaxTokens int64 `json:"maxTokens,omitempty"`

	// Temperature controls randomness (0.0-1.0)
	Temperature float64 `json:"temperature,omitempty"`
}
