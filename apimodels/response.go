package apimodels

// Source values reported in chat metadata.
const (
	SourceDataset  = "dataset"
	SourceFallback = "fallback"
)

type ChatResponse struct {
	// The formatted answer
	Message string `json:"message"`

	// Metadata about how the answer was produced
	Metadata ChatMetadata `json:"metadata"`
}

type ChatMetadata struct {
	// Time taken to answer
	Duration string `json:"duration"`

	// Model used
	Model string `json:"model"`

	// Tokens used across LLM calls
	TokensUsed int64 `json:"tokensUsed"`

	// Whether the answer came from a dataset lookup or the fallback completion
	Source string `json:"source"`

	// Dataset searched, when Source is "dataset"
	Dataset string `json:"dataset,omitempty"`

	// Number of matching rows, when Source is "dataset"
	Matches int `json:"matches,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
