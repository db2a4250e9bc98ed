// Package classifier turns a free-text user message into a structured dataset
// lookup by asking the LLM to call a single search_dataset function tool.
// Anything that is not a well-formed, allow-listed tool call comes back as a
// zero-confidence classification; scraping structured fields out of free text
// is deliberately not attempted.
package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/openai/openai-go"

	"github.com/calebodell/skuscout/internal/catalog"
	"github.com/calebodell/skuscout/internal/llm"
)

const toolName = "search_dataset"

var systemPrompt = fmt.Sprintf(`You are a query router for a product support assistant.
The assistant can search the following CSV datasets:
%s
If the user's question can be answered by searching one of these datasets,
call %s with the dataset name, the columns to search, the value to search for,
and your confidence (0.0-1.0) that this is the right lookup.
The value must be the literal text to match, e.g. a SKU fragment or a name.
If the question is conversational or does not map to any dataset, do not call
the function; reply normally instead.`, catalog.Describe(), toolName)

// Classification is the structured result of routing one user message.
// A zero value means "no usable classification"; the caller decides whether
// that confidence clears its threshold.
type Classification struct {
	Dataset    string
	Columns    []string
	Value      string
	Confidence float64
}

type Classifier struct {
	provider llm.Provider
	tool     openai.ChatCompletionToolParam
}

func New(provider llm.Provider) *Classifier {
	return &Classifier{
		provider: provider,
		tool:     searchTool(),
	}
}

// toolArguments is the schema the model fills in. Columns tolerates the legacy
// scalar "column" shape some models emit: a bare string decodes as a
// one-element slice.
type toolArguments struct {
	Dataset    string      `json:"dataset"`
	Columns    columnsList `json:"columns"`
	Value      string      `json:"value"`
	Confidence float64     `json:"confidence"`
}

type columnsList []string

func (c *columnsList) UnmarshalJSON(data []byte) error {
	var many []string
	if err := json.Unmarshal(data, &many); err == nil {
		*c = many
		return nil
	}
	var one string
	if err := json.Unmarshal(data, &one); err != nil {
		return fmt.Errorf("columns must be a string or an array of strings")
	}
	*c = columnsList{one}
	return nil
}

// Classify routes one user message. The error return covers transport-level
// failures only; a response the model got wrong (no tool call, malformed
// arguments, hallucinated dataset or columns) is a zero-confidence
// Classification, not an error.
func (c *Classifier) Classify(ctx context.Context, userMessage string, opts ...llm.Option) (Classification, llm.Usage, error) {
	resp, err := c.provider.Classify(ctx, systemPrompt, userMessage, c.tool, opts...)
	if err != nil {
		return Classification{}, llm.Usage{}, fmt.Errorf("classification completion: %w", err)
	}

	if resp.FunctionCall == nil {
		slog.Debug("classifier: model replied without a tool call")
		return Classification{}, resp.Usage, nil
	}
	if resp.FunctionCall.Name != toolName {
		slog.Warn("classifier: unexpected tool call", "tool", resp.FunctionCall.Name)
		return Classification{}, resp.Usage, nil
	}

	var args toolArguments
	if err := json.Unmarshal([]byte(resp.FunctionCall.Arguments), &args); err != nil {
		slog.Warn("classifier: malformed tool arguments", "error", err)
		return Classification{}, resp.Usage, nil
	}

	ds, ok := catalog.Lookup(args.Dataset)
	if !ok {
		slog.Warn("classifier: dataset not in registry", "dataset", args.Dataset)
		return Classification{}, resp.Usage, nil
	}

	cols := ds.FilterColumns(args.Columns)
	if len(cols) == 0 {
		slog.Warn("classifier: no valid columns", "dataset", ds.Name, "requested", []string(args.Columns))
		return Classification{}, resp.Usage, nil
	}

	value := strings.TrimSpace(args.Value)
	if value == "" {
		slog.Debug("classifier: empty search value", "dataset", ds.Name)
		return Classification{}, resp.Usage, nil
	}

	return Classification{
		Dataset:    ds.Name,
		Columns:    cols,
		Value:      value,
		Confidence: args.Confidence,
	}, resp.Usage, nil
}

func searchTool() openai.ChatCompletionToolParam {
	return openai.ChatCompletionToolParam{
		Type: openai.F(openai.ChatCompletionToolTypeFunction),
		Function: openai.F(openai.FunctionDefinitionParam{
			Name:        openai.String(toolName),
			Description: openai.String("Search one of the support CSV datasets for rows whose columns contain a value."),
			Parameters: openai.F(openai.FunctionParameters{
				"type": "object",
				"properties": map[string]interface{}{
					"dataset": map[string]interface{}{
						"type": "string",
						"enum": catalog.Names(),
					},
					"columns": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string"},
						"description": "Column names to search within the dataset",
					},
					"value": map[string]interface{}{
						"type":        "string",
						"description": "Literal text to match, case-insensitively, as a substring",
					},
					"confidence": map[string]interface{}{
						"type":        "number",
						"description": "Confidence that this lookup answers the question, 0.0-1.0",
					},
				},
				"required": []string{"dataset", "columns", "value", "confidence"},
			}),
		}),
	}
}
