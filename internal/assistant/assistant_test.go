package assistant

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/openai/openai-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calebodell/skuscout/api/models"
	"github.com/calebodell/skuscout/apimodels"
	"github.com/calebodell/skuscout/internal/classifier"
	"github.com/calebodell/skuscout/internal/config"
	"github.com/calebodell/skuscout/internal/dataset"
	"github.com/calebodell/skuscout/internal/llm"
	"github.com/calebodell/skuscout/internal/store"
)

const productsCSV = `SKU,Name,Category,Price,Stock
10271,Cordless Drill,Tools,89.99,14
20455,Drill Bit Set,Tools,24.50,3
`

type fakeProvider struct {
	classifyResp *llm.Response
	classifyErr  error
	// blockClassify makes Classify wait for ctx cancellation and return its error.
	blockClassify bool

	completeResp  *llm.Response
	completeErr   error
	completeCalls int
}

func (f *fakeProvider) Classify(ctx context.Context, _, _ string, _ openai.ChatCompletionToolParam, _ ...llm.Option) (*llm.Response, error) {
	if f.blockClassify {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.classifyResp, f.classifyErr
}

func (f *fakeProvider) Complete(context.Context, string, ...llm.Option) (*llm.Response, error) {
	f.completeCalls++
	return f.completeResp, f.completeErr
}

type fakeStore struct {
	objects map[string]string
	fetches []string
}

func (f *fakeStore) Fetch(_ context.Context, key string) (io.ReadCloser, error) {
	f.fetches = append(f.fetches, key)
	body, ok := f.objects[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", store.ErrNotFound, key)
	}
	return io.NopCloser(strings.NewReader(body)), nil
}

func toolCall(arguments string) *llm.Response {
	return &llm.Response{
		FunctionCall: &llm.FunctionResponse{
			Name:      "search_dataset",
			Arguments: arguments,
		},
		Usage: llm.Usage{TotalTokens: 10},
	}
}

func newAssistant(provider *fakeProvider, blobs *fakeStore) *Assistant {
	cfg := config.AssistantConfig{
		ConfidenceThreshold: 0.4,
		ClassifyTimeout:     time.Second,
	}
	return New(classifier.New(provider), provider, blobs, cfg, "gpt-4o-mini")
}

func chat(t *testing.T, a *Assistant, msg string) *apimodels.ChatResponse {
	t.Helper()
	resp, err := a.Chat(context.Background(), models.ChatRequest{UserMessage: msg})
	require.NoError(t, err)
	return resp
}

func TestChatAnswersFromDataset(t *testing.T) {
	provider := &fakeProvider{
		classifyResp: toolCall(`{"dataset":"products","columns":["SKU"],"value":"10271","confidence":0.9}`),
		completeResp: &llm.Response{Content: "should not be used"},
	}
	blobs := &fakeStore{objects: map[string]string{"products.csv": productsCSV}}

	resp := chat(t, newAssistant(provider, blobs), "do you have sku 10271?")

	assert.Contains(t, resp.Message, "Name: Cordless Drill")
	assert.Equal(t, apimodels.SourceDataset, resp.Metadata.Source)
	assert.Equal(t, "products", resp.Metadata.Dataset)
	assert.Equal(t, 1, resp.Metadata.Matches)
	assert.Equal(t, int64(10), resp.Metadata.TokensUsed)
	assert.Zero(t, provider.completeCalls, "fallback must not run on a successful lookup")
}

func TestChatMultipleMatches(t *testing.T) {
	provider := &fakeProvider{
		classifyResp: toolCall(`{"dataset":"products","columns":["Name"],"value":"drill","confidence":0.8}`),
	}
	blobs := &fakeStore{objects: map[string]string{"products.csv": productsCSV}}

	resp := chat(t, newAssistant(provider, blobs), "do you sell drills?")

	assert.Contains(t, resp.Message, "I found 2 matching records")
	assert.Equal(t, 2, resp.Metadata.Matches)
}

func TestChatLowConfidenceFallsBack(t *testing.T) {
	provider := &fakeProvider{
		classifyResp: toolCall(`{"dataset":"products","columns":["SKU"],"value":"1","confidence":0.2}`),
		completeResp: &llm.Response{Content: "Happy to help with anything else!", Usage: llm.Usage{TotalTokens: 5}},
	}
	blobs := &fakeStore{objects: map[string]string{"products.csv": productsCSV}}

	resp := chat(t, newAssistant(provider, blobs), "hmm")

	assert.Equal(t, "Happy to help with anything else!", resp.Message)
	assert.Equal(t, apimodels.SourceFallback, resp.Metadata.Source)
	assert.Equal(t, int64(15), resp.Metadata.TokensUsed)
	assert.Empty(t, blobs.fetches, "low confidence must not fetch")
}

func TestChatConfidenceAtThresholdProceeds(t *testing.T) {
	provider := &fakeProvider{
		classifyResp: toolCall(`{"dataset":"products","columns":["SKU"],"value":"10271","confidence":0.4}`),
	}
	blobs := &fakeStore{objects: map[string]string{"products.csv": productsCSV}}

	resp := chat(t, newAssistant(provider, blobs), "sku 10271")
	assert.Equal(t, apimodels.SourceDataset, resp.Metadata.Source)
}

func TestChatUnknownDatasetNeverFetches(t *testing.T) {
	provider := &fakeProvider{
		classifyResp: toolCall(`{"dataset":"invoices","columns":["Total"],"value":"99","confidence":0.95}`),
		completeResp: &llm.Response{Content: "fallback"},
	}
	blobs := &fakeStore{objects: map[string]string{}}

	resp := chat(t, newAssistant(provider, blobs), "invoice 99")

	assert.Equal(t, apimodels.SourceFallback, resp.Metadata.Source)
	assert.Empty(t, blobs.fetches, "unlisted datasets must be rejected before any fetch")
}

func TestChatNoToolCallFallsBack(t *testing.T) {
	provider := &fakeProvider{
		classifyResp: &llm.Response{Content: "just chatting"},
		completeResp: &llm.Response{Content: "Hello there!"},
	}
	blobs := &fakeStore{}

	resp := chat(t, newAssistant(provider, blobs), "hello")
	assert.Equal(t, "Hello there!", resp.Message)
	assert.Equal(t, apimodels.SourceFallback, resp.Metadata.Source)
}

func TestChatClassifyErrorFallsBack(t *testing.T) {
	provider := &fakeProvider{
		classifyErr:  errors.New("rate limited"),
		completeResp: &llm.Response{Content: "fallback"},
	}
	blobs := &fakeStore{}

	resp := chat(t, newAssistant(provider, blobs), "sku 1")
	assert.Equal(t, apimodels.SourceFallback, resp.Metadata.Source)
}

func TestChatNoMatchesFallsBack(t *testing.T) {
	provider := &fakeProvider{
		classifyResp: toolCall(`{"dataset":"products","columns":["Name"],"value":"lawnmower","confidence":0.9}`),
		completeResp: &llm.Response{Content: "We don't seem to carry that."},
	}
	blobs := &fakeStore{objects: map[string]string{"products.csv": productsCSV}}

	resp := chat(t, newAssistant(provider, blobs), "lawnmower?")
	assert.Equal(t, "We don't seem to carry that.", resp.Message)
	assert.Equal(t, apimodels.SourceFallback, resp.Metadata.Source)
}

func TestChatDatasetNotFound(t *testing.T) {
	provider := &fakeProvider{
		classifyResp: toolCall(`{"dataset":"products","columns":["SKU"],"value":"1","confidence":0.9}`),
	}
	blobs := &fakeStore{objects: map[string]string{}}

	_, err := newAssistant(provider, blobs).Chat(context.Background(), models.ChatRequest{UserMessage: "sku 1"})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestChatMissingColumnInFile(t *testing.T) {
	provider := &fakeProvider{
		classifyResp: toolCall(`{"dataset":"products","columns":["Stock"],"value":"14","confidence":0.9}`),
	}
	blobs := &fakeStore{objects: map[string]string{"products.csv": "SKU,Name\n10271,Cordless Drill\n"}}

	_, err := newAssistant(provider, blobs).Chat(context.Background(), models.ChatRequest{UserMessage: "stock?"})
	assert.ErrorIs(t, err, dataset.ErrColumnNotFound)
}

func TestChatClassifyTimeout(t *testing.T) {
	provider := &fakeProvider{blockClassify: true}
	blobs := &fakeStore{}

	a := New(classifier.New(provider), provider, blobs, config.AssistantConfig{
		ConfidenceThreshold: 0.4,
		ClassifyTimeout:     10 * time.Millisecond,
	}, "gpt-4o-mini")

	_, err := a.Chat(context.Background(), models.ChatRequest{UserMessage: "slow"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestChatFallbackError(t *testing.T) {
	provider := &fakeProvider{
		classifyResp: &llm.Response{Content: "no tool call"},
		completeErr:  errors.New("completion unavailable"),
	}
	blobs := &fakeStore{}

	_, err := newAssistant(provider, blobs).Chat(context.Background(), models.ChatRequest{UserMessage: "hi"})
	assert.Error(t, err)
}

func TestChatModelOverrideReported(t *testing.T) {
	provider := &fakeProvider{
		classifyResp: &llm.Response{Content: "chat"},
		completeResp: &llm.Response{Content: "ok"},
	}
	blobs := &fakeStore{}

	resp, err := newAssistant(provider, blobs).Chat(context.Background(), models.ChatRequest{
		UserMessage: "hi",
		Options:     models.ChatOptions{Model: "gpt-4o"},
	})
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", resp.Metadata.Model)
}
