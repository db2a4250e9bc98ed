// Package assistant runs the chat pipeline: classify the question, fetch and
// search the classified dataset, format the matches. Anything the pipeline
// can't answer from a dataset goes to a plain completion instead.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/calebodell/skuscout/api/models"
	"github.com/calebodell/skuscout/apimodels"
	"github.com/calebodell/skuscout/internal/catalog"
	"github.com/calebodell/skuscout/internal/classifier"
	"github.com/calebodell/skuscout/internal/config"
	"github.com/calebodell/skuscout/internal/dataset"
	"github.com/calebodell/skuscout/internal/llm"
	"github.com/calebodell/skuscout/internal/respond"
	"github.com/calebodell/skuscout/internal/store"
)

type Assistant struct {
	classifier *classifier.Classifier
	provider   llm.Provider
	store      store.BlobStore
	cfg        config.AssistantConfig
	model      string
}

func New(cls *classifier.Classifier, provider llm.Provider, blobs store.BlobStore, cfg config.AssistantConfig, model string) *Assistant {
	return &Assistant{
		classifier: cls,
		provider:   provider,
		store:      blobs,
		cfg:        cfg,
		model:      model,
	}
}

// Chat answers one user message. Errors are internal failures the server
// should surface as 500s; everything the fallback can absorb never becomes an
// error.
func (a *Assistant) Chat(ctx context.Context, req models.ChatRequest) (*apimodels.ChatResponse, error) {
	slog.Info("starting chat", "userMessage", req.UserMessage)
	start := time.Now()
	opts := requestOptions(req.Options)

	// The classification call races its own deadline inside the
	// request-scoped one.
	cctx, cancel := context.WithTimeout(ctx, a.cfg.ClassifyTimeout)
	cls, usage, err := a.classifier.Classify(cctx, req.UserMessage, opts...)
	cancel()
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
			return nil, fmt.Errorf("classification timed out: %w", err)
		}
		slog.Warn("classification failed, using fallback", "error", err)
		return a.fallback(ctx, req, start, usage)
	}

	if cls.Dataset == "" || cls.Confidence < a.cfg.ConfidenceThreshold {
		slog.Info("classification below threshold, using fallback",
			"dataset", cls.Dataset, "confidence", cls.Confidence)
		return a.fallback(ctx, req, start, usage)
	}

	ds, ok := catalog.Lookup(cls.Dataset)
	if !ok {
		// The classifier already validated against the registry; keep the
		// invariant that nothing unlisted ever reaches the store.
		slog.Warn("classified dataset missing from registry", "dataset", cls.Dataset)
		return a.fallback(ctx, req, start, usage)
	}

	body, err := a.store.Fetch(ctx, ds.ObjectKey)
	if err != nil {
		return nil, fmt.Errorf("fetch dataset %q: %w", ds.Name, err)
	}
	defer body.Close()

	result, err := dataset.Search(body, cls.Columns, cls.Value)
	if err != nil {
		return nil, fmt.Errorf("search dataset %q: %w", ds.Name, err)
	}

	if len(result.Rows) == 0 {
		slog.Info("no rows matched, using fallback", "dataset", ds.Name, "value", cls.Value)
		return a.fallback(ctx, req, start, usage)
	}

	slog.Info("answering from dataset", "dataset", ds.Name, "matches", len(result.Rows))
	return &apimodels.ChatResponse{
		Message: respond.Format(ds, result),
		Metadata: apimodels.ChatMetadata{
			Duration:   time.Since(start).String(),
			Model:      a.modelFor(req.Options),
			TokensUsed: usage.TotalTokens,
			Source:     apimodels.SourceDataset,
			Dataset:    ds.Name,
			Matches:    len(result.Rows),
		},
	}, nil
}

// fallback routes the raw user message to a plain completion and returns its
// text verbatim.
func (a *Assistant) fallback(ctx context.Context, req models.ChatRequest, start time.Time, used llm.Usage) (*apimodels.ChatResponse, error) {
	resp, err := a.provider.Complete(ctx, req.UserMessage, requestOptions(req.Options)...)
	if err != nil {
		return nil, fmt.Errorf("fallback completion: %w", err)
	}

	return &apimodels.ChatResponse{
		Message: resp.Content,
		Metadata: apimodels.ChatMetadata{
			Duration:   time.Since(start).String(),
			Model:      a.modelFor(req.Options),
			TokensUsed: used.TotalTokens + resp.Usage.TotalTokens,
			Source:     apimodels.SourceFallback,
		},
	}, nil
}

func (a *Assistant) modelFor(opts models.ChatOptions) string {
	if opts.Model != "" {
		return opts.Model
	}
	return a.model
}

func requestOptions(opts models.ChatOptions) []llm.Option {
	return []llm.Option{func(o *llm.Options) {
		if opts.Model != "" {
			o.Model = opts.Model
		}
		if opts.MaxTokens != 0 {
			o.MaxTokens = opts.MaxTokens
		}
		if opts.Temperature != 0 {
			o.Temperature = opts.Temperature
		}
	}}
}
