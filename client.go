// Package creatorinsight provides an embedded client for filtering and
// ranking creator tables with natural-language queries, without running
// the HTTP server.
package creatorinsight

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Prachiti-Gaikwad/creator-insight/internal/domain/creator"
	"github.com/Prachiti-Gaikwad/creator-insight/internal/domain/query"
	"github.com/Prachiti-Gaikwad/creator-insight/internal/ingest"
	datasetrepo "github.com/Prachiti-Gaikwad/creator-insight/internal/repository/dataset"
	historyrepo "github.com/Prachiti-Gaikwad/creator-insight/internal/repository/history"
	openaiParser "github.com/Prachiti-Gaikwad/creator-insight/internal/transport/openai"
	insightuc "github.com/Prachiti-Gaikwad/creator-insight/internal/usecase/insight"
	"github.com/Prachiti-Gaikwad/creator-insight/internal/usecase/interpret"
)

// Client is the creatorinsight SDK entry point. Datasets and the query
// log live in memory for the lifetime of the client.
type Client struct {
	datasets *datasetrepo.Store
	history  *historyrepo.Log
	insight  *insightuc.Service
	defaults query.Weights
}

// New creates an embedded client. Without options every query is
// interpreted by the local heuristic and ranked with the default
// weights (0.5 engagement, 0.3 followers, 0.2 likes+comments).
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		defaults:      Weights{Engagement: 0.5, Followers: 0.3, LikesComments: 0.2},
		parserTimeout: 5 * time.Second,
		logger:        zap.NewNop(),
	}
	for _, o := range opts {
		o(cfg)
	}

	defaults, err := cfg.defaults.toDomain()
	if err != nil {
		return nil, fmt.Errorf("creatorinsight: %w", err)
	}

	interpreter := interpret.New(interpret.NewHeuristicParser(cfg.categories), cfg.logger)
	if cfg.remoteAPIKey != "" {
		remote := openaiParser.NewParser(&openaiParser.Config{
			APIKey:  cfg.remoteAPIKey,
			BaseURL: cfg.remoteBaseURL,
			Model:   cfg.remoteModel,
			Logger:  cfg.logger,
		})
		interpreter = interpreter.WithRemote(remote, cfg.parserTimeout)
	}

	datasets := datasetrepo.New()
	history := historyrepo.New()

	return &Client{
		datasets: datasets,
		history:  history,
		insight:  insightuc.New(datasets, interpreter, history, cfg.maxResults, cfg.logger),
		defaults: defaults,
	}, nil
}

// LoadCSV parses a creator table and stores it under a fresh dataset id.
func (c *Client) LoadCSV(ctx context.Context, name string, r io.Reader) (Dataset, error) {
	records, skipped, err := ingest.ReadRecords(r, 0)
	if err != nil {
		return Dataset{}, fmt.Errorf("load csv: %w", err)
	}

	ds := creator.Dataset{
		ID:          uuid.NewString(),
		Name:        name,
		Records:     records,
		SkippedRows: skipped,
		UploadedAt:  time.Now().UTC(),
	}
	if err := c.datasets.Put(ctx, ds); err != nil {
		return Dataset{}, fmt.Errorf("store dataset: %w", err)
	}
	return datasetFromDomain(ds), nil
}

// Datasets lists loaded datasets in upload order.
func (c *Client) Datasets(ctx context.Context) ([]Dataset, error) {
	list, err := c.datasets.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list datasets: %w", err)
	}
	out := make([]Dataset, len(list))
	for i, ds := range list {
		out[i] = datasetFromDomain(ds)
	}
	return out, nil
}

// DeleteDataset removes a dataset.
func (c *Client) DeleteDataset(ctx context.Context, id string) error {
	if err := c.datasets.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete dataset: %w", err)
	}
	return nil
}

// Query interprets text against a dataset and returns the ranked
// matches, using the client's default weights.
func (c *Client) Query(ctx context.Context, datasetID, text string) (Result, error) {
	return c.query(ctx, datasetID, text, c.defaults)
}

// QueryWeighted is Query with explicit weights.
func (c *Client) QueryWeighted(ctx context.Context, datasetID, text string, w Weights) (Result, error) {
	weights, err := w.toDomain()
	if err != nil {
		return Result{}, fmt.Errorf("creatorinsight: %w", err)
	}
	return c.query(ctx, datasetID, text, weights)
}

func (c *Client) query(ctx context.Context, datasetID, text string, weights query.Weights) (Result, error) {
	res, err := c.insight.Query(ctx, datasetID, text, weights)
	if err != nil {
		return Result{}, fmt.Errorf("query: %w", err)
	}
	return resultFromDomain(res), nil
}

// ExportCSV runs a query and writes the ranked table as CSV, score
// column included.
func (c *Client) ExportCSV(ctx context.Context, out io.Writer, datasetID, text string) error {
	res, err := c.insight.Query(ctx, datasetID, text, c.defaults)
	if err != nil {
		return fmt.Errorf("query: %w", err)
	}
	if err := ingest.WriteScores(out, res.Scores); err != nil {
		return fmt.Errorf("export csv: %w", err)
	}
	return nil
}

// History returns the session query log, oldest first.
func (c *Client) History(ctx context.Context) ([]HistoryEntry, error) {
	entries, err := c.history.Entries(ctx)
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	out := make([]HistoryEntry, len(entries))
	for i, e := range entries {
		out[i] = HistoryEntry{
			Query:  e.QueryText,
			Filter: filterFromSpec(e.Spec),
			Weights: Weights{
				Engagement:    e.Weights.Engagement(),
				Followers:     e.Weights.Followers(),
				LikesComments: e.Weights.LikesComments(),
			},
			Source:    string(e.Source),
			Timestamp: e.Timestamp,
		}
	}
	return out, nil
}
