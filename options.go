package creatorinsight

import (
	"time"

	"go.uber.org/zap"
)

type clientConfig struct {
	categories    []string
	remoteAPIKey  string
	remoteBaseURL string
	remoteModel   string
	parserTimeout time.Duration
	maxResults    int
	defaults      Weights
	logger        *zap.Logger
}

// Option configures the embedded client.
type Option func(*clientConfig)

// WithCategories overrides the heuristic's category vocabulary.
func WithCategories(categories []string) Option {
	return func(c *clientConfig) { c.categories = categories }
}

// WithRemoteParser enables a remote model (OpenAI-compatible API) as
// the primary query interpreter. Failures fall back to the heuristic.
func WithRemoteParser(apiKey, baseURL, model string) Option {
	return func(c *clientConfig) {
		c.remoteAPIKey = apiKey
		c.remoteBaseURL = baseURL
		c.remoteModel = model
	}
}

// WithParserTimeout bounds each remote parser call.
func WithParserTimeout(d time.Duration) Option {
	return func(c *clientConfig) { c.parserTimeout = d }
}

// WithMaxResults truncates query results to n. Zero means unlimited.
func WithMaxResults(n int) Option {
	return func(c *clientConfig) { c.maxResults = n }
}

// WithDefaultWeights replaces the default scoring weights used by Query
// and ExportCSV.
func WithDefaultWeights(w Weights) Option {
	return func(c *clientConfig) { c.defaults = w }
}

// WithLogger attaches a logger; the default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(c *clientConfig) { c.logger = logger }
}
