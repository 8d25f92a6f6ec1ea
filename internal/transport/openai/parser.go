package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/Prachiti-Gaikwad/creator-insight/internal/domain"
	"github.com/Prachiti-Gaikwad/creator-insight/internal/domain/query"
	"github.com/Prachiti-Gaikwad/creator-insight/internal/metrics"
)

// systemPrompt instructs the model to emit a flat JSON filter object.
const systemPrompt = `Extract structured creator filters from the user's query.
Respond with a single JSON object and nothing else, using exactly these fields
(omit a field when the query does not constrain it):
{"category": string, "min_followers": integer, "max_followers": integer, "min_engagement_rate": number}
Engagement rates are fractions: "5%" means 0.05.
Example query: "Show top fashion creators with >10000 followers"
Example output: {"category":"fashion","min_followers":10000}`

// jsonBlockPattern finds the first {...} block in a completion, in case
// the model wraps the object in prose or a code fence.
var jsonBlockPattern = regexp.MustCompile(`(?s)\{.*?\}`)

// Parser extracts filter specs from query text via an OpenAI-compatible
// chat-completions API (e.g. Together, Nebius).
type Parser struct {
	client   *openai.Client
	model    string
	provider string
	logger   *zap.Logger
}

// Config holds the remote parser settings.
type Config struct {
	APIKey   string
	BaseURL  string
	Model    string
	Provider string
	Logger   *zap.Logger
}

// NewParser creates a remote query parser.
func NewParser(cfg *Config) *Parser {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	provider := cfg.Provider
	if provider == "" {
		provider = "openai"
	}

	return &Parser{
		client:   openai.NewClientWithConfig(clientCfg),
		model:    cfg.Model,
		provider: provider,
		logger:   cfg.Logger,
	}
}

// Parse implements interpret.Parser. All failure modes wrap
// domain.ErrParserProviderError so the caller falls back to the
// heuristic.
func (p *Parser) Parse(ctx context.Context, text string) (domain.ParseResult, error) {
	req := openai.ChatCompletionRequest{
		Model:       p.model,
		Temperature: 0,
		MaxTokens:   200,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
	}

	start := time.Now()

	resp, err := p.client.CreateChatCompletion(ctx, req)

	duration := time.Since(start)

	if err != nil {
		metrics.ParseRequestsTotal.WithLabelValues(p.provider, p.model, "error").Inc()
		return domain.ParseResult{}, parseAPIError(err)
	}

	if len(resp.Choices) == 0 {
		metrics.ParseRequestsTotal.WithLabelValues(p.provider, p.model, "error").Inc()
		return domain.ParseResult{}, fmt.Errorf("empty completion response: %w", domain.ErrParserProviderError)
	}

	spec, err := specFromCompletion(resp.Choices[0].Message.Content)
	if err != nil {
		metrics.ParseRequestsTotal.WithLabelValues(p.provider, p.model, "error").Inc()
		return domain.ParseResult{}, err
	}

	metrics.ParseRequestsTotal.WithLabelValues(p.provider, p.model, "success").Inc()
	metrics.ParseRequestDuration.WithLabelValues(p.provider, p.model).Observe(duration.Seconds())

	return domain.ParseResult{Spec: spec, Source: query.SourceModel}, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (p *Parser) HealthCheck(ctx context.Context) error {
	if _, err := p.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// filterPayload mirrors the JSON object the model is asked to produce.
type filterPayload struct {
	Category          string   `json:"category"`
	MinFollowers      *int64   `json:"min_followers"`
	MaxFollowers      *int64   `json:"max_followers"`
	MinEngagementRate *float64 `json:"min_engagement_rate"`
}

// specFromCompletion extracts the first JSON block from the completion
// text and converts it into a validated Spec.
func specFromCompletion(content string) (query.Spec, error) {
	block := jsonBlockPattern.FindString(content)
	if block == "" {
		return query.Spec{}, fmt.Errorf("completion contains no JSON object: %w", domain.ErrParserProviderError)
	}

	var payload filterPayload
	if err := json.Unmarshal([]byte(block), &payload); err != nil {
		return query.Spec{}, fmt.Errorf("decode filter payload: %v: %w", err, domain.ErrParserProviderError)
	}

	spec, err := query.NewSpec(
		payload.Category, payload.MinFollowers, payload.MaxFollowers, payload.MinEngagementRate,
	)
	if err != nil {
		return query.Spec{}, fmt.Errorf("model produced invalid filter: %v: %w", err, domain.ErrParserProviderError)
	}
	return spec, nil
}

// parseAPIError extracts a human-readable error from the API response.
// All errors are wrapped with domain.ErrParserProviderError for a clean
// fallback decision upstream.
func parseAPIError(err error) error {
	wrap := domain.ErrParserProviderError

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Errorf("query parser API error %d: %s: %w",
			reqErr.HTTPStatusCode, string(reqErr.Body), wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("query parser API error %d: %s: %w",
			apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	// Keep the original chain so timeouts stay detectable via errors.Is.
	return fmt.Errorf("query parser request failed: %w: %w", err, wrap)
}
