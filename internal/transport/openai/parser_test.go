package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"go.uber.org/zap"

	"github.com/Prachiti-Gaikwad/creator-insight/internal/domain"
	"github.com/Prachiti-Gaikwad/creator-insight/internal/domain/query"
	"github.com/Prachiti-Gaikwad/creator-insight/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.RegisterParserMetrics()
	os.Exit(m.Run())
}

func completionServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("unexpected auth header: %s", r.Header.Get("Authorization"))
		}

		resp := map[string]any{
			"id":     "cmpl-1",
			"object": "chat.completion",
			"model":  "test-model",
			"choices": []map[string]any{
				{
					"index":         0,
					"finish_reason": "stop",
					"message": map[string]any{
						"role":    "assistant",
						"content": content,
					},
				},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
}

func newTestParser(serverURL string) *Parser {
	return NewParser(&Config{
		APIKey:   "test-key",
		BaseURL:  serverURL,
		Model:    "test-model",
		Provider: "test",
		Logger:   zap.NewNop(),
	})
}

func TestParser_Parse(t *testing.T) {
	server := completionServer(t, `{"category":"fashion","min_followers":10000}`)
	defer server.Close()

	res, err := newTestParser(server.URL).Parse(context.Background(), "fashion creators with >10000 followers")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if res.Source != query.SourceModel {
		t.Errorf("expected model source, got %s", res.Source)
	}
	if res.Spec.Category() != "fashion" {
		t.Errorf("expected category 'fashion', got %q", res.Spec.Category())
	}
	if res.Spec.MinFollowers() == nil || *res.Spec.MinFollowers() != 10000 {
		t.Errorf("expected min_followers=10000, got %v", res.Spec.MinFollowers())
	}
	if res.Spec.MaxFollowers() != nil {
		t.Errorf("unexpected max_followers: %v", *res.Spec.MaxFollowers())
	}
}

func TestParser_ParseWrappedInProse(t *testing.T) {
	server := completionServer(t,
		"Here are the extracted filters:\n```json\n{\"category\":\"tech\",\"min_engagement_rate\":0.05}\n```")
	defer server.Close()

	res, err := newTestParser(server.URL).Parse(context.Background(), "tech creators with high engagement")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if res.Spec.Category() != "tech" {
		t.Errorf("expected category 'tech', got %q", res.Spec.Category())
	}
	if res.Spec.MinEngagementRate() == nil || *res.Spec.MinEngagementRate() != 0.05 {
		t.Errorf("expected min_engagement_rate=0.05, got %v", res.Spec.MinEngagementRate())
	}
}

func TestParser_NoJSONInCompletion(t *testing.T) {
	server := completionServer(t, "I could not determine any filters for that query.")
	defer server.Close()

	_, err := newTestParser(server.URL).Parse(context.Background(), "gibberish")
	if err == nil {
		t.Fatal("expected error for completion without JSON")
	}
	if !errors.Is(err, domain.ErrParserProviderError) {
		t.Errorf("expected ErrParserProviderError, got %v", err)
	}
}

func TestParser_InvalidFilterValues(t *testing.T) {
	server := completionServer(t, `{"category":"tech","min_followers":-5}`)
	defer server.Close()

	_, err := newTestParser(server.URL).Parse(context.Background(), "tech creators")
	if err == nil {
		t.Fatal("expected error for negative bound from model")
	}
	if !errors.Is(err, domain.ErrParserProviderError) {
		t.Errorf("expected ErrParserProviderError, got %v", err)
	}
}

func TestParser_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{
				"message": "rate limit exceeded",
				"type":    "rate_limit_error",
			},
		})
	}))
	defer server.Close()

	_, err := newTestParser(server.URL).Parse(context.Background(), "hello")
	if err == nil {
		t.Fatal("expected error for 429 response")
	}
	if !errors.Is(err, domain.ErrParserProviderError) {
		t.Errorf("expected ErrParserProviderError, got %v", err)
	}
}

func TestSpecFromCompletion_OmittedFields(t *testing.T) {
	spec, err := specFromCompletion(`{"category":"beauty"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if spec.Category() != "beauty" {
		t.Errorf("expected category 'beauty', got %q", spec.Category())
	}
	if spec.MinFollowers() != nil || spec.MaxFollowers() != nil || spec.MinEngagementRate() != nil {
		t.Error("omitted fields must stay unconstrained")
	}
}

func TestSpecFromCompletion_EmptyObject(t *testing.T) {
	spec, err := specFromCompletion(`{}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !spec.IsEmpty() {
		t.Error("expected empty spec from empty object")
	}
}
