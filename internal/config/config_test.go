package config

import "testing"

func TestValidate_InvalidPort(t *testing.T) {
	cfg := Config{
		HTTP: HTTPConfig{Port: 0},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_CacheEnabledWithoutAddrs(t *testing.T) {
	cfg := Config{
		HTTP:  HTTPConfig{Port: 8080},
		Cache: CacheConfig{Enabled: true},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for enabled cache without addrs")
	}
}

func TestValidate_CacheDisabledWithoutAddrs(t *testing.T) {
	cfg := Config{
		HTTP: HTTPConfig{Port: 8080},
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_NegativeWeight(t *testing.T) {
	cfg := Config{
		HTTP:    HTTPConfig{Port: 8080},
		Ranking: RankingConfig{WeightEngagement: -0.1},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for negative default weight")
	}
}

func TestValidate_ProviderKeyWithoutModel(t *testing.T) {
	cfg := Config{
		HTTP: HTTPConfig{Port: 8080},
		Parser: ParserConfig{
			Provider: ProviderConfig{APIKey: "test-key"},
		},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for api key without model")
	}

	expected := "parser.provider.model is required when an api key is set"
	if err.Error() != expected {
		t.Errorf("unexpected error message:\ngot:  %q\nwant: %q", err.Error(), expected)
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 10 {
		t.Errorf("expected WriteTimeoutSec=10, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected ShutdownSec=10, got %d", cfg.HTTP.ShutdownSec)
	}
	if cfg.Parser.TimeoutSec != 5 {
		t.Errorf("expected parser TimeoutSec=5, got %d", cfg.Parser.TimeoutSec)
	}
	if cfg.Cache.TTLSec != 3600 {
		t.Errorf("expected cache TTLSec=3600, got %d", cfg.Cache.TTLSec)
	}
	if cfg.Cache.ReadinessTimeout != 10 {
		t.Errorf("expected ReadinessTimeout=10, got %d", cfg.Cache.ReadinessTimeout)
	}
	if cfg.Limits.MaxUploadRows != 100000 {
		t.Errorf("expected MaxUploadRows=100000, got %d", cfg.Limits.MaxUploadRows)
	}
	if cfg.Limits.MaxResults != 100 {
		t.Errorf("expected MaxResults=100, got %d", cfg.Limits.MaxResults)
	}
	if cfg.Ranking.WeightEngagement != 0.5 {
		t.Errorf("expected WeightEngagement=0.5, got %f", cfg.Ranking.WeightEngagement)
	}
	if cfg.Ranking.WeightFollowers != 0.3 {
		t.Errorf("expected WeightFollowers=0.3, got %f", cfg.Ranking.WeightFollowers)
	}
	if cfg.Ranking.WeightLikesComments != 0.2 {
		t.Errorf("expected WeightLikesComments=0.2, got %f", cfg.Ranking.WeightLikesComments)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:    HTTPConfig{ReadTimeoutSec: 30, WriteTimeoutSec: 60, ShutdownSec: 5},
		Parser:  ParserConfig{TimeoutSec: 2},
		Cache:   CacheConfig{TTLSec: 60, ReadinessTimeout: 15},
		Limits:  LimitsConfig{MaxUploadRows: 500, MaxResults: 25},
		Ranking: RankingConfig{WeightEngagement: 1},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 30 {
		t.Errorf("expected ReadTimeoutSec=30, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.Parser.TimeoutSec != 2 {
		t.Errorf("expected parser TimeoutSec=2, got %d", cfg.Parser.TimeoutSec)
	}
	if cfg.Cache.TTLSec != 60 {
		t.Errorf("expected cache TTLSec=60, got %d", cfg.Cache.TTLSec)
	}
	if cfg.Limits.MaxResults != 25 {
		t.Errorf("expected MaxResults=25, got %d", cfg.Limits.MaxResults)
	}
	// A single non-zero weight keeps the user's weight set as-is.
	if cfg.Ranking.WeightEngagement != 1 || cfg.Ranking.WeightFollowers != 0 {
		t.Errorf("expected user weights preserved, got %+v", cfg.Ranking)
	}
}
