package model

import "time"

// Config is the complete lexcite configuration.
// Hierarchy (highest to lowest priority): CLI flags, LEXCITE_* environment
// variables, ~/.lexcite/config.yaml, built-in defaults.
type Config struct {
	Pipeline    PipelineConfig    `yaml:"pipeline" mapstructure:"pipeline"`
	Verify      VerifyConfig      `yaml:"verify" mapstructure:"verify"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	RateLimit   RateLimitConfig   `yaml:"rate_limit" mapstructure:"rate_limit"`
	HTTP        HTTPConfig        `yaml:"http" mapstructure:"http"`
	LLM         LLMConfig         `yaml:"llm" mapstructure:"llm"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
}

// PipelineConfig tunes the extraction and clustering stages
type PipelineConfig struct {
	// ProximityThreshold is the max character distance between two spans
	// for an unconditional parallel-citation merge.
	ProximityThreshold int `yaml:"proximity_threshold" mapstructure:"proximity_threshold"`

	// ContextWindowSize is how far back the associator scans for a case name.
	ContextWindowSize int `yaml:"context_window_size" mapstructure:"context_window_size"`

	// WideWindowMultiplier expands the context window for the wide-window
	// and truncation-retry strategies.
	WideWindowMultiplier int `yaml:"wide_window_multiplier" mapstructure:"wide_window_multiplier"`

	// YearSearchBound is how far forward the associator scans for a year.
	YearSearchBound int `yaml:"year_search_bound" mapstructure:"year_search_bound"`

	// SyncAsyncSizeThreshold: documents at or under this many bytes run
	// synchronously unless a mode is forced.
	SyncAsyncSizeThreshold int `yaml:"sync_async_size_threshold" mapstructure:"sync_async_size_threshold"`
}

// VerifyConfig tunes the verification resolver
type VerifyConfig struct {
	Enabled                 bool          `yaml:"enabled" mapstructure:"enabled"`
	NameSimilarityThreshold float64       `yaml:"name_similarity_threshold" mapstructure:"name_similarity_threshold"`
	YearTolerance           int           `yaml:"year_tolerance" mapstructure:"year_tolerance"`
	PerSourceTimeout        time.Duration `yaml:"per_source_timeout" mapstructure:"per_source_timeout"`

	// SourcePriorityOrder lists source names highest priority first.
	// Unknown names are ignored; unlisted registered sources go last.
	SourcePriorityOrder []string `yaml:"source_priority_order" mapstructure:"source_priority_order"`

	// MaxWorkers bounds concurrent source lookups within one document.
	MaxWorkers int `yaml:"max_workers" mapstructure:"max_workers"`

	// PrimaryBaseURL overrides the primary source endpoint (used in tests).
	PrimaryBaseURL string `yaml:"primary_base_url" mapstructure:"primary_base_url"`
}

// CacheConfig configures the verification lookup cache
type CacheConfig struct {
	Enabled       bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir           string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL     time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL       time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
	UnverifiedTTL time.Duration `yaml:"unverified_ttl" mapstructure:"unverified_ttl"`
}

// ConcurrencyConfig configures the async worker pool
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// RateLimitConfig configures per-host rate limiting of source calls
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// HTTPConfig configures outbound HTTP for verification sources
type HTTPConfig struct {
	UserAgent  string `yaml:"user_agent" mapstructure:"user_agent"`
	HTTPProxy  string `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy string `yaml:"https_proxy" mapstructure:"https_proxy"`
	NoProxy    string `yaml:"no_proxy" mapstructure:"no_proxy"`
}

// LLMConfig configures the optional narrative summarizer
type LLMConfig struct {
	Provider       string `yaml:"provider" mapstructure:"provider"` // "openai" or "" (disabled)
	Model          string `yaml:"model" mapstructure:"model"`
	APIKey         string `yaml:"-" mapstructure:"-"` // Environment variables only, never the config file
	BaseURL        string `yaml:"base_url" mapstructure:"base_url"`
	Timeout        int    `yaml:"timeout" mapstructure:"timeout"` // seconds
	StrictEvidence bool   `yaml:"strict_evidence" mapstructure:"strict_evidence"`
	MaxTokens      int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// OutputConfig configures report rendering
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" mapstructure:"verbose"`
	IncludeFooter bool `yaml:"include_footer" mapstructure:"include_footer"`
}

// DefaultConfig returns the built-in defaults. The extraction thresholds
// are empirically tuned and expected to vary by corpus; override them in
// configuration rather than editing here.
func DefaultConfig() *Config {
	return &Config{
		Pipeline: PipelineConfig{
			ProximityThreshold:     200,
			ContextWindowSize:      300,
			WideWindowMultiplier:   2,
			YearSearchBound:        120,
			SyncAsyncSizeThreshold: 64 * 1024,
		},
		Verify: VerifyConfig{
			Enabled:                 true,
			NameSimilarityThreshold: 0.6,
			YearTolerance:           2,
			PerSourceTimeout:        10 * time.Second,
			SourcePriorityOrder:     []string{"courtlistener", "caselaw-direct"},
			MaxWorkers:              8,
		},
		Cache: CacheConfig{
			Enabled:       true,
			Dir:           "", // Resolved to ~/.lexcite/cache at load time
			MemoryTTL:     1 * time.Hour,
			DiskTTL:       7 * 24 * time.Hour,
			UnverifiedTTL: 1 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 2,
			BurstSize:         5,
		},
		HTTP: HTTPConfig{
			UserAgent: "Lexcite/0.1 (+https://github.com/ovoronin/lexcite)",
		},
		LLM: LLMConfig{
			Provider:       "", // Disabled by default
			Timeout:        30,
			StrictEvidence: true,
			MaxTokens:      1000,
		},
		Output: OutputConfig{
			IncludeFooter: true,
		},
	}
}
