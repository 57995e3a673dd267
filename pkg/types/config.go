// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make
// network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests and
	// checked against robots.txt policies.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// SearchConfig holds settings for the source clients.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// SemanticScholarAPIKey is an optional API key for higher rate limits.
	// Without it the client runs unauthenticated with a warning.
	SemanticScholarAPIKey string `json:"semantic_scholar_api_key,omitempty" yaml:"semantic_scholar_api_key,omitempty"`
}

// AIConfig holds settings for components that call a Generative AI API.
type AIConfig struct {
	// Model is the AI model identifier (e.g. "gemini-flash-lite-latest").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the AI API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxAttempts is the number of attempts for failed AI calls (default 3).
	MaxAttempts int `json:"max_attempts" yaml:"max_attempts"`
}

// EnrichConfig holds settings for the metadata enricher.
type EnrichConfig struct {
	HTTPConfig `yaml:",inline"`
	AIConfig   `yaml:",inline"`

	// ScrapeDelay is the politeness pause applied before each generic page
	// scrape (default 1s).
	ScrapeDelay time.Duration `json:"scrape_delay" yaml:"scrape_delay"`
}

// StorageConfig holds settings for digest persistence.
type StorageConfig struct {
	// OutputPath is where the selected-paper digest is written.
	OutputPath string `json:"output_path" yaml:"output_path"`

	// LibraryDir is the directory holding the saved-digest database.
	LibraryDir string `json:"library_dir" yaml:"library_dir"`
}

// Config is the root configuration for the research assistant.
type Config struct {
	Search  SearchConfig  `json:"search" yaml:"search"`
	Enrich  EnrichConfig  `json:"enrich" yaml:"enrich"`
	Storage StorageConfig `json:"storage" yaml:"storage"`
}

// DefaultConfig returns the configuration used when no file or flags
// override it.
func DefaultConfig() Config {
	return Config{
		Search: SearchConfig{
			HTTPConfig: HTTPConfig{
				Timeout:   15 * time.Second,
				UserAgent: "research-assistant/0.1",
			},
		},
		Enrich: EnrichConfig{
			HTTPConfig: HTTPConfig{
				Timeout:   15 * time.Second,
				UserAgent: "research-assistant/0.1",
			},
			AIConfig: AIConfig{
				Model:       "gemini-flash-lite-latest",
				MaxAttempts: 3,
			},
			ScrapeDelay: time.Second,
		},
		Storage: StorageConfig{
			OutputPath: "research_digest.json",
			LibraryDir: "library",
		},
	}
}
