// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings for components that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout for search operations.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "research-agent/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ProviderConfig holds settings for the provider gateway.
type ProviderConfig struct {
	HTTPConfig `yaml:",inline"`

	// ReadTimeout is the request timeout for single-URL content extraction
	// (default 45s). Reads are slower than searches.
	ReadTimeout time.Duration `json:"read_timeout" yaml:"read_timeout"`

	// OverviewTimeout is the request timeout for the LLM overview call
	// (default 90s).
	OverviewTimeout time.Duration `json:"overview_timeout" yaml:"overview_timeout"`

	// SynthesisTimeout is the request timeout for the LLM synthesis call
	// (default 120s).
	SynthesisTimeout time.Duration `json:"synthesis_timeout" yaml:"synthesis_timeout"`
}

// ResearchConfig holds settings for the workflow executor.
type ResearchConfig struct {
	// MaxSources bounds per-call result counts in the synthesis workflow
	// (default 10).
	MaxSources int `json:"max_sources" yaml:"max_sources"`

	// MaxURLs bounds the exploratory deep-read pass (default 5).
	MaxURLs int `json:"max_urls" yaml:"max_urls"`

	// DocFallbackURLs is the URL count below which the documentation route
	// of the direct workflow issues its fallback search (default 3).
	DocFallbackURLs int `json:"doc_fallback_urls" yaml:"doc_fallback_urls"`

	// FallbackURLs is the URL count below which the other direct routes
	// issue their fallback search (default 5).
	FallbackURLs int `json:"fallback_urls" yaml:"fallback_urls"`

	// OutputDir is the directory report.md and report.json are written to
	// (default "output").
	OutputDir string `json:"output_dir" yaml:"output_dir"`
}

// LedgerConfig holds settings for the run ledger.
type LedgerConfig struct {
	// LedgerDir is the directory holding runs.db (default "ledger").
	LedgerDir string `json:"ledger_dir" yaml:"ledger_dir"`

	// MaxListed is the default maximum number of runs printed by
	// `runs list` (default 20).
	MaxListed int `json:"max_listed" yaml:"max_listed"`
}

// AgentConfig groups all component configurations.
type AgentConfig struct {
	Providers ProviderConfig `json:"providers" yaml:"providers"`
	Research  ResearchConfig `json:"research" yaml:"research"`
	Ledger    LedgerConfig   `json:"ledger" yaml:"ledger"`
}
