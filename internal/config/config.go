package config

import "time"

// Config is the static run configuration, decoded from a TOML file produced
// by the directive front-end. The analysis core treats it as read-only.
type Config struct {
	Version      int           `toml:"version"`
	Declarations string        `toml:"declarations"`
	Generate     Generate      `toml:"generate"`
	DB           Database      `toml:"db"`
	Watch        Watch         `toml:"watch"`
	Output       Output        `toml:"output"`
	Obs          Observability `toml:"observability"`

	// Compiled allow/block matchers; populated by Load so the predicates
	// stay cheap in the per-entity ingestion loop.
	allowMatchers []compiledPattern
	blockMatchers []compiledPattern
}

// Generate controls which foreign declarations are analyzed and how.
type Generate struct {
	// Allow lists the foreign names requested for generation; glob
	// patterns are accepted ("ns::*"). Empty plus All=false means nothing
	// beyond pod requests and utilities is generated.
	Allow []string `toml:"allow"`
	// Block explicitly excludes names even when matched by Allow.
	Block []string `toml:"block"`
	// Pod lists exact foreign names the user demands by-value treatment
	// for. A pod request for an ineligible type fails the run.
	Pod []string `toml:"pod"`
	// All generates every declaration the parser produced.
	All bool `toml:"all"`
	// ModuleName is the output-module naming hint.
	ModuleName string `toml:"module_name"`
	// ExcludeUtilities suppresses the default helper entities normally
	// injected into every module.
	ExcludeUtilities bool `toml:"exclude_utilities"`
}

type Database struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

type Watch struct {
	Debounce time.Duration `toml:"debounce"`
	// RescanPerSecond caps how often file churn may trigger re-analysis.
	RescanPerSecond float64 `toml:"rescan_per_second"`
}

type Output struct {
	SARIF    string `toml:"sarif"`
	Markdown string `toml:"markdown"`
}

type Observability struct {
	MetricsAddr   string `toml:"metrics_addr"`
	TraceEndpoint string `toml:"trace_endpoint"`
}
