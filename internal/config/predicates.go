package config

import (
	"fmt"

	"github.com/gobwas/glob"
)

// Allow/block entries may use glob syntax over the foreign qualified
// spelling, with "::" kept opaque so "ns::*" does not leak into nested
// namespaces.
type compiledPattern struct {
	raw string
	g   glob.Glob
}

func compilePatterns(patterns []string) ([]compiledPattern, error) {
	out := make([]compiledPattern, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p, ':')
		if err != nil {
			return nil, fmt.Errorf("compile pattern %q: %w", p, err)
		}
		out = append(out, compiledPattern{raw: p, g: g})
	}
	return out, nil
}

func (cfg *Config) compileMatchers() error {
	allow, err := compilePatterns(cfg.Generate.Allow)
	if err != nil {
		return err
	}
	block, err := compilePatterns(cfg.Generate.Block)
	if err != nil {
		return err
	}
	cfg.allowMatchers = allow
	cfg.blockMatchers = block
	return nil
}

// IsAllowed reports whether the user requested this foreign name at all.
// Pod requests and active utilities are implicitly allowed.
func (c *Config) IsAllowed(foreignName string) bool {
	if c.Generate.All {
		return true
	}
	for _, m := range c.allowMatchers {
		if m.g.Match(foreignName) {
			return true
		}
	}
	for _, p := range c.Generate.Pod {
		if p == foreignName {
			return true
		}
	}
	for _, u := range c.activeUtilities() {
		if u == foreignName {
			return true
		}
	}
	return false
}

// IsBlocked reports whether the user explicitly excluded this foreign name.
func (c *Config) IsBlocked(foreignName string) bool {
	for _, m := range c.blockMatchers {
		if m.g.Match(foreignName) {
			return true
		}
	}
	return false
}

// PodRequests returns the foreign names explicitly demanded by value.
func (c *Config) PodRequests() []string {
	return c.Generate.Pod
}

// MustGenerate lists the names the user explicitly asked for; the run fails
// with a diagnostic if any of them produced nothing.
func (c *Config) MustGenerate() []string {
	out := make([]string, 0, len(c.Generate.Allow)+len(c.Generate.Pod))
	if !c.Generate.All {
		out = append(out, c.Generate.Allow...)
	}
	return append(out, c.Generate.Pod...)
}

// MakeStringName is the name of the generated string-constructor utility for
// this module.
func (c *Config) MakeStringName() string {
	return "crossbind_make_string_" + c.Generate.ModuleName
}

func (c *Config) activeUtilities() []string {
	if c.Generate.ExcludeUtilities {
		return nil
	}
	return []string{c.MakeStringName()}
}
