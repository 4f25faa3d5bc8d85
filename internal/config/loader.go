package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	if err := validateVersion(&cfg); err != nil {
		return nil, err
	}
	if err := validateGenerate(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.compileMatchers(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}
	if strings.TrimSpace(cfg.Declarations) == "" {
		cfg.Declarations = "declarations.json"
	}
	if strings.TrimSpace(cfg.Generate.ModuleName) == "" {
		cfg.Generate.ModuleName = "ffi"
	}
	if strings.TrimSpace(cfg.DB.Path) == "" {
		cfg.DB.Path = "runs.db"
	}
	if cfg.Watch.Debounce <= 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}
	if cfg.Watch.RescanPerSecond <= 0 {
		cfg.Watch.RescanPerSecond = 1
	}
}

func validateVersion(cfg *Config) error {
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported config version %d", cfg.Version)
	}
	return nil
}

func validateGenerate(cfg *Config) error {
	if cfg.Generate.All && len(cfg.Generate.Allow) > 0 {
		return fmt.Errorf("use either generate.allow or generate.all, not both")
	}
	for _, p := range cfg.Generate.Pod {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("generate.pod entries must not be empty")
		}
	}
	return nil
}
