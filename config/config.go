// Package config loads the application configuration from YAML with
// sensible defaults when no file is present.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const defaultOverlap = 200

// ChunkerConfig configures how documents are split into chunks. Overlap is
// a pointer so an explicit zero in the file disables overlap rather than
// falling back to the default.
type ChunkerConfig struct {
	Size    int  `yaml:"size"`
	Overlap *int `yaml:"overlap"`
}

// OverlapRunes returns the configured overlap.
func (c ChunkerConfig) OverlapRunes() int {
	if c.Overlap == nil {
		return defaultOverlap
	}
	return *c.Overlap
}

// ModelConfig selects the hosted models.
type ModelConfig struct {
	Chat  string `yaml:"chat"`
	Embed string `yaml:"embed"`
}

// RetrievalConfig tunes similarity search.
type RetrievalConfig struct {
	TopK     int     `yaml:"top_k"`
	MinScore float64 `yaml:"min_score"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Addr        string          `yaml:"addr"`
	DatabaseDSN string          `yaml:"database_dsn"`
	MaxUploadMB int64           `yaml:"max_upload_mb"`
	Chunker     ChunkerConfig   `yaml:"chunker"`
	Models      ModelConfig     `yaml:"models"`
	Retrieval   RetrievalConfig `yaml:"retrieval"`
}

// Load reads a config from the specified path. If the file does not exist,
// returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := defaultConfig()
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.MaxUploadMB <= 0 {
		cfg.MaxUploadMB = 32
	}
	if cfg.Chunker.Size <= 0 {
		cfg.Chunker.Size = 1000
	}
	if cfg.Chunker.Overlap == nil {
		overlap := defaultOverlap
		cfg.Chunker.Overlap = &overlap
	} else if *cfg.Chunker.Overlap < 0 {
		*cfg.Chunker.Overlap = 0
	}
	if cfg.Models.Chat == "" {
		cfg.Models.Chat = "gpt-4o-mini"
	}
	if cfg.Models.Embed == "" {
		cfg.Models.Embed = "text-embedding-3-small"
	}
	if cfg.Retrieval.TopK <= 0 {
		cfg.Retrieval.TopK = 4
	}
}
