package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const defaultChunkTokens = 500

// EndpointConfig describes one OpenAI-compatible backend. Each --config file
// decodes into one of these and drives an independent worker.
type EndpointConfig struct {
	Name        string  `yaml:"name"`
	ApiBase     string  `yaml:"api_base"`
	ApiKey      string  `yaml:"api_key"`
	Model       string  `yaml:"model"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
	ChunkTokens int     `yaml:"chunk_tokens"`
	Template    string  `yaml:"template"`
}

func readEndpointConfig(cfgPath string) (*EndpointConfig, error) {
	cfgFile, err := os.Open(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("unable to open config file: %w", err)
	}
	defer cfgFile.Close()

	cfg := &EndpointConfig{}
	dec := yaml.NewDecoder(cfgFile)
	err = dec.Decode(cfg)
	if err != nil {
		return nil, fmt.Errorf("unable to parse config file: %w", err)
	}

	if cfg.Model == "" {
		return nil, fmt.Errorf("config %s is missing the model field", cfgPath)
	}

	if cfg.Name == "" {
		base := filepath.Base(cfgPath)
		cfg.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}

	if cfg.ChunkTokens <= 0 {
		cfg.ChunkTokens = defaultChunkTokens
	}

	return cfg, nil
}
