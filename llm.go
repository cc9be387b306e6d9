package main

import (
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// newEndpointModel builds a client for one OpenAI-compatible backend. The
// api_base lets a config point at local llama.cpp/vLLM servers as well as
// hosted endpoints.
func newEndpointModel(cfg *EndpointConfig) (llms.Model, error) {
	opts := []openai.Option{
		openai.WithModel(cfg.Model),
	}
	if cfg.ApiKey != "" {
		opts = append(opts, openai.WithToken(cfg.ApiKey))
	}
	if cfg.ApiBase != "" {
		opts = append(opts, openai.WithBaseURL(cfg.ApiBase))
	}

	model, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create endpoint client: %w", err)
	}

	return model, nil
}
