package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"
)

const (
	// Retries after the first failed try.
	maxRetries = 5
	baseDelay  = 500 * time.Millisecond

	excerptField = "sanitizedBookExcerpt"
)

var errRetriesExhausted = errors.New("all retries failed")

// Sanitizer sends chunks to one endpoint and retries transient failures with
// exponential backoff.
type Sanitizer struct {
	log        *slog.Logger
	model      llms.Model
	endpoint   string
	system     string
	callOpts   []llms.CallOption
	maxRetries int
	baseDelay  time.Duration
}

func newSanitizer(log *slog.Logger, model llms.Model, cfg *EndpointConfig, tpl *ChatTemplate) *Sanitizer {
	var opts []llms.CallOption
	if cfg.Temperature > 0 {
		opts = append(opts, llms.WithTemperature(cfg.Temperature))
	}
	if cfg.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(cfg.MaxTokens))
	}

	return &Sanitizer{
		log:        log,
		model:      model,
		endpoint:   cfg.Name,
		system:     tpl.System,
		callOpts:   opts,
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
	}
}

// Sanitize submits one chunk. It returns the cleaned text, or ok=false when
// the endpoint signals there is nothing to clean. Transport failures are
// retried up to maxRetries times; a response that cannot be parsed is fatal
// immediately, since garbled output must never reach the output document.
func (s *Sanitizer) Sanitize(ctx context.Context, chunk string) (string, bool, error) {
	var lastErr error

	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if attempt > 0 {
			delay := backoffDelay(s.baseDelay, attempt)
			s.log.Warn("retrying chunk",
				"endpoint", s.endpoint, "attempt", attempt, "backoff", delay)
			if err := sleep(ctx, delay); err != nil {
				return "", false, err
			}
		}

		raw, err := s.ask(ctx, chunk)
		if err != nil {
			lastErr = err
			s.log.Warn("chunk request failed",
				"endpoint", s.endpoint, "attempt", attempt, "error", err)
			continue
		}

		return parseExcerpt(raw)
	}

	return "", false, fmt.Errorf("%w after %d tries: %v", errRetriesExhausted, s.maxRetries+1, lastErr)
}

func (s *Sanitizer) ask(ctx context.Context, chunk string) (string, error) {
	resp, err := s.model.GenerateContent(ctx, []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeSystem, s.system),
		llms.TextParts(schema.ChatMessageTypeHuman, chunk),
	}, s.callOpts...)
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("endpoint returned no choices")
	}

	return resp.Choices[0].Content, nil
}

// parseExcerpt decodes the endpoint's response body. An empty object is the
// "no content" marker; anything else must carry the excerpt field as a string.
func parseExcerpt(raw string) (string, bool, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return "", false, fmt.Errorf("failed to parse endpoint response: %w", err)
	}

	// A JSON null also decodes into a nil map; only an actual empty object
	// is the "no content" marker.
	if fields == nil {
		return "", false, errors.New("endpoint response is not a JSON object")
	}

	if len(fields) == 0 {
		return "", false, nil
	}

	rawExcerpt, ok := fields[excerptField]
	if !ok {
		return "", false, fmt.Errorf("endpoint response is missing the %s field", excerptField)
	}

	var excerpt string
	if err := json.Unmarshal(rawExcerpt, &excerpt); err != nil {
		return "", false, fmt.Errorf("failed to parse the %s field: %w", excerptField, err)
	}

	return excerpt, true, nil
}

// backoffDelay returns the wait before retry attempt k (1-based): base * 2^(k-1).
func backoffDelay(base time.Duration, attempt int) time.Duration {
	return base << (attempt - 1)
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
