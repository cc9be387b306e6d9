package main

import (
	"fmt"

	"github.com/tmc/langchaingo/textsplitter"
)

const tokenEncoding = "cl100k_base"

// TokenChunker splits a document into segments of at most maxTokens tokens
// each. Segments carry no overlap, so joining them in order reproduces the
// source text.
type TokenChunker struct {
	maxTokens int
}

func (c *TokenChunker) Chunkify(text string) ([]string, error) {
	if len(text) == 0 {
		return nil, nil
	}

	splitter := textsplitter.NewTokenSplitter(
		textsplitter.WithEncodingName(tokenEncoding),
		textsplitter.WithChunkSize(c.maxTokens),
		textsplitter.WithChunkOverlap(0),
	)

	chunks, err := splitter.SplitText(text)
	if err != nil {
		return nil, fmt.Errorf("failed to split text: %w", err)
	}

	return chunks, nil
}
