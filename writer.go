package main

import (
	"fmt"
	"os"
	"strings"
)

// ChunkWriter appends sanitized chunks to a YAML document as block-literal
// list entries. It never rewrites prior content, so a crash loses at most the
// chunk in flight.
type ChunkWriter struct {
	f *os.File
}

func openChunkWriter(path string) (*ChunkWriter, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open output file: %w", err)
	}

	return &ChunkWriter{f: f}, nil
}

// WriteHeader starts the chunk list. It is a no-op when the file already has
// content, so reprocessing a file keeps its output parseable.
func (w *ChunkWriter) WriteHeader() error {
	info, err := w.f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat output file: %w", err)
	}
	if info.Size() > 0 {
		return nil
	}

	if _, err := w.f.WriteString("chunks:\n"); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	return w.f.Sync()
}

// Append emits one list entry, preserving the chunk's internal line breaks.
// The entry is synced to disk before Append returns.
func (w *ChunkWriter) Append(text string) error {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")

	// Content starting with whitespace would skew the parser's indentation
	// detection; an explicit indicator pins block indentation to 4 spaces.
	head := "  - |-\n"
	if startsIndented(lines) {
		head = "  - |2-\n"
	}

	var b strings.Builder
	b.WriteString(head)
	for _, line := range lines {
		if line == "" {
			b.WriteString("\n")
			continue
		}
		b.WriteString("    ")
		b.WriteString(line)
		b.WriteString("\n")
	}

	if _, err := w.f.WriteString(b.String()); err != nil {
		return fmt.Errorf("failed to append chunk: %w", err)
	}

	return w.f.Sync()
}

func startsIndented(lines []string) bool {
	for _, line := range lines {
		if line == "" {
			continue
		}
		return line[0] == ' ' || line[0] == '\t'
	}

	return false
}

func (w *ChunkWriter) Close() error {
	return w.f.Close()
}
