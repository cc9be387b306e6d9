package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
)

type dispatcher interface {
	Sanitize(ctx context.Context, chunk string) (string, bool, error)
}

type chunker interface {
	Chunkify(text string) ([]string, error)
}

type fileReader interface {
	CanRead(path string) bool
	ReadText(path string) (string, error)
}

// Worker drives one endpoint over the whole input set: enumerate files, chunk
// each one, dispatch every chunk in order and append the results. A fatal
// dispatch error aborts the remaining file set for this endpoint only.
type Worker struct {
	log       *slog.Logger
	endpoint  string
	inputDir  string
	outputDir string
	sanitizer dispatcher
	chunker   chunker
	registry  *Registry
	readers   []fileReader
}

func (w *Worker) Run(ctx context.Context) error {
	files, err := w.collectFiles()
	if err != nil {
		return err
	}

	for _, name := range files {
		err = w.processFile(ctx, name)
		if err != nil {
			return fmt.Errorf("failed to sanitize %s: %w", name, err)
		}
	}

	return nil
}

// collectFiles returns readable input files in lexicographic filename order.
func (w *Worker) collectFiles() ([]string, error) {
	entries, err := os.ReadDir(w.inputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input dir: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || w.findReader(e.Name()) == nil {
			continue
		}

		files = append(files, e.Name())
	}

	sort.Strings(files)
	return files, nil
}

func (w *Worker) findReader(name string) fileReader {
	for _, r := range w.readers {
		if r.CanRead(name) {
			return r
		}
	}

	return nil
}

func (w *Worker) processFile(ctx context.Context, name string) error {
	reader := w.findReader(name)
	if reader == nil {
		return fmt.Errorf("no reader for file %s", name)
	}

	text, err := reader.ReadText(filepath.Join(w.inputDir, name))
	if err != nil {
		return err
	}

	crc := checksum(text)
	if w.registry.Done(name, crc) {
		w.log.Info("skipping already sanitized file", "endpoint", w.endpoint, "file", name)
		return nil
	}

	chunks, err := w.chunker.Chunkify(text)
	if err != nil {
		return fmt.Errorf("failed to chunk file: %w", err)
	}

	out, err := openChunkWriter(filepath.Join(w.outputDir, name+".yaml"))
	if err != nil {
		return err
	}
	defer out.Close()

	err = out.WriteHeader()
	if err != nil {
		return err
	}

	w.log.Info("sanitizing file", "endpoint", w.endpoint, "file", name, "chunks", len(chunks))

	for _, chunk := range chunks {
		cleaned, ok, err := w.sanitizer.Sanitize(ctx, chunk)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}

		err = out.Append(cleaned)
		if err != nil {
			return err
		}
	}

	return w.registry.MarkDone(name, crc)
}
