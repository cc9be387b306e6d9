package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gamma-omg/txt-sanitizer/readers"
)

type configList []string

func (l *configList) String() string {
	return strings.Join(*l, ",")
}

func (l *configList) Set(v string) error {
	*l = append(*l, v)
	return nil
}

func buildWorker(logger *slog.Logger, cfg *EndpointConfig, inputDir string, outputDir string) (*Worker, error) {
	model, err := newEndpointModel(cfg)
	if err != nil {
		return nil, err
	}

	tpl, err := loadTemplate(cfg.Template)
	if err != nil {
		return nil, err
	}

	// Each endpoint writes under its own namespace, so configs sharing one
	// output directory never interleave entries in the same file.
	outDir := filepath.Join(outputDir, cfg.Name)
	err = os.MkdirAll(outDir, 0o755)
	if err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}

	reg, err := loadRegistry(filepath.Join(outDir, stateFileName))
	if err != nil {
		return nil, err
	}

	return &Worker{
		log:       logger,
		endpoint:  cfg.Name,
		inputDir:  inputDir,
		outputDir: outDir,
		sanitizer: newSanitizer(logger, model, cfg, tpl),
		chunker:   &TokenChunker{maxTokens: cfg.ChunkTokens},
		registry:  reg,
		readers: []fileReader{
			&readers.TxtFileReader{},
			&readers.DocFileReader{},
		},
	}, nil
}

func main() {
	var configs configList
	inputDir := flag.String("input", "", "Directory of text files to sanitize")
	outputDir := flag.String("output", "", "Directory where .yaml files are written")
	flag.Var(&configs, "config", "Endpoint configuration file, may be repeated")
	watch := flag.Bool("watch", false, "Keep watching the input directory for new files")
	debounceMs := flag.Int("write-debounce-ms", 500, "Settle time before a watched file is picked up")
	logPath := flag.String("log", "", "Write diagnostics to this file instead of stderr")
	flag.Parse()

	if *inputDir == "" || *outputDir == "" {
		log.Fatal("both -input and -output are required")
	}

	logDst := os.Stderr
	if *logPath != "" {
		logFile, err := os.OpenFile(*logPath, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0o644)
		if err != nil {
			log.Fatalf("failed to open log file: %s", err)
		}
		defer logFile.Close()
		logDst = logFile
	}
	logger := slog.New(slog.NewJSONHandler(logDst, nil))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	// One worker per endpoint; a failure in one never cancels the others.
	var wg sync.WaitGroup
	for _, cfgPath := range configs {
		cfg, err := readEndpointConfig(cfgPath)
		if err != nil {
			logger.Error("failed to load endpoint config", "config", cfgPath, "error", err)
			continue
		}

		worker, err := buildWorker(logger, cfg, *inputDir, *outputDir)
		if err != nil {
			logger.Error("failed to set up endpoint", "endpoint", cfg.Name, "error", err)
			continue
		}

		wg.Add(1)
		go func() {
			defer wg.Done()

			err := worker.Run(ctx)
			if err != nil {
				logger.Error("sanitization failed", "endpoint", worker.endpoint, "error", err)
				return
			}

			if *watch {
				err = worker.Watch(ctx, time.Duration(*debounceMs)*time.Millisecond)
				if err != nil {
					logger.Error("watch failed", "endpoint", worker.endpoint, "error", err)
				}
			}
		}()
	}

	wg.Wait()
}
