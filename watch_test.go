package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func hasChunks(path string, want ...string) func() bool {
	return func() bool {
		buf, err := os.ReadFile(path)
		if err != nil {
			return false
		}

		doc := chunkDoc{}
		if yaml.Unmarshal(buf, &doc) != nil {
			return false
		}
		if len(doc.Chunks) != len(want) {
			return false
		}
		for i := range want {
			if doc.Chunks[i] != want[i] {
				return false
			}
		}

		return true
	}
}

func Test_Watch_SanitizesNewFiles(t *testing.T) {
	input := t.TempDir()

	d := &fakeDispatcher{}
	w := newTestWorker(t, input, d)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- w.Watch(ctx, 20*time.Millisecond)
	}()
	time.Sleep(100 * time.Millisecond)

	createInput(t, input, "late.txt", "late chunk")

	out := filepath.Join(w.outputDir, "late.txt.yaml")
	require.Eventually(t, hasChunks(out, "LATE CHUNK"), 5*time.Second, 20*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

func Test_Watch_IgnoresUnsupportedFiles(t *testing.T) {
	input := t.TempDir()

	d := &fakeDispatcher{}
	w := newTestWorker(t, input, d)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- w.Watch(ctx, 20*time.Millisecond)
	}()
	time.Sleep(100 * time.Millisecond)

	createInput(t, input, "image.png", "binary")
	createInput(t, input, "book.txt", "real content")

	out := filepath.Join(w.outputDir, "book.txt.yaml")
	require.Eventually(t, hasChunks(out, "REAL CONTENT"), 5*time.Second, 20*time.Millisecond)

	cancel()
	require.NoError(t, <-done)

	assert.Equal(t, []string{"real content"}, d.calls)
	assert.NoFileExists(t, filepath.Join(w.outputDir, "image.png.yaml"))
}
