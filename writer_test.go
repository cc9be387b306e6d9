package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type chunkDoc struct {
	Chunks []string `yaml:"chunks"`
}

func readChunks(t *testing.T, path string) []string {
	t.Helper()

	buf, err := os.ReadFile(path)
	require.NoError(t, err)

	doc := chunkDoc{}
	require.NoError(t, yaml.Unmarshal(buf, &doc), "output must stay valid YAML")

	return doc.Chunks
}

func Test_Append_PreservesNewlines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.txt.yaml")

	w, err := openChunkWriter(path)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.Append("first line\nsecond line"))
	require.NoError(t, w.Append("single line"))

	chunks := readChunks(t, path)
	assert.Equal(t, []string{"first line\nsecond line", "single line"}, chunks)
}

func Test_Append_NoDeduplication(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.txt.yaml")

	w, err := openChunkWriter(path)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.Append("same text"))
	require.NoError(t, w.Append("same text"))

	chunks := readChunks(t, path)
	assert.Equal(t, []string{"same text", "same text"}, chunks)
}

func Test_Append_KeepsPriorContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.txt.yaml")

	w, err := openChunkWriter(path)
	require.NoError(t, err)
	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.Append("written before reopen"))
	require.NoError(t, w.Close())

	w, err = openChunkWriter(path)
	require.NoError(t, err)
	defer w.Close()
	require.NoError(t, w.Append("written after reopen"))

	chunks := readChunks(t, path)
	assert.Equal(t, []string{"written before reopen", "written after reopen"}, chunks)
}

func Test_WriteHeader_SkippedWhenFileHasContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.txt.yaml")

	w, err := openChunkWriter(path)
	require.NoError(t, err)
	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.Append("first run"))
	require.NoError(t, w.Close())

	w, err = openChunkWriter(path)
	require.NoError(t, err)
	defer w.Close()
	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.Append("second run"))

	buf, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(buf), "chunks:\n"))

	chunks := readChunks(t, path)
	assert.Equal(t, []string{"first run", "second run"}, chunks)
}

func Test_Append_LeadingWhitespace(t *testing.T) {
	var cases = []string{
		"  indented opening\nplain line",
		"\tindented with a tab",
		"\n  blank then indented",
		"   ",
	}

	for i, c := range cases {
		t.Run(fmt.Sprintf("case_%d", i), func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "book.txt.yaml")

			w, err := openChunkWriter(path)
			require.NoError(t, err)
			defer w.Close()

			require.NoError(t, w.WriteHeader())
			require.NoError(t, w.Append(c))
			require.NoError(t, w.Append("plain follow-up"))

			chunks := readChunks(t, path)
			assert.Equal(t, []string{c, "plain follow-up"}, chunks)
		})
	}
}

func Test_Append_BlankInteriorLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.txt.yaml")

	w, err := openChunkWriter(path)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.Append("para one\n\npara two"))

	chunks := readChunks(t, path)
	assert.Equal(t, []string{"para one\n\npara two"}, chunks)
}
