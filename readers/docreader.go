package readers

import (
	"fmt"
	"path/filepath"
	"slices"

	"code.sajari.com/docconv/v2"
)

var docExts = []string{".pdf", ".docx", ".odt", ".rtf"}

// DocFileReader extracts plain text from scanned document formats via docconv.
type DocFileReader struct{}

func (r *DocFileReader) CanRead(path string) bool {
	return slices.Contains(docExts, filepath.Ext(path))
}

func (r *DocFileReader) ReadText(path string) (string, error) {
	res, err := docconv.ConvertPath(path)
	if err != nil {
		return "", fmt.Errorf("failed to read document: %w", err)
	}

	return res.Body, nil
}
