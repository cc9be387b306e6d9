package readers

import (
	"fmt"
	"os"
	"path/filepath"
)

// TxtFileReader reads plain text files as-is.
type TxtFileReader struct{}

func (r *TxtFileReader) CanRead(path string) bool {
	return filepath.Ext(path) == ".txt"
}

func (r *TxtFileReader) ReadText(path string) (string, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read text file: %w", err)
	}

	return string(buf), nil
}
