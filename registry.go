package main

import (
	"errors"
	"fmt"
	"hash/crc32"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

const stateFileName = ".sanitized.yaml"

// Registry remembers which input files a worker has fully sanitized, keyed by
// content checksum. Unchanged files are skipped on later runs; a file is
// recorded only after every one of its chunks has been written.
type Registry struct {
	path string
	done map[string]uint32
}

func loadRegistry(path string) (*Registry, error) {
	reg := &Registry{
		path: path,
		done: make(map[string]uint32),
	}

	buf, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return reg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	err = yaml.Unmarshal(buf, &reg.done)
	if err != nil {
		return nil, fmt.Errorf("failed to parse state file: %w", err)
	}

	return reg, nil
}

func (r *Registry) Done(file string, crc uint32) bool {
	c, ok := r.done[file]
	return ok && c == crc
}

func (r *Registry) MarkDone(file string, crc uint32) error {
	r.done[file] = crc

	buf, err := yaml.Marshal(r.done)
	if err != nil {
		return fmt.Errorf("failed to encode state file: %w", err)
	}

	err = os.WriteFile(r.path, buf, 0o644)
	if err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}

	return nil
}

func checksum(text string) uint32 {
	return crc32.Checksum([]byte(text), crc32.IEEETable)
}
