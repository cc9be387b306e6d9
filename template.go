package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const defaultSystemPrompt = `You are an editor restoring book excerpts damaged by OCR.
Fix corrupted characters, misspelled words and broken grammar in the excerpt
you are given, changing nothing else. Respond with a JSON object of the form
{"sanitizedBookExcerpt": "<the cleaned excerpt>"}. If the excerpt contains no
usable text, respond with an empty JSON object: {}`

// ChatTemplate holds the system prompt sent alongside every chunk.
type ChatTemplate struct {
	System string `yaml:"system"`
}

func loadTemplate(path string) (*ChatTemplate, error) {
	if path == "" {
		return &ChatTemplate{System: defaultSystemPrompt}, nil
	}

	tplFile, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open template file: %w", err)
	}
	defer tplFile.Close()

	tpl := &ChatTemplate{}
	dec := yaml.NewDecoder(tplFile)
	err = dec.Decode(tpl)
	if err != nil {
		return nil, fmt.Errorf("unable to parse template file: %w", err)
	}

	if tpl.System == "" {
		return nil, fmt.Errorf("template %s has no system prompt", path)
	}

	return tpl, nil
}
