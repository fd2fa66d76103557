// Copyright 2026 The PromptLab Authors
// SPDX-License-Identifier: MIT

// Package promptfile loads prompt sets from YAML, TOML, or plain text files.
//
// YAML and TOML files hold a prompts list and may carry generation settings:
//
//	model: gpt-4.1-mini
//	temperature: 0.2
//	prompts:
//	  - Say hi
//	  - Summarize the plot of Hamlet in one sentence.
//
// A YAML file may also be a bare list of strings. Text files separate
// prompts with a line containing only "---".
package promptfile

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/davetashner/promptlab/internal/config"
	"github.com/davetashner/promptlab/internal/testable"
)

// File is a parsed prompt file.
type File struct {
	Prompts         []string `yaml:"prompts" toml:"prompts"`
	Model           string   `yaml:"model,omitempty" toml:"model,omitempty"`
	MaxOutputTokens int      `yaml:"max_output_tokens,omitempty" toml:"max_output_tokens,omitempty"`
	Temperature     *float64 `yaml:"temperature,omitempty" toml:"temperature,omitempty"`
}

// Settings returns the file's generation settings as a config layer.
func (f *File) Settings() *config.Config {
	return &config.Config{
		Model:           f.Model,
		MaxOutputTokens: f.MaxOutputTokens,
		Temperature:     f.Temperature,
	}
}

// Separator splits prompts in a text file.
const Separator = "---"

// Load reads and parses the prompt file at path.
func Load(fsys testable.FileSystem, path string) (*File, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading prompt file: %w", err)
	}
	f, err := Parse(filepath.Ext(path), data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return f, nil
}

// Parse decodes data according to the file extension (".yaml", ".yml",
// ".toml"; anything else is plain text).
func Parse(ext string, data []byte) (*File, error) {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		return parseYAML(data)
	case ".toml":
		return parseTOML(data)
	default:
		prompts, err := ParseText(data)
		if err != nil {
			return nil, err
		}
		return &File{Prompts: prompts}, nil
	}
}

func parseYAML(data []byte) (*File, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	if len(node.Content) == 0 {
		return &File{}, nil
	}

	root := node.Content[0]
	if root.Kind == yaml.SequenceNode {
		var prompts []string
		if err := root.Decode(&prompts); err != nil {
			return nil, err
		}
		return &File{Prompts: prompts}, nil
	}

	// Node.Decode cannot reject unknown keys, so mappings go through a
	// strict decoder.
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var f File
	if err := dec.Decode(&f); err != nil {
		return nil, err
	}
	return &f, nil
}

func parseTOML(data []byte) (*File, error) {
	var f File
	md, err := toml.Decode(string(data), &f)
	if err != nil {
		return nil, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown key %q", undecoded[0].String())
	}
	return &f, nil
}

// maxLine bounds a single line of a text prompt file.
const maxLine = 4 * 1024 * 1024

// ParseText splits text on separator lines. Each prompt keeps its inner
// line breaks; surrounding blank lines are trimmed. A line longer than 4 MiB
// is an error.
func ParseText(data []byte) ([]string, error) {
	var prompts []string
	var cur []string
	flush := func() {
		prompts = append(prompts, strings.TrimSpace(strings.Join(cur, "\n")))
		cur = cur[:0]
	}

	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 64*1024), maxLine)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == Separator {
			flush()
			continue
		}
		cur = append(cur, line)
	}
	if err := sc.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, fmt.Errorf("line %d exceeds %d bytes: %w", lineNo+1, maxLine, err)
		}
		return nil, err
	}
	flush()
	return prompts, nil
}
