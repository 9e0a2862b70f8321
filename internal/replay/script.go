// Package replay runs keystroke scripts through an editor with an
// autoformat session and reports the resulting document.
package replay

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/zjrosen/draftmark/internal/draft"
	"github.com/zjrosen/draftmark/internal/editor"
)

// Script is a seed document plus the input to feed it.
//
//	seed: |
//	  # Notes
//	steps:
//	  - type: "**bold** "
//	  - key: backspace
type Script struct {
	// Seed is markdown for the starting document.
	Seed string `yaml:"seed,omitempty"`
	// SeedFile is a markdown file, relative to the script, used when Seed
	// is empty.
	SeedFile string `yaml:"seed_file,omitempty"`
	// Caret places the caret before the first step; default is the end of
	// the document.
	Caret *Position `yaml:"caret,omitempty"`
	Steps []Step    `yaml:"steps"`
}

// Position is a caret position by block index and rune offset.
type Position struct {
	Block  int `yaml:"block"`
	Offset int `yaml:"offset"`
}

// Step is one scripted input: text to type or a named key command.
type Step struct {
	Type   string `yaml:"type,omitempty"`
	Key    string `yaml:"key,omitempty"`
	Repeat int    `yaml:"repeat,omitempty"`
}

// Load reads and validates a script file. A relative seed_file is resolved
// against the script's directory.
func Load(path string) (Script, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: script path comes from the command line
	if err != nil {
		return Script{}, fmt.Errorf("reading script: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return Script{}, fmt.Errorf("%s: %w", path, err)
	}
	if s.Seed == "" && s.SeedFile != "" {
		seedPath := s.SeedFile
		if !filepath.IsAbs(seedPath) {
			seedPath = filepath.Join(filepath.Dir(path), seedPath)
		}
		seed, err := os.ReadFile(seedPath) //nolint:gosec // G304: seed path is part of the script
		if err != nil {
			return Script{}, fmt.Errorf("reading seed file: %w", err)
		}
		s.Seed = string(seed)
	}
	return s, nil
}

// Parse decodes and validates a script.
func Parse(data []byte) (Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Script{}, fmt.Errorf("parsing script: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Script{}, err
	}
	return s, nil
}

// Validate checks that every step is either typing or a known key.
func (s Script) Validate() error {
	var errs []error
	for i, step := range s.Steps {
		switch {
		case step.Type != "" && step.Key != "":
			errs = append(errs, fmt.Errorf("step %d: type and key are exclusive", i))
		case step.Type == "" && step.Key == "":
			errs = append(errs, fmt.Errorf("step %d: needs type or key", i))
		case step.Key != "":
			if _, err := editor.ParseCommand(step.Key); err != nil {
				errs = append(errs, fmt.Errorf("step %d: %w", i, err))
			}
		}
		if step.Repeat < 0 {
			errs = append(errs, fmt.Errorf("step %d: repeat must not be negative", i))
		}
	}
	if s.Caret != nil && (s.Caret.Block < 0 || s.Caret.Offset < 0) {
		errs = append(errs, errors.New("caret: block and offset must not be negative"))
	}
	return errors.Join(errs...)
}

// Document builds the starting editor state from the seed.
func (s Script) Document(historyLimit int) (draft.EditorState, error) {
	c := draft.FromMarkdown([]byte(s.Seed))
	es := draft.NewEditorState(c).WithHistoryLimit(historyLimit)

	if s.Caret == nil {
		last := c.LastBlock()
		return es.WithSelection(draft.Caret(last.Key(), last.Len())), nil
	}
	if s.Caret.Block >= c.BlockCount() {
		return draft.EditorState{}, fmt.Errorf("caret: block %d out of range (%d blocks)", s.Caret.Block, c.BlockCount())
	}
	b := c.BlockAt(s.Caret.Block)
	if s.Caret.Offset > b.Len() {
		return draft.EditorState{}, fmt.Errorf("caret: offset %d past end of block %d", s.Caret.Offset, s.Caret.Block)
	}
	return es.WithSelection(draft.Caret(b.Key(), s.Caret.Offset)), nil
}
