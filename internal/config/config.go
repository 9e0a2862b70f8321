// Package config provides configuration types and defaults for draftmark.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/zjrosen/draftmark/internal/log"
)

// Config holds all configuration options for draftmark.
type Config struct {
	Autoformat AutoformatConfig `mapstructure:"autoformat"`
	Editor     EditorConfig     `mapstructure:"editor"`
	UI         UIConfig         `mapstructure:"ui"`
	Tracing    TracingConfig    `mapstructure:"tracing"`
	Log        LogConfig        `mapstructure:"log"`
}

// RuleConfig is one inline delimiter rule. Rules are tried in order; the
// first rule has the highest priority.
type RuleConfig struct {
	Style   string `mapstructure:"style" yaml:"style"`     // BOLD, ITALIC, CODE or STRIKETHROUGH
	Pattern string `mapstructure:"pattern" yaml:"pattern"` // ECMAScript regex, backreferences allowed
	Group   int    `mapstructure:"group" yaml:"group"`     // capture group holding the inner text
}

// AutoformatConfig controls markdown detection.
type AutoformatConfig struct {
	Enabled bool         `mapstructure:"enabled"`
	Rules   []RuleConfig `mapstructure:"rules"`

	// FenceMarker opens and closes a code block. Default: "```"
	FenceMarker string `mapstructure:"fence_marker"`

	// MatchTimeout bounds a single rule match. Zero disables the limit.
	MatchTimeout time.Duration `mapstructure:"match_timeout"`
}

// EditorConfig holds host editor options.
type EditorConfig struct {
	// HistoryLimit caps the undo stack. Zero means unlimited.
	HistoryLimit int `mapstructure:"history_limit"`
}

// UIConfig holds playground options.
type UIConfig struct {
	ShowPreview   bool   `mapstructure:"show_preview" yaml:"show_preview"`
	ShowHelp      bool   `mapstructure:"show_help" yaml:"show_help"`
	MarkdownStyle string `mapstructure:"markdown_style" yaml:"markdown_style"` // "dark" (default), "light" or "notty"
}

// TracingConfig holds tracing configuration for autoformat dispatch.
type TracingConfig struct {
	// Enabled controls whether tracing is active.
	// Default: false
	Enabled bool `mapstructure:"enabled"`

	// Exporter selects the trace export backend.
	// Options: "none", "file", "stdout", "otlp"
	// Default: "file"
	Exporter string `mapstructure:"exporter"`

	// FilePath is the output file for "file" exporter.
	// Default: ~/.config/draftmark/traces/traces.jsonl
	FilePath string `mapstructure:"file_path"`

	// OTLPEndpoint is the collector endpoint for "otlp" exporter.
	// Default: "localhost:4317"
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`

	// SampleRate controls trace sampling (0.0 to 1.0).
	// Default: 1.0
	SampleRate float64 `mapstructure:"sample_rate"`
}

// LogConfig holds debug log options.
type LogConfig struct {
	Path  string `mapstructure:"path"`
	Level string `mapstructure:"level"` // debug, info, warn, error
}

// DefaultTracesFilePath returns the default path for trace file export.
// Returns ~/.config/draftmark/traces/traces.jsonl or empty string if home dir unavailable.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "draftmark", "traces", "traces.jsonl")
}

// DefaultRules returns the built-in delimiter rules in priority order.
func DefaultRules() []RuleConfig {
	return []RuleConfig{
		{Style: "BOLD", Pattern: `(\*\*|__)(.*?)\1`, Group: 2},
		{Style: "ITALIC", Pattern: `([\*_])(.*?)\1`, Group: 2},
		{Style: "CODE", Pattern: "`([^`]+)`", Group: 1},
		{Style: "STRIKETHROUGH", Pattern: `(~+)([^~\s]+)\1`, Group: 2},
	}
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		Autoformat: AutoformatConfig{
			Enabled:      true,
			Rules:        DefaultRules(),
			FenceMarker:  "```",
			MatchTimeout: 50 * time.Millisecond,
		},
		UI: UIConfig{
			ShowPreview:   false,
			ShowHelp:      true,
			MarkdownStyle: "dark",
		},
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     "file",
			FilePath:     "", // Derived from config dir at runtime
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
		},
		Log: LogConfig{
			Path:  "debug.log",
			Level: "debug",
		},
	}
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := ValidateAutoformat(c.Autoformat); err != nil {
		return err
	}
	if err := ValidateEditor(c.Editor); err != nil {
		return err
	}
	if err := ValidateUI(c.UI); err != nil {
		return err
	}
	if err := ValidateLog(c.Log); err != nil {
		return err
	}
	return ValidateTracing(c.Tracing)
}

// ValidateRules checks delimiter rules for errors. Patterns are compiled
// later by the autoformat package; only shape is checked here.
func ValidateRules(rules []RuleConfig) error {
	for i, r := range rules {
		switch strings.ToUpper(r.Style) {
		case "BOLD", "ITALIC", "CODE", "STRIKETHROUGH":
		default:
			return fmt.Errorf("autoformat.rules[%d].style must be BOLD, ITALIC, CODE or STRIKETHROUGH, got %q", i, r.Style)
		}
		if r.Pattern == "" {
			return fmt.Errorf("autoformat.rules[%d].pattern is required", i)
		}
		if r.Group < 0 {
			return fmt.Errorf("autoformat.rules[%d].group must be >= 0, got %d", i, r.Group)
		}
	}
	return nil
}

// ValidateAutoformat checks autoformat configuration for errors.
func ValidateAutoformat(a AutoformatConfig) error {
	if err := ValidateRules(a.Rules); err != nil {
		return err
	}
	if a.FenceMarker == "" {
		return fmt.Errorf("autoformat.fence_marker must not be empty")
	}
	if strings.ContainsAny(a.FenceMarker, " \t\n") {
		return fmt.Errorf("autoformat.fence_marker must not contain whitespace, got %q", a.FenceMarker)
	}
	if a.MatchTimeout < 0 {
		return fmt.Errorf("autoformat.match_timeout must not be negative, got %s", a.MatchTimeout)
	}
	return nil
}

// ValidateEditor checks editor configuration for errors.
func ValidateEditor(e EditorConfig) error {
	if e.HistoryLimit < 0 {
		return fmt.Errorf("editor.history_limit must be >= 0, got %d", e.HistoryLimit)
	}
	return nil
}

// ValidateUI checks playground configuration for errors.
func ValidateUI(ui UIConfig) error {
	switch ui.MarkdownStyle {
	case "", "dark", "light", "notty":
		return nil
	}
	return fmt.Errorf("ui.markdown_style must be \"dark\", \"light\" or \"notty\", got %q", ui.MarkdownStyle)
}

// ValidateLog checks log configuration for errors.
func ValidateLog(l LogConfig) error {
	switch strings.ToLower(l.Level) {
	case "", "debug", "info", "warn", "error":
		return nil
	}
	return fmt.Errorf("log.level must be debug, info, warn or error, got %q", l.Level)
}

// ValidateTracing checks tracing configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateTracing(tracing TracingConfig) error {
	if tracing.SampleRate < 0.0 || tracing.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tracing.SampleRate)
	}

	if tracing.Exporter != "" {
		switch tracing.Exporter {
		case "none", "file", "stdout", "otlp":
		default:
			return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", tracing.Exporter)
		}
	}

	// Only validate path requirements when tracing is enabled
	if tracing.Enabled {
		if tracing.Exporter == "file" && tracing.FilePath == "" {
			return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
		}
		if tracing.Exporter == "otlp" && tracing.OTLPEndpoint == "" {
			return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
		}
	}

	return nil
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# draftmark configuration

# Markdown auto-formatting
autoformat:
  enabled: true
  # Opening and closing marker for code blocks
  fence_marker: "` + "```" + `"
  # Upper bound for a single rule match (0 disables the limit)
  match_timeout: 50ms
  # Inline rules, highest priority first.
  # pattern: ECMAScript regex (backreferences allowed)
  # group:   capture group holding the text that keeps the style
  rules:
    - style: BOLD
      pattern: '(\*\*|__)(.*?)\1'
      group: 2
    - style: ITALIC
      pattern: '([\*_])(.*?)\1'
      group: 2
    - style: CODE
      pattern: '` + "`([^`]+)`" + `'
      group: 1
    - style: STRIKETHROUGH
      pattern: '(~+)([^~\s]+)\1'
      group: 2

# Host editor
editor:
  history_limit: 0   # Max undo entries (0 = unlimited)

# Playground
ui:
  show_preview: false    # Render exported markdown with glamour beside the editor
  show_help: true        # Show key help below the editor
  markdown_style: dark   # Preview style: "dark" (default), "light" or "notty"

# Debug log (enabled with --debug or DRAFTMARK_DEBUG=1)
log:
  path: debug.log
  level: debug

# Tracing of autoformat dispatch
# tracing:
#   enabled: false                 # Enable/disable tracing (default: false)
#   exporter: file                 # Export backend: none, file, stdout, otlp (default: file)
#   file_path: ~/.config/draftmark/traces/traces.jsonl
#   otlp_endpoint: localhost:4317  # OTLP collector endpoint (for otlp exporter)
#   sample_rate: 1.0               # Trace sampling rate 0.0-1.0 (default: 1.0)
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
