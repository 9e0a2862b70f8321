package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func loadConfig(t *testing.T, path string) Config {
	t.Helper()
	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())
	var cfg Config
	require.NoError(t, v.Unmarshal(&cfg))
	return cfg
}

func TestSaveUI_CreatesNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	require.NoError(t, SaveUI(path, UIConfig{ShowPreview: true, MarkdownStyle: "light"}))

	cfg := loadConfig(t, path)
	require.True(t, cfg.UI.ShowPreview)
	require.Equal(t, "light", cfg.UI.MarkdownStyle)
}

func TestSaveUI_PreservesOtherSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, WriteDefaultConfig(path))

	require.NoError(t, SaveUI(path, UIConfig{ShowPreview: true, ShowHelp: false, MarkdownStyle: "dark"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "# Markdown auto-formatting")

	cfg := loadConfig(t, path)
	require.True(t, cfg.UI.ShowPreview)
	require.False(t, cfg.UI.ShowHelp)
	require.Equal(t, DefaultRules(), cfg.Autoformat.Rules)
	require.Equal(t, "```", cfg.Autoformat.FenceMarker)
}

func TestSaveRules_ReplacesOnlyRules(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, WriteDefaultConfig(path))

	rules := []RuleConfig{{Style: "CODE", Pattern: "`([^`]+)`", Group: 1}}
	require.NoError(t, SaveRules(path, rules))

	cfg := loadConfig(t, path)
	require.Equal(t, rules, cfg.Autoformat.Rules)
	require.True(t, cfg.Autoformat.Enabled)
	require.Equal(t, "```", cfg.Autoformat.FenceMarker)
}

func TestSaveRules_NoExistingAutoformatSection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("editor:\n  history_limit: 5\n"), 0o600))

	require.NoError(t, SaveRules(path, DefaultRules()))

	cfg := loadConfig(t, path)
	require.Equal(t, DefaultRules(), cfg.Autoformat.Rules)
	require.Equal(t, 5, cfg.Editor.HistoryLimit)
}

func TestSaveUI_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ui: [unclosed"), 0o600))

	require.ErrorContains(t, SaveUI(path, UIConfig{}), "parsing config")
}

func TestSaveUI_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, SaveUI(path, UIConfig{}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}
