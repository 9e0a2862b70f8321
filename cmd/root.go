package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/draftmark/internal/config"
	"github.com/zjrosen/draftmark/internal/draft"
	"github.com/zjrosen/draftmark/internal/log"
	"github.com/zjrosen/draftmark/internal/replay"
	"github.com/zjrosen/draftmark/internal/tracing"
	"github.com/zjrosen/draftmark/internal/ui/playground"
)

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE
	// any Bubble Tea program starts. This prevents the terminal's OSC 11
	// response from racing with Bubble Tea's input loop and appearing as
	// garbage text in the editor.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

const localConfigPath = ".draftmark/config.yaml"

var (
	version   = "dev"
	cfgFile   string
	seedFile  string
	debugFlag bool
	cfg       config.Config
	cfgErr    error
)

var rootCmd = &cobra.Command{
	Use:   "draftmark",
	Short: "Markdown shortcuts that format as you type",
	Long: `draftmark turns markdown typed into a rich text editor into formatting:
**bold**, _italic_, ` + "`code`" + ` and ~strike~ become styled text when followed by a
space or enter, and fenced blocks become code blocks. Backspace right after a
transform puts the markdown back.

Run without a subcommand to open the interactive playground.`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: validateConfig,
	RunE:              runPlayground,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: .draftmark/config.yaml, then ~/.config/draftmark/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "d", false,
		"write a debug log (also enabled by DRAFTMARK_DEBUG)")
	rootCmd.Flags().StringVar(&seedFile, "seed", "",
		"markdown file to open in the playground")
}

func initConfig() {
	cfg, cfgErr = loadConfig(viper.GetViper(), cfgFile)
}

// loadConfig reads configuration into v. Lookup order:
//  1. explicit path (--config)
//  2. .draftmark/config.yaml (current directory)
//  3. ~/.config/draftmark/config.yaml (user config)
//
// A missing file is not an error; defaults apply. Environment variables
// prefixed DRAFTMARK_ override file values (DRAFTMARK_EDITOR_HISTORY_LIMIT).
func loadConfig(v *viper.Viper, path string) (config.Config, error) {
	setDefaults(v)

	v.SetEnvPrefix("DRAFTMARK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	switch {
	case path != "":
		if !fileExists(path) {
			return config.Defaults(), fmt.Errorf("reading config: %s does not exist", path)
		}
		v.SetConfigFile(path)
	case fileExists(localConfigPath):
		v.SetConfigFile(localConfigPath)
	default:
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "draftmark"))
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config.Defaults(), fmt.Errorf("reading config: %w", err)
		}
	}

	var c config.Config
	if err := v.Unmarshal(&c); err != nil {
		return config.Defaults(), fmt.Errorf("decoding config: %w", err)
	}
	return c, nil
}

func setDefaults(v *viper.Viper) {
	defaults := config.Defaults()
	v.SetDefault("autoformat.enabled", defaults.Autoformat.Enabled)
	v.SetDefault("autoformat.rules", defaults.Autoformat.Rules)
	v.SetDefault("autoformat.fence_marker", defaults.Autoformat.FenceMarker)
	v.SetDefault("autoformat.match_timeout", defaults.Autoformat.MatchTimeout)
	v.SetDefault("editor.history_limit", defaults.Editor.HistoryLimit)
	v.SetDefault("ui.show_preview", defaults.UI.ShowPreview)
	v.SetDefault("ui.show_help", defaults.UI.ShowHelp)
	v.SetDefault("ui.markdown_style", defaults.UI.MarkdownStyle)
	v.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	v.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	v.SetDefault("tracing.file_path", defaults.Tracing.FilePath)
	v.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	v.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)
	v.SetDefault("log.path", defaults.Log.Path)
	v.SetDefault("log.level", defaults.Log.Level)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func validateConfig(_ *cobra.Command, _ []string) error {
	if cfgErr != nil {
		return cfgErr
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// initLogging enables the debug log when --debug or DRAFTMARK_DEBUG is set.
// The playground routes Bubble Tea's own log output to the same file.
func initLogging(withTea bool) (func(), error) {
	if os.Getenv("DRAFTMARK_DEBUG") == "" && !debugFlag {
		return func() {}, nil
	}
	logPath := os.Getenv("DRAFTMARK_LOG")
	if logPath == "" {
		logPath = cfg.Log.Path
	}

	var (
		cleanup func()
		err     error
	)
	if withTea {
		cleanup, err = log.InitWithTeaLog(logPath, "draftmark")
	} else {
		cleanup, err = log.Init(logPath)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing logging: %w", err)
	}
	log.SetMinLevel(log.ParseLevel(cfg.Log.Level))
	log.Info(log.CatConfig, "draftmark starting", "version", version, "logPath", logPath, "config", viper.ConfigFileUsed())
	return cleanup, nil
}

// newTracer builds the provider and a shutdown func bounded by a timeout.
func newTracer() (*tracing.Provider, func(), error) {
	provider, err := tracing.NewProvider(tracing.FromConfig(cfg.Tracing))
	if err != nil {
		return nil, nil, fmt.Errorf("creating tracing provider: %w", err)
	}
	shutdown := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(ctx); err != nil {
			log.ErrorErr(log.CatTrace, "tracing shutdown failed", err)
		}
	}
	return provider, shutdown, nil
}

// seedState opens path as markdown, or an empty document when path is empty.
func seedState(path string, historyLimit int) (draft.EditorState, error) {
	var script replay.Script
	if path != "" {
		data, err := os.ReadFile(path) //nolint:gosec // G304: seed path comes from the command line
		if err != nil {
			return draft.EditorState{}, fmt.Errorf("reading seed: %w", err)
		}
		script.Seed = string(data)
	}
	return script.Document(historyLimit)
}

func runPlayground(cmd *cobra.Command, _ []string) error {
	cleanup, err := initLogging(true)
	if err != nil {
		return err
	}
	defer cleanup()

	state, err := seedState(seedFile, cfg.Editor.HistoryLimit)
	if err != nil {
		return err
	}

	provider, shutdown, err := newTracer()
	if err != nil {
		return err
	}
	defer shutdown()

	// Store the config file path for saving ui toggles
	configFilePath := viper.ConfigFileUsed()
	if configFilePath == "" {
		configFilePath = localConfigPath
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	model, err := playground.New(ctx, playground.Options{
		State:      state,
		Autoformat: cfg.Autoformat,
		UI:         cfg.UI,
		ConfigPath: configFilePath,
		Tracer:     provider.Tracer(),
	})
	if err != nil {
		return err
	}

	zone.NewGlobal()
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running playground: %w", err)
	}
	return nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
