package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/zjrosen/draftmark/internal/log"
	"github.com/zjrosen/draftmark/internal/replay"
	"github.com/zjrosen/draftmark/internal/watcher"
)

var replayCmd = &cobra.Command{
	Use:   "replay <script>",
	Short: "Run a keystroke script and print the resulting document",
	Long: `Replay feeds a YAML script of typed text and key commands through the
editor with autoformatting enabled and prints the final document.

Script format:

  seed: "some **markdown**"   # or seed_file: notes.md
  steps:
    - type: "**bold** "
    - key: backspace
      repeat: 2

Keys: ` + commandList() + `

Examples:
  draftmark replay script.yaml
  draftmark replay script.yaml --format markdown
  draftmark replay script.yaml --diff --watch`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

var (
	replayFormat string
	replayDiff   bool
	replayWatch  bool
)

func init() {
	rootCmd.AddCommand(replayCmd)

	replayCmd.Flags().StringVarP(&replayFormat, "format", "f", "yaml",
		"output format: yaml or markdown")
	replayCmd.Flags().BoolVar(&replayDiff, "diff", false,
		"also print a word diff of the seed text against the result")
	replayCmd.Flags().BoolVarP(&replayWatch, "watch", "w", false,
		"re-run whenever the script file changes")
}

type replayOutput struct {
	format string
	diff   bool
	run    replay.Options
}

func runReplay(cmd *cobra.Command, args []string) error {
	if replayFormat != "yaml" && replayFormat != "markdown" {
		return fmt.Errorf("--format must be yaml or markdown, got %q", replayFormat)
	}

	cleanup, err := initLogging(false)
	if err != nil {
		return err
	}
	defer cleanup()

	provider, shutdown, err := newTracer()
	if err != nil {
		return err
	}
	defer shutdown()

	out := replayOutput{
		format: replayFormat,
		diff:   replayDiff,
		run: replay.Options{
			Autoformat:   cfg.Autoformat,
			HistoryLimit: cfg.Editor.HistoryLimit,
			Tracer:       provider.Tracer(),
		},
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	path := args[0]
	err = replayOnce(ctx, cmd.OutOrStdout(), path, out)
	if !replayWatch {
		return err
	}
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
	}
	return watchReplay(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), path, out)
}

// watchReplay re-runs the script after each settled change until ctx ends.
// Script errors are reported and watching continues.
func watchReplay(ctx context.Context, stdout, stderr io.Writer, path string, out replayOutput) error {
	w, err := watcher.New(watcher.DefaultConfig(path))
	if err != nil {
		return err
	}
	changes, err := w.Start()
	if err != nil {
		_ = w.Stop()
		return err
	}
	defer func() { _ = w.Stop() }()

	fmt.Fprintf(stderr, "watching %s (ctrl+c to stop)\n", path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-changes:
			fmt.Fprintln(stdout, "---")
			if err := replayOnce(ctx, stdout, path, out); err != nil {
				log.ErrorErr(log.CatReplay, "replay failed", err, "path", path)
				fmt.Fprintf(stderr, "error: %v\n", err)
			}
		}
	}
}

func replayOnce(ctx context.Context, w io.Writer, path string, out replayOutput) error {
	script, err := replay.Load(path)
	if err != nil {
		return err
	}
	res, err := replay.Run(ctx, script, out.run)
	if err != nil {
		return err
	}

	switch out.format {
	case "markdown":
		fmt.Fprintln(w, res.Markdown())
	default:
		data, err := res.YAML()
		if err != nil {
			return err
		}
		_, _ = w.Write(data)
	}
	if out.diff {
		fmt.Fprintf(w, "\ndiff:\n%s\n", res.Diff())
	}
	return nil
}
