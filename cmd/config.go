package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zjrosen/draftmark/internal/config"
	"github.com/zjrosen/draftmark/internal/editor"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the draftmark config file",
}

var configInitForce bool

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a commented default config file",
	Long: `Write the default configuration with comments to path
(default: .draftmark/config.yaml). Existing files are kept unless --force is set.`,
	Args: cobra.MaximumNArgs(1),
	// Skip config validation so a broken config can be replaced.
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		path := localConfigPath
		if len(args) == 1 {
			path = args[0]
		}
		if err := writeConfig(path, configInitForce); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing file")
}

func writeConfig(path string, force bool) error {
	if fileExists(path) && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	return config.WriteDefaultConfig(path)
}

func commandList() string {
	names := make([]string, 0, len(editor.Commands()))
	for _, c := range editor.Commands() {
		names = append(names, string(c))
	}
	return strings.Join(names, ", ")
}
