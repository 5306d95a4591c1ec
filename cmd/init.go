package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"reviewprompt/internal/config"
	"reviewprompt/internal/ui"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration in the current repository",
	Long: `Create .review-prompt/config.json with default settings and a
commented dictionaries.yml starter file for keyword overrides.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	console := ui.NewConsole()

	if _, err := os.Stat(config.ConfigFile); err == nil {
		console.Warningf("Configuration already exists at %s", config.ConfigFile)
		return nil
	}

	if err := config.CreateDefault(); err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}
	console.Successf("Created %s", config.ConfigFile)

	if err := config.WriteDictionariesTemplate(); err != nil {
		return fmt.Errorf("failed to create dictionaries template: %w", err)
	}
	console.Successf("Created %s", config.DictionariesFile)

	console.Mutedf("Add .review-prompt/ to .gitignore if you do not want snapshots committed.")
	return nil
}
