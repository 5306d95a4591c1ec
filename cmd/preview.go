package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"reviewprompt/internal/config"
	"reviewprompt/internal/github"
	"reviewprompt/internal/pipeline"
	"reviewprompt/internal/render"
	"reviewprompt/internal/storage"
	"reviewprompt/internal/tui"
)

var previewOffline bool

var previewCmd = &cobra.Command{
	Use:   "preview [PR_NUMBER]",
	Short: "Browse classified findings interactively",
	Long: `Run the pipeline for a pull request and browse the surviving
findings in an interactive terminal view before generating or posting the
document.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().BoolVar(&previewOffline, "offline", false, "Use the saved snapshot without calling GitHub")
}

func runPreview(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	manager := storage.NewManager()

	var client *github.Client
	if !previewOffline {
		client, err = newClient()
		if err != nil {
			return err
		}
	} else if len(args) == 0 {
		return fmt.Errorf("a PR number is required with --offline")
	}

	prNumber, err := resolvePRNumber(ctx, args, client)
	if err != nil {
		return err
	}

	pr, comments, err := gatherInputs(ctx, manager, client, prNumber, previewOffline)
	if err != nil {
		return err
	}

	result, err := pipeline.New(cfg, render.FormatMarkdown, nil).Run(pr, comments)
	if err != nil {
		return err
	}

	return tui.Run(result.Records)
}
