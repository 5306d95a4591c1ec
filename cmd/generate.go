package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"reviewprompt/internal/config"
	"reviewprompt/internal/github"
	"reviewprompt/internal/pipeline"
	"reviewprompt/internal/render"
	"reviewprompt/internal/storage"
	"reviewprompt/internal/ui"
)

var generateOpts struct {
	format  string
	output  string
	stdout  bool
	offline bool
}

var generateCmd = &cobra.Command{
	Use:   "generate [PR_NUMBER]",
	Short: "Generate the instruction document for a pull request",
	Long: `Fetch review comments for a pull request, run them through the
extraction, filtering, classification, and deduplication stages, and save
the rendered instruction document under .review-prompt/PR-<n>/.

Without a PR number, the open PR for the current branch is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&generateOpts.format, "format", "", "Output format: markdown or xml (default from config)")
	generateCmd.Flags().StringVarP(&generateOpts.output, "output", "o", "", "Write the document to a file instead of the snapshot directory")
	generateCmd.Flags().BoolVar(&generateOpts.stdout, "stdout", false, "Print the document to stdout instead of saving it")
	generateCmd.Flags().BoolVar(&generateOpts.offline, "offline", false, "Re-render from the saved snapshot without calling GitHub")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	console := ui.NewConsole()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	format, err := resolveFormat(cfg, generateOpts.format)
	if err != nil {
		return err
	}

	manager := storage.NewManager()

	var client *github.Client
	if !generateOpts.offline {
		client, err = newClient()
		if err != nil {
			return err
		}
	} else if len(args) == 0 {
		return fmt.Errorf("a PR number is required with --offline")
	}

	prNumber, err := resolvePRNumber(ctx, args, client)
	if err != nil {
		if errors.Is(err, github.ErrNoPRFound) {
			console.Warningf("No open PR found for the current branch.")
			console.Mutedf("Specify one directly: reviewprompt generate <PR_NUMBER>")
			return err
		}
		return err
	}

	if !generateOpts.stdout {
		console.Mutedf("Processing PR #%d...", prNumber)
	}

	pr, comments, err := gatherInputs(ctx, manager, client, prNumber, generateOpts.offline)
	if err != nil {
		return err
	}

	result, err := pipeline.New(cfg, format, nil).Run(pr, comments)
	if err != nil {
		return err
	}

	switch {
	case generateOpts.stdout:
		fmt.Print(result.Document)
		return nil
	case generateOpts.output != "":
		if err := os.WriteFile(generateOpts.output, []byte(result.Document), 0644); err != nil {
			return fmt.Errorf("failed to write document: %w", err)
		}
		console.Successf("Saved document to %s", generateOpts.output)
	default:
		path, err := manager.SaveDocument(prNumber, formatExtension(format), result.Document)
		if err != nil {
			return err
		}
		console.Successf("Saved document to %s", path)
	}

	console.Printf("%s", ui.SummaryTable(result.Stats))
	return nil
}

func resolveFormat(cfg *config.Config, flag string) (render.Format, error) {
	name := flag
	if name == "" {
		name = cfg.OutputFormat
	}
	switch name {
	case "", string(render.FormatMarkdown):
		return render.FormatMarkdown, nil
	case string(render.FormatXML):
		return render.FormatXML, nil
	default:
		return "", fmt.Errorf("unknown output format %q (expected markdown or xml)", name)
	}
}

func formatExtension(format render.Format) string {
	if format == render.FormatXML {
		return "xml"
	}
	return "md"
}
