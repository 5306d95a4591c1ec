package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"reviewprompt/internal/config"
	"reviewprompt/internal/pipeline"
	"reviewprompt/internal/render"
	"reviewprompt/internal/storage"
	"reviewprompt/internal/ui"
)

var postBodyFile string

var postCmd = &cobra.Command{
	Use:   "post [PR_NUMBER]",
	Short: "Post the generated document as a PR comment",
	Long: `Generate the instruction document for a pull request and post it as
a conversation comment on that PR, so a coding agent watching the PR can
pick it up. The document is always posted in markdown.

With --body-file, the file content is posted verbatim instead of a freshly
generated document.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPost,
}

func init() {
	postCmd.Flags().StringVar(&postBodyFile, "body-file", "", "Post the given file's content instead of generating a document")
}

func runPost(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	console := ui.NewConsole()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	client, err := newClient()
	if err != nil {
		return err
	}

	prNumber, err := resolvePRNumber(ctx, args, client)
	if err != nil {
		return err
	}

	if postBodyFile != "" {
		body, err := os.ReadFile(postBodyFile)
		if err != nil {
			return fmt.Errorf("failed to read body file: %w", err)
		}
		posted, err := client.PostComment(ctx, prNumber, string(body))
		if err != nil {
			return err
		}
		console.Successf("Posted %s to PR #%d", postBodyFile, prNumber)
		console.Mutedf("%s", posted.URL)
		return nil
	}

	manager := storage.NewManager()
	pr, comments, err := gatherInputs(ctx, manager, client, prNumber, false)
	if err != nil {
		return err
	}

	result, err := pipeline.New(cfg, render.FormatMarkdown, nil).Run(pr, comments)
	if err != nil {
		return err
	}

	if len(result.Records) == 0 {
		console.Warningf("No unresolved findings on PR #%d, nothing posted.", prNumber)
		return nil
	}

	posted, err := client.PostComment(ctx, prNumber, result.Document)
	if err != nil {
		return err
	}

	console.Successf("Posted %d findings to PR #%d", len(result.Records), prNumber)
	console.Mutedf("%s", posted.URL)
	return nil
}
