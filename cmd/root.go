package cmd

import (
	"github.com/spf13/cobra"
)

// Version information (set at build time)
var (
	appVersion    = "dev"
	appCommitHash = "unknown"
	appBuildDate  = "unknown"
)

// SetVersionInfo sets the version information from build-time variables
func SetVersionInfo(version, commitHash, buildDate string) {
	appVersion = version
	appCommitHash = commitHash
	appBuildDate = buildDate
}

// NewRootCmd creates a new instance of the root command for testing.
// This prevents shared state issues in concurrent tests.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reviewprompt",
		Short: "Turn review-bot PR comments into an instruction document",
		Long: `reviewprompt fetches review-bot comments from a GitHub Pull Request,
filters out resolved threads, classifies and deduplicates the findings,
and renders them as a structured instruction document for a coding agent.

Examples:
  reviewprompt generate          # Generate for current branch's PR
  reviewprompt generate 123      # Generate for PR #123
  reviewprompt generate --stdout # Print the document instead of saving it
  reviewprompt preview 123       # Browse classified findings interactively
  reviewprompt post 123          # Post the document as a PR comment`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(generateCmd)
	cmd.AddCommand(initCmd)
	cmd.AddCommand(postCmd)
	cmd.AddCommand(previewCmd)
	cmd.AddCommand(versionCmd)

	return cmd
}

var rootCmd = &cobra.Command{
	Use:   "reviewprompt",
	Short: "Turn review-bot PR comments into an instruction document",
	Long: `reviewprompt fetches review-bot comments from a GitHub Pull Request,
filters out resolved threads, classifies and deduplicates the findings,
and renders them as a structured instruction document for a coding agent.

Examples:
  reviewprompt generate          # Generate for current branch's PR
  reviewprompt generate 123      # Generate for PR #123
  reviewprompt generate --stdout # Print the document instead of saving it
  reviewprompt preview 123       # Browse classified findings interactively
  reviewprompt post 123          # Post the document as a PR comment`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(postCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(versionCmd)
}
