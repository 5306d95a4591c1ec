package cmd

import (
	"context"
	"fmt"
	"strconv"

	"reviewprompt/internal/github"
	"reviewprompt/internal/storage"
)

// resolvePRNumber returns the PR number from the first positional argument,
// falling back to the open PR for the current branch.
func resolvePRNumber(ctx context.Context, args []string, client *github.Client) (int, error) {
	if len(args) > 0 {
		prNumber, err := strconv.Atoi(args[0])
		if err != nil {
			return 0, fmt.Errorf("invalid PR number: %s", args[0])
		}
		return prNumber, nil
	}
	return client.GetCurrentBranchPR(ctx)
}

// newClient wraps client construction with authentication guidance.
func newClient() (*github.Client, error) {
	client, err := github.NewClient()
	if err != nil {
		return nil, fmt.Errorf("GitHub authentication required: set the GITHUB_TOKEN environment variable or run 'gh auth login': %w", err)
	}
	return client, nil
}

// gatherInputs fetches PR metadata and comments, saving a snapshot for later
// offline runs. In offline mode it reads the snapshot instead of the API.
func gatherInputs(ctx context.Context, manager *storage.Manager, client *github.Client, prNumber int, offline bool) (*github.PRInfo, []github.RawComment, error) {
	if offline {
		if !manager.HasSnapshot(prNumber) {
			return nil, nil, fmt.Errorf("no snapshot for PR #%d: run without --offline first", prNumber)
		}
		info, err := manager.LoadPRInfo(prNumber)
		if err != nil {
			return nil, nil, err
		}
		comments, err := manager.LoadComments(prNumber)
		if err != nil {
			return nil, nil, err
		}
		return info, comments, nil
	}

	info, err := client.FetchPRMetadata(ctx, prNumber)
	if err != nil {
		return nil, nil, err
	}
	comments, err := client.FetchPRComments(ctx, prNumber)
	if err != nil {
		return nil, nil, err
	}

	if err := manager.SavePRInfo(prNumber, info); err != nil {
		return nil, nil, fmt.Errorf("failed to save PR info: %w", err)
	}
	if err := manager.SaveComments(prNumber, comments); err != nil {
		return nil, nil, fmt.Errorf("failed to save comments: %w", err)
	}

	return info, comments, nil
}
