package github

import "context"

// DataSource defines the fetch operations the pipeline depends on.
// This allows for easy mocking and dependency injection in tests.
type DataSource interface {
	FetchPRMetadata(ctx context.Context, prNumber int) (*PRInfo, error)
	FetchPRComments(ctx context.Context, prNumber int) ([]RawComment, error)
}

// CommentSink accepts a finished document for posting back to the PR.
type CommentSink interface {
	PostComment(ctx context.Context, prNumber int, body string) (*PostedComment, error)
}

// Ensure Client implements both boundary interfaces.
var (
	_ DataSource  = (*Client)(nil)
	_ CommentSink = (*Client)(nil)
)
