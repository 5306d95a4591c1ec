// Package github is the data-source collaborator: it fetches pull-request
// metadata and review comment threads from GitHub and posts comments back.
// The pipeline only sees the parsed RawComment and PRInfo shapes; it does
// not care how they were obtained.
package github

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/go-github/v58/github"
	"golang.org/x/oauth2"
)

// ErrNoPRFound is returned when no PR is found for the current branch.
var ErrNoPRFound = errors.New("no PR found for current branch")

// PRInfo holds the pull-request metadata consumed by the renderer.
type PRInfo struct {
	Number       int    `json:"pr_number"`
	Title        string `json:"title"`
	Author       string `json:"author"`
	BaseRef      string `json:"base_ref"`
	HeadRef      string `json:"head_ref"`
	FilesChanged int    `json:"files_changed"`
	Additions    int    `json:"additions"`
	Deletions    int    `json:"deletions"`
	Repository   string `json:"repository"`
	CreatedAt    string `json:"created_at"`
}

// RawComment is one unprocessed review comment with its location metadata.
// Body is opaque here; only the extractor inspects it.
type RawComment struct {
	ID        int64  `json:"id"`
	ThreadID  string `json:"thread_id"`
	Author    string `json:"author"`
	CreatedAt string `json:"created_at"`
	Body      string `json:"body"`
	File      string `json:"file,omitempty"`
	Line      int    `json:"line,omitempty"`
	EndLine   int    `json:"end_line,omitempty"`
	URL       string `json:"url,omitempty"`
}

// PostedComment is the sink's receipt for a posted comment.
type PostedComment struct {
	ID        int64  `json:"id"`
	URL       string `json:"url"`
	CreatedAt string `json:"created_at"`
}

// Client talks to the GitHub REST API for a single owner/repo pair.
type Client struct {
	client *github.Client
	owner  string
	repo   string
}

// NewClient creates an authenticated client for the repository of the
// current working directory.
func NewClient() (*Client, error) {
	token, err := GetGitHubToken()
	if err != nil {
		return nil, fmt.Errorf("failed to get GitHub token: %w", err)
	}

	owner, repo, err := getRepoInfo()
	if err != nil {
		return nil, fmt.Errorf("failed to get repository info: %w", err)
	}

	return NewClientWithRepo(token, owner, repo), nil
}

// NewClientWithRepo creates a client for an explicit owner/repo pair.
func NewClientWithRepo(token, owner, repo string) *Client {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(context.Background(), ts)

	return &Client{
		client: github.NewClient(tc),
		owner:  owner,
		repo:   repo,
	}
}

// FetchPRMetadata fetches pull-request metadata.
func (c *Client) FetchPRMetadata(ctx context.Context, prNumber int) (*PRInfo, error) {
	pr, _, err := c.client.PullRequests.Get(ctx, c.owner, c.repo, prNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch PR #%d: %w", prNumber, err)
	}

	info := &PRInfo{
		Number:       prNumber,
		Title:        pr.GetTitle(),
		Author:       pr.GetUser().GetLogin(),
		BaseRef:      pr.GetBase().GetRef(),
		HeadRef:      pr.GetHead().GetRef(),
		FilesChanged: pr.GetChangedFiles(),
		Additions:    pr.GetAdditions(),
		Deletions:    pr.GetDeletions(),
		Repository:   fmt.Sprintf("%s/%s", c.owner, c.repo),
		CreatedAt:    pr.GetCreatedAt().Format(time.RFC3339),
	}
	return info, nil
}

// FetchPRComments fetches all review comments and conversation comments for
// a pull request and groups them into threads. Review comments that reply to
// another comment share its thread; a conversation comment is a thread of
// size one. The result is chronologically ordered.
func (c *Client) FetchPRComments(ctx context.Context, prNumber int) ([]RawComment, error) {
	var raw []RawComment

	opts := &github.PullRequestListCommentsOptions{
		ListOptions: github.ListOptions{PerPage: 100},
	}
	for {
		comments, resp, err := c.client.PullRequests.ListComments(ctx, c.owner, c.repo, prNumber, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch review comments: %w", err)
		}
		for _, rc := range comments {
			raw = append(raw, convertReviewComment(rc))
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	issueOpts := &github.IssueListCommentsOptions{
		ListOptions: github.ListOptions{PerPage: 100},
	}
	for {
		comments, resp, err := c.client.Issues.ListComments(ctx, c.owner, c.repo, prNumber, issueOpts)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch conversation comments: %w", err)
		}
		for _, ic := range comments {
			raw = append(raw, convertIssueComment(ic))
		}
		if resp.NextPage == 0 {
			break
		}
		issueOpts.Page = resp.NextPage
	}

	SortChronologically(raw)
	return raw, nil
}

// PostComment posts a conversation comment on the pull request.
func (c *Client) PostComment(ctx context.Context, prNumber int, body string) (*PostedComment, error) {
	comment := &github.IssueComment{Body: github.String(body)}
	created, _, err := c.client.Issues.CreateComment(ctx, c.owner, c.repo, prNumber, comment)
	if err != nil {
		return nil, fmt.Errorf("failed to post comment on PR #%d: %w", prNumber, err)
	}
	return &PostedComment{
		ID:        created.GetID(),
		URL:       created.GetHTMLURL(),
		CreatedAt: created.GetCreatedAt().Format(time.RFC3339),
	}, nil
}

// GetCurrentBranchPR finds the open PR whose head is the current branch.
func (c *Client) GetCurrentBranchPR(ctx context.Context) (int, error) {
	branch, err := getCurrentBranch()
	if err != nil {
		return 0, fmt.Errorf("failed to get current branch: %w", err)
	}

	opts := &github.PullRequestListOptions{
		State: "open",
		Head:  fmt.Sprintf("%s:%s", c.owner, branch),
	}
	prs, _, err := c.client.PullRequests.List(ctx, c.owner, c.repo, opts)
	if err != nil {
		return 0, fmt.Errorf("failed to list PRs: %w", err)
	}
	if len(prs) == 0 {
		return 0, ErrNoPRFound
	}
	return prs[0].GetNumber(), nil
}

func convertReviewComment(rc *github.PullRequestComment) RawComment {
	threadRoot := rc.GetID()
	if rc.GetInReplyTo() != 0 {
		threadRoot = rc.GetInReplyTo()
	}

	line := rc.GetLine()
	start := rc.GetStartLine()
	endLine := 0
	if start != 0 && line > start {
		line, endLine = start, line
	}

	return RawComment{
		ID:        rc.GetID(),
		ThreadID:  fmt.Sprintf("rc-%d", threadRoot),
		Author:    rc.GetUser().GetLogin(),
		CreatedAt: rc.GetCreatedAt().Format(time.RFC3339),
		Body:      rc.GetBody(),
		File:      rc.GetPath(),
		Line:      line,
		EndLine:   endLine,
		URL:       rc.GetHTMLURL(),
	}
}

func convertIssueComment(ic *github.IssueComment) RawComment {
	return RawComment{
		ID:        ic.GetID(),
		ThreadID:  fmt.Sprintf("ic-%d", ic.GetID()),
		Author:    ic.GetUser().GetLogin(),
		CreatedAt: ic.GetCreatedAt().Format(time.RFC3339),
		Body:      ic.GetBody(),
		URL:       ic.GetHTMLURL(),
	}
}

// SortChronologically orders comments oldest-first, breaking timestamp ties
// by comment ID so the order is stable across runs.
func SortChronologically(comments []RawComment) {
	sort.SliceStable(comments, func(i, j int) bool {
		if comments[i].CreatedAt != comments[j].CreatedAt {
			return comments[i].CreatedAt < comments[j].CreatedAt
		}
		return comments[i].ID < comments[j].ID
	})
}

// IsReviewBot reports whether an author looks like an automated reviewer.
func IsReviewBot(author string) bool {
	if strings.HasSuffix(author, "[bot]") {
		return true
	}
	lower := strings.ToLower(author)
	return strings.Contains(lower, "coderabbit") || strings.Contains(lower, "codex")
}
