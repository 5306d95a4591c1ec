package github

import (
	"context"
	"fmt"
)

// MockDataSource provides a canned implementation for testing.
type MockDataSource struct {
	PRInfos  map[int]*PRInfo
	Comments map[int][]RawComment
	Posted   []string

	FetchMetadataErr error
	FetchCommentsErr error
	PostCommentErr   error
}

// NewMockDataSource creates an empty mock data source.
func NewMockDataSource() *MockDataSource {
	return &MockDataSource{
		PRInfos:  make(map[int]*PRInfo),
		Comments: make(map[int][]RawComment),
	}
}

func (m *MockDataSource) FetchPRMetadata(ctx context.Context, prNumber int) (*PRInfo, error) {
	if m.FetchMetadataErr != nil {
		return nil, m.FetchMetadataErr
	}
	info, ok := m.PRInfos[prNumber]
	if !ok {
		return nil, fmt.Errorf("mock: no PR #%d", prNumber)
	}
	return info, nil
}

func (m *MockDataSource) FetchPRComments(ctx context.Context, prNumber int) ([]RawComment, error) {
	if m.FetchCommentsErr != nil {
		return nil, m.FetchCommentsErr
	}
	return m.Comments[prNumber], nil
}

func (m *MockDataSource) PostComment(ctx context.Context, prNumber int, body string) (*PostedComment, error) {
	if m.PostCommentErr != nil {
		return nil, m.PostCommentErr
	}
	m.Posted = append(m.Posted, body)
	return &PostedComment{
		ID:        int64(len(m.Posted)),
		URL:       fmt.Sprintf("https://github.com/mock/mock/pull/%d#issuecomment-%d", prNumber, len(m.Posted)),
		CreatedAt: "2025-01-01T00:00:00Z",
	}, nil
}

var (
	_ DataSource  = (*MockDataSource)(nil)
	_ CommentSink = (*MockDataSource)(nil)
)
