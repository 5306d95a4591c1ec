package extract

// StructuredRecord is the typed form of a single bot review comment after
// section extraction. Optional fields are empty strings when absent.
type StructuredRecord struct {
	ID        string `json:"id"`
	CommentID int64  `json:"comment_id"`
	ThreadID  string `json:"thread_id"`
	Author    string `json:"author"`
	CreatedAt string `json:"created_at"`

	FilePath  string `json:"file_path,omitempty"`
	LineRange string `json:"line_range,omitempty"`

	IssueTitle        string `json:"issue_title"`
	Rationale         string `json:"rationale"`
	ProposedDiff      string `json:"proposed_diff,omitempty"`
	AgentInstructions string `json:"agent_instructions,omitempty"`
	RawTypeHint       string `json:"raw_type_hint,omitempty"`

	// SourceBody keeps the verbatim comment body so thread-level resolution
	// scanning can match markers against what the author actually wrote.
	SourceBody string `json:"-"`
}

// UntitledFallback is used when no heading or sentence can be recovered
// from a comment body.
const UntitledFallback = "<untitled>"
