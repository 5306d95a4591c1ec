package extract

import (
	"strings"
	"testing"

	"reviewprompt/internal/github"
)

func testExtractor() *Extractor {
	return NewExtractor(Options{
		KnownExtensions: []string{"go", "py", "md"},
		TypeHintLabels: []string{
			"actionable", "potential issue", "refactor suggestion",
			"nitpick", "nitpick comments", "outside diff range",
		},
	})
}

func TestExtractEmptyBody(t *testing.T) {
	rec := testExtractor().Extract(github.RawComment{ID: 1, ThreadID: "rc-1"})

	if rec.IssueTitle != UntitledFallback {
		t.Errorf("Expected untitled fallback, got %q", rec.IssueTitle)
	}
	if rec.Rationale != "" {
		t.Errorf("Expected empty rationale, got %q", rec.Rationale)
	}
	if rec.ProposedDiff != "" || rec.AgentInstructions != "" {
		t.Error("Expected no optional blocks for empty body")
	}
	if rec.RawTypeHint != "" {
		t.Errorf("Expected no type hint, got %q", rec.RawTypeHint)
	}
}

func TestExtractTypeHint(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"potential issue", "_⚠️ Potential issue_\n\nSomething is wrong.", "potential issue"},
		{"longest label wins", "**Nitpick comments** below.", "nitpick comments"},
		{"no hint", "Just a plain remark.", ""},
	}

	e := testExtractor()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := e.Extract(github.RawComment{ID: 1, ThreadID: "rc-1", Body: tt.body})
			if rec.RawTypeHint != tt.want {
				t.Errorf("Expected hint %q, got %q", tt.want, rec.RawTypeHint)
			}
		})
	}
}

func TestExtractTitleFromHeading(t *testing.T) {
	body := "## Fix the race condition\n\nThe worker reads the map without locking."
	rec := testExtractor().Extract(github.RawComment{ID: 1, ThreadID: "rc-1", Body: body})

	if rec.IssueTitle != "Fix the race condition" {
		t.Errorf("Expected heading title, got %q", rec.IssueTitle)
	}
	if !strings.Contains(rec.Rationale, "without locking") {
		t.Errorf("Expected rationale to keep the prose, got %q", rec.Rationale)
	}
	if strings.Contains(rec.Rationale, "Fix the race condition") {
		t.Error("Title line should be removed from the rationale")
	}
}

func TestExtractTitleFromBoldLine(t *testing.T) {
	body := "**Avoid shadowing the err variable**\n\nThe inner err hides the outer one."
	rec := testExtractor().Extract(github.RawComment{ID: 1, ThreadID: "rc-1", Body: body})

	if rec.IssueTitle != "Avoid shadowing the err variable" {
		t.Errorf("Expected bold-line title, got %q", rec.IssueTitle)
	}
}

func TestExtractTitleFallsBackToFirstSentence(t *testing.T) {
	body := "This function leaks a file handle. Close it in a defer."
	rec := testExtractor().Extract(github.RawComment{ID: 1, ThreadID: "rc-1", Body: body})

	if rec.IssueTitle != "This function leaks a file handle." {
		t.Errorf("Expected first sentence as title, got %q", rec.IssueTitle)
	}
}

func TestExtractLongFirstSentenceTruncated(t *testing.T) {
	body := strings.Repeat("word ", 60)
	rec := testExtractor().Extract(github.RawComment{ID: 1, ThreadID: "rc-1", Body: body})

	if len([]rune(rec.IssueTitle)) > 120 {
		t.Errorf("Expected title capped at 120 runes, got %d", len([]rune(rec.IssueTitle)))
	}
	if !strings.HasSuffix(rec.IssueTitle, "...") {
		t.Errorf("Expected truncation marker, got %q", rec.IssueTitle)
	}
}

func TestExtractProposedDiff(t *testing.T) {
	body := "**Handle the nil case**\n\n" +
		"```diff\n-u := req.User.Name\n+if req.User == nil {\n+\treturn\n+}\n+u := req.User.Name\n```\n"
	rec := testExtractor().Extract(github.RawComment{ID: 1, ThreadID: "rc-1", Body: body})

	want := "-u := req.User.Name\n+if req.User == nil {\n+\treturn\n+}\n+u := req.User.Name"
	if rec.ProposedDiff != want {
		t.Errorf("Expected verbatim diff content, got %q", rec.ProposedDiff)
	}
	if strings.Contains(rec.Rationale, "req.User.Name") {
		t.Error("Consumed diff should not bleed into the rationale")
	}
}

func TestExtractAgentInstructionsFromDetails(t *testing.T) {
	body := "**Add a nil check**\n\nThe handler can panic.\n\n" +
		"<details>\n<summary>🤖 Prompt for AI Agents</summary>\n\n" +
		"```\nIn handler.go around line 12, add a nil check on req.User.\n```\n\n</details>\n"
	rec := testExtractor().Extract(github.RawComment{ID: 1, ThreadID: "rc-1", Body: body})

	if !strings.Contains(rec.AgentInstructions, "add a nil check on req.User") {
		t.Errorf("Expected agent instructions, got %q", rec.AgentInstructions)
	}
	if strings.Contains(rec.Rationale, "Prompt for AI Agents") {
		t.Errorf("Wrapper section should be consumed, rationale: %q", rec.Rationale)
	}
	if !strings.Contains(rec.Rationale, "can panic") {
		t.Errorf("Prose outside the section should survive, rationale: %q", rec.Rationale)
	}
}

func TestExtractCommittableSuggestion(t *testing.T) {
	body := "**Use errors.Is**\n\n" +
		"<details>\n<summary>📝 Committable suggestion</summary>\n\n" +
		"```suggestion\nif errors.Is(err, io.EOF) {\n```\n\n</details>\n"
	rec := testExtractor().Extract(github.RawComment{ID: 1, ThreadID: "rc-1", Body: body})

	if rec.ProposedDiff != "if errors.Is(err, io.EOF) {" {
		t.Errorf("Expected suggestion content as diff, got %q", rec.ProposedDiff)
	}
	if strings.Contains(rec.Rationale, "Committable suggestion") {
		t.Errorf("Wrapper should be consumed with the fence, rationale: %q", rec.Rationale)
	}
}

func TestExtractFirstDiffWins(t *testing.T) {
	body := "```diff\n-a\n+b\n```\n\nmore text\n\n```diff\n-c\n+d\n```\n"
	rec := testExtractor().Extract(github.RawComment{ID: 1, ThreadID: "rc-1", Body: body})

	if rec.ProposedDiff != "-a\n+b" {
		t.Errorf("Expected first diff to win, got %q", rec.ProposedDiff)
	}
}

func TestExtractNativeLocationWins(t *testing.T) {
	body := "See `other/file.py:99` for context."
	rec := testExtractor().Extract(github.RawComment{
		ID: 1, ThreadID: "rc-1", Body: body,
		File: `pkg\server\handler.go`, Line: 3, EndLine: 7,
	})

	if rec.FilePath != "pkg/server/handler.go" {
		t.Errorf("Expected normalized native path, got %q", rec.FilePath)
	}
	if rec.LineRange != "3-7" {
		t.Errorf("Expected native line range, got %q", rec.LineRange)
	}
}

func TestExtractDetectedLocation(t *testing.T) {
	body := "The bug is in `internal/server/handler.go:42` somewhere."
	rec := testExtractor().Extract(github.RawComment{ID: 1, ThreadID: "ic-1", Body: body})

	if rec.FilePath != "internal/server/handler.go" {
		t.Errorf("Expected detected path, got %q", rec.FilePath)
	}
	if rec.LineRange != "42" {
		t.Errorf("Expected detected line, got %q", rec.LineRange)
	}
}

func TestExtractHTMLEntitiesUnescaped(t *testing.T) {
	body := "Compare with `a &lt; b` before merging."
	rec := testExtractor().Extract(github.RawComment{ID: 1, ThreadID: "rc-1", Body: body})

	if !strings.Contains(rec.Rationale, "a < b") {
		t.Errorf("Expected entities unescaped, got %q", rec.Rationale)
	}
}

func TestRemoveSpans(t *testing.T) {
	body := "abcdefghij"
	tests := []struct {
		name  string
		spans [][2]int
		want  string
	}{
		{"none", nil, "abcdefghij"},
		{"middle", [][2]int{{3, 6}}, "abcghij"},
		{"overlapping", [][2]int{{2, 5}, {4, 8}}, "abij"},
		{"out of order", [][2]int{{6, 8}, {0, 2}}, "cdefij"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := removeSpans(body, tt.spans); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}
