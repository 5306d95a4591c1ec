package render

import (
	"errors"
	"strings"
	"testing"
	"time"

	"reviewprompt/internal/classify"
	"reviewprompt/internal/extract"
)

func fixedClock() time.Time {
	return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
}

func testDoc(records []classify.ClassifiedRecord) Document {
	return Document{
		PR: PRMetadata{
			Number:       42,
			Title:        "Add retry logic",
			Author:       "octocat",
			BaseRef:      "main",
			HeadRef:      "feature/retry",
			Repository:   "acme/widget",
			FilesChanged: 3,
			Additions:    120,
			Deletions:    15,
		},
		Records: records,
		Stats: RunStatistics{
			TotalFound:       len(records),
			CountsByType:     map[string]int{},
			CountsByPriority: map[string]int{},
		},
	}
}

func finding(title, rationale string) classify.ClassifiedRecord {
	return classify.ClassifiedRecord{
		StructuredRecord: extract.StructuredRecord{
			IssueTitle: title,
			Rationale:  rationale,
			FilePath:   "internal/client.go",
			LineRange:  "10-14",
		},
		CommentType: classify.TypeActionable,
		Priority:    classify.PriorityHigh,
	}
}

func TestRenderMissingPRNumber(t *testing.T) {
	r := NewRenderer(FormatMarkdown, DefaultSkeleton(), fixedClock)

	_, err := r.Render(Document{})
	if !errors.Is(err, ErrMissingPRNumber) {
		t.Errorf("Expected ErrMissingPRNumber, got %v", err)
	}
}

func TestRenderZeroComments(t *testing.T) {
	r := NewRenderer(FormatMarkdown, DefaultSkeleton(), fixedClock)

	out, err := r.Render(testDoc(nil))
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if !strings.Contains(out, "0 comments found. There is nothing to address.") {
		t.Error("Expected explicit zero-findings statement")
	}
	// The static skeleton is present even with nothing to address.
	if !strings.Contains(out, "## Priority Matrix") || !strings.Contains(out, "## Methodology") {
		t.Error("Expected skeleton sections in empty document")
	}
}

func TestRenderMarkdownFinding(t *testing.T) {
	r := NewRenderer(FormatMarkdown, DefaultSkeleton(), fixedClock)

	rec := finding("Retry loop never backs off", "Add exponential backoff between attempts.")
	rec.MatchedKeywords = []string{"incorrect"}

	out, err := r.Render(testDoc([]classify.ClassifiedRecord{rec}))
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	for _, want := range []string{
		"### [1] Retry loop never backs off",
		"- Priority: High",
		"- Type: actionable",
		"- Location: `internal/client.go:10-14`",
		"- Matched keywords: incorrect",
		"Add exponential backoff between attempts.",
		"- Generated at: 2025-03-01T12:00:00Z",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q", want)
		}
	}
}

func TestRenderMarkdownPlaceholders(t *testing.T) {
	r := NewRenderer(FormatMarkdown, DefaultSkeleton(), fixedClock)

	rec := classify.ClassifiedRecord{
		CommentType: classify.TypeNitpick,
		Priority:    classify.PriorityLow,
	}

	out, err := r.Render(testDoc([]classify.ClassifiedRecord{rec}))
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if !strings.Contains(out, "(untitled finding)") {
		t.Error("Expected untitled placeholder")
	}
	if !strings.Contains(out, "- Location: location unknown") {
		t.Error("Expected location-unknown placeholder")
	}
	if !strings.Contains(out, "(no rationale provided)") {
		t.Error("Expected rationale placeholder")
	}
}

func TestRenderMarkdownDiffVerbatim(t *testing.T) {
	r := NewRenderer(FormatMarkdown, DefaultSkeleton(), fixedClock)

	diff := "-old := `tmpl`\n+new := ```raw```"
	rec := finding("Use raw string", "See diff.")
	rec.ProposedDiff = diff

	out, err := r.Render(testDoc([]classify.ClassifiedRecord{rec}))
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if !strings.Contains(out, diff) {
		t.Error("Expected diff content byte-for-byte in output")
	}
	// The fence must be longer than the longest backtick run in the diff.
	if !strings.Contains(out, "````diff\n"+diff+"\n````") {
		t.Error("Expected a four-backtick fence around the diff")
	}
}

func TestRenderMarkdownEscapesInlineValues(t *testing.T) {
	r := NewRenderer(FormatMarkdown, DefaultSkeleton(), fixedClock)

	rec := finding("Avoid `eval` in *handler* [here]", "prose")

	out, err := r.Render(testDoc([]classify.ClassifiedRecord{rec}))
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	want := "### [1] Avoid \\`eval\\` in \\*handler\\* \\[here\\]"
	if !strings.Contains(out, want) {
		t.Errorf("Expected escaped title %q in output", want)
	}
}

func TestRenderByteIdentical(t *testing.T) {
	doc := testDoc([]classify.ClassifiedRecord{finding("Stable", "Same input, same bytes.")})

	for _, format := range []Format{FormatMarkdown, FormatXML} {
		r := NewRenderer(format, DefaultSkeleton(), fixedClock)
		first, err := r.Render(doc)
		if err != nil {
			t.Fatalf("Render failed: %v", err)
		}
		for i := 0; i < 5; i++ {
			again, err := r.Render(doc)
			if err != nil {
				t.Fatalf("Render failed: %v", err)
			}
			if again != first {
				t.Fatalf("Format %s output changed between runs", format)
			}
		}
	}
}

func TestRenderXML(t *testing.T) {
	r := NewRenderer(FormatXML, DefaultSkeleton(), fixedClock)

	rec := finding("Escape <input> before use", "Value a < b must hold.")
	rec.AgentInstructions = "Wrap the value in html.EscapeString."

	out, err := r.Render(testDoc([]classify.ClassifiedRecord{rec}))
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	for _, want := range []string{
		`<review_prompt generated_at="2025-03-01T12:00:00Z" repository="acme/widget" pr_number="42">`,
		`<review_comment type="actionable" priority="high" file="internal/client.go" lines="10-14">`,
		"<issue>Escape &lt;input&gt; before use</issue>",
		"<rationale>Value a &lt; b must hold.</rationale>",
		"<instructions>Wrap the value in html.EscapeString.</instructions>",
		"</review_prompt>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestRenderXMLDiffCDATA(t *testing.T) {
	r := NewRenderer(FormatXML, DefaultSkeleton(), fixedClock)

	rec := finding("Keep markers", "diff below")
	rec.ProposedDiff = "-a\n+b ]]> c"

	out, err := r.Render(testDoc([]classify.ClassifiedRecord{rec}))
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if !strings.Contains(out, "<proposed_diff><![CDATA[") {
		t.Error("Expected diff wrapped in CDATA")
	}
	if !strings.Contains(out, "]]]]><![CDATA[>") {
		t.Error("Expected embedded ]]> sequence to be split")
	}
}

func TestRenderXMLLocationUnknown(t *testing.T) {
	r := NewRenderer(FormatXML, DefaultSkeleton(), fixedClock)

	rec := classify.ClassifiedRecord{
		CommentType: classify.TypeNitpick,
		Priority:    classify.PriorityLow,
	}

	out, err := r.Render(testDoc([]classify.ClassifiedRecord{rec}))
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if !strings.Contains(out, `location="unknown"`) {
		t.Error("Expected unknown-location attribute")
	}
}

func TestRenderStatsOrdersFixed(t *testing.T) {
	r := NewRenderer(FormatMarkdown, DefaultSkeleton(), fixedClock)

	doc := testDoc(nil)
	doc.Stats = RunStatistics{
		TotalFound:        5,
		ExcludedThreadIDs: []string{"rc-1"},
		ExcludedResolved:  2,
		DroppedDuplicates: 1,
		CountsByType:      map[string]int{"nitpick": 1, "actionable": 2},
		CountsByPriority:  map[string]int{"low": 1, "critical": 2},
	}

	out, err := r.Render(doc)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if !strings.Contains(out, "- By type: actionable=2, nitpick=1, outside_diff_range=0") {
		t.Error("Expected fixed type display order")
	}
	if !strings.Contains(out, "- By priority: critical=2, high=0, medium=0, low=1") {
		t.Error("Expected fixed priority display order")
	}
	if !strings.Contains(out, "- Excluded as resolved: 2 comments in 1 threads") {
		t.Error("Expected exclusion counts")
	}
}
