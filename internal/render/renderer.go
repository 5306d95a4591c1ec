// Package render assembles the final instruction document from the
// surviving classified records, the run statistics, and a static template
// skeleton. Rendering is a pure function of its inputs: the timestamp comes
// from an injected clock, so identical inputs produce byte-identical output.
package render

import (
	"errors"
	"time"

	"reviewprompt/internal/classify"
)

// Format selects the output syntax.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatXML      Format = "xml"
)

// ErrMissingPRNumber is the only fatal render error: without a PR identifier
// the document cannot reference what it describes. Missing per-record fields
// degrade to placeholders instead.
var ErrMissingPRNumber = errors.New("render: document has no PR number")

// PRMetadata is the pull-request context block of the document.
type PRMetadata struct {
	Number       int    `json:"pr_number"`
	Title        string `json:"title"`
	Author       string `json:"author"`
	BaseRef      string `json:"base_ref"`
	HeadRef      string `json:"head_ref"`
	Repository   string `json:"repository"`
	FilesChanged int    `json:"files_changed"`
	Additions    int    `json:"additions"`
	Deletions    int    `json:"deletions"`
}

// RunStatistics reports what the pipeline dropped, so data loss is always
// observable in the final document.
type RunStatistics struct {
	TotalFound        int            `json:"total_found"`
	ExcludedThreadIDs []string       `json:"excluded_thread_ids,omitempty"`
	ExcludedResolved  int            `json:"excluded_resolved"`
	DroppedDuplicates int            `json:"dropped_duplicates"`
	DroppedByCap      int            `json:"dropped_by_cap"`
	CountsByType      map[string]int `json:"counts_by_type,omitempty"`
	CountsByPriority  map[string]int `json:"counts_by_priority,omitempty"`
	Files             []string       `json:"files,omitempty"`
}

// Document is everything the renderer needs for one output.
type Document struct {
	PR      PRMetadata
	Records []classify.ClassifiedRecord
	Stats   RunStatistics
}

// Renderer renders documents in a fixed format with an injected clock.
type Renderer struct {
	format   Format
	skeleton Skeleton
	clock    func() time.Time
}

// NewRenderer creates a renderer. A nil clock falls back to time.Now; tests
// pass a fixed instant to keep output reproducible.
func NewRenderer(format Format, skeleton Skeleton, clock func() time.Time) *Renderer {
	if clock == nil {
		clock = time.Now
	}
	return &Renderer{format: format, skeleton: skeleton, clock: clock}
}

// Render produces the output document. Every surviving record appears
// exactly once; records with missing fields render placeholders rather than
// being omitted.
func (r *Renderer) Render(doc Document) (string, error) {
	if doc.PR.Number == 0 {
		return "", ErrMissingPRNumber
	}

	generatedAt := r.clock().UTC().Format(time.RFC3339)

	switch r.format {
	case FormatXML:
		return renderXML(doc, r.skeleton, generatedAt), nil
	default:
		return renderMarkdown(doc, r.skeleton, generatedAt), nil
	}
}

// Fixed display orders so aggregate sections are byte-stable.
var (
	typeOrder     = []classify.CommentType{classify.TypeActionable, classify.TypeNitpick, classify.TypeOutsideDiffRange}
	priorityOrder = []classify.Priority{classify.PriorityCritical, classify.PriorityHigh, classify.PriorityMedium, classify.PriorityLow}
)

const (
	noRationalePlaceholder = "(no rationale provided)"
	locationUnknownLabel   = "location unknown"
)
