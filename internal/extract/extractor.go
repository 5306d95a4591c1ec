// Package extract turns raw bot review comments into typed structured
// records. It applies a cascade of block detectors (type hints, location
// tokens, fenced code blocks, collapsible sections) rather than a single
// monolithic pattern, so a malformed body degrades to a partial record
// instead of failing extraction.
package extract

import (
	"html"
	"regexp"
	"sort"
	"strings"

	"reviewprompt/internal/github"
)

// Options configures the extractor. Both lists are injected so the engine
// can be exercised with synthetic values in tests.
type Options struct {
	// KnownExtensions is the file extension allow-list for location tokens.
	KnownExtensions []string
	// TypeHintLabels are the literal labels recognized as comment-type hints.
	TypeHintLabels []string
}

// Extractor splits raw comment bodies into structured sub-blocks.
type Extractor struct {
	knownExts  map[string]bool
	hintLabels []string
}

// NewExtractor creates an extractor. Hint labels are matched longest-first
// so that "nitpick comments" wins over "nitpick".
func NewExtractor(opts Options) *Extractor {
	exts := make(map[string]bool, len(opts.KnownExtensions))
	for _, ext := range opts.KnownExtensions {
		exts[strings.ToLower(strings.TrimPrefix(ext, "."))] = true
	}

	labels := make([]string, 0, len(opts.TypeHintLabels))
	for _, l := range opts.TypeHintLabels {
		if l = strings.ToLower(strings.TrimSpace(l)); l != "" {
			labels = append(labels, l)
		}
	}
	sort.Slice(labels, func(i, j int) bool {
		if len(labels[i]) != len(labels[j]) {
			return len(labels[i]) > len(labels[j])
		}
		return labels[i] < labels[j]
	})

	return &Extractor{knownExts: exts, hintLabels: labels}
}

var (
	headingRegex  = regexp.MustCompile(`(?m)^#{1,6}\s+(.+)$`)
	boldLineRegex = regexp.MustCompile(`(?m)^\*\*(.+?)\*\*:?\s*$`)
	blankRunRegex = regexp.MustCompile(`\n{3,}`)
)

// Extract converts one raw comment into a structured record. It never fails:
// a body that defeats every detector still produces a record with the
// untitled fallback and empty optional fields.
func (e *Extractor) Extract(raw github.RawComment) StructuredRecord {
	rec := StructuredRecord{
		CommentID:  raw.ID,
		ThreadID:   raw.ThreadID,
		Author:     raw.Author,
		CreatedAt:  raw.CreatedAt,
		SourceBody: raw.Body,
	}

	body := raw.Body
	rec.RawTypeHint = e.detectTypeHint(body)

	spans := findDetailsSpans(body)
	fences := parseFences(body)

	var consumed [][2]int
	for _, f := range fences {
		framing := framingText(body, f.start, spans)
		kind := classifyFence(f, framing)
		switch kind {
		case fenceDiff:
			if rec.ProposedDiff != "" {
				continue
			}
			rec.ProposedDiff = f.content
		case fenceAgentInstructions:
			if rec.AgentInstructions != "" {
				continue
			}
			rec.AgentInstructions = f.content
		default:
			continue
		}
		consumed = append(consumed, consumedSpan(f, spans))
	}

	remaining := removeSpans(body, consumed)

	// Native location metadata wins over text-derived tokens.
	if raw.File != "" {
		rec.FilePath = normalizePath(raw.File)
		rec.LineRange = formatLineRange(raw.Line, raw.EndLine)
	} else {
		rec.FilePath, rec.LineRange = detectLocation(remaining, e.knownExts)
	}

	remaining = unwrapDetails(remaining)
	rec.IssueTitle, remaining = extractTitle(remaining)
	rec.Rationale = tidyProse(remaining)

	if rec.IssueTitle == "" {
		rec.IssueTitle = firstSentence(rec.Rationale)
	}
	if rec.IssueTitle == "" {
		rec.IssueTitle = UntitledFallback
	}

	return rec
}

// detectTypeHint finds the first known type-hint label anywhere in the body.
func (e *Extractor) detectTypeHint(body string) string {
	lower := strings.ToLower(body)
	for _, label := range e.hintLabels {
		if strings.Contains(lower, label) {
			return label
		}
	}
	return ""
}

// consumedSpan widens a consumed fence to its enclosing collapsible section
// when the section label is what identified the fence, so the wrapper markup
// does not bleed into the rationale.
func consumedSpan(f fence, spans []detailsSpan) [2]int {
	for _, s := range spans {
		if f.start < s.start || f.end > s.end {
			continue
		}
		label := strings.ToLower(s.summary)
		if strings.Contains(label, "committable suggestion") ||
			strings.Contains(label, "prompt for ai agents") ||
			strings.Contains(label, "suggested change") {
			return [2]int{s.start, s.end}
		}
	}
	return [2]int{f.start, f.end}
}

// removeSpans deletes the given byte ranges from a body. Ranges may overlap;
// they are merged before slicing.
func removeSpans(body string, spans [][2]int) string {
	if len(spans) == 0 {
		return body
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i][0] < spans[j][0] })

	var sb strings.Builder
	pos := 0
	for _, s := range spans {
		start, end := s[0], s[1]
		if start < pos {
			start = pos
		}
		if end < start {
			continue
		}
		sb.WriteString(body[pos:start])
		pos = end
	}
	sb.WriteString(body[pos:])
	return sb.String()
}

// extractTitle pulls the first heading-like line out of the text, returning
// the title and the text with that line removed.
func extractTitle(text string) (title, rest string) {
	if m := headingRegex.FindStringSubmatchIndex(text); m != nil {
		title = strings.TrimSpace(strings.ReplaceAll(text[m[2]:m[3]], "**", ""))
		return title, text[:m[0]] + text[m[1]:]
	}
	if m := boldLineRegex.FindStringSubmatchIndex(text); m != nil {
		title = strings.TrimSpace(text[m[2]:m[3]])
		return title, text[:m[0]] + text[m[1]:]
	}
	return "", text
}

// firstSentence derives a title from prose when no heading exists.
func firstSentence(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		text = text[:idx]
	}
	if idx := strings.Index(text, ". "); idx >= 0 {
		text = text[:idx+1]
	}
	text = strings.TrimSpace(text)
	runes := []rune(text)
	if len(runes) > 120 {
		text = string(runes[:117]) + "..."
	}
	return text
}

// tidyProse unescapes HTML entities and collapses blank-line runs left
// behind by removed blocks.
func tidyProse(text string) string {
	text = html.UnescapeString(text)
	text = blankRunRegex.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
