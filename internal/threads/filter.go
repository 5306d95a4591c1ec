// Package threads implements thread-level resolution filtering. A thread is
// excluded as a whole when its most recent comment matches a configured
// resolution marker; earlier comments discussing resolution do not count.
package threads

import (
	"regexp"
	"sort"
	"strings"

	"reviewprompt/internal/extract"
)

// Filter excludes resolved threads from the record stream.
type Filter struct {
	patterns []*regexp.Regexp
	literals []string
}

// NewFilter compiles the configured markers. A marker that compiles as a
// regular expression is used as one (case-insensitive); anything else falls
// back to case-insensitive substring matching.
func NewFilter(markers []string) *Filter {
	f := &Filter{}
	for _, m := range markers {
		m = strings.TrimSpace(m)
		if m == "" {
			continue
		}
		if re, err := regexp.Compile("(?i)" + m); err == nil {
			f.patterns = append(f.patterns, re)
		} else {
			f.literals = append(f.literals, strings.ToLower(m))
		}
	}
	return f
}

// Result is the audit trail of a filter pass, consumed by the renderer's
// statistics section so exclusions are never silent.
type Result struct {
	Kept              []extract.StructuredRecord
	ExcludedThreadIDs []string
	TotalFound        int
	ExcludedCount     int
}

// Apply partitions records by thread, inspects each thread's chronologically
// last comment, and drops every record of a thread marked resolved. Kept
// records preserve their input order.
func (f *Filter) Apply(records []extract.StructuredRecord) Result {
	result := Result{TotalFound: len(records)}

	byThread := make(map[string][]extract.StructuredRecord)
	var threadOrder []string
	for _, rec := range records {
		if _, seen := byThread[rec.ThreadID]; !seen {
			threadOrder = append(threadOrder, rec.ThreadID)
		}
		byThread[rec.ThreadID] = append(byThread[rec.ThreadID], rec)
	}

	excluded := make(map[string]bool)
	for _, threadID := range threadOrder {
		thread := byThread[threadID]
		if f.threadResolved(thread) {
			excluded[threadID] = true
			result.ExcludedThreadIDs = append(result.ExcludedThreadIDs, threadID)
			result.ExcludedCount += len(thread)
		}
	}

	for _, rec := range records {
		if !excluded[rec.ThreadID] {
			result.Kept = append(result.Kept, rec)
		}
	}
	return result
}

// threadResolved checks the last comment of a thread in chronological order.
func (f *Filter) threadResolved(thread []extract.StructuredRecord) bool {
	if len(thread) == 0 {
		return false
	}

	ordered := make([]extract.StructuredRecord, len(thread))
	copy(ordered, thread)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].CreatedAt != ordered[j].CreatedAt {
			return ordered[i].CreatedAt < ordered[j].CreatedAt
		}
		return ordered[i].CommentID < ordered[j].CommentID
	})

	return f.matches(ordered[len(ordered)-1].SourceBody)
}

func (f *Filter) matches(body string) bool {
	lower := strings.ToLower(body)
	for _, lit := range f.literals {
		if strings.Contains(lower, lit) {
			return true
		}
	}
	for _, re := range f.patterns {
		if re.MatchString(body) {
			return true
		}
	}
	return false
}
