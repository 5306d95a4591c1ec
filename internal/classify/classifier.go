// Package classify assigns each structured record a comment type and a
// priority. Both decisions are total and deterministic: type comes from an
// injected exact-lookup table with a conservative default, priority from
// counting keyword-dictionary matches with a fixed tie-break precedence.
package classify

import (
	"sort"
	"strings"

	"reviewprompt/internal/extract"
)

// CommentType is the structural category of a review comment.
type CommentType string

const (
	TypeActionable       CommentType = "actionable"
	TypeNitpick          CommentType = "nitpick"
	TypeOutsideDiffRange CommentType = "outside_diff_range"
)

// Priority is the urgency level of a finding.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

// PriorityOrder maps priorities to sort rank (critical first).
var PriorityOrder = map[Priority]int{
	PriorityCritical: 0,
	PriorityHigh:     1,
	PriorityMedium:   2,
	PriorityLow:      3,
}

// priorityByCategory is the fixed mapping from winning dictionary to
// priority level.
var priorityByCategory = map[string]Priority{
	"security":      PriorityCritical,
	"functionality": PriorityHigh,
	"quality":       PriorityMedium,
	"style":         PriorityLow,
}

// ClassifiedRecord is a structured record plus its classification outcome.
// MatchedKeywords is retained for auditability.
type ClassifiedRecord struct {
	extract.StructuredRecord

	CommentType     CommentType `json:"comment_type"`
	Priority        Priority    `json:"priority"`
	MatchedKeywords []string    `json:"matched_keywords,omitempty"`

	// HintUnmatched flags records whose raw type hint had no table entry,
	// so the conservative default was applied.
	HintUnmatched bool `json:"hint_unmatched,omitempty"`
}

// Options configures the classifier. Everything is injected so tests can run
// the engine with synthetic dictionaries.
type Options struct {
	// TypeHintTable maps normalized hint labels to comment types.
	TypeHintTable map[string]string
	// Dictionaries maps category name to its keyword set (lowercase substrings).
	Dictionaries map[string][]string
	// Precedence is the category order used to break score ties.
	Precedence []string
}

// Classifier performs deterministic type and priority assignment.
type Classifier struct {
	hintTable    map[string]CommentType
	dictionaries map[string][]string
	precedence   []string
}

// NewClassifier builds a classifier from injected options. Unknown type
// names in the hint table are ignored rather than rejected, so a stale
// config entry cannot take the engine down.
func NewClassifier(opts Options) *Classifier {
	hints := make(map[string]CommentType, len(opts.TypeHintTable))
	for label, typeName := range opts.TypeHintTable {
		switch CommentType(strings.ToLower(typeName)) {
		case TypeActionable, TypeNitpick, TypeOutsideDiffRange:
			hints[strings.ToLower(label)] = CommentType(strings.ToLower(typeName))
		}
	}

	dicts := make(map[string][]string, len(opts.Dictionaries))
	for category, words := range opts.Dictionaries {
		lowered := make([]string, 0, len(words))
		for _, w := range words {
			if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
				lowered = append(lowered, w)
			}
		}
		dicts[category] = lowered
	}

	precedence := opts.Precedence
	if len(precedence) == 0 {
		precedence = []string{"security", "functionality", "quality", "style"}
	}

	return &Classifier{hintTable: hints, dictionaries: dicts, precedence: precedence}
}

// Classify assigns type and priority to one record. It never fails and
// always returns exactly one (type, priority) pair, including for records
// with empty text.
func (c *Classifier) Classify(rec extract.StructuredRecord) ClassifiedRecord {
	out := ClassifiedRecord{StructuredRecord: rec}

	if t, ok := c.hintTable[strings.ToLower(rec.RawTypeHint)]; ok {
		out.CommentType = t
	} else {
		// Conservative default; flagged for audit.
		out.CommentType = TypeNitpick
		out.HintUnmatched = true
	}

	out.Priority, out.MatchedKeywords = c.scorePriority(rec.IssueTitle + "\n" + rec.Rationale)
	return out
}

// scorePriority counts matches for every category before picking a winner;
// no category is skipped regardless of intermediate scores. The strictly
// highest count wins, ties fall to the configured precedence, and zero
// matches overall defaults to Low.
func (c *Classifier) scorePriority(text string) (Priority, []string) {
	lower := strings.ToLower(text)

	scores := make(map[string]int, len(c.dictionaries))
	matched := make(map[string][]string, len(c.dictionaries))
	for category, words := range c.dictionaries {
		for _, w := range words {
			if n := strings.Count(lower, w); n > 0 {
				scores[category] += n
				matched[category] = append(matched[category], w)
			}
		}
	}

	winner := ""
	best := 0
	for _, category := range c.precedence {
		if scores[category] > best {
			winner = category
			best = scores[category]
		}
	}
	// Categories outside the precedence list can still win when they beat
	// everything in it; iterate deterministically by name.
	var rest []string
	for category := range scores {
		if !contains(c.precedence, category) {
			rest = append(rest, category)
		}
	}
	sort.Strings(rest)
	for _, category := range rest {
		if scores[category] > best {
			winner = category
			best = scores[category]
		}
	}

	if winner == "" || best == 0 {
		return PriorityLow, nil
	}

	priority, ok := priorityByCategory[winner]
	if !ok {
		priority = PriorityLow
	}

	keywords := matched[winner]
	sort.Strings(keywords)
	return priority, keywords
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
