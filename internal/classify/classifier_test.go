package classify

import (
	"reflect"
	"testing"

	"reviewprompt/internal/extract"
)

func testClassifier() *Classifier {
	return NewClassifier(Options{
		TypeHintTable: map[string]string{
			"potential issue":    "actionable",
			"nitpick":            "nitpick",
			"outside diff range": "outside_diff_range",
		},
		Dictionaries: map[string][]string{
			"security":      {"injection", "sanitiz", "credential", "vulnerab"},
			"functionality": {"crash", "nil pointer", "incorrect", "leak"},
			"quality":       {"refactor", "duplicate code", "error handling"},
			"style":         {"naming", "typo", "formatting"},
		},
		Precedence: []string{"security", "functionality", "quality", "style"},
	})
}

func TestClassifyTypeFromHint(t *testing.T) {
	tests := []struct {
		name          string
		hint          string
		wantType      CommentType
		wantUnmatched bool
	}{
		{"actionable hint", "potential issue", TypeActionable, false},
		{"nitpick hint", "nitpick", TypeNitpick, false},
		{"outside diff hint", "outside diff range", TypeOutsideDiffRange, false},
		{"unknown hint", "review summary", TypeNitpick, true},
		{"no hint", "", TypeNitpick, true},
	}

	c := testClassifier()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(extract.StructuredRecord{RawTypeHint: tt.hint})
			if got.CommentType != tt.wantType {
				t.Errorf("Expected type %s, got %s", tt.wantType, got.CommentType)
			}
			if got.HintUnmatched != tt.wantUnmatched {
				t.Errorf("Expected HintUnmatched=%v, got %v", tt.wantUnmatched, got.HintUnmatched)
			}
		})
	}
}

func TestClassifySQLInjectionIsCritical(t *testing.T) {
	got := testClassifier().Classify(extract.StructuredRecord{
		IssueTitle: "SQL injection in user lookup",
		Rationale:  "The query concatenates raw input; sanitize it with a parameterized statement.",
	})

	if got.Priority != PriorityCritical {
		t.Errorf("Expected critical priority, got %s", got.Priority)
	}
	if !reflect.DeepEqual(got.MatchedKeywords, []string{"injection", "sanitiz"}) {
		t.Errorf("Expected sorted matched keywords, got %v", got.MatchedKeywords)
	}
}

func TestClassifyPriorityByCategory(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Priority
	}{
		{"functionality", "This can crash when the slice is empty.", PriorityHigh},
		{"quality", "Please refactor to improve the error handling here.", PriorityMedium},
		{"style", "There is a typo in the variable naming.", PriorityLow},
	}

	c := testClassifier()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(extract.StructuredRecord{Rationale: tt.text})
			if got.Priority != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got.Priority)
			}
		})
	}
}

func TestClassifyTieBreaksByPrecedence(t *testing.T) {
	// One security match and one style match: equal counts, security wins.
	got := testClassifier().Classify(extract.StructuredRecord{
		Rationale: "A typo here, and the credential is logged in plain text.",
	})

	if got.Priority != PriorityCritical {
		t.Errorf("Expected precedence tie-break to pick security, got %s", got.Priority)
	}
}

func TestClassifyHigherCountBeatsPrecedence(t *testing.T) {
	// Two style matches outscore one security match.
	got := testClassifier().Classify(extract.StructuredRecord{
		Rationale: "Fix the typo and the naming; also check the credential handling.",
	})

	if got.Priority != PriorityLow {
		t.Errorf("Expected higher count to win, got %s", got.Priority)
	}
}

func TestClassifyNoMatchesDefaultsToLow(t *testing.T) {
	tests := []struct {
		name string
		rec  extract.StructuredRecord
	}{
		{"neutral text", extract.StructuredRecord{Rationale: "Looks good overall, just one question."}},
		{"empty record", extract.StructuredRecord{}},
	}

	c := testClassifier()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.rec)
			if got.Priority != PriorityLow {
				t.Errorf("Expected low priority default, got %s", got.Priority)
			}
			if got.MatchedKeywords != nil {
				t.Errorf("Expected no matched keywords, got %v", got.MatchedKeywords)
			}
		})
	}
}

func TestClassifyTitleCountsTowardScore(t *testing.T) {
	got := testClassifier().Classify(extract.StructuredRecord{
		IssueTitle: "Possible goroutine leak",
		Rationale:  "The channel is never closed.",
	})

	if got.Priority != PriorityHigh {
		t.Errorf("Expected title keywords to score, got %s", got.Priority)
	}
}

func TestNewClassifierIgnoresUnknownTypeNames(t *testing.T) {
	c := NewClassifier(Options{
		TypeHintTable: map[string]string{"weird": "not_a_type", "nitpick": "nitpick"},
	})

	got := c.Classify(extract.StructuredRecord{RawTypeHint: "weird"})
	if got.CommentType != TypeNitpick || !got.HintUnmatched {
		t.Errorf("Expected stale table entry ignored, got %s (unmatched=%v)", got.CommentType, got.HintUnmatched)
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	c := testClassifier()
	rec := extract.StructuredRecord{
		IssueTitle: "Incorrect error handling on crash path",
		Rationale:  "The retry loop leaks connections and the naming is off.",
	}

	first := c.Classify(rec)
	for i := 0; i < 20; i++ {
		if got := c.Classify(rec); got.Priority != first.Priority || !reflect.DeepEqual(got.MatchedKeywords, first.MatchedKeywords) {
			t.Fatalf("Classification changed across runs: %v vs %v", got, first)
		}
	}
}
