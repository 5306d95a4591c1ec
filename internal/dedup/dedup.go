// Package dedup removes near-duplicate findings. Similarity is the Jaccard
// index over normalized token sets, gated on matching file paths, followed
// by per-priority retention caps that bound noisy reviews without touching
// high-severity findings.
package dedup

import (
	"reviewprompt/internal/classify"
)

// Options configures deduplication.
type Options struct {
	// SimilarityThreshold is the Jaccard index at or above which two records
	// with the same file path are considered duplicates.
	SimilarityThreshold float64
	// Caps bound surviving records per priority; zero means unlimited.
	Caps map[classify.Priority]int
	// StopWords are removed before fingerprinting.
	StopWords []string
}

// Result carries the survivors plus drop counts for the statistics section.
type Result struct {
	Kept              []classify.ClassifiedRecord
	DroppedDuplicates int
	DroppedByCap      int
}

// Deduplicator performs single-pass duplicate removal and capping.
type Deduplicator struct {
	threshold float64
	caps      map[classify.Priority]int
	stopWords map[string]bool
}

// New creates a deduplicator.
func New(opts Options) *Deduplicator {
	stop := make(map[string]bool, len(opts.StopWords))
	for _, w := range opts.StopWords {
		stop[w] = true
	}
	return &Deduplicator{
		threshold: opts.SimilarityThreshold,
		caps:      opts.Caps,
		stopWords: stop,
	}
}

// Deduplicate processes records in input order. A later record that
// duplicates an earlier survivor is dropped; survivors are never
// re-evaluated. After duplicate removal the per-priority caps keep the
// earliest-encountered records and drop the remainder.
func (d *Deduplicator) Deduplicate(records []classify.ClassifiedRecord) Result {
	var result Result

	type survivor struct {
		fp       Fingerprint
		filePath string
	}
	var survivors []survivor
	var unique []classify.ClassifiedRecord

	for _, rec := range records {
		fp := NewFingerprint(rec.IssueTitle+" "+rec.Rationale, d.stopWords)

		isDup := false
		for _, s := range survivors {
			if s.filePath != rec.FilePath {
				continue
			}
			if Jaccard(fp, s.fp) >= d.threshold {
				isDup = true
				break
			}
		}
		if isDup {
			result.DroppedDuplicates++
			continue
		}

		survivors = append(survivors, survivor{fp: fp, filePath: rec.FilePath})
		unique = append(unique, rec)
	}

	counts := make(map[classify.Priority]int)
	for _, rec := range unique {
		limit, capped := d.caps[rec.Priority]
		if capped && limit > 0 && counts[rec.Priority] >= limit {
			result.DroppedByCap++
			continue
		}
		counts[rec.Priority]++
		result.Kept = append(result.Kept, rec)
	}

	return result
}
