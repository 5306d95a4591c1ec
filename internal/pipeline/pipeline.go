// Package pipeline wires the extraction, resolution-filtering,
// classification, deduplication, and rendering stages into one synchronous
// pass over an in-memory comment set. Every stage is pure; given identical
// comments, configuration, and clock, the output is byte-identical.
package pipeline

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"reviewprompt/internal/classify"
	"reviewprompt/internal/config"
	"reviewprompt/internal/dedup"
	"reviewprompt/internal/extract"
	"reviewprompt/internal/github"
	"reviewprompt/internal/render"
	"reviewprompt/internal/threads"
)

// recordNamespace seeds deterministic record IDs: the same thread and
// comment always produce the same ID, with no persisted state.
var recordNamespace = uuid.MustParse("8f0e2a1c-5b3d-4c6e-9a7f-2d4b6c8e0a1f")

// Pipeline runs the five-stage engine.
type Pipeline struct {
	cfg        *config.Config
	extractor  *extract.Extractor
	filter     *threads.Filter
	classifier *classify.Classifier
	dedup      *dedup.Deduplicator
	renderer   *render.Renderer
}

// New builds a pipeline from configuration. The clock is injected so
// rendering stays reproducible; pass nil outside of tests.
func New(cfg *config.Config, format render.Format, clock func() time.Time) *Pipeline {
	return &Pipeline{
		cfg: cfg,
		extractor: extract.NewExtractor(extract.Options{
			KnownExtensions: cfg.KnownExtensions,
			TypeHintLabels:  cfg.TypeHintLabels(),
		}),
		filter: threads.NewFilter(cfg.ResolvedMarkers),
		classifier: classify.NewClassifier(classify.Options{
			TypeHintTable: cfg.TypeHintTable,
			Dictionaries: map[string][]string{
				"security":      cfg.Dictionaries.Security,
				"functionality": cfg.Dictionaries.Functionality,
				"quality":       cfg.Dictionaries.Quality,
				"style":         cfg.Dictionaries.Style,
			},
			Precedence: cfg.CategoryPrecedence,
		}),
		dedup: dedup.New(dedup.Options{
			SimilarityThreshold: cfg.SimilarityThreshold,
			Caps: map[classify.Priority]int{
				classify.PriorityCritical: cfg.RetentionCaps.Critical,
				classify.PriorityHigh:     cfg.RetentionCaps.High,
				classify.PriorityMedium:   cfg.RetentionCaps.Medium,
				classify.PriorityLow:      cfg.RetentionCaps.Low,
			},
			StopWords: cfg.StopWords,
		}),
		renderer: render.NewRenderer(format, render.DefaultSkeleton(), clock),
	}
}

// Result holds the rendered document and everything computed on the way, so
// callers can display or persist intermediate state.
type Result struct {
	Document string
	Records  []classify.ClassifiedRecord
	Stats    render.RunStatistics
}

// Run executes the full pipeline for one PR.
func (p *Pipeline) Run(pr *github.PRInfo, comments []github.RawComment) (*Result, error) {
	if pr == nil {
		return nil, fmt.Errorf("pipeline: PR metadata is required")
	}

	structured := make([]extract.StructuredRecord, 0, len(comments))
	for _, c := range comments {
		rec := p.extractor.Extract(c)
		rec.ID = RecordID(c.ThreadID, c.ID)
		structured = append(structured, rec)
	}

	// Resolution is a thread-level property, so the filter sees every
	// comment, including human replies; author filtering happens after.
	filtered := p.filter.Apply(structured)

	kept := filtered.Kept
	if p.cfg.OnlyBotAuthors {
		kept = filterBotRecords(kept)
	}

	classified := make([]classify.ClassifiedRecord, 0, len(kept))
	for _, rec := range kept {
		classified = append(classified, p.classifier.Classify(rec))
	}

	deduped := p.dedup.Deduplicate(classified)

	stats := buildStatistics(filtered, deduped)

	doc := render.Document{
		PR: render.PRMetadata{
			Number:       pr.Number,
			Title:        pr.Title,
			Author:       pr.Author,
			BaseRef:      pr.BaseRef,
			HeadRef:      pr.HeadRef,
			Repository:   pr.Repository,
			FilesChanged: pr.FilesChanged,
			Additions:    pr.Additions,
			Deletions:    pr.Deletions,
		},
		Records: deduped.Kept,
		Stats:   stats,
	}

	rendered, err := p.renderer.Render(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to render document: %w", err)
	}

	return &Result{Document: rendered, Records: deduped.Kept, Stats: stats}, nil
}

// RecordID derives a stable identifier for a comment's structured record.
func RecordID(threadID string, commentID int64) string {
	return uuid.NewSHA1(recordNamespace, []byte(fmt.Sprintf("%s/%d", threadID, commentID))).String()
}

func filterBotRecords(records []extract.StructuredRecord) []extract.StructuredRecord {
	var kept []extract.StructuredRecord
	for _, rec := range records {
		if github.IsReviewBot(rec.Author) {
			kept = append(kept, rec)
		}
	}
	return kept
}

func buildStatistics(filtered threads.Result, deduped dedup.Result) render.RunStatistics {
	stats := render.RunStatistics{
		TotalFound:        filtered.TotalFound,
		ExcludedThreadIDs: filtered.ExcludedThreadIDs,
		ExcludedResolved:  filtered.ExcludedCount,
		DroppedDuplicates: deduped.DroppedDuplicates,
		DroppedByCap:      deduped.DroppedByCap,
		CountsByType:      make(map[string]int),
		CountsByPriority:  make(map[string]int),
	}

	fileSet := make(map[string]bool)
	for _, rec := range deduped.Kept {
		stats.CountsByType[string(rec.CommentType)]++
		stats.CountsByPriority[string(rec.Priority)]++
		if rec.FilePath != "" {
			fileSet[rec.FilePath] = true
		}
	}

	for f := range fileSet {
		stats.Files = append(stats.Files, f)
	}
	sort.Strings(stats.Files)

	return stats
}
