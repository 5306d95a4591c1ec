package render

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"reviewprompt/internal/classify"
)

var titleCaser = cases.Title(language.English)

func renderMarkdown(doc Document, skeleton Skeleton, generatedAt string) string {
	var sb strings.Builder

	sb.WriteString("# Code Review Follow-up Instructions\n\n")
	sb.WriteString(skeleton.Persona)
	sb.WriteString("\n\n## Priority Matrix\n\n```text\n")
	sb.WriteString(skeleton.PriorityMatrix)
	sb.WriteString("\n```\n\n## Methodology\n\n")
	sb.WriteString(skeleton.Methodology)
	sb.WriteString("\n\n## Pull Request Context\n\n")

	pr := doc.PR
	if pr.Repository != "" {
		fmt.Fprintf(&sb, "- Repository: `%s`\n", escapeInline(pr.Repository))
	}
	fmt.Fprintf(&sb, "- Pull request: #%d", pr.Number)
	if pr.Title != "" {
		fmt.Fprintf(&sb, " — %s", escapeInline(pr.Title))
	}
	sb.WriteString("\n")
	if pr.Author != "" {
		fmt.Fprintf(&sb, "- Author: %s\n", escapeInline(pr.Author))
	}
	if pr.HeadRef != "" || pr.BaseRef != "" {
		fmt.Fprintf(&sb, "- Branch: `%s` into `%s`\n", escapeInline(pr.HeadRef), escapeInline(pr.BaseRef))
	}
	fmt.Fprintf(&sb, "- Diff size: %d files changed, +%d/-%d\n", pr.FilesChanged, pr.Additions, pr.Deletions)
	fmt.Fprintf(&sb, "- Generated at: %s\n", generatedAt)

	sb.WriteString("\n## Review Statistics\n\n")
	writeStatsMarkdown(&sb, doc.Stats)

	sb.WriteString("\n## Findings\n\n")
	if len(doc.Records) == 0 {
		sb.WriteString("0 comments found. There is nothing to address.\n")
	} else {
		for i, rec := range doc.Records {
			writeFindingMarkdown(&sb, i+1, rec)
		}
	}

	sb.WriteString("\n## Framework Notes\n\n")
	sb.WriteString(skeleton.Epilogue)
	sb.WriteString("\n")

	return sb.String()
}

func writeStatsMarkdown(sb *strings.Builder, stats RunStatistics) {
	fmt.Fprintf(sb, "- Comments found: %d\n", stats.TotalFound)
	fmt.Fprintf(sb, "- Excluded as resolved: %d comments in %d threads\n",
		stats.ExcludedResolved, len(stats.ExcludedThreadIDs))
	fmt.Fprintf(sb, "- Near-duplicates removed: %d\n", stats.DroppedDuplicates)
	fmt.Fprintf(sb, "- Dropped by retention caps: %d\n", stats.DroppedByCap)

	var typeParts []string
	for _, t := range typeOrder {
		typeParts = append(typeParts, fmt.Sprintf("%s=%d", t, stats.CountsByType[string(t)]))
	}
	fmt.Fprintf(sb, "- By type: %s\n", strings.Join(typeParts, ", "))

	var prioParts []string
	for _, p := range priorityOrder {
		prioParts = append(prioParts, fmt.Sprintf("%s=%d", p, stats.CountsByPriority[string(p)]))
	}
	fmt.Fprintf(sb, "- By priority: %s\n", strings.Join(prioParts, ", "))

	if len(stats.Files) > 0 {
		fmt.Fprintf(sb, "- Files with findings: %s\n", strings.Join(escapeAll(stats.Files), ", "))
	}
}

func writeFindingMarkdown(sb *strings.Builder, index int, rec classify.ClassifiedRecord) {
	title := rec.IssueTitle
	if title == "" {
		title = "(untitled finding)"
	}
	fmt.Fprintf(sb, "### [%d] %s\n\n", index, escapeInline(title))

	fmt.Fprintf(sb, "- Priority: %s\n", titleCaser.String(string(rec.Priority)))
	fmt.Fprintf(sb, "- Type: %s\n", rec.CommentType)
	if rec.FilePath != "" {
		loc := rec.FilePath
		if rec.LineRange != "" {
			loc += ":" + rec.LineRange
		}
		fmt.Fprintf(sb, "- Location: `%s`\n", escapeInline(loc))
	} else {
		fmt.Fprintf(sb, "- Location: %s\n", locationUnknownLabel)
	}
	if len(rec.MatchedKeywords) > 0 {
		fmt.Fprintf(sb, "- Matched keywords: %s\n", strings.Join(escapeAll(rec.MatchedKeywords), ", "))
	}
	sb.WriteString("\n")

	rationale := rec.Rationale
	if rationale == "" {
		rationale = noRationalePlaceholder
	}
	sb.WriteString(rationale)
	sb.WriteString("\n")

	if rec.AgentInstructions != "" {
		sb.WriteString("\n#### Agent Instructions\n\n")
		writeFencedBlock(sb, "text", rec.AgentInstructions)
	}

	if rec.ProposedDiff != "" {
		sb.WriteString("\n#### Proposed Diff\n\n")
		writeFencedBlock(sb, "diff", rec.ProposedDiff)
	}

	sb.WriteString("\n")
}

// writeFencedBlock emits verbatim content in a fence long enough that no
// backtick run inside the content can close it early.
func writeFencedBlock(sb *strings.Builder, info, content string) {
	fenceLen := 3
	run := 0
	for _, r := range content {
		if r == '`' {
			run++
			if run >= fenceLen {
				fenceLen = run + 1
			}
		} else {
			run = 0
		}
	}
	fence := strings.Repeat("`", fenceLen)
	sb.WriteString(fence)
	sb.WriteString(info)
	sb.WriteString("\n")
	sb.WriteString(content)
	sb.WriteString("\n")
	sb.WriteString(fence)
	sb.WriteString("\n")
}

// escapeInline neutralizes markdown structure characters in dynamic values
// substituted into headings and list items.
func escapeInline(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	replacer := strings.NewReplacer(
		"`", "\\`",
		"*", "\\*",
		"_", "\\_",
		"[", "\\[",
		"]", "\\]",
		"<", "\\<",
		">", "\\>",
	)
	return replacer.Replace(s)
}

func escapeAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = escapeInline(v)
	}
	return out
}
