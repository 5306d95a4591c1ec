package render

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"reviewprompt/internal/classify"
)

// renderXML emits the fixed-vocabulary XML-tagged document. The layout is
// hand-held rather than marshaled so tag order, attribute order, and
// whitespace stay byte-stable across Go versions.
func renderXML(doc Document, skeleton Skeleton, generatedAt string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "<review_prompt generated_at=%s repository=%s pr_number=\"%d\">\n",
		xmlAttr(generatedAt), xmlAttr(doc.PR.Repository), doc.PR.Number)

	writeXMLSection(&sb, "role", skeleton.Persona)
	writeXMLSection(&sb, "priority_matrix", skeleton.PriorityMatrix)
	writeXMLSection(&sb, "methodology", skeleton.Methodology)

	pr := doc.PR
	fmt.Fprintf(&sb, "  <pull_request title=%s author=%s base_ref=%s head_ref=%s files_changed=\"%d\" additions=\"%d\" deletions=\"%d\"/>\n",
		xmlAttr(pr.Title), xmlAttr(pr.Author), xmlAttr(pr.BaseRef), xmlAttr(pr.HeadRef),
		pr.FilesChanged, pr.Additions, pr.Deletions)

	writeXMLStats(&sb, doc.Stats)
	writeXMLComments(&sb, doc.Records)

	writeXMLSection(&sb, "framework_notes", skeleton.Epilogue)
	sb.WriteString("</review_prompt>\n")

	return sb.String()
}

func writeXMLStats(sb *strings.Builder, stats RunStatistics) {
	fmt.Fprintf(sb, "  <statistics comments_found=\"%d\" excluded_resolved=\"%d\" duplicates_removed=\"%d\" dropped_by_cap=\"%d\">\n",
		stats.TotalFound, stats.ExcludedResolved, stats.DroppedDuplicates, stats.DroppedByCap)

	for _, t := range typeOrder {
		fmt.Fprintf(sb, "    <count type=%s value=\"%d\"/>\n", xmlAttr(string(t)), stats.CountsByType[string(t)])
	}
	for _, p := range priorityOrder {
		fmt.Fprintf(sb, "    <count priority=%s value=\"%d\"/>\n", xmlAttr(string(p)), stats.CountsByPriority[string(p)])
	}
	for _, id := range stats.ExcludedThreadIDs {
		fmt.Fprintf(sb, "    <excluded_thread id=%s/>\n", xmlAttr(id))
	}
	if len(stats.Files) > 0 {
		sb.WriteString("    <files>\n")
		for _, f := range stats.Files {
			fmt.Fprintf(sb, "      <file>%s</file>\n", xmlText(f))
		}
		sb.WriteString("    </files>\n")
	}
	sb.WriteString("  </statistics>\n")
}

func writeXMLComments(sb *strings.Builder, records []classify.ClassifiedRecord) {
	fmt.Fprintf(sb, "  <review_comments count=\"%d\">\n", len(records))

	for _, rec := range records {
		fmt.Fprintf(sb, "    <review_comment type=%s priority=%s", xmlAttr(string(rec.CommentType)), xmlAttr(string(rec.Priority)))
		if rec.FilePath != "" {
			fmt.Fprintf(sb, " file=%s", xmlAttr(rec.FilePath))
			if rec.LineRange != "" {
				fmt.Fprintf(sb, " lines=%s", xmlAttr(rec.LineRange))
			}
		} else {
			sb.WriteString(` location="unknown"`)
		}
		sb.WriteString(">\n")

		title := rec.IssueTitle
		if title == "" {
			title = "(untitled finding)"
		}
		fmt.Fprintf(sb, "      <issue>%s</issue>\n", xmlText(title))

		rationale := rec.Rationale
		if rationale == "" {
			rationale = noRationalePlaceholder
		}
		fmt.Fprintf(sb, "      <rationale>%s</rationale>\n", xmlText(rationale))

		if rec.AgentInstructions != "" {
			fmt.Fprintf(sb, "      <instructions>%s</instructions>\n", xmlText(rec.AgentInstructions))
		}
		if rec.ProposedDiff != "" {
			fmt.Fprintf(sb, "      <proposed_diff>%s</proposed_diff>\n", cdata(rec.ProposedDiff))
		}

		sb.WriteString("    </review_comment>\n")
	}

	sb.WriteString("  </review_comments>\n")
}

func writeXMLSection(sb *strings.Builder, tag, content string) {
	fmt.Fprintf(sb, "  <%s>\n%s\n  </%s>\n", tag, xmlText(content), tag)
}

// xmlText escapes character data for element content.
func xmlText(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	// EscapeText also rewrites newlines and tabs; restore them for
	// readability since they are legal in character data.
	out := buf.String()
	out = strings.ReplaceAll(out, "&#xA;", "\n")
	out = strings.ReplaceAll(out, "&#x9;", "\t")
	out = strings.ReplaceAll(out, "&#xD;", "\r")
	return out
}

// xmlAttr escapes and quotes an attribute value.
func xmlAttr(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return `"` + buf.String() + `"`
}

// cdata wraps verbatim text in a CDATA container, splitting any "]]>"
// sequence so the content cannot terminate the section early.
func cdata(s string) string {
	s = strings.ReplaceAll(s, "]]>", "]]]]><![CDATA[>")
	return "<![CDATA[" + s + "]]>"
}
