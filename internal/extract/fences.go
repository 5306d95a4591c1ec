package extract

import (
	"strings"
)

// fence is a single fenced code block found in a comment body.
type fence struct {
	start   int    // byte offset of the opening fence line
	end     int    // byte offset one past the closing fence line (or len(body))
	info    string // info string after the opening fence, lowercased
	content string // verbatim inner text, lines joined with \n
}

// fenceKind classifies what a fence should become in the structured record.
type fenceKind int

const (
	fenceOther fenceKind = iota
	fenceDiff
	fenceAgentInstructions
)

// parseFences scans a body for fenced code blocks (``` or ~~~, three or more
// markers). An unterminated fence runs to the end of the body.
func parseFences(body string) []fence {
	var fences []fence

	lines := strings.SplitAfter(body, "\n")
	offset := 0
	inFence := false
	var cur fence
	var curMarker byte
	var curLen int
	var contentLines []string

	for _, line := range lines {
		trimmed := strings.TrimRight(line, "\n")
		stripped := strings.TrimLeft(trimmed, " ")

		if !inFence {
			if marker, n, info, ok := openingFence(stripped); ok {
				inFence = true
				curMarker, curLen = marker, n
				cur = fence{start: offset, info: strings.ToLower(strings.TrimSpace(info))}
				contentLines = contentLines[:0]
			}
		} else {
			if closingFence(stripped, curMarker, curLen) {
				cur.end = offset + len(line)
				cur.content = strings.Join(contentLines, "\n")
				fences = append(fences, cur)
				inFence = false
			} else {
				contentLines = append(contentLines, trimmed)
			}
		}
		offset += len(line)
	}

	if inFence {
		cur.end = len(body)
		cur.content = strings.Join(contentLines, "\n")
		fences = append(fences, cur)
	}

	return fences
}

func openingFence(line string) (marker byte, length int, info string, ok bool) {
	for _, m := range []byte{'`', '~'} {
		n := 0
		for n < len(line) && line[n] == m {
			n++
		}
		if n >= 3 {
			rest := line[n:]
			// Backtick info strings cannot themselves contain backticks.
			if m == '`' && strings.Contains(rest, "`") {
				continue
			}
			return m, n, rest, true
		}
	}
	return 0, 0, "", false
}

func closingFence(line string, marker byte, length int) bool {
	n := 0
	for n < len(line) && line[n] == marker {
		n++
	}
	return n >= length && strings.TrimSpace(line[n:]) == ""
}

// looksLikeDiff reports whether fence content has a unified-diff shape:
// added and removed lines, or hunk headers.
func looksLikeDiff(content string) bool {
	plus, minus := 0, 0
	for _, line := range strings.Split(content, "\n") {
		switch {
		case strings.HasPrefix(line, "@@"):
			return true
		case strings.HasPrefix(line, "+"):
			plus++
		case strings.HasPrefix(line, "-"):
			minus++
		}
	}
	return plus > 0 && minus > 0 && plus+minus >= 2
}

// classifyFence decides what a fence represents based on its info string,
// its content shape, and the framing text immediately above it.
func classifyFence(f fence, framing string) fenceKind {
	framing = strings.ToLower(framing)

	if strings.Contains(framing, "prompt for ai agents") {
		return fenceAgentInstructions
	}
	if strings.Contains(framing, "agent") && strings.Contains(framing, "instruction") {
		return fenceAgentInstructions
	}

	if f.info == "diff" || f.info == "patch" {
		return fenceDiff
	}
	if strings.Contains(framing, "committable suggestion") ||
		strings.Contains(framing, "before") || strings.Contains(framing, "after") {
		return fenceDiff
	}
	if f.info == "suggestion" {
		return fenceDiff
	}
	if looksLikeDiff(f.content) {
		return fenceDiff
	}
	return fenceOther
}

// framingText returns up to three non-blank lines preceding the given byte
// offset, plus the label of any enclosing collapsible section.
func framingText(body string, offset int, spans []detailsSpan) string {
	var parts []string

	for _, s := range spans {
		if offset >= s.start && offset < s.end {
			parts = append(parts, s.summary)
		}
	}

	before := body[:offset]
	lines := strings.Split(before, "\n")
	found := 0
	for i := len(lines) - 1; i >= 0 && found < 3; i-- {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		parts = append(parts, line)
		found++
	}

	return strings.Join(parts, "\n")
}
