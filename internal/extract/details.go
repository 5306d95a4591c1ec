package extract

import (
	"regexp"
	"strings"

	htmlparser "golang.org/x/net/html"
)

// detailsSpan marks a <details>...</details> collapsible section inside a
// comment body, with its <summary> label text.
type detailsSpan struct {
	start   int
	end     int
	summary string
}

var (
	detailsOpenRegex  = regexp.MustCompile(`(?i)<details[^>]*>`)
	detailsCloseRegex = regexp.MustCompile(`(?i)</details>`)
	summaryRegex      = regexp.MustCompile(`(?is)<summary[^>]*>(.*?)</summary>`)
)

// findDetailsSpans locates collapsible sections in a body. Nested sections
// are reported innermost-last; spans are matched by pairing open and close
// tags in document order.
func findDetailsSpans(body string) []detailsSpan {
	opens := detailsOpenRegex.FindAllStringIndex(body, -1)
	closes := detailsCloseRegex.FindAllStringIndex(body, -1)
	if len(opens) == 0 || len(closes) == 0 {
		return nil
	}

	type event struct {
		pos  int
		end  int
		open bool
	}
	var events []event
	for _, o := range opens {
		events = append(events, event{pos: o[0], end: o[1], open: true})
	}
	for _, c := range closes {
		events = append(events, event{pos: c[0], end: c[1], open: false})
	}
	// Events are appended in two sorted runs; merge them by position.
	for i := 1; i < len(events); i++ {
		for j := i; j > 0 && events[j].pos < events[j-1].pos; j-- {
			events[j], events[j-1] = events[j-1], events[j]
		}
	}

	var spans []detailsSpan
	var stack []int
	for _, ev := range events {
		if ev.open {
			stack = append(stack, ev.pos)
			continue
		}
		if len(stack) == 0 {
			continue
		}
		start := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		span := detailsSpan{start: start, end: ev.end}
		span.summary = summaryLabel(body[start:ev.end])
		spans = append(spans, span)
	}
	return spans
}

// summaryLabel extracts the plain-text label of a collapsible section by
// parsing its first <summary> element. Markup inside the label (badges,
// bold text) is flattened to its text content.
func summaryLabel(section string) string {
	m := summaryRegex.FindString(section)
	if m == "" {
		return ""
	}
	doc, err := htmlparser.Parse(strings.NewReader(m))
	if err != nil {
		return strings.TrimSpace(summaryRegex.FindStringSubmatch(section)[1])
	}
	var sb strings.Builder
	var walk func(*htmlparser.Node)
	walk = func(n *htmlparser.Node) {
		if n.Type == htmlparser.TextNode {
			sb.WriteString(n.Data)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)
	return strings.TrimSpace(sb.String())
}

// unwrapDetails strips collapsible wrapper markup from a body while keeping
// the inner text. Summary labels are preserved as plain lines so the section
// heading survives as prose.
func unwrapDetails(body string) string {
	body = summaryRegex.ReplaceAllStringFunc(body, func(m string) string {
		return summaryLabel(m) + "\n"
	})
	body = detailsOpenRegex.ReplaceAllString(body, "")
	body = detailsCloseRegex.ReplaceAllString(body, "")
	return body
}
