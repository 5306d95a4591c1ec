package extract

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// path:12 or path:12-34
	locColonRegex = regexp.MustCompile("`?" + `([\w][\w./\\-]*\.[A-Za-z0-9]{1,8})` + "`?" + `:(\d+)(?:-(\d+))?`)
	// path (lines 12-34) or path (line 12)
	locParenRegex = regexp.MustCompile("`?" + `([\w][\w./\\-]*\.[A-Za-z0-9]{1,8})` + "`?" + `\s*\(lines?\s+(\d+)(?:\s*[-\x{2013}]\s*(\d+))?\)`)
)

// detectLocation finds the first file/line token in a body using the known
// positional patterns. The path separator is unified to forward slashes and
// the extension must be on the allow-list, otherwise nothing is returned.
func detectLocation(body string, knownExts map[string]bool) (filePath, lineRange string) {
	for _, re := range []*regexp.Regexp{locColonRegex, locParenRegex} {
		m := re.FindStringSubmatch(body)
		if m == nil {
			continue
		}
		path := normalizePath(m[1])
		if !extensionAllowed(path, knownExts) {
			continue
		}
		if m[3] != "" && m[3] != m[2] {
			return path, fmt.Sprintf("%s-%s", m[2], m[3])
		}
		return path, m[2]
	}
	return "", ""
}

func normalizePath(path string) string {
	path = strings.ReplaceAll(path, `\`, "/")
	path = strings.TrimPrefix(path, "./")
	return path
}

func extensionAllowed(path string, knownExts map[string]bool) bool {
	idx := strings.LastIndex(path, ".")
	if idx < 0 || idx == len(path)-1 {
		return false
	}
	return knownExts[strings.ToLower(path[idx+1:])]
}

// formatLineRange renders native line metadata in the same shape the text
// detectors produce.
func formatLineRange(start, end int) string {
	if start <= 0 {
		return ""
	}
	if end > start {
		return fmt.Sprintf("%d-%d", start, end)
	}
	return fmt.Sprintf("%d", start)
}
