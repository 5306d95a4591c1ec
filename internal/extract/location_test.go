package extract

import "testing"

func testExts() map[string]bool {
	return map[string]bool{"go": true, "py": true, "ts": true}
}

func TestDetectLocation(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantPath  string
		wantRange string
	}{
		{"colon single line", "bug in internal/server/handler.go:42 here", "internal/server/handler.go", "42"},
		{"colon range", "see src/util.py:10-20 please", "src/util.py", "10-20"},
		{"backticked", "check `cmd/main.go:7`", "cmd/main.go", "7"},
		{"paren single", "in app.ts (line 5)", "app.ts", "5"},
		{"paren range", "in app.ts (lines 5-9)", "app.ts", "5-9"},
		{"backslash separators", `fix pkg\util\helper.go:3`, "pkg/util/helper.go", "3"},
		{"dot-slash prefix", "see ./main.go:1", "main.go", "1"},
		{"unknown extension", "see notes.xyz:10", "", ""},
		{"version number", "upgrade to 1.2.3:4 now", "", ""},
		{"no location", "a general remark about the approach", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, lineRange := detectLocation(tt.body, testExts())
			if path != tt.wantPath || lineRange != tt.wantRange {
				t.Errorf("Expected (%q, %q), got (%q, %q)", tt.wantPath, tt.wantRange, path, lineRange)
			}
		})
	}
}

func TestFormatLineRange(t *testing.T) {
	tests := []struct {
		start, end int
		want       string
	}{
		{0, 0, ""},
		{5, 0, "5"},
		{5, 5, "5"},
		{5, 9, "5-9"},
	}

	for _, tt := range tests {
		if got := formatLineRange(tt.start, tt.end); got != tt.want {
			t.Errorf("formatLineRange(%d, %d): expected %q, got %q", tt.start, tt.end, tt.want, got)
		}
	}
}
