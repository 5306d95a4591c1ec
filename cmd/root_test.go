package cmd

import (
	"bytes"
	"strings"
	"testing"

	"reviewprompt/internal/config"
	"reviewprompt/internal/render"
)

func TestNewRootCmdSubcommands(t *testing.T) {
	cmd := NewRootCmd()

	want := map[string]bool{
		"generate": false,
		"init":     false,
		"post":     false,
		"preview":  false,
		"version":  false,
	}
	for _, sub := range cmd.Commands() {
		if _, ok := want[sub.Name()]; ok {
			want[sub.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("Expected subcommand %q to be registered", name)
		}
	}
}

func TestRootCmdShowsHelp(t *testing.T) {
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !strings.Contains(out.String(), "generate") {
		t.Error("Expected help output to list subcommands")
	}
}

func TestRootCmdRejectsUnknownCommand(t *testing.T) {
	cmd := NewRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"bogus"})

	if err := cmd.Execute(); err == nil {
		t.Error("Expected error for unknown subcommand")
	}
}

func TestResolveFormat(t *testing.T) {
	cfg := config.Default()

	tests := []struct {
		name      string
		flag      string
		cfgFormat string
		want      render.Format
		wantErr   bool
	}{
		{"flag wins", "xml", "markdown", render.FormatXML, false},
		{"config fallback", "", "xml", render.FormatXML, false},
		{"default markdown", "", "", render.FormatMarkdown, false},
		{"unknown", "pdf", "markdown", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg.OutputFormat = tt.cfgFormat
			got, err := resolveFormat(cfg, tt.flag)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Expected error=%v, got %v", tt.wantErr, err)
			}
			if err == nil && got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestFormatExtension(t *testing.T) {
	if got := formatExtension(render.FormatMarkdown); got != "md" {
		t.Errorf("Expected md, got %q", got)
	}
	if got := formatExtension(render.FormatXML); got != "xml" {
		t.Errorf("Expected xml, got %q", got)
	}
}
