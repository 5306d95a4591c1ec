package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// dictionaryOverride is the shape of the optional YAML override file. Only
// the sections present in the file replace the corresponding config values,
// so a project can swap a single dictionary without restating the rest.
type dictionaryOverride struct {
	Dictionaries       *Dictionaries     `yaml:"dictionaries"`
	ResolvedMarkers    []string          `yaml:"resolved_markers"`
	CategoryPrecedence []string          `yaml:"category_precedence"`
	TypeHintTable      map[string]string `yaml:"type_hint_table"`
}

func (c *Config) applyDictionaryOverrides(path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read dictionaries file: %w", err)
	}

	var override dictionaryOverride
	if err := yaml.Unmarshal(data, &override); err != nil {
		return fmt.Errorf("failed to parse dictionaries file: %w", err)
	}

	if d := override.Dictionaries; d != nil {
		if len(d.Security) > 0 {
			c.Dictionaries.Security = d.Security
		}
		if len(d.Functionality) > 0 {
			c.Dictionaries.Functionality = d.Functionality
		}
		if len(d.Quality) > 0 {
			c.Dictionaries.Quality = d.Quality
		}
		if len(d.Style) > 0 {
			c.Dictionaries.Style = d.Style
		}
	}
	if len(override.ResolvedMarkers) > 0 {
		c.ResolvedMarkers = override.ResolvedMarkers
	}
	if len(override.CategoryPrecedence) > 0 {
		c.CategoryPrecedence = override.CategoryPrecedence
	}
	if len(override.TypeHintTable) > 0 {
		c.TypeHintTable = override.TypeHintTable
	}

	return nil
}

// WriteDictionariesTemplate writes a commented starter dictionaries file.
func WriteDictionariesTemplate() error {
	if _, err := os.Stat(DictionariesFile); err == nil {
		return nil
	}

	template := `# Keyword dictionary overrides for reviewprompt.
# Sections present here replace the built-in sets; omitted sections keep
# their defaults. All entries are lowercase substrings.
#
# dictionaries:
#   security:
#     - "sql injection"
#     - "hardcoded secret"
#   style:
#     - "naming"
#
# resolved_markers:
#   - "resolved"
#   - "addressed in"
#
# category_precedence:
#   - security
#   - functionality
#   - quality
#   - style
`
	return os.WriteFile(DictionariesFile, []byte(template), 0644)
}
