// Package config holds the externally injectable knobs of the
// classification engine: resolution markers, keyword dictionaries,
// similarity threshold, retention caps, and the output template variant.
// Nothing in the engine packages hardcodes these values.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	ConfigDir        = ".review-prompt"
	ConfigFile       = ".review-prompt/config.json"
	DictionariesFile = ".review-prompt/dictionaries.yml"
)

type Config struct {
	ResolvedMarkers     []string          `json:"resolved_markers"`
	Dictionaries        Dictionaries      `json:"dictionaries"`
	CategoryPrecedence  []string          `json:"category_precedence"`
	TypeHintTable       map[string]string `json:"type_hint_table"`
	SimilarityThreshold float64           `json:"similarity_threshold"`
	RetentionCaps       RetentionCaps     `json:"retention_caps"`
	OutputFormat        string            `json:"output_format"` // "markdown" or "xml"
	KnownExtensions     []string          `json:"known_extensions"`
	StopWords           []string          `json:"stop_words"`
	OnlyBotAuthors      bool              `json:"only_bot_authors"`
	VerboseMode         bool              `json:"verbose_mode"`
}

// Dictionaries are the four named keyword sets used for priority scoring.
// All entries are lowercase substrings.
type Dictionaries struct {
	Security      []string `json:"security" yaml:"security"`
	Functionality []string `json:"functionality" yaml:"functionality"`
	Quality       []string `json:"quality" yaml:"quality"`
	Style         []string `json:"style" yaml:"style"`
}

// RetentionCaps bound how many findings survive per priority after
// deduplication. Zero means unlimited.
type RetentionCaps struct {
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
}

func defaultConfig() *Config {
	return &Config{
		ResolvedMarkers: []string{
			"resolved",
			"addressed in",
			"fixed in",
			"no longer applicable",
		},
		Dictionaries: Dictionaries{
			Security: []string{
				"security", "vulnerab", "injection", "xss", "csrf",
				"authenticat", "authoriz", "password", "secret", "credential",
				"sanitiz", "unescaped", "overflow", "race condition",
				"privilege", "unsafe", "exploit", "traversal",
			},
			Functionality: []string{
				"bug", "crash", "panic", "nil pointer", "null pointer",
				"incorrect", "broken", "fails", "failure", "exception",
				"leak", "deadlock", "off-by-one", "regression", "data loss",
				"wrong result", "does not handle", "missing check",
			},
			Quality: []string{
				"refactor", "duplicate code", "duplicated", "complexity",
				"maintainab", "readab", "test coverage", "error handling",
				"edge case", "performance", "inefficien", "optimiz",
				"magic number", "hardcoded", "coupling", "unused",
			},
			Style: []string{
				"style", "naming", "typo", "formatting", "indent",
				"whitespace", "comment", "docstring", "doc comment",
				"convention", "lint", "spacing", "capitaliz", "trailing",
			},
		},
		CategoryPrecedence: []string{"security", "functionality", "quality", "style"},
		TypeHintTable: map[string]string{
			"actionable":                  "actionable",
			"actionable comments posted":  "actionable",
			"potential issue":             "actionable",
			"refactor suggestion":         "actionable",
			"nitpick":                     "nitpick",
			"nitpick comments":            "nitpick",
			"outside diff range":          "outside_diff_range",
			"outside diff range comments": "outside_diff_range",
		},
		SimilarityThreshold: 0.6,
		RetentionCaps: RetentionCaps{
			Critical: 0,
			High:     0,
			Medium:   10,
			Low:      5,
		},
		OutputFormat: "markdown",
		KnownExtensions: []string{
			"go", "py", "js", "ts", "tsx", "jsx", "java", "rb", "rs",
			"c", "h", "cc", "cpp", "hpp", "cs", "php", "swift", "kt",
			"scala", "sh", "bash", "sql", "yaml", "yml", "json", "toml",
			"md", "proto", "tf", "html", "css",
		},
		StopWords: []string{
			"the", "and", "for", "that", "this", "with", "from", "are",
			"was", "were", "been", "have", "has", "had", "not", "but",
			"should", "could", "would", "will", "can", "may", "might",
			"here", "there", "when", "then", "than", "also", "into",
			"your", "you", "its", "all", "any", "use", "used", "using",
		},
		OnlyBotAuthors: true,
		VerboseMode:    false,
	}
}

// Default returns the built-in configuration without touching the
// filesystem.
func Default() *Config {
	return defaultConfig()
}

// Load reads the config file, creating it with defaults on first run.
// A dictionaries override file, when present, replaces the keyword sets.
func Load() (*Config, error) {
	cfg, err := loadFile()
	if err != nil {
		return nil, err
	}

	if err := cfg.applyDictionaryOverrides(DictionariesFile); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile() (*Config, error) {
	if _, err := os.Stat(ConfigFile); os.IsNotExist(err) {
		cfg := defaultConfig()
		if err := save(cfg); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		return cfg, nil
	}

	data, err := os.ReadFile(ConfigFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	mergeWithDefaults(&cfg)
	return &cfg, nil
}

func save(cfg *Config) error {
	dir := filepath.Dir(ConfigFile)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(ConfigFile, data, 0644)
}

// mergeWithDefaults fills any missing fields from the defaults so old or
// partial config files keep working.
func mergeWithDefaults(cfg *Config) {
	defaults := defaultConfig()

	if len(cfg.ResolvedMarkers) == 0 {
		cfg.ResolvedMarkers = defaults.ResolvedMarkers
	}
	if len(cfg.Dictionaries.Security) == 0 {
		cfg.Dictionaries.Security = defaults.Dictionaries.Security
	}
	if len(cfg.Dictionaries.Functionality) == 0 {
		cfg.Dictionaries.Functionality = defaults.Dictionaries.Functionality
	}
	if len(cfg.Dictionaries.Quality) == 0 {
		cfg.Dictionaries.Quality = defaults.Dictionaries.Quality
	}
	if len(cfg.Dictionaries.Style) == 0 {
		cfg.Dictionaries.Style = defaults.Dictionaries.Style
	}
	if len(cfg.CategoryPrecedence) == 0 {
		cfg.CategoryPrecedence = defaults.CategoryPrecedence
	}
	if len(cfg.TypeHintTable) == 0 {
		cfg.TypeHintTable = defaults.TypeHintTable
	}
	if cfg.SimilarityThreshold == 0 {
		cfg.SimilarityThreshold = defaults.SimilarityThreshold
	}
	if cfg.RetentionCaps == (RetentionCaps{}) {
		cfg.RetentionCaps = defaults.RetentionCaps
	}
	if cfg.OutputFormat == "" {
		cfg.OutputFormat = defaults.OutputFormat
	}
	if len(cfg.KnownExtensions) == 0 {
		cfg.KnownExtensions = defaults.KnownExtensions
	}
	if len(cfg.StopWords) == 0 {
		cfg.StopWords = defaults.StopWords
	}
}

// Save writes the configuration to file.
func (c *Config) Save() error {
	return save(c)
}

// CreateDefault creates the default configuration file.
func CreateDefault() error {
	return save(defaultConfig())
}

// TypeHintLabels returns the hint labels the extractor should scan for.
func (c *Config) TypeHintLabels() []string {
	labels := make([]string, 0, len(c.TypeHintTable))
	for label := range c.TypeHintTable {
		labels = append(labels, label)
	}
	return labels
}
