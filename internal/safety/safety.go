// Package safety assigns advisory risk levels to generated shell commands.
//
// Classification is lowercase substring matching against a small pattern
// list. It is a best-effort hint for the review prompt, not a security
// boundary: plenty of destructive commands will not match any pattern.
package safety

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Level classifies how much caution a generated command deserves.
type Level string

const (
	LevelSafe    Level = "safe"
	LevelCaution Level = "caution"
	LevelRisky   Level = "risky"
)

// ParseLevel maps a raw model-supplied label to a Level. Matching is
// case-insensitive with surrounding whitespace ignored.
func ParseLevel(input string) (Level, bool) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "safe":
		return LevelSafe, true
	case "caution":
		return LevelCaution, true
	case "risky":
		return LevelRisky, true
	}
	return "", false
}

func (l Level) String() string {
	return string(l)
}

// Classifier holds the substring patterns used to classify commands. Risky
// patterns are checked before caution patterns.
type Classifier struct {
	risky   []string
	caution []string
}

// rulesFile is the YAML schema of the optional user overlay.
type rulesFile struct {
	Risky   []string `yaml:"risky"`
	Caution []string `yaml:"caution"`
}

func defaultRisky() []string {
	return []string{"rm -rf", "mkfs", "dd if=", "shutdown", "reboot"}
}

func defaultCaution() []string {
	return []string{"sudo", "chmod 777"}
}

// NewClassifier returns a classifier with the built-in pattern set.
func NewClassifier() *Classifier {
	return &Classifier{risky: defaultRisky(), caution: defaultCaution()}
}

// LoadClassifier reads the optional rules overlay at path and appends its
// patterns to the built-ins. A missing file yields exactly the built-ins; a
// present but unparseable file is an error so typos do not silently weaken
// the rule set.
func LoadClassifier(path string) (*Classifier, error) {
	c := NewClassifier()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read safety rules %s: %w", path, err)
	}
	var rules rulesFile
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("failed to parse safety rules %s: %w", path, err)
	}
	c.risky = append(c.risky, normalizePatterns(rules.Risky)...)
	c.caution = append(c.caution, normalizePatterns(rules.Caution)...)
	return c, nil
}

// Classify scans the lowercased command text, risky patterns first, then
// caution patterns, and falls through to safe.
func (c *Classifier) Classify(command string) Level {
	lowered := strings.ToLower(command)
	for _, pattern := range c.risky {
		if strings.Contains(lowered, pattern) {
			return LevelRisky
		}
	}
	for _, pattern := range c.caution {
		if strings.Contains(lowered, pattern) {
			return LevelCaution
		}
	}
	return LevelSafe
}

func normalizePatterns(patterns []string) []string {
	var out []string
	for _, p := range patterns {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
