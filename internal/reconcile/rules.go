package reconcile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RulesFile is the on-disk format consumed by the CLI: an optional report
// title plus the rule list.
type RulesFile struct {
	Title string      `yaml:"title"`
	Rules []MatchRule `yaml:"rules"`
}

// LoadRules parses a YAML rules file. Rule field validation happens later in
// Reconcile; this only rejects unreadable or structurally malformed files and
// empty rule lists.
func LoadRules(path string) (*RulesFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}

	var rf RulesFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("failed to parse rules file %s: %w", path, err)
	}
	if len(rf.Rules) == 0 {
		return nil, fmt.Errorf("rules file %s defines no rules", path)
	}
	if rf.Title == "" {
		rf.Title = "File match results"
	}
	return &rf, nil
}
