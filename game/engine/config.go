package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultRules returns the classic rule set: two shuffles per game and a
// fresh deal after every win.
func DefaultRules() *Rules {
	return &Rules{
		Name:          "classic",
		Description:   "Classic Carpet Solitaire with two shuffles per game",
		ShuffleBudget: DefaultShuffleBudget,
	}
}

// ValidateRules validates a rule set.
func ValidateRules(rules *Rules) error {
	if rules == nil {
		return fmt.Errorf("%w: rules cannot be nil", ErrInvalidRules)
	}
	if strings.TrimSpace(rules.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidRules)
	}
	if rules.Description == "" {
		return fmt.Errorf("%w: description is required", ErrInvalidRules)
	}
	if rules.ShuffleBudget < 0 || rules.ShuffleBudget > MaxShuffleBudget {
		return fmt.Errorf("%w: shuffle_budget must be between 0 and %d, got %d",
			ErrInvalidRules, MaxShuffleBudget, rules.ShuffleBudget)
	}
	return nil
}

// IsRulesFile reports whether the file name has a supported rules extension.
func IsRulesFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

// ParseRules decodes a rule set; ext selects YAML (".yaml", ".yml") or JSON.
func ParseRules(data []byte, ext string) (*Rules, error) {
	var rules Rules
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &rules); err != nil {
			return nil, fmt.Errorf("failed to parse rules: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &rules); err != nil {
			return nil, fmt.Errorf("failed to parse rules: %w", err)
		}
	}

	if err := ValidateRules(&rules); err != nil {
		return nil, err
	}
	return &rules, nil
}

// LoadRules reads and validates a rule set file.
func LoadRules(filename string) (*Rules, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return ParseRules(data, filepath.Ext(filename))
}
