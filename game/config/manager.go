package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/wricardo/carpet-solitaire/game/engine"
	"github.com/wricardo/carpet-solitaire/game/service"
)

var (
	ErrConfigNotFound = errors.New("configuration not found")
	ErrInvalidConfig  = errors.New("invalid configuration")
)

// extensions are tried in this order when a rule set is named without one
var extensions = []string{".json", ".yaml", ".yml"}

// Manager handles rule set loading and caching
type Manager struct {
	configDir    string
	defaultRules *engine.Rules
	configs      map[string]*engine.Rules
	mu           sync.RWMutex
}

// NewManager creates a new configuration manager
func NewManager(configDir string) (*Manager, error) {
	// Ensure config directory exists
	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("config directory does not exist: %s", configDir)
	}

	m := &Manager{
		configDir: configDir,
		configs:   make(map[string]*engine.Rules),
	}

	m.loadDefaultConfig()
	return m, nil
}

// LoadConfig loads a rule set by name
func (m *Manager) LoadConfig(name string) (*engine.Rules, error) {
	if engine.IsRulesFile(name) {
		name = strings.TrimSuffix(name, filepath.Ext(name))
	}

	m.mu.RLock()
	// Check cache first
	if rules, exists := m.configs[name]; exists {
		m.mu.RUnlock()
		return rules, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if rules, exists := m.configs[name]; exists {
		return rules, nil
	}

	path, err := m.findFile(name)
	if err != nil {
		return nil, err
	}

	rules, err := engine.LoadRules(path)
	if err != nil {
		if errors.Is(err, engine.ErrInvalidRules) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
		return nil, fmt.Errorf("failed to read config %s: %w", name, err)
	}

	m.configs[name] = rules
	return rules, nil
}

// findFile returns the path of the first rule set file matching name
func (m *Manager) findFile(name string) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return "", ErrConfigNotFound
	}
	for _, ext := range extensions {
		path := filepath.Join(m.configDir, name+ext)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", ErrConfigNotFound
}

// ListConfigs returns information about all available rule sets
func (m *Manager) ListConfigs() ([]*service.ConfigInfo, error) {
	entries, err := os.ReadDir(m.configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read config directory: %w", err)
	}

	configs := []*service.ConfigInfo{}
	seen := make(map[string]bool)

	for _, entry := range entries {
		if entry.IsDir() || !engine.IsRulesFile(entry.Name()) {
			continue
		}

		id := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		if seen[id] {
			continue
		}

		rules, err := m.LoadConfig(id)
		if err != nil {
			logrus.WithError(err).WithField("file", entry.Name()).Warn("Skipping invalid rule set")
			continue
		}
		seen[id] = true

		configs = append(configs, &service.ConfigInfo{
			Filename:      entry.Name(),
			ConfigID:      id,
			Name:          rules.Name,
			Description:   rules.Description,
			ShuffleBudget: rules.ShuffleBudget,
		})
	}

	return configs, nil
}

// GetDefault returns the default rule set
func (m *Manager) GetDefault() *engine.Rules {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultRules
}

// SetDefault sets the default rule set by name
func (m *Manager) SetDefault(name string) error {
	rules, err := m.LoadConfig(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultRules = rules
	return nil
}

// loadDefaultConfig picks classic, else the first valid rule set, else the
// built-in rules
func (m *Manager) loadDefaultConfig() {
	rules, err := m.LoadConfig("classic")
	if err == nil {
		m.defaultRules = rules
		return
	}

	configs, listErr := m.ListConfigs()
	if listErr == nil && len(configs) > 0 {
		if rules, err := m.LoadConfig(configs[0].ConfigID); err == nil {
			logrus.WithField("config", configs[0].ConfigID).Warn("classic rules not found, using first available rule set")
			m.defaultRules = rules
			return
		}
	}

	logrus.WithField("dir", m.configDir).Warn("No rule sets found, using built-in classic rules")
	m.defaultRules = engine.DefaultRules()
}
