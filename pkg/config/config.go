// Package config provides hierarchical configuration management.
// Priority: defaults < system < user < project < env < flags
package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all evtcflow configuration.
type Config struct {
	Version int `yaml:"version"`

	Process ProcessConfig `yaml:"process"`
	Watch   WatchConfig   `yaml:"watch"`
	Report  ReportConfig  `yaml:"report"`
	Logging LoggingConfig `yaml:"logging"`
}

// ProcessConfig controls log decoding and analysis.
type ProcessConfig struct {
	// Workers caps the number of logs processed in parallel. 0 = auto.
	Workers int `yaml:"workers"`
	// Catalog is the path of a challenge-mote rule override file.
	Catalog string `yaml:"catalog"`
}

// WatchConfig controls directory watching.
type WatchConfig struct {
	// Debounce is the settle time after a write before a file is
	// picked up. The recorder writes captures incrementally.
	Debounce time.Duration `yaml:"debounce"`
}

// ReportConfig controls terminal output.
type ReportConfig struct {
	// Format is "table" or "json".
	Format string `yaml:"format"`
	// Color toggles styled terminal output.
	Color bool `yaml:"color"`
	// Progress toggles the progress bar during batch runs.
	Progress bool `yaml:"progress"`
}

// LoggingConfig controls diagnostics.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug | info | warn | error
	JSON  bool   `yaml:"json"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Version: 1,
		Process: ProcessConfig{
			Workers: 0, // auto
		},
		Watch: WatchConfig{
			Debounce: 2 * time.Second,
		},
		Report: ReportConfig{
			Format:   "table",
			Color:    true,
			Progress: true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Manager handles configuration loading and merging.
type Manager struct {
	mu     sync.RWMutex
	config *Config
	paths  []string
}

// NewManager creates a new configuration manager.
func NewManager() *Manager {
	return &Manager{config: Default()}
}

// Load loads configuration from all sources in priority order.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.config = Default()
	for _, path := range m.configPaths() {
		if err := m.loadFile(path); err != nil {
			if !os.IsNotExist(err) {
				return err
			}
			continue
		}
		m.paths = append(m.paths, path)
	}
	m.loadEnv()
	return nil
}

// Get returns the current configuration.
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

// Paths returns the config files that were actually loaded.
func (m *Manager) Paths() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.paths
}

// configPaths returns config file paths in priority order.
func (m *Manager) configPaths() []string {
	var paths []string
	if runtime.GOOS != "windows" {
		paths = append(paths, "/etc/evtcflow/config.yaml")
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".evtcflow", "config.yaml"))
	}
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".evtcflow.yaml"))
	}
	return paths
}

// loadFile loads a single config file and merges it.
func (m *Manager) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var partial Config
	if err := yaml.Unmarshal(data, &partial); err != nil {
		return err
	}
	m.merge(&partial)
	return nil
}

// merge merges non-zero values from src into the config.
func (m *Manager) merge(src *Config) {
	if src.Process.Workers != 0 {
		m.config.Process.Workers = src.Process.Workers
	}
	if src.Process.Catalog != "" {
		m.config.Process.Catalog = src.Process.Catalog
	}
	if src.Watch.Debounce != 0 {
		m.config.Watch.Debounce = src.Watch.Debounce
	}
	if src.Report.Format != "" {
		m.config.Report.Format = src.Report.Format
	}
	if src.Logging.Level != "" {
		m.config.Logging.Level = src.Logging.Level
	}
	if src.Logging.JSON {
		m.config.Logging.JSON = true
	}
}

// loadEnv applies EVTCFLOW_* environment overrides.
func (m *Manager) loadEnv() {
	if v := os.Getenv("EVTCFLOW_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			m.config.Process.Workers = n
		}
	}
	if v := os.Getenv("EVTCFLOW_CATALOG"); v != "" {
		m.config.Process.Catalog = v
	}
	if v := os.Getenv("EVTCFLOW_LOG_LEVEL"); v != "" {
		m.config.Logging.Level = v
	}
	if v := os.Getenv("EVTCFLOW_FORMAT"); v != "" {
		m.config.Report.Format = v
	}
}
