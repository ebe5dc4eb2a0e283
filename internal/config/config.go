package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/alexanderramin/planboard/internal/domain"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the planboard configuration. Values come from the YAML file
// first, then environment overrides.
type Config struct {
	// DBPath is the SQLite file holding all project calendars.
	DBPath string `yaml:"db_path"`

	// DefaultProject is used when --project is not given.
	DefaultProject string `yaml:"default_project"`

	// LogCalls writes one log line per service use case to stderr.
	LogCalls bool `yaml:"log_calls"`

	// People is the directory of names that can be assigned to events.
	People []string `yaml:"people"`

	// DefaultView is the view the TUI opens with: month, week or list.
	DefaultView string `yaml:"default_view"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		DBPath:         defaultDBPath(),
		DefaultProject: "default",
		DefaultView:    string(domain.ViewMonth),
		People:         []string{},
	}
}

// Normalize fills zero values with defaults and repairs unknown views.
func (c *Config) Normalize() {
	if strings.TrimSpace(c.DBPath) == "" {
		c.DBPath = defaultDBPath()
	}
	c.DBPath = expandHome(c.DBPath)
	if strings.TrimSpace(c.DefaultProject) == "" {
		c.DefaultProject = "default"
	}
	if _, err := domain.ParseViewMode(c.DefaultView); err != nil {
		c.DefaultView = string(domain.ViewMonth)
	}

	people := make([]string, 0, len(c.People))
	for _, p := range c.People {
		if p = strings.TrimSpace(p); p != "" {
			people = append(people, p)
		}
	}
	c.People = people
}

// Load reads the YAML file at path. A missing file yields the defaults.
// Environment overrides are applied in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config %s: %w", path, err)
			}
		}
	}
	applyEnv(cfg)
	cfg.Normalize()
	return cfg, nil
}

// LoadFromEnv loads a .env file from the working directory if present,
// then resolves the config file path from PLANBOARD_CONFIG or
// ~/.planboard/config.yaml.
func LoadFromEnv() (*Config, error) {
	_ = godotenv.Load()
	return Load(Path())
}

// Path returns the config file location.
func Path() string {
	if v := os.Getenv("PLANBOARD_CONFIG"); v != "" {
		return expandHome(v)
	}
	return filepath.Join(homeDir(), ".planboard", "config.yaml")
}

// Save writes cfg as YAML, creating the parent directory.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// Marshal renders cfg in the YAML form Load reads.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	return data, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PLANBOARD_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("PLANBOARD_PROJECT"); v != "" {
		cfg.DefaultProject = v
	}
	if v := os.Getenv("PLANBOARD_LOG_CALLS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.LogCalls = b
		}
	}
}

func defaultDBPath() string {
	return filepath.Join(homeDir(), ".planboard", "planboard.db")
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

func expandHome(p string) string {
	if p == "~" {
		return homeDir()
	}
	if strings.HasPrefix(p, "~/") {
		return filepath.Join(homeDir(), p[2:])
	}
	return p
}
