package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is the project configuration file at the root of a project.
const FileName = "safari.yaml"

// Config represents the top-level safari.yaml configuration.
type Config struct {
	Business BusinessConfig `yaml:"business"`
	Git      GitConfig      `yaml:"git"`
	Logging  LoggingConfig  `yaml:"logging"`
	Server   ServerConfig   `yaml:"server"`
}

// BusinessConfig identifies the business entity.
type BusinessConfig struct {
	Name     string `yaml:"name"`
	Document string `yaml:"document,omitempty"` // CNPJ
}

// GitConfig controls git integration.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// LoggingConfig controls the structured logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json or text
}

// ServerConfig controls `safari serve`.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// Path returns the location of safari.yaml inside a project.
func Path(repoRoot string) string {
	return filepath.Join(repoRoot, FileName)
}

// Load reads a safari.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default("")
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default(businessName string) *Config {
	return &Config{
		Business: BusinessConfig{
			Name: businessName,
		},
		Git: GitConfig{
			AutoCommit:  true,
			AuthorName:  "Safari",
			AuthorEmail: "safari@localhost",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

// ApplyEnv overrides settings from the environment: LOG_LEVEL, LOG_FORMAT
// and SAFARI_ADDR. Empty variables leave the file's values alone.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := strings.TrimSpace(getenv("LOG_LEVEL")); v != "" {
		c.Logging.Level = v
	}
	if v := strings.TrimSpace(getenv("LOG_FORMAT")); v != "" {
		c.Logging.Format = v
	}
	if v := strings.TrimSpace(getenv("SAFARI_ADDR")); v != "" {
		c.Server.Addr = v
	}
}
