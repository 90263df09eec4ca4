package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Verbose indicates whether verbose logging is enabled
var Verbose bool

// DebugLog prints debug information if verbose mode is enabled
func DebugLog(format string, args ...interface{}) {
	if Verbose {
		fmt.Printf("[DEBUG] "+format+"\n", args...)
	}
}

// KnowledgeBaseConfig holds the location of the operation manual corpus
type KnowledgeBaseConfig struct {
	Path string `yaml:"path"`
}

// LLMConfig holds the text-generation settings
type LLMConfig struct {
	Provider    string  `yaml:"provider"`
	Model       string  `yaml:"model"`
	APIKey      string  `yaml:"api_key"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

// OutputConfig holds output rendering settings
type OutputConfig struct {
	Format         string `yaml:"format"` // text, json or chunk
	IncludeContext *bool  `yaml:"include_context"`
	MaxMatches     int    `yaml:"max_matches"`
}

// Config is the complete application configuration. It is passed explicitly
// into constructors; there is no process-wide mutable default.
type Config struct {
	KnowledgeBase KnowledgeBaseConfig `yaml:"knowledge_base"`
	LLM           LLMConfig           `yaml:"llm"`
	Output        OutputConfig        `yaml:"output"`
}

// envKeys maps provider names to the environment variable holding their API key
var envKeys = map[string]string{
	"openai":    "OPENAI_API_KEY",
	"anthropic": "ANTHROPIC_API_KEY",
	"google":    "GOOGLE_API_KEY",
	"deepseek":  "DEEPSEEK_API_KEY",
}

// GetConfigPath returns the configuration file path from OPSPLIT_CONFIG or the default
func GetConfigPath() string {
	if path := os.Getenv("OPSPLIT_CONFIG"); path != "" {
		DebugLog("Using config file from OPSPLIT_CONFIG: %s", path)
		return path
	}
	DebugLog("Using default config file: .opsplit.yaml")
	return ".opsplit.yaml"
}

// Default returns the built-in configuration used when no config file exists
func Default() *Config {
	includeContext := true
	return &Config{
		KnowledgeBase: KnowledgeBaseConfig{Path: "data/manual"},
		LLM: LLMConfig{
			Provider:    "mock",
			Model:       "mock",
			Temperature: 0.7,
			MaxTokens:   2000,
		},
		Output: OutputConfig{
			Format:         "text",
			IncludeContext: &includeContext,
			MaxMatches:     5,
		},
	}
}

// Load reads the configuration from a YAML file. Fields missing from the
// file keep their defaults.
func Load(path string) (*Config, error) {
	DebugLog("Attempting to load configuration from: %s", path)

	data, err := os.ReadFile(path)
	if err != nil {
		DebugLog("Error reading config file: %v", err)
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		DebugLog("Error parsing config file: %v", err)
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	DebugLog("Successfully loaded configuration")
	return cfg, nil
}

// LoadOrDefault loads the configuration from path, falling back to the
// built-in defaults when the file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			DebugLog("Config file not found, using defaults")
			return Default(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to a YAML file
func Save(path string, cfg *Config) error {
	DebugLog("Attempting to save configuration to: %s", path)

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	DebugLog("Successfully saved configuration")
	return nil
}

// ResolveAPIKey returns the API key for the configured provider, preferring
// the config file value over the provider's environment variable.
func (c *Config) ResolveAPIKey() string {
	if c.LLM.APIKey != "" {
		return c.LLM.APIKey
	}
	if envKey, ok := envKeys[c.LLM.Provider]; ok {
		return os.Getenv(envKey)
	}
	return ""
}

// IncludeContext reports whether knowledge-base context should be added to prompts
func (c *Config) IncludeContext() bool {
	if c.Output.IncludeContext == nil {
		return true
	}
	return *c.Output.IncludeContext
}
