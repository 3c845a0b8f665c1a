package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

const (
	// DefaultBaseURL is the Linear GraphQL endpoint
	DefaultBaseURL = "https://api.linear.app/graphql"

	defaultTimeoutSeconds = 30
	defaultLogLevel       = "info"
	defaultOutputDir      = "./output"
)

// envFile is read before environment overrides are applied. Variables
// already present in the environment win over the file.
var envFile = ".env"

// Config represents the application configuration
type Config struct {
	Linear   LinearConfig   `yaml:"linear"`
	Logging  LoggingConfig  `yaml:"logging"`
	Planning PlanningConfig `yaml:"planning"`
}

// LinearConfig represents Linear API configuration
type LinearConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Timeout int    `yaml:"timeout_seconds"`
}

// LoggingConfig represents diagnostic logging configuration
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// PlanningConfig represents plan generation defaults
type PlanningConfig struct {
	DefaultTeamID string `yaml:"default_team_id"`
	OutputDir     string `yaml:"output_dir"`
}

// envOverrides lists the environment variables that override file values
type envOverrides struct {
	APIKey    string `envconfig:"LINEAR_API_KEY"`
	BaseURL   string `envconfig:"LINEAR_BASE_URL"`
	Timeout   int    `envconfig:"LINEAR_TIMEOUT_SECONDS"`
	LogLevel  string `envconfig:"LINEAR_LOG_LEVEL"`
	TeamID    string `envconfig:"LINEAR_TEAM_ID"`
	OutputDir string `envconfig:"LINEAR_OUTPUT_DIR"`
}

// LoadConfig loads configuration from a YAML file and the environment.
// A missing file is not an error as long as the API key is provided
// through the environment.
func LoadConfig(configPath string) (*Config, error) {
	config, err := Load(configPath)
	if err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// Load is LoadConfig without validation, for commands that never call Linear.
func Load(configPath string) (*Config, error) {
	var config Config

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := config.applyEnv(); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	config.applyDefaults()

	return &config, nil
}

func (c *Config) applyEnv() error {
	envMap, err := godotenv.Read(envFile)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to parse %s: %w", envFile, err)
	}
	for k, v := range envMap {
		if _, exists := os.LookupEnv(k); !exists {
			_ = os.Setenv(k, v)
		}
	}

	var env envOverrides
	if err := envconfig.Process("", &env); err != nil {
		return err
	}

	if env.APIKey != "" {
		c.Linear.APIKey = env.APIKey
	}
	if env.BaseURL != "" {
		c.Linear.BaseURL = env.BaseURL
	}
	if env.Timeout != 0 {
		c.Linear.Timeout = env.Timeout
	}
	if env.LogLevel != "" {
		c.Logging.Level = env.LogLevel
	}
	if env.TeamID != "" {
		c.Planning.DefaultTeamID = env.TeamID
	}
	if env.OutputDir != "" {
		c.Planning.OutputDir = env.OutputDir
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Linear.BaseURL == "" {
		c.Linear.BaseURL = DefaultBaseURL
	}
	if c.Linear.Timeout == 0 {
		c.Linear.Timeout = defaultTimeoutSeconds
	}
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Planning.OutputDir == "" {
		c.Planning.OutputDir = defaultOutputDir
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Linear.APIKey == "" {
		return fmt.Errorf("linear API key is required")
	}

	if c.Linear.Timeout < 0 {
		return fmt.Errorf("linear timeout must not be negative")
	}

	return nil
}

// Sample returns a configuration with placeholder values for `init`
func Sample() *Config {
	return &Config{
		Linear: LinearConfig{
			APIKey:  "lin_api_your-key-here",
			BaseURL: DefaultBaseURL,
			Timeout: defaultTimeoutSeconds,
		},
		Logging: LoggingConfig{
			Level: defaultLogLevel,
		},
		Planning: PlanningConfig{
			DefaultTeamID: "",
			OutputDir:     defaultOutputDir,
		},
	}
}

// Save writes the configuration to a YAML file readable only by the owner
func (c *Config) Save(configPath string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
