package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var DefaultConfigYAML []byte

type Config struct {
	Catalog    Catalog    `yaml:"catalog"`
	Generation Generation `yaml:"generation"`
	Quality    Quality    `yaml:"quality"`
	Output     Output     `yaml:"output"`
	Server     Server     `yaml:"server"`
	Logging    Logging    `yaml:"logging"`
}

type Catalog struct {
	Limit int `yaml:"limit"`
}

type Generation struct {
	Provider         string  `yaml:"provider"`
	OpenAIModel      string  `yaml:"openai_model"`
	APIKeyEnv        string  `yaml:"api_key_env"`
	OllamaModel      string  `yaml:"ollama_model"`
	OllamaURL        string  `yaml:"ollama_url"`
	MaxTokens        int     `yaml:"max_tokens"`
	MaxAttempts      int     `yaml:"max_attempts"`
	Temperature      float32 `yaml:"temperature"`
	TopP             float32 `yaml:"top_p"`
	PresencePenalty  float32 `yaml:"presence_penalty"`
	FrequencyPenalty float32 `yaml:"frequency_penalty"`
}

type Quality struct {
	MinAnswerLength int      `yaml:"min_answer_length"`
	MaxAnswerLength int      `yaml:"max_answer_length"`
	BannedWords     []string `yaml:"banned_words"`
	PassThreshold   float64  `yaml:"pass_threshold"`
}

type Output struct {
	DataDir   string `yaml:"data_dir"`
	OutputDir string `yaml:"output_dir"`
}

type Server struct {
	Port int `yaml:"port"`
}

type Logging struct {
	Level string `yaml:"level"`
}

// ConfigDir returns the XDG config directory for faqgen.
func ConfigDir() string {
	return filepath.Join(homeDir(), ".config", "faqgen")
}

// DataDir returns the XDG data directory for faqgen.
func DataDir() string {
	return filepath.Join(homeDir(), ".local", "share", "faqgen")
}

// ResolveConfigPath finds the config file following priority:
// explicit path > ~/.config/faqgen/config.yaml > ./config.yaml
func ResolveConfigPath(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	xdgConfig := filepath.Join(ConfigDir(), "config.yaml")
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig, nil
	}

	cwdConfig := "config.yaml"
	if _, err := os.Stat(cwdConfig); err == nil {
		return cwdConfig, nil
	}

	return "", fmt.Errorf(
		"no config file found; searched:\n  %s\n  ./config.yaml\n\nRun 'faqgen init' to create a default config",
		xdgConfig,
	)
}

// Load reads and parses a config YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return parse(data)
}

// parse parses YAML bytes into a Config, applying defaults.
func parse(data []byte) (*Config, error) {
	cfg := &Config{
		Catalog: Catalog{Limit: 10},
		Generation: Generation{
			Provider:         "openai",
			OpenAIModel:      "gpt-4o-mini",
			APIKeyEnv:        "OPENAI_API_KEY",
			OllamaModel:      "qwen2.5:7b",
			OllamaURL:        "http://localhost:11434",
			MaxTokens:        1200,
			MaxAttempts:      3,
			Temperature:      0.8,
			TopP:             0.95,
			PresencePenalty:  0.4,
			FrequencyPenalty: 0.4,
		},
		Quality: Quality{
			MinAnswerLength: 150,
			MaxAnswerLength: 350,
			BannedWords:     []string{"cosa", "algo", "etc", "etcétera"},
			PassThreshold:   5,
		},
		Output:  Output{OutputDir: "."},
		Server:  Server{Port: 8000},
		Logging: Logging{Level: "INFO"},
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// GetDataDir returns the effective data directory from config or XDG default.
func (c *Config) GetDataDir() string {
	if c.Output.DataDir != "" {
		return c.Output.DataDir
	}
	return DataDir()
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
