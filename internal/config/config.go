package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// OpenAIEmbedderConfig holds configuration for the OpenAI-compatible embedder.
type OpenAIEmbedderConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// OllamaEmbedderConfig holds configuration for a local Ollama embedder.
type OllamaEmbedderConfig struct {
	Host        string `yaml:"host"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// EmbedderConfig selects and configures the embedding service client.
type EmbedderConfig struct {
	Type   string                `yaml:"type"`
	OpenAI *OpenAIEmbedderConfig `yaml:"openai,omitempty"`
	Ollama *OllamaEmbedderConfig `yaml:"ollama,omitempty"`
}

// OpenAILLMConfig holds configuration for the OpenAI-compatible chat client.
type OpenAILLMConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// OllamaLLMConfig holds configuration for a local Ollama chat client.
type OllamaLLMConfig struct {
	Host        string `yaml:"host"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// LLMConfig selects and configures the language-generation client.
type LLMConfig struct {
	Type   string           `yaml:"type"`
	OpenAI *OpenAILLMConfig `yaml:"openai,omitempty"`
	Ollama *OllamaLLMConfig `yaml:"ollama,omitempty"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Documents []string       `yaml:"documents"`
	IndexPath string         `yaml:"index_path"`
	TopK      int            `yaml:"top_k"`
	Embedder  EmbedderConfig `yaml:"embedder"`
	LLM       LLMConfig      `yaml:"llm"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/bankdocs/config.yaml.
// If neither exists, it writes defaults to ~/.config/bankdocs/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "bankdocs", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{
		Documents: []string{
			"documents/development-strategy-2024-2033.pdf",
			"documents/annual-report-2024.pdf",
		},
		IndexPath: "vector_index.json",
		TopK:      4,
		Embedder:  EmbedderConfig{Type: "openai"},
		LLM:       LLMConfig{Type: "openai"},
	}
	applyConfigDefaults(cfg)
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.IndexPath == "" {
		cfg.IndexPath = "vector_index.json"
	}
	if cfg.TopK == 0 {
		cfg.TopK = 4
	}
	if cfg.Embedder.Type == "" {
		cfg.Embedder.Type = "openai"
	}
	if cfg.Embedder.Type == "openai" {
		if cfg.Embedder.OpenAI == nil {
			cfg.Embedder.OpenAI = &OpenAIEmbedderConfig{}
		}
		if cfg.Embedder.OpenAI.BaseURL == "" {
			cfg.Embedder.OpenAI.BaseURL = "https://api.openai.com/v1"
		}
		if cfg.Embedder.OpenAI.APIKeyEnv == "" {
			cfg.Embedder.OpenAI.APIKeyEnv = "OPENAI_API_KEY"
		}
		if cfg.Embedder.OpenAI.Model == "" {
			cfg.Embedder.OpenAI.Model = "text-embedding-3-small"
		}
		if cfg.Embedder.OpenAI.TimeoutSecs == 0 {
			cfg.Embedder.OpenAI.TimeoutSecs = 30
		}
	}
	if cfg.LLM.Type == "" {
		cfg.LLM.Type = "openai"
	}
	if cfg.LLM.Type == "openai" {
		if cfg.LLM.OpenAI == nil {
			cfg.LLM.OpenAI = &OpenAILLMConfig{}
		}
		if cfg.LLM.OpenAI.BaseURL == "" {
			cfg.LLM.OpenAI.BaseURL = "https://api.openai.com/v1"
		}
		if cfg.LLM.OpenAI.APIKeyEnv == "" {
			cfg.LLM.OpenAI.APIKeyEnv = "OPENAI_API_KEY"
		}
		if cfg.LLM.OpenAI.Model == "" {
			cfg.LLM.OpenAI.Model = "gpt-4-turbo"
		}
		if cfg.LLM.OpenAI.TimeoutSecs == 0 {
			cfg.LLM.OpenAI.TimeoutSecs = 120
		}
	}
}
