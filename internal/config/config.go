// Package config loads pdfsearch settings from YAML and PDFSEARCH_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	kyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
	"gopkg.in/yaml.v3"
)

// EnvPrefix marks environment variables that override file settings.
const EnvPrefix = "PDFSEARCH_"

// CorpusConfig locates the documents to index.
type CorpusConfig struct {
	Dir        string   `yaml:"dir"`
	Extensions []string `yaml:"extensions"`
	Recursive  bool     `yaml:"recursive"`
}

// OpenAIEmbedderConfig holds configuration for the OpenAI-compatible embedder.
type OpenAIEmbedderConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	TimeoutSecs int    `yaml:"timeout_secs"`
	MaxRetries  int    `yaml:"max_retries"`
}

// EmbedderConfig selects and configures the text embedder implementation.
type EmbedderConfig struct {
	Type      string                `yaml:"type"`
	Model     string                `yaml:"model"`
	CacheDir  string                `yaml:"cache_dir"`
	MaxLength int                   `yaml:"max_length"`
	BatchSize int                   `yaml:"batch_size"`
	Normalize bool                  `yaml:"normalize"`
	OpenAI    *OpenAIEmbedderConfig `yaml:"openai,omitempty"`
}

// SearchConfig sets query defaults.
type SearchConfig struct {
	TopK          int `yaml:"top_k"`
	PreviewLength int `yaml:"preview_length"`
}

// SummarizerConfig configures the corpus summary.
type SummarizerConfig struct {
	MaxSentences int `yaml:"max_sentences"`
}

// ExportConfig sets where full-text downloads are written.
type ExportConfig struct {
	Dir string `yaml:"dir"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Corpus     CorpusConfig     `yaml:"corpus"`
	Embedder   EmbedderConfig   `yaml:"embedder"`
	Search     SearchConfig     `yaml:"search"`
	Summarizer SummarizerConfig `yaml:"summarizer"`
	Export     ExportConfig     `yaml:"export"`
	Log        LogConfig        `yaml:"log"`
	Server     ServerConfig     `yaml:"server"`
}

// Validate rejects settings the application cannot run with.
func (c *AppConfig) Validate() error {
	var errs []error
	switch c.Embedder.Type {
	case "fastembed", "tfidf", "openai":
	default:
		errs = append(errs, fmt.Errorf("embedder.type: unknown embedder %q (want fastembed, tfidf or openai)", c.Embedder.Type))
	}
	if c.Search.TopK < 0 {
		errs = append(errs, fmt.Errorf("search.top_k: must not be negative, got %d", c.Search.TopK))
	}
	if c.Search.PreviewLength <= 0 {
		errs = append(errs, fmt.Errorf("search.preview_length: must be positive, got %d", c.Search.PreviewLength))
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("log.format: unknown format %q", c.Log.Format))
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port: out of range: %d", c.Server.Port))
	}
	return errors.Join(errs...)
}

// Load reads a config from a specified path and applies environment
// overrides. If the file does not exist, defaults are used.
func Load(path string) (*AppConfig, error) {
	k := koanf.New(".")
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := k.Load(rawbytes.Provider(data), kyaml.Parser()); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	var cfg AppConfig
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "yaml"}); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/pdfsearch/config.yaml.
// If neither exists, it writes defaults to ~/.config/pdfsearch/config.yaml and
// returns them.
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
	if _, err := os.Stat(userPath); err != nil {
		if err := Save(userPath, defaultConfig()); err != nil {
			return nil, "", err
		}
	}
	cfg, err := Load(userPath)
	return cfg, userPath, err
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

// envKey maps PDFSEARCH_SEARCH_TOP_K to search.top_k. The first segment is
// the section; embedder.openai is the only nested section.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	section, field, ok := strings.Cut(key, "_")
	if !ok {
		return key
	}
	if section == "embedder" {
		if rest, ok := strings.CutPrefix(field, "openai_"); ok {
			return "embedder.openai." + rest
		}
	}
	return section + "." + field
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "pdfsearch", "config.yaml"), nil
}

// DefaultModel returns the model used by an embedder type when none is set.
func DefaultModel(embedderType string) string {
	switch embedderType {
	case "openai":
		return "text-embedding-3-small"
	case "tfidf":
		return "tfidf"
	default:
		return "sentence-transformers/all-MiniLM-L6-v2"
	}
}

func defaultConfig() *AppConfig {
	return &AppConfig{
		Corpus: CorpusConfig{Dir: ".", Extensions: []string{".pdf"}},
		Embedder: EmbedderConfig{
			Type:      "fastembed",
			Model:     DefaultModel("fastembed"),
			MaxLength: 512,
			BatchSize: 32,
		},
		Search:     SearchConfig{TopK: 3, PreviewLength: 1000},
		Summarizer: SummarizerConfig{MaxSentences: 3},
		Export:     ExportConfig{Dir: "."},
		Log:        LogConfig{Level: "info", Format: "console"},
		Server:     ServerConfig{Host: "localhost", Port: 8080},
	}
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Corpus.Dir == "" {
		cfg.Corpus.Dir = "."
	}
	if len(cfg.Corpus.Extensions) == 0 {
		cfg.Corpus.Extensions = []string{".pdf"}
	}
	if cfg.Embedder.Type == "" {
		cfg.Embedder.Type = "fastembed"
	}
	if cfg.Embedder.Model == "" {
		cfg.Embedder.Model = DefaultModel(cfg.Embedder.Type)
	}
	if cfg.Embedder.MaxLength == 0 {
		cfg.Embedder.MaxLength = 512
	}
	if cfg.Embedder.BatchSize == 0 {
		cfg.Embedder.BatchSize = 32
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
		if cfg.Embedder.OpenAI.TimeoutSecs == 0 {
			cfg.Embedder.OpenAI.TimeoutSecs = 30
		}
		if cfg.Embedder.OpenAI.MaxRetries == 0 {
			cfg.Embedder.OpenAI.MaxRetries = 5
		}
	}
	if cfg.Search.TopK == 0 {
		cfg.Search.TopK = 3
	}
	if cfg.Search.PreviewLength == 0 {
		cfg.Search.PreviewLength = 1000
	}
	if cfg.Summarizer.MaxSentences == 0 {
		cfg.Summarizer.MaxSentences = 3
	}
	if cfg.Export.Dir == "" {
		cfg.Export.Dir = "."
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
}

// ApplyEmbedderType switches the embedder and resets the model to that
// type's default.
func (c *AppConfig) ApplyEmbedderType(t string) {
	c.Embedder.Type = t
	c.Embedder.Model = ""
	applyConfigDefaults(c)
}
