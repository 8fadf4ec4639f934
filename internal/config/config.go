// Package config loads LangSearch settings: built-in defaults, then an
// optional YAML file, then environment variables. Command-line flags are
// applied on top by the cmd package.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config is the root configuration.
type Config struct {
	Search     SearchConfig     `yaml:"search"`
	Fetch      FetchConfig      `yaml:"fetch"`
	Pipeline   PipelineConfig   `yaml:"pipeline"`
	Summarizer SummarizerConfig `yaml:"summarizer"`
	Server     ServerConfig     `yaml:"server"`
	Log        LogConfig        `yaml:"log"`
}

type SearchConfig struct {
	Provider   string        `yaml:"provider" env:"LANGSEARCH_SEARCH_PROVIDER"` // duckduckgo or searxng
	SearXNGURL string        `yaml:"searxng_url" env:"LANGSEARCH_SEARCH_SEARXNG_URL"`
	Timeout    time.Duration `yaml:"timeout" env:"LANGSEARCH_SEARCH_TIMEOUT"`
}

type FetchConfig struct {
	Timeout      time.Duration `yaml:"timeout" env:"LANGSEARCH_FETCH_TIMEOUT"`
	UserAgent    string        `yaml:"user_agent" env:"LANGSEARCH_FETCH_USER_AGENT"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" env:"LANGSEARCH_FETCH_MAX_BODY_BYTES"`
}

type PipelineConfig struct {
	TopN        int  `yaml:"top_n" env:"LANGSEARCH_PIPELINE_TOP_N"`
	MaxChars    int  `yaml:"max_chars" env:"LANGSEARCH_PIPELINE_MAX_CHARS"`
	Images      bool `yaml:"images" env:"LANGSEARCH_PIPELINE_IMAGES"`
	Concurrency int  `yaml:"concurrency" env:"LANGSEARCH_PIPELINE_CONCURRENCY"`
}

type SummarizerConfig struct {
	BaseURL string        `yaml:"base_url" env:"LANGSEARCH_SUMMARIZER_BASE_URL"`
	Model   string        `yaml:"model" env:"LANGSEARCH_SUMMARIZER_MODEL"`
	APIKey  string        `yaml:"api_key" env:"GROQ_API_KEY"`
	Timeout time.Duration `yaml:"timeout" env:"LANGSEARCH_SUMMARIZER_TIMEOUT"`
}

type ServerConfig struct {
	Addr string `yaml:"addr" env:"LANGSEARCH_SERVER_ADDR"`
}

type LogConfig struct {
	Level  string `yaml:"level" env:"LANGSEARCH_LOG_LEVEL"`
	Format string `yaml:"format" env:"LANGSEARCH_LOG_FORMAT"` // console or json
}

// Defaults returns the configuration used when nothing else is set.
func Defaults() *Config {
	return &Config{
		Search: SearchConfig{
			Provider: "duckduckgo",
			Timeout:  15 * time.Second,
		},
		Fetch: FetchConfig{
			Timeout:      30 * time.Second,
			UserAgent:    "LangSearch/1.0 (https://github.com/gaurav-prasanna/langsearch)",
			MaxBodyBytes: 5 << 20,
		},
		Pipeline: PipelineConfig{
			TopN:        3,
			MaxChars:    2000,
			Concurrency: 1,
		},
		Summarizer: SummarizerConfig{
			BaseURL: "https://api.groq.com/openai/v1",
			Model:   "llama3-8b-8192",
			Timeout: 60 * time.Second,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load builds the configuration. An empty path skips the file; a path that
// does not exist is an error.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	// Unset variables leave the current values in place.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
