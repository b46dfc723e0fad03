package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the course site
type Config struct {
	General   GeneralConfig   `mapstructure:"general"`
	Content   ContentConfig   `mapstructure:"content"`
	Providers ProvidersConfig `mapstructure:"providers"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Client    ClientConfig    `mapstructure:"client"`
}

// GeneralConfig contains general application settings
type GeneralConfig struct {
	Listen   string `mapstructure:"listen"`
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
}

// ContentConfig locates the course material: remote markdown on a raw
// content host plus local overview/static files.
type ContentConfig struct {
	GitHubOwner  string `mapstructure:"github_owner"`
	GitHubRepo   string `mapstructure:"github_repo"`
	GitHubBranch string `mapstructure:"github_branch"`
	GitHubToken  string `mapstructure:"github_token"`
	ContentDir   string `mapstructure:"content_dir"`
	PapersDir    string `mapstructure:"papers_dir"`
}

// RawBaseURL returns the base URL for raw file fetches.
func (c ContentConfig) RawBaseURL() string {
	return fmt.Sprintf("https://raw.githubusercontent.com/%s/%s/refs/heads/%s", c.GitHubOwner, c.GitHubRepo, c.GitHubBranch)
}

func (c ContentConfig) Validate() error {
	if strings.TrimSpace(c.GitHubOwner) == "" {
		return fmt.Errorf("content.github_owner required")
	}
	if strings.TrimSpace(c.GitHubRepo) == "" {
		return fmt.Errorf("content.github_repo required")
	}
	return nil
}

// ProvidersConfig contains LLM provider configurations
type ProvidersConfig struct {
	OpenAI OpenAIConfig `mapstructure:"openai"`
}

// OpenAIConfig contains OpenAI chat settings
type OpenAIConfig struct {
	APIKey       string        `mapstructure:"api_key"`
	DefaultModel string        `mapstructure:"default_model"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// StorageConfig contains persistence settings for the durable
// key-value store. Redis is optional; when unset the store degrades
// to in-memory for the process lifetime.
type StorageConfig struct {
	Redis RedisConfig `mapstructure:"redis"`
}

// RedisConfig contains Redis connection settings
type RedisConfig struct {
	Host     string        `mapstructure:"host"`
	Port     string        `mapstructure:"port"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// Enabled reports whether a Redis endpoint is configured at all.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.Host) != "" && strings.TrimSpace(r.Port) != ""
}

// ClientConfig tunes the in-page navigation layer. All delays are
// cosmetic or throttling knobs, not correctness requirements.
type ClientConfig struct {
	PreloadStartDelay time.Duration `mapstructure:"preload_start_delay"`
	PreloadInterval   time.Duration `mapstructure:"preload_interval"`
	RenderDelay       time.Duration `mapstructure:"render_delay"`
	DebounceWindow    time.Duration `mapstructure:"debounce_window"`
}

// Normalize applies defaults for unset client timings.
func (c ClientConfig) Normalize() ClientConfig {
	if c.PreloadStartDelay <= 0 {
		c.PreloadStartDelay = 2 * time.Second
	}
	if c.PreloadInterval <= 0 {
		c.PreloadInterval = 500 * time.Millisecond
	}
	if c.RenderDelay <= 0 {
		c.RenderDelay = 150 * time.Millisecond
	}
	if c.DebounceWindow <= 0 {
		c.DebounceWindow = 300 * time.Millisecond
	}
	return c
}

// LoadConfig loads config from file
func LoadConfig(path string) *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("json")
	viper.SetDefault("general.listen", ":8000")
	viper.SetDefault("content.github_owner", "callummcdougall")
	viper.SetDefault("content.github_repo", "arena-pragmatic-interp")
	viper.SetDefault("content.github_branch", "main")
	viper.SetDefault("content.content_dir", "./content")
	viper.SetDefault("content.papers_dir", "./papers")
	viper.SetDefault("providers.openai.default_model", "gpt-4.1-mini")
	viper.SetDefault("providers.openai.timeout", "60s")

	if path == "" {
		viper.AddConfigPath("./config")
		viper.AddConfigPath(".")
		exe, _ := os.Executable()
		exeDir := filepath.Dir(exe)
		viper.AddConfigPath(exeDir)
		viper.AddConfigPath(filepath.Join(exeDir, ".."))
	} else {
		viper.SetConfigFile(path)
	}

	viper.SetEnvPrefix("ARENA")
	replacer := strings.NewReplacer(".", "_")
	viper.SetEnvKeyReplacer(replacer)

	viper.AutomaticEnv() // read in environment variables that match (ARENA_*)

	if err := viper.ReadInConfig(); err != nil {
		// A missing file is fine: defaults plus env cover a full deployment.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			panic(fmt.Errorf("fatal error config file: %w", err))
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		panic(fmt.Errorf("fatal error config file: %w", err))
	}
	config.Client = config.Client.Normalize()

	if err := config.Content.Validate(); err != nil {
		panic(err)
	}
	return &config
}
