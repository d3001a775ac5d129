// Package config loads gh-search settings from file, environment and .env.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/naka-gawa/gh-search/internal/credential"
)

// EnvPrefix prefixes environment overrides, e.g. GHSEARCH_HTTP_TIMEOUT.
const EnvPrefix = "GHSEARCH"

// Config holds application configuration.
type Config struct {
	GitHub      GitHubConfig
	HTTP        HTTPConfig
	LLM         LLMConfig
	Credentials CredentialsConfig

	// Session overrides from GITHUB_TOKEN and OPENAI_API_KEY. They are
	// never written to the credential store.
	EnvGitHubToken string
	EnvAIAPIKey    string
}

// GitHubConfig selects the GitHub endpoints. Empty means github.com.
type GitHubConfig struct {
	BaseURL    string `mapstructure:"base_url"`
	GraphQLURL string `mapstructure:"graphql_url"`
}

type HTTPConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

type LLMConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

type CredentialsConfig struct {
	Path string `mapstructure:"path"`
}

// Dir returns <user config dir>/gh-search.
func Dir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "gh-search"), nil
}

// Load reads configuration. When path is empty, config.toml in Dir is used
// if present. A .env file in the working directory is loaded first.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetDefault("github.base_url", "")
	v.SetDefault("github.graphql_url", "")
	v.SetDefault("http.timeout", 30*time.Second)
	v.SetDefault("llm.base_url", "https://api.openai.com/v1")
	v.SetDefault("llm.model", "gpt-4o-mini")
	v.SetDefault("credentials.path", "")

	v.SetConfigType("toml")
	if path != "" {
		v.SetConfigFile(path)
	} else if dir, err := Dir(); err == nil {
		v.AddConfigPath(dir)
		v.SetConfigName("config")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if c.Credentials.Path == "" {
		credPath, err := credential.DefaultPath()
		if err != nil {
			return Config{}, fmt.Errorf("resolve credentials path: %w", err)
		}
		c.Credentials.Path = credPath
	}
	c.LLM.BaseURL = strings.TrimSuffix(c.LLM.BaseURL, "/")

	c.EnvGitHubToken = os.Getenv("GITHUB_TOKEN")
	c.EnvAIAPIKey = os.Getenv("OPENAI_API_KEY")
	return c, nil
}
