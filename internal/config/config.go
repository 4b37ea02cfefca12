// Package config loads runtime settings from defaults, an optional YAML
// file and COMMITRACE_ environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/naka-gawa/commit-race/internal/domain"
	"github.com/naka-gawa/commit-race/internal/gateway"
)

const (
	configName      = ".commitrace"
	configType      = "yaml"
	envPrefix       = "COMMITRACE"
	envKeySeparator = "_"
)

// Config is the full runtime configuration.
type Config struct {
	TeamsFile    string        `mapstructure:"teams_file"`
	Window       time.Duration `mapstructure:"window"`
	HistoryLimit int           `mapstructure:"history_limit"`

	GitHub    GitHubConfig    `mapstructure:"github"`
	Data      DataConfig      `mapstructure:"data"`
	Publish   PublishConfig   `mapstructure:"publish"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
}

// GitHubConfig configures the commit counter.
type GitHubConfig struct {
	Counter     string `mapstructure:"counter"`
	APIURL      string `mapstructure:"api_url"`
	GraphQLURL  string `mapstructure:"graphql_url"`
	PerPage     int    `mapstructure:"per_page"`
	Concurrency int    `mapstructure:"concurrency"`
}

// DataConfig locates the published artifacts.
type DataConfig struct {
	Dir string `mapstructure:"dir"`
}

// PublishConfig configures the versioned publish of the artifacts.
type PublishConfig struct {
	RepoDir     string `mapstructure:"repo_dir"`
	Remote      string `mapstructure:"remote"`
	Branch      string `mapstructure:"branch"`
	Push        bool   `mapstructure:"push"`
	AuthorName  string `mapstructure:"author_name"`
	AuthorEmail string `mapstructure:"author_email"`
}

// DashboardConfig configures the presentation client.
type DashboardConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
	Listen       string        `mapstructure:"listen"`
}

// Load reads configuration. If path is empty, .commitrace.yaml is searched
// in the working directory and $HOME; a missing file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	applyDefaults(v)

	v.SetConfigType(configType)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", envKeySeparator))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func applyDefaults(v *viper.Viper) {
	v.SetDefault("teams_file", "teams.json")
	v.SetDefault("window", domain.Window)
	v.SetDefault("history_limit", domain.HistoryLimit)

	v.SetDefault("github.counter", gateway.BackendREST)
	v.SetDefault("github.api_url", "")
	v.SetDefault("github.graphql_url", "")
	v.SetDefault("github.per_page", gateway.DefaultPerPage)
	v.SetDefault("github.concurrency", 4)

	v.SetDefault("data.dir", "data")

	v.SetDefault("publish.repo_dir", ".")
	v.SetDefault("publish.remote", "origin")
	v.SetDefault("publish.branch", "")
	v.SetDefault("publish.push", true)
	v.SetDefault("publish.author_name", "commit-race")
	v.SetDefault("publish.author_email", "commit-race@users.noreply.github.com")

	v.SetDefault("dashboard.base_url", "")
	v.SetDefault("dashboard.poll_interval", 30*time.Second)
	v.SetDefault("dashboard.listen", ":8080")
}

// Validate checks values that would make a run meaningless.
func (c *Config) Validate() error {
	var errs []error
	if c.Window <= 0 {
		errs = append(errs, fmt.Errorf("window must be positive, got %s", c.Window))
	}
	if c.HistoryLimit <= 0 {
		errs = append(errs, fmt.Errorf("history_limit must be positive, got %d", c.HistoryLimit))
	}
	if c.GitHub.Counter != gateway.BackendREST && c.GitHub.Counter != gateway.BackendGraphQL {
		errs = append(errs, fmt.Errorf("github.counter must be %q or %q, got %q", gateway.BackendREST, gateway.BackendGraphQL, c.GitHub.Counter))
	}
	if c.GitHub.PerPage <= 0 || c.GitHub.PerPage > 100 {
		errs = append(errs, fmt.Errorf("github.per_page must be within 1..100, got %d", c.GitHub.PerPage))
	}
	if c.GitHub.Concurrency <= 0 {
		errs = append(errs, fmt.Errorf("github.concurrency must be positive, got %d", c.GitHub.Concurrency))
	}
	if c.Dashboard.PollInterval <= 0 {
		errs = append(errs, fmt.Errorf("dashboard.poll_interval must be positive, got %s", c.Dashboard.PollInterval))
	}
	return errors.Join(errs...)
}
