// Package config loads packdex configuration from a TOML file with
// environment variable overrides.
//
// The default location is $XDG_CONFIG_HOME/packdex/config.toml (falling back
// to ~/.config/packdex/config.toml). A missing file is not an error; all
// settings have usable zero values and secrets are usually supplied through
// the environment.
package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"

	"github.com/packdex/packdex/pkg/catalog"
	"github.com/packdex/packdex/pkg/errors"
)

// Config is the root configuration document.
type Config struct {
	Storage    StorageConfig     `toml:"storage"`
	Redis      RedisConfig       `toml:"redis"`
	Github     GithubConfig      `toml:"github"`
	Server     ServerConfig      `toml:"server"`
	Publishers []PublisherConfig `toml:"publishers"`
}

// StorageConfig selects and configures the persistent store.
type StorageConfig struct {
	// URI is the MongoDB connection string. Empty selects the in-memory store.
	URI      string `toml:"uri"`
	Database string `toml:"database"`
}

// RedisConfig configures the optional shared metadata cache.
// An empty Addr disables Redis and falls back to the file cache.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// GithubConfig configures the GitHub metadata client.
type GithubConfig struct {
	Token string `toml:"token"`
}

// ServerConfig configures the publish HTTP server.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// PublisherConfig grants one API token publishing authority.
type PublisherConfig struct {
	Token string `toml:"token"`
	Login string `toml:"login"`
	// Blanket grants authority over every repository.
	Blanket bool `toml:"blanket"`
	// Repositories lists "org/repo" grants when Blanket is false.
	Repositories []string `toml:"repositories"`
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "packdex", "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "packdex", "config.toml")
}

// Load reads the config file at path (DefaultPath when empty) and applies
// environment overrides. A missing file yields defaults plus overrides.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	cfg := &Config{
		Storage: StorageConfig{Database: "packdex"},
		Server:  ServerConfig{Addr: ":8080"},
	}
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parsing %s", path)
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

// applyEnv overlays PACKDEX_* environment variables onto cfg.
// Environment values win over file values.
func applyEnv(cfg *Config) {
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setString("PACKDEX_MONGODB_URI", &cfg.Storage.URI)
	setString("PACKDEX_MONGODB_DATABASE", &cfg.Storage.Database)
	setString("PACKDEX_REDIS_ADDR", &cfg.Redis.Addr)
	setString("PACKDEX_REDIS_PASSWORD", &cfg.Redis.Password)
	setString("GITHUB_TOKEN", &cfg.Github.Token)
	setString("PACKDEX_SERVER_ADDR", &cfg.Server.Addr)

	if v := os.Getenv("PACKDEX_REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Redis.DB = n
		}
	}
}

// IdentityForToken resolves an API token to a publishing identity.
// Returns nil when the token is unknown; callers treat that as
// unauthenticated, not as an anonymous grant.
func (c *Config) IdentityForToken(token string) *catalog.Identity {
	if token == "" {
		return nil
	}
	for _, p := range c.Publishers {
		if p.Token != token {
			continue
		}
		id := &catalog.Identity{Login: p.Login, CanPublishAll: p.Blanket}
		for _, grant := range p.Repositories {
			if org, repo, ok := splitGrant(grant); ok {
				id.Repositories = append(id.Repositories, catalog.RepositoryRef{
					Organization: org,
					Repository:   repo,
				})
			}
		}
		return id
	}
	return nil
}

func splitGrant(s string) (org, repo string, ok bool) {
	for i := range len(s) {
		if s[i] == '/' {
			org, repo = s[:i], s[i+1:]
			return org, repo, org != "" && repo != ""
		}
	}
	return "", "", false
}
