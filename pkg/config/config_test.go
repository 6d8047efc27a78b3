package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/packdex/packdex/pkg/catalog"
	"github.com/packdex/packdex/pkg/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[storage]
uri = "mongodb://localhost:27017"
database = "catalog"

[redis]
addr = "localhost:6379"
db = 2

[github]
token = "ghp_x"

[server]
addr = ":9090"

[[publishers]]
token = "tok-admin"
login = "admin"
blanket = true

[[publishers]]
token = "tok-dev"
login = "dev"
repositories = ["acme/lib", "acme/tool"]
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Storage.URI != "mongodb://localhost:27017" || cfg.Storage.Database != "catalog" {
		t.Errorf("Storage = %+v", cfg.Storage)
	}
	if cfg.Redis.Addr != "localhost:6379" || cfg.Redis.DB != 2 {
		t.Errorf("Redis = %+v", cfg.Redis)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
	if len(cfg.Publishers) != 2 {
		t.Fatalf("Publishers = %d, want 2", len(cfg.Publishers))
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Storage.Database != "packdex" {
		t.Errorf("default database = %q, want packdex", cfg.Storage.Database)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("default addr = %q, want :8080", cfg.Server.Addr)
	}
}

func TestLoadInvalidToml(t *testing.T) {
	path := writeConfig(t, "this is = not [valid")
	_, err := Load(path)
	if err == nil {
		t.Fatal("Load() expected error")
	}
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidConfig)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
[storage]
uri = "mongodb://from-file"
`)
	t.Setenv("PACKDEX_MONGODB_URI", "mongodb://from-env")
	t.Setenv("PACKDEX_REDIS_DB", "7")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Storage.URI != "mongodb://from-env" {
		t.Errorf("Storage.URI = %q, want env value", cfg.Storage.URI)
	}
	if cfg.Redis.DB != 7 {
		t.Errorf("Redis.DB = %d, want 7", cfg.Redis.DB)
	}
}

func TestIdentityForToken(t *testing.T) {
	cfg := &Config{Publishers: []PublisherConfig{
		{Token: "tok-admin", Login: "admin", Blanket: true},
		{Token: "tok-dev", Login: "dev", Repositories: []string{"acme/lib", "bad-grant"}},
	}}

	t.Run("blanket", func(t *testing.T) {
		id := cfg.IdentityForToken("tok-admin")
		if id == nil || !id.CanPublishAll || id.Login != "admin" {
			t.Errorf("IdentityForToken() = %+v", id)
		}
	})

	t.Run("repository grants", func(t *testing.T) {
		id := cfg.IdentityForToken("tok-dev")
		if id == nil || id.CanPublishAll {
			t.Fatalf("IdentityForToken() = %+v", id)
		}
		want := []catalog.RepositoryRef{{Organization: "acme", Repository: "lib"}}
		if !reflect.DeepEqual(id.Repositories, want) {
			t.Errorf("Repositories = %v, want %v (malformed grants skipped)", id.Repositories, want)
		}
	})

	t.Run("unknown token", func(t *testing.T) {
		if id := cfg.IdentityForToken("nope"); id != nil {
			t.Errorf("IdentityForToken() = %+v, want nil", id)
		}
	})

	t.Run("empty token", func(t *testing.T) {
		if id := cfg.IdentityForToken(""); id != nil {
			t.Errorf("IdentityForToken(\"\") = %+v, want nil", id)
		}
	})
}
