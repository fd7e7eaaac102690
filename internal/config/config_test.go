package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Cloud.Bucket != "mq-videos" {
		t.Errorf("Expected bucket 'mq-videos', got %q", cfg.Cloud.Bucket)
	}
	if cfg.Cloud.VideoCollection != "videos" {
		t.Errorf("Expected collection 'videos', got %q", cfg.Cloud.VideoCollection)
	}
	if cfg.Cloud.DocstoreBackend != BackendFirestore {
		t.Errorf("Expected firestore backend, got %q", cfg.Cloud.DocstoreBackend)
	}
	if !reflect.DeepEqual(cfg.Roster.ProtectedUIDs, DefaultProtectedUIDs) {
		t.Errorf("Expected default protected uids, got %v", cfg.Roster.ProtectedUIDs)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("VIDEO_BUCKET", "other-bucket")
	t.Setenv("PUBLIC_URL_PREFIX", "https://cdn.example.com/")
	t.Setenv("PROTECTED_UIDS", "uid-1, ,uid-2")
	t.Setenv("DB_ENABLED", "false")
	t.Setenv("DB_HOST", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Cloud.Bucket != "other-bucket" {
		t.Errorf("Expected bucket override, got %q", cfg.Cloud.Bucket)
	}
	if cfg.Cloud.PublicURLPrefix != "https://cdn.example.com" {
		t.Errorf("Expected trailing slash trimmed, got %q", cfg.Cloud.PublicURLPrefix)
	}
	if want := []string{"uid-1", "uid-2"}; !reflect.DeepEqual(cfg.Roster.ProtectedUIDs, want) {
		t.Errorf("Expected %v, got %v", want, cfg.Roster.ProtectedUIDs)
	}
	if cfg.Database.Enabled {
		t.Error("Expected ledger database to be disabled")
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[server]
read_timeout = "45s"

[database]
max_lifetime = "10m"

[cloud]
bucket = "file-bucket"

[roster]
protected_uids = ["admin-uid"]

[roster.groups]
"Cricket Panel" = ["a@x.com", "b@x.com"]
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Cloud.Bucket != "file-bucket" {
		t.Errorf("Expected bucket from file, got %q", cfg.Cloud.Bucket)
	}
	if cfg.Cloud.VideoCollection != "videos" {
		t.Errorf("Expected default collection kept, got %q", cfg.Cloud.VideoCollection)
	}
	if want := []string{"admin-uid"}; !reflect.DeepEqual(cfg.Roster.ProtectedUIDs, want) {
		t.Errorf("Expected %v, got %v", want, cfg.Roster.ProtectedUIDs)
	}
	if got := cfg.Roster.Groups["Cricket Panel"]; len(got) != 2 {
		t.Errorf("Expected 2 group members, got %v", got)
	}
	if cfg.Server.ReadTimeout != 45*time.Second {
		t.Errorf("Expected read timeout 45s, got %v", cfg.Server.ReadTimeout)
	}
	if cfg.Server.WriteTimeout != 120*time.Second {
		t.Errorf("Expected default write timeout kept, got %v", cfg.Server.WriteTimeout)
	}
	if cfg.Database.MaxLifetime != 10*time.Minute {
		t.Errorf("Expected max lifetime 10m, got %v", cfg.Database.MaxLifetime)
	}
}

func TestLoad_ConfigFileDurationEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[server]\nread_timeout = \"45s\"\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("SERVER_READ_TIMEOUT", "1m")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if cfg.Server.ReadTimeout != time.Minute {
		t.Errorf("Expected env to win with 1m, got %v", cfg.Server.ReadTimeout)
	}
}

func TestLoad_ConfigFileBadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[server]\nread_timeout = \"soon\"\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := LoadFrom(path); err == nil {
		t.Error("Expected error for invalid duration")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults are valid", mutate: func(c *Config) {}},
		{name: "missing bucket", mutate: func(c *Config) { c.Cloud.Bucket = "" }, wantErr: true},
		{name: "unknown backend", mutate: func(c *Config) { c.Cloud.DocstoreBackend = "sqlite" }, wantErr: true},
		{name: "mongo without uri", mutate: func(c *Config) { c.Cloud.DocstoreBackend = BackendMongo }, wantErr: true},
		{
			name: "mongo with uri",
			mutate: func(c *Config) {
				c.Cloud.DocstoreBackend = BackendMongo
				c.Cloud.MongoURI = "mongodb://localhost:27017"
			},
		},
		{name: "ledger without host", mutate: func(c *Config) { c.Database.Host = "" }, wantErr: true},
		{
			name: "disabled ledger without host",
			mutate: func(c *Config) {
				c.Database.Enabled = false
				c.Database.Host = ""
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
