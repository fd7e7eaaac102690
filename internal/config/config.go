package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Document store backends
const (
	BackendFirestore = "firestore"
	BackendMongo     = "mongo"
)

// DefaultProtectedUIDs are the staff accounts that never appear in the coach roster
var DefaultProtectedUIDs = []string{
	"V5sJwczRcUf2SEmmNKsTJ4V2JA72",
	"m8UvYx0hEOVnowVjypvfaQHwTjf2",
	"XrU7QDoN9WYJUpJ36snjc7NBIih1",
}

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig `toml:"server"`

	// Activity ledger database configuration
	Database DatabaseConfig `toml:"database"`

	// Identity directory, document store and object store
	Cloud CloudConfig `toml:"cloud"`

	// Roster rules
	Roster RosterConfig `toml:"roster"`

	// Upload configuration
	Import ImportConfig `toml:"import"`

	// Logging configuration
	Log LogConfig `toml:"log"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            string        `toml:"port"`
	ReadTimeout     time.Duration `toml:"-"` // durations are read by loadFile
	WriteTimeout    time.Duration `toml:"-"`
	ShutdownTimeout time.Duration `toml:"-"`
}

// DatabaseConfig holds activity ledger connection settings
type DatabaseConfig struct {
	Enabled        bool          `toml:"enabled"`
	Host           string        `toml:"host"`
	Port           string        `toml:"port"`
	User           string        `toml:"user"`
	Password       string        `toml:"password"`
	Name           string        `toml:"name"`
	SSLMode        string        `toml:"sslmode"`
	MaxOpenConns   int           `toml:"max_open_conns"`
	MaxIdleConns   int           `toml:"max_idle_conns"`
	MaxLifetime    time.Duration `toml:"-"`
	MigrationsPath string        `toml:"migrations_path"`
}

// CloudConfig holds the service-account credential and the fixed resource names
type CloudConfig struct {
	// CredentialsJSON is the raw service-account blob; CredentialsFile is a path to one.
	// With neither set, application default credentials are used.
	CredentialsJSON string `toml:"credentials_json"`
	CredentialsFile string `toml:"credentials_file"`
	ProjectID       string `toml:"project_id"`

	Bucket          string `toml:"bucket"`
	VideoCollection string `toml:"video_collection"`
	PublicURLPrefix string `toml:"public_url_prefix"`

	DocstoreBackend string `toml:"docstore_backend"` // "firestore" or "mongo"
	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
}

// RosterConfig holds roster filtering and default grouping
type RosterConfig struct {
	ProtectedUIDs []string `toml:"protected_uids"`
	// Groups maps a group name to coach emails. Empty means the roster is split in three.
	Groups map[string][]string `toml:"groups"`
}

// ImportConfig holds upload settings
type ImportConfig struct {
	MaxUploadSize int64 `toml:"max_upload_size"` // in bytes
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "pretty"
}

// Default returns the configuration used when nothing is overridden
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8080",
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    120 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			Enabled:        true,
			Host:           "localhost",
			Port:           "5432",
			User:           "postgres",
			Password:       "postgres",
			Name:           "coach_admin",
			SSLMode:        "disable",
			MaxOpenConns:   10,
			MaxIdleConns:   2,
			MaxLifetime:    5 * time.Minute,
			MigrationsPath: "./migrations",
		},
		Cloud: CloudConfig{
			ProjectID:       "mq-video-app",
			Bucket:          "mq-videos",
			VideoCollection: "videos",
			PublicURLPrefix: "https://storage.googleapis.com",
			DocstoreBackend: BackendFirestore,
			MongoDatabase:   "mq_video_app",
		},
		Roster: RosterConfig{
			ProtectedUIDs: append([]string(nil), DefaultProtectedUIDs...),
		},
		Import: ImportConfig{
			MaxUploadSize: 10 * 1024 * 1024, // 10MB
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads the optional CONFIG_FILE, then environment variables on top of it
func Load() (*Config, error) {
	return LoadFrom(os.Getenv("CONFIG_FILE"))
}

// LoadFrom is Load with an explicit config file path. An empty path skips the file.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFile overlays a TOML file on the current values
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := toml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	var durations fileDurations
	if err := toml.Unmarshal(data, &durations); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return durations.apply(c)
}

// fileDurations holds the duration settings of a config file as Go duration strings ("45s", "5m")
type fileDurations struct {
	Server struct {
		ReadTimeout     string `toml:"read_timeout"`
		WriteTimeout    string `toml:"write_timeout"`
		ShutdownTimeout string `toml:"shutdown_timeout"`
	} `toml:"server"`
	Database struct {
		MaxLifetime string `toml:"max_lifetime"`
	} `toml:"database"`
}

func (d *fileDurations) apply(c *Config) error {
	fields := []struct {
		key string
		raw string
		dst *time.Duration
	}{
		{"server.read_timeout", d.Server.ReadTimeout, &c.Server.ReadTimeout},
		{"server.write_timeout", d.Server.WriteTimeout, &c.Server.WriteTimeout},
		{"server.shutdown_timeout", d.Server.ShutdownTimeout, &c.Server.ShutdownTimeout},
		{"database.max_lifetime", d.Database.MaxLifetime, &c.Database.MaxLifetime},
	}
	for _, f := range fields {
		if f.raw == "" {
			continue
		}
		v, err := time.ParseDuration(f.raw)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", f.key, f.raw, err)
		}
		*f.dst = v
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Server.Port = getEnv("PORT", c.Server.Port)
	c.Server.ReadTimeout = getDurationEnv("SERVER_READ_TIMEOUT", c.Server.ReadTimeout)
	c.Server.WriteTimeout = getDurationEnv("SERVER_WRITE_TIMEOUT", c.Server.WriteTimeout)
	c.Server.ShutdownTimeout = getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", c.Server.ShutdownTimeout)

	c.Database.Enabled = getBoolEnv("DB_ENABLED", c.Database.Enabled)
	c.Database.Host = getEnv("DB_HOST", c.Database.Host)
	c.Database.Port = getEnv("DB_PORT", c.Database.Port)
	c.Database.User = getEnv("DB_USER", c.Database.User)
	c.Database.Password = getEnv("DB_PASSWORD", c.Database.Password)
	c.Database.Name = getEnv("DB_NAME", c.Database.Name)
	c.Database.SSLMode = getEnv("DB_SSLMODE", c.Database.SSLMode)
	c.Database.MaxOpenConns = getIntEnv("DB_MAX_OPEN_CONNS", c.Database.MaxOpenConns)
	c.Database.MaxIdleConns = getIntEnv("DB_MAX_IDLE_CONNS", c.Database.MaxIdleConns)
	c.Database.MaxLifetime = getDurationEnv("DB_MAX_LIFETIME", c.Database.MaxLifetime)
	c.Database.MigrationsPath = getEnv("MIGRATIONS_PATH", c.Database.MigrationsPath)

	c.Cloud.CredentialsJSON = getEnv("GCP_CERTIFICATE", c.Cloud.CredentialsJSON)
	c.Cloud.CredentialsFile = getEnv("GOOGLE_APPLICATION_CREDENTIALS", c.Cloud.CredentialsFile)
	c.Cloud.ProjectID = getEnv("GCP_PROJECT", c.Cloud.ProjectID)
	c.Cloud.Bucket = getEnv("VIDEO_BUCKET", c.Cloud.Bucket)
	c.Cloud.VideoCollection = getEnv("VIDEO_COLLECTION", c.Cloud.VideoCollection)
	c.Cloud.PublicURLPrefix = strings.TrimRight(getEnv("PUBLIC_URL_PREFIX", c.Cloud.PublicURLPrefix), "/")
	c.Cloud.DocstoreBackend = strings.ToLower(getEnv("DOCSTORE_BACKEND", c.Cloud.DocstoreBackend))
	c.Cloud.MongoURI = getEnv("MONGO_URI", c.Cloud.MongoURI)
	c.Cloud.MongoDatabase = getEnv("MONGO_DATABASE", c.Cloud.MongoDatabase)

	c.Roster.ProtectedUIDs = getListEnv("PROTECTED_UIDS", c.Roster.ProtectedUIDs)

	c.Import.MaxUploadSize = getInt64Env("MAX_UPLOAD_SIZE", c.Import.MaxUploadSize)

	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("LOG_FORMAT", c.Log.Format)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Cloud.Bucket == "" {
		return fmt.Errorf("VIDEO_BUCKET is required")
	}
	if c.Cloud.VideoCollection == "" {
		return fmt.Errorf("VIDEO_COLLECTION is required")
	}
	switch c.Cloud.DocstoreBackend {
	case BackendFirestore:
	case BackendMongo:
		if c.Cloud.MongoURI == "" {
			return fmt.Errorf("MONGO_URI is required when DOCSTORE_BACKEND is mongo")
		}
		if c.Cloud.MongoDatabase == "" {
			return fmt.Errorf("MONGO_DATABASE is required when DOCSTORE_BACKEND is mongo")
		}
	default:
		return fmt.Errorf("DOCSTORE_BACKEND must be one of: %s, %s", BackendFirestore, BackendMongo)
	}
	if c.Database.Enabled {
		if c.Database.Host == "" {
			return fmt.Errorf("DB_HOST is required")
		}
		if c.Database.Name == "" {
			return fmt.Errorf("DB_NAME is required")
		}
	}
	return nil
}

// GetDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getInt64Env(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

// getListEnv splits a comma-separated value, dropping blanks
func getListEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
