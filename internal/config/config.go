package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Transport  TransportConfig  `yaml:"transport"`
	Auth       AuthConfig       `yaml:"auth"`
	DB         DBConfig         `yaml:"db"`
	Store      StoreConfig      `yaml:"store"`
	Log        LogConfig        `yaml:"log"`
	Extraction ExtractionConfig `yaml:"extraction"`
	Fleets     []string         `yaml:"fleets"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type TransportConfig struct {
	// Mode is "http" or "stdio".
	Mode string `yaml:"mode"`
}

type AuthConfig struct {
	Enabled bool `yaml:"enabled"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type StoreConfig struct {
	// Backend is "sqlite" or "mongo".
	Backend       string `yaml:"backend"`
	MongoURI      string `yaml:"mongo_uri"`
	MongoDatabase string `yaml:"mongo_database"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type ExtractionConfig struct {
	BaseURL     string        `yaml:"base_url"`
	APIKey      string        `yaml:"api_key"`
	Timeout     time.Duration `yaml:"timeout"`
	MaxParallel int           `yaml:"max_parallel"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Transport: TransportConfig{
			Mode: "http",
		},
		Auth: AuthConfig{
			Enabled: true,
		},
		DB: DBConfig{
			Path: "fleetmaint.db",
		},
		Store: StoreConfig{
			Backend:       "sqlite",
			MongoDatabase: "fleetmaint",
		},
		Log: LogConfig{
			Level: "info",
		},
		Extraction: ExtractionConfig{
			Timeout:     2 * time.Minute,
			MaxParallel: 4,
		},
		Fleets: []string{"CAT 793", "KOMATSU 930", "LIEBHERR 996", "DRILLS", "AUXILIARY"},
	}
}

// Load reads configuration from a .env file, an optional YAML file and
// environment variables, in that order of increasing precedence.
func Load() (Config, error) {
	if err := loadDotEnv(envOr("FLEETMAINT_ENV_FILE", ".env")); err != nil {
		return Config{}, err
	}

	cfg := Default()

	if path := os.Getenv("FLEETMAINT_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the enumerated settings.
func (c Config) Validate() error {
	switch c.Transport.Mode {
	case "http", "stdio":
	default:
		return fmt.Errorf("invalid transport mode %q: want http or stdio", c.Transport.Mode)
	}
	switch c.Store.Backend {
	case "sqlite":
	case "mongo":
		if c.Store.MongoURI == "" {
			return errors.New("mongo backend requires store.mongo_uri")
		}
	default:
		return fmt.Errorf("invalid store backend %q: want sqlite or mongo", c.Store.Backend)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	return nil
}

// Addr is the HTTP listen address.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func applyEnv(cfg *Config) error {
	if host := os.Getenv("FLEETMAINT_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("FLEETMAINT_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return fmt.Errorf("invalid FLEETMAINT_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if mode := os.Getenv("FLEETMAINT_TRANSPORT"); mode != "" {
		cfg.Transport.Mode = strings.ToLower(mode)
	}
	if enabled := os.Getenv("FLEETMAINT_AUTH_ENABLED"); enabled != "" {
		v, err := strconv.ParseBool(enabled)
		if err != nil {
			return fmt.Errorf("invalid FLEETMAINT_AUTH_ENABLED: %w", err)
		}
		cfg.Auth.Enabled = v
	}
	if dbPath := os.Getenv("FLEETMAINT_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if backend := os.Getenv("FLEETMAINT_STORE"); backend != "" {
		cfg.Store.Backend = strings.ToLower(backend)
	}
	if uri := os.Getenv("FLEETMAINT_MONGO_URI"); uri != "" {
		cfg.Store.MongoURI = uri
	}
	if db := os.Getenv("FLEETMAINT_MONGO_DATABASE"); db != "" {
		cfg.Store.MongoDatabase = db
	}
	if level := os.Getenv("FLEETMAINT_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if url := os.Getenv("FLEETMAINT_EXTRACTION_URL"); url != "" {
		cfg.Extraction.BaseURL = url
	}
	if key := os.Getenv("FLEETMAINT_EXTRACTION_API_KEY"); key != "" {
		cfg.Extraction.APIKey = key
	}
	if timeout := os.Getenv("FLEETMAINT_EXTRACTION_TIMEOUT"); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return fmt.Errorf("invalid FLEETMAINT_EXTRACTION_TIMEOUT: %w", err)
		}
		cfg.Extraction.Timeout = d
	}
	if n := os.Getenv("FLEETMAINT_EXTRACTION_MAX_PARALLEL"); n != "" {
		v, err := strconv.Atoi(n)
		if err != nil {
			return fmt.Errorf("invalid FLEETMAINT_EXTRACTION_MAX_PARALLEL: %w", err)
		}
		cfg.Extraction.MaxParallel = v
	}
	if fleets := os.Getenv("FLEETMAINT_FLEETS"); fleets != "" {
		cfg.Fleets = splitList(fleets)
	}
	return nil
}

// loadDotEnv exports the variables of path without overriding ones already set.
// A missing file is not an error.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
