package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Model     ModelConfig     `yaml:"model"`
	Recommend RecommendConfig `yaml:"recommend"`
	Database  DatabaseConfig  `yaml:"database"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	Logging   LoggingConfig   `yaml:"logging"`
	Auth      AuthConfig      `yaml:"auth"`
}

type ServerConfig struct {
	Host           string        `yaml:"host"`
	Port           int           `yaml:"port"`
	CORSOrigins    []string      `yaml:"cors_origins"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// ModelConfig locates the three scoring artifacts. Relative file names are
// resolved against ArtifactDir.
type ModelConfig struct {
	ArtifactDir  string `yaml:"artifact_dir"`
	MetadataFile string `yaml:"metadata_file"`
	ScalerFile   string `yaml:"scaler_file"`
	WeightsFile  string `yaml:"weights_file"`
}

type RecommendConfig struct {
	DefaultTopK        int     `yaml:"default_top_k"`
	MaxTopK            int     `yaml:"max_top_k"`
	MinSuitability     float64 `yaml:"min_suitability"`
	DefaultDurationMin float64 `yaml:"default_duration_min"`
	DefaultMET         float64 `yaml:"default_met"`
}

// DatabaseConfig is optional. When Host is empty no run log is kept.
type DatabaseConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	Name           string `yaml:"name"`
	User           string `yaml:"user"`
	Password       string `yaml:"password"`
	SSLMode        string `yaml:"sslmode"`
	MigrationsPath string `yaml:"migrations_path"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

type LoggingConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

// Enabled reports whether a database is configured.
func (d DatabaseConfig) Enabled() bool {
	return d.Host != ""
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// MetadataPath returns the resolved path of the model metadata JSON.
func (m ModelConfig) MetadataPath() string { return m.resolve(m.MetadataFile) }

// ScalerPath returns the resolved path of the fitted scaler JSON.
func (m ModelConfig) ScalerPath() string { return m.resolve(m.ScalerFile) }

// WeightsPath returns the resolved path of the weights blob.
func (m ModelConfig) WeightsPath() string { return m.resolve(m.WeightsFile) }

func (m ModelConfig) resolve(name string) string {
	if filepath.IsAbs(name) || m.ArtifactDir == "" {
		return name
	}
	return filepath.Join(m.ArtifactDir, name)
}

// Default returns the configuration used when a key is absent from the file.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           8080,
			RequestTimeout: 30 * time.Second,
		},
		Model: ModelConfig{
			ArtifactDir:  "artifacts",
			MetadataFile: "metadata.json",
			ScalerFile:   "scaler.json",
			WeightsFile:  "weights.cbor",
		},
		Recommend: RecommendConfig{
			DefaultTopK:        5,
			MaxTopK:            50,
			MinSuitability:     0.4,
			DefaultDurationMin: 45,
			DefaultMET:         5.0,
		},
		Database: DatabaseConfig{
			Port:           5432,
			MigrationsPath: "migrations",
		},
		Tailscale: TailscaleConfig{
			Hostname: "fitrec",
			StateDir: "tsnet-state",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			MaxSizeMB:  50,
			MaxBackups: 5,
		},
	}
}

// Load reads config from a YAML file on top of Default(), then applies
// environment variable overrides. Env vars use the prefix FITREC_ and
// underscore-separated paths:
//
//	FITREC_SERVER_HOST, FITREC_SERVER_PORT, FITREC_MODEL_DIR,
//	FITREC_DB_HOST, FITREC_DB_PORT, FITREC_DB_NAME,
//	FITREC_DB_USER, FITREC_DB_PASSWORD, FITREC_DB_SSLMODE,
//	FITREC_AUTH_API_KEY, FITREC_LOG_LEVEL, FITREC_LOG_FILE,
//	FITREC_TAILSCALE_ENABLED
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// LoadEnvFile loads KEY=VALUE pairs from a dotenv file into the process
// environment. Variables already set are left alone. A missing file is not
// an error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading env file %s: %w", path, err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("FITREC_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("FITREC_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("FITREC_MODEL_DIR"); v != "" {
		cfg.Model.ArtifactDir = v
	}
	if v := os.Getenv("FITREC_DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("FITREC_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("FITREC_DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("FITREC_DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("FITREC_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("FITREC_DB_SSLMODE"); v != "" {
		cfg.Database.SSLMode = v
	}
	if v := os.Getenv("FITREC_AUTH_API_KEY"); v != "" {
		cfg.Auth.APIKey = v
	}
	if v := os.Getenv("FITREC_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("FITREC_LOG_FILE"); v != "" {
		cfg.Logging.File = v
	}
	if v := os.Getenv("FITREC_TAILSCALE_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Tailscale.Enabled = b
		}
	}
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}
	if c.Model.MetadataFile == "" || c.Model.ScalerFile == "" || c.Model.WeightsFile == "" {
		return fmt.Errorf("model.metadata_file, model.scaler_file and model.weights_file are required")
	}
	if c.Recommend.DefaultTopK < 1 {
		return fmt.Errorf("recommend.default_top_k must be at least 1")
	}
	if c.Recommend.MaxTopK < c.Recommend.DefaultTopK {
		return fmt.Errorf("recommend.max_top_k must be >= recommend.default_top_k")
	}
	if c.Recommend.MinSuitability < 0 || c.Recommend.MinSuitability > 1 {
		return fmt.Errorf("recommend.min_suitability must be within [0,1]")
	}
	if c.Database.Enabled() {
		if c.Database.Port == 0 {
			return fmt.Errorf("database.port is required")
		}
		if c.Database.Name == "" {
			return fmt.Errorf("database.name is required")
		}
		if c.Database.User == "" {
			return fmt.Errorf("database.user is required")
		}
	}
	if c.Tailscale.Enabled && c.Tailscale.Hostname == "" {
		return fmt.Errorf("tailscale.hostname is required when tailscale is enabled")
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}
	return nil
}
