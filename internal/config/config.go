package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultJWTSecret      = "change-me-jwt-secret"
	defaultMasterPassword = "admin"
	defaultConfigPath     = "config.yaml"
)

type Config struct {
	AppEnv    string          `yaml:"app_env" env:"APP_ENV"`
	HTTP      HTTPConfig      `yaml:"http"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Inventory InventoryConfig `yaml:"inventory"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Search    SearchConfig    `yaml:"search"`
	Master    MasterConfig    `yaml:"master_user"`
}

type HTTPConfig struct {
	Addr            string        `yaml:"addr" env:"HTTP_ADDR"`
	AllowedOrigins  []string      `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SHUTDOWN_TIMEOUT"`
}

type DatabaseConfig struct {
	URL      string `yaml:"url" env:"DATABASE_URL"`
	LogLevel string `yaml:"log_level" env:"DB_LOG_LEVEL"`
}

type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret" env:"JWT_SECRET"`
	JWTTTL    time.Duration `yaml:"jwt_ttl" env:"JWT_TTL"`
}

type InventoryConfig struct {
	// BlockTTL bounds how long a unit stays blocked. Zero means blocks never
	// expire on their own.
	BlockTTL time.Duration `yaml:"block_ttl" env:"UNIT_BLOCK_TTL"`
}

type SchedulerConfig struct {
	Enabled          bool   `yaml:"enabled" env:"SCHEDULER_ENABLED"`
	BlockSweepSpec   string `yaml:"block_sweep_spec" env:"BLOCK_SWEEP_SPEC"`
	OverdueSweepSpec string `yaml:"overdue_sweep_spec" env:"OVERDUE_SWEEP_SPEC"`
}

type SearchConfig struct {
	MeiliHost   string `yaml:"meili_host" env:"MEILI_HOST"`
	MeiliAPIKey string `yaml:"meili_api_key" env:"MEILI_API_KEY"`
	LeadIndex   string `yaml:"lead_index" env:"MEILI_LEAD_INDEX"`
}

type MasterConfig struct {
	Username string `yaml:"username" env:"MASTER_USERNAME"`
	Password string `yaml:"password" env:"MASTER_PASSWORD"`
	Email    string `yaml:"email" env:"MASTER_EMAIL"`
}

func Default() *Config {
	return &Config{
		AppEnv: "dev",
		HTTP: HTTPConfig{
			Addr: ":8080",
			AllowedOrigins: []string{
				"http://localhost:3000",
				"http://localhost:5173",
				"http://127.0.0.1:3000",
				"http://127.0.0.1:5173",
			},
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			URL:      "realtyflow.db",
			LogLevel: "warn",
		},
		Auth: AuthConfig{
			JWTSecret: defaultJWTSecret,
			JWTTTL:    24 * time.Hour,
		},
		Inventory: InventoryConfig{
			BlockTTL: 48 * time.Hour,
		},
		Scheduler: SchedulerConfig{
			Enabled:          true,
			BlockSweepSpec:   "@every 1m",
			OverdueSweepSpec: "@hourly",
		},
		Search: SearchConfig{
			LeadIndex: "leads",
		},
		Master: MasterConfig{
			Username: "admin",
			Password: defaultMasterPassword,
			Email:    "admin@realtyflow.com",
		},
	}
}

// Load builds the runtime configuration: defaults, then the YAML file named
// by CONFIG_PATH, then environment variables (a local .env is loaded first
// when present).
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("level=warn msg=\"failed to read .env\" error=%q", err)
	}

	path := strings.TrimSpace(os.Getenv("CONFIG_PATH"))
	if path == "" {
		path = defaultConfigPath
	}

	cfg, err := LoadFile(path)
	if err != nil {
		return nil, err
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile overlays the YAML file at path on top of the defaults. A missing
// file yields the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

func (c *Config) normalize() {
	c.AppEnv = strings.ToLower(strings.TrimSpace(c.AppEnv))
	c.Auth.JWTSecret = strings.TrimSpace(c.Auth.JWTSecret)
	c.Database.URL = strings.TrimSpace(c.Database.URL)

	origins := c.HTTP.AllowedOrigins[:0]
	for _, o := range c.HTTP.AllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	c.HTTP.AllowedOrigins = origins
}

func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if c.Auth.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be > 0")
	}
	if c.Inventory.BlockTTL < 0 {
		return fmt.Errorf("UNIT_BLOCK_TTL must be >= 0")
	}
	if c.Master.Username == "" || c.Master.Password == "" {
		return fmt.Errorf("master user credentials must not be empty")
	}

	if c.IsProdLike() {
		if isEmptyOrDefault(c.Auth.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
		if isEmptyOrDefault(c.Master.Password, defaultMasterPassword) {
			return fmt.Errorf("in prod/release MASTER_PASSWORD must be set and not default")
		}
	}
	return nil
}

func (c *Config) IsProdLike() bool {
	env := strings.ToLower(strings.TrimSpace(c.AppEnv))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}
