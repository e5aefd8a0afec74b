package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port       string `yaml:"port" env:"SERVER_PORT"`
		Mode       string `yaml:"mode" env:"SERVER_MODE"`
		CronSecret string `yaml:"cron_secret" env:"CRON_SECRET"`
	} `yaml:"server"`

	Database struct {
		Host     string `yaml:"host" env:"DB_HOST"`
		Port     string `yaml:"port" env:"DB_PORT"`
		User     string `yaml:"user" env:"DB_USER"`
		Password string `yaml:"password" env:"DB_PASSWORD"`
		DBName   string `yaml:"dbname" env:"DB_NAME"`
		SSLMode  string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxConns int    `yaml:"max_conns" env:"DB_MAX_CONNS"`
	} `yaml:"database"`

	JWT struct {
		Secret                string `yaml:"secret" env:"JWT_SECRET"`
		AccessTokenExpiration string `yaml:"access_token_expiration" env:"JWT_ACCESS_TOKEN_EXPIRATION"`
		Issuer                string `yaml:"issuer" env:"JWT_ISSUER"`
	} `yaml:"jwt"`

	QR struct {
		Secret        string `yaml:"secret" env:"QR_SECRET"`
		SessionTTL    string `yaml:"session_ttl" env:"QR_SESSION_TTL"`
		SweepInterval string `yaml:"sweep_interval" env:"QR_SWEEP_INTERVAL"`
	} `yaml:"qr"`

	Redis struct {
		Addr     string `yaml:"addr" env:"REDIS_ADDR"`
		Password string `yaml:"password" env:"REDIS_PASSWORD"`
		DB       int    `yaml:"db" env:"REDIS_DB"`
	} `yaml:"redis"`

	RateLimit struct {
		ScanPerMinute int `yaml:"scan_per_minute" env:"RATE_LIMIT_SCAN_PER_MINUTE"`
	} `yaml:"rate_limit"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from a file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := processStructFields(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"

	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "unimark"
	config.Database.SSLMode = "disable"
	config.Database.MaxConns = 20

	config.JWT.AccessTokenExpiration = "24h"
	config.JWT.Issuer = "unimark.app"

	config.QR.SessionTTL = "15m"
	config.QR.SweepInterval = "1m"

	config.RateLimit.ScanPerMinute = 10

	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if config.QR.Secret == "" {
		return fmt.Errorf("QR secret is required")
	}
	// A leaked session token must not double as a login token.
	if config.QR.Secret == config.JWT.Secret {
		return fmt.Errorf("QR secret must differ from JWT secret")
	}

	if _, err := time.ParseDuration(config.JWT.AccessTokenExpiration); err != nil {
		return fmt.Errorf("invalid JWT access token expiration format: %w", err)
	}
	if _, err := time.ParseDuration(config.QR.SessionTTL); err != nil {
		return fmt.Errorf("invalid session TTL format: %w", err)
	}
	if _, err := time.ParseDuration(config.QR.SweepInterval); err != nil {
		return fmt.Errorf("invalid sweep interval format: %w", err)
	}

	return nil
}

// SessionTTL returns the parsed attendance session window.
func (c *Config) SessionTTL() time.Duration {
	d, _ := time.ParseDuration(c.QR.SessionTTL)
	return d
}

// SweepInterval returns how often expired sessions are swept.
func (c *Config) SweepInterval() time.Duration {
	d, _ := time.ParseDuration(c.QR.SweepInterval)
	return d
}

// AccessTokenExpiration returns the parsed login token lifetime.
func (c *Config) AccessTokenExpiration() time.Duration {
	d, _ := time.ParseDuration(c.JWT.AccessTokenExpiration)
	return d
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}
