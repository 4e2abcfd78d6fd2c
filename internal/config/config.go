// Package config loads application settings from an optional YAML file and
// the environment. Environment variables always win over the file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

const (
	defaultJWTSecret = "dev-secret-change-in-production"

	StorageFile     = "file"
	StoragePostgres = "postgres"
	StorageMySQL    = "mysql"
)

type Config struct {
	Env         string        `yaml:"env"`
	Port        string        `yaml:"port"`
	DataDir     string        `yaml:"data_dir"`
	MediaDir    string        `yaml:"media_dir"`
	FrontendDir string        `yaml:"frontend_dir"`
	JWTSecret   string        `yaml:"jwt_secret"`
	SessionTTL  time.Duration `yaml:"session_ttl"`
	BcryptCost  int           `yaml:"bcrypt_cost"`

	AllowedOrigins []string `yaml:"allowed_origins"`

	Cookie    CookieConfig    `yaml:"cookie"`
	Storage   StorageConfig   `yaml:"storage"`
	SeedAdmin SeedAdminConfig `yaml:"seed_admin"`
	Webhooks  WebhookConfig   `yaml:"webhooks"`
	Log       LogConfig       `yaml:"log"`

	// UsingDefaultSecret is set when no JWT secret was configured.
	UsingDefaultSecret bool `yaml:"-"`
}

type CookieConfig struct {
	Name   string `yaml:"name"`
	Domain string `yaml:"domain"`
	Secure bool   `yaml:"secure"`
}

type StorageConfig struct {
	Driver      string `yaml:"driver"`
	DatabaseURL string `yaml:"database_url"`
}

// SeedAdminConfig is the account created when the admins document is empty.
// The defaults are public knowledge; change the password after first login.
type SeedAdminConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Email    string `yaml:"email"`
	Name     string `yaml:"name"`
}

type WebhookConfig struct {
	DiscordURL string `yaml:"discord_url"`
	SlackURL   string `yaml:"slack_url"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Default() *Config {
	return &Config{
		Env:         "development",
		Port:        "3000",
		DataDir:     "data",
		FrontendDir: "frontend",
		SessionTTL:  7 * 24 * time.Hour,
		BcryptCost:  10,
		Cookie: CookieConfig{
			Name: "token",
		},
		Storage: StorageConfig{
			Driver: StorageFile,
		},
		SeedAdmin: SeedAdminConfig{
			Username: "admin",
			Password: "123456",
			Email:    "admin@ecophos.local",
			Name:     "Administrador",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load builds the configuration: defaults, then the YAML file at path (if
// any), then environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	cfg.fillDerived()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Env = getEnv("ENV", c.Env)
	c.Port = getEnv("PORT", c.Port)
	c.DataDir = getEnv("DATA_DIR", c.DataDir)
	c.MediaDir = getEnv("MEDIA_DIR", c.MediaDir)
	c.FrontendDir = getEnv("FRONTEND_DIR", c.FrontendDir)
	c.JWTSecret = getEnv("JWT_SECRET", c.JWTSecret)
	c.SessionTTL = getEnvAsDuration("SESSION_TTL", c.SessionTTL)
	c.BcryptCost = getEnvAsInt("BCRYPT_COST", c.BcryptCost)

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		c.AllowedOrigins = splitList(origins)
	}

	c.Cookie.Name = getEnv("COOKIE_NAME", c.Cookie.Name)
	c.Cookie.Domain = getEnv("COOKIE_DOMAIN", c.Cookie.Domain)
	c.Cookie.Secure = getEnvAsBool("COOKIE_SECURE", c.Cookie.Secure)

	c.Storage.Driver = strings.ToLower(getEnv("STORAGE_DRIVER", c.Storage.Driver))
	c.Storage.DatabaseURL = getEnv("DATABASE_URL", c.Storage.DatabaseURL)

	c.SeedAdmin.Username = getEnv("SEED_ADMIN_USERNAME", c.SeedAdmin.Username)
	c.SeedAdmin.Password = getEnv("SEED_ADMIN_PASSWORD", c.SeedAdmin.Password)
	c.SeedAdmin.Email = getEnv("SEED_ADMIN_EMAIL", c.SeedAdmin.Email)

	c.Webhooks.DiscordURL = getEnv("CONTACT_DISCORD_WEBHOOK", c.Webhooks.DiscordURL)
	c.Webhooks.SlackURL = getEnv("CONTACT_SLACK_WEBHOOK", c.Webhooks.SlackURL)

	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("LOG_FORMAT", c.Log.Format)
}

func (c *Config) fillDerived() {
	if c.MediaDir == "" {
		c.MediaDir = filepath.Join(c.DataDir, "img")
	}

	if c.JWTSecret == "" {
		c.JWTSecret = defaultJWTSecret
		c.UsingDefaultSecret = true
	}
}

// SetDataDir points the data directory elsewhere, moving the media
// directory along with it unless MEDIA_DIR was set explicitly.
func (c *Config) SetDataDir(dir string) {
	if c.MediaDir == filepath.Join(c.DataDir, "img") {
		c.MediaDir = filepath.Join(dir, "img")
	}
	c.DataDir = dir
}

func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case StorageFile:
	case StoragePostgres, StorageMySQL:
		if c.Storage.DatabaseURL == "" {
			return fmt.Errorf("storage driver %q requires DATABASE_URL", c.Storage.Driver)
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}

	if c.Port == "" {
		return fmt.Errorf("port must not be empty")
	}

	if c.SessionTTL <= 0 {
		return fmt.Errorf("session TTL must be positive")
	}

	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("bcrypt cost must be between %d and %d, got %d", bcrypt.MinCost, bcrypt.MaxCost, c.BcryptCost)
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
