// Package config handles loading and validation of storefront configuration.
// Supports both development (env vars, .env) and production (Secret Manager) modes.
package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"storefront/internal/api"
)

// Token store kinds.
const (
	StoreFile   = "file"
	StoreSQLite = "sqlite"
	StoreMemory = "memory"
)

// Config holds all storefront configuration.
// Environment determines whether the API section loads from env vars
// (development) or Secret Manager (production).
type Config struct {
	// Server settings
	Port        string
	Environment string // "development" or "production"
	LogLevel    string // "debug", "info", "warn", "error"

	// GCP settings (required in production)
	GCPProject string
	SecretID   string

	API        APIConfig
	TokenStore TokenStoreConfig
}

// APIConfig describes the commerce API.
// In production, this is loaded from Secret Manager as JSON.
type APIConfig struct {
	BaseURL string `json:"base_url" yaml:"base_url"`

	// ReturnURL is where hosted payment sends the buyer back to.
	// Defaults to the storefront's own address.
	ReturnURL string `json:"return_url,omitempty" yaml:"return_url,omitempty"`

	// ChromeTLS presents a Chrome TLS fingerprint to the API.
	ChromeTLS bool `json:"chrome_tls,omitempty" yaml:"chrome_tls,omitempty"`
}

// TokenStoreConfig selects where a signed-in CLI session keeps its token.
type TokenStoreConfig struct {
	Kind string `json:"kind" yaml:"kind"` // file, sqlite or memory
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}

// fileConfig mirrors the CONFIG_FILE layout (JSON or YAML).
type fileConfig struct {
	Port        string           `json:"port" yaml:"port"`
	Environment string           `json:"environment" yaml:"environment"`
	LogLevel    string           `json:"log_level" yaml:"log_level"`
	API         APIConfig        `json:"api" yaml:"api"`
	TokenStore  TokenStoreConfig `json:"token_store" yaml:"token_store"`
}

// Load reads configuration from file, environment, or Secret Manager.
// Priority: CONFIG_FILE (if set) → ENV vars / Secret Manager.
// Outside production a .env file (ENV_FILE, default ".env") is read first;
// variables already set in the environment win.
func Load(ctx context.Context) (*Config, error) {
	if os.Getenv("ENVIRONMENT") != "production" {
		if err := loadDotEnv(envOrDefault("ENV_FILE", ".env")); err != nil {
			return nil, err
		}
	}

	// If CONFIG_FILE is set, load everything from it
	if configPath := os.Getenv("CONFIG_FILE"); configPath != "" {
		return loadFromFile(configPath)
	}

	cfg := &Config{
		Port:        envOrDefault("PORT", "8080"),
		Environment: envOrDefault("ENVIRONMENT", "development"),
		LogLevel:    envOrDefault("LOG_LEVEL", "info"),
		GCPProject:  os.Getenv("GCP_PROJECT"),
		SecretID:    envOrDefault("STOREFRONT_SECRET_ID", "storefront-api"),
		TokenStore: TokenStoreConfig{
			Kind: envOrDefault("TOKEN_STORE", StoreFile),
			Path: os.Getenv("TOKEN_STORE_PATH"),
		},
	}

	var err error
	if cfg.Environment == "production" {
		if cfg.GCPProject == "" {
			return nil, fmt.Errorf("GCP_PROJECT required in production environment")
		}
		err = cfg.loadFromSecretManager(ctx)
	} else {
		err = cfg.loadFromEnv()
	}
	if err != nil {
		return nil, fmt.Errorf("loading API config: %w", err)
	}

	if err := cfg.finish(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadDotEnv reads a .env file into the environment. A missing file is fine.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading %s: %w", path, err)
	}
	return nil
}

// loadFromFile reads all configuration from a JSON or YAML file. The
// format follows the extension; anything other than .yaml/.yml is JSON.
func loadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var fc fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg := &Config{
		Port:        withDefault(fc.Port, "8080"),
		Environment: withDefault(fc.Environment, "development"),
		LogLevel:    withDefault(fc.LogLevel, "info"),
		API:         fc.API,
		TokenStore:  fc.TokenStore,
	}
	cfg.TokenStore.Kind = withDefault(cfg.TokenStore.Kind, StoreFile)

	if err := cfg.finish(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFromSecretManager fetches the API section from GCP Secret Manager.
// Secret name format: projects/{project}/secrets/{secret_id}/versions/latest
func (c *Config) loadFromSecretManager(ctx context.Context) error {
	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return fmt.Errorf("creating secret manager client: %w", err)
	}
	defer client.Close()

	secretName := fmt.Sprintf("projects/%s/secrets/%s/versions/latest",
		c.GCPProject, c.SecretID)

	result, err := client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: secretName,
	})
	if err != nil {
		return fmt.Errorf("accessing secret %s: %w", secretName, err)
	}

	if err := json.Unmarshal(result.Payload.Data, &c.API); err != nil {
		return fmt.Errorf("parsing secret JSON: %w", err)
	}
	return nil
}

// loadFromEnv reads the API section from individual environment variables.
func (c *Config) loadFromEnv() error {
	c.API = APIConfig{
		BaseURL:   os.Getenv("STOREFRONT_API_URL"),
		ReturnURL: os.Getenv("STOREFRONT_RETURN_URL"),
	}

	if v := os.Getenv("STOREFRONT_CHROME_TLS"); v != "" {
		on, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("parsing STOREFRONT_CHROME_TLS: %w", err)
		}
		c.API.ChromeTLS = on
	}
	return nil
}

// finish fills derived defaults and validates.
func (c *Config) finish() error {
	c.API.BaseURL = strings.TrimSuffix(withDefault(c.API.BaseURL, api.DefaultBaseURL), "/")
	if c.API.ReturnURL == "" {
		c.API.ReturnURL = fmt.Sprintf("http://localhost:%s", c.Port)
	}
	if c.TokenStore.Path == "" && c.TokenStore.Kind != StoreMemory {
		c.TokenStore.Path = defaultStorePath(c.TokenStore.Kind)
	}
	return c.validate()
}

// validate checks that all configuration fields are usable.
func (c *Config) validate() error {
	if err := checkURL("api base_url", c.API.BaseURL); err != nil {
		return err
	}
	if err := checkURL("return_url", c.API.ReturnURL); err != nil {
		return err
	}

	switch c.TokenStore.Kind {
	case StoreFile, StoreSQLite, StoreMemory:
	default:
		return fmt.Errorf("invalid token store %q (want %s, %s or %s)",
			c.TokenStore.Kind, StoreFile, StoreSQLite, StoreMemory)
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	return nil
}

// checkURL requires an absolute http(s) URL.
func checkURL(name, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", name, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid %s %q: must be an absolute http(s) URL", name, raw)
	}
	return nil
}

// defaultStorePath places the token under the user config directory.
func defaultStorePath(kind string) string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	name := "session.json"
	if kind == StoreSQLite {
		name = "session.db"
	}
	return filepath.Join(dir, "storefront", name)
}

// withDefault returns val if non-empty, otherwise defaultVal.
func withDefault(val, defaultVal string) string {
	if val != "" {
		return val
	}
	return defaultVal
}

// envOrDefault returns the environment variable value or the default if not set.
func envOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
