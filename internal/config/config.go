package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// AppName names the XDG config directory
const AppName = "phishguard"

type Config struct {
	Server struct {
		Host           string   `yaml:"host"`
		Port           int      `yaml:"port"`
		AllowedOrigins []string `yaml:"allowedOrigins"`
		SecureCookies  bool     `yaml:"secureCookies"`
	} `yaml:"server"`

	Scanner struct {
		BaseURL   string        `yaml:"baseURL"`
		ScanPath  string        `yaml:"scanPath"`
		BatchPath string        `yaml:"batchPath"`
		Timeout   time.Duration `yaml:"timeout"` // 0 = tanpa timeout
	} `yaml:"scanner"`

	UI struct {
		ToastDuration time.Duration `yaml:"toastDuration"`
		StepInterval  time.Duration `yaml:"stepInterval"`
	} `yaml:"ui"`

	Session struct {
		TTL             time.Duration `yaml:"ttl"`
		CleanupInterval time.Duration `yaml:"cleanupInterval"`
	} `yaml:"session"`

	RateLimit struct {
		Capacity   int `yaml:"capacity"`
		RefillRate int `yaml:"refillRate"`
	} `yaml:"rateLimit"`

	Database struct {
		Driver   string `yaml:"driver"` // sqlite | mysql | postgres | none
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
		SSLMode  string `yaml:"sslMode"`
		Path     string `yaml:"path"` // sqlite file
	} `yaml:"database"`

	Minio struct {
		Endpoint    string        `yaml:"endpoint"`
		AccessKey   string        `yaml:"accessKey"`
		SecretKey   string        `yaml:"secretKey"`
		BucketName  string        `yaml:"bucketName"`
		Region      string        `yaml:"region"`
		UseSSL      bool          `yaml:"useSSL"`
		ShareExpiry time.Duration `yaml:"shareExpiry"`
	} `yaml:"minio"`

	OpenAI struct {
		APIKey  string `yaml:"apiKey"`
		Model   string `yaml:"model"`
		BaseURL string `yaml:"baseURL"`
	} `yaml:"openai"`
}

// Default returns a config that runs without any external store
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load baca file config.yaml
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ResolvePath picks the config file: flag, then CONFIG_PATH, then
// ./config.yaml, then the XDG config dir. explicit is false when nothing
// was asked for, so a missing file may fall back to Default.
func ResolvePath(flagPath string) (path string, explicit bool) {
	if flagPath != "" {
		return flagPath, true
	}
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v, true
	}
	if _, err := os.Stat("config.yaml"); err == nil {
		return "config.yaml", false
	}
	return filepath.Join(XDGConfigDir(), "config.yaml"), false
}

// LoadResolved loads the resolved path, falling back to Default when an
// implicit path does not exist.
func LoadResolved(flagPath string) (*Config, string, error) {
	path, explicit := ResolvePath(flagPath)
	cfg, err := Load(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return Default(), "", nil
		}
		return nil, path, err
	}
	return cfg, path, nil
}

// XDGConfigDir returns ~/.config/phishguard on Linux
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGDataDir holds the default sqlite history file
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if len(c.Server.AllowedOrigins) == 0 {
		c.Server.AllowedOrigins = []string{"*"}
	}
	if c.Scanner.BaseURL == "" {
		c.Scanner.BaseURL = "http://localhost:5000"
	}
	if c.Scanner.ScanPath == "" {
		c.Scanner.ScanPath = "/advanced-scan"
	}
	if c.Scanner.BatchPath == "" {
		c.Scanner.BatchPath = "/batch-advanced-scan"
	}
	if c.UI.ToastDuration <= 0 {
		c.UI.ToastDuration = 5 * time.Second
	}
	if c.UI.StepInterval <= 0 {
		c.UI.StepInterval = 800 * time.Millisecond
	}
	if c.Session.TTL <= 0 {
		c.Session.TTL = 24 * time.Hour
	}
	if c.Session.CleanupInterval <= 0 {
		c.Session.CleanupInterval = 10 * time.Minute
	}
	if c.RateLimit.Capacity <= 0 {
		c.RateLimit.Capacity = 30
	}
	if c.RateLimit.RefillRate <= 0 {
		c.RateLimit.RefillRate = 1
	}
	c.Database.Driver = strings.ToLower(strings.TrimSpace(c.Database.Driver))
	if c.Database.Driver == "" {
		c.Database.Driver = "sqlite"
	}
	if c.Database.Driver == "sqlite" && c.Database.Path == "" {
		c.Database.Path = filepath.Join(XDGDataDir(), "history.db")
	}
	if c.Database.Port == 0 {
		switch c.Database.Driver {
		case "mysql":
			c.Database.Port = 3306
		case "postgres":
			c.Database.Port = 5432
		}
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Minio.ShareExpiry <= 0 {
		c.Minio.ShareExpiry = 24 * time.Hour
	}
	if c.OpenAI.APIKey == "" {
		c.OpenAI.APIKey = os.Getenv("OPENAI_API_KEY")
	}
}

// Validate checks values that defaults cannot fix
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	u, err := url.Parse(c.Scanner.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("scanner.baseURL must be an absolute http(s) URL: %q", c.Scanner.BaseURL)
	}
	if c.Scanner.Timeout < 0 {
		return fmt.Errorf("scanner.timeout must not be negative")
	}
	switch c.Database.Driver {
	case "sqlite", "mysql", "postgres", "none":
	default:
		return fmt.Errorf("database.driver must be sqlite, mysql, postgres or none: %q", c.Database.Driver)
	}
	return nil
}

// Addr is the listen address
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// SharingEnabled reports whether a MinIO endpoint is configured
func (c *Config) SharingEnabled() bool {
	return c.Minio.Endpoint != "" && c.Minio.BucketName != ""
}

// Helper untuk build DSN MySQL
func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
	)
}

// Helper untuk build DSN Postgres
func (c *Config) PostgresDSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Database.User, c.Database.Password),
		Host:     fmt.Sprintf("%s:%d", c.Database.Host, c.Database.Port),
		Path:     "/" + c.Database.Name,
		RawQuery: "sslmode=" + url.QueryEscape(c.Database.SSLMode),
	}
	return u.String()
}
