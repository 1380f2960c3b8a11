package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DatabaseConfig selects and configures the record store backend.
type DatabaseConfig struct {
	Driver   string
	Path     string
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// PostgresDSN renders the keyword/value connection string.
func (c DatabaseConfig) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// MediaConfig holds the image processing settings.
type MediaConfig struct {
	ImageMaxSize int
	ImageQuality int
}

// SweepConfig controls the orphan file sweeper.
type SweepConfig struct {
	Interval time.Duration
	TTL      time.Duration
}

// ServiceConfig holds all configuration for the PawConnect service.
type ServiceConfig struct {
	AppEnv      string
	HTTPAddr    string
	DataDir     string
	DBConfig    DatabaseConfig
	MediaConfig MediaConfig
	SweepConfig SweepConfig
}

// Load reads pawconnect.yaml (optional) and environment variables carrying
// the given prefix, e.g. PAWCONNECT_DATA_DIR.
func Load(prefix string) (*ServiceConfig, error) {
	v, err := newViper(prefix)
	if err != nil {
		return nil, err
	}
	return fromViper(v)
}

func newViper(prefix string) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigName("pawconnect")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.SetEnvPrefix(prefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("HTTP_ADDR", "127.0.0.1:8080")
	v.SetDefault("DATA_DIR", "./data")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DB_PATH", "")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "pawconnect")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("IMAGE_MAX_SIZE", 800)
	v.SetDefault("IMAGE_QUALITY", 85)
	v.SetDefault("SWEEP_INTERVAL", time.Hour)
	v.SetDefault("SWEEP_TTL", 24*time.Hour)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}
	return v, nil
}

func fromViper(v *viper.Viper) (*ServiceConfig, error) {
	dataDir := v.GetString("DATA_DIR")
	dbPath := v.GetString("DB_PATH")
	if dbPath == "" {
		dbPath = filepath.Join(dataDir, "pawconnect.db")
	}

	cfg := &ServiceConfig{
		AppEnv:   v.GetString("APP_ENV"),
		HTTPAddr: v.GetString("HTTP_ADDR"),
		DataDir:  dataDir,
		DBConfig: DatabaseConfig{
			Driver:   strings.ToLower(v.GetString("DB_DRIVER")),
			Path:     dbPath,
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		MediaConfig: MediaConfig{
			ImageMaxSize: v.GetInt("IMAGE_MAX_SIZE"),
			ImageQuality: v.GetInt("IMAGE_QUALITY"),
		},
		SweepConfig: SweepConfig{
			Interval: v.GetDuration("SWEEP_INTERVAL"),
			TTL:      v.GetDuration("SWEEP_TTL"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the service cannot start with.
func (c *ServiceConfig) Validate() error {
	switch c.DBConfig.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (want sqlite or postgres)", c.DBConfig.Driver)
	}
	if c.DataDir == "" {
		return fmt.Errorf("DATA_DIR is required")
	}
	if c.MediaConfig.ImageMaxSize <= 0 {
		return fmt.Errorf("IMAGE_MAX_SIZE must be positive")
	}
	if c.MediaConfig.ImageQuality < 1 || c.MediaConfig.ImageQuality > 100 {
		return fmt.Errorf("IMAGE_QUALITY must be between 1 and 100")
	}
	if c.SweepConfig.Interval < 0 || c.SweepConfig.TTL < 0 {
		return fmt.Errorf("SWEEP_INTERVAL and SWEEP_TTL must not be negative")
	}
	return nil
}

// IsDevelopment reports whether the service runs in development mode.
func (c *ServiceConfig) IsDevelopment() bool {
	return c.AppEnv == "development"
}
