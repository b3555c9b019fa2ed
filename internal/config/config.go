// Package config loads runtime settings from flags, environment, an optional
// .journal.yaml file and a .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"trade-journal/internal/domain"
)

// Keys understood by Load. Each is also read from JOURNAL_<KEY>.
const (
	KeyPostgresDSN  = "postgres_dsn"
	KeyUseMemory    = "use_memory"
	KeyHTTPAddr     = "http_addr"
	KeyUserID       = "user_id"
	KeyUserName     = "user_name"
	KeyUserPhotoURL = "user_photo_url"
	KeyTimezone     = "timezone"
)

// EnvPrefix prefixes every environment variable.
const EnvPrefix = "JOURNAL"

// Config is the resolved runtime configuration.
type Config struct {
	PostgresDSN string
	UseMemory   bool
	HTTPAddr    string
	Timezone    string

	UserID       string
	UserName     string
	UserPhotoURL string
}

// New returns a viper instance with defaults, environment binding and the
// config file search path set up. Flags may be bound onto it before Load.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyUseMemory, false)
	v.SetDefault(KeyHTTPAddr, ":8080")
	v.SetDefault(KeyTimezone, "Local")

	v.SetConfigName(".journal") // .yaml is implicit
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if override := os.Getenv(EnvPrefix + "_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")
	return v
}

// Load reads the config file if present and resolves every key.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	return &Config{
		PostgresDSN:  v.GetString(KeyPostgresDSN),
		UseMemory:    v.GetBool(KeyUseMemory),
		HTTPAddr:     v.GetString(KeyHTTPAddr),
		Timezone:     v.GetString(KeyTimezone),
		UserID:       v.GetString(KeyUserID),
		UserName:     v.GetString(KeyUserName),
		UserPhotoURL: v.GetString(KeyUserPhotoURL),
	}, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if !c.UseMemory && c.PostgresDSN == "" {
		return errors.New("postgres_dsn is required (use --use-memory for in-memory storage)")
	}
	if c.UserID == "" {
		return errors.New("user_id is required")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves Timezone. "Local" and "" mean the process time zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// User returns the configured identity, or nil when no user id is set.
func (c *Config) User() *domain.User {
	if c.UserID == "" {
		return nil
	}
	name := c.UserName
	if name == "" {
		name = c.UserID
	}
	return &domain.User{ID: c.UserID, DisplayName: name, PhotoURL: c.UserPhotoURL}
}

// LoadEnvFile exports KEY=VALUE lines from path into the environment.
// Variables already set are left alone and a missing file is ignored.
func LoadEnvFile(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if os.Getenv(key) == "" {
			_ = os.Setenv(key, value)
		}
	}
}
