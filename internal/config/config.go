package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	envPrefix = "LIMONERO"

	defaultDBPath   = "./limonero.db"
	defaultPort     = "8080"
	defaultEnv      = "development"
	defaultLogLevel = "info"
)

// Config holds application configuration sourced from the environment,
// an optional .env file and an optional config.yaml.
type Config struct {
	AdminEmail    string `mapstructure:"admin_email"`
	AdminPassword string `mapstructure:"admin_password"`
	SessionSecret string `mapstructure:"session_secret"`
	DBPath        string `mapstructure:"db_path"`
	Port          string `mapstructure:"port"`
	Env           string `mapstructure:"app_env"`
	LogLevel      string `mapstructure:"log_level"`
}

// IsDev reports whether the app runs in development mode.
func (c Config) IsDev() bool {
	return c.Env == "" || c.Env == defaultEnv
}

// Warnings lists settings that are missing but not fatal.
func (c Config) Warnings() []string {
	var out []string
	if c.AdminEmail == "" {
		out = append(out, "ADMIN_EMAIL is not set")
	}
	if c.AdminPassword == "" {
		out = append(out, "ADMIN_PASSWORD is not set")
	}
	if c.SessionSecret == "" {
		out = append(out, "SESSION_SECRET is not set")
	}
	return out
}

var keys = []string{"admin_email", "admin_password", "session_secret", "db_path", "port", "app_env", "log_level"}

// Load reads configuration into a Config. A nil v gets a fresh viper
// instance; callers that bind command-line flags pass their own. When
// configFile is empty a config.yaml in the working directory is used if
// present.
func Load(v *viper.Viper, configFile string) (Config, error) {
	// Local development values. Real environment variables win.
	if err := loadDotEnv(".env"); err != nil {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	if v == nil {
		v = viper.New()
	}
	v.SetDefault("db_path", defaultDBPath)
	v.SetDefault("port", defaultPort)
	v.SetDefault("app_env", defaultEnv)
	v.SetDefault("log_level", defaultLogLevel)

	for _, k := range keys {
		plain := strings.ToUpper(k)
		if err := v.BindEnv(k, envPrefix+"_"+plain, plain); err != nil {
			return Config{}, fmt.Errorf("bind env %s: %w", k, err)
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}
