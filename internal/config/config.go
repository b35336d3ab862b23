package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/vijayapps/vac_site/internal/logger"
)

type ServerConfig struct {
	Port               int
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	IdleTimeout        time.Duration
	ShutDownTimeout    time.Duration
	RequestTimeout     time.Duration
	CORSAllowedOrigins string
}

type StoreConfig struct {
	// Dir holds the snapshot files. Empty selects the in-memory store.
	Dir             string
	WatchEnabled    bool
	Debounce        time.Duration
	RefreshInterval time.Duration
}

type RemoteConfig struct {
	Type           string
	URL            string
	NotifyChannel  string
	RelayEnabled   bool
	MigrateOnStart bool
	FetchTimeout   time.Duration
}

type AdminConfig struct {
	Password   string
	SessionTTL time.Duration
}

type MiscConfig struct {
	GinMode  string
	LogLevel string
}

type Config struct {
	Server ServerConfig
	Store  StoreConfig
	Remote RemoteConfig
	Admin  AdminConfig
	Misc   MiscConfig
}

const envPrefix = "VAC_SITE"

// LoadConfig reads config.yaml from VAC_SITE_CONFIG_PATH (default ./config),
// applies VAC_SITE_* overrides and validates the result.
// A .env file in the working directory is loaded first when present.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf(".env file error: %w", err)
	}

	confPath := getEnvOrDefault(envPrefix+"_CONFIG_PATH", "./config")
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(confPath)

	setDefaults()

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config file error: %w", err)
		}
		logger.WithComponent("config").Info("no config file found, using defaults and env vars")
	}

	port, err := getEnvOrViperPort("PORT", "server.port")
	if err != nil {
		return nil, err
	}

	remoteURL := viper.GetString("remote.url")
	if remoteURL == "" {
		remoteURL, err = databaseURLFromEnv("SITEDB")
		if err != nil && viper.GetString("remote.type") == "postgres" {
			return nil, err
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:               port,
			ReadTimeout:        viper.GetDuration("server.read_timeout"),
			WriteTimeout:       viper.GetDuration("server.write_timeout"),
			IdleTimeout:        viper.GetDuration("server.idle_timeout"),
			ShutDownTimeout:    viper.GetDuration("server.shutdown_timeout"),
			RequestTimeout:     viper.GetDuration("server.request_timeout"),
			CORSAllowedOrigins: viper.GetString("server.cors_allowed_origins"),
		},
		Store: StoreConfig{
			Dir:             viper.GetString("store.dir"),
			WatchEnabled:    viper.GetBool("store.watch_enabled"),
			Debounce:        viper.GetDuration("store.debounce"),
			RefreshInterval: viper.GetDuration("store.refresh_interval"),
		},
		Remote: RemoteConfig{
			Type:           viper.GetString("remote.type"),
			URL:            remoteURL,
			NotifyChannel:  viper.GetString("remote.notify_channel"),
			RelayEnabled:   viper.GetBool("remote.relay_enabled"),
			MigrateOnStart: viper.GetBool("remote.migrate_on_start"),
			FetchTimeout:   viper.GetDuration("remote.fetch_timeout"),
		},
		Admin: AdminConfig{
			Password:   viper.GetString("admin.password"),
			SessionTTL: viper.GetDuration("admin.session_ttl"),
		},
		Misc: MiscConfig{
			GinMode:  viper.GetString("misc.gin_mode"),
			LogLevel: getEnvOrDefault("LOG_LEVEL", viper.GetString("misc.log_level")),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults() {
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 10*time.Second)
	viper.SetDefault("server.write_timeout", 0)
	viper.SetDefault("server.idle_timeout", 120*time.Second)
	viper.SetDefault("server.shutdown_timeout", 5*time.Second)
	viper.SetDefault("server.request_timeout", 5*time.Second)
	viper.SetDefault("server.cors_allowed_origins", "")

	viper.SetDefault("store.dir", "./data/cache")
	viper.SetDefault("store.watch_enabled", true)
	viper.SetDefault("store.debounce", 200*time.Millisecond)
	viper.SetDefault("store.refresh_interval", 5*time.Minute)

	viper.SetDefault("remote.type", "memory")
	viper.SetDefault("remote.url", "")
	viper.SetDefault("remote.notify_channel", "vac_site_changes")
	viper.SetDefault("remote.relay_enabled", true)
	viper.SetDefault("remote.migrate_on_start", false)
	viper.SetDefault("remote.fetch_timeout", 10*time.Second)

	viper.SetDefault("admin.password", "")
	viper.SetDefault("admin.session_ttl", 8*time.Hour)

	viper.SetDefault("misc.gin_mode", "release")
	viper.SetDefault("misc.log_level", "info")
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	// A zero write timeout is allowed: the event stream is long lived.
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout < 0 || c.Server.IdleTimeout <= 0 || c.Server.ShutDownTimeout <= 0 {
		return fmt.Errorf("server timeouts must be positive")
	}
	if c.Server.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive")
	}
	if c.Store.WatchEnabled && c.Store.Dir == "" {
		return fmt.Errorf("store watch requires store.dir")
	}
	if c.Store.Debounce < 0 {
		return fmt.Errorf("store debounce must not be negative")
	}
	if c.Store.RefreshInterval < 0 {
		return fmt.Errorf("store refresh interval must not be negative")
	}
	switch c.Remote.Type {
	case "postgres":
		if c.Remote.URL == "" {
			return fmt.Errorf("remote url is required for postgres")
		}
		if c.Remote.RelayEnabled && c.Remote.NotifyChannel == "" {
			return fmt.Errorf("remote notify channel is required when the relay is enabled")
		}
	case "memory":
	default:
		return fmt.Errorf("invalid remote type: %q", c.Remote.Type)
	}
	if c.Remote.FetchTimeout <= 0 {
		return fmt.Errorf("remote fetch timeout must be positive")
	}
	if c.Admin.SessionTTL <= 0 {
		return fmt.Errorf("admin session ttl must be positive")
	}
	switch c.Misc.GinMode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("invalid gin mode: %q", c.Misc.GinMode)
	}
	if _, err := logrus.ParseLevel(c.Misc.LogLevel); err != nil {
		return fmt.Errorf("invalid log level: %q", c.Misc.LogLevel)
	}
	return nil
}

// AdminEnabled reports whether the admin API should be mounted.
func (c *Config) AdminEnabled() bool {
	return c.Admin.Password != ""
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvOrViperPort(envKey, viperKey string) (int, error) {
	if value := os.Getenv(envKey); value != "" {
		port, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %w", envKey, err)
		}
		return port, nil
	}
	return viper.GetInt(viperKey), nil
}

// databaseURLFromEnv builds a Postgres URL from PREFIX_URL, or from
// PREFIX_HOST, PREFIX_PORT, PREFIX_USER, PREFIX_PASSWORD, PREFIX_DBNAME and PREFIX_SSLMODE.
func databaseURLFromEnv(prefix string) (string, error) {
	prefix = strings.TrimSuffix(prefix, "_") + "_"
	if u := os.Getenv(prefix + "URL"); u != "" {
		return u, nil
	}

	host := os.Getenv(prefix + "HOST")
	dbname := os.Getenv(prefix + "DBNAME")
	var missing []string
	if host == "" {
		missing = append(missing, prefix+"HOST")
	}
	if dbname == "" {
		missing = append(missing, prefix+"DBNAME")
	}
	if len(missing) > 0 {
		return "", fmt.Errorf("missing required environment variable(s): %s", strings.Join(missing, ", "))
	}

	u := &url.URL{
		Scheme: "postgresql",
		Host:   host + ":" + getEnvOrDefault(prefix+"PORT", "5432"),
		Path:   dbname,
	}
	if user := os.Getenv(prefix + "USER"); user != "" {
		if pass := os.Getenv(prefix + "PASSWORD"); pass != "" {
			u.User = url.UserPassword(user, pass)
		} else {
			u.User = url.User(user)
		}
	}
	if sslmode := os.Getenv(prefix + "SSLMODE"); sslmode != "" {
		q := u.Query()
		q.Set("sslmode", sslmode)
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}
