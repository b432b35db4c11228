package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config interface {
	EnvConfig
	CorsConfig
	TokenConfig
	StoreConfig
	LogConfig
	ObsConfig
	BootstrapConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetVersion() string
	GetServerTimeouts() ServerTimeouts
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

// ErrInvalidConfig is returned by Load when a value fails validation
var ErrInvalidConfig = errors.New("invalid config")

type mainConfig struct {
	EnvVars   `mapstructure:",squash"`
	Cors      `mapstructure:"cors"`
	Token     `mapstructure:"token"`
	Store     `mapstructure:"store"`
	Log       `mapstructure:"log"`
	Obs       `mapstructure:"otel"`
	Bootstrap `mapstructure:"admin_bootstrap"`
}

var _ Config = mainConfig{}

// Load reads configuration from defaults, an optional YAML file at path and the environment,
// in increasing order of precedence. A .env file in the working directory is loaded first when present.
// An empty path falls back to CONFIG_FILE.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	if path == "" {
		path = GetEnv("CONFIG_FILE", "")
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg mainConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Every key needs a default so AutomaticEnv can resolve it during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "Go Session Server")
	v.SetDefault("app.env", "DEV")
	v.SetDefault("app.version", "dev")

	v.SetDefault("server.port", "8080")
	v.SetDefault("server.read_timeout", "5s")
	v.SetDefault("server.write_timeout", "10s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.graceful_timeout", "5s")

	v.SetDefault("cors.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"Content-Type", "Authorization"})

	v.SetDefault("token.algorithm", "HS256")
	for _, role := range []string{"user", "admin"} {
		v.SetDefault("token."+role+".access_secret", "")
		v.SetDefault("token."+role+".refresh_secret", "")
		v.SetDefault("token."+role+".access_ttl", defaultTokenTTL.String())
		v.SetDefault("token."+role+".refresh_ttl", defaultTokenTTL.String())
	}

	v.SetDefault("store.driver", DriverMemory)
	v.SetDefault("store.redis.addr", "localhost:6379")
	v.SetDefault("store.redis.password", "")
	v.SetDefault("store.redis.db", 0)
	v.SetDefault("store.redis.prefix", "sessions")
	v.SetDefault("store.postgres.dsn", "")
	v.SetDefault("store.postgres.max_conns", 10)
	v.SetDefault("store.postgres.query_timeout", "2s")
	v.SetDefault("store.sqlite.path", "./data/sessions.db")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	v.SetDefault("otel.enable", false)
	v.SetDefault("otel.otlp_endpoint", "localhost:4317")
	v.SetDefault("otel.service_name", "go-session-server")
	v.SetDefault("otel.sample_ratio", 1.0)

	v.SetDefault("admin_bootstrap.username", "")
	v.SetDefault("admin_bootstrap.password", "")
}
