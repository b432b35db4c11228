package config

import (
	"os"
	"strings"
	"time"
)

type App struct {
	Name    string `mapstructure:"name"`
	Env     string `mapstructure:"env"`
	Version string `mapstructure:"version"`
}

type ServerTimeouts struct {
	Read     time.Duration `mapstructure:"read_timeout"`
	Write    time.Duration `mapstructure:"write_timeout"`
	Idle     time.Duration `mapstructure:"idle_timeout"`
	Graceful time.Duration `mapstructure:"graceful_timeout"`
}

type ServerSettings struct {
	Port           string `mapstructure:"port"`
	ServerTimeouts `mapstructure:",squash"`
}

type EnvVars struct {
	App    App            `mapstructure:"app"`
	Server ServerSettings `mapstructure:"server"`
}

var _ EnvConfig = EnvVars{}

// GetPort returns the listen address in ":port" form
func (e EnvVars) GetPort() string {
	port := strings.TrimSpace(e.Server.Port)
	if port == "" {
		port = "8080"
	}
	if port[0] != ':' {
		port = ":" + port
	}
	return port
}

func (e EnvVars) GetAppName() string {
	return e.App.Name
}

func (e EnvVars) GetEnv() string {
	if e.App.Env == "" {
		return "DEV"
	}
	return e.App.Env
}

func (e EnvVars) GetVersion() string {
	return e.App.Version
}

func (e EnvVars) GetServerTimeouts() ServerTimeouts {
	return e.Server.ServerTimeouts
}

// GetEnv returns the environment variable or defaultValue when it is unset or empty
func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
