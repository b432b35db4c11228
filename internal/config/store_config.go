package config

import "time"

// Store drivers
const (
	DriverMemory   = "memory"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type StoreConfig interface {
	GetStoreDriver() string
	GetRedis() RedisSettings
	GetPostgres() PostgresSettings
	GetSQLitePath() string
}

type RedisSettings struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

type PostgresSettings struct {
	DSN          string        `mapstructure:"dsn"`
	MaxConns     int32         `mapstructure:"max_conns"`
	QueryTimeout time.Duration `mapstructure:"query_timeout"`
}

type SQLiteSettings struct {
	Path string `mapstructure:"path"`
}

type Store struct {
	Driver   string           `mapstructure:"driver"`
	Redis    RedisSettings    `mapstructure:"redis"`
	Postgres PostgresSettings `mapstructure:"postgres"`
	SQLite   SQLiteSettings   `mapstructure:"sqlite"`
}

var _ StoreConfig = Store{}

func (s Store) GetStoreDriver() string        { return s.Driver }
func (s Store) GetRedis() RedisSettings       { return s.Redis }
func (s Store) GetPostgres() PostgresSettings { return s.Postgres }
func (s Store) GetSQLitePath() string         { return s.SQLite.Path }
