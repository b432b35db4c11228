package config

import (
	"time"

	"github.com/jrsteele09/go-session-server/internal/errors"
	"github.com/jrsteele09/go-session-server/token"
)

func (c mainConfig) validate() error {
	if !token.IsSupportedAlgorithm(c.Token.Algorithm) {
		return errors.Wrapf(ErrInvalidConfig, "token.algorithm %q", c.Token.Algorithm)
	}

	secrets := map[string]string{
		"token.user.access_secret":   c.Token.User.AccessSecret,
		"token.user.refresh_secret":  c.Token.User.RefreshSecret,
		"token.admin.access_secret":  c.Token.Admin.AccessSecret,
		"token.admin.refresh_secret": c.Token.Admin.RefreshSecret,
	}
	seen := make(map[string]string, len(secrets))
	for _, key := range []string{"token.user.access_secret", "token.user.refresh_secret", "token.admin.access_secret", "token.admin.refresh_secret"} {
		secret := secrets[key]
		if secret == "" {
			return errors.Wrapf(ErrInvalidConfig, "%s is required", key)
		}
		if other, ok := seen[secret]; ok {
			return errors.Wrapf(ErrInvalidConfig, "%s must differ from %s", key, other)
		}
		seen[secret] = key
	}

	if err := validateTTLs("user", c.Token.User.AccessTTL, c.Token.User.RefreshTTL); err != nil {
		return err
	}
	if err := validateTTLs("admin", c.Token.Admin.AccessTTL, c.Token.Admin.RefreshTTL); err != nil {
		return err
	}

	switch c.Store.Driver {
	case DriverMemory, DriverRedis, DriverSQLite:
	case DriverPostgres:
		if c.Store.Postgres.DSN == "" {
			return errors.Wrapf(ErrInvalidConfig, "store.postgres.dsn is required for the postgres driver")
		}
	default:
		return errors.Wrapf(ErrInvalidConfig, "store.driver %q", c.Store.Driver)
	}

	if (c.Bootstrap.Username == "") != (c.Bootstrap.Password == "") {
		return errors.Wrapf(ErrInvalidConfig, "admin_bootstrap.username and admin_bootstrap.password must be set together")
	}
	return nil
}

func validateTTLs(role string, access, refresh time.Duration) error {
	if access <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "token.%s.access_ttl must be positive", role)
	}
	if refresh < access {
		return errors.Wrapf(ErrInvalidConfig, "token.%s.refresh_ttl must not be shorter than access_ttl", role)
	}
	return nil
}
