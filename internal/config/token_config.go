package config

import "time"

const defaultTokenTTL = 7 * 24 * time.Hour

type TokenConfig interface {
	GetSigningAlgorithm() string
	GetUserAccessSecret() string
	GetUserRefreshSecret() string
	GetAdminAccessSecret() string
	GetAdminRefreshSecret() string
	GetUserAccessTTL() time.Duration
	GetUserRefreshTTL() time.Duration
	GetAdminAccessTTL() time.Duration
	GetAdminRefreshTTL() time.Duration
}

// RoleTokens holds the secrets and lifetimes for one principal role
type RoleTokens struct {
	AccessSecret  string        `mapstructure:"access_secret"`
	RefreshSecret string        `mapstructure:"refresh_secret"`
	AccessTTL     time.Duration `mapstructure:"access_ttl"`
	RefreshTTL    time.Duration `mapstructure:"refresh_ttl"`
}

type Token struct {
	Algorithm string     `mapstructure:"algorithm"`
	User      RoleTokens `mapstructure:"user"`
	Admin     RoleTokens `mapstructure:"admin"`
}

var _ TokenConfig = Token{}

func (t Token) GetSigningAlgorithm() string {
	if t.Algorithm == "" {
		return "HS256"
	}
	return t.Algorithm
}

func (t Token) GetUserAccessSecret() string       { return t.User.AccessSecret }
func (t Token) GetUserRefreshSecret() string      { return t.User.RefreshSecret }
func (t Token) GetAdminAccessSecret() string      { return t.Admin.AccessSecret }
func (t Token) GetAdminRefreshSecret() string     { return t.Admin.RefreshSecret }
func (t Token) GetUserAccessTTL() time.Duration   { return t.User.AccessTTL }
func (t Token) GetUserRefreshTTL() time.Duration  { return t.User.RefreshTTL }
func (t Token) GetAdminAccessTTL() time.Duration  { return t.Admin.AccessTTL }
func (t Token) GetAdminRefreshTTL() time.Duration { return t.Admin.RefreshTTL }
