package confs

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

// fileConfig is the on-disk TOML shape. Durations are strings such as "15m".
type fileConfig struct {
	Server struct {
		Port           string   `toml:"port"`
		AllowedOrigins []string `toml:"allowed_origins"`
		CookieSecure   bool     `toml:"cookie_secure"`
		LogLevel       string   `toml:"log_level"`
	} `toml:"server"`
	Database struct {
		Storage string `toml:"storage"`
		URL     string `toml:"url"`
	} `toml:"database"`
	Auth struct {
		JWTSecret       string `toml:"jwt_secret"`
		AccessTokenTTL  string `toml:"access_token_ttl"`
		RefreshTokenTTL string `toml:"refresh_token_ttl"`
	} `toml:"auth"`
	Subscriptions struct {
		SweepInterval string `toml:"sweep_interval"`
	} `toml:"subscriptions"`
	Twilio struct {
		AccountSID  string `toml:"account_sid"`
		AuthToken   string `toml:"auth_token"`
		PhoneNumber string `toml:"phone_number"`
	} `toml:"twilio"`
}

func applyFile(cfg *Config, path string) error {
	var fc fileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}

	overlay(&cfg.Port, fc.Server.Port)
	overlay(&cfg.LogLevel, fc.Server.LogLevel)
	overlay(&cfg.Storage, fc.Database.Storage)
	overlay(&cfg.DatabaseURL, fc.Database.URL)
	overlay(&cfg.JWTSecret, fc.Auth.JWTSecret)
	overlay(&cfg.Twilio.AccountSID, fc.Twilio.AccountSID)
	overlay(&cfg.Twilio.AuthToken, fc.Twilio.AuthToken)
	overlay(&cfg.Twilio.PhoneNumber, fc.Twilio.PhoneNumber)
	if len(fc.Server.AllowedOrigins) > 0 {
		cfg.AllowedOrigins = fc.Server.AllowedOrigins
	}
	if fc.Server.CookieSecure {
		cfg.CookieSecure = true
	}

	for name, pair := range map[string]struct {
		raw string
		dst *time.Duration
	}{
		"auth.access_token_ttl":        {fc.Auth.AccessTokenTTL, &cfg.AccessTokenTTL},
		"auth.refresh_token_ttl":       {fc.Auth.RefreshTokenTTL, &cfg.RefreshTokenTTL},
		"subscriptions.sweep_interval": {fc.Subscriptions.SweepInterval, &cfg.SweepInterval},
	} {
		if pair.raw == "" {
			continue
		}
		d, err := time.ParseDuration(pair.raw)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		*pair.dst = d
	}
	return nil
}

func overlay(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
