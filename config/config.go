package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	Port   string `mapstructure:"PORT"`
	DBDSN  string `mapstructure:"DB_DSN"`
	AppURL string `mapstructure:"APP_URL"`

	SMTPHost  string `mapstructure:"SMTP_HOST"`
	SMTPPort  int    `mapstructure:"SMTP_PORT"`
	SMTPUser  string `mapstructure:"SMTP_USER"`
	SMTPPass  string `mapstructure:"SMTP_PASS"`
	EmailFrom string `mapstructure:"EMAIL_FROM"`

	// PEM-encoded RSA keys, inline or a path to a file.
	AccessPrivateKey  string `mapstructure:"JWT_PRIVATE_ACCESS_TOKEN"`
	AccessPublicKey   string `mapstructure:"JWT_PUBLIC_ACCESS_TOKEN"`
	RefreshPrivateKey string `mapstructure:"JWT_PRIVATE_REFRESH_TOKEN"`
	RefreshPublicKey  string `mapstructure:"JWT_PUBLIC_REFRESH_TOKEN"`

	AccessTokenTTL  string `mapstructure:"ACCESS_TOKEN_TTL"`
	RefreshTokenTTL string `mapstructure:"REFRESH_TOKEN_TTL"`

	// Keys is the parsed key registry built from the four PEM fields above.
	Keys *KeyRegistry `mapstructure:"-"`
}

// C is the loaded application config. Set by Load.
var C *Config

// Load reads .env (if present) and the environment via Viper, parses the
// signing keys, and stores the result in C. Env vars override .env values.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // missing .env is fine, e.g. in CI

	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("DB_DSN", "gotours.db")
	v.SetDefault("APP_URL", "http://localhost:8080")
	v.SetDefault("SMTP_PORT", 2525)
	v.SetDefault("ACCESS_TOKEN_TTL", "15m")
	v.SetDefault("REFRESH_TOKEN_TTL", "8760h") // one year

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.AccessPrivateKey == "" || cfg.AccessPublicKey == "" ||
		cfg.RefreshPrivateKey == "" || cfg.RefreshPublicKey == "" {
		return nil, errors.New("config: all four JWT key pairs must be set")
	}

	keys, err := NewKeyRegistry(
		cfg.AccessPrivateKey, cfg.AccessPublicKey,
		cfg.RefreshPrivateKey, cfg.RefreshPublicKey,
	)
	if err != nil {
		return nil, err
	}
	cfg.Keys = keys

	C = &cfg
	return &cfg, nil
}

// AccessTTL parses ACCESS_TOKEN_TTL. Returns 15m if unset or invalid.
func (c *Config) AccessTTL() time.Duration {
	d, err := time.ParseDuration(c.AccessTokenTTL)
	if err != nil || d <= 0 {
		return 15 * time.Minute
	}
	return d
}

// RefreshTTL parses REFRESH_TOKEN_TTL. Returns one year if unset or invalid.
func (c *Config) RefreshTTL() time.Duration {
	d, err := time.ParseDuration(c.RefreshTokenTTL)
	if err != nil || d <= 0 {
		return 8760 * time.Hour
	}
	return d
}
