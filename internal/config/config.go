package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store drivers.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverBolt     = "bolt"
)

type HTTPConfig struct {
	Addr         string  `mapstructure:"addr"`
	RateBurst    int     `mapstructure:"rate_burst"`
	RatePerSec   float64 `mapstructure:"rate_per_sec"`
	MaxBodyBytes int64   `mapstructure:"max_body_bytes"`
}

type GRPCConfig struct {
	Addr string `mapstructure:"addr"`
}

type StoreConfig struct {
	Driver string `mapstructure:"driver"`
}

type PGConfig struct {
	DSN         string `mapstructure:"dsn"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
}

type BoltConfig struct {
	Path string `mapstructure:"path"`
}

type AuthConfig struct {
	Secret     string        `mapstructure:"secret"`
	Issuer     string        `mapstructure:"issuer"`
	TokenTTL   time.Duration `mapstructure:"token_ttl"`
	BcryptCost int           `mapstructure:"bcrypt_cost"`
}

type Config struct {
	HTTP  HTTPConfig  `mapstructure:"http"`
	GRPC  GRPCConfig  `mapstructure:"grpc"`
	Store StoreConfig `mapstructure:"store"`
	PG    PGConfig    `mapstructure:"pg"`
	Bolt  BoltConfig  `mapstructure:"bolt"`
	Auth  AuthConfig  `mapstructure:"auth"`

	// EphemeralSecret is set when the signing secret was generated at startup.
	EphemeralSecret bool `mapstructure:"-"`
}

var defaults = map[string]any{
	"http.addr":           ":5000",
	"http.rate_burst":     40,
	"http.rate_per_sec":   20.0,
	"http.max_body_bytes": int64(1 << 20),
	"grpc.addr":           ":9090",
	"store.driver":        DriverMemory,
	"pg.dsn":              "",
	"pg.auto_migrate":     true,
	"bolt.path":           "data/tutortrack.db",
	"auth.secret":         "",
	"auth.issuer":         "tutortrack",
	"auth.token_ttl":      "168h",
	"auth.bcrypt_cost":    10,
}

// Load reads an optional .env file, an optional YAML file at path, and
// TUTORTRACK_* environment overrides (e.g. TUTORTRACK_AUTH_SECRET).
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read .env: %w", err)
	}

	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvPrefix("TUTORTRACK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.finish(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) finish() error {
	c.Store.Driver = strings.ToLower(strings.TrimSpace(c.Store.Driver))
	switch c.Store.Driver {
	case DriverMemory, DriverBolt:
	case DriverPostgres:
		if c.PG.DSN == "" {
			return errors.New("config: pg.dsn is required for the postgres store")
		}
	default:
		return fmt.Errorf("config: unknown store.driver %q", c.Store.Driver)
	}

	if c.Auth.Secret == "" {
		if c.Store.Driver != DriverMemory {
			return errors.New("config: auth.secret is required for persistent stores")
		}
		secret, err := randomSecret()
		if err != nil {
			return err
		}
		c.Auth.Secret = secret
		c.EphemeralSecret = true
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("config: auth.token_ttl must be positive")
	}
	if c.Auth.BcryptCost != 0 && c.Auth.BcryptCost < 10 {
		return errors.New("config: auth.bcrypt_cost must be at least 10")
	}
	return nil
}

func randomSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate secret: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
