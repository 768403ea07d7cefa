package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/vsinha/eventprocure/pkg/domain/entities"
)

// Store backends
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Log        LogConfig        `mapstructure:"log"`
	Purchasing PurchasingConfig `mapstructure:"purchasing"`
	Store      string           `mapstructure:"store"`
	// SeedScenario is a scenario directory loaded into the store at startup
	SeedScenario string `mapstructure:"seed_scenario"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	CORSOrigins     string        `mapstructure:"cors_origins"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	LogLevel        string        `mapstructure:"log_level"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// PurchasingConfig holds the org-wide buffer defaults as decimal strings
type PurchasingConfig struct {
	BufferPercent string `mapstructure:"buffer_percent"`
	BufferQty     string `mapstructure:"buffer_qty"`
}

// Settings parses the buffer defaults
func (p PurchasingConfig) Settings() (entities.PurchasingSettings, error) {
	pct, err := parseNonNegative("buffer_percent", p.BufferPercent)
	if err != nil {
		return entities.PurchasingSettings{}, err
	}
	qty, err := parseNonNegative("buffer_qty", p.BufferQty)
	if err != nil {
		return entities.PurchasingSettings{}, err
	}
	return entities.PurchasingSettings{BufferPercent: pct, BufferQty: qty}, nil
}

func parseNonNegative(name, raw string) (decimal.Decimal, error) {
	if strings.TrimSpace(raw) == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid purchasing.%s %q: %w", name, raw, err)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("purchasing.%s cannot be negative, got %s", name, d)
	}
	return d, nil
}

// Load reads an optional config.yaml from ./configs or the working
// directory and applies environment overrides.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	bindEnvVariables(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the values that cannot be defaulted
func (c *Config) Validate() error {
	switch c.Store {
	case StoreMemory:
	case StorePostgres:
		if c.Database.DSN == "" {
			return fmt.Errorf("store %q requires database.dsn", c.Store)
		}
	default:
		return fmt.Errorf("unknown store %q, expected %q or %q", c.Store, StoreMemory, StorePostgres)
	}
	if _, err := c.Purchasing.Settings(); err != nil {
		return err
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_origins", "*")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.log_level", "warn")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("purchasing.buffer_percent", "0")
	v.SetDefault("purchasing.buffer_qty", "0")

	v.SetDefault("store", StoreMemory)
}

func bindEnvVariables(v *viper.Viper) {
	v.BindEnv("server.port", "SERVER_PORT")
	v.BindEnv("server.cors_origins", "CORS_ALLOWED_ORIGINS")

	v.BindEnv("database.dsn", "DB_DSN")
	v.BindEnv("database.log_level", "DB_LOG_LEVEL")

	v.BindEnv("log.level", "LOG_LEVEL")
	v.BindEnv("log.format", "LOG_FORMAT")

	v.BindEnv("purchasing.buffer_percent", "PURCHASING_BUFFER_PERCENT")
	v.BindEnv("purchasing.buffer_qty", "PURCHASING_BUFFER_QTY")

	v.BindEnv("store", "STORE")
	v.BindEnv("seed_scenario", "SEED_SCENARIO")
}
