package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/viper"
)

/* Config é um pacote auxiliar. Poderia ser uma lib externa
 * Valores vêm de um arquivo .env (TOML, opcional), sobrescritos por variáveis de ambiente
 */

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

type Config struct {
	Port string `mapstructure:"PORT"`

	DBDriver   string `mapstructure:"DB_DRIVER"`
	SQLitePath string `mapstructure:"SQLITE_PATH"`

	DatabaseURL                string `mapstructure:"DATABASE_URL"`
	PostgresHost               string `mapstructure:"POSTGRES_HOST"`
	PostgresPort               int    `mapstructure:"POSTGRES_PORT"`
	PostgresUser               string `mapstructure:"POSTGRES_USER"`
	PostgresPassword           string `mapstructure:"POSTGRES_PASSWORD"`
	PostgresDB                 string `mapstructure:"POSTGRES_DB"`
	PostgresSSLMode            string `mapstructure:"POSTGRES_SSLMODE"`
	PostgresMaxOpenConns       int    `mapstructure:"POSTGRES_MAX_OPEN_CONNS"`
	PostgresMaxIdleConns       int    `mapstructure:"POSTGRES_MAX_IDLE_CONNS"`
	PostgresConnMaxLifeMinutes int    `mapstructure:"POSTGRES_CONN_MAX_LIFE_MINUTES"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	CORSAllowedOrigins string `mapstructure:"CORS_ALLOWED_ORIGINS"`

	SeedingEnabled bool   `mapstructure:"SEEDING_ENABLED"`
	SeedCount      int    `mapstructure:"SEED_COUNT"`
	SeedFile       string `mapstructure:"SEED_FILE"`

	StatsUnknownGenre string `mapstructure:"STATS_UNKNOWN_GENRE"`
	MetricsEnabled    bool   `mapstructure:"METRICS_ENABLED"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
}

var defaults = map[string]any{
	"PORT":                           "8080",
	"DB_DRIVER":                      DriverSQLite,
	"SQLITE_PATH":                    "book.db",
	"DATABASE_URL":                   "",
	"POSTGRES_HOST":                  "localhost",
	"POSTGRES_PORT":                  5432,
	"POSTGRES_USER":                  "postgres",
	"POSTGRES_PASSWORD":              "",
	"POSTGRES_DB":                    "books",
	"POSTGRES_SSLMODE":               "disable",
	"POSTGRES_MAX_OPEN_CONNS":        25,
	"POSTGRES_MAX_IDLE_CONNS":        5,
	"POSTGRES_CONN_MAX_LIFE_MINUTES": 5,
	"REDIS_ADDR":                     "localhost:6379",
	"REDIS_PASSWORD":                 "",
	"REDIS_DB":                       0,
	"CORS_ALLOWED_ORIGINS":           "",
	"SEEDING_ENABLED":                true,
	"SEED_COUNT":                     100,
	"SEED_FILE":                      "",
	"STATS_UNKNOWN_GENRE":            "Unknown",
	"METRICS_ENABLED":                true,
	"LOG_LEVEL":                      "info",
}

// GetConfig lê o .env do diretório atual, se existir
func GetConfig() (*Config, error) {
	return Load(".")
}

// Load lê a configuração procurando o .env em dir
func Load(dir string) (*Config, error) {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("toml")
	v.AddConfigPath(dir)
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("parsing config data: %w", err)
	}
	config.DBDriver = strings.ToLower(strings.TrimSpace(config.DBDriver))
	return &config, nil
}

// Validate rejeita combinações que impedem a aplicação de subir
func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverSQLite:
		if c.SQLitePath == "" {
			return errors.New("SQLITE_PATH is required for the sqlite driver")
		}
	case DriverPostgres:
		if err := c.ValidatePostgres(); err != nil {
			return err
		}
	case DriverRedis:
		if c.RedisAddr == "" {
			return errors.New("REDIS_ADDR is required for the redis driver")
		}
	default:
		return fmt.Errorf("unknown DB_DRIVER %q (want %s, %s or %s)", c.DBDriver, DriverSQLite, DriverPostgres, DriverRedis)
	}
	if c.SeedCount < 0 {
		return fmt.Errorf("SEED_COUNT cannot be negative (got %d)", c.SeedCount)
	}
	return nil
}

// ValidatePostgres verifica se há dados suficientes para conectar no PostgreSQL
func (c *Config) ValidatePostgres() error {
	if c.DatabaseURL != "" {
		return nil
	}
	if c.PostgresHost == "" {
		return errors.New("POSTGRES_HOST is required when DATABASE_URL is not set")
	}
	if c.PostgresUser == "" {
		return errors.New("POSTGRES_USER is required when DATABASE_URL is not set")
	}
	if c.PostgresDB == "" {
		return errors.New("POSTGRES_DB is required when DATABASE_URL is not set")
	}
	return nil
}

// PostgresConnectionString monta a DSN; DATABASE_URL tem precedência
func (c *Config) PostgresConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	u := url.URL{
		Scheme: "postgres",
		Host:   fmt.Sprintf("%s:%d", c.PostgresHost, c.PostgresPort),
		Path:   "/" + c.PostgresDB,
	}
	if c.PostgresPassword != "" {
		u.User = url.UserPassword(c.PostgresUser, c.PostgresPassword)
	} else {
		u.User = url.User(c.PostgresUser)
	}
	q := url.Values{}
	q.Set("sslmode", c.PostgresSSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// AllowedOrigins devolve CORS_ALLOWED_ORIGINS como lista, sem entradas vazias
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
