package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/marcelsud/book-catalog/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, config.DriverSQLite, cfg.DBDriver)
	assert.Equal(t, "book.db", cfg.SQLitePath)
	assert.Equal(t, 5432, cfg.PostgresPort)
	assert.Equal(t, 25, cfg.PostgresMaxOpenConns)
	assert.Equal(t, 5, cfg.PostgresMaxIdleConns)
	assert.Equal(t, 5, cfg.PostgresConnMaxLifeMinutes)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.True(t, cfg.SeedingEnabled)
	assert.Equal(t, 100, cfg.SeedCount)
	assert.Equal(t, "Unknown", cfg.StatsUnknownGenre)
	assert.True(t, cfg.MetricsEnabled)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.AllowedOrigins())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("SEEDING_ENABLED", "false")
	t.Setenv("SEED_COUNT", "7")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000, https://books.example.com,")

	cfg, err := config.Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, config.DriverPostgres, cfg.DBDriver)
	assert.False(t, cfg.SeedingEnabled)
	assert.Equal(t, 7, cfg.SeedCount)
	assert.Equal(t, []string{"http://localhost:3000", "https://books.example.com"}, cfg.AllowedOrigins())
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	content := `
PORT = "7070"
DB_DRIVER = "redis"
REDIS_ADDR = "cache:6379"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o600))

	t.Run("file values", func(t *testing.T) {
		cfg, err := config.Load(dir)
		require.NoError(t, err)
		assert.Equal(t, "7070", cfg.Port)
		assert.Equal(t, config.DriverRedis, cfg.DBDriver)
		assert.Equal(t, "cache:6379", cfg.RedisAddr)
	})

	t.Run("env wins over file", func(t *testing.T) {
		t.Setenv("PORT", "6060")
		cfg, err := config.Load(dir)
		require.NoError(t, err)
		assert.Equal(t, "6060", cfg.Port)
	})
}

func TestLoad_BrokenEnvFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PORT = ["), 0o600))

	_, err := config.Load(dir)
	assert.ErrorContains(t, err, "reading config file")
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *config.Config {
		return &config.Config{
			DBDriver:     config.DriverPostgres,
			PostgresHost: "db",
			PostgresUser: "postgres",
			PostgresDB:   "books",
			SeedCount:    10,
		}
	}

	t.Run("valid postgres", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("unknown driver", func(t *testing.T) {
		cfg := valid()
		cfg.DBDriver = "mysql"
		assert.ErrorContains(t, cfg.Validate(), "unknown DB_DRIVER")
	})

	t.Run("negative seed count", func(t *testing.T) {
		cfg := valid()
		cfg.SeedCount = -1
		assert.ErrorContains(t, cfg.Validate(), "SEED_COUNT")
	})

	t.Run("postgres without host", func(t *testing.T) {
		cfg := valid()
		cfg.PostgresHost = ""
		assert.ErrorContains(t, cfg.Validate(), "POSTGRES_HOST")
	})

	t.Run("DATABASE_URL replaces the parts", func(t *testing.T) {
		cfg := &config.Config{DBDriver: config.DriverPostgres, DatabaseURL: "postgres://x@y/z"}
		assert.NoError(t, cfg.Validate())
	})

	t.Run("sqlite needs a path", func(t *testing.T) {
		cfg := &config.Config{DBDriver: config.DriverSQLite}
		assert.ErrorContains(t, cfg.Validate(), "SQLITE_PATH")
	})

	t.Run("redis needs an address", func(t *testing.T) {
		cfg := &config.Config{DBDriver: config.DriverRedis}
		assert.ErrorContains(t, cfg.Validate(), "REDIS_ADDR")
	})
}

func TestConfig_PostgresConnectionString(t *testing.T) {
	t.Run("built from parts", func(t *testing.T) {
		cfg := &config.Config{
			PostgresHost:     "db",
			PostgresPort:     5433,
			PostgresUser:     "app",
			PostgresPassword: "s3cr@t",
			PostgresDB:       "books",
			PostgresSSLMode:  "disable",
		}
		assert.Equal(t, "postgres://app:s3cr%40t@db:5433/books?sslmode=disable", cfg.PostgresConnectionString())
	})

	t.Run("without password", func(t *testing.T) {
		cfg := &config.Config{PostgresHost: "db", PostgresPort: 5432, PostgresUser: "app", PostgresDB: "books", PostgresSSLMode: "require"}
		assert.Equal(t, "postgres://app@db:5432/books?sslmode=require", cfg.PostgresConnectionString())
	})

	t.Run("DATABASE_URL wins", func(t *testing.T) {
		cfg := &config.Config{DatabaseURL: "postgres://u@h/d", PostgresHost: "ignored"}
		assert.Equal(t, "postgres://u@h/d", cfg.PostgresConnectionString())
	})
}
