//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

/*
Test Helpers para PostgreSQL com Testcontainers

- Sobe um container Docker do PostgreSQL
- Cria banco de dados de teste
- Retorna connection string
- Cleanup automático via t.Cleanup

Referências:
- https://golang.testcontainers.org/modules/postgres/
*/

const (
	defaultDatabase = "testdb"
	defaultUser     = "testuser"
	defaultPassword = "testpass"
)

// PostgresContainer encapsula o container e a conexão
type PostgresContainer struct {
	Container testcontainers.Container
	DB        *sqlx.DB
	ConnStr   string
}

// SetupPostgresContainer cria e inicia um container PostgreSQL com a tabela books
func SetupPostgresContainer(t *testing.T, ctx context.Context) *PostgresContainer {
	t.Helper()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase(defaultDatabase),
		postgres.WithUsername(defaultUser),
		postgres.WithPassword(defaultPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgContainer.Terminate(context.Background()) })

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := sqlx.ConnectContext(ctx, "postgres", connStr)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.ExecContext(ctx, Schema)
	require.NoError(t, err)

	return &PostgresContainer{
		Container: pgContainer,
		DB:        db,
		ConnStr:   connStr,
	}
}

// CleanupDatabase remove todos os registros da tabela books
func CleanupDatabase(t *testing.T, ctx context.Context, db *sqlx.DB) {
	t.Helper()

	_, err := db.ExecContext(ctx, "TRUNCATE TABLE books")
	require.NoError(t, err)
}

// InsertRaw insere uma linha direto no banco, sem passar pelo repositório
func InsertRaw(t *testing.T, ctx context.Context, db *sqlx.DB, title string, genre *string) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := db.ExecContext(ctx,
		`INSERT INTO books (id, title, author, genre, published_date, rating) VALUES ($1, $2, $3, $4, $5, $6)`,
		id, title, "Anonymous", genre, "2001-01-01", 3,
	)
	require.NoError(t, err)
	return id
}

// AssertBookCount verifica quantos livros estão no banco
func AssertBookCount(t *testing.T, ctx context.Context, db *sqlx.DB, expected int) {
	t.Helper()

	var count int
	require.NoError(t, db.GetContext(ctx, &count, "SELECT COUNT(*) FROM books"))
	require.Equal(t, expected, count)
}

// CreateTestRepository cria um repositório para testes
func CreateTestRepository(t *testing.T, connStr string) *Repository {
	t.Helper()

	repo, err := NewRepository(connStr)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close(context.Background()) })

	return repo
}
