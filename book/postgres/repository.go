package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/marcelsud/book-catalog/book"
)

/*
PostgreSQL Repository Implementation

Esta implementação demonstra:
- Como adaptar o mesmo Repository interface para diferentes bancos
- sqlx para mapear colunas em structs (tags db)
- Uso de placeholders ($1, $2) ao invés de (?)
- UUID gerado pela aplicação, não pelo banco
- Integração com testcontainers para testes reais
*/

type Repository struct {
	DB *sqlx.DB
}

// bookRow é a forma persistida de um book.Book
type bookRow struct {
	ID            uuid.UUID      `db:"id"`
	Title         string         `db:"title"`
	Author        string         `db:"author"`
	Genre         sql.NullString `db:"genre"`
	PublishedDate book.Date      `db:"published_date"`
	Rating        int            `db:"rating"`
}

type genreCountRow struct {
	Genre string `db:"genre"`
	Count int64  `db:"count"`
}

const selectColumns = "id, title, author, genre, published_date, rating"

// NewRepository cria uma nova instância do repositório PostgreSQL com pool padrão (25, 5, 5 min)
func NewRepository(connectionString string) (*Repository, error) {
	return NewRepositoryWithPoolConfig(connectionString, 25, 5, 5)
}

// NewRepositoryWithPoolConfig cria uma nova instância do repositório PostgreSQL com configuração customizável
// maxOpenConns: máximo de conexões simultâneas (0 = ilimitado)
// maxIdleConns: máximo de conexões inativas mantidas no pool
// maxLifeMinutes: duração máxima em minutos que uma conexão pode ser reutilizada
func NewRepositoryWithPoolConfig(connectionString string, maxOpenConns, maxIdleConns, maxLifeMinutes int) (*Repository, error) {
	db, err := sqlx.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("opening postgres connection: %w", err)
	}

	// Testar conexão
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}

	// Configurar pool de conexões
	if maxOpenConns > 0 {
		db.SetMaxOpenConns(maxOpenConns)
	}
	if maxIdleConns > 0 {
		db.SetMaxIdleConns(maxIdleConns)
	}
	if maxLifeMinutes > 0 {
		db.SetConnMaxLifetime(time.Duration(maxLifeMinutes) * time.Minute)
	}

	return &Repository{
		DB: db,
	}, nil
}

// Select busca um livro por ID
func (r *Repository) Select(ctx context.Context, id uuid.UUID) (book.Book, error) {
	query := "SELECT " + selectColumns + " FROM books WHERE id = $1"

	var row bookRow
	err := r.DB.GetContext(ctx, &row, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return book.Book{}, book.ErrNotFound
	}
	if err != nil {
		return book.Book{}, fmt.Errorf("selecting book: %w", err)
	}

	return row.toBook(), nil
}

// SelectAll retorna todos os livros, ordenados por título
func (r *Repository) SelectAll(ctx context.Context) ([]book.Book, error) {
	query := "SELECT " + selectColumns + " FROM books ORDER BY title, id"

	var rows []bookRow
	if err := r.DB.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("selecting books: %w", err)
	}

	// Banco vazio não é erro: retorna lista vazia
	books := make([]book.Book, 0, len(rows))
	for _, row := range rows {
		books = append(books, row.toBook())
	}

	return books, nil
}

// Count retorna o número de livros
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.DB.GetContext(ctx, &n, "SELECT COUNT(*) FROM books"); err != nil {
		return 0, fmt.Errorf("counting books: %w", err)
	}
	return n, nil
}

// CountByGenre agrupa os livros por gênero; gênero nulo vira ""
func (r *Repository) CountByGenre(ctx context.Context) ([]book.GenreCount, error) {
	query := `
		SELECT COALESCE(genre, '') AS genre, COUNT(*) AS count
		FROM books
		GROUP BY COALESCE(genre, '')
	`

	var rows []genreCountRow
	if err := r.DB.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("counting books by genre: %w", err)
	}

	counts := make([]book.GenreCount, 0, len(rows))
	for _, row := range rows {
		counts = append(counts, book.GenreCount{Genre: row.Genre, Count: row.Count})
	}
	return counts, nil
}

// Insert insere um novo livro com um ID novo e retorna o livro salvo
func (r *Repository) Insert(ctx context.Context, b book.Book) (book.Book, error) {
	query := `
		INSERT INTO books (id, title, author, genre, published_date, rating)
		VALUES (:id, :title, :author, :genre, :published_date, :rating)
	`

	b.ID = uuid.New()
	if _, err := r.DB.NamedExecContext(ctx, query, rowOf(b)); err != nil {
		return book.Book{}, fmt.Errorf("inserting book: %w", err)
	}

	return b, nil
}

// Replace sobrescreve os campos de um livro existente. ID inexistente não altera nada.
func (r *Repository) Replace(ctx context.Context, id uuid.UUID, b book.Book) error {
	query := `
		UPDATE books
		SET title = :title, author = :author, genre = :genre,
			published_date = :published_date, rating = :rating
		WHERE id = :id
	`

	b.ID = id
	if _, err := r.DB.NamedExecContext(ctx, query, rowOf(b)); err != nil {
		return fmt.Errorf("replacing book: %w", err)
	}

	return nil
}

// Delete remove um livro por ID; remover um ID inexistente não é erro
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.DB.ExecContext(ctx, "DELETE FROM books WHERE id = $1", id); err != nil {
		return fmt.Errorf("deleting book: %w", err)
	}

	return nil
}

// Close fecha a conexão com o banco de dados
func (r *Repository) Close(ctx context.Context) error {
	if r.DB != nil {
		return r.DB.Close()
	}
	return nil
}

// CreateTable cria a tabela books
func (r *Repository) CreateTable(ctx context.Context) error {
	_, err := r.DB.ExecContext(ctx, Schema)
	if err != nil {
		return fmt.Errorf("creating table: %w", err)
	}

	return nil
}

// DropTable remove a tabela books (útil para testes)
func (r *Repository) DropTable(ctx context.Context) error {
	query := "DROP TABLE IF EXISTS books CASCADE"

	_, err := r.DB.ExecContext(ctx, query)
	if err != nil {
		return fmt.Errorf("dropping table: %w", err)
	}

	return nil
}

// Schema é o DDL da tabela books
const Schema = `
	CREATE TABLE IF NOT EXISTS books (
		id UUID PRIMARY KEY,
		title VARCHAR(100) NOT NULL,
		author VARCHAR(50) NOT NULL,
		genre VARCHAR(50),
		published_date DATE NOT NULL,
		rating INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5)
	);
	CREATE INDEX IF NOT EXISTS books_genre_idx ON books (genre)
`

func rowOf(b book.Book) bookRow {
	return bookRow{
		ID:            b.ID,
		Title:         b.Title,
		Author:        b.Author,
		Genre:         sql.NullString{String: b.Genre, Valid: b.Genre != ""},
		PublishedDate: b.PublishedDate,
		Rating:        b.Rating,
	}
}

func (row bookRow) toBook() book.Book {
	return book.Book{
		ID:            row.ID,
		Title:         row.Title,
		Author:        row.Author,
		Genre:         row.Genre.String,
		PublishedDate: row.PublishedDate,
		Rating:        row.Rating,
	}
}
