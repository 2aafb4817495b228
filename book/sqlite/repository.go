package sqlite

import (
	"context"
	"errors"
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/marcelsud/book-catalog/book"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

/*
SQLite Repository Implementation

Uses gorm as the relational mapper over the pure Go SQLite driver, so no cgo
is needed. The table is created by AutoMigrate.
*/

// bookRecord is the persisted shape of a book.Book
type bookRecord struct {
	ID            string  `gorm:"primaryKey;type:text"`
	Title         string  `gorm:"size:100;not null"`
	Author        string  `gorm:"size:50;not null"`
	Genre         *string `gorm:"size:50;index"`
	PublishedDate string  `gorm:"type:text;not null"`
	Rating        int     `gorm:"not null"`
}

func (bookRecord) TableName() string {
	return "books"
}

type genreCountRow struct {
	Genre string
	Count int64
}

type Repository struct {
	DB *gorm.DB
}

// NewRepository opens (or creates) the database at path and migrates it.
// Use ":memory:" for a throwaway database.
func NewRepository(path string) (*Repository, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting sql handle: %w", err)
	}
	// SQLite has a single writer, and every connection to ":memory:" is a new database
	sqlDB.SetMaxOpenConns(1)

	r := &Repository{DB: db}
	if err := r.Migrate(context.Background()); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return r, nil
}

// Migrate creates or updates the books table
func (r *Repository) Migrate(ctx context.Context) error {
	if err := r.DB.WithContext(ctx).AutoMigrate(&bookRecord{}); err != nil {
		return fmt.Errorf("migrating books table: %w", err)
	}
	return nil
}

func (r *Repository) Select(ctx context.Context, id uuid.UUID) (book.Book, error) {
	var rec bookRecord
	err := r.DB.WithContext(ctx).First(&rec, "id = ?", id.String()).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return book.Book{}, book.ErrNotFound
	}
	if err != nil {
		return book.Book{}, fmt.Errorf("selecting book: %w", err)
	}
	return rec.toBook()
}

func (r *Repository) SelectAll(ctx context.Context) ([]book.Book, error) {
	var recs []bookRecord
	if err := r.DB.WithContext(ctx).Order("title, id").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("selecting books: %w", err)
	}
	books := make([]book.Book, 0, len(recs))
	for _, rec := range recs {
		b, err := rec.toBook()
		if err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, nil
}

func (r *Repository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&bookRecord{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("counting books: %w", err)
	}
	return n, nil
}

func (r *Repository) CountByGenre(ctx context.Context) ([]book.GenreCount, error) {
	var rows []genreCountRow
	err := r.DB.WithContext(ctx).
		Model(&bookRecord{}).
		Select("COALESCE(genre, '') AS genre, COUNT(*) AS count").
		Group("COALESCE(genre, '')").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("counting books by genre: %w", err)
	}
	counts := make([]book.GenreCount, 0, len(rows))
	for _, row := range rows {
		counts = append(counts, book.GenreCount{Genre: row.Genre, Count: row.Count})
	}
	return counts, nil
}

func (r *Repository) Insert(ctx context.Context, b book.Book) (book.Book, error) {
	b.ID = uuid.New()
	rec := recordOf(b)
	if err := r.DB.WithContext(ctx).Create(&rec).Error; err != nil {
		return book.Book{}, fmt.Errorf("inserting book: %w", err)
	}
	return b, nil
}

func (r *Repository) Replace(ctx context.Context, id uuid.UUID, b book.Book) error {
	b.ID = id
	rec := recordOf(b)
	// a map so zero values are written too
	err := r.DB.WithContext(ctx).
		Model(&bookRecord{}).
		Where("id = ?", rec.ID).
		Updates(map[string]any{
			"title":          rec.Title,
			"author":         rec.Author,
			"genre":          rec.Genre,
			"published_date": rec.PublishedDate,
			"rating":         rec.Rating,
		}).Error
	if err != nil {
		return fmt.Errorf("replacing book: %w", err)
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.DB.WithContext(ctx).Delete(&bookRecord{}, "id = ?", id.String()).Error; err != nil {
		return fmt.Errorf("deleting book: %w", err)
	}
	return nil
}

func (r *Repository) Close(ctx context.Context) error {
	if r.DB == nil {
		return nil
	}
	sqlDB, err := r.DB.DB()
	if err != nil {
		return fmt.Errorf("getting sql handle: %w", err)
	}
	return sqlDB.Close()
}

func recordOf(b book.Book) bookRecord {
	rec := bookRecord{
		ID:            b.ID.String(),
		Title:         b.Title,
		Author:        b.Author,
		PublishedDate: b.PublishedDate.String(),
		Rating:        b.Rating,
	}
	if b.Genre != "" {
		genre := b.Genre
		rec.Genre = &genre
	}
	return rec
}

func (rec bookRecord) toBook() (book.Book, error) {
	id, err := uuid.Parse(rec.ID)
	if err != nil {
		return book.Book{}, fmt.Errorf("parsing book id %q: %w", rec.ID, err)
	}
	published, err := book.ParseDate(rec.PublishedDate)
	if err != nil {
		return book.Book{}, fmt.Errorf("parsing published date of book %s: %w", rec.ID, err)
	}
	b := book.Book{
		ID:            id,
		Title:         rec.Title,
		Author:        rec.Author,
		PublishedDate: published,
		Rating:        rec.Rating,
	}
	if rec.Genre != nil {
		b.Genre = *rec.Genre
	}
	return b, nil
}
