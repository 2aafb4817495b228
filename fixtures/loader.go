package fixtures

import (
	"fmt"
	"os"

	"github.com/marcelsud/book-catalog/book"
	"gopkg.in/yaml.v3"
)

/* Loader reads a catalog of books from a YAML file
 * Used to seed an empty store with known data instead of random books
 */

// File represents the structure of a fixtures YAML file
type File struct {
	Books []BookFixture `yaml:"books"`
}

// BookFixture represents a single book entry in the YAML file
type BookFixture struct {
	Title         string `yaml:"title"`
	Author        string `yaml:"author"`
	Genre         string `yaml:"genre"`
	PublishedDate string `yaml:"published_date"` // YYYY-MM-DD
	Rating        int    `yaml:"rating"`
}

// Loader holds the loaded books, in file order
type Loader struct {
	books []book.Book
}

// NewLoader creates a new fixtures loader
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads, parses and validates the fixtures file.
// The first invalid entry fails the whole load and nothing is kept.
func (l *Loader) Load(filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("reading fixtures file: %w", err)
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parsing fixtures YAML: %w", err)
	}

	books := make([]book.Book, 0, len(file.Books))
	for i, f := range file.Books {
		b, err := f.toBook()
		if err != nil {
			return fmt.Errorf("book %d (%q): %w", i, f.Title, err)
		}
		if err := book.Validate(b); err != nil {
			return fmt.Errorf("book %d (%q): %w", i, f.Title, err)
		}
		books = append(books, b)
	}

	l.books = books
	return nil
}

// List returns the loaded books
func (l *Loader) List() []book.Book {
	out := make([]book.Book, len(l.books))
	copy(out, l.books)
	return out
}

// Len returns how many books were loaded
func (l *Loader) Len() int {
	return len(l.books)
}

// Source adapts a fixtures file to a seed source. The file is read when the seeder asks for it.
func Source(filePath string) book.Source {
	return func() ([]book.Book, error) {
		l := NewLoader()
		if err := l.Load(filePath); err != nil {
			return nil, err
		}
		return l.List(), nil
	}
}

func (f BookFixture) toBook() (book.Book, error) {
	published, err := book.ParseDate(f.PublishedDate)
	if err != nil {
		return book.Book{}, fmt.Errorf("invalid published_date: %w", err)
	}
	return book.Book{
		Title:         f.Title,
		Author:        f.Author,
		Genre:         f.Genre,
		PublishedDate: published,
		Rating:        f.Rating,
	}, nil
}
