package book

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"
)

const (
	nameAlphabet  = "abcdefghijklmnopqrstuvwxyz0123456789"
	genreAlphabet = "abcdef0123"
	nameLength    = 2
	genreLength   = 1
	firstYear     = 1900
)

/* Generator produces placeholder books for an empty catalog.
 * Genres come from a tiny alphabet so the stats endpoint has duplicates to count.
 */
type Generator struct {
	rnd *rand.Rand
	now func() time.Time
}

// NewGenerator creates a generator; a nil source uses a time seeded PCG
func NewGenerator(src rand.Source) *Generator {
	if src == nil {
		seed := uint64(time.Now().UnixNano())
		src = rand.NewPCG(seed, seed>>1)
	}
	return &Generator{
		rnd: rand.New(src),
		now: time.Now,
	}
}

// Generate returns n schema-valid books without ids
func (g *Generator) Generate(n int) []Book {
	books := make([]Book, 0, n)
	for range n {
		books = append(books, g.book())
	}
	return books
}

// Source adapts Generate to the Seeder
func (g *Generator) Source(n int) Source {
	return func() ([]Book, error) {
		return g.Generate(n), nil
	}
}

func (g *Generator) book() Book {
	return Book{
		Title:         g.randomString(nameAlphabet, nameLength),
		Author:        g.randomString(nameAlphabet, nameLength),
		Genre:         g.randomString(genreAlphabet, genreLength),
		PublishedDate: g.randomDate(),
		Rating:        MinRating + g.rnd.IntN(MaxRating-MinRating+1),
	}
}

func (g *Generator) randomString(alphabet string, length int) string {
	var sb strings.Builder
	sb.Grow(length)
	for range length {
		sb.WriteByte(alphabet[g.rnd.IntN(len(alphabet))])
	}
	return sb.String()
}

// randomDate picks a day in [1900-01-01, 31 Dec of last year]
func (g *Generator) randomDate() Date {
	lastYear := g.now().Year() - 1
	if lastYear < firstYear {
		lastYear = firstYear
	}
	year := firstYear + g.rnd.IntN(lastYear-firstYear+1)
	month := time.Month(1 + g.rnd.IntN(12))
	day := 1 + g.rnd.IntN(daysIn(year, month))
	return NewDate(year, month, day)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Source supplies the books used to seed an empty store
type Source func() ([]Book, error)

type Seeder struct {
	Repo Repository
}

func NewSeeder(repo Repository) *Seeder {
	return &Seeder{Repo: repo}
}

// Seed inserts the books from src only when the store is empty. It returns
// the number of inserted books. Every book is validated before the first insert.
func (s *Seeder) Seed(ctx context.Context, src Source) (int, error) {
	count, err := s.Repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("counting books: %w", err)
	}
	if count > 0 {
		return 0, nil
	}
	books, err := src()
	if err != nil {
		return 0, fmt.Errorf("loading seed books: %w", err)
	}
	for i, b := range books {
		if err := Validate(b); err != nil {
			return 0, fmt.Errorf("validating seed book %d: %w", i, err)
		}
	}
	for i, b := range books {
		if _, err := s.Repo.Insert(ctx, b); err != nil {
			return i, fmt.Errorf("inserting seed book %d: %w", i, err)
		}
	}
	return len(books), nil
}
