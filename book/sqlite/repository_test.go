package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/marcelsud/book-catalog/book"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close(context.Background()) })
	return repo
}

func dune() book.Book {
	return book.Book{
		Title:         "Dune",
		Author:        "Herbert",
		Genre:         "SciFi",
		PublishedDate: book.NewDate(1965, time.August, 1),
		Rating:        5,
	}
}

func TestRepository(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	all, err := repo.SelectAll(ctx)
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)

	in := dune()
	in.ID = uuid.New()
	saved, err := repo.Insert(ctx, in)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, saved.ID)
	assert.NotEqual(t, in.ID, saved.ID)

	got, err := repo.Select(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved, got)

	updated := dune()
	updated.Title = "Dune Messiah"
	updated.PublishedDate = book.NewDate(1969, time.October, 15)
	updated.Rating = 4
	require.NoError(t, repo.Replace(ctx, saved.ID, updated))
	got, err = repo.Select(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, got.ID)
	assert.Equal(t, "Dune Messiah", got.Title)
	assert.Equal(t, book.NewDate(1969, time.October, 15), got.PublishedDate)
	assert.Equal(t, 4, got.Rating)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.NoError(t, repo.Delete(ctx, saved.ID))
	_, err = repo.Select(ctx, saved.ID)
	assert.ErrorIs(t, err, book.ErrNotFound)
}

func TestRepository_MissingIDs(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	missing := uuid.New()

	t.Run("select", func(t *testing.T) {
		_, err := repo.Select(ctx, missing)
		assert.ErrorIs(t, err, book.ErrNotFound)
	})

	t.Run("replace is a no-op", func(t *testing.T) {
		require.NoError(t, repo.Replace(ctx, missing, dune()))
		n, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		assert.NoError(t, repo.Delete(ctx, missing))
		assert.NoError(t, repo.Delete(ctx, missing))
	})
}

func TestRepository_SelectAllOrder(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	for _, title := range []string{"Neuromancer", "Dune", "Foundation"} {
		b := dune()
		b.Title = title
		_, err := repo.Insert(ctx, b)
		require.NoError(t, err)
	}

	all, err := repo.SelectAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Dune", all[0].Title)
	assert.Equal(t, "Foundation", all[1].Title)
	assert.Equal(t, "Neuromancer", all[2].Title)
}

func TestRepository_CountByGenre(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	for _, genre := range []string{"SciFi", "SciFi", "Fantasy"} {
		b := dune()
		b.Genre = genre
		_, err := repo.Insert(ctx, b)
		require.NoError(t, err)
	}
	// rows written by other tools may lack a genre
	err := repo.DB.Exec(
		"INSERT INTO books (id, title, author, genre, published_date, rating) VALUES (?, ?, ?, NULL, ?, ?)",
		uuid.NewString(), "Untitled", "Anonymous", "2001-01-01", 3,
	).Error
	require.NoError(t, err)

	counts, err := repo.CountByGenre(ctx)
	require.NoError(t, err)

	stats := book.Tally(counts, book.DefaultUnknownGenre)
	assert.Equal(t, map[string]int64{"SciFi": 2, "Fantasy": 1, book.DefaultUnknownGenre: 1}, stats)

	all, err := repo.SelectAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(len(all)), book.Total(stats))
}
