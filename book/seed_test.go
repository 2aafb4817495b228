package book_test

import (
	"context"
	"fmt"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/marcelsud/book-catalog/book"
	"github.com/marcelsud/book-catalog/book/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGenerator_Generate(t *testing.T) {
	g := book.NewGenerator(rand.NewPCG(1, 2))

	books := g.Generate(500)

	require.Len(t, books, 500)
	genres := make(map[string]int)
	for _, b := range books {
		require.NoError(t, book.Validate(b))
		assert.Equal(t, uuid.Nil, b.ID)
		assert.Len(t, b.Title, 2)
		assert.Len(t, b.Author, 2)
		assert.Len(t, b.Genre, 1)
		assert.GreaterOrEqual(t, b.PublishedDate.Year(), 1900)
		assert.Less(t, b.PublishedDate.Year(), time.Now().Year())
		genres[b.Genre]++
	}
	assert.Less(t, len(genres), len(books), "genres should repeat")
}

func TestGenerator_Deterministic(t *testing.T) {
	a := book.NewGenerator(rand.NewPCG(7, 7)).Generate(10)
	b := book.NewGenerator(rand.NewPCG(7, 7)).Generate(10)
	assert.Equal(t, a, b)
}

func TestSeeder_Seed(t *testing.T) {
	ctx := context.Background()

	t.Run("empty store is seeded", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		repo.On("Count", ctx).Return(int64(0), nil)
		repo.On("Insert", ctx, mock.AnythingOfType("book.Book")).Return(book.Book{}, nil).Times(3)

		n, err := book.NewSeeder(repo).Seed(ctx, book.NewGenerator(nil).Source(3))

		require.NoError(t, err)
		assert.Equal(t, 3, n)
	})

	t.Run("non empty store is left alone", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		repo.On("Count", ctx).Return(int64(12), nil)
		called := false

		n, err := book.NewSeeder(repo).Seed(ctx, func() ([]book.Book, error) {
			called = true
			return nil, nil
		})

		require.NoError(t, err)
		assert.Zero(t, n)
		assert.False(t, called)
	})

	t.Run("invalid seed books insert nothing", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		repo.On("Count", ctx).Return(int64(0), nil)

		_, err := book.NewSeeder(repo).Seed(ctx, func() ([]book.Book, error) {
			return []book.Book{validBook(), {Title: "no rating"}}, nil
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "validating seed book 1")
		repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	})

	t.Run("count failure", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		repo.On("Count", ctx).Return(int64(0), fmt.Errorf("connection lost"))

		_, err := book.NewSeeder(repo).Seed(ctx, book.NewGenerator(nil).Source(1))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "counting books")
	})
}
