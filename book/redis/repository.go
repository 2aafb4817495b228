package redis

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/marcelsud/book-catalog/book"
	"github.com/redis/go-redis/v9"
)

/* Redis implementation of book.Repository
 * Each book is a hash at book:{id}
 * The books set indexes every stored id
 * The books:genres hash keeps a running count per genre so stats never scan
 */

const (
	hashPrefix = "book"         // Hash naming: book:{id}
	indexKey   = "books"        // Set of every book id
	genresKey  = "books:genres" // Hash genre -> count
)

type Repository struct {
	client *redis.Client
}

// NewRepository creates a new Redis repository
func NewRepository(addr, password string, db int) (*Repository, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connecting to Redis: %w", err)
	}

	return &Repository{
		client: client,
	}, nil
}

// Select retrieves a book by ID from its hash
func (r *Repository) Select(ctx context.Context, id uuid.UUID) (book.Book, error) {
	data, err := r.client.HGetAll(ctx, bookKey(id)).Result()
	if err != nil {
		return book.Book{}, fmt.Errorf("selecting book: %w", err)
	}
	if len(data) == 0 {
		return book.Book{}, book.ErrNotFound
	}
	return fromHash(data)
}

// SelectAll loads every indexed book, ordered by title
func (r *Repository) SelectAll(ctx context.Context) ([]book.Book, error) {
	ids, err := r.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("listing book ids: %w", err)
	}

	cmds := make([]*redis.MapStringStringCmd, 0, len(ids))
	_, err = r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, id := range ids {
			cmds = append(cmds, pipe.HGetAll(ctx, hashPrefix+":"+id))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("selecting books: %w", err)
	}

	books := make([]book.Book, 0, len(cmds))
	for _, cmd := range cmds {
		data := cmd.Val()
		// the index may briefly point at a hash that is being deleted
		if len(data) == 0 {
			continue
		}
		b, err := fromHash(data)
		if err != nil {
			return nil, err
		}
		books = append(books, b)
	}

	sort.Slice(books, func(i, j int) bool {
		if books[i].Title != books[j].Title {
			return books[i].Title < books[j].Title
		}
		return books[i].ID.String() < books[j].ID.String()
	})

	return books, nil
}

// Count returns the size of the id index
func (r *Repository) Count(ctx context.Context) (int64, error) {
	n, err := r.client.SCard(ctx, indexKey).Result()
	if err != nil {
		return 0, fmt.Errorf("counting books: %w", err)
	}
	return n, nil
}

// CountByGenre reads the genre counters. Books without a genre count under "".
func (r *Repository) CountByGenre(ctx context.Context) ([]book.GenreCount, error) {
	data, err := r.client.HGetAll(ctx, genresKey).Result()
	if err != nil {
		return nil, fmt.Errorf("counting books by genre: %w", err)
	}

	counts := make([]book.GenreCount, 0, len(data))
	for genre, raw := range data {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing count of genre %q: %w", genre, err)
		}
		if n <= 0 {
			continue
		}
		counts = append(counts, book.GenreCount{Genre: genre, Count: n})
	}
	return counts, nil
}

// Insert stores the book under a fresh ID
func (r *Repository) Insert(ctx context.Context, b book.Book) (book.Book, error) {
	b.ID = uuid.New()

	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, bookKey(b.ID), toHash(b))
		pipe.SAdd(ctx, indexKey, b.ID.String())
		pipe.HIncrBy(ctx, genresKey, b.Genre, 1)
		return nil
	})
	if err != nil {
		return book.Book{}, fmt.Errorf("inserting book: %w", err)
	}

	return b, nil
}

// Replace overwrites an existing book. A missing ID is left alone.
func (r *Repository) Replace(ctx context.Context, id uuid.UUID, b book.Book) error {
	b.ID = id
	key := bookKey(id)

	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		oldGenre, err := tx.HGet(ctx, key, "genre").Result()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, toHash(b))
			if oldGenre != b.Genre {
				pipe.HIncrBy(ctx, genresKey, oldGenre, -1)
				pipe.HIncrBy(ctx, genresKey, b.Genre, 1)
			}
			return nil
		})
		return err
	}, key)
	if err != nil {
		return fmt.Errorf("replacing book: %w", err)
	}

	return nil
}

// Delete removes a book and its index entry. Deleting a missing ID is not an error.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	key := bookKey(id)

	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		genre, err := tx.HGet(ctx, key, "genre").Result()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, key)
			pipe.SRem(ctx, indexKey, id.String())
			pipe.HIncrBy(ctx, genresKey, genre, -1)
			return nil
		})
		return err
	}, key)
	if err != nil {
		return fmt.Errorf("deleting book: %w", err)
	}

	return nil
}

// Close closes the Redis connection
func (r *Repository) Close(ctx context.Context) error {
	return r.client.Close()
}

// GetClient returns the underlying Redis client for advanced operations
func (r *Repository) GetClient() *redis.Client {
	return r.client
}

// Helper functions

func bookKey(id uuid.UUID) string {
	return fmt.Sprintf("%s:%s", hashPrefix, id)
}

func toHash(b book.Book) map[string]interface{} {
	return map[string]interface{}{
		"id":             b.ID.String(),
		"title":          b.Title,
		"author":         b.Author,
		"genre":          b.Genre,
		"published_date": b.PublishedDate.String(),
		"rating":         b.Rating,
	}
}

func fromHash(data map[string]string) (book.Book, error) {
	id, err := uuid.Parse(data["id"])
	if err != nil {
		return book.Book{}, fmt.Errorf("parsing book id %q: %w", data["id"], err)
	}
	published, err := book.ParseDate(data["published_date"])
	if err != nil {
		return book.Book{}, fmt.Errorf("parsing published date of book %s: %w", id, err)
	}
	rating, err := strconv.Atoi(data["rating"])
	if err != nil {
		return book.Book{}, fmt.Errorf("parsing rating of book %s: %w", id, err)
	}

	return book.Book{
		ID:            id,
		Title:         data["title"],
		Author:        data["author"],
		Genre:         data["genre"],
		PublishedDate: published,
		Rating:        rating,
	}, nil
}
