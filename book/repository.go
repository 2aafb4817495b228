package book

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned by Select when no book has the requested id
var ErrNotFound = errors.New("book not found")

/* Small interfaces, composed below.
 * Written for the users of the storage, not for the tests.
 */

type Reader interface {
	Select(ctx context.Context, id uuid.UUID) (Book, error)
	// SelectAll returns an empty slice, never ErrNotFound, for an empty store
	SelectAll(ctx context.Context) ([]Book, error)
	Count(ctx context.Context) (int64, error)
	// CountByGenre groups every stored book by genre. NULL or empty genres are
	// reported under "".
	CountByGenre(ctx context.Context) ([]GenreCount, error)
}

type Writer interface {
	// Insert ignores b.ID and returns the stored book with a freshly generated one
	Insert(ctx context.Context, b Book) (Book, error)
	// Replace overwrites every field of the book at id. Replacing an id that
	// does not exist is a no-op, not an error.
	Replace(ctx context.Context, id uuid.UUID, b Book) error
	// Delete is idempotent: deleting a missing id returns nil
	Delete(ctx context.Context, id uuid.UUID) error
}

type Repository interface {
	Reader
	Writer
	Close(ctx context.Context) error
}
