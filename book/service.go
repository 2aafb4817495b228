package book

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// DefaultUnknownGenre labels books stored without a genre in Stats
const DefaultUnknownGenre = "Unknown"

type UseCase interface {
	List(ctx context.Context) ([]Book, error)
	Get(ctx context.Context, id uuid.UUID) (Book, error)
	Create(ctx context.Context, b Book) (Book, error)
	Update(ctx context.Context, id uuid.UUID, b Book) error
	Delete(ctx context.Context, id uuid.UUID) error
	Stats(ctx context.Context) (map[string]int64, error)
}

type Service struct {
	Repo         Repository
	unknownGenre string
}

type Option func(*Service)

// WithUnknownGenreLabel sets the Stats key used for books without a genre
func WithUnknownGenreLabel(label string) Option {
	return func(s *Service) {
		if label != "" {
			s.unknownGenre = label
		}
	}
}

func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{
		Repo:         repo,
		unknownGenre: DefaultUnknownGenre,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) List(ctx context.Context) ([]Book, error) {
	all, err := s.Repo.SelectAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("selecting books: %w", err)
	}
	return all, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (Book, error) {
	b, err := s.Repo.Select(ctx, id)
	if err != nil {
		return Book{}, fmt.Errorf("selecting book: %w", err)
	}
	return b, nil
}

// Create validates b and stores it under a new id. Any id on b is discarded.
func (s *Service) Create(ctx context.Context, b Book) (Book, error) {
	if err := Validate(b); err != nil {
		return Book{}, err
	}
	b.ID = uuid.Nil
	saved, err := s.Repo.Insert(ctx, b)
	if err != nil {
		return Book{}, fmt.Errorf("inserting book: %w", err)
	}
	return saved, nil
}

// Update fully replaces the book at id. The id in b is ignored.
func (s *Service) Update(ctx context.Context, id uuid.UUID, b Book) error {
	if err := Validate(b); err != nil {
		return err
	}
	b.ID = id
	if err := s.Repo.Replace(ctx, id, b); err != nil {
		return fmt.Errorf("updating book: %w", err)
	}
	return nil
}

// Delete removes the book at id. A missing book is not an error.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.Repo.Select(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("selecting book: %w", err)
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting book: %w", err)
	}
	return nil
}

// Stats returns the number of books per genre
func (s *Service) Stats(ctx context.Context) (map[string]int64, error) {
	counts, err := s.Repo.CountByGenre(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting books by genre: %w", err)
	}
	return Tally(counts, s.unknownGenre), nil
}
