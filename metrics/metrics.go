package metrics

import (
	"context"
	"time"
)

// Metrics represents the current state of the catalog.
type Metrics struct {
	// GenreCounts maps genre to the number of books in it
	GenreCounts map[string]int64 `json:"genre_counts"`

	// TotalBooks is the number of books in the catalog
	TotalBooks int64 `json:"total_books"`

	// Timestamp when metrics were collected
	Timestamp time.Time `json:"timestamp"`
}

// Collector defines the interface for collecting metrics from the catalog.
type Collector interface {
	// Collect gathers current metrics from the system
	Collect(ctx context.Context) (Metrics, error)

	// GetGenreCounts returns the count of books by genre
	GetGenreCounts(ctx context.Context) (map[string]int64, error)
}
