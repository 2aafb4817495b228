package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/marcelsud/book-catalog/book"
)

// CatalogCollector implements the Collector interface on top of the book service
type CatalogCollector struct {
	service book.UseCase
	now     func() time.Time
}

// NewCatalogCollector creates a new catalog metrics collector
func NewCatalogCollector(service book.UseCase) *CatalogCollector {
	return &CatalogCollector{
		service: service,
		now:     time.Now,
	}
}

// Collect gathers all metrics with a single stats query
func (c *CatalogCollector) Collect(ctx context.Context) (Metrics, error) {
	genreCounts, err := c.GetGenreCounts(ctx)
	if err != nil {
		return Metrics{}, fmt.Errorf("getting genre counts: %w", err)
	}

	return Metrics{
		GenreCounts: genreCounts,
		TotalBooks:  book.Total(genreCounts),
		Timestamp:   c.now(),
	}, nil
}

// GetGenreCounts returns the number of books per genre, books without one under the unknown label
func (c *CatalogCollector) GetGenreCounts(ctx context.Context) (map[string]int64, error) {
	stats, err := c.service.Stats(ctx)
	if err != nil {
		return nil, err
	}
	return stats, nil
}
