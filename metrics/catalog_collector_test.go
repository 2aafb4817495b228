package metrics

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/marcelsud/book-catalog/book/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCatalogCollector_Collect(t *testing.T) {
	t.Run("totals the genre counts", func(t *testing.T) {
		s := mocks.NewUseCase(t)
		s.On("Stats", mock.Anything).Return(map[string]int64{"SciFi": 2, "Unknown": 1}, nil).Once()
		collector := NewCatalogCollector(s)
		at := time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC)
		collector.now = func() time.Time { return at }

		m, err := collector.Collect(context.Background())

		require.NoError(t, err)
		assert.Equal(t, map[string]int64{"SciFi": 2, "Unknown": 1}, m.GenreCounts)
		assert.Equal(t, int64(3), m.TotalBooks)
		assert.Equal(t, at, m.Timestamp)
	})

	t.Run("empty catalog", func(t *testing.T) {
		s := mocks.NewUseCase(t)
		s.On("Stats", mock.Anything).Return(map[string]int64{}, nil)

		m, err := NewCatalogCollector(s).Collect(context.Background())

		require.NoError(t, err)
		assert.Empty(t, m.GenreCounts)
		assert.Zero(t, m.TotalBooks)
	})

	t.Run("propagates service errors", func(t *testing.T) {
		s := mocks.NewUseCase(t)
		boom := errors.New("store down")
		s.On("Stats", mock.Anything).Return(nil, boom)

		_, err := NewCatalogCollector(s).Collect(context.Background())

		assert.ErrorIs(t, err, boom)
	})
}

func scrape(t *testing.T, h http.Handler) string {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body, err := io.ReadAll(w.Body)
	require.NoError(t, err)
	return string(body)
}

func TestOTelExporter(t *testing.T) {
	s := mocks.NewUseCase(t)
	s.On("Stats", mock.Anything).Return(map[string]int64{"SciFi": 2, "Fantasy": 1}, nil)

	exporter, err := NewOTelExporter(NewCatalogCollector(s))
	require.NoError(t, err)
	t.Cleanup(func() { _ = exporter.Shutdown(context.Background()) })

	body := scrape(t, exporter.ServeHTTP())

	assert.Regexp(t, regexp.MustCompile(`(?m)^catalog_books(\{[^}]*\})? 3$`), body)
	assert.Regexp(t, regexp.MustCompile(`(?m)^catalog_genre_books\{[^}]*genre="SciFi"[^}]*\} 2$`), body)
	assert.Regexp(t, regexp.MustCompile(`(?m)^catalog_genre_books\{[^}]*genre="Fantasy"[^}]*\} 1$`), body)
}

func TestOTelExporter_IndependentRegistries(t *testing.T) {
	s := mocks.NewUseCase(t)
	s.On("Stats", mock.Anything).Return(map[string]int64{}, nil).Maybe()

	first, err := NewOTelExporter(NewCatalogCollector(s))
	require.NoError(t, err)
	t.Cleanup(func() { _ = first.Shutdown(context.Background()) })

	second, err := NewOTelExporter(NewCatalogCollector(s))
	require.NoError(t, err)
	t.Cleanup(func() { _ = second.Shutdown(context.Background()) })

	assert.NotSame(t, first.registry, second.registry)
}
