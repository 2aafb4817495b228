package chi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog"
	"github.com/marcelsud/book-catalog/book"
)

const requestTimeout = 30 * time.Second

// Options tunes the router. The zero value serves the API only, without CORS or metrics.
type Options struct {
	// AllowedOrigins enables CORS for these origins; empty disables CORS
	AllowedOrigins []string
	// Metrics is mounted at /metrics when set
	Metrics http.Handler
	// LogLevel for request logs: trace, debug, info, warn, error
	LogLevel string
}

func Handlers(ctx context.Context, bookService book.UseCase, opts Options) *chi.Mux {
	// Logger
	logger := httplog.NewLogger("book-catalog", httplog.Options{
		JSON:     true,
		LogLevel: opts.LogLevel,
	})

	r := chi.NewRouter()
	r.Use(httplog.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))
	if len(opts.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			ExposedHeaders: []string{"Location"},
			MaxAge:         300,
		}))
	}

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics)
	}

	r.Route("/api/books", func(r chi.Router) {
		r.Method(http.MethodGet, "/", getBooks(bookService))
		r.Method(http.MethodPost, "/", postBook(bookService))
		r.Method(http.MethodGet, "/stats", getStats(bookService))
		r.Method(http.MethodGet, "/{id}", getBook(bookService))
		r.Method(http.MethodPut, "/{id}", putBook(bookService))
		r.Method(http.MethodDelete, "/{id}", deleteBook(bookService))
	})

	return r
}
