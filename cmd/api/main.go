package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/httplog"
	"github.com/marcelsud/book-catalog/book"
	"github.com/marcelsud/book-catalog/config"
	"github.com/marcelsud/book-catalog/fixtures"
	"github.com/marcelsud/book-catalog/internal/http/chi"
	"github.com/marcelsud/book-catalog/internal/storage"
	"github.com/marcelsud/book-catalog/metrics"
	"github.com/rs/zerolog"
)

const TIMEOUT = 30 * time.Second

/* “a porta de entrada e saída da minha aplicação”
* Porque a porta de entrada? É no arquivo main.go, que vai ser compilado para gerar o executável da aplicação,
* onde é feita toda a “amarração” dos demais pacotes.
* É nele onde iniciamos as dependências, fazemos as configurações e a invocação dos pacotes que desempenham a lógica de negócio.

* E porque ele é a porta de saída da aplicação?
* https://eltonminetto.dev/post/2022-07-06-error-handling-cli-applications-golang/
 */

/*
 * As importações devem ser feitas apenas em uma direção: para baixo. O aplicativo (api, cli) importa camadas de negócios,
 * que importam a camada de armazenamento
 */

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.GetConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := httplog.NewLogger("book-catalog", httplog.Options{
		JSON:     true,
		LogLevel: cfg.LogLevel,
	})

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT,
	)
	defer stop()

	repo, err := storage.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer repo.Close(context.Background())
	logger.Info().Str("driver", cfg.DBDriver).Msg("store ready")

	if cfg.SeedingEnabled {
		if err := seed(ctx, cfg, repo, logger); err != nil {
			return err
		}
	}

	s := book.NewService(repo, book.WithUnknownGenreLabel(cfg.StatsUnknownGenre))

	opts := chi.Options{
		AllowedOrigins: cfg.AllowedOrigins(),
		LogLevel:       cfg.LogLevel,
	}
	if cfg.MetricsEnabled {
		exporter, err := metrics.NewOTelExporter(metrics.NewCatalogCollector(s))
		if err != nil {
			return fmt.Errorf("starting metrics: %w", err)
		}
		defer exporter.Shutdown(context.Background())
		opts.Metrics = exporter.ServeHTTP()
	}

	r := chi.Handlers(ctx, s, opts)
	srv := &http.Server{
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		Addr:         ":" + cfg.Port,
		Handler:      r,
	}

	errShutdown := make(chan error, 1)
	go shutdown(srv, ctx, errShutdown)
	logger.Info().Str("port", cfg.Port).Msg("listening")
	err = srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	if err := <-errShutdown; err != nil {
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}

// seed fills an empty store from SEED_FILE, or with SEED_COUNT generated books
func seed(ctx context.Context, cfg *config.Config, repo book.Repository, logger zerolog.Logger) error {
	src := book.NewGenerator(nil).Source(cfg.SeedCount)
	from := "generator"
	if cfg.SeedFile != "" {
		src = fixtures.Source(cfg.SeedFile)
		from = cfg.SeedFile
	}

	n, err := book.NewSeeder(repo).Seed(ctx, src)
	if err != nil {
		return fmt.Errorf("seeding store: %w", err)
	}
	if n == 0 {
		logger.Debug().Msg("store not empty, seeding skipped")
		return nil
	}
	logger.Info().Int("books", n).Str("source", from).Msg("store seeded")
	return nil
}

func shutdown(server *http.Server, ctxShutdown context.Context, errShutdown chan error) {
	<-ctxShutdown.Done()

	ctxTimeout, stop := context.WithTimeout(context.Background(), TIMEOUT)
	defer stop()

	err := server.Shutdown(ctxTimeout)
	switch err {
	case nil:
		fmt.Printf("\nShutting down server...\n")
		errShutdown <- nil
	case context.DeadlineExceeded:
		errShutdown <- fmt.Errorf("Forcing closing the server")
	default:
		errShutdown <- fmt.Errorf("Forcing closing the server")
	}
}
