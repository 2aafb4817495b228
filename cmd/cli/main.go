package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/marcelsud/book-catalog/book"
	"github.com/marcelsud/book-catalog/config"
	"github.com/marcelsud/book-catalog/internal/cli"
	"github.com/marcelsud/book-catalog/internal/storage"
)

/* books - admin CLI over the same store the API uses
 * Usage: go run cmd/cli/main.go list | get <id> | add ... | delete <id> | stats | seed
 * https://eltonminetto.dev/post/2022-07-06-error-handling-cli-applications-golang/
 */

func main() {
	cfg, err := config.GetConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	open := func(ctx context.Context) (book.Repository, error) {
		return storage.Open(ctx, cfg)
	}
	root := cli.NewRootCmd(open, book.WithUnknownGenreLabel(cfg.StatsUnknownGenre))
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		stop()
		os.Exit(1)
	}
}
