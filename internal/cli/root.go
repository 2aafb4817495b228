package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/marcelsud/book-catalog/book"
	"github.com/spf13/cobra"
)

// Opener connects to the configured store. The CLI closes what it opens.
type Opener func(ctx context.Context) (book.Repository, error)

type app struct {
	open    Opener
	opts    []book.Option
	repo    book.Repository
	service book.UseCase
	noColor bool
}

// NewRootCmd builds the catalog admin command tree
func NewRootCmd(open Opener, opts ...book.Option) *cobra.Command {
	a := &app{open: open, opts: opts}

	root := &cobra.Command{
		Use:           "books",
		Short:         "Manage the book catalog from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			color.NoColor = color.NoColor || a.noColor
			repo, err := a.open(cmd.Context())
			if err != nil {
				return fmt.Errorf("opening store: %w", err)
			}
			a.repo = repo
			a.service = book.NewService(repo, a.opts...)
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.repo == nil {
				return nil
			}
			return a.repo.Close(cmd.Context())
		},
	}
	root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "Disable colored output")

	root.AddCommand(
		a.newListCmd(),
		a.newGetCmd(),
		a.newAddCmd(),
		a.newDeleteCmd(),
		a.newStatsCmd(),
		a.newSeedCmd(),
	)
	return root
}

// ok prints a green success line.
func ok(w io.Writer, format string, a ...interface{}) {
	fmt.Fprintln(w, color.GreenString("✓"), fmt.Sprintf(format, a...))
}

// warn prints a yellow warning line.
func warn(w io.Writer, format string, a ...interface{}) {
	fmt.Fprintln(w, color.YellowString("!"), fmt.Sprintf(format, a...))
}
