package cli

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/marcelsud/book-catalog/book"
	"github.com/marcelsud/book-catalog/fixtures"
	"github.com/spf13/cobra"
)

func (a *app) newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every book, ordered by title",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			all, err := a.service.List(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(all) == 0 {
				warn(out, "the catalog is empty")
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, color.New(color.Bold).Sprint("ID\tTITLE\tAUTHOR\tGENRE\tPUBLISHED\tRATING"))
			for _, b := range all {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\n", b.ID, b.Title, b.Author, b.Genre, b.PublishedDate, b.Rating)
			}
			return tw.Flush()
		},
	}
}

func (a *app) newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			b, err := a.service.Get(cmd.Context(), id)
			if errors.Is(err, book.ErrNotFound) {
				return fmt.Errorf("book %s not found", id)
			}
			if err != nil {
				return err
			}
			printBook(cmd.OutOrStdout(), b)
			return nil
		},
	}
}

func (a *app) newAddCmd() *cobra.Command {
	var (
		b         book.Book
		published string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a book to the catalog",
		Long: `Add a book to the catalog.

Examples:
  books add --title Dune --author "Frank Herbert" --genre SciFi --published 1965-08-01 --rating 5
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := book.ParseDate(published)
			if err != nil {
				return fmt.Errorf("invalid --published: %w", err)
			}
			b.PublishedDate = date

			saved, err := a.service.Create(cmd.Context(), b)
			if err != nil {
				return explain(cmd.ErrOrStderr(), err)
			}
			ok(cmd.OutOrStdout(), "Added %q as %s", saved.Title, saved.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&b.Title, "title", "", "Book title")
	cmd.Flags().StringVar(&b.Author, "author", "", "Book author")
	cmd.Flags().StringVar(&b.Genre, "genre", "", "Book genre")
	cmd.Flags().StringVar(&published, "published", "", "Publication date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&b.Rating, "rating", 0, "Rating from 1 to 5")
	return cmd
}

func (a *app) newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a book; deleting a missing book is not an error",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.service.Delete(cmd.Context(), id); err != nil {
				return err
			}
			ok(cmd.OutOrStdout(), "Deleted %s", id)
			return nil
		},
	}
}

func (a *app) newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Count books per genre",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := a.service.Stats(cmd.Context())
			if err != nil {
				return err
			}
			genres := make([]string, 0, len(stats))
			for g := range stats {
				genres = append(genres, g)
			}
			sort.Strings(genres)

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, g := range genres {
				fmt.Fprintf(tw, "%s\t%d\n", g, stats[g])
			}
			fmt.Fprintf(tw, "%s\t%d\n", color.New(color.Bold).Sprint("TOTAL"), book.Total(stats))
			return tw.Flush()
		},
	}
}

func (a *app) newSeedCmd() *cobra.Command {
	var (
		count int
		file  string
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill an empty catalog with generated books or a fixtures file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 0 {
				return fmt.Errorf("--count cannot be negative (got %d)", count)
			}
			src := book.NewGenerator(nil).Source(count)
			if file != "" {
				src = fixtures.Source(file)
			}
			n, err := book.NewSeeder(a.repo).Seed(cmd.Context(), src)
			if err != nil {
				return err
			}
			if n == 0 {
				warn(cmd.OutOrStdout(), "catalog is not empty, nothing seeded")
				return nil
			}
			ok(cmd.OutOrStdout(), "Seeded %d book(s)", n)
			return nil
		},
	}

	cmd.Flags().IntVar(&count, "count", 100, "Number of generated books")
	cmd.Flags().StringVar(&file, "file", "", "YAML fixtures file to seed from instead of generated books")
	return cmd
}

func parseID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid id %q: %w", s, err)
	}
	return id, nil
}

func printBook(w io.Writer, b book.Book) {
	label := color.New(color.FgCyan).SprintFunc()
	fmt.Fprintf(w, "%s %s\n", label("ID:       "), b.ID)
	fmt.Fprintf(w, "%s %s\n", label("Title:    "), b.Title)
	fmt.Fprintf(w, "%s %s\n", label("Author:   "), b.Author)
	fmt.Fprintf(w, "%s %s\n", label("Genre:    "), b.Genre)
	fmt.Fprintf(w, "%s %s\n", label("Published:"), b.PublishedDate)
	fmt.Fprintf(w, "%s %d\n", label("Rating:   "), b.Rating)
}

// explain lists validation reasons on w before returning the error
func explain(w io.Writer, err error) error {
	var verr *book.ValidationError
	if errors.As(err, &verr) {
		for _, r := range verr.Reasons {
			fmt.Fprintf(w, "%s %s: %s\n", color.RedString("✗"), r.Field, r.Message)
		}
	}
	return err
}
