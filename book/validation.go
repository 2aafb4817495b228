package book

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	MaxTitleLength  = 100
	MaxAuthorLength = 50
	MaxGenreLength  = 50
	MinRating       = 1
	MaxRating       = 5
)

// Reason is a single violated constraint
type Reason struct {
	Field   string
	Message string
}

// ValidationError carries every failing field of a rejected book, in rule order
type ValidationError struct {
	Reasons []Reason
}

func (e *ValidationError) Error() string {
	messages := make([]string, 0, len(e.Reasons))
	for _, r := range e.Reasons {
		messages = append(messages, r.Message)
	}
	return "invalid book: " + strings.Join(messages, "; ")
}

// Messages returns the human readable messages only
func (e *ValidationError) Messages() []string {
	messages := make([]string, 0, len(e.Reasons))
	for _, r := range e.Reasons {
		messages = append(messages, r.Message)
	}
	return messages
}

type rule struct {
	field   string
	valid   func(Book) bool
	message string
}

/* Rules are evaluated in this order. Within a field only the first failing
 * rule is reported, but every field is always checked.
 */
var rules = []rule{
	{"title", func(b Book) bool { return present(b.Title) }, required("Title")},
	{"title", func(b Book) bool { return maxLength(b.Title, MaxTitleLength) }, tooLong("Title", MaxTitleLength)},
	{"author", func(b Book) bool { return present(b.Author) }, required("Author")},
	{"author", func(b Book) bool { return maxLength(b.Author, MaxAuthorLength) }, tooLong("Author", MaxAuthorLength)},
	{"genre", func(b Book) bool { return present(b.Genre) }, required("Genre")},
	{"genre", func(b Book) bool { return maxLength(b.Genre, MaxGenreLength) }, tooLong("Genre", MaxGenreLength)},
	{"publishedDate", func(b Book) bool { return !b.PublishedDate.IsZero() }, required("PublishedDate")},
	{"rating", func(b Book) bool { return b.Rating >= MinRating && b.Rating <= MaxRating }, fmt.Sprintf("Rating must be between %d and %d", MinRating, MaxRating)},
}

// Validate checks every constraint of b. It returns nil or a *ValidationError.
func Validate(b Book) error {
	var reasons []Reason
	failed := make(map[string]bool)
	for _, r := range rules {
		if failed[r.field] || r.valid(b) {
			continue
		}
		failed[r.field] = true
		reasons = append(reasons, Reason{Field: r.field, Message: r.message})
	}
	if len(reasons) == 0 {
		return nil
	}
	return &ValidationError{Reasons: reasons}
}

func present(s string) bool {
	return strings.TrimSpace(s) != ""
}

func maxLength(s string, max int) bool {
	return utf8.RuneCountInString(s) <= max
}

func required(field string) string {
	return fmt.Sprintf("The %s field is required.", field)
}

func tooLong(field string, max int) string {
	return fmt.Sprintf("The %s field must be at most %d characters long.", field, max)
}
