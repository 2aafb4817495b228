package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/marcelsud/book-catalog/fixtures"
)

/* validate-fixtures - Standalone CLI tool to validate a books fixtures file
 * Usage: go run cmd/validate-fixtures/main.go [books.yaml]
 * Exit codes: 0 = valid, 1 = invalid
 */

func main() {
	fixturesFile := "fixtures/books.yaml"
	if len(os.Args) > 1 {
		fixturesFile = os.Args[1]
	}

	fmt.Printf("Validating fixtures file: %s\n", fixturesFile)
	fmt.Println(strings.Repeat("-", 50))

	loader := fixtures.NewLoader()
	if err := loader.Load(fixturesFile); err != nil {
		fmt.Fprintf(os.Stderr, "❌ VALIDATION FAILED\n\n")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	books := loader.List()
	fmt.Printf("✓ VALIDATION PASSED\n\n")
	fmt.Printf("Loaded %d book(s):\n", len(books))

	for i, b := range books {
		fmt.Printf("\n%d. %s\n", i+1, b.Title)
		fmt.Printf("   Author:    %s\n", b.Author)
		fmt.Printf("   Genre:     %s\n", b.Genre)
		fmt.Printf("   Published: %s\n", b.PublishedDate)
		fmt.Printf("   Rating:    %d\n", b.Rating)
	}

	fmt.Printf("\n✓ All books are valid!\n")
}
