package book

import "github.com/google/uuid"

/* Book represents a catalog entry in relation to the business.
 * No tags here: the HTTP layer and the storage adapters have their own shapes.
 */
type Book struct {
	ID            uuid.UUID
	Title         string
	Author        string
	Genre         string
	PublishedDate Date
	Rating        int
}

// GenreCount is one row of the genre aggregation as reported by a repository.
// A book stored without a genre is reported under the empty string.
type GenreCount struct {
	Genre string
	Count int64
}
