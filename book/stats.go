package book

// Tally folds repository rows into a genre -> count map. Rows without a genre
// are added to unknownLabel. Non-positive counts are dropped.
func Tally(counts []GenreCount, unknownLabel string) map[string]int64 {
	stats := make(map[string]int64, len(counts))
	for _, c := range counts {
		if c.Count <= 0 {
			continue
		}
		genre := c.Genre
		if genre == "" {
			genre = unknownLabel
		}
		stats[genre] += c.Count
	}
	return stats
}

// Total sums the values of a Stats map
func Total(stats map[string]int64) int64 {
	var total int64
	for _, n := range stats {
		total += n
	}
	return total
}
