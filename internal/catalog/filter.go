package catalog

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"mazflix/internal/media"
)

// Filter narrows a result list. Zero fields match everything.
type Filter struct {
	MinRating float64
	Year      int
	GenreID   int
}

// Apply returns the movies that pass f, in their original order.
func (f Filter) Apply(movies []media.Movie) []media.Movie {
	out := make([]media.Movie, 0, len(movies))
	for _, m := range movies {
		if f.match(m) {
			out = append(out, m)
		}
	}
	return out
}

func (f Filter) match(m media.Movie) bool {
	if m.VoteAverage < f.MinRating {
		return false
	}
	if f.Year != 0 && m.Year() != fmt.Sprint(f.Year) {
		return false
	}
	if f.GenreID != 0 && !slices.Contains(m.GenreIDs, f.GenreID) {
		return false
	}
	return true
}

// SortKey orders a result list.
type SortKey int

const (
	SortPopularity SortKey = iota
	SortRating
	SortTitle
	SortRelease
)

var sortNames = []string{"popularity", "rating", "title", "release"}

func (k SortKey) String() string {
	if int(k) < len(sortNames) {
		return sortNames[k]
	}
	return fmt.Sprintf("SortKey(%d)", int(k))
}

// ParseSortKey parses a sort key name.
func ParseSortKey(s string) (SortKey, error) {
	if i := slices.Index(sortNames, strings.ToLower(s)); i >= 0 {
		return SortKey(i), nil
	}
	return 0, fmt.Errorf("unknown sort key %q (want one of %s)", s, strings.Join(sortNames, ", "))
}

// Sort returns a sorted copy. Popularity, rating and release sort
// descending; title sorts ascending. Ties keep their input order.
func Sort(movies []media.Movie, key SortKey) []media.Movie {
	out := slices.Clone(movies)
	slices.SortStableFunc(out, func(a, b media.Movie) int {
		switch key {
		case SortRating:
			return cmp.Compare(b.VoteAverage, a.VoteAverage)
		case SortTitle:
			return cmp.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
		case SortRelease:
			// Empty dates sort last.
			return cmp.Compare(b.ReleaseDate, a.ReleaseDate)
		default:
			return cmp.Compare(b.Popularity, a.Popularity)
		}
	})
	return out
}
