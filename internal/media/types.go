// Package media defines shared types for the mazflix application.
package media

import "strings"

// Movie is a catalog entry as returned by list and search endpoints.
type Movie struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	ReleaseDate string  `json:"release_date"` // YYYY-MM-DD, may be empty
	PosterPath  string  `json:"poster_path"`
	VoteAverage float64 `json:"vote_average"`
	VoteCount   int     `json:"vote_count"`
	Popularity  float64 `json:"popularity"`
	GenreIDs    []int   `json:"genre_ids"`
}

// Year returns the release year, or "Unknown".
func (m Movie) Year() string {
	return yearOf(m.ReleaseDate)
}

// ShortOverview truncates the overview to n runes with an ellipsis.
func (m Movie) ShortOverview(n int) string {
	if m.Overview == "" {
		return "No description available"
	}
	r := []rune(m.Overview)
	if len(r) <= n {
		return m.Overview
	}
	return string(r[:n]) + "..."
}

// Genre is a named movie genre.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Company is a production company.
type Company struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Language is a spoken language.
type Language struct {
	ISO         string `json:"iso_639_1"`
	EnglishName string `json:"english_name"`
}

// MovieDetail is the full record behind a movie's detail view.
type MovieDetail struct {
	ID              int        `json:"id"`
	Title           string     `json:"title"`
	Tagline         string     `json:"tagline"`
	Overview        string     `json:"overview"`
	ReleaseDate     string     `json:"release_date"`
	Runtime         int        `json:"runtime"` // minutes
	VoteAverage     float64    `json:"vote_average"`
	PosterPath      string     `json:"poster_path"`
	BackdropPath    string     `json:"backdrop_path"`
	Budget          int64      `json:"budget"`
	Revenue         int64      `json:"revenue"`
	Genres          []Genre    `json:"genres"`
	Companies       []Company  `json:"production_companies"`
	SpokenLanguages []Language `json:"spoken_languages"`
}

// Year returns the release year, or "Unknown".
func (d MovieDetail) Year() string {
	return yearOf(d.ReleaseDate)
}

// GenreNames returns the genre names in order.
func (d MovieDetail) GenreNames() []string {
	names := make([]string, 0, len(d.Genres))
	for _, g := range d.Genres {
		names = append(names, g.Name)
	}
	return names
}

// CompanyNames returns the production company names in order.
func (d MovieDetail) CompanyNames() []string {
	names := make([]string, 0, len(d.Companies))
	for _, c := range d.Companies {
		names = append(names, c.Name)
	}
	return names
}

// LanguageNames returns the English names of the spoken languages.
func (d MovieDetail) LanguageNames() []string {
	names := make([]string, 0, len(d.SpokenLanguages))
	for _, l := range d.SpokenLanguages {
		names = append(names, l.EnglishName)
	}
	return names
}

// VideoSource is the media locator for a movie. When Available is false
// there is nothing to play and URL is empty.
type VideoSource struct {
	URL       string
	Quality   string
	Available bool
}

// StreamingTitle is a title listed on a streaming platform.
type StreamingTitle struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Year        int      `json:"year"`
	Poster      string   `json:"poster"`
	Genre       string   `json:"genre"`
	Rating      float64  `json:"rating"`
	Description string   `json:"description"`
	WatchURL    string   `json:"streamingUrl,omitempty"`
	Platforms   []string `json:"platforms,omitempty"`
}

// Platform is a streaming service.
type Platform struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"` // hex brand colour
}

// Availability is one place a movie can be watched.
type Availability struct {
	Name      string `json:"name"`
	Type      string `json:"type"` // subscription, rental, ...
	URL       string `json:"url"`
	Available bool   `json:"available,omitempty"`
	Price     string `json:"price,omitempty"`
}

func yearOf(date string) string {
	if date == "" {
		return "Unknown"
	}
	year, _, _ := strings.Cut(date, "-")
	return year
}
