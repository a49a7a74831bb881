// Package streaming serves the "what's streaming" catalogue. The data is
// a fixed demo set; every listing is marked Demo.
package streaming

import (
	"slices"
	"time"

	"mazflix/internal/media"
)

// DefaultService is used when a listing names an unknown platform.
const DefaultService = "netflix"

// Listing is the set of titles currently on one platform.
type Listing struct {
	Service   string                 `json:"service"`
	Titles    []media.StreamingTitle `json:"movies"`
	Count     int                    `json:"count"`
	Fallback  bool                   `json:"fallback,omitempty"` // Service was unknown; Titles are DefaultService's
	Demo      bool                   `json:"demo"`
	Timestamp time.Time              `json:"timestamp,omitzero"`
}

var platforms = []media.Platform{
	{ID: "netflix", Name: "Netflix", Color: "#E50914"},
	{ID: "amazon-prime", Name: "Amazon Prime Video", Color: "#00A8E1"},
	{ID: "disney-plus", Name: "Disney+", Color: "#113CCF"},
	{ID: "hbo-max", Name: "HBO Max", Color: "#8A2BE2"},
	{ID: "hulu", Name: "Hulu", Color: "#1CE783"},
	{ID: "apple-tv", Name: "Apple TV+", Color: "#000000"},
	{ID: "paramount-plus", Name: "Paramount+", Color: "#0064FF"},
	{ID: "peacock", Name: "Peacock", Color: "#00B4D8"},
}

// Watchmode source IDs per platform.
var serviceIDs = map[string]string{
	"netflix":        "203",
	"amazon-prime":   "26",
	"disney-plus":    "372",
	"hbo-max":        "384",
	"hulu":           "157",
	"apple-tv":       "371",
	"paramount-plus": "386",
	"peacock":        "387",
}

var current = map[string][]media.StreamingTitle{
	"netflix": {
		{
			ID:          "netflix_1",
			Title:       "Red Notice",
			Year:        2021,
			Poster:      "https://image.tmdb.org/t/p/w500/lAXONuqg41NwUMuzMiFvicDET9U.jpg",
			Genre:       "Action, Comedy",
			Rating:      6.4,
			Description: "An FBI profiler pursuing the world's most wanted art thief becomes his reluctant partner in crime.",
			WatchURL:    "https://www.netflix.com/watch/81161626",
		},
		{
			ID:          "netflix_2",
			Title:       "The Adam Project",
			Year:        2022,
			Poster:      "https://image.tmdb.org/t/p/w500/wFjboE0aFZNbVOF05fzrka9Fqyx.jpg",
			Genre:       "Action, Adventure, Comedy",
			Rating:      6.7,
			Description: "A time-traveling pilot teams up with his younger self and his late father to come to terms with his past.",
			WatchURL:    "https://www.netflix.com/watch/81309354",
		},
	},
	"amazon-prime": {
		{
			ID:          "prime_1",
			Title:       "The Tomorrow War",
			Year:        2021,
			Poster:      "https://image.tmdb.org/t/p/w500/34nDCQZwaEvsy4CFO5hkGRFDCVU.jpg",
			Genre:       "Action, Adventure, Drama",
			Rating:      6.5,
			Description: "A family man is drafted to fight in a future war.",
			WatchURL:    "https://www.amazon.com/dp/B096TJK7PZ",
		},
	},
}

var trending = []media.StreamingTitle{
	{
		ID:          "trending_1",
		Title:       "Spider-Man: No Way Home",
		Year:        2021,
		Poster:      "https://image.tmdb.org/t/p/w500/1g0dhYtq4irTY1GPXvft6k4YLjm.jpg",
		Genre:       "Action, Adventure, Fantasy",
		Rating:      8.4,
		Platforms:   []string{"Starz", "Amazon Prime (Rent)"},
		Description: "Spider-Man seeks the help of Doctor Strange to forget his exposed secret identity as Spider-Man. However, when the spell goes wrong, dangerous foes from other worlds start to appear.",
	},
	{
		ID:          "trending_2",
		Title:       "Top Gun: Maverick",
		Year:        2022,
		Poster:      "https://image.tmdb.org/t/p/w500/62HCnUTziyWcpDaBO2i1DX17ljH.jpg",
		Genre:       "Action, Drama",
		Rating:      8.3,
		Platforms:   []string{"Paramount+", "Amazon Prime (Rent)"},
		Description: "After thirty years, Maverick is still pushing the envelope as a top naval aviator, but must confront ghosts of his past.",
	},
	{
		ID:          "trending_3",
		Title:       "Dune",
		Year:        2021,
		Poster:      "https://image.tmdb.org/t/p/w500/d5NXSklXo0qyIYkgV94XAgMIckC.jpg",
		Genre:       "Adventure, Drama, Sci-Fi",
		Rating:      8.0,
		Platforms:   []string{"HBO Max", "Amazon Prime (Rent)"},
		Description: "Feature adaptation of Frank Herbert's science fiction novel about the son of a noble family entrusted with the protection of the most valuable asset.",
	},
	{
		ID:          "trending_4",
		Title:       "The Batman",
		Year:        2022,
		Poster:      "https://image.tmdb.org/t/p/w500/74xTEgt2Q2fYu9G0UVB7XkgpAVL.jpg",
		Genre:       "Action, Crime, Drama",
		Rating:      7.8,
		Platforms:   []string{"HBO Max", "Amazon Prime (Rent)"},
		Description: "In his second year of fighting crime, Batman uncovers corruption in Gotham City that connects to his own family.",
	},
}

var sources = []media.Availability{
	{Name: "Netflix", Type: "subscription", URL: "https://www.netflix.com", Available: true},
	{Name: "Amazon Prime Video", Type: "subscription", URL: "https://www.amazon.com/prime-video", Available: true},
	{Name: "Apple TV", Type: "rental", URL: "https://tv.apple.com", Price: "$3.99"},
}

// Platforms returns the known streaming platforms.
func Platforms() []media.Platform {
	return slices.Clone(platforms)
}

// Platform looks a platform up by ID.
func Platform(id string) (media.Platform, bool) {
	i := slices.IndexFunc(platforms, func(p media.Platform) bool { return p.ID == id })
	if i < 0 {
		return media.Platform{}, false
	}
	return platforms[i], true
}

// ServiceID returns the Watchmode source ID for a platform, defaulting to
// Netflix's.
func ServiceID(service string) string {
	if id, ok := serviceIDs[service]; ok {
		return id
	}
	return serviceIDs[DefaultService]
}

// Currently returns what is streaming on service. Platforms without demo
// titles fall back to DefaultService's list.
func Currently(service string) Listing {
	titles, ok := current[service]
	if !ok {
		titles = current[DefaultService]
	}
	if service == "" {
		service = DefaultService
	}
	return Listing{
		Service:  service,
		Titles:   slices.Clone(titles),
		Count:    len(titles),
		Fallback: !ok,
		Demo:     true,
	}
}

// Trending returns popular titles across all platforms, stamped with now.
func Trending(now time.Time) Listing {
	return Listing{
		Service:   "all",
		Titles:    slices.Clone(trending),
		Count:     len(trending),
		Demo:      true,
		Timestamp: now.UTC(),
	}
}

// Sources returns where a movie can be watched. The demo set is the same
// for every movie.
func Sources(movieID int) []media.Availability {
	return slices.Clone(sources)
}
