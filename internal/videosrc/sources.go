// Package videosrc resolves movies to playable media locators.
package videosrc

import (
	"maps"
	"net/url"
	"path"
	"strings"

	"mazflix/internal/media"
)

const (
	// DefaultCollection is the archive.org collection the built-in table
	// points into.
	DefaultCollection = "publicmovies212"

	archiveDownload = "https://archive.org/download/"
)

// builtin maps TMDB movie IDs to public-domain films.
var builtin = map[int]string{
	550: "Beat_the_Devil.mp4",
	680: "D.O.A._1949.mp4",
	13:  "The_Phantom_of_the_Opera.mp4",
	278: "Scarlet_Street.mp4",
	120: "Night_of_the_Living_Dead.mp4",
	11:  "Nosferatu.mp4",
	424: "The_Little_Shop_of_Horrors.mp4",
	18:  "The_39_Steps.mp4",
	299: "Carnival_of_Souls.mp4",
	72:  "White_Zombie.mp4",
}

const defaultFile = "Detour.mp4"

var (
	videoExtensions = []string{".mp4", ".mkv", ".avi", ".mov", ".webm"}
	streamingHosts  = []string{"googleapis.com", "cloudfront.net", "amazonaws.com", "archive.org"}
)

// ArchiveURL returns the download URL for a file in a collection.
func ArchiveURL(collection, file string) string {
	return archiveDownload + url.PathEscape(collection) + "/" + url.PathEscape(file)
}

// Resolver maps movie IDs to media locators.
type Resolver struct {
	table    map[int]string
	fallback string
}

// NewResolver returns a resolver over the built-in table. Entries in
// overrides replace or extend it. fallback is used for unknown IDs; an
// empty fallback leaves them unavailable.
func NewResolver(fallback string, overrides map[int]string) *Resolver {
	table := make(map[int]string, len(builtin)+len(overrides))
	for id, file := range builtin {
		table[id] = ArchiveURL(DefaultCollection, file)
	}
	maps.Copy(table, overrides)
	return &Resolver{table: table, fallback: fallback}
}

// Default returns the built-in resolver, falling back to Detour (1945).
func Default() *Resolver {
	return NewResolver(ArchiveURL(DefaultCollection, defaultFile), nil)
}

// Resolve returns the locator for a movie.
func (r *Resolver) Resolve(id int) media.VideoSource {
	u, ok := r.table[id]
	if !ok {
		u = r.fallback
	}
	if u == "" {
		return media.VideoSource{}
	}
	return media.VideoSource{URL: u, Quality: "HD", Available: true}
}

// Add registers a locator for a movie.
func (r *Resolver) Add(id int, u string) {
	r.table[id] = u
}

// Resolve looks a movie up in the built-in table.
func Resolve(id int) media.VideoSource {
	return Default().Resolve(id)
}

// IsPlayableURL reports whether u looks like something a player can open:
// a known video file extension or a trusted streaming host.
func IsPlayableURL(u string) bool {
	parsed, err := url.Parse(u)
	if err != nil || parsed.Host == "" {
		return false
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return false
	}
	if hasExtension(parsed.Path, videoExtensions) {
		return true
	}
	host := strings.ToLower(parsed.Hostname())
	for _, h := range streamingHosts {
		if host == h || strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	return false
}

// TitleFromFile turns "The_39_Steps.mp4" into "The 39 Steps".
func TitleFromFile(name string) string {
	name = path.Base(name)
	name = strings.TrimSuffix(name, path.Ext(name))
	return strings.Join(strings.Fields(strings.ReplaceAll(name, "_", " ")), " ")
}
