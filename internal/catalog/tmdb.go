// Package catalog is a client for TMDB-compatible movie metadata APIs.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"mazflix/internal/httputil"
	"mazflix/internal/media"
)

const (
	DefaultBaseURL      = "https://api.themoviedb.org/3"
	DefaultImageBaseURL = "https://image.tmdb.org/t/p/"

	posterSize   = "w500"
	backdropSize = "w1280"
)

var (
	ErrNoAPIKey     = errors.New("no TMDB API key configured")
	ErrUnauthorized = errors.New("TMDB rejected the API key")
	ErrNotFound     = errors.New("not found")
)

// Page is one page of list or search results.
type Page struct {
	Page         int           `json:"page"`
	TotalPages   int           `json:"total_pages"`
	TotalResults int           `json:"total_results"`
	Results      []media.Movie `json:"results"`
}

// Client talks to the TMDB v3 API.
type Client struct {
	apiKey    string
	baseURL   string
	imageBase string
	http      *http.Client
	log       *slog.Logger

	// details memoises Movie for the life of the client. Nil unless
	// WithDetailCache is given.
	details *lru.Cache[int, *media.MovieDetail]
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another API root.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = u
		}
	}
}

// WithImageBaseURL sets the image CDN root.
func WithImageBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.imageBase = u
		}
	}
}

// WithHTTPClient replaces the hardened default client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithDetailCache keeps up to size movie records in memory. A size of
// zero or less leaves Movie uncached.
func WithDetailCache(size int) Option {
	return func(c *Client) {
		if size <= 0 {
			c.details = nil
			return
		}
		// Only fails for a non-positive size.
		c.details, _ = lru.New[int, *media.MovieDetail](size)
	}
}

// New creates a client. The API key is sent as the api_key query parameter.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:    apiKey,
		baseURL:   DefaultBaseURL,
		imageBase: DefaultImageBaseURL,
		http:      httputil.NewClient(0),
		log:       slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Popular returns a page of popular movies.
func (c *Client) Popular(ctx context.Context, page int) (*Page, error) {
	var p Page
	if err := c.get(ctx, pageQuery(page), &p, "movie", "popular"); err != nil {
		return nil, fmt.Errorf("fetching popular movies: %w", err)
	}
	return &p, nil
}

// Search returns movies matching query. An empty query lists popular movies.
func (c *Client) Search(ctx context.Context, query string, page int) (*Page, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return c.Popular(ctx, page)
	}
	q := pageQuery(page)
	q.Set("query", query)

	var p Page
	if err := c.get(ctx, q, &p, "search", "movie"); err != nil {
		return nil, fmt.Errorf("searching for %q: %w", query, err)
	}
	return &p, nil
}

// Movie fetches the full record for one movie.
func (c *Client) Movie(ctx context.Context, id int) (*media.MovieDetail, error) {
	if id <= 0 {
		return nil, fmt.Errorf("invalid movie ID %d", id)
	}
	if c.details != nil {
		if d, ok := c.details.Get(id); ok {
			return d, nil
		}
	}

	var d media.MovieDetail
	if err := c.get(ctx, url.Values{}, &d, "movie", strconv.Itoa(id)); err != nil {
		return nil, fmt.Errorf("fetching movie %d: %w", id, err)
	}
	if c.details != nil {
		c.details.Add(id, &d)
	}
	return &d, nil
}

// Genres returns the movie genre list.
func (c *Client) Genres(ctx context.Context) ([]media.Genre, error) {
	var resp struct {
		Genres []media.Genre `json:"genres"`
	}
	if err := c.get(ctx, url.Values{}, &resp, "genre", "movie", "list"); err != nil {
		return nil, fmt.Errorf("fetching genres: %w", err)
	}
	return resp.Genres, nil
}

// PosterURL returns the poster image URL, or "" when there is no poster.
func (c *Client) PosterURL(path string) string {
	return c.imageURL(posterSize, path)
}

// BackdropURL returns the backdrop image URL, or "".
func (c *Client) BackdropURL(path string) string {
	return c.imageURL(backdropSize, path)
}

func (c *Client) imageURL(size, path string) string {
	if path == "" {
		return ""
	}
	return strings.TrimRight(c.imageBase, "/") + "/" + size + "/" + strings.TrimLeft(path, "/")
}

func (c *Client) get(ctx context.Context, q url.Values, v any, segments ...string) error {
	if c.apiKey == "" {
		return ErrNoAPIKey
	}
	q.Set("api_key", c.apiKey)
	u := httputil.BuildURL(c.baseURL, q, segments...)
	c.log.Debug("tmdb request", "url", httputil.RedactURL(u))

	err := httputil.GetJSON(ctx, c.http, u, v)
	var se *httputil.StatusError
	if errors.As(err, &se) {
		switch se.Code {
		case http.StatusUnauthorized:
			return fmt.Errorf("%w: %s", ErrUnauthorized, se.URL)
		case http.StatusNotFound:
			return fmt.Errorf("%w: %s", ErrNotFound, se.URL)
		}
	}
	return err
}

func pageQuery(page int) url.Values {
	if page < 1 {
		page = 1
	}
	return url.Values{"page": {strconv.Itoa(page)}}
}
