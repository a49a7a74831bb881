package videosrc

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"mazflix/internal/httputil"
	"mazflix/internal/media"
)

// listableExtensions are the files the library listing surfaces.
var listableExtensions = []string{".mp4", ".mkv", ".webm"}

var collectionPattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// File is one video in an archive.org collection.
type File struct {
	Name  string
	Title string
	URL   string
	Size  string
}

// Source converts the file into a playable locator.
func (f File) Source() media.VideoSource {
	return media.VideoSource{URL: f.URL, Available: f.URL != ""}
}

// Archive lists archive.org collection download pages.
type Archive struct {
	client *http.Client
	base   string
}

// NewArchive returns a lister using client. base defaults to
// https://archive.org/download/.
func NewArchive(client *http.Client, base string) *Archive {
	if base == "" {
		base = archiveDownload
	}
	return &Archive{client: client, base: base}
}

// List returns the video files in a collection.
func (a *Archive) List(ctx context.Context, collection string) ([]File, error) {
	if !collectionPattern.MatchString(collection) || strings.Contains(collection, "..") {
		return nil, fmt.Errorf("invalid collection name %q", collection)
	}
	pageURL := httputil.BuildURL(a.base, nil, collection) + "/"

	doc, err := a.fetchDocument(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", collection, err)
	}
	return parseListing(doc, pageURL), nil
}

// fetchDocument fetches a URL and parses it into a goquery Document.
func (a *Archive) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	resp, err := httputil.Get(ctx, a.client, pageURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return doc, nil
}

// parseListing extracts video files from a download index page.
// Uses DOM parsing and only keeps relative links into the collection.
func parseListing(doc *goquery.Document, pageURL string) []File {
	var files []File
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil
	}

	doc.Find("table.directory-listing-table tbody tr").Each(func(_ int, row *goquery.Selection) {
		link := row.Find("td a").First()
		href, ok := link.Attr("href")
		if !ok || strings.Contains(href, "..") || strings.Contains(href, "/") || strings.Contains(href, ":") {
			return
		}
		name, err := url.PathUnescape(href)
		if err != nil || !hasExtension(name, listableExtensions) {
			return
		}
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		files = append(files, File{
			Name:  name,
			Title: TitleFromFile(name),
			URL:   base.ResolveReference(ref).String(),
			Size:  strings.TrimSpace(row.Find("td").Eq(2).Text()),
		})
	})
	return files
}

func hasExtension(name string, exts []string) bool {
	lower := strings.ToLower(name)
	for _, e := range exts {
		if strings.HasSuffix(lower, e) {
			return true
		}
	}
	return false
}
