package httputil

import (
	"net/url"
	"testing"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"tmdb api", "https://api.themoviedb.org/3/movie/550", false},
		{"plain http", "http://api.themoviedb.org/3/movie/550", true},
		{"javascript", "javascript:alert(1)", true},
		{"data url", "data:text/html,<h1>Hi</h1>", true},
		{"ftp", "ftp://archive.org/download/x", true},
		{"empty", "", true},
		{"missing host", "https://", true},
		{"local mirror with port", "https://localhost:8443/3/movie/popular", false},
		{"query string", "https://api.themoviedb.org/3/search/movie?query=noir&page=2", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}

func TestValidateMediaURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"https", "https://archive.org/download/night/night.mp4", false},
		{"http allowed", "http://example.com/movie.webm", false},
		{"file scheme rejected", "file:///etc/passwd", true},
		{"javascript scheme rejected", "javascript:alert(1)", true},
		{"no host", "http://", true},
		{"newline injection", "https://example.com/a.mp4\n--script=x", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMediaURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateMediaURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}

func TestValidateNumericID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"valid", "12345", false},
		{"zero", "0", false},
		{"empty", "", true},
		{"letters", "abc", true},
		{"mixed", "123abc", true},
		{"negative", "-1", true},
		{"decimal", "1.5", true},
		{"too long", "1234567890123", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNumericID(tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNumericID(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
		})
	}
}

func TestBuildURL(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		query    url.Values
		segments []string
		expected string
	}{
		{"segments", "https://api.themoviedb.org/3/", nil, []string{"movie", "550"}, "https://api.themoviedb.org/3/movie/550"},
		{"escaped segment", "https://archive.org/download", nil, []string{"a b"}, "https://archive.org/download/a%20b"},
		{"query", "https://api.themoviedb.org/3", url.Values{"query": {"night of"}, "page": {"2"}}, []string{"search", "movie"},
			"https://api.themoviedb.org/3/search/movie?page=2&query=night+of"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildURL(tt.base, tt.query, tt.segments...)
			if got != tt.expected {
				t.Errorf("BuildURL() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestRedactURL(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"https://api.themoviedb.org/3/movie/550?api_key=secret", "https://api.themoviedb.org/3/movie/550?api_key=REDACTED"},
		{"https://api.themoviedb.org/3/search/movie?api_key=k&query=x", "https://api.themoviedb.org/3/search/movie?api_key=REDACTED&query=x"},
		{"https://archive.org/download/night", "https://archive.org/download/night"},
		{"%zz", "<malformed url>"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := RedactURL(tt.input)
			if got != tt.expected {
				t.Errorf("RedactURL(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
