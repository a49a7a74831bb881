package httputil

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGetJSON(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Errorf("Accept = %q", got)
		}
		if r.Header.Get("User-Agent") == "" {
			t.Error("missing User-Agent")
		}
		switch r.URL.Path {
		case "/ok":
			w.Write([]byte(`{"id":550,"title":"Fight Club"}`))
		case "/bad":
			w.Write([]byte(`{"id":`))
		default:
			http.Error(w, "nope", http.StatusUnauthorized)
		}
	}))
	defer srv.Close()

	var out struct {
		ID    int    `json:"id"`
		Title string `json:"title"`
	}
	if err := GetJSON(context.Background(), srv.Client(), srv.URL+"/ok", &out); err != nil {
		t.Fatalf("GetJSON() error: %v", err)
	}
	if out.ID != 550 || out.Title != "Fight Club" {
		t.Errorf("decoded %+v", out)
	}

	err := GetJSON(context.Background(), srv.Client(), srv.URL+"/denied?api_key=hunter2", &out)
	var se *StatusError
	if !errors.As(err, &se) || se.Code != http.StatusUnauthorized {
		t.Fatalf("error = %v, want StatusError 401", err)
	}
	if strings.Contains(err.Error(), "hunter2") {
		t.Errorf("error leaks api key: %v", err)
	}

	if err := GetJSON(context.Background(), srv.Client(), srv.URL+"/bad", &out); err == nil {
		t.Error("expected decode error")
	}
}

func TestGetJSONRejectsHTTP(t *testing.T) {
	var out map[string]any
	err := GetJSON(context.Background(), http.DefaultClient, "http://example.com/x", &out)
	if err == nil || !strings.Contains(err.Error(), "invalid URL") {
		t.Errorf("error = %v, want invalid URL", err)
	}
}

func TestGetJSONCancelled(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out map[string]any
	if err := GetJSON(ctx, srv.Client(), srv.URL, &out); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestGet(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`<html><body>index</body></html>`))
	}))
	defer srv.Close()

	resp, err := Get(context.Background(), srv.Client(), srv.URL+"/page")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if !strings.Contains(string(body), "index") {
		t.Errorf("body = %q", body)
	}

	_, err = Get(context.Background(), srv.Client(), srv.URL+"/missing")
	var se *StatusError
	if !errors.As(err, &se) || se.Code != http.StatusNotFound {
		t.Errorf("error = %v, want StatusError 404", err)
	}
}

func TestNewClient(t *testing.T) {
	if c := NewClient(0); c.Timeout <= 0 {
		t.Errorf("default timeout = %v", c.Timeout)
	}
}
