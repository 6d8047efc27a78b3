package github

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/packdex/packdex/pkg/catalog"
	"github.com/packdex/packdex/pkg/httputil"
	"github.com/packdex/packdex/pkg/integrations"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cache, err := httputil.NewCache(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	c := NewClient("test-token", cache)
	c.baseURL = srv.URL
	return c, srv
}

func TestClientRead(t *testing.T) {
	requests := 0
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if r.URL.Path != "/repos/acme/lib" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Authorization = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"homepage": "https://acme.dev",
			"description": "a library",
			"stargazers_count": 123,
			"license": {"spdx_id": "MIT"},
			"topics": ["functional", "scala"],
			"archived": false
		}`))
	}))

	ref := catalog.RepositoryRef{Organization: "acme", Repository: "lib"}
	info, err := c.Read(context.Background(), ref)
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}

	want := catalog.GithubInfo{
		Homepage:    "https://acme.dev",
		Description: "a library",
		Stars:       123,
		Topics:      []string{"functional", "scala"},
		License:     "MIT",
	}
	if info.Homepage != want.Homepage || info.Stars != want.Stars || info.License != want.License {
		t.Errorf("Read() = %+v, want %+v", info, want)
	}

	// Second read is served from cache.
	if _, err := c.Read(context.Background(), ref); err != nil {
		t.Fatal(err)
	}
	if requests != 1 {
		t.Errorf("upstream hit %d times, want 1 (cached)", requests)
	}
}

func TestClientReadNotFound(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := c.Read(context.Background(), catalog.RepositoryRef{Organization: "acme", Repository: "gone"})
	if !errors.Is(err, integrations.ErrNotFound) {
		t.Errorf("Read() error = %v, want ErrNotFound", err)
	}
}
