package integrations

import (
	"errors"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/packdex/packdex/pkg/httputil"
)

const httpTimeout = 10 * time.Second

var (
	// ErrNotFound is returned when a repository or resource doesn't exist upstream.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, 5xx responses).
	ErrNetwork = errors.New("network error")
)

// NewHTTPClient creates an HTTP client with a standard timeout for API requests.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}

// NewCache creates a file-based value cache with the given TTL in the default
// cache directory. See [httputil.NewCache] for cache location and behavior.
func NewCache(ttl time.Duration) (*httputil.Cache, error) {
	return httputil.NewCache("", ttl)
}

var repoURLReplacer = strings.NewReplacer(
	"git@github.com:", "https://github.com/",
	"git://github.com/", "https://github.com/",
	"scm:git:", "",
)

// NormalizeRepoURL converts various repository URL formats to canonical HTTPS
// form. Handles git@, git://, git+, and Maven scm:git: prefixes, and removes
// .git suffixes. Returns empty string if raw is empty.
func NormalizeRepoURL(raw string) string {
	if raw == "" {
		return ""
	}
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "git+")
	s = repoURLReplacer.Replace(s)
	return strings.TrimSuffix(s, ".git")
}

var repoURLKeys = []string{"Source", "Connection", "Repository", "Homepage"}

// ExtractRepoURL finds a repository owner and name from descriptor URLs.
// It searches urls by well-known keys first (Source, Connection, Repository,
// Homepage), then the remaining entries in map order. Each candidate is
// normalized with [NormalizeRepoURL] before matching. The re parameter should
// capture owner (group 1) and repo name (group 2).
// Returns ok=false if no candidate matches.
func ExtractRepoURL(re *regexp.Regexp, urls map[string]string) (owner, repo string, ok bool) {
	match := func(u string) bool {
		u = NormalizeRepoURL(u)
		if strings.Contains(u, "/sponsors/") {
			return false
		}
		if m := re.FindStringSubmatch(u); len(m) >= 3 {
			owner = m[1]
			repo = strings.TrimSuffix(m[2], ".git")
			ok = true
			return true
		}
		return false
	}

	for _, key := range repoURLKeys {
		if u, exists := urls[key]; exists && match(u) {
			return
		}
	}
	for _, u := range urls {
		if match(u) {
			return
		}
	}
	return
}

// URLEncode percent-encodes a string for use in URLs.
// This is a convenience wrapper around [url.QueryEscape].
func URLEncode(s string) string { return url.QueryEscape(s) }
