package integrations

import (
	"regexp"
	"testing"
)

func TestNormalizeRepoURL(t *testing.T) {
	tests := []struct{ in, want string }{
		{"", ""},
		{"https://github.com/acme/lib", "https://github.com/acme/lib"},
		{"https://github.com/acme/lib.git", "https://github.com/acme/lib"},
		{"git@github.com:acme/lib.git", "https://github.com/acme/lib"},
		{"git://github.com/acme/lib.git", "https://github.com/acme/lib"},
		{"git+https://github.com/acme/lib", "https://github.com/acme/lib"},
		{"scm:git:git@github.com:acme/lib.git", "https://github.com/acme/lib"},
		{"  https://github.com/acme/lib  ", "https://github.com/acme/lib"},
	}
	for _, tt := range tests {
		if got := NormalizeRepoURL(tt.in); got != tt.want {
			t.Errorf("NormalizeRepoURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

var githubPattern = regexp.MustCompile(`https?://github\.com/([^/]+)/([^/]+?)(?:\.git)?(?:[/?#]|$)`)

func TestExtractRepoURL(t *testing.T) {
	tests := []struct {
		name      string
		urls      map[string]string
		wantOwner string
		wantRepo  string
		wantOK    bool
	}{
		{
			name:      "source key preferred",
			urls:      map[string]string{"Source": "https://github.com/acme/lib", "Homepage": "https://github.com/other/page"},
			wantOwner: "acme", wantRepo: "lib", wantOK: true,
		},
		{
			name:      "scm connection form",
			urls:      map[string]string{"Connection": "scm:git:git@github.com:acme/lib.git"},
			wantOwner: "acme", wantRepo: "lib", wantOK: true,
		},
		{
			name:      "homepage fallback",
			urls:      map[string]string{"Homepage": "https://github.com/acme/lib"},
			wantOwner: "acme", wantRepo: "lib", wantOK: true,
		},
		{
			name:   "non-github homepage",
			urls:   map[string]string{"Homepage": "https://acme.example.org/lib"},
			wantOK: false,
		},
		{
			name:   "sponsors link ignored",
			urls:   map[string]string{"Homepage": "https://github.com/sponsors/acme"},
			wantOK: false,
		},
		{
			name:   "empty",
			urls:   nil,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner, repo, ok := ExtractRepoURL(githubPattern, tt.urls)
			if ok != tt.wantOK {
				t.Fatalf("ExtractRepoURL() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && (owner != tt.wantOwner || repo != tt.wantRepo) {
				t.Errorf("ExtractRepoURL() = (%q, %q), want (%q, %q)", owner, repo, tt.wantOwner, tt.wantRepo)
			}
		})
	}
}
