package github

import (
	"context"
	"regexp"
	"strings"

	"github.com/packdex/packdex/pkg/catalog"
	"github.com/packdex/packdex/pkg/integrations"
)

var repoURLPattern = regexp.MustCompile(`https?://github\.com/([^/]+)/([^/]+?)(?:\.git)?(?:[/?#]|$)`)

// Resolver maps descriptor URLs to GitHub repository coordinates by pattern
// matching, without any network access. It implements [catalog.RepoResolver].
//
// Resolution is purely syntactic: a descriptor whose Source, Connection, or
// Homepage URL points at github.com resolves to that repository; anything
// else resolves to nothing. Whether the repository actually exists is checked
// later, when metadata is read.
type Resolver struct{}

// Resolve extracts a repository reference from the descriptor URLs.
// It returns (nil, nil) when no URL points at a GitHub repository.
func (Resolver) Resolve(_ context.Context, urls map[string]string) (*catalog.RepositoryRef, error) {
	owner, repo, ok := extractURL(urls)
	if !ok {
		return nil, nil
	}
	return &catalog.RepositoryRef{
		Organization: strings.ToLower(owner),
		Repository:   strings.ToLower(repo),
	}, nil
}

func extractURL(urls map[string]string) (owner, repo string, ok bool) {
	return integrations.ExtractRepoURL(repoURLPattern, urls)
}

var _ catalog.RepoResolver = Resolver{}
