// Package github provides the GitHub API client used to enrich projects with
// repository metadata, and the resolver that maps descriptor URLs to
// repository coordinates.
package github

import (
	"context"
	"errors"
	"fmt"

	"github.com/packdex/packdex/pkg/catalog"
	"github.com/packdex/packdex/pkg/integrations"
)

// Client provides access to the GitHub API for repository metadata.
// It handles HTTP requests with caching, automatic retries, and optional
// authentication. Client implements [catalog.RepoMetadataReader].
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a GitHub API client with optional authentication.
// Pass an empty string for token to use unauthenticated requests (lower rate
// limits). Metadata responses are stored in cache under "github:" keys.
func NewClient(token string, cache integrations.ValueCache) *Client {
	headers := map[string]string{"Accept": "application/vnd.github.v3+json"}
	if token != "" {
		headers["Authorization"] = "Bearer " + token
	}

	return &Client{
		Client:  integrations.NewClient(cache, headers),
		baseURL: "https://api.github.com",
	}
}

// Read retrieves repository metadata (stars, topics, license, archival state)
// from GitHub. Results are cached; a repository that GitHub reports as
// missing surfaces as [integrations.ErrNotFound].
func (c *Client) Read(ctx context.Context, ref catalog.RepositoryRef) (*catalog.GithubInfo, error) {
	key := "github:" + ref.Organization + "/" + ref.Repository

	var info catalog.GithubInfo
	err := c.Cached(ctx, key, false, &info, func() error {
		return c.fetchInfo(ctx, ref, &info)
	})
	if err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Client) fetchInfo(ctx context.Context, ref catalog.RepositoryRef, info *catalog.GithubInfo) error {
	var data repoResponse
	url := fmt.Sprintf("%s/repos/%s/%s", c.baseURL, ref.Organization, ref.Repository)
	if err := c.Get(ctx, url, &data); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return fmt.Errorf("%w: github repo %s/%s", err, ref.Organization, ref.Repository)
		}
		return err
	}

	*info = catalog.GithubInfo{
		Homepage:    data.Homepage,
		Description: data.Description,
		Stars:       data.Stars,
		Topics:      data.Topics,
		License:     data.License.SPDXID,
		Archived:    data.Archived,
	}
	return nil
}

var _ catalog.RepoMetadataReader = (*Client)(nil)

type repoResponse struct {
	Homepage    string   `json:"homepage"`
	Description string   `json:"description"`
	Stars       int      `json:"stargazers_count"`
	License     struct {
		SPDXID string `json:"spdx_id"`
	} `json:"license"`
	Topics   []string `json:"topics"`
	Archived bool     `json:"archived"`
}
