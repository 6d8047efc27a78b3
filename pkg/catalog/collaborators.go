package catalog

import (
	"context"
	"time"
)

// RepoResolver resolves the owning source repository of a descriptor.
// A nil reference with a nil error means no repository could be resolved;
// a non-nil error is a collaborator fault and aborts the caller.
type RepoResolver interface {
	Resolve(ctx context.Context, urls map[string]string) (*RepositoryRef, error)
}

// RepoMetadataReader reads display metadata for a repository.
// Read-only; caching is the implementation's concern.
type RepoMetadataReader interface {
	Read(ctx context.Context, ref RepositoryRef) (*GithubInfo, error)
}

// PriorState looks up previously indexed state by repository reference.
type PriorState interface {
	// ReleasesOf returns all previously stored releases for ref.
	ReleasesOf(ctx context.Context, ref RepositoryRef) ([]Release, error)
	// FlagsOf returns the stored operator flags for ref, or nil when no
	// prior state exists.
	FlagsOf(ctx context.Context, ref RepositoryRef) (*StoredFlags, error)
}

// ProjectReader looks up the stored project aggregate by repository
// reference, or nil when none exists. Used by the incremental pipeline.
type ProjectReader interface {
	ProjectOf(ctx context.Context, ref RepositoryRef) (*Project, error)
}

// Sink persists the output of the incremental pipeline. Insert reports
// whether the project was newly created. Concurrent publishes to the same
// repository must be serialized by the implementation; this package assumes
// at most one concurrent writer per repository reference.
type Sink interface {
	Insert(ctx context.Context, p Project, r Release, deps []DependencyEdge, at time.Time) (isNewProject bool, err error)
	UpdateMetadata(ctx context.Context, ref RepositoryRef, info *GithubInfo, at time.Time) error
}

// LicenseNormalizer converts raw license names into normalized entries.
// A nil normalizer passes names through unchanged.
type LicenseNormalizer func(raw []string) []License

func normalizeLicenses(n LicenseNormalizer, raw []string) []License {
	if n != nil {
		return n(raw)
	}
	var out []License
	for _, name := range raw {
		out = append(out, License{Name: name})
	}
	return out
}
