package catalog

import (
	"time"

	"github.com/packdex/packdex/pkg/maven"
)

// BuildRelease produces the immutable release record for one descriptor.
// The caller supplies the resolved repository reference, the normalized
// platform, and the already-normalized license list; descriptors whose
// version fails semantic-version parsing never reach this function.
// Pure, deterministic, no I/O.
func BuildRelease(d *maven.ArtifactDescriptor, repo RepositoryRef, platform Platform, licenses []License) Release {
	return Release{
		Coordinate: Coordinate{
			Organization: repo.Organization,
			Repository:   repo.Repository,
			Artifact:     d.ArtifactName,
			Version:      d.Version,
			Platform:     d.Platform,
		},
		Maven: MavenRef{
			GroupID:    d.GroupID,
			ArtifactID: d.ArtifactID,
			Version:    d.Version,
		},
		Name:           d.Name,
		Description:    d.Description,
		ReleasedAt:     d.Created.UTC().Format(time.RFC3339),
		Licenses:       licenses,
		NonStandardLib: d.NonStandardLib,

		Target:          platform.Target,
		LanguageVersion: platform.LanguageVersion,
		JsVersion:       platform.JsVersion,
		NativeVersion:   platform.NativeVersion,
		SbtVersion:      platform.SbtVersion,
	}
}

// DedupReleases collapses releases with equal coordinates, keeping the first
// occurrence. Callers put fresh releases before stored ones so that a
// re-published correction wins over history.
func DedupReleases(releases []Release) []Release {
	var out []Release
	seen := make(map[Coordinate]bool)
	for _, r := range releases {
		if !seen[r.Coordinate] {
			seen[r.Coordinate] = true
			out = append(out, r)
		}
	}
	return out
}
