package catalog

import "slices"

// RepositoryRef identifies the source-code repository that owns one or more
// artifacts. It is the grouping key for all project aggregates. Equality is
// exact, case-sensitive match on both fields.
type RepositoryRef struct {
	Organization string `json:"organization" bson:"organization"`
	Repository   string `json:"repository" bson:"repository"`
}

// String returns the "organization/repository" form.
func (r RepositoryRef) String() string { return r.Organization + "/" + r.Repository }

// IsZero reports whether the reference is empty.
func (r RepositoryRef) IsZero() bool { return r.Organization == "" && r.Repository == "" }

// MavenRef is a dependency-scope-free maven-style reference.
type MavenRef struct {
	GroupID    string `json:"group_id" bson:"group_id"`
	ArtifactID string `json:"artifact_id" bson:"artifact_id"`
	Version    string `json:"version" bson:"version"`
}

// String returns the "groupId:artifactId:version" form.
func (m MavenRef) String() string { return m.GroupID + ":" + m.ArtifactID + ":" + m.Version }

// Coordinate identifies one published artifact: the (organization, repository,
// artifact, version, platform) tuple. It is the identity of a release; two
// releases with equal coordinates collapse during deduplication.
type Coordinate struct {
	Organization string `json:"organization" bson:"organization"`
	Repository   string `json:"repository" bson:"repository"`
	Artifact     string `json:"artifact" bson:"artifact"`
	Version      string `json:"version" bson:"version"`
	Platform     string `json:"platform" bson:"platform"` // raw platform tag, e.g. "2.13", "sjs1_2.13"
}

// Repo returns the repository reference part of the coordinate.
func (c Coordinate) Repo() RepositoryRef {
	return RepositoryRef{Organization: c.Organization, Repository: c.Repository}
}

// String returns a human-readable coordinate.
func (c Coordinate) String() string {
	return c.Organization + "/" + c.Repository + "/" + c.Artifact + "@" + c.Version + ":" + c.Platform
}

// TargetType tags the runtime/toolchain a release is built for.
type TargetType string

// The closed set of target types. New targets are added here and in the
// classifier grammar, nowhere else.
const (
	TargetJvm    TargetType = "Jvm"
	TargetJs     TargetType = "Js"
	TargetNative TargetType = "Native"
	TargetSbt    TargetType = "Sbt"
	TargetJava   TargetType = "Java" // plain artifact without a platform suffix
)

// License is one normalized license entry.
type License struct {
	Name   string `json:"name" bson:"name"`
	SPDXID string `json:"spdx_id,omitempty" bson:"spdx_id,omitempty"`
	URL    string `json:"url,omitempty" bson:"url,omitempty"`
}

// Release is one immutable record per (coordinate, platform) combination.
// Releases are never mutated after creation; a later correction produces a
// new record and deduplication resolves precedence.
type Release struct {
	Coordinate     Coordinate `json:"coordinate" bson:"coordinate"`
	Maven          MavenRef   `json:"maven" bson:"maven"`
	Name           string     `json:"name,omitempty" bson:"name,omitempty"`
	Description    string     `json:"description,omitempty" bson:"description,omitempty"`
	ReleasedAt     string     `json:"released_at" bson:"released_at"` // RFC 3339
	Licenses       []License  `json:"licenses,omitempty" bson:"licenses,omitempty"`
	NonStandardLib bool       `json:"non_standard_lib" bson:"non_standard_lib"`

	Target          TargetType `json:"target" bson:"target"`
	LanguageVersion string     `json:"language_version,omitempty" bson:"language_version,omitempty"`
	JsVersion       string     `json:"js_version,omitempty" bson:"js_version,omitempty"`
	NativeVersion   string     `json:"native_version,omitempty" bson:"native_version,omitempty"`
	SbtVersion      string     `json:"sbt_version,omitempty" bson:"sbt_version,omitempty"`
}

// DependencyEdge links a source artifact to one of its declared dependencies.
// Edges are deduplicated by full tuple equality and accumulated globally
// across a batch, not per project.
type DependencyEdge struct {
	Source MavenRef `json:"source" bson:"source"`
	Target MavenRef `json:"target" bson:"target"`
	Scope  string   `json:"scope" bson:"scope"`
}

// GithubInfo holds display fields read from the upstream repository.
// It is populated by the repository metadata collaborator, never derived
// from artifact data.
type GithubInfo struct {
	Homepage    string   `json:"homepage,omitempty" bson:"homepage,omitempty"`
	Description string   `json:"description,omitempty" bson:"description,omitempty"`
	Stars       int      `json:"stars" bson:"stars"`
	Topics      []string `json:"topics,omitempty" bson:"topics,omitempty"`
	License     string   `json:"license,omitempty" bson:"license,omitempty"`
	Archived    bool     `json:"archived" bson:"archived"`
}

// StoredFlags are operator-controlled attributes that are not derivable from
// artifact data. They are looked up from prior stored state and folded into a
// freshly computed project by MergeState.
type StoredFlags struct {
	// StrictVersions controls whether the default-stable-version policy is
	// honored when choosing the version shown for this project.
	StrictVersions bool `json:"strict_versions" bson:"strict_versions"`

	// Deprecated marks the whole project as deprecated by an operator.
	Deprecated bool `json:"deprecated" bson:"deprecated"`

	// ArtifactDeprecations lists artifact names an operator marked deprecated.
	ArtifactDeprecations []string `json:"artifact_deprecations,omitempty" bson:"artifact_deprecations,omitempty"`
}

// DefaultFlags returns the flags applied when no prior state exists.
func DefaultFlags() StoredFlags {
	return StoredFlags{StrictVersions: true}
}

// Project is the summarized per-repository view over all known releases.
// It is replaced wholesale each time a pipeline runs; no field-level mutation.
type Project struct {
	Organization string      `json:"organization" bson:"organization"`
	Repository   string      `json:"repository" bson:"repository"`
	Github       *GithubInfo `json:"github,omitempty" bson:"github,omitempty"`

	Artifacts       []string `json:"artifacts" bson:"artifacts"`
	DefaultArtifact string   `json:"default_artifact" bson:"default_artifact"`
	ReleaseCount    int      `json:"release_count" bson:"release_count"`
	Created         string   `json:"created,omitempty" bson:"created,omitempty"`           // earliest release date
	LastUpdated     string   `json:"last_updated,omitempty" bson:"last_updated,omitempty"` // latest release date

	TargetTypes      []string `json:"target_types" bson:"target_types"`
	LanguageVersions []string `json:"language_versions,omitempty" bson:"language_versions,omitempty"`
	JsVersions       []string `json:"js_versions,omitempty" bson:"js_versions,omitempty"`
	NativeVersions   []string `json:"native_versions,omitempty" bson:"native_versions,omitempty"`
	SbtVersions      []string `json:"sbt_versions,omitempty" bson:"sbt_versions,omitempty"`

	// DependencyCount and DependentCount are placeholders computed by the
	// external dependent-count collaborator, carried here for storage.
	DependencyCount int `json:"dependency_count" bson:"dependency_count"`
	DependentCount  int `json:"dependent_count" bson:"dependent_count"`

	Flags StoredFlags `json:"flags" bson:"flags"`
}

// Reference returns the repository reference this project aggregates.
func (p Project) Reference() RepositoryRef {
	return RepositoryRef{Organization: p.Organization, Repository: p.Repository}
}

// insertDistinct inserts s into sorted, keeping it sorted and free of
// duplicates. The empty string is never inserted.
func insertDistinct(sorted []string, s string) []string {
	if s == "" {
		return sorted
	}
	i, found := slices.BinarySearch(sorted, s)
	if found {
		return sorted
	}
	return slices.Insert(sorted, i, s)
}
