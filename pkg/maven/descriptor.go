// Package maven parses Maven POM documents into artifact descriptors.
//
// A descriptor is the read-only input unit of the catalog pipelines: the
// coordinate, declared dependencies, raw platform tag, and the URLs used to
// resolve the owning source repository. The platform tag is recovered from
// the artifact id suffix convention ("lib_2.13", "lib_sjs1_2.13",
// "lib_2.12_1.0" for build-tool plugins); artifacts without a suffix are
// tagged "java".
package maven

import "time"

// Dependency is one declared dependency from a POM.
type Dependency struct {
	GroupID    string
	ArtifactID string
	Version    string
	Scope      string // empty means the Maven default (compile)
	Optional   bool
}

// ArtifactDescriptor is the parsed form of one published artifact.
// It is produced by ParsePOM and consumed read-only by the catalog pipelines.
type ArtifactDescriptor struct {
	GroupID    string
	ArtifactID string // full artifact id, platform suffix included
	Version    string

	ArtifactName string // artifact id with the platform suffix stripped
	Platform     string // raw platform tag: "2.13", "sjs1_2.13", "native0.4_2.13", "sbt1.0_2.12", "java"

	Name        string
	Description string
	Created     time.Time
	Resolver    string // source repository id, e.g. "maven-central"

	Dependencies []Dependency
	Licenses     []string          // raw license names as declared
	URLs         map[string]string // project/scm URLs for repository resolution

	// NonStandardLib marks artifacts that do not follow the platform suffix
	// convention (plain Java artifacts published into the catalog).
	NonStandardLib bool
}
