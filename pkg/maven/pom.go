package maven

import (
	"encoding/xml"
	"regexp"

	"github.com/packdex/packdex/pkg/errors"
)

// Platform suffix patterns, checked in order. The plain two-number suffix is
// the sbt-plugin convention (scala version then tool version), so it must be
// tried only after the sjs and native forms.
var (
	jsSuffix     = regexp.MustCompile(`^(.+)_sjs(\d+(?:\.\d+)*)_(\d+(?:\.\d+)*)$`)
	nativeSuffix = regexp.MustCompile(`^(.+)_native(\d+(?:\.\d+)*)_(\d+(?:\.\d+)*)$`)
	sbtSuffix    = regexp.MustCompile(`^(.+)_(\d+(?:\.\d+)*)_(\d+(?:\.\d+)*)$`)
	jvmSuffix    = regexp.MustCompile(`^(.+)_(\d+(?:\.\d+)*)$`)
)

// SplitArtifactID separates an artifact id into the bare artifact name and
// its raw platform tag. Artifacts without a recognized suffix are tagged
// "java".
func SplitArtifactID(artifactID string) (name, platform string) {
	if m := jsSuffix.FindStringSubmatch(artifactID); m != nil {
		return m[1], "sjs" + m[2] + "_" + m[3]
	}
	if m := nativeSuffix.FindStringSubmatch(artifactID); m != nil {
		return m[1], "native" + m[2] + "_" + m[3]
	}
	if m := sbtSuffix.FindStringSubmatch(artifactID); m != nil {
		return m[1], "sbt" + m[3] + "_" + m[2]
	}
	if m := jvmSuffix.FindStringSubmatch(artifactID); m != nil {
		return m[1], m[2]
	}
	return artifactID, "java"
}

// ParsePOM parses a POM document into an ArtifactDescriptor.
// Group id and version fall back to the parent declaration when absent, per
// Maven inheritance rules. The caller supplies creation time and resolver id
// out of band; they are not part of the POM itself.
func ParsePOM(data []byte) (*ArtifactDescriptor, error) {
	var pom pomProject
	if err := xml.Unmarshal(data, &pom); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPom, err, "unmarshal pom")
	}

	groupID := pom.GroupID
	version := pom.Version
	if pom.Parent != nil {
		if groupID == "" {
			groupID = pom.Parent.GroupID
		}
		if version == "" {
			version = pom.Parent.Version
		}
	}

	if err := errors.ValidateGroupID(groupID); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPom, err, "group id")
	}
	if err := errors.ValidateArtifactID(pom.ArtifactID); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPom, err, "artifact id")
	}
	if err := errors.ValidateVersionString(version); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPom, err, "version")
	}

	name, platform := SplitArtifactID(pom.ArtifactID)

	d := &ArtifactDescriptor{
		GroupID:        groupID,
		ArtifactID:     pom.ArtifactID,
		Version:        version,
		ArtifactName:   name,
		Platform:       platform,
		Name:           pom.Name,
		Description:    pom.Description,
		Dependencies:   extractDependencies(&pom),
		Licenses:       extractLicenses(&pom),
		URLs:           extractURLs(&pom),
		NonStandardLib: platform == "java",
	}
	return d, nil
}

// extractDependencies converts declared dependencies, skipping entries with
// unresolved Maven properties. Scope and optionality are preserved; filtering
// by scope is the dependency extractor's concern, not the parser's.
func extractDependencies(pom *pomProject) []Dependency {
	var deps []Dependency
	for _, dep := range pom.Dependencies {
		if hasUnresolvedProperty(dep.GroupID) || hasUnresolvedProperty(dep.ArtifactID) {
			continue
		}
		deps = append(deps, Dependency{
			GroupID:    dep.GroupID,
			ArtifactID: dep.ArtifactID,
			Version:    dep.Version,
			Scope:      dep.Scope,
			Optional:   dep.Optional == "true",
		})
	}
	return deps
}

func extractLicenses(pom *pomProject) []string {
	var names []string
	for _, l := range pom.Licenses {
		if l.Name != "" {
			names = append(names, l.Name)
		}
	}
	return names
}

func extractURLs(pom *pomProject) map[string]string {
	urls := make(map[string]string)
	if pom.URL != "" {
		urls["Homepage"] = pom.URL
	}
	if pom.SCM != nil {
		if pom.SCM.URL != "" {
			urls["Source"] = pom.SCM.URL
		}
		if pom.SCM.Connection != "" {
			urls["Connection"] = pom.SCM.Connection
		}
	}
	return urls
}

func hasUnresolvedProperty(s string) bool {
	return len(s) >= 2 && s[0] == '$' && s[1] == '{'
}

type pomProject struct {
	GroupID      string          `xml:"groupId"`
	ArtifactID   string          `xml:"artifactId"`
	Version      string          `xml:"version"`
	Name         string          `xml:"name"`
	Description  string          `xml:"description"`
	URL          string          `xml:"url"`
	Licenses     []pomLicense    `xml:"licenses>license"`
	SCM          *pomSCM         `xml:"scm"`
	Dependencies []pomDependency `xml:"dependencies>dependency"`
	Parent       *pomParent      `xml:"parent"`
}

type pomParent struct {
	GroupID    string `xml:"groupId"`
	ArtifactID string `xml:"artifactId"`
	Version    string `xml:"version"`
}

type pomLicense struct {
	Name string `xml:"name"`
	URL  string `xml:"url"`
}

type pomSCM struct {
	URL        string `xml:"url"`
	Connection string `xml:"connection"`
}

type pomDependency struct {
	GroupID    string `xml:"groupId"`
	ArtifactID string `xml:"artifactId"`
	Version    string `xml:"version"`
	Scope      string `xml:"scope"`
	Optional   string `xml:"optional"`
}
