package catalog

import "github.com/packdex/packdex/pkg/maven"

// Pending is the named intermediate record carried between pipeline stages
// for one successfully converted descriptor.
type Pending struct {
	Repo       RepositoryRef
	Release    Release
	Descriptor *maven.ArtifactDescriptor
}

// GroupByRepository partitions pending artifacts by owning repository.
// Grouping key equality is exact, case-sensitive match on (organization,
// repository); no fuzzy matching.
func GroupByRepository(items []Pending) map[RepositoryRef][]Pending {
	groups := make(map[RepositoryRef][]Pending)
	for _, it := range items {
		groups[it.Repo] = append(groups[it.Repo], it)
	}
	return groups
}
