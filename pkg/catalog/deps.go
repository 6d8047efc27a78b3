package catalog

import "github.com/packdex/packdex/pkg/maven"

// ScopeCompile is the scope applied when a dependency declares none.
const ScopeCompile = "compile"

// ExtractDependencies maps one descriptor's declared dependency list into
// normalized dependency edges. The result is deduplicated by full tuple
// equality within the call. Side-effect free.
func ExtractDependencies(d *maven.ArtifactDescriptor) []DependencyEdge {
	source := MavenRef{GroupID: d.GroupID, ArtifactID: d.ArtifactID, Version: d.Version}

	var edges []DependencyEdge
	seen := make(map[DependencyEdge]bool)
	for _, dep := range d.Dependencies {
		scope := dep.Scope
		if scope == "" {
			scope = ScopeCompile
		}
		edge := DependencyEdge{
			Source: source,
			Target: MavenRef{GroupID: dep.GroupID, ArtifactID: dep.ArtifactID, Version: dep.Version},
			Scope:  scope,
		}
		if !seen[edge] {
			seen[edge] = true
			edges = append(edges, edge)
		}
	}
	return edges
}

// DedupEdges deduplicates edges across a whole batch, preserving first
// occurrence order.
func DedupEdges(edges []DependencyEdge) []DependencyEdge {
	var out []DependencyEdge
	seen := make(map[DependencyEdge]bool)
	for _, e := range edges {
		if !seen[e] {
			seen[e] = true
			out = append(out, e)
		}
	}
	return out
}
