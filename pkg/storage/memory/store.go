// Package memory provides an in-memory catalog store. It backs tests and
// single-process runs where persistence is not needed, and doubles as the
// reference implementation of the storage contracts in [catalog].
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/packdex/packdex/pkg/catalog"
)

// Store keeps the whole catalog in process memory, guarded by a single
// mutex. The mutex also serializes concurrent publishes to the same
// repository, satisfying the Sink contract.
type Store struct {
	mu       sync.Mutex
	projects map[catalog.RepositoryRef]catalog.Project
	releases map[catalog.RepositoryRef][]catalog.Release
	flags    map[catalog.RepositoryRef]catalog.StoredFlags
	deps     []catalog.DependencyEdge
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		projects: make(map[catalog.RepositoryRef]catalog.Project),
		releases: make(map[catalog.RepositoryRef][]catalog.Release),
		flags:    make(map[catalog.RepositoryRef]catalog.StoredFlags),
	}
}

// ReleasesOf returns all stored releases for ref.
func (s *Store) ReleasesOf(_ context.Context, ref catalog.RepositoryRef) ([]catalog.Release, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]catalog.Release, len(s.releases[ref]))
	copy(out, s.releases[ref])
	return out, nil
}

// FlagsOf returns the stored operator flags for ref, or nil when the
// repository has never been stored.
func (s *Store) FlagsOf(_ context.Context, ref catalog.RepositoryRef) (*catalog.StoredFlags, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.flags[ref]
	if !ok {
		return nil, nil
	}
	return &f, nil
}

// ProjectOf returns the stored project for ref, or nil when none exists.
func (s *Store) ProjectOf(_ context.Context, ref catalog.RepositoryRef) (*catalog.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[ref]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// Insert stores one publish: the replaced project, the new release, and its
// dependency edges. It reports whether the project was newly created.
func (s *Store) Insert(_ context.Context, p catalog.Project, r catalog.Release, deps []catalog.DependencyEdge, _ time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ref := p.Reference()
	_, exists := s.projects[ref]
	s.projects[ref] = p
	s.flags[ref] = p.Flags
	s.addRelease(ref, r)
	s.addEdges(deps)
	return !exists, nil
}

// UpdateMetadata attaches repository metadata to a stored project.
// Unknown references are ignored.
func (s *Store) UpdateMetadata(_ context.Context, ref catalog.RepositoryRef, info *catalog.GithubInfo, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[ref]
	if !ok {
		return nil
	}
	p.Github = info
	s.projects[ref] = p
	return nil
}

// SaveBatch replaces stored state with the output of a batch run.
// Projects and releases are upserted by identity; dependency edges are
// added if not already present.
func (s *Store) SaveBatch(_ context.Context, result *catalog.BatchResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range result.Projects {
		ref := p.Reference()
		s.projects[ref] = p
		s.flags[ref] = p.Flags
	}
	for _, r := range result.Releases {
		s.addRelease(r.Coordinate.Repo(), r)
	}
	s.addEdges(result.Dependencies)
	return nil
}

// Dependencies returns a copy of all stored dependency edges.
func (s *Store) Dependencies() []catalog.DependencyEdge {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]catalog.DependencyEdge, len(s.deps))
	copy(out, s.deps)
	return out
}

// Close releases nothing; it exists to satisfy the store contract.
func (s *Store) Close(context.Context) error { return nil }

func (s *Store) addRelease(ref catalog.RepositoryRef, r catalog.Release) {
	for _, have := range s.releases[ref] {
		if have.Coordinate == r.Coordinate {
			return
		}
	}
	s.releases[ref] = append(s.releases[ref], r)
}

func (s *Store) addEdges(edges []catalog.DependencyEdge) {
	for _, e := range edges {
		known := false
		for _, have := range s.deps {
			if have == e {
				known = true
				break
			}
		}
		if !known {
			s.deps = append(s.deps, e)
		}
	}
}

var (
	_ catalog.PriorState    = (*Store)(nil)
	_ catalog.ProjectReader = (*Store)(nil)
	_ catalog.Sink          = (*Store)(nil)
)
