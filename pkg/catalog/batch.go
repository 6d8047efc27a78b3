package catalog

import (
	"context"
	"io"
	"sort"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/packdex/packdex/pkg/maven"
)

// DefaultWorkers is the default number of per-repository aggregation workers.
const DefaultWorkers = 4

// DropReason tags why a descriptor was excluded from a batch run.
type DropReason string

// Drop reasons reported in BatchResult.Dropped.
const (
	DropInvalidPlatform DropReason = "invalid-platform"
	DropInvalidVersion  DropReason = "invalid-version"
	DropNoRepository    DropReason = "no-repository"
)

// BatchResult holds the three deduplicated output collections of a batch run
// plus per-reason drop statistics.
type BatchResult struct {
	Projects     []Project
	Releases     []Release
	Dependencies []DependencyEdge
	Dropped      map[DropReason]int
}

// BatchRunner orchestrates the full conversion over a set of descriptors:
// convert each descriptor, group by repository, fold each group together
// with prior state, merge stored flags, and collect dependency edges
// globally.
//
// Per-descriptor data errors (unrecognized platform, unparseable version,
// missing repository link) drop that descriptor with a logged warning and
// never abort the run; only collaborator faults (prior-state lookups,
// resolver errors) do.
//
// Per-repository folds are independent, so they run on a bounded worker
// pool; the only shared input is the read-only prior-state lookup.
type BatchRunner struct {
	Resolver RepoResolver
	Prior    PriorState
	Selector ReleaseSelector
	Licenses LicenseNormalizer
	Logger   *log.Logger
	Workers  int
}

// Run executes the batch pipeline over descriptors.
func (r *BatchRunner) Run(ctx context.Context, descriptors []*maven.ArtifactDescriptor) (*BatchResult, error) {
	logger := r.logger().With("run_id", uuid.NewString())
	logger.Info("starting batch", "descriptors", len(descriptors))

	result := &BatchResult{Dropped: make(map[DropReason]int)}

	pending, edges, err := r.convert(ctx, descriptors, result, logger)
	if err != nil {
		return nil, err
	}

	groups := GroupByRepository(pending)
	if err := r.aggregate(ctx, groups, result); err != nil {
		return nil, err
	}
	result.Dependencies = DedupEdges(edges)

	// Stable output order regardless of map iteration.
	sort.Slice(result.Projects, func(i, j int) bool {
		return result.Projects[i].Reference().String() < result.Projects[j].Reference().String()
	})
	sort.Slice(result.Releases, func(i, j int) bool {
		return result.Releases[i].Coordinate.String() < result.Releases[j].Coordinate.String()
	})

	logger.Info("batch complete",
		"projects", len(result.Projects),
		"releases", len(result.Releases),
		"dependencies", len(result.Dependencies),
		"dropped", dropTotal(result.Dropped))
	return result, nil
}

// convert runs the short-circuiting per-descriptor stage: classify the
// platform, parse the version, resolve the repository, build the release.
// Each failure produces a tagged drop outcome so batch-level statistics stay
// reconstructable.
func (r *BatchRunner) convert(ctx context.Context, descriptors []*maven.ArtifactDescriptor, result *BatchResult, logger *log.Logger) ([]Pending, []DependencyEdge, error) {
	var pending []Pending
	var edges []DependencyEdge

	for _, d := range descriptors {
		platform, err := ClassifyPlatform(d.Platform)
		if err != nil {
			result.Dropped[DropInvalidPlatform]++
			logger.Warn("dropping descriptor", "artifact", d.ArtifactID, "reason", DropInvalidPlatform, "err", err)
			continue
		}
		if _, err := semver.NewVersion(d.Version); err != nil {
			result.Dropped[DropInvalidVersion]++
			logger.Warn("dropping descriptor", "artifact", d.ArtifactID, "version", d.Version, "reason", DropInvalidVersion)
			continue
		}
		ref, err := r.Resolver.Resolve(ctx, d.URLs)
		if err != nil {
			return nil, nil, err
		}
		if ref == nil {
			result.Dropped[DropNoRepository]++
			logger.Warn("dropping descriptor", "artifact", d.ArtifactID, "reason", DropNoRepository)
			continue
		}

		rel := BuildRelease(d, *ref, platform, normalizeLicenses(r.Licenses, d.Licenses))
		pending = append(pending, Pending{Repo: *ref, Release: rel, Descriptor: d})
		edges = append(edges, ExtractDependencies(d)...)
	}
	return pending, edges, nil
}

// aggregate folds each repository group with its prior state on a bounded
// worker pool and appends the merged projects and release unions to result.
func (r *BatchRunner) aggregate(ctx context.Context, groups map[RepositoryRef][]Pending, result *BatchResult) error {
	workers := r.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		sem    = make(chan struct{}, workers)
		runErr error
	)
	fail := func(err error) {
		mu.Lock()
		if runErr == nil {
			runErr = err
		}
		mu.Unlock()
	}

	for ref, items := range groups {
		wg.Add(1)
		sem <- struct{}{}
		go func(ref RepositoryRef, items []Pending) {
			defer wg.Done()
			defer func() { <-sem }()

			fresh := make([]Release, 0, len(items))
			for _, it := range items {
				fresh = append(fresh, it.Release)
			}

			stored, err := r.Prior.ReleasesOf(ctx, ref)
			if err != nil {
				fail(err)
				return
			}
			project, ok := BuildProject(ref, fresh, stored, r.Selector)
			if !ok {
				return
			}
			flags, err := r.Prior.FlagsOf(ctx, ref)
			if err != nil {
				fail(err)
				return
			}
			project = MergeState(project, flags)
			union := DedupReleases(append(fresh, stored...))

			mu.Lock()
			result.Projects = append(result.Projects, project)
			result.Releases = append(result.Releases, union...)
			mu.Unlock()
		}(ref, items)
	}
	wg.Wait()
	return runErr
}

func (r *BatchRunner) logger() *log.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return log.NewWithOptions(io.Discard, log.Options{})
}

func dropTotal(m map[DropReason]int) int {
	total := 0
	for _, n := range m {
		total += n
	}
	return total
}
