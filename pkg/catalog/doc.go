// Package catalog converts raw build-artifact descriptors into a canonical,
// deduplicated catalog of projects, releases, and dependency edges.
//
// # Architecture
//
// The package provides two pipelines over the same building blocks:
//
//  1. Batch: group all descriptors by owning source repository, build one
//     release per descriptor, fold each group together with previously stored
//     releases into a project aggregate, and merge operator flags back in.
//  2. Publish: apply the same conversion to a single artifact, gated by an
//     authorization check, returning a typed result instead of an error.
//
// Both pipelines share the platform classifier, release builder, dependency
// extractor, and state merger. Collaborators (repository resolution, license
// normalization, storage) are injected behind small interfaces so the
// conversion logic itself stays pure and testable.
//
// # Usage
//
// Run a full batch:
//
//	runner := &catalog.BatchRunner{
//	    Resolver: github.NewResolver(),
//	    Prior:    store,
//	    Logger:   logger,
//	}
//	result, err := runner.Run(ctx, descriptors)
//
// Publish one artifact:
//
//	pub := &catalog.Publisher{
//	    Resolver: github.NewResolver(),
//	    Prior:    store,
//	    Projects: store,
//	    Sink:     store,
//	}
//	res, err := pub.Publish(ctx, rawPOM, identity, time.Now())
//	switch r := res.(type) {
//	case catalog.Published:
//	    // r.Project, r.Release
//	case catalog.Forbidden:
//	    // r.Login tried to publish to r.Repository
//	}
package catalog
