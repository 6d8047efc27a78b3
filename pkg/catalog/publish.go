package catalog

import (
	"context"
	"io"
	"os"
	"slices"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/packdex/packdex/pkg/maven"
)

// Identity is the caller identity of a publish request. A nil *Identity is a
// trusted internal caller (e.g. a scheduled indexing job) and may publish to
// any repository.
type Identity struct {
	Login string
	// CanPublishAll grants blanket publishing authority.
	CanPublishAll bool
	// Repositories the identity may publish to when it lacks blanket
	// authority.
	Repositories []RepositoryRef
}

// CanPublish reports whether the identity may publish to ref.
func (i *Identity) CanPublish(ref RepositoryRef) bool {
	if i == nil {
		return true
	}
	if i.CanPublishAll {
		return true
	}
	return slices.Contains(i.Repositories, ref)
}

// PublishResult is the discriminated outcome of one publish request. All
// data and authorization failures are result variants, never errors; only
// collaborator faults surface as errors.
type PublishResult interface{ publishResult() }

// Published is the success variant.
type Published struct {
	Project    Project
	Release    Release
	NewProject bool
}

// InvalidPom reports a payload that failed parsing or conversion.
type InvalidPom struct{ Err error }

// NoGithubRepo reports a descriptor with no resolvable source repository.
type NoGithubRepo struct{ Coordinate string }

// Forbidden reports an identity that may not publish to the repository.
type Forbidden struct {
	Login      string
	Repository RepositoryRef
}

func (Published) publishResult()    {}
func (InvalidPom) publishResult()   {}
func (NoGithubRepo) publishResult() {}
func (Forbidden) publishResult()    {}

// Publisher applies the single-artifact conversion to one publish event:
// parse, resolve the repository, authorize, convert, persist. The stages
// mirror the batch pipeline but extend the stored project aggregate by one
// release instead of recomputing the full union.
//
// Concurrent publishes to the same repository are serialized by the Sink,
// not here.
type Publisher struct {
	Resolver RepoResolver
	Prior    PriorState
	Projects ProjectReader
	Sink     Sink
	Metadata RepoMetadataReader // optional; enables the metadata refresh on new projects
	Selector ReleaseSelector
	Licenses LicenseNormalizer
	Logger   *log.Logger
}

// Publish processes one raw POM payload on behalf of id, recorded at the
// given creation time. The raw payload is staged to a temporary file for the
// duration of the call and released on every exit path.
func (p *Publisher) Publish(ctx context.Context, raw []byte, id *Identity, created time.Time) (PublishResult, error) {
	logger := p.logger().With("event_id", uuid.NewString())

	staged, err := stagePayload(raw)
	if err != nil {
		return nil, err
	}
	defer os.Remove(staged)

	d, err := maven.ParsePOM(raw)
	if err != nil {
		logger.Warn("invalid pom", "err", err)
		return InvalidPom{Err: err}, nil
	}
	d.Created = created

	ref, err := p.Resolver.Resolve(ctx, d.URLs)
	if err != nil {
		return nil, err
	}
	if ref == nil {
		logger.Warn("no github repo", "artifact", d.ArtifactID)
		return NoGithubRepo{Coordinate: d.GroupID + ":" + d.ArtifactID}, nil
	}

	if !id.CanPublish(*ref) {
		logger.Warn("publish forbidden", "login", id.Login, "repository", ref.String())
		return Forbidden{Login: id.Login, Repository: *ref}, nil
	}

	platform, err := ClassifyPlatform(d.Platform)
	if err != nil {
		return InvalidPom{Err: err}, nil
	}
	if _, err := semver.NewVersion(d.Version); err != nil {
		return InvalidPom{Err: err}, nil
	}
	rel := BuildRelease(d, *ref, platform, normalizeLicenses(p.Licenses, d.Licenses))
	deps := ExtractDependencies(d)

	existing, err := p.Projects.ProjectOf(ctx, *ref)
	if err != nil {
		return nil, err
	}
	project := AddRelease(existing, rel, p.Selector)

	flags, err := p.Prior.FlagsOf(ctx, *ref)
	if err != nil {
		return nil, err
	}
	project = MergeState(project, flags)

	isNew, err := p.Sink.Insert(ctx, project, rel, deps, created)
	if err != nil {
		return nil, err
	}

	if isNew && p.Metadata != nil {
		go p.refreshMetadata(*ref, logger)
	}

	logger.Info("published", "coordinate", rel.Coordinate.String(), "new_project", isNew)
	return Published{Project: project, Release: rel, NewProject: isNew}, nil
}

// refreshMetadata fetches repository metadata for a newly created project.
// Best effort: failures are logged and never affect the publish result.
func (p *Publisher) refreshMetadata(ref RepositoryRef, logger *log.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	info, err := p.Metadata.Read(ctx, ref)
	if err != nil {
		logger.Warn("metadata refresh failed", "repository", ref.String(), "err", err)
		return
	}
	if info == nil {
		return
	}
	if err := p.Sink.UpdateMetadata(ctx, ref, info, time.Now()); err != nil {
		logger.Warn("metadata update failed", "repository", ref.String(), "err", err)
	}
}

// stagePayload writes the raw payload to a temporary file and returns its
// path. The caller removes it when the publish attempt ends.
func stagePayload(raw []byte) (string, error) {
	f, err := os.CreateTemp("", "packdex-pom-*")
	if err != nil {
		return "", err
	}
	if _, err := f.Write(raw); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

func (p *Publisher) logger() *log.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return log.NewWithOptions(io.Discard, log.Options{})
}
