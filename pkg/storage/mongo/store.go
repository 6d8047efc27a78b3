// Package mongo provides the MongoDB-backed catalog store.
//
// Four collections hold the catalog:
//
//   - projects: one document per repository, replaced wholesale on update
//   - releases: one immutable document per release coordinate
//   - dependencies: one document per dependency edge
//   - project_settings: operator flags, kept separate so replacing a
//     project document never clobbers them
//
// All writes are idempotent upserts keyed by the natural identity of each
// record, so re-running a batch or re-publishing a POM converges instead of
// duplicating.
package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/packdex/packdex/pkg/catalog"
	pkgerrors "github.com/packdex/packdex/pkg/errors"
)

const (
	colProjects     = "projects"
	colReleases     = "releases"
	colDependencies = "dependencies"
	colSettings     = "project_settings"
)

// Store persists the catalog in MongoDB. It implements the storage contracts
// consumed by the batch and publish pipelines.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect establishes a MongoDB connection, verifies it with a ping, and
// ensures the unique indexes the upsert keys rely on.
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.ErrCodeStorage, err, "connecting to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, pkgerrors.Wrap(pkgerrors.ErrCodeStorage, err, "pinging mongodb")
	}

	s := &Store{client: client, db: client.Database(database)}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)
	indexes := map[string]mongo.IndexModel{
		colProjects: {Keys: bson.D{{Key: "organization", Value: 1}, {Key: "repository", Value: 1}}, Options: unique},
		colReleases: {Keys: bson.D{
			{Key: "coordinate.organization", Value: 1},
			{Key: "coordinate.repository", Value: 1},
			{Key: "coordinate.artifact", Value: 1},
			{Key: "coordinate.version", Value: 1},
			{Key: "coordinate.platform", Value: 1},
		}, Options: unique},
		colDependencies: {Keys: bson.D{
			{Key: "source.group_id", Value: 1},
			{Key: "source.artifact_id", Value: 1},
			{Key: "source.version", Value: 1},
			{Key: "target.group_id", Value: 1},
			{Key: "target.artifact_id", Value: 1},
			{Key: "target.version", Value: 1},
			{Key: "scope", Value: 1},
		}, Options: unique},
		colSettings: {Keys: bson.D{{Key: "organization", Value: 1}, {Key: "repository", Value: 1}}, Options: unique},
	}
	for col, model := range indexes {
		if _, err := s.db.Collection(col).Indexes().CreateOne(ctx, model); err != nil {
			return pkgerrors.Wrap(pkgerrors.ErrCodeStorage, err, "creating index on %s", col)
		}
	}
	return nil
}

func refFilter(ref catalog.RepositoryRef) bson.M {
	return bson.M{"organization": ref.Organization, "repository": ref.Repository}
}

func coordinateFilter(c catalog.Coordinate) bson.M {
	return bson.M{
		"coordinate.organization": c.Organization,
		"coordinate.repository":   c.Repository,
		"coordinate.artifact":     c.Artifact,
		"coordinate.version":      c.Version,
		"coordinate.platform":     c.Platform,
	}
}

func edgeFilter(e catalog.DependencyEdge) bson.M {
	return bson.M{
		"source.group_id":    e.Source.GroupID,
		"source.artifact_id": e.Source.ArtifactID,
		"source.version":     e.Source.Version,
		"target.group_id":    e.Target.GroupID,
		"target.artifact_id": e.Target.ArtifactID,
		"target.version":     e.Target.Version,
		"scope":              e.Scope,
	}
}

// ReleasesOf returns all stored releases for ref.
func (s *Store) ReleasesOf(ctx context.Context, ref catalog.RepositoryRef) ([]catalog.Release, error) {
	filter := bson.M{
		"coordinate.organization": ref.Organization,
		"coordinate.repository":   ref.Repository,
	}
	cursor, err := s.db.Collection(colReleases).Find(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.ErrCodeStorage, err, "querying releases for %s", ref.String())
	}
	var releases []catalog.Release
	if err := cursor.All(ctx, &releases); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.ErrCodeStorage, err, "decoding releases for %s", ref.String())
	}
	return releases, nil
}

type settingsDoc struct {
	Organization string              `bson:"organization"`
	Repository   string              `bson:"repository"`
	Flags        catalog.StoredFlags `bson:"flags"`
	UpdatedAt    time.Time           `bson:"updated_at"`
}

// FlagsOf returns the stored operator flags for ref, or nil when the
// repository has never been stored.
func (s *Store) FlagsOf(ctx context.Context, ref catalog.RepositoryRef) (*catalog.StoredFlags, error) {
	var doc settingsDoc
	err := s.db.Collection(colSettings).FindOne(ctx, refFilter(ref)).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.ErrCodeStorage, err, "querying settings for %s", ref.String())
	}
	return &doc.Flags, nil
}

// ProjectOf returns the stored project for ref, or nil when none exists.
func (s *Store) ProjectOf(ctx context.Context, ref catalog.RepositoryRef) (*catalog.Project, error) {
	var p catalog.Project
	err := s.db.Collection(colProjects).FindOne(ctx, refFilter(ref)).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.ErrCodeStorage, err, "querying project %s", ref.String())
	}
	return &p, nil
}

// Insert stores one publish: the replaced project document, the new release,
// its dependency edges, and the merged flags. It reports whether the project
// document was newly created.
func (s *Store) Insert(ctx context.Context, p catalog.Project, r catalog.Release, deps []catalog.DependencyEdge, at time.Time) (bool, error) {
	ref := p.Reference()

	res, err := s.db.Collection(colProjects).ReplaceOne(ctx, refFilter(ref), p, options.Replace().SetUpsert(true))
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.ErrCodeStorage, err, "storing project %s", ref.String())
	}
	isNew := res.UpsertedCount > 0

	if err := s.saveFlags(ctx, ref, p.Flags, at); err != nil {
		return false, err
	}
	if _, err := s.db.Collection(colReleases).ReplaceOne(ctx, coordinateFilter(r.Coordinate), r, options.Replace().SetUpsert(true)); err != nil {
		return false, pkgerrors.Wrap(pkgerrors.ErrCodeStorage, err, "storing release %s", r.Coordinate.String())
	}
	if err := s.saveEdges(ctx, deps); err != nil {
		return false, err
	}
	return isNew, nil
}

// UpdateMetadata attaches repository metadata to a stored project document.
func (s *Store) UpdateMetadata(ctx context.Context, ref catalog.RepositoryRef, info *catalog.GithubInfo, at time.Time) error {
	update := bson.M{"$set": bson.M{"github": info, "metadata_updated_at": at}}
	if _, err := s.db.Collection(colProjects).UpdateOne(ctx, refFilter(ref), update); err != nil {
		return pkgerrors.Wrap(pkgerrors.ErrCodeStorage, err, "updating metadata for %s", ref.String())
	}
	return nil
}

// SaveBatch persists the output of a batch run with bulk upserts.
func (s *Store) SaveBatch(ctx context.Context, result *catalog.BatchResult) error {
	now := time.Now().UTC()

	var projects []mongo.WriteModel
	for _, p := range result.Projects {
		projects = append(projects, mongo.NewReplaceOneModel().
			SetFilter(refFilter(p.Reference())).SetReplacement(p).SetUpsert(true))
		if err := s.saveFlags(ctx, p.Reference(), p.Flags, now); err != nil {
			return err
		}
	}
	if err := s.bulkWrite(ctx, colProjects, projects); err != nil {
		return err
	}

	var releases []mongo.WriteModel
	for _, r := range result.Releases {
		releases = append(releases, mongo.NewReplaceOneModel().
			SetFilter(coordinateFilter(r.Coordinate)).SetReplacement(r).SetUpsert(true))
	}
	if err := s.bulkWrite(ctx, colReleases, releases); err != nil {
		return err
	}

	return s.saveEdges(ctx, result.Dependencies)
}

// Close disconnects from MongoDB.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) saveFlags(ctx context.Context, ref catalog.RepositoryRef, flags catalog.StoredFlags, at time.Time) error {
	doc := settingsDoc{Organization: ref.Organization, Repository: ref.Repository, Flags: flags, UpdatedAt: at}
	_, err := s.db.Collection(colSettings).ReplaceOne(ctx, refFilter(ref), doc, options.Replace().SetUpsert(true))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.ErrCodeStorage, err, "storing settings for %s", ref.String())
	}
	return nil
}

func (s *Store) saveEdges(ctx context.Context, edges []catalog.DependencyEdge) error {
	var models []mongo.WriteModel
	for _, e := range edges {
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(edgeFilter(e)).SetReplacement(e).SetUpsert(true))
	}
	return s.bulkWrite(ctx, colDependencies, models)
}

func (s *Store) bulkWrite(ctx context.Context, col string, models []mongo.WriteModel) error {
	if len(models) == 0 {
		return nil
	}
	opts := options.BulkWrite().SetOrdered(false)
	if _, err := s.db.Collection(col).BulkWrite(ctx, models, opts); err != nil {
		return pkgerrors.Wrap(pkgerrors.ErrCodeStorage, err, "bulk writing %s", col)
	}
	return nil
}

var (
	_ catalog.PriorState    = (*Store)(nil)
	_ catalog.ProjectReader = (*Store)(nil)
	_ catalog.Sink          = (*Store)(nil)
)
