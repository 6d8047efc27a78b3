package catalog

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

const validPom = `<?xml version="1.0" encoding="UTF-8"?>
<project>
  <groupId>org.acme</groupId>
  <artifactId>lib_2.13</artifactId>
  <version>1.0.0</version>
  <name>Acme Lib</name>
  <scm><url>https://github.com/acme/lib</url></scm>
  <dependencies>
    <dependency>
      <groupId>org.dep</groupId>
      <artifactId>core_2.13</artifactId>
      <version>2.0.0</version>
    </dependency>
  </dependencies>
</project>`

const noRepoPom = `<?xml version="1.0" encoding="UTF-8"?>
<project>
  <groupId>org.acme</groupId>
  <artifactId>lib_2.13</artifactId>
  <version>1.0.0</version>
</project>`

const badVersionPom = `<?xml version="1.0" encoding="UTF-8"?>
<project>
  <groupId>org.acme</groupId>
  <artifactId>lib_2.13</artifactId>
  <version>latest and greatest</version>
  <scm><url>https://github.com/acme/lib</url></scm>
</project>`

// fakeStore is an in-test Sink, PriorState, and ProjectReader.
type fakeStore struct {
	mu       sync.Mutex
	projects map[RepositoryRef]Project
	flags    map[RepositoryRef]*StoredFlags
	inserts  int
	metadata chan RepositoryRef
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		projects: make(map[RepositoryRef]Project),
		flags:    make(map[RepositoryRef]*StoredFlags),
		metadata: make(chan RepositoryRef, 1),
	}
}

func (f *fakeStore) ReleasesOf(context.Context, RepositoryRef) ([]Release, error) { return nil, nil }

func (f *fakeStore) FlagsOf(_ context.Context, ref RepositoryRef) (*StoredFlags, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.flags[ref], nil
}

func (f *fakeStore) ProjectOf(_ context.Context, ref RepositoryRef) (*Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.projects[ref]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (f *fakeStore) Insert(_ context.Context, p Project, _ Release, _ []DependencyEdge, _ time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ref := p.Reference()
	_, exists := f.projects[ref]
	f.projects[ref] = p
	f.flags[ref] = &p.Flags
	f.inserts++
	return !exists, nil
}

func (f *fakeStore) UpdateMetadata(_ context.Context, ref RepositoryRef, _ *GithubInfo, _ time.Time) error {
	select {
	case f.metadata <- ref:
	default:
	}
	return nil
}

func (f *fakeStore) insertCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.inserts
}

type fakeMetadata struct{}

func (fakeMetadata) Read(context.Context, RepositoryRef) (*GithubInfo, error) {
	return &GithubInfo{Stars: 42}, nil
}

func newPublisher(st *fakeStore) *Publisher {
	return &Publisher{
		Resolver: stubResolver{},
		Prior:    st,
		Projects: st,
		Sink:     st,
	}
}

func TestPublishNewProject(t *testing.T) {
	st := newFakeStore()
	p := newPublisher(st)

	created := time.Date(2023, 5, 1, 12, 0, 0, 0, time.UTC)
	result, err := p.Publish(context.Background(), []byte(validPom), nil, created)
	if err != nil {
		t.Fatalf("Publish() error: %v", err)
	}

	pub, ok := result.(Published)
	if !ok {
		t.Fatalf("Publish() = %T, want Published", result)
	}
	if !pub.NewProject {
		t.Error("NewProject = false, want true for first publish")
	}
	if pub.Project.ReleaseCount != 1 {
		t.Errorf("ReleaseCount = %d, want 1", pub.Project.ReleaseCount)
	}
	if got := pub.Release.Coordinate.String(); got != "acme/lib/lib@1.0.0:2.13" {
		t.Errorf("coordinate = %s", got)
	}
	if pub.Release.ReleasedAt != "2023-05-01T12:00:00Z" {
		t.Errorf("ReleasedAt = %s", pub.Release.ReleasedAt)
	}
	if !pub.Project.Flags.StrictVersions {
		t.Error("new project should carry default flags")
	}
}

func TestPublishSecondReleaseExtendsProject(t *testing.T) {
	st := newFakeStore()
	p := newPublisher(st)
	ctx := context.Background()

	if _, err := p.Publish(ctx, []byte(validPom), nil, time.Now()); err != nil {
		t.Fatal(err)
	}
	second := []byte(strings.ReplaceAll(validPom, "1.0.0", "1.1.0"))
	result, err := p.Publish(ctx, second, nil, time.Now())
	if err != nil {
		t.Fatal(err)
	}

	pub, ok := result.(Published)
	if !ok {
		t.Fatalf("Publish() = %T, want Published", result)
	}
	if pub.NewProject {
		t.Error("NewProject = true, want false for existing project")
	}
	if pub.Project.ReleaseCount != 2 {
		t.Errorf("ReleaseCount = %d, want 2", pub.Project.ReleaseCount)
	}
}

func TestPublishInvalidPomNeverHitsSink(t *testing.T) {
	st := newFakeStore()
	p := newPublisher(st)

	for name, payload := range map[string]string{
		"garbage":     "not xml at all <<<",
		"bad version": badVersionPom,
	} {
		t.Run(name, func(t *testing.T) {
			result, err := p.Publish(context.Background(), []byte(payload), nil, time.Now())
			if err != nil {
				t.Fatalf("Publish() error: %v", err)
			}
			if _, ok := result.(InvalidPom); !ok {
				t.Errorf("Publish() = %T, want InvalidPom", result)
			}
		})
	}
	if st.insertCount() != 0 {
		t.Errorf("sink received %d inserts, want 0", st.insertCount())
	}
}

func TestPublishNoGithubRepo(t *testing.T) {
	st := newFakeStore()
	p := newPublisher(st)

	result, err := p.Publish(context.Background(), []byte(noRepoPom), nil, time.Now())
	if err != nil {
		t.Fatalf("Publish() error: %v", err)
	}
	res, ok := result.(NoGithubRepo)
	if !ok {
		t.Fatalf("Publish() = %T, want NoGithubRepo", result)
	}
	if res.Coordinate != "org.acme:lib_2.13" {
		t.Errorf("Coordinate = %s", res.Coordinate)
	}
	if st.insertCount() != 0 {
		t.Errorf("sink received %d inserts, want 0", st.insertCount())
	}
}

func TestPublishAuthorization(t *testing.T) {
	acmeLib := RepositoryRef{Organization: "acme", Repository: "lib"}

	tests := []struct {
		name    string
		id      *Identity
		allowed bool
	}{
		{"nil identity is trusted", nil, true},
		{"blanket grant", &Identity{Login: "admin", CanPublishAll: true}, true},
		{"matching repository grant", &Identity{Login: "dev", Repositories: []RepositoryRef{acmeLib}}, true},
		{"no grant", &Identity{Login: "stranger"}, false},
		{"wrong repository grant", &Identity{Login: "dev", Repositories: []RepositoryRef{{Organization: "other", Repository: "x"}}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := newFakeStore()
			p := newPublisher(st)

			result, err := p.Publish(context.Background(), []byte(validPom), tt.id, time.Now())
			if err != nil {
				t.Fatalf("Publish() error: %v", err)
			}
			if tt.allowed {
				if _, ok := result.(Published); !ok {
					t.Errorf("Publish() = %T, want Published", result)
				}
			} else {
				res, ok := result.(Forbidden)
				if !ok {
					t.Fatalf("Publish() = %T, want Forbidden", result)
				}
				if res.Repository != acmeLib {
					t.Errorf("Forbidden.Repository = %v", res.Repository)
				}
				if st.insertCount() != 0 {
					t.Error("forbidden publish must not hit the sink")
				}
			}
		})
	}
}

func TestPublishPreservesStoredFlags(t *testing.T) {
	st := newFakeStore()
	ref := RepositoryRef{Organization: "acme", Repository: "lib"}
	st.flags[ref] = &StoredFlags{StrictVersions: false, Deprecated: true}
	p := newPublisher(st)

	result, err := p.Publish(context.Background(), []byte(validPom), nil, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	pub := result.(Published)
	if !pub.Project.Flags.Deprecated || pub.Project.Flags.StrictVersions {
		t.Errorf("Flags = %+v, want stored operator flags", pub.Project.Flags)
	}
}

func TestPublishRefreshesMetadataForNewProjects(t *testing.T) {
	st := newFakeStore()
	p := newPublisher(st)
	p.Metadata = fakeMetadata{}

	result, err := p.Publish(context.Background(), []byte(validPom), nil, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := result.(Published); !ok {
		t.Fatalf("Publish() = %T, want Published", result)
	}

	select {
	case ref := <-st.metadata:
		if ref.String() != "acme/lib" {
			t.Errorf("metadata refreshed for %s, want acme/lib", ref)
		}
	case <-time.After(2 * time.Second):
		t.Error("metadata refresh never reached the sink")
	}
}
