package catalog

import (
	"sort"
	"time"
)

// BuildProject folds the newly built releases for one repository together
// with the previously stored releases for the same repository into a project
// aggregate. Date range, counts, and version lists are always computed over
// the union, never over the new releases alone. Returns false when the union
// is empty (nothing to aggregate, no project emitted).
//
// A nil selector falls back to the StableFirst policy.
func BuildProject(ref RepositoryRef, fresh, stored []Release, sel ReleaseSelector) (Project, bool) {
	union := DedupReleases(append(append([]Release{}, fresh...), stored...))
	if len(union) == 0 {
		return Project{}, false
	}
	if sel == nil {
		sel = StableFirst{}
	}

	p := Project{
		Organization: ref.Organization,
		Repository:   ref.Repository,
		Flags:        DefaultFlags(),
	}

	versions := make(map[string]bool)
	for _, r := range union {
		versions[r.Coordinate.Version] = true
		p.Artifacts = insertDistinct(p.Artifacts, r.Coordinate.Artifact)
		p.TargetTypes = insertDistinct(p.TargetTypes, string(r.Target))
		p.LanguageVersions = insertDistinct(p.LanguageVersions, r.LanguageVersion)
		p.JsVersions = insertDistinct(p.JsVersions, r.JsVersion)
		p.NativeVersions = insertDistinct(p.NativeVersions, r.NativeVersion)
		p.SbtVersions = insertDistinct(p.SbtVersions, r.SbtVersion)
	}
	p.ReleaseCount = len(versions)
	p.LastUpdated, p.Created = dateRange(union)

	if canonical := sel.Select(union); canonical != nil {
		p.DefaultArtifact = canonical.Coordinate.Artifact
	}
	return p, true
}

// AddRelease extends an existing project aggregate by exactly one release
// without recomputing the full union. Used by the incremental publish
// pipeline, where reprocessing the whole catalog per publish event is
// disallowed. A nil existing project seeds a new aggregate from the single
// release.
func AddRelease(existing *Project, rel Release, sel ReleaseSelector) Project {
	if existing == nil {
		p, _ := BuildProject(rel.Coordinate.Repo(), []Release{rel}, nil, sel)
		return p
	}

	p := *existing
	p.Artifacts = insertDistinct(append([]string{}, existing.Artifacts...), rel.Coordinate.Artifact)
	p.TargetTypes = insertDistinct(append([]string{}, existing.TargetTypes...), string(rel.Target))
	p.LanguageVersions = insertDistinct(append([]string{}, existing.LanguageVersions...), rel.LanguageVersion)
	p.JsVersions = insertDistinct(append([]string{}, existing.JsVersions...), rel.JsVersion)
	p.NativeVersions = insertDistinct(append([]string{}, existing.NativeVersions...), rel.NativeVersion)
	p.SbtVersions = insertDistinct(append([]string{}, existing.SbtVersions...), rel.SbtVersion)
	p.ReleaseCount = existing.ReleaseCount + 1

	if t, err := time.Parse(time.RFC3339, rel.ReleasedAt); err == nil {
		if last, err := time.Parse(time.RFC3339, p.LastUpdated); err != nil || t.After(last) {
			p.LastUpdated = rel.ReleasedAt
		}
		if first, err := time.Parse(time.RFC3339, p.Created); err != nil || t.Before(first) {
			p.Created = rel.ReleasedAt
		}
	}
	return p
}

// dateRange returns the latest and earliest release date strings. Each
// release's date string is parsed, the set is sorted descending, and the
// head and last elements are taken; equal instants keep their original
// string form, so no separate tie-break is needed.
func dateRange(releases []Release) (latest, earliest string) {
	type dated struct {
		t time.Time
		s string
	}
	var ds []dated
	for _, r := range releases {
		if t, err := time.Parse(time.RFC3339, r.ReleasedAt); err == nil {
			ds = append(ds, dated{t, r.ReleasedAt})
		}
	}
	if len(ds) == 0 {
		return "", ""
	}
	sort.Slice(ds, func(i, j int) bool { return ds[i].t.After(ds[j].t) })
	return ds[0].s, ds[len(ds)-1].s
}
