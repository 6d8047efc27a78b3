package catalog

import (
	"github.com/Masterminds/semver/v3"
)

// ReleaseSelector picks the canonical release of a repository for ranking
// purposes; its artifact becomes the project's default artifact. The
// tie-break rules are a policy decision, so the selector is pluggable.
type ReleaseSelector interface {
	Select(releases []Release) *Release
}

// StableFirst is the default selection policy: prefer stable versions over
// pre-releases, then the highest semantic version, then the Jvm target, then
// the lexicographically smallest artifact name. Releases with versions that
// do not parse as semantic versions rank below all parseable ones.
type StableFirst struct{}

var targetRank = map[TargetType]int{
	TargetJvm:    0,
	TargetJs:     1,
	TargetNative: 2,
	TargetSbt:    3,
	TargetJava:   4,
}

// Select returns the canonical release, or nil for an empty input.
func (StableFirst) Select(releases []Release) *Release {
	var best *Release
	var bestVer *semver.Version
	for i := range releases {
		r := &releases[i]
		v, err := semver.NewVersion(r.Coordinate.Version)
		if err != nil {
			v = nil
		}
		if best == nil || better(r, v, best, bestVer) {
			best, bestVer = r, v
		}
	}
	if best == nil {
		return nil
	}
	chosen := *best
	return &chosen
}

// better reports whether candidate (a, av) beats the current best (b, bv).
func better(a *Release, av *semver.Version, b *Release, bv *semver.Version) bool {
	if stable(av) != stable(bv) {
		return stable(av)
	}
	switch {
	case av == nil && bv == nil:
		// fall through to target/name tie-break
	case av == nil:
		return false
	case bv == nil:
		return true
	default:
		if c := av.Compare(bv); c != 0 {
			return c > 0
		}
	}
	if targetRank[a.Target] != targetRank[b.Target] {
		return targetRank[a.Target] < targetRank[b.Target]
	}
	return a.Coordinate.Artifact < b.Coordinate.Artifact
}

func stable(v *semver.Version) bool {
	return v != nil && v.Prerelease() == ""
}
