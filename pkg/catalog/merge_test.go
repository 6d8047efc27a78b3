package catalog

import (
	"reflect"
	"testing"
)

func TestMergeStateNilPriorAppliesDefaults(t *testing.T) {
	fresh := Project{Organization: "acme", Repository: "lib"}
	got := MergeState(fresh, nil)
	if !reflect.DeepEqual(got.Flags, DefaultFlags()) {
		t.Errorf("Flags = %+v, want defaults %+v", got.Flags, DefaultFlags())
	}
}

func TestMergeStatePreservesOperatorFlags(t *testing.T) {
	fresh := Project{
		Organization: "acme",
		Repository:   "lib",
		Artifacts:    []string{"lib"},
		ReleaseCount: 3,
		Flags:        DefaultFlags(),
	}
	prior := &StoredFlags{
		StrictVersions:       false,
		Deprecated:           true,
		ArtifactDeprecations: []string{"lib-old"},
	}

	got := MergeState(fresh, prior)

	if !reflect.DeepEqual(got.Flags, *prior) {
		t.Errorf("Flags = %+v, want prior %+v", got.Flags, *prior)
	}
	// Data-derived fields always come from the fresh computation.
	if got.ReleaseCount != 3 || !reflect.DeepEqual(got.Artifacts, []string{"lib"}) {
		t.Errorf("data fields changed: %+v", got)
	}
}
