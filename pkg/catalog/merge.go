package catalog

// MergeState reconciles a freshly computed project aggregate with previously
// stored flags for the same repository. Prior state only ever supplies
// operator flags; every data-derived field (artifact lists, version lists,
// dates, counts) always comes from the fresh computation, so no field is
// contested and merge conflicts cannot occur. A nil prior applies defaults.
func MergeState(fresh Project, prior *StoredFlags) Project {
	if prior == nil {
		fresh.Flags = DefaultFlags()
		return fresh
	}
	fresh.Flags = *prior
	return fresh
}
