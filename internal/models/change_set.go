package models

// ResolveMode selects how the file set for a run was determined.
type ResolveMode string

const (
	// ModeFull considers every non-excluded source file under the clone.
	ModeFull ResolveMode = "FULL"
	// ModeIncremental considers only files changed since the last
	// recorded commit.
	ModeIncremental ResolveMode = "INCREMENTAL"
)

// ChangeSet is the resolved, ordered set of files a run will document.
// Files are repo-relative slash paths, unique, lexically sorted, and already
// filtered against exclusion patterns and the test-root rule.
type ChangeSet struct {
	Mode  ResolveMode `json:"mode"`
	Files []string    `json:"files"`
}

// Empty reports whether the run has nothing to do.
func (c ChangeSet) Empty() bool {
	return len(c.Files) == 0
}
