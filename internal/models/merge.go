package models

// MergeOutcome classifies how a merge finished.
type MergeOutcome string

const (
	MergeClean       MergeOutcome = "clean"
	MergeConflicted  MergeOutcome = "conflict"
	MergeFastForward MergeOutcome = "fast-forward"
	MergeRejected    MergeOutcome = "rejected"
)

// MergeConflictType identifies the type of merge conflict
type MergeConflictType string

const (
	ConflictModifyModify MergeConflictType = "modify-modify" // Both modified differently
	ConflictDeleteModify MergeConflictType = "delete-modify" // We deleted, they modified
	ConflictModifyDelete MergeConflictType = "modify-delete" // We modified, they deleted
	ConflictAddAdd       MergeConflictType = "add-add"       // Both added with different content
)

// MergeConflict represents a path that could not be merged automatically.
// Empty hashes mean the path was absent on that side.
type MergeConflict struct {
	Path   string
	Type   MergeConflictType
	Base   string
	Ours   string
	Theirs string
}

// MergeResult contains the outcome of a merge operation
type MergeResult struct {
	Outcome     MergeOutcome
	Reason      string // why a merge was rejected
	Base        string // merge base commit, empty for fast-forward from an unborn branch
	Ours        string
	Theirs      string
	MergeCommit *Commit          // nil unless Outcome is MergeClean
	Conflicts   []*MergeConflict // sorted by path
	TakenTheirs []string         // paths whose content came from the other branch
	Removed     []string         // paths deleted because the other branch deleted them
	Warnings    []string         // Non-fatal warnings
}

// Success reports whether the merge finished without conflicts or rejection.
func (r *MergeResult) Success() bool {
	return r.Outcome == MergeClean || r.Outcome == MergeFastForward
}

// MergeOptions configures merge behavior
type MergeOptions struct {
	Message string // Custom merge commit message
}
