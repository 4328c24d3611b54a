package models

// Branch represents a named reference to a commit. An empty CommitID marks a
// branch that exists in the branch list but has no commits yet.
type Branch struct {
	Name     string `json:"name"`
	CommitID string `json:"commit_id"`
	Current  bool   `json:"current"`
}
