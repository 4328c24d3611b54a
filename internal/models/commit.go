package models

import "slices"

// Commit is an immutable snapshot of the tracked files with links to its parents.
// ID is derived from the canonical encoding and is not part of it.
type Commit struct {
	ID        string   `json:"id,omitempty"`
	Message   string   `json:"message"`
	Timestamp int64    `json:"timestamp"`
	Parents   []string `json:"parents,omitempty"`
	Branch    string   `json:"branch"`
	Files     Manifest `json:"files"`
}

// ShortID returns a shortened commit ID (first 7 characters)
func (c *Commit) ShortID() string {
	if len(c.ID) > 7 {
		return c.ID[:7]
	}
	return c.ID
}

// IsMergeCommit returns true if this commit has two or more parents
func (c *Commit) IsMergeCommit() bool {
	return len(c.Parents) > 1
}

// IsRoot reports whether the commit has no parents.
func (c *Commit) IsRoot() bool {
	return len(c.Parents) == 0
}

// FirstParent returns the mainline parent, or "" for a root commit.
func (c *Commit) FirstParent() string {
	if len(c.Parents) == 0 {
		return ""
	}
	return c.Parents[0]
}

// Equal compares commit content. Parents are compared as a multiset: order
// only matters for display.
func (c *Commit) Equal(o *Commit) bool {
	if c == nil || o == nil {
		return c == o
	}
	if c.Message != o.Message || c.Timestamp != o.Timestamp || c.Branch != o.Branch {
		return false
	}
	if len(c.Parents) != len(o.Parents) {
		return false
	}
	a := slices.Clone(c.Parents)
	b := slices.Clone(o.Parents)
	slices.Sort(a)
	slices.Sort(b)
	if !slices.Equal(a, b) {
		return false
	}
	return c.Files.Equal(o.Files)
}
