package models

import (
	"fmt"
	"strings"
)

const (
	headRefPrefix   = "ref: "
	headRefMarker   = "ref:"
	legacyRefPrefix = "refs/heads/"
)

// Head is the current checkout position: attached to a branch name, or
// detached at a literal commit hash. Exactly one of the fields is set.
type Head struct {
	Branch string
	Commit string
}

// AttachedHead returns a HEAD that follows the named branch.
func AttachedHead(branch string) Head {
	return Head{Branch: branch}
}

// DetachedHead returns a HEAD pinned to a commit.
func DetachedHead(commit string) Head {
	return Head{Commit: commit}
}

// IsDetached returns true when HEAD is not on a branch
func (h Head) IsDetached() bool {
	return h.Branch == ""
}

// String returns the persisted form: "ref: <branch>" or the commit hash.
func (h Head) String() string {
	if h.IsDetached() {
		return h.Commit
	}
	return headRefPrefix + h.Branch
}

// ParseHead parses the persisted HEAD value. The older "ref: refs/heads/<b>"
// form is accepted as well. A detached value must be a lowercase hex hash.
func ParseHead(s string) (Head, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Head{}, fmt.Errorf("empty HEAD: %w", ErrNotFound)
	}
	if name, ok := strings.CutPrefix(s, headRefMarker); ok {
		name = strings.TrimPrefix(strings.TrimSpace(name), legacyRefPrefix)
		if name == "" {
			return Head{}, fmt.Errorf("HEAD ref has no branch name: %w", ErrInvalidRefName)
		}
		return AttachedHead(name), nil
	}
	if !isHex(s) {
		return Head{}, fmt.Errorf("HEAD %q is neither a ref nor a commit hash: %w", s, ErrInvalidRefName)
	}
	return DetachedHead(s), nil
}

func isHex(s string) bool {
	for _, r := range s {
		if !strings.ContainsRune("0123456789abcdef", r) {
			return false
		}
	}
	return true
}
