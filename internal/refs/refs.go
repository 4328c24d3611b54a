// Package refs stores the mutable names of the repository: branch pointers,
// the creation-ordered branch list, and HEAD.
package refs

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/eyue1777/minigit/internal/models"
)

// Store holds branch pointers and HEAD. Every write replaces a whole value;
// a failed write leaves the previous value intact and reports models.ErrRefWriteFailed.
type Store interface {
	// Read returns the commit a branch points at. An empty hash means the
	// branch exists but has no commits yet. Unknown branches return models.ErrNotFound.
	Read(ctx context.Context, branch string) (string, error)
	// Write points branch at commit, creating it if needed.
	Write(ctx context.Context, branch, commit string) error
	// CompareAndSwap writes next only if the branch still points at expected.
	// A missing branch matches an empty expected value.
	CompareAndSwap(ctx context.Context, branch, expected, next string) error
	// List returns branch names in creation order.
	List(ctx context.Context) ([]string, error)
	Exists(ctx context.Context, branch string) (bool, error)
	ReadHead(ctx context.Context) (models.Head, error)
	WriteHead(ctx context.Context, head models.Head) error
}

// ValidateBranchName rejects names that cannot be stored as a ref.
func ValidateBranchName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty branch name", models.ErrInvalidRefName)
	case name == "HEAD":
		return fmt.Errorf("%w: %q is reserved", models.ErrInvalidRefName, name)
	case strings.HasPrefix(name, "/"), strings.HasSuffix(name, "/"), strings.Contains(name, "//"):
		return fmt.Errorf("%w: %q has an empty path component", models.ErrInvalidRefName, name)
	case strings.HasPrefix(name, "-"):
		return fmt.Errorf("%w: %q starts with a dash", models.ErrInvalidRefName, name)
	case strings.ContainsAny(name, "~^:"):
		return fmt.Errorf("%w: %q contains a revision operator", models.ErrInvalidRefName, name)
	}
	for _, part := range strings.Split(name, "/") {
		if part == "." || part == ".." {
			return fmt.Errorf("%w: %q contains a relative component", models.ErrInvalidRefName, name)
		}
	}
	for _, r := range name {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return fmt.Errorf("%w: %q contains whitespace or control characters", models.ErrInvalidRefName, name)
		}
	}
	return nil
}
