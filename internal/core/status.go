package core

import (
	"context"
	"slices"
)

// Status describes the working tree relative to HEAD and the staging list.
type Status struct {
	Branch    string // Empty if detached
	Commit    string
	Staged    []string // paths staged with content HEAD does not record
	Unstaged  []string // tracked paths staged for removal
	Modified  []string // tracked files whose content differs from what the next commit records
	Deleted   []string // tracked files missing from disk
	Untracked []string
}

// HasChanges reports staged or modified tracked files. Untracked files do not count.
func (s *Status) HasChanges() bool {
	return len(s.Staged)+len(s.Unstaged)+len(s.Modified)+len(s.Deleted) > 0
}

// GetStatus compares the working set against HEAD's manifest with the staged
// changes applied.
func GetStatus(ctx context.Context, repo *Repository) (*Status, error) {
	head, err := repo.Refs.ReadHead(ctx)
	if err != nil {
		return nil, err
	}
	commitID, err := repo.currentCommit(ctx, head)
	if err != nil {
		return nil, err
	}
	base, err := repo.manifestOf(ctx, commitID)
	if err != nil {
		return nil, err
	}
	pending, err := repo.Stage.Pending()
	if err != nil {
		return nil, err
	}
	changes := pending.Against(base)

	status := &Status{
		Branch:   head.Branch,
		Commit:   commitID,
		Staged:   changes.Updated.Paths(),
		Unstaged: slices.Clone(changes.Removed),
	}

	expected := changes.Apply(base)
	files, err := repo.Tree.TrackedFiles(ctx)
	if err != nil {
		return nil, err
	}

	present := make(map[string]bool, len(files))
	for _, path := range files {
		present[path] = true
		hash, tracked := expected.Lookup(path)
		if !tracked {
			status.Untracked = append(status.Untracked, path)
			continue
		}
		same, err := contentMatches(repo, path, hash)
		if err != nil {
			return nil, err
		}
		if !same {
			status.Modified = append(status.Modified, path)
		}
	}
	for _, path := range expected.Paths() {
		if !present[path] && !repo.Tree.Ignored(path) {
			status.Deleted = append(status.Deleted, path)
		}
	}
	return status, nil
}

func contentMatches(repo *Repository, path, hash string) (bool, error) {
	data, err := repo.Tree.ReadFile(path)
	if err != nil {
		return false, err
	}
	sum, err := repo.Hasher.Sum(data)
	if err != nil {
		return false, err
	}
	return sum == hash, nil
}
